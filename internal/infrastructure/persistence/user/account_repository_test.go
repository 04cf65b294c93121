package user

import (
	"log/slog"
	"testing"
	"time"

	domain "github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"golang.org/x/crypto/bcrypt"
)

func newTestRepository(t *testing.T) *SQLAccountRepository {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
	})
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	db, err := database.NewConnection("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection, or each pooled conn gets its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return NewSQLAccountRepository(db, logger)
}

func testAccount(t *testing.T, password string) *domain.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.Account{
		ID:           "acct-1",
		Email:        "owner@example.com",
		PasswordHash: string(hash),
		DisplayName:  "Shop Owner",
		Created:      time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAccountStoreAndFind(t *testing.T) {
	repo := newTestRepository(t)
	account := testAccount(t, "hunter22")

	if err := repo.Store(account); err != nil {
		t.Fatalf("Store: %v", err)
	}

	byID, err := repo.FindByID("acct-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != "owner@example.com" || byID.DisplayName != "Shop Owner" {
		t.Errorf("FindByID = %+v", byID)
	}
	if byID.Changed != nil {
		t.Errorf("Changed should be nil for a fresh account, got %v", byID.Changed)
	}

	byEmail, err := repo.FindByEmail("owner@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != "acct-1" {
		t.Errorf("FindByEmail = %+v", byEmail)
	}

	missing, err := repo.FindByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestAccountUpdate(t *testing.T) {
	repo := newTestRepository(t)
	account := testAccount(t, "hunter22")
	if err := repo.Store(account); err != nil {
		t.Fatal(err)
	}

	changed := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	account.DisplayName = "Renamed Owner"
	account.Changed = &changed
	if err := repo.Update(account); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.FindByID("acct-1")
	if err != nil || got == nil {
		t.Fatalf("FindByID after update: %v, %v", got, err)
	}
	if got.DisplayName != "Renamed Owner" {
		t.Errorf("DisplayName = %q", got.DisplayName)
	}
	if got.Changed == nil {
		t.Error("Changed should be set after update")
	}
}

func TestValidateCredentials(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.Store(testAccount(t, "hunter22")); err != nil {
		t.Fatal(err)
	}

	account, err := repo.ValidateCredentials("owner@example.com", "hunter22")
	if err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if account == nil || account.ID != "acct-1" {
		t.Errorf("valid credentials rejected: %+v", account)
	}

	// A wrong password is (nil, nil), not an error.
	wrong, err := repo.ValidateCredentials("owner@example.com", "wrong")
	if err != nil {
		t.Fatalf("wrong password: %v", err)
	}
	if wrong != nil {
		t.Error("wrong password should not validate")
	}

	unknown, err := repo.ValidateCredentials("nobody@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	if unknown != nil {
		t.Error("unknown email should not validate")
	}
}
