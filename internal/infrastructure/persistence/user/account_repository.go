// Package user provides the SQL-based implementation of the account repository.
package user

import (
	"database/sql"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/user"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"golang.org/x/crypto/bcrypt"
)

// SQLAccountRepository is the SQL-based implementation of AccountRepository.
type SQLAccountRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

func NewSQLAccountRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLAccountRepository {
	return &SQLAccountRepository{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves an account by its unique identifier.
func (r *SQLAccountRepository) FindByID(id string) (*user.Account, error) {
	const query = `
		SELECT id, email, password_hash, display_name, created, changed
		FROM users
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading account by ID", "id", id)

	row := r.db.QueryRow(query, id)
	account, err := r.scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("Account not found by ID", "id", id)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load account by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return account, nil
}

// FindByEmail retrieves an account by its email address.
func (r *SQLAccountRepository) FindByEmail(email string) (*user.Account, error) {
	const query = `
		SELECT id, email, password_hash, display_name, created, changed
		FROM users
		WHERE email = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading account by email", "email", email)

	row := r.db.QueryRow(query, email)
	account, err := r.scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("Account not found by email", "email", email)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load account by email", "error", err.Error(), "email", email)
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return account, nil
}

// Store saves a new account to the database.
func (r *SQLAccountRepository) Store(account *user.Account) error {
	const query = `
		INSERT INTO users (id, email, password_hash, display_name, created, changed)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing account insert", "id", account.ID, "email", account.Email)

	_, err := r.db.Exec(
		query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Created,
		account.Changed,
	)
	if err != nil {
		r.logger.Database().Error("Account insert failed", "error", err.Error(), "id", account.ID, "email", account.Email)
		return err
	}

	r.logger.Database().Info("Account insert completed", "id", account.ID, "email", account.Email, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Update modifies an existing account in the database.
func (r *SQLAccountRepository) Update(account *user.Account) error {
	const query = `
		UPDATE users
		SET email = ?, password_hash = ?, display_name = ?, changed = ?
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing account update", "id", account.ID)

	_, err := r.db.Exec(
		query,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Changed,
		account.ID,
	)
	if err != nil {
		r.logger.Database().Error("Account update failed", "error", err.Error(), "id", account.ID)
		return err
	}

	r.logger.Database().Info("Account update completed", "id", account.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// ValidateCredentials checks the email/password combination and returns the
// account when it matches. A wrong password returns (nil, nil), not an error.
func (r *SQLAccountRepository) ValidateCredentials(email, password string) (*user.Account, error) {
	start := time.Now()

	account, err := r.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		r.logger.Database().Debug("Credential validation failed, account not found", "email", email)
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		r.logger.Database().Debug("Credential validation failed, password mismatch", "email", email)
		return nil, nil
	}

	r.logger.Database().Info("Credential validation completed", "email", email, "accountId", account.ID, "duration", time.Since(start))
	return account, nil
}

func (r *SQLAccountRepository) scanAccount(row *sql.Row) (*user.Account, error) {
	var account user.Account
	var changed sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.Created,
		&changed,
	)
	if err != nil {
		return nil, err
	}

	if changed.Valid {
		account.Changed = &changed.Time
	}

	return &account, nil
}
