package services

import (
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/editing"
	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/manager"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/logging"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/observability/performance"
	persistence "github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	_ "github.com/mattn/go-sqlite3"
)

func newWebsiteService(t *testing.T) (*WebsiteService, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection, or each pooled conn gets its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.NewTableCreator().CreateSchema(db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
	})
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	cache := manager.NewManager(nil)
	service := NewWebsiteService(
		persistence.NewWebsiteRepository(db, cache),
		persistence.NewTemplateRepository(db, cache),
		logger,
		performance.NewTracker(nil),
	)
	return service, db
}

func seedTemplate(t *testing.T, db *sql.DB, id, html string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO templates (id, name, category, html, created) VALUES (?, ?, ?, ?, ?)`,
		id, "Template "+id, "general", html, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("seed template: %v", err)
	}
}

func TestGetOrCreateLazyCreate(t *testing.T) {
	service, db := newWebsiteService(t)
	seedTemplate(t, db, "tpl-1", "<html><body><h1>Hi</h1></body></html>")

	website, created, err := service.GetOrCreate("user-1", "tpl-1", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created {
		t.Error("first touch should create a website")
	}
	if website.WebsiteName != "Template tpl-1" {
		t.Errorf("name should default to the template name, got %q", website.WebsiteName)
	}
	if website.Status != content.StatusDraft {
		t.Errorf("status = %q", website.Status)
	}
	if website.TemplateHash != editing.TemplateHash("<html><body><h1>Hi</h1></body></html>") {
		t.Error("template hash not recorded at creation")
	}
}

func TestGetOrCreateRecoversExisting(t *testing.T) {
	service, db := newWebsiteService(t)
	seedTemplate(t, db, "tpl-1", "<html/>")

	first, _, err := service.GetOrCreate("user-1", "tpl-1", "Mine")
	if err != nil {
		t.Fatal(err)
	}

	second, created, err := service.GetOrCreate("user-1", "tpl-1", "Other Name")
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if created {
		t.Error("second touch must recover, not create")
	}
	if second.ID != first.ID {
		t.Errorf("recovered %s, want %s", second.ID, first.ID)
	}

	// A different user on the same template gets their own website.
	other, created, err := service.GetOrCreate("user-2", "tpl-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if !created || other.ID == first.ID {
		t.Error("websites must be scoped per user")
	}
}

func TestGetOrCreateUnknownTemplate(t *testing.T) {
	service, _ := newWebsiteService(t)

	if _, _, err := service.GetOrCreate("user-1", "missing", ""); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestGetForUserOwnership(t *testing.T) {
	service, db := newWebsiteService(t)
	seedTemplate(t, db, "tpl-1", "<html/>")

	website, _, err := service.GetOrCreate("user-1", "tpl-1", "")
	if err != nil {
		t.Fatal(err)
	}

	mine, err := service.GetForUser(website.ID, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if mine == nil {
		t.Error("owner should see their website")
	}

	theirs, err := service.GetForUser(website.ID, "user-2")
	if err != nil {
		t.Fatal(err)
	}
	if theirs != nil {
		t.Error("another user's website must read as not found")
	}
}

func TestSaveCustomizationsRefreshesHash(t *testing.T) {
	service, db := newWebsiteService(t)
	seedTemplate(t, db, "tpl-1", "<html>v1</html>")

	website, _, err := service.GetOrCreate("user-1", "tpl-1", "")
	if err != nil {
		t.Fatal(err)
	}

	edits := map[string]string{"text-3-0": "Welcome"}
	if err := service.SaveCustomizations(website, edits, "<html>v2</html>"); err != nil {
		t.Fatalf("SaveCustomizations: %v", err)
	}

	got, err := service.GetByID(website.ID)
	if err != nil || got == nil {
		t.Fatalf("reload: %v, %v", got, err)
	}
	if got.Customizations["text-3-0"] != "Welcome" {
		t.Errorf("customizations not persisted: %v", got.Customizations)
	}
	if got.TemplateHash != editing.TemplateHash("<html>v2</html>") {
		t.Error("template hash not refreshed on save")
	}
}

func TestCheckTemplateDrift(t *testing.T) {
	service, _ := newWebsiteService(t)

	template := &content.TemplateNode{ID: "tpl-1", HTML: "<html>v1</html>"}
	website := &content.WebsiteNode{ID: "site-1", TemplateHash: editing.TemplateHash("<html>v1</html>")}

	if service.CheckTemplateDrift(website, template) {
		t.Error("matching hash should not report drift")
	}

	template.HTML = "<html>v2</html>"
	if !service.CheckTemplateDrift(website, template) {
		t.Error("changed template should report drift")
	}

	// Legacy rows without a recorded hash never drift.
	website.TemplateHash = ""
	if service.CheckTemplateDrift(website, template) {
		t.Error("empty stored hash should not report drift")
	}
}
