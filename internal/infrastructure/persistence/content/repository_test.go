package content

import (
	"database/sql"
	"testing"
	"time"

	entities "github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/manager"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/persistence/database"
	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
)

const testAESKey = "0123456789abcdef0123456789abcdef"

func newTestDB(t *testing.T) *sql.DB {
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
	return db
}

func testClock(offset time.Duration) time.Time {
	return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC).Add(offset)
}

func TestTemplateRepositoryStoreAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewTemplateRepository(db, manager.NewManager(nil))

	desc := "Landing page"
	template := &entities.TemplateNode{
		ID:          "tpl-1",
		Name:        "Barber",
		Category:    "beauty",
		Description: &desc,
		HTML:        "<html><body><h1>Hi</h1></body></html>",
		Created:     testClock(0),
	}
	if err := repo.Store(template); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// A repository with a cold cache must read the row back from the DB.
	cold := NewTemplateRepository(db, manager.NewManager(nil))
	got, err := cold.FindByID("tpl-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("template not found")
	}
	if got.Name != "Barber" || got.Category != "beauty" || got.HTML != template.HTML {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Description == nil || *got.Description != desc {
		t.Errorf("description = %v", got.Description)
	}
	if got.NodeType != "Template" {
		t.Errorf("nodeType = %q", got.NodeType)
	}

	missing, err := cold.FindByID("nope")
	if err != nil {
		t.Fatalf("FindByID(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestTemplateRepositoryFindAllAndCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewTemplateRepository(db, manager.NewManager(nil))

	for _, tpl := range []*entities.TemplateNode{
		{ID: "tpl-a", Name: "Alpha", Category: "beauty", HTML: "<html/>", Created: testClock(0)},
		{ID: "tpl-b", Name: "Beta", Category: "trades", HTML: "<html/>", Created: testClock(time.Minute)},
		{ID: "tpl-c", Name: "Gamma", Category: "beauty", HTML: "<html/>", Created: testClock(2 * time.Minute)},
	} {
		if err := repo.Store(tpl); err != nil {
			t.Fatalf("Store %s: %v", tpl.ID, err)
		}
	}

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("FindAll returned %d templates", len(all))
	}

	beauty, err := repo.FindByCategory("beauty")
	if err != nil {
		t.Fatalf("FindByCategory: %v", err)
	}
	ids := make([]string, 0, len(beauty))
	for _, tpl := range beauty {
		ids = append(ids, tpl.ID)
	}
	if diff := cmp.Diff([]string{"tpl-a", "tpl-c"}, ids); diff != "" {
		t.Errorf("category filter mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateRepositoryUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTemplateRepository(db, manager.NewManager(nil))

	template := &entities.TemplateNode{ID: "tpl-1", Name: "Old", HTML: "<html>v1</html>", Created: testClock(0)}
	if err := repo.Store(template); err != nil {
		t.Fatal(err)
	}

	template.Name = "New"
	template.HTML = "<html>v2</html>"
	if err := repo.Update(template); err != nil {
		t.Fatalf("Update: %v", err)
	}

	cold := NewTemplateRepository(db, manager.NewManager(nil))
	got, err := cold.FindByID("tpl-1")
	if err != nil || got == nil {
		t.Fatalf("FindByID after update: %v, %v", got, err)
	}
	if got.Name != "New" || got.HTML != "<html>v2</html>" {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := repo.Delete("tpl-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := cold.FindByID("tpl-1")
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil && gone.Name == "New" {
		// The cold repo may still hold its own cached copy; a fresh one must not.
		fresh, _ := NewTemplateRepository(db, manager.NewManager(nil)).FindByID("tpl-1")
		if fresh != nil {
			t.Error("template still readable after delete")
		}
	}
}

func TestWebsiteRepositoryCustomizationsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewWebsiteRepository(db, manager.NewManager(nil))

	website := &entities.WebsiteNode{
		ID:          "site-1",
		TemplateID:  "tpl-1",
		UserID:      "user-1",
		WebsiteName: "My Shop",
		Customizations: map[string]string{
			"text-3-0":       "Welcome",
			"bg-ctrl-hero-0": "#1f2a44",
		},
		Status:  entities.StatusDraft,
		Created: testClock(0),
	}
	if err := repo.Store(website); err != nil {
		t.Fatalf("Store: %v", err)
	}

	cold := NewWebsiteRepository(db, manager.NewManager(nil))
	got, err := cold.FindByID("site-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("website not found")
	}
	if diff := cmp.Diff(website.Customizations, got.Customizations); diff != "" {
		t.Errorf("customizations mismatch (-want +got):\n%s", diff)
	}
	if got.Status != entities.StatusDraft {
		t.Errorf("status = %q", got.Status)
	}
}

func TestWebsiteRepositoryFindByUserAndTemplate(t *testing.T) {
	db := newTestDB(t)
	repo := NewWebsiteRepository(db, manager.NewManager(nil))

	for _, site := range []*entities.WebsiteNode{
		{ID: "site-1", TemplateID: "tpl-1", UserID: "user-1", WebsiteName: "One", Status: entities.StatusDraft, Created: testClock(0)},
		{ID: "site-2", TemplateID: "tpl-2", UserID: "user-1", WebsiteName: "Two", Status: entities.StatusDraft, Created: testClock(time.Minute)},
		{ID: "site-3", TemplateID: "tpl-1", UserID: "user-2", WebsiteName: "Other", Status: entities.StatusDraft, Created: testClock(2 * time.Minute)},
	} {
		if err := repo.Store(site); err != nil {
			t.Fatalf("Store %s: %v", site.ID, err)
		}
	}

	got, err := repo.FindByUserAndTemplate("user-1", "tpl-2")
	if err != nil {
		t.Fatalf("FindByUserAndTemplate: %v", err)
	}
	if got == nil || got.ID != "site-2" {
		t.Errorf("got %+v, want site-2", got)
	}

	none, err := repo.FindByUserAndTemplate("user-2", "tpl-2")
	if err != nil {
		t.Fatal(err)
	}
	if none != nil {
		t.Errorf("expected nil, got %+v", none)
	}

	mine, err := repo.FindByUserID("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Errorf("FindByUserID returned %d websites", len(mine))
	}
}

func TestServiceRepositoryEncryptsPaymentURLAtRest(t *testing.T) {
	db := newTestDB(t)
	repo := NewServiceRepository(db, manager.NewManager(nil), testAESKey)

	service := &entities.PricedServiceNode{
		ID:         "svc-1",
		UserID:     "user-1",
		Name:       "Haircut",
		Price:      "35",
		PaymentURL: "https://pay.example.com/haircut",
		Created:    testClock(0),
	}
	if err := repo.Store(service); err != nil {
		t.Fatalf("Store: %v", err)
	}

	var stored string
	if err := db.QueryRow(`SELECT payment_url_encrypted FROM services WHERE id = ?`, "svc-1").Scan(&stored); err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if stored == service.PaymentURL {
		t.Error("payment URL stored in plaintext")
	}

	cold := NewServiceRepository(db, manager.NewManager(nil), testAESKey)
	services, err := cold.FindByUserID("user-1")
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("got %d services", len(services))
	}
	if services[0].PaymentURL != service.PaymentURL {
		t.Errorf("payment URL = %q after decrypt, want %q", services[0].PaymentURL, service.PaymentURL)
	}
}

func TestPublishRepositoryHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewPublishRepository(db)

	none, err := repo.FindLatestByWebsiteID("site-1")
	if err != nil {
		t.Fatalf("FindLatestByWebsiteID empty: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unpublished website, got %+v", none)
	}

	for i, publish := range []*entities.PublishNode{
		{ID: "pub-1", WebsiteID: "site-1", SnapshotHTML: "<html>v1</html>", TemplateHash: "hash-a"},
		{ID: "pub-2", WebsiteID: "site-1", SnapshotHTML: "<html>v2</html>", TemplateHash: "hash-a"},
	} {
		publish.Created = testClock(time.Duration(i) * time.Minute)
		if err := repo.Store(publish); err != nil {
			t.Fatalf("Store %s: %v", publish.ID, err)
		}
	}

	latest, err := repo.FindLatestByWebsiteID("site-1")
	if err != nil {
		t.Fatalf("FindLatestByWebsiteID: %v", err)
	}
	if latest == nil || latest.ID != "pub-2" {
		t.Errorf("latest = %+v, want pub-2", latest)
	}
	if latest.SnapshotHTML != "<html>v2</html>" {
		t.Errorf("snapshot = %q", latest.SnapshotHTML)
	}

	history, err := repo.FindByWebsiteID("site-1")
	if err != nil {
		t.Fatalf("FindByWebsiteID: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d", len(history))
	}
}
