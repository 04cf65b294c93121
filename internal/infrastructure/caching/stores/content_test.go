package stores

import (
	"testing"
	"time"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/google/go-cmp/cmp"
)

func testTemplate(id string) *content.TemplateNode {
	return &content.TemplateNode{
		ID:       id,
		NodeType: "Template",
		Name:     "Template " + id,
		HTML:     "<html/>",
		Created:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestContentStoreTemplateRoundTrip(t *testing.T) {
	store := NewContentStore(nil)

	want := testTemplate("tpl-1")
	store.SetTemplate(want)

	got, found := store.GetTemplate("tpl-1")
	if !found {
		t.Fatal("expected cache hit")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("template mismatch (-want +got):\n%s", diff)
	}

	if _, found := store.GetTemplate("tpl-2"); found {
		t.Error("expected miss for unknown template")
	}
}

func TestContentStoreTemplateIDList(t *testing.T) {
	store := NewContentStore(nil)

	// An empty ID list reads as a miss so the repository falls back to the DB.
	if _, found := store.GetAllTemplateIDs(); found {
		t.Error("empty ID list should be a miss")
	}

	store.SetAllTemplateIDs([]string{"a", "b", "c"})
	ids, found := store.GetAllTemplateIDs()
	if !found {
		t.Fatal("expected hit after SetAllTemplateIDs")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	// The returned slice is a copy; mutating it must not poison the cache.
	ids[0] = "mutated"
	again, _ := store.GetAllTemplateIDs()
	if again[0] != "a" {
		t.Error("cached ID list was mutated through the returned slice")
	}
}

func TestContentStoreInvalidateTemplate(t *testing.T) {
	store := NewContentStore(nil)
	store.SetTemplate(testTemplate("tpl-1"))
	store.SetTemplate(testTemplate("tpl-2"))
	store.SetAllTemplateIDs([]string{"tpl-1", "tpl-2"})

	store.InvalidateTemplate("tpl-1")

	if _, found := store.GetTemplate("tpl-1"); found {
		t.Error("tpl-1 should be evicted")
	}
	ids, found := store.GetAllTemplateIDs()
	if !found {
		t.Fatal("ID list should survive")
	}
	if diff := cmp.Diff([]string{"tpl-2"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestContentStoreUserWebsiteIndex(t *testing.T) {
	store := NewContentStore(nil)

	website := &content.WebsiteNode{ID: "site-1", UserID: "user-1", TemplateID: "tpl-1", WebsiteName: "Mine"}
	store.SetWebsite(website)
	store.SetWebsiteIDsByUser("user-1", []string{"site-1"})

	ids, found := store.GetWebsiteIDsByUser("user-1")
	if !found || len(ids) != 1 || ids[0] != "site-1" {
		t.Fatalf("GetWebsiteIDsByUser = %v, %v", ids, found)
	}

	// Invalidation drops both the entity and its index entry.
	store.InvalidateWebsite("site-1")
	if _, found := store.GetWebsite("site-1"); found {
		t.Error("site-1 should be evicted")
	}
	ids, found = store.GetWebsiteIDsByUser("user-1")
	if found && len(ids) != 0 {
		t.Errorf("user index still lists %v", ids)
	}
}

func TestContentStoreInvalidateAll(t *testing.T) {
	store := NewContentStore(nil)
	store.SetTemplate(testTemplate("tpl-1"))
	store.SetWebsite(&content.WebsiteNode{ID: "site-1", UserID: "user-1"})
	store.SetService(&content.PricedServiceNode{ID: "svc-1", UserID: "user-1", Name: "Cut", Price: "30"})

	store.InvalidateContentCache()

	templates, websites, services := store.Counts()
	if templates+websites+services != 0 {
		t.Errorf("Counts() = %d/%d/%d after invalidation", templates, websites, services)
	}
}
