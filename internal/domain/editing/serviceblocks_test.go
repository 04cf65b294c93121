package editing

import (
	"testing"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

const serviceTemplate = `<html><body>
<section class="pricing">
  <div class="service-card">
    <h3>Placeholder One</h3>
    <p>Placeholder description</p>
    <span class="price">$0</span>
    <a href="#">Choose</a>
  </div>
  <div class="service-card">
    <h3>Placeholder Two</h3>
    <p>Placeholder description</p>
    <span class="price">$0</span>
    <a href="#">Choose</a>
  </div>
</section>
</body></html>`

func testServices() []*content.PricedServiceNode {
	return []*content.PricedServiceNode{
		{ID: "svc-1", Name: "Drain Cleaning", Description: "Clears any clog", Price: "$99", PaymentURL: "https://pay.example.com/drain"},
		{ID: "svc-2", Name: "Water Heater", Description: "Install and repair", Price: "$349", PaymentURL: "https://pay.example.com/heater"},
		{ID: "svc-3", Name: "Inspection", Description: "Full home inspection", Price: "$149"},
	}
}

func TestDetectServiceBlock(t *testing.T) {
	doc := mustParse(t, serviceTemplate)

	block, ok := DetectServiceBlock(doc)
	if !ok {
		t.Fatal("no service block detected")
	}
	if block.MatchedSelector != ".service-card" {
		t.Errorf("matched selector = %q", block.MatchedSelector)
	}
	if block.CardTemplate == nil || block.CardTemplate.Length() == 0 {
		t.Fatal("no card template cloned")
	}
}

func TestDetectServiceBlockRequiresSiblings(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="service-card">Only one</div></body></html>`)
	if _, ok := DetectServiceBlock(doc); ok {
		t.Error("single card detected as a block")
	}
}

func TestSyncServiceBlock(t *testing.T) {
	doc := mustParse(t, serviceTemplate)
	block, ok := DetectServiceBlock(doc)
	if !ok {
		t.Fatal("no service block detected")
	}

	services := testServices()
	if n := SyncServiceBlock(block, services, discardLogger()); n != 3 {
		t.Fatalf("synced %d cards, want 3", n)
	}

	cards := doc.Find(".service-card")
	if cards.Length() != 3 {
		t.Fatalf("document holds %d cards, want 3", cards.Length())
	}
	synced := doc.Find(`.service-card[data-synced="true"]`)
	if synced.Length() != 3 {
		t.Errorf("%d cards marked synced, want 3", synced.Length())
	}

	first := synced.First()
	if got := first.Find("h3").Text(); got != "Drain Cleaning" {
		t.Errorf("first card title = %q", got)
	}
	if got := first.Find(".price").Text(); got != "$99" {
		t.Errorf("first card price = %q", got)
	}
	action := first.Find("a").First()
	if got, _ := action.Attr(attrPaymentID); got != "svc-1" {
		t.Errorf("first card %s = %q", attrPaymentID, got)
	}
	if got, _ := action.Attr(attrNavTarget); got != "https://pay.example.com/drain" {
		t.Errorf("first card %s = %q", attrNavTarget, got)
	}

	// Third service has no payment link configured.
	last := synced.Eq(2)
	if _, ok := last.Find("a").First().Attr(attrNavTarget); ok {
		t.Error("card without a payment URL still carries a nav target")
	}
}

func TestSyncServiceBlockKeepsManualCards(t *testing.T) {
	doc := mustParse(t, `<html><body>
<section class="pricing">
  <div class="service-card" data-synced="false"><h3>Hand Made</h3></div>
  <div class="service-card"><h3>Old Sync A</h3></div>
  <div class="service-card"><h3>Old Sync B</h3></div>
</section>
</body></html>`)
	block, ok := DetectServiceBlock(doc)
	if !ok {
		t.Fatal("no service block detected")
	}

	SyncServiceBlock(block, testServices()[:1], discardLogger())

	cards := doc.Find(".service-card")
	if cards.Length() != 2 {
		t.Fatalf("document holds %d cards, want manual + 1 synced", cards.Length())
	}
	if doc.Find(`.service-card[data-synced="false"]`).Length() != 1 {
		t.Error("manual card removed by sync")
	}
}

// Re-running the sync with the same catalog replaces, not appends.
func TestSyncServiceBlockIdempotent(t *testing.T) {
	doc := mustParse(t, serviceTemplate)
	block, ok := DetectServiceBlock(doc)
	if !ok {
		t.Fatal("no service block detected")
	}

	services := testServices()
	SyncServiceBlock(block, services, discardLogger())
	SyncServiceBlock(block, services, discardLogger())

	if got := doc.Find(".service-card").Length(); got != 3 {
		t.Errorf("document holds %d cards after double sync, want 3", got)
	}
}
