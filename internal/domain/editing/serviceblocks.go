package editing

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

// serviceSelectors is the fixed priority list tried during detection. The
// first selector yielding at least two sibling matches wins.
var serviceSelectors = []string{
	".service-card",
	".service-item",
	".service",
	`[class*="service-"]`,
	`[class*="pricing"]`,
	`[class*="package"]`,
	".card",
	".item",
}

// ServiceBlock describes a detected group of repeated "card" structures that
// can be materialized from the priced-service catalog. Ephemeral: discovered
// per load, never persisted.
type ServiceBlock struct {
	Container       *goquery.Selection
	MatchedSelector string
	CardTemplate    *goquery.Selection
	ServiceIDs      []string
}

// DetectServiceBlock walks the selector priority list and returns the first
// group of two or more sibling cards, cloning the first card as the reusable
// template.
func DetectServiceBlock(doc *goquery.Document) (*ServiceBlock, bool) {
	for _, selector := range serviceSelectors {
		matches := doc.Find(selector)
		if matches.Length() < 2 {
			continue
		}
		group := siblingGroup(matches)
		if group == nil || group.Length() < 2 {
			continue
		}
		first := group.First()
		return &ServiceBlock{
			Container:       first.Parent(),
			MatchedSelector: selector,
			CardTemplate:    first.Clone(),
		}, true
	}
	return nil, false
}

// siblingGroup filters matches down to the largest set sharing one parent.
func siblingGroup(matches *goquery.Selection) *goquery.Selection {
	groups := make(map[*goquery.Selection]int)
	var best *goquery.Selection
	bestCount := 0

	matches.Each(func(_ int, s *goquery.Selection) {
		parent := s.Parent()
		if parent.Length() == 0 {
			return
		}
		node := parent.Get(0)
		for existing := range groups {
			if existing.Get(0) == node {
				groups[existing]++
				if groups[existing] > bestCount {
					bestCount = groups[existing]
					best = existing
				}
				return
			}
		}
		groups[parent] = 1
		if bestCount == 0 {
			bestCount = 1
			best = parent
		}
	})

	if best == nil {
		return nil
	}
	return best.Children().FilterSelection(matches)
}

// SyncServiceBlock materializes the priced-service list into the detected
// block: synced cards are cleared and rebuilt, one cloned card per service,
// in input order. Manual cards (data-synced=false) are left untouched.
func SyncServiceBlock(block *ServiceBlock, services []*content.PricedServiceNode, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}
	if block == nil || block.Container == nil || block.CardTemplate == nil {
		return 0
	}

	// Remove everything except cards explicitly marked manual.
	block.Container.Find(block.MatchedSelector).Each(func(_ int, s *goquery.Selection) {
		if synced, ok := s.Attr(attrSynced); ok && synced == "false" {
			return
		}
		s.Remove()
	})

	block.ServiceIDs = block.ServiceIDs[:0]
	for _, svc := range services {
		card := block.CardTemplate.Clone()
		rewriteServiceCard(card, svc)
		card.SetAttr(attrSynced, "true")
		block.Container.AppendSelection(card)
		block.ServiceIDs = append(block.ServiceIDs, svc.ID)
	}

	logger.Debug("service block synchronized",
		"selector", block.MatchedSelector, "cards", len(services))
	return len(services)
}

// SyncServices runs service block detection and synchronization against the
// editor's live working document. Returns the number of synced cards and
// whether a block was found at all.
func (e *Editor) SyncServices(services []*content.PricedServiceNode) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	block, found := DetectServiceBlock(e.doc)
	if !found {
		return 0, false
	}
	return SyncServiceBlock(block, services, e.logger), true
}

// rewriteServiceCard rewrites the cloned card's title, description and price
// text and attaches the payment identity to its action element.
func rewriteServiceCard(card *goquery.Selection, svc *content.PricedServiceNode) {
	if title := card.Find("h1, h2, h3, h4, h5, h6").First(); title.Length() > 0 {
		title.SetText(svc.Name)
	} else if title := card.Find(`[class*="title"], [class*="name"]`).First(); title.Length() > 0 {
		title.SetText(svc.Name)
	}

	if price := card.Find(`[class*="price"]`).First(); price.Length() > 0 {
		price.SetText(svc.Price)
		if desc := card.Find("p").First(); desc.Length() > 0 {
			desc.SetText(svc.Description)
		}
	} else {
		// No dedicated price element: first paragraph is the description,
		// second carries the price.
		paragraphs := card.Find("p")
		if paragraphs.Length() > 0 {
			paragraphs.First().SetText(svc.Description)
		}
		if paragraphs.Length() > 1 {
			paragraphs.Eq(1).SetText(svc.Price)
		}
	}

	if action := card.Find("a, button").First(); action.Length() > 0 {
		action.SetAttr(attrPaymentID, svc.ID)
		if svc.PaymentURL != "" {
			action.SetAttr(attrNavTarget, svc.PaymentURL)
		}
	}
}
