package editing

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

// Compile replays a committed customization map against a fresh, detached
// parse of the original template and serializes the result into a standalone
// document string. It is a pure function of its inputs: compiling the same
// template and values twice yields an identical string, with no dependency on
// any live editing session.
func Compile(templateHTML string, committed map[string]string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	// Re-running the classifier recovers the exact identifiers the live
	// editor assigned, so positional keys land on the same nodes.
	descriptors := Classify(doc)

	applier := NewApplier(logger)
	applied, skipped := applier.ReplayAll(doc, committed)
	logger.Info("snapshot compiled",
		"descriptors", len(descriptors), "keys", len(committed),
		"applied", applied, "skipped", skipped)

	return serializeDocument(doc)
}

// CompileWithServices compiles a snapshot like Compile and then materializes
// the priced-service catalog into the detected service block, so published
// documents carry current pricing. Still a pure function of its inputs.
func CompileWithServices(templateHTML string, committed map[string]string, services []*content.PricedServiceNode, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	Classify(doc)
	applier := NewApplier(logger)
	applied, skipped := applier.ReplayAll(doc, committed)

	synced := 0
	if len(services) > 0 {
		if block, found := DetectServiceBlock(doc); found {
			synced = SyncServiceBlock(block, services, logger)
		}
	}

	logger.Info("snapshot compiled",
		"keys", len(committed), "applied", applied, "skipped", skipped, "syncedServices", synced)
	return serializeDocument(doc)
}

// ClassifyHTML parses and classifies a template without mutating anything,
// for descriptor listings.
func ClassifyHTML(templateHTML string) ([]ElementDescriptor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return Classify(doc), nil
}

// TemplateHash fingerprints a template's HTML. Stored alongside committed
// values at save time; a mismatch at compile time means the template changed
// shape after customizations were recorded and positional identifiers may
// have drifted.
func TemplateHash(templateHTML string) string {
	sum := sha256.Sum256([]byte(templateHTML))
	return fmt.Sprintf("%x", sum)
}

// serializeDocument renders the full document, ensuring a doctype so the
// snapshot stands alone in a separate browsing context.
func serializeDocument(doc *goquery.Document) (string, error) {
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(strings.ToLower(out)), "<!doctype") {
		out = "<!DOCTYPE html>\n" + out
	}
	return out, nil
}
