package editing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector sets the classifier scans, in pass order. Text candidates share
// one counter across the whole query result set, in document order; the other
// kinds count per kind.
const (
	textCandidates    = "h1, h2, h3, h4, h5, h6, p, span, a, button"
	sectionCandidates = `header, section, [class*="hero"], [class*="banner"], [class*="bg"]`
)

// Classify scans a parsed document once and returns the ordered list of
// editable element descriptors. As a side effect every candidate node is
// tagged with data-element-id / data-element-index so the resolver can find
// it later without re-parsing.
//
// Classification is deterministic: byte-identical HTML yields byte-identical
// descriptor ids in the same order. The snapshot compiler relies on this to
// recover the exact ids the live editor assigned.
func Classify(doc *goquery.Document) []ElementDescriptor {
	var out []ElementDescriptor
	out = append(out, classifyText(doc)...)
	out = append(out, classifyColors(doc)...)
	out = append(out, classifySections(doc)...)
	out = append(out, classifyImages(doc)...)
	return out
}

func classifyText(doc *goquery.Document) []ElementDescriptor {
	var out []ElementDescriptor
	i := 0
	doc.Find(textCandidates).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		id := fmt.Sprintf("text-%d", i)
		tagNode(s, id, i)
		out = append(out, ElementDescriptor{
			ID:           id,
			Kind:         KindText,
			Selector:     selectorFor(s),
			Index:        i,
			Label:        labelFor(s),
			CurrentValue: text,
		})
		i++
	})
	return out
}

// classifyColors scans elements carrying inline background or color
// declarations. Background wins over color when both co-occur on one node so
// a single element never yields duplicate entries.
func classifyColors(doc *goquery.Document) []ElementDescriptor {
	var out []ElementDescriptor
	bgIdx, colorIdx := 0, 0
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr(attrElementID); ok && id != "" {
			return // text pass already owns this node's identity
		}
		bg, hasBg := styleProp(s, "background")
		if !hasBg {
			bg, hasBg = styleProp(s, "background-color")
		}
		color, hasColor := styleProp(s, "color")

		switch {
		case hasBg:
			id := fmt.Sprintf("bg-%d", bgIdx)
			tagNode(s, id, bgIdx)
			out = append(out, ElementDescriptor{
				ID:           id,
				Kind:         KindColor,
				Selector:     selectorFor(s),
				Index:        bgIdx,
				Label:        labelFor(s) + " background",
				CurrentValue: bg,
			})
			bgIdx++
		case hasColor:
			id := fmt.Sprintf("color-%d", colorIdx)
			tagNode(s, id, colorIdx)
			out = append(out, ElementDescriptor{
				ID:           id,
				Kind:         KindColor,
				Selector:     selectorFor(s),
				Index:        colorIdx,
				Label:        labelFor(s) + " color",
				CurrentValue: color,
			})
			colorIdx++
		}
	})
	return out
}

// classifySections is the secondary pass over semantic containers (header,
// section, hero/banner/bg class hints) that were not captured by the inline
// pass. Without computed styles the hint itself counts as evidence of a
// background when no inline declaration is present.
func classifySections(doc *goquery.Document) []ElementDescriptor {
	var out []ElementDescriptor
	idx := 0
	doc.Find(sectionCandidates).Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr(attrElementID); ok && id != "" {
			return // already captured by an earlier pass
		}
		bg, hasInline := styleProp(s, "background")
		if !hasInline {
			bg, hasInline = styleProp(s, "background-color")
		}
		if hasInline && isTransparent(bg) {
			return
		}
		if !hasInline {
			if _, hasAttr := s.Attr("bgcolor"); !hasAttr && !hasBackgroundHint(s) {
				return
			}
		}
		id := fmt.Sprintf("section-bg-%d", idx)
		tagNode(s, id, idx)
		out = append(out, ElementDescriptor{
			ID:           id,
			Kind:         KindStyle,
			Selector:     selectorFor(s),
			Index:        idx,
			Label:        labelFor(s) + " background",
			CurrentValue: bg,
		})
		idx++
	})
	return out
}

func classifyImages(doc *goquery.Document) []ElementDescriptor {
	var out []ElementDescriptor
	idx := 0
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		id := fmt.Sprintf("img-%d", idx)
		tagNode(s, id, idx)
		out = append(out, ElementDescriptor{
			ID:           id,
			Kind:         KindImage,
			Selector:     selectorFor(s),
			Index:        idx,
			Label:        labelFor(s),
			CurrentValue: src,
		})
		idx++
	})
	return out
}

func tagNode(s *goquery.Selection, id string, index int) {
	s.SetAttr(attrElementID, id)
	s.SetAttr(attrElementIndex, strconv.Itoa(index))
}

func hasBackgroundHint(s *goquery.Selection) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	class = strings.ToLower(class)
	return strings.Contains(class, "hero") || strings.Contains(class, "banner") ||
		strings.Contains(class, "bg")
}

// selectorFor builds a human-readable selector for a descriptor: tag plus id
// or first class when present. Informational only; resolution goes through
// the data attributes.
func selectorFor(s *goquery.Selection) string {
	node := s.Get(0)
	if node == nil {
		return ""
	}
	sel := node.Data
	if id, ok := s.Attr("id"); ok && id != "" {
		return sel + "#" + id
	}
	if class, ok := s.Attr("class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			return sel + "." + fields[0]
		}
	}
	return sel
}

func labelFor(s *goquery.Selection) string {
	node := s.Get(0)
	if node == nil {
		return "Element"
	}
	switch node.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "Heading"
	case "p":
		return "Paragraph"
	case "a":
		return "Link"
	case "button":
		return "Button"
	case "span":
		return "Text"
	case "img":
		return "Image"
	case "header":
		return "Header"
	case "section":
		return "Section"
	case "footer":
		return "Footer"
	default:
		return "Element"
	}
}
