package cleaner

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/tidyedit/pkg/transform"
)

// DefaultDOMPruneElements are pruned when NewDOMPrune is given no names.
var DefaultDOMPruneElements = []string{"em", "strong", "p"}

// DOMPruneCleaner removes empty elements from a parsed document tree.
//
// Unlike transform.PruneEmpty it works on the HTML5 parse of the input, so
// the output is re-serialized (entities decoded where safe, implied tags
// closed) and all configured element names are pruned together: an
// <em> holding only an empty <strong> is empty when both are listed.
// Whitespace text and comments count as content.
type DOMPruneCleaner struct {
	elements []string
	selector string
}

// NewDOMPrune creates a tree-based pruner for the given element names.
// Invalid names are ignored.
func NewDOMPrune(elements ...string) *DOMPruneCleaner {
	if len(elements) == 0 {
		elements = DefaultDOMPruneElements
	}

	valid := make([]string, 0, len(elements))
	seen := make(map[string]bool)
	for _, e := range elements {
		e = strings.ToLower(strings.TrimSpace(e))
		if !transform.ValidElementName(e) || seen[e] {
			continue
		}
		seen[e] = true
		valid = append(valid, e)
	}

	return &DOMPruneCleaner{
		elements: valid,
		selector: strings.Join(valid, ", "),
	}
}

// Name returns the cleaner type.
func (c *DOMPruneCleaner) Name() string {
	return "dom-prune"
}

// Elements returns the element names this cleaner prunes.
func (c *DOMPruneCleaner) Elements() []string {
	return append([]string(nil), c.elements...)
}

// Clean parses html, prunes empty elements and returns the body's markup.
func (c *DOMPruneCleaner) Clean(html string) (string, error) {
	out, _, err := c.PruneCount(html)
	return out, err
}

// PruneCount is Clean but also reports how many elements were removed.
func (c *DOMPruneCleaner) PruneCount(html string) (string, int, error) {
	if len(c.elements) == 0 {
		return html, 0, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", 0, fmt.Errorf("parsing markup: %w", err)
	}

	body := doc.Find("body")
	matches := body.Find(c.selector)

	// Document order puts descendants after their ancestors, so walking
	// backwards settles every child before its parent is checked.
	removed := 0
	for i := matches.Length() - 1; i >= 0; i-- {
		s := matches.Eq(i)
		if s.Contents().Length() == 0 {
			s.Remove()
			removed++
		}
	}

	out, err := body.Html()
	if err != nil {
		return "", 0, fmt.Errorf("rendering markup: %w", err)
	}
	return out, removed, nil
}
