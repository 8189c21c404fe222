// Package resolve implements ordered-fallback lookup of interactive page
// elements. Platform markup is versioned and unstable, so every call site
// supplies a priority-ordered chain of strategies and treats absence as a
// normal, non-exceptional outcome.
package resolve

import (
	"context"
	"fmt"
)

// Querier is the slice of the browser driver resolution needs: counting the
// elements a query matches on the live page.
type Querier interface {
	Count(ctx context.Context, query string) (int, error)
}

// Strategy is one way of locating an element. Compile renders it as an XPath
// expression for the driver.
type Strategy interface {
	Compile() string
}

// ByAttr matches elements by an attribute value, exactly or as a substring.
// An empty Element matches any tag.
type ByAttr struct {
	Element  string
	Attr     string
	Value    string
	Contains bool
}

func (s ByAttr) Compile() string {
	el := s.Element
	if el == "" {
		el = "*"
	}
	if s.Contains {
		return fmt.Sprintf(`//%s[contains(@%s,%q)]`, el, s.Attr, s.Value)
	}
	return fmt.Sprintf(`//%s[@%s=%q]`, el, s.Attr, s.Value)
}

// ByText matches elements whose normalized text equals Text.
type ByText struct {
	Element string
	Text    string
}

func (s ByText) Compile() string {
	el := s.Element
	if el == "" {
		el = "*"
	}
	return fmt.Sprintf(`//%s[normalize-space()=%q]`, el, s.Text)
}

// ByRole matches elements by their ARIA role.
type ByRole struct {
	Role string
}

func (s ByRole) Compile() string {
	return fmt.Sprintf(`//*[@role=%q]`, s.Role)
}

// ByXPath is the escape hatch for structural queries (SVG icons wrapped in
// buttons, dialog-scoped lookups) that the tagged variants cannot express.
type ByXPath struct {
	Expr string
}

func (s ByXPath) Compile() string {
	return s.Expr
}

// First tries each strategy in caller-specified order and returns the query
// of the first one matching at least one element. It never fails on a
// no-match: an empty chain, all-miss chains, and page read errors all yield
// ok=false so callers can branch on presence.
func First(ctx context.Context, page Querier, strategies ...Strategy) (query string, ok bool) {
	for _, s := range strategies {
		q := s.Compile()
		n, err := page.Count(ctx, q)
		if err != nil {
			// An unreadable page is treated as a miss for this strategy.
			continue
		}
		if n > 0 {
			return q, true
		}
	}
	return "", false
}
