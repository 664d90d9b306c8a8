// Package catalog validates and normalizes timezone identifiers against
// the canonical IANA set shipped with the binary.
package catalog

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/micahreeves/what-time/internal/domain"
)

//go:embed zones.txt
var zonesRaw string

// Abbreviations people actually type, mapped to the region/city zone
// they almost always mean.
var aliases = map[string]string{
	// North America
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	// Europe
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	// Asia/Pacific
	"JST":  "Asia/Tokyo",
	"AEST": "Australia/Sydney",
	"AEDT": "Australia/Sydney",
}

// Catalog is a read-only index over the canonical zone set. Safe for
// concurrent use.
type Catalog struct {
	canonical []string          // ascending
	index     map[string]string // folded form -> canonical
}

// New builds the catalog from the embedded zone list.
func New() (*Catalog, error) {
	names := strings.Fields(zonesRaw)
	if len(names) == 0 {
		return nil, errors.New("catalog: embedded zone list is empty")
	}
	sort.Strings(names)

	c := &Catalog{
		canonical: names,
		index:     make(map[string]string, len(names)),
	}
	for _, n := range names {
		c.index[fold(n)] = n
	}
	return c, nil
}

// Normalize resolves raw to a canonical TimezoneId. Matching is
// case-insensitive, tolerates spaces for underscores, and resolves
// common abbreviations. On failure it returns InvalidTimezoneError
// carrying up to five suggestions. Normalize is idempotent over its own
// output.
func (c *Catalog) Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &domain.InvalidTimezoneError{Raw: raw}
	}
	if canonical, ok := aliases[strings.ToUpper(s)]; ok {
		return canonical, nil
	}
	if canonical, ok := c.index[fold(s)]; ok {
		return canonical, nil
	}
	return "", &domain.InvalidTimezoneError{
		Raw:         raw,
		Suggestions: c.Candidates(s, 5),
	}
}

// Contains reports whether id is a member of the canonical set as-is.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[fold(id)]
	return ok && c.index[fold(id)] == id
}

// Candidates lists canonical identifiers whose full name or city
// segment starts with prefix, case-insensitive, ascending, at most
// limit entries.
func (c *Catalog) Candidates(prefix string, limit int) []string {
	p := fold(prefix)
	if p == "" || limit <= 0 {
		return nil
	}
	var out []string
	for _, n := range c.canonical {
		if strings.HasPrefix(fold(n), p) || strings.HasPrefix(fold(city(n)), p) {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// fold lowers case and treats spaces as underscores so "new york"
// matches "New_York".
func fold(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

// city returns the last path segment of a zone name.
func city(zone string) string {
	if i := strings.LastIndexByte(zone, '/'); i >= 0 {
		return zone[i+1:]
	}
	return zone
}
