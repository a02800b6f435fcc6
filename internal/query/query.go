// Package query implements the search syntax: terms joined by "&" (all must
// match), by "|" (any may match), or by whitespace (configured default).
package query

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ilexum-group/webtrail/pkg/models"
)

const (
	andSeparator = "&"
	orSeparator  = "|"
)

// Parse splits raw into terms. An explicit "&" wins over "|"; a query with
// neither is split on whitespace and joined with def.
func Parse(raw string, def models.Combinator) models.QuerySpec {
	var (
		parts      []string
		combinator models.Combinator
	)
	switch {
	case strings.Contains(raw, andSeparator):
		parts, combinator = strings.Split(raw, andSeparator), models.CombinatorAnd
	case strings.Contains(raw, orSeparator):
		parts, combinator = strings.Split(raw, orSeparator), models.CombinatorOr
	default:
		parts, combinator = strings.Fields(raw), def
	}
	if combinator != models.CombinatorOr {
		combinator = models.CombinatorAnd
	}

	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = norm.NFC.String(strings.TrimSpace(p)); p != "" {
			terms = append(terms, p)
		}
	}
	return models.QuerySpec{Terms: terms, Combinator: combinator}
}

// Filter returns the records matching spec, in input order. Terms match
// case-insensitively against title, url and folder path.
func Filter(records []models.Record, spec models.QuerySpec) []models.Record {
	if len(spec.Terms) == 0 {
		out := make([]models.Record, len(records))
		copy(out, records)
		return out
	}

	terms := make([]string, len(spec.Terms))
	for i, t := range spec.Terms {
		terms[i] = fold(t)
	}

	out := make([]models.Record, 0)
	for _, r := range records {
		if Match(r, terms, spec.Combinator) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r satisfies the already folded terms
func Match(r models.Record, terms []string, combinator models.Combinator) bool {
	fields := [...]string{fold(r.Title), fold(r.URL), fold(r.FolderPath)}
	hit := func(term string) bool {
		for _, f := range fields {
			if strings.Contains(f, term) {
				return true
			}
		}
		return false
	}

	if combinator == models.CombinatorOr {
		for _, t := range terms {
			if hit(t) {
				return true
			}
		}
		return false
	}
	for _, t := range terms {
		if !hit(t) {
			return false
		}
	}
	return true
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
