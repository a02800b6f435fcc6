package records

import (
	"sort"

	"github.com/ilexum-group/webtrail/pkg/models"
)

// Rank returns records sorted by key, highest first, truncated to limit.
// Equal keys keep their input order. limit <= 0 disables the cap. The input
// slice is left untouched.
func Rank(records []models.Record, key models.SortKey, limit int) []models.Record {
	ranked := make([]models.Record, len(records))
	copy(ranked, records)

	value := rankValue(key)
	sort.SliceStable(ranked, func(i, j int) bool {
		return value(ranked[i]) > value(ranked[j])
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func rankValue(key models.SortKey) func(models.Record) int64 {
	if key == models.SortByRecency {
		return func(r models.Record) int64 {
			if r.LastVisit == nil {
				return 0
			}
			return *r.LastVisit
		}
	}
	return func(r models.Record) int64 { return int64(r.VisitCount) }
}
