package snapshot

import (
	"database/sql"

	"github.com/ilexum-group/webtrail/pkg/models"
)

const chromiumQuery = `
	SELECT urls.url, COALESCE(urls.title, ''), urls.visit_count, urls.last_visit_time
	FROM urls
	JOIN visits ON urls.id = visits.url
	GROUP BY urls.id
	ORDER BY urls.last_visit_time DESC
	LIMIT ?`

const firefoxQuery = `
	SELECT p.url, COALESCE(p.title, ''), p.visit_count, p.last_visit_date
	FROM moz_places p
	JOIN moz_historyvisits v ON v.place_id = p.id
	GROUP BY p.id
	ORDER BY p.last_visit_date DESC
	LIMIT ?`

const safariQuery = `
	SELECT i.url, COALESCE(MAX(v.title), ''), i.visit_count, MAX(v.visit_time)
	FROM history_items i
	JOIN history_visits v ON v.history_item = i.id
	GROUP BY i.id
	ORDER BY MAX(v.visit_time) DESC
	LIMIT ?`

// extraction pairs a statement with the scanner that converts its rows
type extraction struct {
	query string
	scan  func(rows *sql.Rows) (models.Tuple, error)
}

var extractions = map[models.Schema]extraction{
	models.SchemaChromium: {chromiumQuery, scanMicros(chromeTimeToUnix)},
	models.SchemaFirefox:  {firefoxQuery, scanMicros(func(us int64) int64 { return us / 1000000 })},
	models.SchemaSafari:   {safariQuery, scanSafari},
}

func scanMicros(convert func(int64) int64) func(rows *sql.Rows) (models.Tuple, error) {
	return func(rows *sql.Rows) (models.Tuple, error) {
		var t models.Tuple
		var visits sql.NullInt64
		var last sql.NullInt64
		if err := rows.Scan(&t.URL, &t.Title, &visits, &last); err != nil {
			return t, err
		}
		t.VisitCount = int(visits.Int64)
		if last.Valid && last.Int64 > 0 {
			t.LastVisit = convert(last.Int64)
			t.HasLastVisit = true
		}
		return t, nil
	}
}

func scanSafari(rows *sql.Rows) (models.Tuple, error) {
	var t models.Tuple
	var visits sql.NullInt64
	var last sql.NullFloat64
	if err := rows.Scan(&t.URL, &t.Title, &visits, &last); err != nil {
		return t, err
	}
	t.VisitCount = int(visits.Int64)
	if last.Valid && last.Float64 > 0 {
		t.LastVisit = safariTimeToUnix(last.Float64)
		t.HasLastVisit = true
	}
	return t, nil
}

// chromeTimeToUnix converts Chrome's timestamp format to Unix timestamp
// Chrome stores time as microseconds since 1601-01-01
func chromeTimeToUnix(chromeTime int64) int64 {
	if chromeTime == 0 {
		return 0
	}
	// Number of microseconds between 1601-01-01 and 1970-01-01
	const epochDiff = 11644473600000000
	return (chromeTime - epochDiff) / 1000000
}

// safariTimeToUnix converts Core Data seconds since 2001-01-01 to Unix seconds
func safariTimeToUnix(t float64) int64 {
	const coreDataEpoch = 978307200
	return int64(t) + coreDataEpoch
}
