package mysql

import (
	"reflect"
	"strings"
	"testing"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
)

func pf(f float64) *float64 { return &f }
func pi(i int) *int         { return &i }

func TestCheapestRoomQuery_NoPredicates(t *testing.T) {
	q, args, err := cheapestRoomQuery(7, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, want := range []string{
		"FROM wp_posts AS post",
		"PriceData.meta_key = 'price'",
		"post.post_type = ?",
		"post.post_author = ?",
		"ORDER BY CAST(PriceData.meta_value AS DOUBLE) ASC, post.ID ASC",
		"LIMIT 1",
	} {
		if !strings.Contains(q, want) {
			t.Fatalf("query missing %q:\n%s", want, q)
		}
	}
	if !reflect.DeepEqual(args, []any{"room", int64(7)}) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestCheapestRoomQuery_WithPredicates(t *testing.T) {
	preds := filter.Build(domain.Filter{
		Price:    &domain.Range{Max: pf(1000)},
		Bedrooms: pi(2),
		Types:    []string{"Appartement", "Maison"},
	})
	q, args, err := cheapestRoomQuery(3, preds)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, want := range []string{
		"CAST(PriceData.meta_value AS DOUBLE) <= ?",
		"CAST(BedroomsData.meta_value AS DOUBLE) >= ?",
		"TypeData.meta_value COLLATE utf8mb4_bin IN (?,?)",
	} {
		if !strings.Contains(q, want) {
			t.Fatalf("query missing %q:\n%s", want, q)
		}
	}
	want := []any{"room", int64(3), 1000.0, 2.0, "Appartement", "Maison"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args %v, want %v", args, want)
	}
	if strings.Count(q, "?") != len(args) {
		t.Fatalf("placeholders %d != args %d", strings.Count(q, "?"), len(args))
	}
}

func TestSearchQuery_WithoutGeo(t *testing.T) {
	q, args, err := searchQuery(filter.Build(domain.Filter{Surface: &domain.Range{Min: pf(20)}}), nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, want := range []string{
		"FROM wp_users AS hotel",
		"LEFT JOIN wp_usermeta AS m_geo_lat ON m_geo_lat.user_id = hotel.ID AND m_geo_lat.meta_key = ?",
		"AS reviews ON reviews.hotel_id = hotel.ID",
		"ROW_NUMBER() OVER (PARTITION BY post.post_author",
		"AS cheapest ON cheapest.hotel_id = hotel.ID AND cheapest.rn = 1",
		"CAST(SurfaceData.meta_value AS DOUBLE) >= ?",
		"GROUP BY hotel.ID",
		"ORDER BY room_id ASC",
	} {
		if !strings.Contains(q, want) {
			t.Fatalf("query missing %q:\n%s", want, q)
		}
	}
	if strings.Contains(q, "HAVING") || strings.Contains(q, "distance") {
		t.Fatalf("no geo filter, yet query has a distance condition:\n%s", q)
	}
	if strings.Count(q, "?") != len(args) {
		t.Fatalf("placeholders %d != args %d", strings.Count(q, "?"), len(args))
	}
	// meta keys bind first, then the room subquery
	for i, k := range domain.RequiredMetaKeys {
		if args[i] != k {
			t.Fatalf("arg %d = %v, want meta key %q", i, args[i], k)
		}
	}
	tail := args[len(domain.RequiredMetaKeys):]
	if !reflect.DeepEqual(tail, []any{"room", 20.0}) {
		t.Fatalf("subquery args %v", tail)
	}
}

func TestSearchQuery_WithGeo(t *testing.T) {
	g := &domain.GeoFilter{Lat: 45.76, Lng: 4.83, RadiusKm: 12.5}
	q, args, err := searchQuery(nil, g)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, want := range []string{
		"111.111 * DEGREES(ACOS(GREATEST(-1.0, LEAST(1.0,",
		"CAST(ANY_VALUE(m_geo_lat.meta_value) AS DOUBLE)",
		") AS distance",
		"HAVING distance <= ? OR COALESCE(ANY_VALUE(m_geo_lat.meta_value) REGEXP ?, 0) = 0 OR COALESCE(ANY_VALUE(m_geo_lng.meta_value) REGEXP ?, 0) = 0",
	} {
		if !strings.Contains(q, want) {
			t.Fatalf("query missing %q:\n%s", want, q)
		}
	}
	if strings.Count(q, "?") != len(args) {
		t.Fatalf("placeholders %d != args %d", strings.Count(q, "?"), len(args))
	}
	// distance column binds first
	if !reflect.DeepEqual(args[:3], []any{45.76, 4.83, 45.76}) {
		t.Fatalf("distance args %v", args[:3])
	}
	// radius, then the number pattern for each coordinate
	having := args[len(args)-3:]
	if !reflect.DeepEqual(having, []any{12.5, domain.NumberPattern, domain.NumberPattern}) {
		t.Fatalf("having args %v", having)
	}
	if strings.Index(q, "HAVING") < strings.Index(q, "GROUP BY") {
		t.Fatalf("distance must be checked after grouping:\n%s", q)
	}
}

func TestMetaInsert_SortedMultiRow(t *testing.T) {
	q, args, err := metaInsert("wp_postmeta", "post_id", 9, map[string]string{
		"price":          "800",
		"bedrooms_count": "1",
	}).ToSql()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if q != "INSERT INTO wp_postmeta (post_id,meta_key,meta_value) VALUES (?,?,?),(?,?,?)" {
		t.Fatalf("unexpected query %q", q)
	}
	want := []any{int64(9), "bedrooms_count", "1", int64(9), "price", "800"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	if got := userLogin("  Hôtel  de la  Gare "); got != "hôtel-de-la-gare" {
		t.Fatalf("userLogin = %q", got)
	}
}
