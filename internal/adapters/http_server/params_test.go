package httpserver

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"hotel_search/internal/domain"
)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return q
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := parseFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(f, domain.Filter{}) {
		t.Fatalf("expected zero filter, got %+v", f)
	}
}

func TestParseFilter_AllFields(t *testing.T) {
	raw := "search=lyon&lat=45.76&lng=4.83&distance=10" +
		"&price%5Bmin%5D=100&price%5Bmax%5D=1000&surface%5Bmin%5D=20" +
		"&rooms=2&bathRooms=1&types%5B%5D=Maison&types%5B%5D=Appartement&types=Chambre,+Loft"
	f, err := parseFilter(mustQuery(t, raw))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.Search == nil || *f.Search != "lyon" {
		t.Fatalf("search: %v", f.Search)
	}
	if f.Geo == nil || *f.Geo != (domain.GeoFilter{Lat: 45.76, Lng: 4.83, RadiusKm: 10}) {
		t.Fatalf("geo: %+v", f.Geo)
	}
	if f.Price == nil || *f.Price.Min != 100 || *f.Price.Max != 1000 {
		t.Fatalf("price: %+v", f.Price)
	}
	if f.Surface == nil || *f.Surface.Min != 20 || f.Surface.Max != nil {
		t.Fatalf("surface: %+v", f.Surface)
	}
	if f.Bedrooms == nil || *f.Bedrooms != 2 || f.Bathrooms == nil || *f.Bathrooms != 1 {
		t.Fatalf("counts: %v %v", f.Bedrooms, f.Bathrooms)
	}
	want := []string{"Maison", "Appartement", "Chambre", "Loft"}
	if !reflect.DeepEqual(f.Types, want) {
		t.Fatalf("types: got %v want %v", f.Types, want)
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	cases := []struct{ name, raw string }{
		{"lat not a number", "lat=north&lng=4&distance=1"},
		{"radius without point", "distance=10"},
		{"point without radius", "lat=45&lng=4"},
		{"rooms not an int", "rooms=two"},
		{"price max not a number", "price%5Bmax%5D=cheap"},
		{"NaN point", "lat=NaN&lng=4&distance=10"},
		{"NaN radius", "lat=45&lng=4&distance=NaN"},
		{"infinite radius", "lat=45&lng=4&distance=Inf"},
		{"NaN price", "price%5Bmin%5D=nan"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseFilter(mustQuery(t, tc.raw))
			if !errors.Is(err, domain.ErrInvalidFilter) {
				t.Fatalf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}
}
