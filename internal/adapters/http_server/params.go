package httpserver

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"hotel_search/internal/domain"
)

// parseFilter maps the listing query string onto a domain.Filter. Malformed
// values are reported as domain.ErrInvalidFilter.
func parseFilter(q url.Values) (domain.Filter, error) {
	var f domain.Filter

	if s := strings.TrimSpace(q.Get("search")); s != "" {
		f.Search = &s
	}

	lat, err := optFloat(q, "lat")
	if err != nil {
		return f, err
	}
	lng, err := optFloat(q, "lng")
	if err != nil {
		return f, err
	}
	dist, err := optFloat(q, "distance")
	if err != nil {
		return f, err
	}
	switch {
	case lat == nil && lng == nil && dist == nil:
	case lat != nil && lng != nil && dist != nil:
		f.Geo = &domain.GeoFilter{Lat: *lat, Lng: *lng, RadiusKm: *dist}
	default:
		return f, fmt.Errorf("%w: lat, lng and distance go together", domain.ErrInvalidFilter)
	}

	if f.Price, err = optRange(q, "price"); err != nil {
		return f, err
	}
	if f.Surface, err = optRange(q, "surface"); err != nil {
		return f, err
	}
	if f.Bedrooms, err = optInt(q, "rooms"); err != nil {
		return f, err
	}
	if f.Bathrooms, err = optInt(q, "bathRooms"); err != nil {
		return f, err
	}
	f.Types = parseTypes(q)
	return f, nil
}

func optFloat(q url.Values, key string) (*float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	// ParseFloat also accepts "NaN" and "Inf"
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidFilter, key)
	}
	return &v, nil
}

func optInt(q url.Values, key string) (*int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidFilter, key)
	}
	return &v, nil
}

// optRange reads name[min] and name[max].
func optRange(q url.Values, name string) (*domain.Range, error) {
	lo, err := optFloat(q, name+"[min]")
	if err != nil {
		return nil, err
	}
	hi, err := optFloat(q, name+"[max]")
	if err != nil {
		return nil, err
	}
	if lo == nil && hi == nil {
		return nil, nil
	}
	return &domain.Range{Min: lo, Max: hi}, nil
}

// parseTypes accepts repeated types[] and a comma separated types.
func parseTypes(q url.Values) []string {
	var out []string
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	for _, v := range q["types[]"] {
		add(v)
	}
	for _, v := range q["types"] {
		for _, p := range strings.Split(v, ",") {
			add(p)
		}
	}
	return out
}
