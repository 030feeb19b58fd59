package domain

import (
	"fmt"
	"math"
)

// Filter is the caller-supplied search. Every field is optional; a nil
// (or empty, for Types) field imposes no constraint.
type Filter struct {
	Search    *string // accepted, not used for filtering
	Geo       *GeoFilter
	Price     *Range
	Surface   *Range
	Bedrooms  *int
	Bathrooms *int
	Types     []string
}

type GeoFilter struct {
	Lat, Lng float64
	RadiusKm float64
}

type Range struct {
	Min *float64
	Max *float64
}

func (r *Range) validate(name string) error {
	if r == nil {
		return nil
	}
	if (r.Min != nil && !finite(*r.Min)) || (r.Max != nil && !finite(*r.Max)) {
		return fmt.Errorf("%w: %s bounds must be finite numbers", ErrInvalidFilter, name)
	}
	if r.Min != nil && *r.Min < 0 {
		return fmt.Errorf("%w: %s min must not be negative", ErrInvalidFilter, name)
	}
	if r.Max != nil && *r.Max < 0 {
		return fmt.Errorf("%w: %s max must not be negative", ErrInvalidFilter, name)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: %s min is greater than max", ErrInvalidFilter, name)
	}
	return nil
}

func (f Filter) Validate() error {
	if g := f.Geo; g != nil {
		// NaN slips through every range comparison below
		if !finite(g.Lat) || !finite(g.Lng) || !finite(g.RadiusKm) {
			return fmt.Errorf("%w: lat, lng and distance must be finite numbers", ErrInvalidFilter)
		}
		if g.Lat < -90 || g.Lat > 90 {
			return fmt.Errorf("%w: lat out of range", ErrInvalidFilter)
		}
		if g.Lng < -180 || g.Lng > 180 {
			return fmt.Errorf("%w: lng out of range", ErrInvalidFilter)
		}
		if g.RadiusKm < 0 {
			return fmt.Errorf("%w: distance must not be negative", ErrInvalidFilter)
		}
	}
	if err := f.Price.validate("price"); err != nil {
		return err
	}
	if err := f.Surface.validate("surface"); err != nil {
		return err
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return fmt.Errorf("%w: rooms must not be negative", ErrInvalidFilter)
	}
	if f.Bathrooms != nil && *f.Bathrooms < 0 {
		return fmt.Errorf("%w: bathRooms must not be negative", ErrInvalidFilter)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
