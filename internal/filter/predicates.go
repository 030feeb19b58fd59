// Package filter turns a search Filter into room predicates shared by both
// listing strategies: rendered to SQL for the query, evaluated in memory to
// check what the query returned.
package filter

import (
	sq "github.com/Masterminds/squirrel"

	"hotel_search/internal/domain"
)

type Field int

const (
	Surface Field = iota
	Price
	Bedrooms
	Bathrooms
	Type
)

func (f Field) String() string {
	switch f {
	case Surface:
		return "surface"
	case Price:
		return "price"
	case Bedrooms:
		return "bedrooms"
	case Bathrooms:
		return "bathrooms"
	case Type:
		return "type"
	}
	return "unknown"
}

type Op string

const (
	Gte Op = ">="
	Lte Op = "<="
	In  Op = "IN"
)

// Predicate constrains one room attribute. Value is a float64 for Gte/Lte
// and a []string for In.
type Predicate struct {
	Field Field
	Op    Op
	Value any
}

// Predicates are implicitly AND-ed.
type Predicates []Predicate

// Columns maps each field to the SQL expression holding it in a given query.
type Columns map[Field]string

// Build emits one predicate per constrained filter field, in a fixed order:
// surface, price, bedrooms, bathrooms, type.
func Build(f domain.Filter) Predicates {
	var ps Predicates
	bounds := func(field Field, r *domain.Range) {
		if r == nil {
			return
		}
		if r.Min != nil {
			ps = append(ps, Predicate{Field: field, Op: Gte, Value: *r.Min})
		}
		if r.Max != nil {
			ps = append(ps, Predicate{Field: field, Op: Lte, Value: *r.Max})
		}
	}
	bounds(Surface, f.Surface)
	bounds(Price, f.Price)
	if f.Bedrooms != nil {
		ps = append(ps, Predicate{Field: Bedrooms, Op: Gte, Value: float64(*f.Bedrooms)})
	}
	if f.Bathrooms != nil {
		ps = append(ps, Predicate{Field: Bathrooms, Op: Gte, Value: float64(*f.Bathrooms)})
	}
	// an empty type set means "any type"
	if len(f.Types) > 0 {
		types := append([]string(nil), f.Types...)
		ps = append(ps, Predicate{Field: Type, Op: In, Value: types})
	}
	return ps
}

func (p Predicate) sqlizer(cols Columns) sq.Sqlizer {
	col := cols[p.Field]
	switch p.Op {
	case Gte:
		return sq.GtOrEq{col: p.Value}
	case Lte:
		return sq.LtOrEq{col: p.Value}
	default:
		return sq.Eq{col: p.Value}
	}
}

// Sqlizer renders the predicates as one parameterized condition. It returns
// nil when there is nothing to constrain.
func (ps Predicates) Sqlizer(cols Columns) sq.Sqlizer {
	if len(ps) == 0 {
		return nil
	}
	and := make(sq.And, 0, len(ps))
	for _, p := range ps {
		and = append(and, p.sqlizer(cols))
	}
	return and
}

// Match reports whether a room satisfies every predicate.
func (ps Predicates) Match(r domain.Room) bool {
	for _, p := range ps {
		if !p.match(r) {
			return false
		}
	}
	return true
}

func (p Predicate) match(r domain.Room) bool {
	if p.Op == In {
		for _, t := range p.Value.([]string) {
			if t == r.Type {
				return true
			}
		}
		return false
	}
	var v float64
	switch p.Field {
	case Surface:
		v = r.Surface
	case Price:
		v = r.Price
	case Bedrooms:
		v = float64(r.Bedrooms)
	case Bathrooms:
		v = float64(r.Bathrooms)
	default:
		return false
	}
	bound := p.Value.(float64)
	if p.Op == Gte {
		return v >= bound
	}
	return v <= bound
}
