package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategies resolves a strategy name to its lister.
type Strategies struct {
	byName map[string]HotelLister
	def    string
}

func NewStrategies(def string, byName map[string]HotelLister) (*Strategies, error) {
	if _, ok := byName[def]; !ok {
		return nil, fmt.Errorf("default strategy %q is not registered", def)
	}
	return &Strategies{byName: byName, def: def}, nil
}

// Get returns the named strategy, or the default one when name is empty.
func (s *Strategies) Get(name string) (HotelLister, string, error) {
	if name == "" {
		name = s.def
	}
	l, ok := s.byName[name]
	if !ok {
		return nil, "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownStrategy, name, strings.Join(s.Names(), ", "))
	}
	return l, name, nil
}

func (s *Strategies) Names() []string {
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
