package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v2"

	"hotel_search/internal/domain"
)

// SeedStore runs fn in one transaction: if fn fails nothing it wrote is kept.
type SeedStore interface {
	WithinTx(ctx context.Context, fn func(w domain.SeedWriter) error) error
}

type FixtureAddress struct {
	Line1   string `yaml:"line1"`
	Line2   string `yaml:"line2"`
	City    string `yaml:"city"`
	Zip     string `yaml:"zip"`
	Country string `yaml:"country"`
}

type FixtureRoom struct {
	Title     string  `yaml:"title"`
	Price     float64 `yaml:"price"`
	Surface   float64 `yaml:"surface"`
	Bedrooms  int     `yaml:"bedrooms"`
	Bathrooms int     `yaml:"bathrooms"`
	Type      string  `yaml:"type"`
}

// FixtureHotel is one hotel of a seed file.
type FixtureHotel struct {
	Name       string         `yaml:"name"`
	Address    FixtureAddress `yaml:"address"`
	Lat        float64        `yaml:"lat"`
	Lng        float64        `yaml:"lng"`
	Phone      string         `yaml:"phone"`
	CoverImage string         `yaml:"cover_image"`
	Rooms      []FixtureRoom  `yaml:"rooms"`
	Ratings    []int          `yaml:"ratings"`
}

type fixtureFile struct {
	Hotels []FixtureHotel `yaml:"hotels"`
}

// LoadFixtures decodes and validates a YAML seed file.
func LoadFixtures(r io.Reader) ([]FixtureHotel, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f fixtureFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, h := range f.Hotels {
		if err := h.validate(); err != nil {
			return nil, fmt.Errorf("hotel #%d (%q): %w", i, h.Name, err)
		}
	}
	return f.Hotels, nil
}

func (h FixtureHotel) validate() error {
	switch {
	case h.Name == "":
		return fmt.Errorf("%w: name is empty", domain.ErrMalformedRow)
	case h.Lat < -90 || h.Lat > 90:
		return fmt.Errorf("%w: lat out of range", domain.ErrMalformedRow)
	case h.Lng < -180 || h.Lng > 180:
		return fmt.Errorf("%w: lng out of range", domain.ErrMalformedRow)
	}
	for _, r := range h.Ratings {
		if r < 0 || r > 5 {
			return fmt.Errorf("%w: rating %d out of 0..5", domain.ErrMalformedRow, r)
		}
	}
	for _, r := range h.Rooms {
		if r.Price < 0 || r.Surface < 0 || r.Bedrooms < 0 || r.Bathrooms < 0 {
			return fmt.Errorf("%w: room %q has a negative attribute", domain.ErrMalformedRow, r.Title)
		}
	}
	return nil
}

/********** fixture -> attribute rows **********/

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// hotelMeta lays a fixture out as the wp_usermeta pairs every hotel carries.
func hotelMeta(h FixtureHotel) map[string]string {
	return map[string]string{
		domain.MetaAddress1:       h.Address.Line1,
		domain.MetaAddress2:       h.Address.Line2,
		domain.MetaAddressCity:    h.Address.City,
		domain.MetaAddressZip:     h.Address.Zip,
		domain.MetaAddressCountry: h.Address.Country,
		domain.MetaGeoLat:         formatFloat(h.Lat),
		domain.MetaGeoLng:         formatFloat(h.Lng),
		domain.MetaCoverImage:     h.CoverImage,
		domain.MetaPhone:          h.Phone,
	}
}

func roomMeta(r FixtureRoom) map[string]string {
	return map[string]string{
		"price":           formatFloat(r.Price),
		"surface":         formatFloat(r.Surface),
		"type":            r.Type,
		"bedrooms_count":  strconv.Itoa(r.Bedrooms),
		"bathrooms_count": strconv.Itoa(r.Bathrooms),
	}
}

// SeedService loads fixture hotels into the store.
type SeedService struct{ store SeedStore }

func NewSeedService(s SeedStore) *SeedService { return &SeedService{store: s} }

// SeedHotel writes the hotel, then its rooms and reviews as posts authored
// by it, all in one transaction. It returns the new hotel id.
func (s *SeedService) SeedHotel(ctx context.Context, h FixtureHotel) (int64, error) {
	if err := h.validate(); err != nil {
		return 0, err
	}
	var id int64
	err := s.store.WithinTx(ctx, func(w domain.SeedWriter) error {
		var err error
		if id, err = w.InsertHotel(ctx, h.Name, hotelMeta(h)); err != nil {
			return fmt.Errorf("insert hotel %q: %w", h.Name, err)
		}
		for _, r := range h.Rooms {
			if _, err := w.InsertPost(ctx, id, domain.PostTypeRoom, r.Title, roomMeta(r)); err != nil {
				return fmt.Errorf("insert room %q of hotel %q: %w", r.Title, h.Name, err)
			}
		}
		for i, rating := range h.Ratings {
			title := fmt.Sprintf("Review %d", i+1)
			meta := map[string]string{"rating": strconv.Itoa(rating)}
			if _, err := w.InsertPost(ctx, id, domain.PostTypeReview, title, meta); err != nil {
				return fmt.Errorf("insert review of hotel %q: %w", h.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
