package app

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"hotel_search/internal/domain"
)

// contact is the parsed wp_usermeta block of a hotel.
type contact struct {
	address  domain.Address
	lat, lng float64
	image    string
	phone    string
}

func parseContact(meta map[string]string) (contact, error) {
	for _, k := range domain.RequiredMetaKeys {
		if _, ok := meta[k]; !ok {
			return contact{}, fmt.Errorf("%w: %q", domain.ErrMissingAttribute, k)
		}
	}
	lat, err := parseFloat(domain.MetaGeoLat, meta[domain.MetaGeoLat])
	if err != nil {
		return contact{}, err
	}
	lng, err := parseFloat(domain.MetaGeoLng, meta[domain.MetaGeoLng])
	if err != nil {
		return contact{}, err
	}
	return contact{
		address: domain.Address{
			Line1:   meta[domain.MetaAddress1],
			Line2:   meta[domain.MetaAddress2],
			City:    meta[domain.MetaAddressCity],
			Zip:     meta[domain.MetaAddressZip],
			Country: meta[domain.MetaAddressCountry],
		},
		lat:   lat,
		lng:   lng,
		image: meta[domain.MetaCoverImage],
		phone: meta[domain.MetaPhone],
	}, nil
}

func parseRoom(r domain.RoomRow) (domain.Room, error) {
	if r.ID <= 0 {
		return domain.Room{}, fmt.Errorf("%w: room id %d", domain.ErrMalformedRow, r.ID)
	}
	surface, err := parseFloat("surface", r.Surface)
	if err != nil {
		return domain.Room{}, err
	}
	price, err := parseFloat("price", r.Price)
	if err != nil {
		return domain.Room{}, err
	}
	bedrooms, err := parseCount("bedrooms_count", r.Bedrooms)
	if err != nil {
		return domain.Room{}, err
	}
	bathrooms, err := parseCount("bathrooms_count", r.Bathrooms)
	if err != nil {
		return domain.Room{}, err
	}
	return domain.Room{
		ID:        r.ID,
		Title:     r.Title,
		Surface:   surface,
		Price:     price,
		Bedrooms:  bedrooms,
		Bathrooms: bathrooms,
		Type:      r.Type,
	}, nil
}

func checkReviews(rv domain.ReviewAggregate) error {
	if rv.Count < 0 {
		return fmt.Errorf("%w: negative review count %d", domain.ErrMalformedRow, rv.Count)
	}
	if (rv.Count == 0) != (rv.Rating == nil) {
		return fmt.Errorf("%w: rating presence disagrees with review count %d", domain.ErrMalformedRow, rv.Count)
	}
	if rv.Rating != nil && (*rv.Rating < 0 || *rv.Rating > 5) {
		return fmt.Errorf("%w: rating %d out of range", domain.ErrMalformedRow, *rv.Rating)
	}
	return nil
}

// AssembleHotel maps one raw row, from either strategy, into a Hotel. Any
// missing or unparseable field is a fault.
func AssembleHotel(row domain.HotelRow) (domain.Hotel, error) {
	c, err := parseContact(row.Meta)
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := checkReviews(row.Reviews); err != nil {
		return domain.Hotel{}, err
	}
	room, err := parseRoom(row.Room)
	if err != nil {
		return domain.Hotel{}, err
	}
	h := domain.Hotel{
		ID:           row.ID,
		Name:         row.Name,
		Address:      c.address,
		GeoLat:       c.lat,
		GeoLng:       c.lng,
		Phone:        c.phone,
		ImageURL:     c.image,
		RatingCount:  row.Reviews.Count,
		CheapestRoom: room,
	}
	if row.Reviews.Rating != nil {
		r := *row.Reviews.Rating
		h.Rating = &r
	}
	if row.Distance != nil {
		d := *row.Distance
		h.Distance = &d
	}
	return h, nil
}

var numberRe = regexp.MustCompile(domain.NumberPattern)

// parseFloat accepts plain decimals only: ParseFloat alone would also take
// "NaN", "Inf" and hex floats, which MySQL reads as 0.
func parseFloat(field, s string) (float64, error) {
	if !numberRe.MatchString(s) {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrMalformedRow, field, s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrMalformedRow, field, s)
	}
	return f, nil
}

// counts are stored as integers but tolerate a ".0" suffix
func parseCount(field, s string) (int, error) {
	f, err := parseFloat(field, s)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) || f < 0 {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrMalformedRow, field, s)
	}
	return int(f), nil
}
