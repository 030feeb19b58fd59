package app_test

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"hotel_search/internal/app"
	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
	"hotel_search/internal/geo"
)

// ---- fakes ----

type fakeHotel struct {
	owner   domain.Owner
	meta    map[string]string
	ratings []int
	rooms   []domain.Room
}

// fakeStore serves both strategies from the same in-memory data.
type fakeStore struct {
	mu     sync.Mutex
	hotels []fakeHotel
	calls  map[string]int
	failOn string // method name that returns errStore
}

var errStore = errors.New("store unreachable")

var numberRe = regexp.MustCompile(domain.NumberPattern)

func newFakeStore(hs ...fakeHotel) *fakeStore {
	return &fakeStore{hotels: hs, calls: map[string]int{}}
}

func (s *fakeStore) hit(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
	if s.failOn == method {
		return errStore
	}
	return nil
}

func (s *fakeStore) find(id int64) fakeHotel {
	for _, h := range s.hotels {
		if h.owner.ID == id {
			return h
		}
	}
	return fakeHotel{}
}

func (s *fakeStore) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	if err := s.hit("ListOwners"); err != nil {
		return nil, err
	}
	out := make([]domain.Owner, 0, len(s.hotels))
	for _, h := range s.hotels {
		out = append(out, h.owner)
	}
	return out, nil
}

func (s *fakeStore) HotelMeta(ctx context.Context, id int64) (map[string]string, error) {
	if err := s.hit("HotelMeta"); err != nil {
		return nil, err
	}
	return s.find(id).meta, nil
}

func (s *fakeStore) HotelReviews(ctx context.Context, id int64) (domain.ReviewAggregate, error) {
	if err := s.hit("HotelReviews"); err != nil {
		return domain.ReviewAggregate{}, err
	}
	return aggregate(s.find(id).ratings), nil
}

func (s *fakeStore) CheapestRoom(ctx context.Context, id int64, preds filter.Predicates) (domain.RoomRow, bool, error) {
	if err := s.hit("CheapestRoom"); err != nil {
		return domain.RoomRow{}, false, err
	}
	r, ok := cheapest(s.find(id).rooms, preds)
	return r, ok, nil
}

func (s *fakeStore) SearchHotels(ctx context.Context, preds filter.Predicates, g *domain.GeoFilter) ([]domain.HotelRow, error) {
	if err := s.hit("SearchHotels"); err != nil {
		return nil, err
	}
	var out []domain.HotelRow
	for _, h := range s.hotels {
		room, ok := cheapest(h.rooms, preds)
		if !ok {
			continue
		}
		row := domain.HotelRow{ID: h.owner.ID, Name: h.owner.DisplayName, Meta: h.meta, Reviews: aggregate(h.ratings), Room: room}
		if g != nil {
			// like the SQL HAVING: unusable coordinates are left to the assembler
			latS, latOK := h.meta[domain.MetaGeoLat]
			lngS, lngOK := h.meta[domain.MetaGeoLng]
			if latOK && lngOK && numberRe.MatchString(latS) && numberRe.MatchString(lngS) {
				lat, _ := strconv.ParseFloat(strings.TrimSpace(latS), 64)
				lng, _ := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
				d := geo.DistanceKm(g.Lat, g.Lng, lat, lng)
				if d > g.RadiusKm {
					continue
				}
				row.Distance = &d
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room.ID < out[j].Room.ID })
	return out, nil
}

func aggregate(ratings []int) domain.ReviewAggregate {
	if len(ratings) == 0 {
		return domain.ReviewAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := int(math.Round(float64(sum) / float64(len(ratings))))
	return domain.ReviewAggregate{Rating: &avg, Count: len(ratings)}
}

func cheapest(rooms []domain.Room, preds filter.Predicates) (domain.RoomRow, bool) {
	var best *domain.Room
	for i := range rooms {
		r := rooms[i]
		if !preds.Match(r) {
			continue
		}
		if best == nil || r.Price < best.Price || (r.Price == best.Price && r.ID < best.ID) {
			best = &rooms[i]
		}
	}
	if best == nil {
		return domain.RoomRow{}, false
	}
	return toRow(*best), true
}

func toRow(r domain.Room) domain.RoomRow {
	return domain.RoomRow{
		ID:        r.ID,
		Title:     r.Title,
		Surface:   strconv.FormatFloat(r.Surface, 'f', -1, 64),
		Price:     strconv.FormatFloat(r.Price, 'f', 2, 64),
		Bedrooms:  strconv.Itoa(r.Bedrooms),
		Bathrooms: strconv.Itoa(r.Bathrooms),
		Type:      r.Type,
	}
}

type stageKey struct{ strategy, stage string }

type fakeRecorder struct {
	mu         sync.Mutex
	stages     map[stageKey]int
	rejections map[app.RejectReason]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{stages: map[stageKey]int{}, rejections: map[app.RejectReason]int{}}
}

func (r *fakeRecorder) ObserveStage(strategy, stage string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stageKey{strategy, stage}]++
}

func (r *fakeRecorder) ObserveRejection(strategy string, reason app.RejectReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections[reason]++
}

// ---- fixtures ----

func meta(lat, lng string) map[string]string {
	return map[string]string{
		domain.MetaAddress1:       "1 rue de la République",
		domain.MetaAddress2:       "",
		domain.MetaAddressCity:    "Lyon",
		domain.MetaAddressZip:     "69002",
		domain.MetaAddressCountry: "France",
		domain.MetaGeoLat:         lat,
		domain.MetaGeoLng:         lng,
		domain.MetaCoverImage:     "https://img.example/cover.jpg",
		domain.MetaPhone:          "+33 4 00 00 00 00",
	}
}

func room(id int64, price, surface float64, bedrooms, bathrooms int, typ string) domain.Room {
	return domain.Room{
		ID: id, Title: "Room " + strconv.FormatInt(id, 10),
		Price: price, Surface: surface, Bedrooms: bedrooms, Bathrooms: bathrooms, Type: typ,
	}
}

// fixture: Lyon (two rooms), Villeurbanne (no reviews), Paris (equal prices),
// Marseille, and a hotel without rooms.
func fixture() []fakeHotel {
	return []fakeHotel{
		{
			owner:   domain.Owner{ID: 1, DisplayName: "Hôtel Bellecour"},
			meta:    meta("45.7578", "4.8320"),
			ratings: []int{4, 5, 4},
			rooms: []domain.Room{
				room(101, 800, 25, 1, 1, "Appartement"),
				room(102, 950, 40, 2, 1, "Appartement"),
			},
		},
		{
			owner: domain.Owner{ID: 2, DisplayName: "Villeurbanne Suites"},
			meta:  meta("45.7719", "4.8902"),
			rooms: []domain.Room{
				room(201, 1200, 120, 3, 2, "Maison"),
				room(202, 600, 18, 1, 1, "Chambre"),
			},
		},
		{
			owner:   domain.Owner{ID: 3, DisplayName: "Paris Opéra"},
			meta:    meta("48.8566", "2.3522"),
			ratings: []int{3},
			rooms: []domain.Room{
				room(302, 950, 55, 2, 1, "Appartement"),
				room(301, 950, 50, 2, 1, "Appartement"),
			},
		},
		{
			owner:   domain.Owner{ID: 4, DisplayName: "Vieux Port"},
			meta:    meta("43.2965", "5.3698"),
			ratings: []int{1, 2, 2},
			rooms: []domain.Room{
				room(401, 300, 20, 1, 1, "Chambre"),
				room(402, 450, 70, 2, 2, "Maison"),
			},
		},
		{
			owner:   domain.Owner{ID: 5, DisplayName: "Chantier"},
			meta:    meta("45.75", "4.85"),
			ratings: []int{5},
		},
	}
}

func pf(f float64) *float64 { return &f }
func pi(i int) *int         { return &i }
