package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
	"hotel_search/internal/geo"
)

const (
	StrategyUnoptimized = "unoptimized"
	StrategyOneRequest  = "one-request"
)

const (
	StageListOwners    = "list_owners"
	StageFetchMeta     = "fetch_meta"
	StageFetchReviews  = "fetch_reviews"
	StageFetchCheapest = "fetch_cheapest_room"
	StageSearch        = "search"
	StageAssemble      = "assemble"
)

var errRoomOutsideFilter = errors.New("cheapest room does not satisfy the filter")

// UnoptimizedService enriches every hotel owner with its own batch of
// queries (meta, reviews, cheapest room) and then applies the distance
// filter in Go.
type UnoptimizedService struct {
	store   ListingStore
	rec     Recorder
	workers int
}

// NewUnoptimizedService returns the per-hotel strategy. workers <= 1 keeps
// candidates strictly sequential; larger values evaluate up to that many
// candidates at once while preserving owner order in the result.
func NewUnoptimizedService(store ListingStore, rec Recorder, workers int) *UnoptimizedService {
	if workers < 1 {
		workers = 1
	}
	return &UnoptimizedService{store: store, rec: orNop(rec), workers: workers}
}

func (s *UnoptimizedService) List(ctx context.Context, f domain.Filter) ([]domain.Hotel, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	preds := filter.Build(f)

	stop := timed(s.rec, StrategyUnoptimized, StageListOwners)
	owners, err := s.store.ListOwners(ctx)
	stop()
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	outcomes := make([]Outcome, len(owners))
	if s.workers == 1 {
		for i, o := range owners {
			out, err := s.evaluate(ctx, o, f, preds)
			if err != nil {
				return nil, err
			}
			outcomes[i] = out
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i, o := range owners {
			i, o := i, o
			g.Go(func() error {
				out, err := s.evaluate(gctx, o, f, preds)
				if err != nil {
					return err
				}
				outcomes[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	hotels := s.collect(owners, outcomes)
	log.Info().
		Str("strategy", StrategyUnoptimized).
		Int("candidates", len(owners)).
		Int("results", len(hotels)).
		Dur("duration", time.Since(start)).
		Msg("hotels listed")
	return hotels, nil
}

func (s *UnoptimizedService) collect(owners []domain.Owner, outcomes []Outcome) []domain.Hotel {
	hotels := make([]domain.Hotel, 0, len(outcomes))
	for i, out := range outcomes {
		if !out.Accepted() {
			s.rec.ObserveRejection(StrategyUnoptimized, out.Reason)
			log.Debug().Int64("hotel", owners[i].ID).Stringer("reason", out.Reason).Msg("hotel rejected")
			continue
		}
		hotels = append(hotels, out.Hotel)
	}
	return hotels
}

// evaluate runs one candidate through meta, reviews, cheapest room and the
// optional distance check.
func (s *UnoptimizedService) evaluate(ctx context.Context, o domain.Owner, f domain.Filter, preds filter.Predicates) (Outcome, error) {
	fault := func(stage string, err error) error {
		return &domain.FaultError{Hotel: o.ID, Stage: stage, Err: err}
	}

	stop := timed(s.rec, StrategyUnoptimized, StageFetchMeta)
	meta, err := s.store.HotelMeta(ctx, o.ID)
	stop()
	if err != nil {
		return Outcome{}, fault(StageFetchMeta, err)
	}
	if _, err := parseContact(meta); err != nil {
		return Outcome{}, fault(StageFetchMeta, err)
	}

	stop = timed(s.rec, StrategyUnoptimized, StageFetchReviews)
	reviews, err := s.store.HotelReviews(ctx, o.ID)
	stop()
	if err != nil {
		return Outcome{}, fault(StageFetchReviews, err)
	}

	stop = timed(s.rec, StrategyUnoptimized, StageFetchCheapest)
	room, ok, err := s.store.CheapestRoom(ctx, o.ID, preds)
	stop()
	if err != nil {
		return Outcome{}, fault(StageFetchCheapest, err)
	}
	if !ok {
		return reject(RejectNoQualifyingRoom), nil
	}

	stop = timed(s.rec, StrategyUnoptimized, StageAssemble)
	h, err := AssembleHotel(domain.HotelRow{
		ID:      o.ID,
		Name:    o.DisplayName,
		Meta:    meta,
		Reviews: reviews,
		Room:    room,
	})
	stop()
	if err != nil {
		return Outcome{}, fault(StageAssemble, err)
	}
	if !preds.Match(h.CheapestRoom) {
		return Outcome{}, fault(StageAssemble, fmt.Errorf("%w: %v", domain.ErrMalformedRow, errRoomOutsideFilter))
	}

	if g := f.Geo; g != nil {
		d := geo.DistanceKm(g.Lat, g.Lng, h.GeoLat, h.GeoLng)
		if d > g.RadiusKm {
			return reject(RejectOutOfRadius), nil
		}
		h.Distance = &d
	}
	return accept(h), nil
}
