package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
)

// OneRequestService answers a search with one grouped statement; the
// store pushes every predicate, including distance, into SQL.
type OneRequestService struct {
	store SearchStore
	rec   Recorder
}

func NewOneRequestService(store SearchStore, rec Recorder) *OneRequestService {
	return &OneRequestService{store: store, rec: orNop(rec)}
}

func (s *OneRequestService) List(ctx context.Context, f domain.Filter) ([]domain.Hotel, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	preds := filter.Build(f)

	stop := timed(s.rec, StrategyOneRequest, StageSearch)
	rows, err := s.store.SearchHotels(ctx, preds, f.Geo)
	stop()
	if err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}

	defer timed(s.rec, StrategyOneRequest, StageAssemble)()
	hotels := make([]domain.Hotel, 0, len(rows))
	for _, row := range rows {
		h, err := AssembleHotel(row)
		if err != nil {
			return nil, &domain.FaultError{Hotel: row.ID, Stage: StageAssemble, Err: err}
		}
		if !preds.Match(h.CheapestRoom) {
			return nil, &domain.FaultError{Hotel: row.ID, Stage: StageAssemble,
				Err: fmt.Errorf("%w: %v", domain.ErrMalformedRow, errRoomOutsideFilter)}
		}
		if g := f.Geo; g != nil && (h.Distance == nil || *h.Distance > g.RadiusKm) {
			return nil, &domain.FaultError{Hotel: row.ID, Stage: StageAssemble,
				Err: fmt.Errorf("%w: distance missing or beyond radius", domain.ErrMalformedRow)}
		}
		hotels = append(hotels, h)
	}

	log.Info().
		Str("strategy", StrategyOneRequest).
		Int("results", len(hotels)).
		Dur("duration", time.Since(start)).
		Msg("hotels listed")
	return hotels, nil
}
