package app

import (
	"context"
	"time"

	"hotel_search/internal/domain"
	"hotel_search/internal/filter"
)

// ListingStore exposes the per-hotel lookups the unoptimized strategy issues
// for every candidate.
type ListingStore interface {
	ListOwners(ctx context.Context) ([]domain.Owner, error)
	HotelMeta(ctx context.Context, hotelID int64) (map[string]string, error)
	HotelReviews(ctx context.Context, hotelID int64) (domain.ReviewAggregate, error)
	// CheapestRoom reports ok=false when no room of the hotel satisfies preds.
	CheapestRoom(ctx context.Context, hotelID int64, preds filter.Predicates) (room domain.RoomRow, ok bool, err error)
}

// SearchStore answers the whole search with a single statement.
type SearchStore interface {
	SearchHotels(ctx context.Context, preds filter.Predicates, geo *domain.GeoFilter) ([]domain.HotelRow, error)
}

// Recorder receives stage timings and rejections. Implementations must be
// safe for concurrent use.
type Recorder interface {
	ObserveStage(strategy, stage string, d time.Duration)
	ObserveRejection(strategy string, reason RejectReason)
}

// HotelLister is the contract both strategies implement.
type HotelLister interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Hotel, error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, string, time.Duration) {}
func (nopRecorder) ObserveRejection(string, RejectReason)       {}

func orNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// stage timer
func timed(rec Recorder, strategy, stage string) func() {
	start := time.Now()
	return func() { rec.ObserveStage(strategy, stage, time.Since(start)) }
}
