package app

import "hotel_search/internal/domain"

type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectNoQualifyingRoom
	RejectOutOfRadius
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectNoQualifyingRoom:
		return "no_qualifying_room"
	case RejectOutOfRadius:
		return "out_of_radius"
	}
	return "unknown"
}

// Outcome is the result of evaluating one candidate: either an accepted
// hotel or a rejection reason. Faults are returned separately as errors.
type Outcome struct {
	Hotel  domain.Hotel
	Reason RejectReason
}

func accept(h domain.Hotel) Outcome      { return Outcome{Hotel: h} }
func reject(reason RejectReason) Outcome { return Outcome{Reason: reason} }

func (o Outcome) Accepted() bool { return o.Reason == RejectNone }
