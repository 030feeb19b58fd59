// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_search/internal/app"
	"hotel_search/internal/domain"
)

type Handlers struct{ S *app.Strategies }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.listHotels)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	lister, strategy, err := h.S.Get(q.Get("strategy"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid strategy", err.Error())
		return
	}

	hotels, err := lister.List(r.Context(), f)
	noteListing(r.Context(), strategy, len(hotels))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(r.Context().Err(), context.DeadlineExceeded) {
			log.Warn().Err(err).Str("strategy", strategy).Msg("hotel listing timed out")
			writeProblem(w, http.StatusGatewayTimeout, "Listing timed out", "hotels could not be listed in time")
			return
		}
		if errors.Is(err, domain.ErrInvalidFilter) {
			writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
			return
		}
		ev := log.Error().Err(err).Str("strategy", strategy)
		var fault *domain.FaultError
		if errors.As(err, &fault) {
			ev = ev.Int64("hotel", fault.Hotel).Str("stage", fault.Stage)
		}
		ev.Msg("hotel listing failed")
		// never answer a fault with an empty list
		writeProblem(w, http.StatusInternalServerError, "Listing failed", "hotels could not be listed")
		return
	}

	etag, body := calcETagAndBody(toListResponse(hotels, strategy))
	if body == nil {
		// an unencodable listing is a failure, not an empty success
		writeProblem(w, http.StatusInternalServerError, "Listing failed", "hotels could not be encoded")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listHotels body")
	}
}
