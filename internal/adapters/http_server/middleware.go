package httpserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"hotel_search/internal/adapters/observability"
)

// listing is what a listing handler reports back to the middlewares around
// it. Requests that list nothing keep the zero value.
type listing struct {
	strategy string
	hotels   int
}

type listingKey struct{}

// withListing returns r carrying a listing slot, reusing one an outer
// middleware already attached.
func withListing(r *http.Request) (*http.Request, *listing) {
	if l, ok := r.Context().Value(listingKey{}).(*listing); ok {
		return r, l
	}
	l := &listing{}
	return r.WithContext(context.WithValue(r.Context(), listingKey{}, l)), l
}

func noteListing(ctx context.Context, strategy string, hotels int) {
	if l, ok := ctx.Value(listingKey{}).(*listing); ok {
		l.strategy = strategy
		l.hotels = hotels
	}
}

func (l *listing) strategyLabel() string {
	if l.strategy == "" {
		return "none"
	}
	return l.strategy
}

// Timeout puts a deadline on the request context. Strategies stop at the
// deadline and listHotels answers 504.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit sheds load above rps requests per second with a 429. rps <= 0
// disables it.
func RateLimit(rps int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	rl := rate.NewLimiter(rate.Limit(rps), rps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow() {
				w.Header().Set("Retry-After", "1")
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter remembers the first status written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// Metrics counts requests per route and per listing strategy, so the two
// strategies can be compared on live traffic.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r, l := withListing(r)
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		observability.ObserveHTTP(routeOf(r), r.Method, l.strategyLabel(), sw.Status(), time.Since(start))
	})
}

// Logger writes one line per request, with the strategy and hotel count
// when the request was a listing.
func Logger(lg zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, l := withListing(r)
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			lvl := zerolog.InfoLevel
			if sw.Status() >= http.StatusInternalServerError {
				lvl = zerolog.WarnLevel
			}
			ev := lg.WithLevel(lvl)
			if l.strategy != "" {
				ev = ev.Str("strategy", l.strategy).Int("hotels", l.hotels)
			}
			ev.Str("request_id", chimw.GetReqID(r.Context())).
				Str("route", routeOf(r)).
				Str("method", r.Method).
				Str("query", r.URL.RawQuery).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", remoteIP(r)).
				Msg("http_request")
		})
	}
}

// first X-Forwarded-For hop, else RemoteAddr host
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
