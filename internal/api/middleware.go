package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ecobazaarx/ecoimpact/internal/logging"
)

// TraceHeader carries the request trace id in both directions.
const TraceHeader = "X-Trace-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// observe attaches a trace id and logger to the request context, then logs
// and counts the request once it completes.
func (r *Router) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		traceID := req.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = logging.NewTraceID()
		}
		w.Header().Set(TraceHeader, traceID)

		ctx := logging.ContextWithTraceID(req.Context(), traceID)
		ctx = r.logger.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req.WithContext(ctx))

		route := req.URL.Path
		if cur := mux.CurrentRoute(req); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		r.metrics.ObserveRequest(route, rec.status, elapsed.Seconds())

		logging.FromContext(ctx).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("route", route).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Msg("request handled")
	})
}
