package httpapi

import (
	"net/http"
	"time"

	"github.com/custodia-labs/signin/internal/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// loggingMiddleware logs one line per request. 5xx responses log at error
// level, 4xx at warn, everything else at debug.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		log := logger.Get().With(
			"http.method", r.Method,
			"http.path", r.URL.Path,
			"http.code", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		switch {
		case sw.status >= http.StatusInternalServerError:
			log.Error("request finished")
		case sw.status >= http.StatusBadRequest:
			log.Warn("request finished")
		default:
			log.Debug("request finished")
		}
	})
}
