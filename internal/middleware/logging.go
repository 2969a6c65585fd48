package middleware

import (
	"net/http"
	"time"

	"github.com/Varun5711/contatos/internal/enrichment"
	"github.com/Varun5711/contatos/internal/logger"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// statusWriter records the status and size of a response. committed is set
// once headers have gone out, explicitly or through the first Write.
type statusWriter struct {
	http.ResponseWriter
	status    int
	bytes     int
	committed bool
}

func (sw *statusWriter) WriteHeader(status int) {
	if sw.committed {
		return
	}
	sw.status = status
	sw.committed = true
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Write(p []byte) (int, error) {
	sw.committed = true
	n, err := sw.ResponseWriter.Write(p)
	sw.bytes += n
	return n, err
}

// Logging tags each request with an X-Request-ID (kept when the client sent
// one) and logs method, path, status, size, duration and client details.
func Logging(log *logger.Logger, trustProxy bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		ua := enrichment.ParseUserAgent(r.UserAgent())
		log.Info("%s %s %d %dB %s ip=%s client=%s/%s/%s req=%s",
			r.Method,
			r.URL.Path,
			sw.status,
			sw.bytes,
			time.Since(start).Round(time.Microsecond),
			getClientIP(r, trustProxy),
			ua.Browser,
			ua.OS,
			ua.DeviceType,
			requestID,
		)
	})
}

// Recover turns handler panics into a 500 response. A response that has
// already started is left as is, since its status can no longer change.
func Recover(log *logger.Logger, writeError ErrorWriter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if v := recover(); v != nil {
				log.Error("panic recovered on %s %s: %v", r.Method, r.URL.Path, v)
				if !sw.committed {
					writeError(sw, http.StatusInternalServerError, "Internal server error")
				}
			}
		}()

		next.ServeHTTP(sw, r)
	})
}
