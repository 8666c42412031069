package logger

import (
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Heidric/hmacsign/pkg/log"
)

// Log is the process-wide zerolog logger used by the service. It discards
// everything until Initialize is called.
var Log = func() *zerolog.Logger { l := zerolog.Nop(); return &l }()

// Initialize configures the logging subsystem using the provided Config.
// It builds a zerolog-based logger (level/format taken from Config), assigns
// the global Log, and returns a wrapper for further use.
func Initialize(config *log.Config, output io.Writer) (*log.Logger, error) {
	logger, err := log.NewLogger(config, output)
	if err != nil {
		return nil, errors.Wrap(err, "new logger")
	}

	Log = logger.Zerolog()

	return logger, nil
}

// Middleware is an HTTP logging middleware.
// It wraps the ResponseWriter to record status and bytes written, measures
// request duration, and logs method, path, status, size, and latency.
// The request context carries the logger for downstream handlers.
func Middleware(base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serve(base, next, w, r)
		})
	}
}

func serve(base *zerolog.Logger, next http.Handler, w http.ResponseWriter, r *http.Request) {
	if base == nil {
		base = Log
	}
	start := time.Now()

	responseData := &responseData{
		status: http.StatusOK,
		size:   0,
	}
	lw := loggingResponseWriter{
		ResponseWriter: w,
		responseData:   responseData,
	}
	next.ServeHTTP(&lw, r.WithContext(base.WithContext(r.Context())))

	base.Info().
		Str("uri", r.RequestURI).
		Str("method", r.Method).
		Str("duration", time.Since(start).String()).
		Int("status", responseData.status).
		Int("size", responseData.size).
		Msg("got HTTP request")
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

// Write implements http.ResponseWriter for the logging wrapper.
// It forwards bytes to the underlying writer and accumulates the number
// of bytes written for inclusion in the access log.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader implements http.ResponseWriter for the logging wrapper.
// It forwards the status code to the underlying writer and stores it
// so the middleware can log the final response status.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}
