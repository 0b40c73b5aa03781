package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/jsonlog/internal/observability/logger"
	"go.uber.org/zap"
)

// AccessLogger es el nombre del logger de acceso HTTP (umbral propio en la lista de loggers silenciados).
const AccessLogger = "http.access"

// statusRecorder captura el status code y bytes escritos de la respuesta.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.status = http.StatusOK
		s.wroteHeader = true
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// WithLogging registra cada request con campos estructurados e inyecta en el
// contexto un logger "scoped" con request_id, method y path.
// base nil usa logger.Get(AccessLogger).
//
// Ejemplo (JSON):
//
//	{"ts":"2024-01-15T15:04:05.000Z","level":"info","service":"logprobe","logger":"http.access","msg":"request completed",...,"request_id":"...","method":"POST","path":"/v1/emit","status":202,"bytes":0,"duration_ms":1}
func WithLogging(base *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			l := base
			if l == nil {
				l = logger.Get(AccessLogger)
			}

			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = w.Header().Get(HeaderRequestID)
			}

			reqLog := l.With(
				logger.RequestID(requestID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			reqLog.Debug("request started",
				logger.ClientIP(clientIP(r)),
				logger.UserAgent(r.UserAgent()),
			)

			ctx := logger.ToContext(r.Context(), reqLog)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []zap.Field{
				logger.Status(rec.status),
				logger.Bytes(rec.bytes),
				logger.DurationMs(time.Since(start)),
			}
			switch {
			case rec.status >= 500:
				reqLog.Error("request failed", fields...)
			case rec.status >= 400:
				reqLog.Warn("request completed with client error", fields...)
			default:
				reqLog.Info("request completed", fields...)
			}
		})
	}
}
