package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	httpadapter "svw.info/hidato/internal/adapters/http"
	"svw.info/hidato/internal/hint"
	"svw.info/hidato/internal/infrastructure/storage"
	"svw.info/hidato/internal/search"
	"svw.info/hidato/internal/unique"
	"svw.info/hidato/internal/usecase"
	"svw.info/hidato/internal/validator"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes, and duration per request.
func requestLogger(logger *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.status,
			"bytes":  sw.bytes,
			"dur":    time.Since(start).Round(time.Millisecond),
		}).Info("http")
	})
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	persist := flag.String("persist-path", "./data", "save directory")
	levelStr := flag.String("log-level", "info", "debug|info|warn|error")
	satResolver := flag.Bool("sat-resolver", true, "settle inconclusive uniqueness verdicts with the SAT resolver")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch strings.ToLower(*levelStr) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	_ = os.MkdirAll(*persist, 0o755)

	// Wire providers → use cases → HTTP adapter
	engine := search.NewEngine(logger)
	prober := unique.NewProber(logger)
	if *satResolver {
		prober.WithResolver(unique.NewSATResolver(logger))
	}
	uc := usecase.NewService(engine, hint.NewFixpoint(logger), prober, validator.New(), storage.NewFS(*persist))
	h := httpadapter.New(uc)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service": "hidato-engine",
			"endpoints": []string{
				"/api/solve", "/api/hint", "/api/count", "/api/uniqueness",
				"/api/validate", "/api/save", "/api/load", "/api/list",
			},
		})
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.WithFields(logrus.Fields{
		"addr":    *addr,
		"persist": *persist,
		"sat":     *satResolver,
	}).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server error")
		os.Exit(1)
	}
}
