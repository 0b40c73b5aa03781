package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dropDatabas3/jsonlog/internal/http/middlewares"
	"github.com/dropDatabas3/jsonlog/internal/metrics"
	"github.com/dropDatabas3/jsonlog/internal/observability/logger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxEmitBody = 64 << 10

func newServeCmd() *cobra.Command {
	addr := ":8080"
	if v := strings.TrimSpace(os.Getenv("LOGPROBE_ADDR")); v != "" {
		addr = v
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el probe HTTP (/healthz, /metrics, /loglevel, POST /v1/emit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, logger.Default())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Dirección de escucha (env LOGPROBE_ADDR)")
	return cmd
}

func serve(ctx context.Context, addr string, root *logger.Root) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.RegisterLogging(reg); err != nil {
		return err
	}
	if err := metrics.RegisterHTTP(reg); err != nil {
		return err
	}

	log := root.Logger("logprobe.http")
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(root, reg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(root *logger.Root, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middlewares.WithRequestID(),
		middlewares.WithMetrics(),
		middlewares.WithLogging(root.Logger(middlewares.AccessLogger)),
		middlewares.WithRecover(),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	// GET devuelve el nivel raíz, PUT {"level":"debug"} lo cambia en caliente
	r.Handle("/loglevel", root.Level())
	r.Post("/v1/emit", emitHandler(root))
	return r
}

type emitRequest struct {
	Logger  string         `json:"logger"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields"`
}

type emitResponse struct {
	Logged bool `json:"logged"`
}

func emitHandler(root *logger.Root) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emitRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEmitBody))
		if err := dec.Decode(&req); err != nil {
			logger.From(r.Context()).Debug("bad emit payload", logger.Err(err))
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, "msg is required", http.StatusBadRequest)
			return
		}

		keys := make([]string, 0, len(req.Fields))
		for k := range req.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]zap.Field, 0, len(keys)+1)
		if rid := middlewares.GetRequestID(r.Context()); rid != "" {
			fields = append(fields, logger.RequestID(rid))
		}
		for _, k := range keys {
			fields = append(fields, logger.Any(k, req.Fields[k]))
		}

		logged := false
		if ce := root.Logger(req.Logger).Check(logger.ParseLevel(req.Level), req.Message); ce != nil {
			ce.Write(fields...)
			logged = true
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(emitResponse{Logged: logged})
	}
}
