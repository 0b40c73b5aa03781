package main

import (
	"errors"
	"log"
	"time"

	"github.com/dropDatabas3/jsonlog/internal/observability/logger"
	"github.com/spf13/cobra"
)

type sampleOrder struct {
	ID    string   `json:"id"`
	Items []string `json:"items"`
	Total float64  `json:"total"`
}

func newEmitCmd() *cobra.Command {
	var (
		name  string
		count int
	)
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Escribe registros de ejemplo en todos los niveles",
		RunE: func(cmd *cobra.Command, args []string) error {
			emitSamples(logger.Default(), name, count)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "logger", "", "Nombre del logger (default: el servicio)")
	cmd.Flags().IntVar(&count, "count", 1, "Cantidad de rondas")
	return cmd
}

// emitSamples escribe una ronda por nivel, con extras, un error y un logger silenciado.
func emitSamples(root *logger.Root, name string, count int) {
	l := root.Logger(name)
	for i := 0; i < count; i++ {
		l.Debug("debug sample", logger.Int("round", i))
		l.Sugar().Infof("user %d login", 42)
		l.Info("order placed",
			logger.Raw("order", sampleOrder{ID: "o-1", Items: []string{"book", "pen"}, Total: 12.5}),
			logger.String("tenant", "acme"),
		)
		l.Warn("slow operation", logger.Op("emit"), logger.DurationMs(1500*time.Millisecond))
		l.Error("operation failed", logger.Op("emit"), logger.Err(errors.New("sample failure")))
		l.DPanic("critical sample")

		// solo sale con LOG_LEVEL<=WARNING gracias a la lista de loggers silenciados
		root.Logger("raft").Info("raft heartbeat")
		root.Logger("raft").Warn("raft leader lost")
	}

	if root.Config().CaptureStdLog {
		log.Printf("stdlib log redirected")
	}
}
