package main

import (
	"os"

	"github.com/dropDatabas3/jsonlog/internal/config"
	"github.com/dropDatabas3/jsonlog/internal/observability/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile = ".env"
		cfgFile string
	)

	root := &cobra.Command{
		Use:          "logprobe",
		Short:        "Prueba el bootstrap de logging (texto/JSON) del proceso",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Sources{EnvFile: envFile, File: cfgFile})
			if err != nil {
				// seguimos con el entorno: el logger siempre tiene que quedar listo
				logger.Init(logger.ConfigFromEnv())
				logger.L().Warn("config load failed, using environment only", logger.Err(err))
				return nil
			}
			logger.Init(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "Archivo .env opcional (se ignora si no existe)")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML con un bloque logging: (opcional)")

	root.AddCommand(newEmitCmd(), newServeCmd())
	return root
}
