package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/dropDatabas3/jsonlog/internal/observability/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sources lista de dónde sale la configuración de logging.
// Precedencia: entorno del proceso > EnvFile > File > defaults.
type Sources struct {
	// EnvFile es un .env opcional; si no existe se ignora.
	EnvFile string
	// File es un YAML opcional con un bloque "logging:". Si se indica, debe existir.
	File string
	// Lookup reemplaza a os.LookupEnv (tests).
	Lookup func(string) (string, bool)
}

// FileConfig es el bloque "logging:" del YAML. Los punteros distinguen "ausente" de false.
type FileConfig struct {
	Logging struct {
		Service       string `yaml:"service"`
		Version       string `yaml:"app_version"`
		Level         string `yaml:"log_level"`
		Debug         *bool  `yaml:"debug"`
		ForceJSON     *bool  `yaml:"force_json"`
		ForceLogFmt   *bool  `yaml:"force_log_fmt"`
		ResetLogging  *bool  `yaml:"reset_logging"`
		CaptureStdLog *bool  `yaml:"capture_stdlog"`
	} `yaml:"logging"`
}

// Load arma la logger.Config combinando las fuentes.
func Load(src Sources) (logger.Config, error) {
	layers := make([]map[string]string, 0, 3)

	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if p := strings.TrimSpace(src.EnvFile); p != "" {
		m, err := godotenv.Read(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return logger.Config{}, fmt.Errorf("config: read env file %s: %w", p, err)
		}
		layers = append(layers, m)
	}

	if p := strings.TrimSpace(src.File); p != "" {
		m, err := readFile(p)
		if err != nil {
			return logger.Config{}, err
		}
		layers = append(layers, m)
	}

	return logger.ConfigFromLookup(func(key string) (string, bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		for _, m := range layers {
			if v, ok := m[key]; ok && strings.TrimSpace(v) != "" {
				return v, true
			}
		}
		return "", false
	}), nil
}

func readFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc.values(), nil
}

// values traduce el YAML a las mismas claves que el entorno.
func (fc FileConfig) values() map[string]string {
	l := fc.Logging
	m := map[string]string{
		logger.EnvService:    l.Service,
		logger.EnvAppVersion: l.Version,
		logger.EnvLogLevel:   l.Level,
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			m[key] = strconv.FormatBool(*v)
		}
	}
	setBool(logger.EnvDebug, l.Debug)
	setBool(logger.EnvForceJSON, l.ForceJSON)
	setBool(logger.EnvForceLogFmt, l.ForceLogFmt)
	setBool(logger.EnvResetLogging, l.ResetLogging)
	setBool(logger.EnvCaptureStdLog, l.CaptureStdLog)
	return m
}
