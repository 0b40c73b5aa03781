package logger

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Claves de configuración (variables de entorno o cualquier fuente key=value).
const (
	EnvDebug         = "DEBUG"
	EnvForceJSON     = "FORCE_JSON"
	EnvForceLogFmt   = "FORCE_LOG_FMT"
	EnvResetLogging  = "RESET_LOGGING"
	EnvService       = "SERVICE"
	EnvLogLevel      = "LOG_LEVEL"
	EnvAppVersion    = "APP_VERSION"
	EnvCaptureStdLog = "CAPTURE_STDLOG"
)

const unknownVersion = "unknown"

// Config configura el logger.
type Config struct {
	// ServiceName es el campo "service" y el nombre por defecto de los loggers.
	// Default: basename del ejecutable.
	ServiceName string

	// Version es el campo "version".
	// Default: "unknown"
	Version string

	// Level define el nivel mínimo: DEBUG, INFO, WARNING, ERROR, CRITICAL.
	// Default: INFO. Valores desconocidos caen en INFO.
	Level string

	// Debug fuerza nivel DEBUG y el formato de texto extendido (func#lineno).
	Debug bool

	// ForceJSON fuerza salida JSON. Tiene prioridad sobre ForceText.
	ForceJSON bool

	// ForceText fuerza salida de texto aunque stdout no sea una terminal.
	ForceText bool

	// KeepHandlers conserva los sinks adjuntos antes de inicializar (RESET_LOGGING=false).
	// El valor cero descarta los existentes e instala solo el propio.
	KeepHandlers bool

	// CaptureStdLog redirige el paquete log de la stdlib al logger "stdlog".
	CaptureStdLog bool
}

// DefaultConfig retorna la configuración usada cuando no hay ninguna fuente.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName(),
		Version:     unknownVersion,
		Level:       "INFO",
	}
}

// ConfigFromEnv lee la configuración de las variables de entorno del proceso.
func ConfigFromEnv() Config {
	return ConfigFromLookup(os.LookupEnv)
}

// ConfigFromLookup construye la configuración a partir de una fuente key=value.
// Claves ausentes, vacías o con valores inválidos conservan su default.
func ConfigFromLookup(lookup func(string) (string, bool)) Config {
	cfg := DefaultConfig()
	if lookup == nil {
		return cfg
	}

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvService); ok {
		cfg.ServiceName = v
	}
	if v, ok := get(EnvAppVersion); ok {
		cfg.Version = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Level = strings.ToUpper(v)
	}
	if v, ok := get(EnvDebug); ok {
		cfg.Debug = parseBool(v, cfg.Debug)
	}
	if v, ok := get(EnvForceJSON); ok {
		cfg.ForceJSON = parseBool(v, cfg.ForceJSON)
	}
	if v, ok := get(EnvForceLogFmt); ok {
		cfg.ForceText = parseBool(v, cfg.ForceText)
	}
	if v, ok := get(EnvResetLogging); ok {
		cfg.KeepHandlers = !parseBool(v, !cfg.KeepHandlers)
	}
	if v, ok := get(EnvCaptureStdLog); ok {
		cfg.CaptureStdLog = parseBool(v, cfg.CaptureStdLog)
	}
	return cfg
}

// withDefaults completa los campos vacíos de una Config armada a mano.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.ServiceName) == "" {
		c.ServiceName = defaultServiceName()
	}
	if strings.TrimSpace(c.Version) == "" {
		c.Version = unknownVersion
	}
	if strings.TrimSpace(c.Level) == "" {
		c.Level = "INFO"
	}
	return c
}

// Threshold es el nivel mínimo efectivo del root. Debug gana sobre Level.
func (c Config) Threshold() zapcore.Level {
	if c.Debug {
		return zapcore.DebugLevel
	}
	return ParseLevel(c.Level)
}

// ParseLevel convierte un nombre de nivel a zapcore.Level. Desconocido = INFO.
// CRITICAL se mapea a DPanicLevel, que sin zap.Development() no hace panic.
func ParseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "critical", "fatal":
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelName retorna el nombre del nivel tal como aparece en la salida de texto.
func LevelName(l zapcore.Level) string {
	switch {
	case l <= zapcore.DebugLevel:
		return "DEBUG"
	case l == zapcore.InfoLevel:
		return "INFO"
	case l == zapcore.WarnLevel:
		return "WARNING"
	case l == zapcore.ErrorLevel:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func defaultServiceName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "app"
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, ".exe")
}
