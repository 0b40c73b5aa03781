package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func lookupOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestConfigFromLookup_Defaults(t *testing.T) {
	cfg := ConfigFromLookup(lookupOf(nil))

	assert.Equal(t, defaultServiceName(), cfg.ServiceName)
	assert.Equal(t, "unknown", cfg.Version)
	assert.Equal(t, "INFO", cfg.Level)
	assert.False(t, cfg.KeepHandlers)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.ForceJSON)
	assert.False(t, cfg.ForceText)
	assert.False(t, cfg.CaptureStdLog)

	assert.Equal(t, DefaultConfig(), ConfigFromLookup(nil))
}

func TestConfigFromLookup_Parsing(t *testing.T) {
	cfg := ConfigFromLookup(lookupOf(map[string]string{
		EnvService:       " auth ",
		EnvAppVersion:    "1.2.3",
		EnvLogLevel:      "warning",
		EnvDebug:         "true",
		EnvForceJSON:     "1",
		EnvForceLogFmt:   "T",
		EnvResetLogging:  "false",
		EnvCaptureStdLog: "yes", // inválido: queda el default
	}))

	assert.Equal(t, "auth", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "WARNING", cfg.Level)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.ForceJSON)
	assert.True(t, cfg.ForceText)
	assert.True(t, cfg.KeepHandlers)
	assert.False(t, cfg.CaptureStdLog)
}

func TestConfigFromLookup_EmptyValuesKeepDefaults(t *testing.T) {
	cfg := ConfigFromLookup(lookupOf(map[string]string{
		EnvService:      "",
		EnvAppVersion:   "   ",
		EnvResetLogging: "",
	}))
	assert.Equal(t, defaultServiceName(), cfg.ServiceName)
	assert.Equal(t, "unknown", cfg.Version)
	assert.False(t, cfg.KeepHandlers)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"CRITICAL", zapcore.DPanicLevel},
		{"FATAL", zapcore.DPanicLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelName(zapcore.DebugLevel))
	assert.Equal(t, "INFO", LevelName(zapcore.InfoLevel))
	assert.Equal(t, "WARNING", LevelName(zapcore.WarnLevel))
	assert.Equal(t, "ERROR", LevelName(zapcore.ErrorLevel))
	assert.Equal(t, "CRITICAL", LevelName(zapcore.DPanicLevel))
	assert.Equal(t, "CRITICAL", LevelName(zapcore.PanicLevel))
	assert.Equal(t, "CRITICAL", LevelName(zapcore.FatalLevel))
}

func TestConfig_Threshold(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, Config{Level: "ERROR"}.Threshold())
	assert.Equal(t, zapcore.DebugLevel, Config{Level: "ERROR", Debug: true}.Threshold())
	assert.Equal(t, zapcore.InfoLevel, Config{}.Threshold())
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{Level: "ERROR", ForceJSON: true}.withDefaults()
	assert.Equal(t, defaultServiceName(), c.ServiceName)
	assert.Equal(t, "unknown", c.Version)
	assert.Equal(t, "ERROR", c.Level)
	assert.True(t, c.ForceJSON)

	c = Config{ServiceName: "svc", Version: "9"}.withDefaults()
	assert.Equal(t, "svc", c.ServiceName)
	assert.Equal(t, "9", c.Version)
	assert.Equal(t, "INFO", c.Level)
}
