package logger

import (
	"github.com/dropDatabas3/jsonlog/internal/metrics"
	"go.uber.org/zap/zapcore"
)

// core conecta zap con el Root: decide por nombre de logger si un Entry pasa el
// umbral, arma el Event y lo reparte a los sinks.
type core struct {
	root   *Root
	fields []zapcore.Field
}

var _ zapcore.Core = (*core)(nil)

func (c *core) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.root.minLevel()
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	clone := &core{root: c.root, fields: make([]zapcore.Field, 0, len(c.fields)+len(fields))}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level >= c.root.LevelFor(ent.LoggerName) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ev := c.event(ent, fields)
	metrics.LogRecordsTotal.WithLabelValues(levelKey(ev)).Inc()
	return c.root.emit(ev)
}

func (c *core) Sync() error {
	return c.root.Sync()
}

func (c *core) event(ent zapcore.Entry, fields []zapcore.Field) *Event {
	cfg := c.root.currentConfig()
	b := &eventBuilder{ev: Event{
		Time:    ent.Time.UTC(),
		Level:   ent.Level,
		Logger:  ent.LoggerName,
		Message: ent.Message,
		Service: cfg.ServiceName,
		Version: cfg.Version,
		Line:    ent.Caller.Line,
		PID:     c.root.pid,
	}}
	if b.ev.Logger == "" {
		b.ev.Logger = cfg.ServiceName
	}
	b.ev.Module, b.ev.Func = splitCaller(ent.Caller)

	for _, f := range c.fields {
		b.addZapField(f)
	}
	for _, f := range fields {
		b.addZapField(f)
	}
	if ent.Stack != "" {
		if b.ev.Exc != "" {
			b.ev.Exc += "\n"
		}
		b.ev.Exc += ent.Stack
	}
	return &b.ev
}
