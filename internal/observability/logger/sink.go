package logger

import (
	"io"
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// Sink recibe Events ya construidos y los escribe en algún destino.
type Sink interface {
	Write(ev *Event) error
	Sync() error
}

// FormatterSetter lo implementan los sinks cuyo formatter puede reemplazarse en
// caliente. Con KeepHandlers, Initialize reutiliza el primero que encuentre.
type FormatterSetter interface {
	SetFormatter(f Formatter)
}

// StreamSink escribe una línea por Event en un stream. Cada escritura se serializa
// con zapcore.Lock, así que no hay líneas intercaladas entre goroutines.
type StreamSink struct {
	out       zapcore.WriteSyncer
	formatter atomic.Pointer[Formatter]
}

// NewStreamSink crea un sink sobre w con el formatter dado.
func NewStreamSink(w io.Writer, f Formatter) *StreamSink {
	s := &StreamSink{out: lockedSyncer(w)}
	s.SetFormatter(f)
	return s
}

func lockedSyncer(w io.Writer) zapcore.WriteSyncer {
	if ws, ok := w.(zapcore.WriteSyncer); ok {
		return zapcore.Lock(ws)
	}
	return zapcore.Lock(zapcore.AddSync(w))
}

// SetFormatter reemplaza el formatter sin recrear el sink.
func (s *StreamSink) SetFormatter(f Formatter) {
	if f == nil {
		f = &TextFormatter{}
	}
	s.formatter.Store(&f)
}

// Formatter retorna el formatter actual.
func (s *StreamSink) Formatter() Formatter {
	return *s.formatter.Load()
}

func (s *StreamSink) Write(ev *Event) error {
	line := s.Formatter().Format(ev)
	buf := pool.Get()
	defer buf.Free()
	buf.AppendString(line)
	buf.AppendByte('\n')
	_, err := s.out.Write(buf.Bytes())
	return err
}

func (s *StreamSink) Sync() error {
	return s.out.Sync()
}
