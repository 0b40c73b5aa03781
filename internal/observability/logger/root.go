package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dropDatabas3/jsonlog/internal/metrics"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// quietLoggers baja el volumen de componentes ruidosos conocidos. No es configurable.
var quietLoggers = map[string]zapcore.Level{
	"raft":        zapcore.WarnLevel,
	"raft.net":    zapcore.WarnLevel,
	"redis":       zapcore.WarnLevel,
	"pgx":         zapcore.WarnLevel,
	"chi":         zapcore.WarnLevel,
	"grpc":        zapcore.ErrorLevel,
	"http.access": zapcore.InfoLevel,
}

// Root es el estado global de logging: flag de inicialización, sinks adjuntos y
// umbrales. Solo Initialize lo muta; la primera llamada gana.
type Root struct {
	out        io.Writer
	isTerminal func() bool
	pid        int

	initMu      sync.Mutex
	initialized atomic.Bool
	cfg         Config

	mu        sync.RWMutex
	sinks     []Sink
	overrides map[string]zapcore.Level

	level zap.AtomicLevel
	zl    *zap.Logger
}

// Option ajusta un Root en su construcción.
type Option func(*Root)

// WithTerminal fija si la salida se considera una terminal interactiva.
func WithTerminal(tty bool) Option {
	return func(r *Root) { r.isTerminal = func() bool { return tty } }
}

// NewRoot crea un Root sin inicializar que escribirá en out.
func NewRoot(out io.Writer, opts ...Option) *Root {
	if out == nil {
		out = os.Stdout
	}
	r := &Root{
		out:        out,
		pid:        os.Getpid(),
		overrides:  map[string]zapcore.Level{},
		level:      zap.NewAtomicLevelAt(zapcore.InfoLevel),
		isTerminal: func() bool { return isTerminal(out) },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.zl = zap.New(&core{root: r},
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Initialize configura el logging una sola vez. Llamadas posteriores no tienen
// efecto, sin importar la configuración que reciban.
func (r *Root) Initialize(cfg Config) {
	if r.initialized.Load() {
		return
	}
	r.initMu.Lock()
	defer r.initMu.Unlock()
	if r.initialized.Load() {
		return
	}

	cfg = cfg.withDefaults()
	mode := SelectMode(cfg, r.isTerminal())
	formatter := NewFormatter(mode, cfg)
	if jf, ok := formatter.(*JSONFormatter); ok {
		jf.OnFallback = func(string) { metrics.LogFieldFallbacksTotal.Inc() }
	}

	r.attach(NewStreamSink(r.out, formatter), !cfg.KeepHandlers)
	r.level.SetLevel(cfg.Threshold())

	r.mu.Lock()
	for name, lvl := range quietLoggers {
		r.overrides[name] = lvl
	}
	r.cfg = cfg
	r.mu.Unlock()

	if cfg.CaptureStdLog {
		// solo falla con niveles inválidos
		_, _ = zap.RedirectStdLogAt(r.zl.Named("stdlog"), zapcore.InfoLevel)
	}

	r.initialized.Store(true)
}

// attach instala el sink según la política de reset:
//   - reset o sin sinks: reemplaza todo por el nuevo;
//   - si hay un sink que acepta formatter: le cambia el formatter y no agrega nada;
//   - si no: lo agrega junto a los existentes.
func (r *Root) attach(s *StreamSink, reset bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reset || len(r.sinks) == 0 {
		r.sinks = []Sink{s}
		return
	}
	for _, existing := range r.sinks {
		if fs, ok := existing.(FormatterSetter); ok {
			fs.SetFormatter(s.Formatter())
			return
		}
	}
	r.sinks = append(r.sinks, s)
}

// Initialized reporta si Initialize ya corrió. Si es true, los sinks están adjuntos.
func (r *Root) Initialized() bool {
	return r.initialized.Load()
}

// Config retorna la configuración efectiva (vacía antes de Initialize).
func (r *Root) Config() Config {
	if !r.initialized.Load() {
		return Config{}
	}
	return r.cfg
}

// AddSink adjunta un sink externo, p.ej. uno configurado por el host antes de Initialize.
func (r *Root) AddSink(s Sink) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// Sinks retorna una copia de los sinks adjuntos.
func (r *Root) Sinks() []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sink, len(r.sinks))
	copy(out, r.sinks)
	return out
}

// Level expone el umbral del root. zap.AtomicLevel también es un http.Handler.
func (r *Root) Level() zap.AtomicLevel {
	return r.level
}

// LevelFor retorna el umbral efectivo para un logger: el override del nombre o de
// su ancestro más cercano ("raft.net.tcp" -> "raft.net" -> "raft"), o el del root.
func (r *Root) LevelFor(name string) zapcore.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for n := name; n != ""; n = parentName(n) {
		if lvl, ok := r.overrides[n]; ok {
			return lvl
		}
	}
	return r.level.Level()
}

func parentName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[:i]
}

// minLevel es el umbral más permisivo entre root y overrides; lo usa core.Enabled.
func (r *Root) minLevel() zapcore.Level {
	lowest := r.level.Level()
	r.mu.RLock()
	for _, lvl := range r.overrides {
		if lvl < lowest {
			lowest = lvl
		}
	}
	r.mu.RUnlock()
	return lowest
}

func (r *Root) currentConfig() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Logger retorna un logger con nombre (default: el servicio). Inicializa desde el
// entorno si nadie lo hizo antes.
func (r *Root) Logger(name string) *zap.Logger {
	if !r.initialized.Load() {
		r.Initialize(ConfigFromEnv())
	}
	if strings.TrimSpace(name) == "" {
		name = r.currentConfig().ServiceName
	}
	return r.zl.Named(name)
}

// emit entrega el Event a todos los sinks y combina sus errores.
func (r *Root) emit(ev *Event) error {
	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()

	var errs error
	for _, s := range sinks {
		if err := safeWrite(s, ev); err != nil {
			metrics.LogSinkWriteErrorsTotal.Inc()
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// safeWrite convierte un panic del sink en error; loguear nunca rompe al caller.
func safeWrite(s Sink, ev *Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("logger: sink panic: %v", rec)
		}
	}()
	return s.Write(ev)
}

// Sync flushea todos los sinks.
func (r *Root) Sync() error {
	var errs error
	for _, s := range r.Sinks() {
		errs = multierr.Append(errs, s.Sync())
	}
	return errs
}
