package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap/buffer"
)

const (
	jsonTimeLayout = "2006-01-02T15:04:05.000Z"
	textTimeLayout = "15:04:05"
)

var pool = buffer.NewPool()

// Formatter convierte un Event en una línea de salida (sin el salto final).
type Formatter interface {
	Format(ev *Event) string
}

// Serializable lo implementan los valores que saben representarse en JSON.
// Si TrySerialize falla (ok=false o JSON inválido) se usa fmt.Sprint(v).
type Serializable interface {
	TrySerialize() (string, bool)
}

// Mode es la forma de salida elegida al inicializar.
type Mode int

const (
	ModeText Mode = iota
	ModeJSON
)

func (m Mode) String() string {
	if m == ModeJSON {
		return "json"
	}
	return "text"
}

// SelectMode decide la forma de salida: ForceJSON > ForceText > JSON si no hay TTY.
func SelectMode(cfg Config, isTerminal bool) Mode {
	if cfg.ForceJSON {
		return ModeJSON
	}
	if cfg.ForceText {
		return ModeText
	}
	if !isTerminal {
		return ModeJSON
	}
	return ModeText
}

// NewFormatter arma el Formatter correspondiente al modo.
func NewFormatter(mode Mode, cfg Config) Formatter {
	if mode == ModeJSON {
		return &JSONFormatter{}
	}
	return &TextFormatter{Debug: cfg.Debug}
}

// =================================================================================
// JSON
// =================================================================================

// JSONFormatter produce un objeto JSON por línea. Nunca falla: un extra que no se
// puede serializar se degrada a su representación en string.
type JSONFormatter struct {
	// OnFallback, si no es nil, se invoca por cada extra degradado a string.
	OnFallback func(key string)
}

func (f *JSONFormatter) Format(ev *Event) string {
	buf := pool.Get()
	defer buf.Free()

	buf.AppendByte('{')
	appendKey(buf, KeyTime, true)
	appendString(buf, ev.Time.UTC().Format(jsonTimeLayout))
	appendKey(buf, KeyLevel, false)
	appendString(buf, levelKey(ev))
	appendKey(buf, KeyService, false)
	appendString(buf, ev.Service)
	if ev.Version != "" {
		appendKey(buf, KeyVersion, false)
		appendString(buf, ev.Version)
	}
	appendKey(buf, KeyLogger, false)
	appendString(buf, ev.Logger)
	appendKey(buf, KeyMessage, false)
	appendString(buf, ev.Message)
	appendKey(buf, KeyModule, false)
	appendString(buf, ev.Module)
	appendKey(buf, KeyFunc, false)
	appendString(buf, ev.Func)
	appendKey(buf, KeyLine, false)
	buf.AppendInt(int64(ev.Line))
	appendKey(buf, KeyPID, false)
	buf.AppendInt(int64(ev.PID))
	if ev.Exc != "" {
		appendKey(buf, KeyExc, false)
		appendString(buf, ev.Exc)
	}

	seen := make(map[string]struct{}, len(ev.Fields))
	for _, fld := range ev.Fields {
		if !isExtraKey(fld.Key) {
			continue
		}
		if _, dup := seen[fld.Key]; dup {
			continue
		}
		seen[fld.Key] = struct{}{}

		raw, ok := encodeValue(fld.Value)
		if !ok && f.OnFallback != nil {
			f.OnFallback(fld.Key)
		}
		appendKey(buf, fld.Key, false)
		buf.Write(raw)
	}
	buf.AppendByte('}')
	return buf.String()
}

func levelKey(ev *Event) string {
	switch LevelName(ev.Level) {
	case "DEBUG":
		return "debug"
	case "INFO":
		return "info"
	case "WARNING":
		return "warning"
	case "ERROR":
		return "error"
	default:
		return "critical"
	}
}

func appendKey(buf *buffer.Buffer, key string, first bool) {
	if !first {
		buf.AppendByte(',')
	}
	appendString(buf, key)
	buf.AppendByte(':')
}

func appendString(buf *buffer.Buffer, s string) {
	raw, err := marshal(s)
	if err != nil {
		// un string siempre serializa; por las dudas
		raw = []byte(`""`)
	}
	buf.Write(raw)
}

// encodeValue retorna el JSON de v y si se pudo serializar de forma directa.
// ok=false significa que se usó el fallback a string.
func encodeValue(v any) (raw []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			raw, ok = stringFallback(v), false
		}
	}()

	switch t := v.(type) {
	case Serializable:
		if s, good := t.TrySerialize(); good && json.Valid([]byte(s)) {
			return compact(s), true
		}
		return stringFallback(v), false
	case error:
		out, _ := marshal(t.Error())
		return out, true
	case time.Duration:
		out, _ := marshal(t.String())
		return out, true
	}

	out, err := marshal(v)
	if err != nil {
		return stringFallback(v), false
	}
	return out, true
}

func compact(s string) []byte {
	var b bytes.Buffer
	if err := json.Compact(&b, []byte(s)); err != nil {
		return []byte(s)
	}
	return b.Bytes()
}

// stringFallback usa fmt, que ya recupera panics de String()/Error().
// fmt no detecta ciclos: un map o slice que se contiene a sí mismo agota el stack
// (fatal, no recuperable), así que esos valores se describen solo por su tipo.
func stringFallback(v any) []byte {
	s := fmt.Sprintf("<%T: cyclic or too deep>", v)
	if isStringer(v) || printable(reflect.ValueOf(v)) {
		s = fmt.Sprint(v)
	}
	out, err := marshal(s)
	if err != nil {
		return []byte(`"<unprintable>"`)
	}
	return out
}

func isStringer(v any) bool {
	switch v.(type) {
	case fmt.Stringer, error:
		return true
	}
	return false
}

const (
	maxPrintDepth = 32
	maxPrintNodes = 10000
)

// printable recorre v y reporta si fmt.Sprint puede renderizarlo sin ciclos
// dentro de los límites de profundidad y cantidad de nodos.
func printable(v reflect.Value) bool {
	w := &cycleWalker{onPath: map[uintptr]struct{}{}}
	return w.walk(v, 0)
}

type cycleWalker struct {
	onPath map[uintptr]struct{}
	nodes  int
}

func (w *cycleWalker) walk(v reflect.Value, depth int) bool {
	w.nodes++
	if depth > maxPrintDepth || w.nodes > maxPrintNodes {
		return false
	}
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() || (v.Kind() == reflect.Slice && v.Len() == 0) {
			return true
		}
		p := v.Pointer()
		if _, ok := w.onPath[p]; ok {
			return false
		}
		w.onPath[p] = struct{}{}
		defer delete(w.onPath, p)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return w.walk(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !w.walk(v.Index(i), depth+1) {
				return false
			}
		}
	case reflect.Map:
		it := v.MapRange()
		for it.Next() {
			if !w.walk(it.Key(), depth+1) || !w.walk(it.Value(), depth+1) {
				return false
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !w.walk(v.Field(i), depth+1) {
				return false
			}
		}
	}
	return true
}

// marshal es json.Marshal sin escapar HTML y sin el salto de línea del Encoder.
func marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// =================================================================================
// TEXT
// =================================================================================

// TextFormatter produce líneas legibles para consola. Los extras no se renderizan.
//
//	15:04:05 [INFO] auth.session: user 42 login
//	15:04:05 [INFO] auth.session (Login#88): user 42 login   (Debug)
type TextFormatter struct {
	Debug bool
}

func (f *TextFormatter) Format(ev *Event) string {
	buf := pool.Get()
	defer buf.Free()

	buf.AppendString(ev.Time.Format(textTimeLayout))
	buf.AppendString(" [")
	buf.AppendString(LevelName(ev.Level))
	buf.AppendString("] ")
	buf.AppendString(ev.Logger)
	if f.Debug {
		buf.AppendString(" (")
		buf.AppendString(ev.Func)
		buf.AppendByte('#')
		buf.AppendInt(int64(ev.Line))
		buf.AppendByte(')')
	}
	buf.AppendString(": ")
	buf.AppendString(ev.Message)
	if ev.Exc != "" {
		buf.AppendByte('\n')
		buf.AppendString(ev.Exc)
	}
	return buf.String()
}
