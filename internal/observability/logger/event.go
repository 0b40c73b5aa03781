package logger

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Claves fijas del registro JSON. Un campo extra con alguno de estos nombres se descarta.
const (
	KeyTime    = "ts"
	KeyLevel   = "level"
	KeyService = "service"
	KeyVersion = "version"
	KeyLogger  = "logger"
	KeyMessage = "msg"
	KeyModule  = "module"
	KeyFunc    = "func"
	KeyLine    = "lineno"
	KeyPID     = "pid"
	KeyExc     = "exc"
)

var reservedKeys = map[string]struct{}{
	KeyTime: {}, KeyLevel: {}, KeyService: {}, KeyVersion: {}, KeyLogger: {}, KeyMessage: {},
	KeyModule: {}, KeyFunc: {}, KeyLine: {}, KeyPID: {}, KeyExc: {},
}

// IsReservedKey indica si key es una clave fija del registro.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// isExtraKey: ni reservada ni privada (prefijo "_").
func isExtraKey(key string) bool {
	return key != "" && !strings.HasPrefix(key, "_") && !IsReservedKey(key)
}

// Field es un par clave/valor extra aportado por quien loguea.
type Field struct {
	Key   string
	Value any
}

// Event es un registro de log listo para formatear. Es efímero: se arma en el core,
// se entrega a los sinks y se descarta.
type Event struct {
	Time    time.Time
	Level   zapcore.Level
	Logger  string
	Message string
	Service string
	Version string
	Module  string
	Func    string
	Line    int
	PID     int
	Exc     string
	Fields  []Field
}

// Field retorna el valor del extra key, si existe.
func (e *Event) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// eventBuilder acumula extras preservando el orden de inserción.
// Tras un zap.Namespace los campos siguientes van anidados en ns.
type eventBuilder struct {
	ev    Event
	index map[string]int
	ns    map[string]any
}

func (b *eventBuilder) add(key string, v any) {
	if !isExtraKey(key) {
		return
	}
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[key]; ok {
		b.ev.Fields[i].Value = v
		return
	}
	b.index[key] = len(b.ev.Fields)
	b.ev.Fields = append(b.ev.Fields, Field{Key: key, Value: v})
}

// addZapField vuelca un zapcore.Field. zap.Error(err) alimenta Exc; el resto
// pasa por un MapObjectEncoder, que conserva los valores reflejados tal cual.
func (b *eventBuilder) addZapField(f zapcore.Field) {
	if f.Type == zapcore.SkipType {
		return
	}
	if f.Type == zapcore.NamespaceType {
		b.openNamespace(f.Key)
		return
	}
	if f.Type == zapcore.ErrorType && f.Key == "error" && b.ns == nil {
		if err, ok := f.Interface.(error); ok && err != nil {
			b.ev.Exc = renderError(err)
			return
		}
	}

	enc := zapcore.NewMapObjectEncoder()
	f.AddTo(enc)
	if b.ns != nil {
		for k, v := range enc.Fields {
			b.ns[k] = v
		}
		return
	}
	if len(enc.Fields) == 1 {
		for k, v := range enc.Fields {
			b.add(k, v)
		}
		return
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.add(k, enc.Fields[k])
	}
}

// openNamespace anida los campos siguientes bajo key. Un namespace con clave
// reservada o privada se descarta junto con su contenido.
func (b *eventBuilder) openNamespace(key string) {
	m := map[string]any{}
	if b.ns != nil {
		b.ns[key] = m
	} else {
		b.add(key, m)
	}
	b.ns = m
}

func renderError(err error) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<error rendering panicked: %v>", r)
		}
	}()
	return fmt.Sprintf("%+v", err)
}

// splitCaller separa la función completa del runtime ("github.com/a/b/pkg.(*T).M")
// en paquete ("pkg") y función ("(*T).M").
func splitCaller(c zapcore.EntryCaller) (module, fn string) {
	if !c.Defined {
		return "", ""
	}
	if c.Function == "" {
		return strings.TrimSuffix(filepath.Base(c.File), ".go"), ""
	}
	rest := c.Function
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, "."); i >= 0 {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}
