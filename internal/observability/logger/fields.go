package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos de acceso HTTP que usan los middlewares. Son extras comunes: nunca
// chocan con las claves fijas del registro.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// DurationMs guarda la duración como entero en milisegundos, no como "1.5s".
func DurationMs(v time.Duration) zap.Field {
	return zap.Int64("duration_ms", v.Milliseconds())
}

// Op nombra la operación en curso ("recover", "emit", ...).
func Op(v string) zap.Field { return zap.String("op", v) }

// Err adjunta un error al registro. Sale en la clave "exc" con su traza completa (%+v).
// Dentro de un zap.Namespace queda como extra "error" con el mensaje.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Any delega en zap.Any: Stringer y error llegan al formatter ya convertidos a string.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// Raw conserva v tal cual hasta el formatter, que intenta Serializable, luego
// encoding/json y por último fmt.Sprint (con ciclos descriptos solo por su tipo).
func Raw(key string, v any) zap.Field {
	return zap.Reflect(key, v)
}

func String(key, v string) zap.Field  { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
