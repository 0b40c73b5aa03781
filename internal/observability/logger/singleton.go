package logger

import (
	"os"

	"go.uber.org/zap"
)

// std es el Root del proceso, sobre stdout.
var std = NewRoot(os.Stdout)

// Default retorna el Root del proceso.
func Default() *Root {
	return std
}

// Init inicializa el logger del proceso con la configuración dada.
// Es idempotente: solo la primera llamada tiene efecto.
// Debe llamarse al inicio de la aplicación (main.go).
func Init(cfg Config) {
	std.Initialize(cfg)
}

// Get retorna un logger con el nombre dado (vacío = nombre del servicio).
// Si Init() no fue llamado, inicializa desde las variables de entorno.
func Get(name string) *zap.Logger {
	return std.Logger(name)
}

// L retorna el logger del servicio.
func L() *zap.Logger {
	return std.Logger("")
}

// Named retorna un logger hijo del logger del servicio ("<service>.<name>").
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With retorna un logger con campos adicionales.
// Útil para agregar contexto persistente (ej: component en un worker).
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea cualquier buffer pendiente.
// Debe llamarse con defer en main.go.
func Sync() error {
	return std.Sync()
}
