// Package logger configura el logging del proceso una sola vez y emite cada
// registro como línea de texto o como documento JSON.
//
// # Design Decisions
//
//   - Root: el estado global (flag de inicialización, sinks, umbrales) vive en un
//     *Root. El paquete expone uno sobre stdout; los tests crean los suyos.
//   - Idempotencia: Initialize solo tiene efecto la primera vez, también con
//     llamadas concurrentes (flag atómico + mutex).
//   - Formato: JSON si FORCE_JSON; texto si FORCE_LOG_FMT; si no, JSON cuando
//     stdout no es una terminal. El mismo binario sirve para consola y para pipes.
//   - JSON nunca falla: un extra que no serializa se degrada a string.
//   - Claves fijas (ts, level, service, version, logger, msg, module, func, lineno,
//     pid, exc) no se pisan: un extra con ese nombre se descarta.
//   - Levels: DEBUG, INFO, WARNING, ERROR, CRITICAL (LOG_LEVEL). DEBUG=1 fuerza DEBUG.
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.ConfigFromEnv())
//	defer logger.Sync()
//
// En handlers/services (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("processing request", logger.Op("login"), logger.Any("attempt", n))
//
// Con nombre propio:
//
//	logger.Get("auth.session").Sugar().Infof("user %d login", id)
package logger
