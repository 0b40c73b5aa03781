package logger

import (
	"context"

	"go.uber.org/zap"
)

// S retorna el SugaredLogger del servicio.
// Útil para mensajes con placeholders posicionales.
//
// Ejemplo:
//
//	logger.S().Infof("user %d login", id)
//	logger.S().Errorw("failed to create user", "error", err, "user_id", userID)
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// SFrom extrae el SugaredLogger del contexto.
func SFrom(ctx context.Context) *zap.SugaredLogger {
	return From(ctx).Sugar()
}
