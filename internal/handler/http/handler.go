package http

import (
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/service"
)

type Handler struct {
	services *service.Services

	appVersion string

	logger *logger.Logger
}

func NewHandler(services *service.Services, appVersion string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:   services,
		appVersion: appVersion,
		logger:     logger,
	}
}
