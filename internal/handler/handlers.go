package handler

import (
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/handler/http"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/service"
)

// Handlers bundles the transport handlers exposed by the sync server.
type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. A server without
// a configured listen address cannot serve anything, so that is a startup
// failure.
func NewHandlers(services *service.Services, cfg config.Server, appVersion string, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, appVersion, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
