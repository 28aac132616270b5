// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/caregate/internal/config"
	"github.com/JaimeStill/caregate/internal/infrastructure"
	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/middleware"
	"github.com/JaimeStill/caregate/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// It starts the attachment sweeper on the infrastructure lifecycle.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	if err := domain.Files.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("files start failed: %w", err)
	}

	resolver, err := roles.NewResolver(ctx, &cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("role resolver: %w", err)
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Metrics())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(roles.Middleware(resolver, runtime.Logger))

	return m, nil
}
