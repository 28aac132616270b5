package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/caregate/internal/config"
	"github.com/JaimeStill/caregate/pkg/openapi"
	"github.com/JaimeStill/caregate/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	queriesHandler := domain.Queries.Handler()

	groups := []routes.Group{
		queriesHandler.Routes(),
		queriesHandler.TriageRoutes(),
		domain.Reviews.Handler().Routes(),
		domain.Files.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.OpenAPI, cfg.Version)
	routes.Describe(spec, cfg.API.BasePath, groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
