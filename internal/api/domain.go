package api

import (
	"fmt"

	"github.com/JaimeStill/caregate/internal/files"
	"github.com/JaimeStill/caregate/internal/prompts"
	"github.com/JaimeStill/caregate/internal/queries"
	"github.com/JaimeStill/caregate/internal/reviews"
	"github.com/JaimeStill/caregate/internal/stages"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
	Stages  stages.System
	Queries queries.System
	Files   files.System
	Reviews reviews.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config
	db := runtime.Database.Connection()

	promptsSystem := prompts.New(
		db,
		prompts.NewCache(cfg.Cache.Size, cfg.Cache.TTLDuration()),
		runtime.Logger,
		runtime.Pagination,
	)

	backend, err := stages.NewBackend(&cfg.Stages)
	if err != nil {
		return nil, fmt.Errorf("stage backend: %w", err)
	}
	stagesSystem := stages.New(&cfg.Stages, backend, promptsSystem, runtime.Logger)

	queriesSystem := queries.New(
		db,
		queries.NewEngine(stagesSystem),
		runtime.Logger,
		runtime.Pagination,
	)

	filesSystem := files.New(
		db,
		runtime.Storage,
		cfg.Files,
		runtime.Logger,
	)

	reviewsSystem := reviews.New(
		db,
		queriesSystem,
		filesSystem,
		stagesSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Prompts: promptsSystem,
		Stages:  stagesSystem,
		Queries: queriesSystem,
		Files:   filesSystem,
		Reviews: reviewsSystem,
	}, nil
}
