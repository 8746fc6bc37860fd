package app

import (
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/pipeline"
	"go.trai.ch/memo/internal/registry"
)

// Components contains the initialized application components. This struct
// provides controlled access to the pieces the CLI layer needs: the registry
// to install command packs into, the pipeline to redirect show output, and
// the logger to apply verbosity flags to.
type Components struct {
	App      *App
	Registry *registry.Registry
	Pipeline *pipeline.Pipeline
	Logger   ports.Logger
}
