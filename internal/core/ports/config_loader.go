package ports

import "go.trai.ch/memo/internal/core/domain"

// ConfigLoader defines the interface for loading a configuration document.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and parses the configuration file at path. The returned
	// config carries the hash of the raw bytes and the absolute file path.
	Load(path string) (*domain.Config, error)
}
