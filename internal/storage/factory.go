// factory.go implements the media storage backend registry and factory, mapping
// backend type strings (local, s3) to constructor functions and dispatching
// NewStorage calls.
package storage

import (
	"fmt"

	"github.com/taman-kehati/taman-kehati/internal/config"
)

// FactoryFunc creates a storage backend from the application config
type FactoryFunc func(*config.Config) (Storage, error)

var factories = make(map[string]FactoryFunc)

// Register registers a storage backend factory
func Register(name string, factory FactoryFunc) {
	factories[name] = factory
}

// NewStorage creates a new media storage backend based on configuration
func NewStorage(cfg *config.Config) (Storage, error) {
	factory, ok := factories[cfg.Media.DefaultBackend]
	if !ok {
		return nil, fmt.Errorf("unsupported media backend: %s (must be 'local' or 's3')", cfg.Media.DefaultBackend)
	}

	return factory(cfg)
}
