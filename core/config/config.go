package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	// .env autoload happens once per process; a missing file is not an error.
	dotenvOnce sync.Once
)

// Load populates cfg from environment variables using its env struct tags.
// Each configuration type is parsed once per process and cached; later calls
// for the same type return the cached value. A .env file in the working
// directory is loaded into the environment on first use.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	typ := reflect.TypeOf(*cfg)
	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to parse %T: %w", *cfg, err)
	}

	cache[typ] = *cfg
	return nil
}

// MustLoad is Load that panics on failure, for use during startup where a
// broken configuration should prevent the process from running at all.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
