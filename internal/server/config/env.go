package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// parseEnv overlays NUUDASH_* environment variables. Unset variables leave
// the current value alone.
func parseEnv(config *Config) error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("couldn't read environment variables: %w", err)
	}
	return nil
}
