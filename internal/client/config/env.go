package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

func parseEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("couldn't read environment variables: %w", err)
	}
	return nil
}
