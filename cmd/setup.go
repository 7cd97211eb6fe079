package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template when it is missing,
// then creates the local token store and runs its migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config.ApplyEnv()
		r.config = config
		r.logger.Info("config file created", "path", configPath)
	}

	r.logger.Info("initializing token store", "path", r.cfg().Storage.Path)
	if _, err := r.openSession(); err != nil {
		return fmt.Errorf("failed to initialize token store: %w", err)
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("API:    %s\n", r.cfg().API.BaseURL)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'readtrack auth register' to create an account\n")
	r.writePlain("2. Run 'readtrack auth login' to start a session\n")
	return nil
}
