package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"itsictl/core/config"
	"itsictl/core/itsi"
	"itsictl/core/logger"

	"go.uber.org/zap"
)

// setup loads configuration and builds the logger and ITSI client shared by
// all commands.
func setup() (itsi.Client, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := itsi.NewClient(cfg.Splunk, logg)
	if err != nil {
		return nil, nil, err
	}

	return client, logg, nil
}

// printJSON writes a value to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
