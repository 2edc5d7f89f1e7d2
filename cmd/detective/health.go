package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
	"github.com/sergeknystautas/commitdetective/internal/client"
)

// HealthChecker queries the service health endpoint.
type HealthChecker interface {
	Health(ctx context.Context) (*contracts.HealthResponse, error)
	GetEndpoint() string
}

// HealthCommand implements the health command.
type HealthCommand struct {
	client HealthChecker
	stdout io.Writer
}

// NewHealthCommand creates a new health command.
func NewHealthCommand(c HealthChecker) *HealthCommand {
	return &HealthCommand{client: c, stdout: os.Stdout}
}

// Run executes the health command.
func (cmd *HealthCommand) Run(ctx context.Context, args []string) error {
	var jsonOutput bool

	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.BoolVar(&jsonOutput, "json", false, "JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	health, err := cmd.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("service at %s is not reachable: %w", cmd.client.GetEndpoint(), err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(health); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.stdout, "Service: %s\n", cmd.client.GetEndpoint())
		fmt.Fprintf(cmd.stdout, "Status:  %s\n", health.Status)
		if health.Version != "" {
			fmt.Fprintf(cmd.stdout, "Version: %s\n", health.Version)
		}
	}

	if health.Status != "healthy" {
		return fmt.Errorf("service reports status %q", health.Status)
	}
	return client.CheckCompatible(health.Version)
}
