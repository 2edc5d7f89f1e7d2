package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sergeknystautas/commitdetective/internal/schema"
)

// SchemaCommand implements the schema command.
type SchemaCommand struct {
	stdout io.Writer
}

// NewSchemaCommand creates a new schema command.
func NewSchemaCommand() *SchemaCommand {
	return &SchemaCommand{stdout: os.Stdout}
}

// Run prints the schema for each label in args, or lists the labels.
func (cmd *SchemaCommand) Run(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.stdout, "Available schemas:")
		for _, label := range schema.Labels() {
			fmt.Fprintf(cmd.stdout, "  %s\n", label)
		}
		return nil
	}

	for _, label := range args {
		s, err := schema.Get(label)
		if err != nil {
			return err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(s), "", "  "); err != nil {
			return fmt.Errorf("failed to format schema %s: %w", label, err)
		}
		pretty.WriteByte('\n')
		if _, err := pretty.WriteTo(cmd.stdout); err != nil {
			return err
		}
	}
	return nil
}
