package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sergeknystautas/commitdetective/internal/config"
	"github.com/sergeknystautas/commitdetective/internal/form"
	"github.com/sergeknystautas/commitdetective/internal/submission"
	"github.com/sergeknystautas/commitdetective/internal/view"
	"github.com/sergeknystautas/commitdetective/internal/watch"
)

// errAnalysisFailed is returned after a failure has already been shown.
var errAnalysisFailed = errors.New("analysis failed")

// AnalyzeCommand implements the analyze and save commands.
type AnalyzeCommand struct {
	analyzer submission.Analyzer
	logger   *log.Logger
	output   string
	stdout   io.Writer

	isTerminal func() bool
	prompt     func(context.Context, *form.Input) error

	// saveOnly forces save-only mode (the save command).
	saveOnly bool
}

// NewAnalyzeCommand creates a new analyze command.
func NewAnalyzeCommand(analyzer submission.Analyzer, cfg *config.Config, logger *log.Logger) *AnalyzeCommand {
	return &AnalyzeCommand{
		analyzer:   analyzer,
		logger:     logger,
		output:     cfg.Output,
		stdout:     os.Stdout,
		isTerminal: stdinIsTerminal,
		prompt: func(ctx context.Context, in *form.Input) error {
			return form.Prompt(ctx, in, os.Getenv("ACCESSIBLE") != "")
		},
	}
}

// analyzeFlag maps a flag to the form field it fills.
type analyzeFlag struct {
	names []string
	field form.Field
	usage string
}

var analyzeFlags = []analyzeFlag{
	{[]string{"d", "description"}, form.FieldDescription, "Issue description"},
	{[]string{"f", "files"}, form.FieldSourceFiles, "Comma-separated source files"},
	{[]string{"c", "commit"}, form.FieldCurrentCommit, "Current commit hash"},
	{[]string{"r", "repo-url"}, form.FieldRepositoryURL, "Repository URL (optional)"},
}

// Run executes the analyze command.
func (cmd *AnalyzeCommand) Run(ctx context.Context, args []string) error {
	var (
		values      = make(map[form.Field]*string)
		saveOnly    bool
		inputPath   string
		watchInput  bool
		interactive bool
		jsonOutput  bool
	)

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	for _, f := range analyzeFlags {
		v := new(string)
		values[f.field] = v
		for _, name := range f.names {
			fs.StringVar(v, name, "", f.usage)
		}
	}
	fs.BoolVar(&saveOnly, "save-only", false, "Save commits without analysis")
	fs.StringVar(&inputPath, "i", "", "Input file (YAML or JSON)")
	fs.StringVar(&inputPath, "input", "", "Input file (YAML or JSON)")
	fs.BoolVar(&watchInput, "watch", false, "Resubmit when the input file changes")
	fs.BoolVar(&interactive, "interactive", false, "Always open the interactive form")
	fs.BoolVar(&jsonOutput, "json", false, "JSON output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s (quote multi-word values)", strings.Join(fs.Args(), " "))
	}
	if watchInput && inputPath == "" {
		return fmt.Errorf("--watch requires -i (--input)")
	}
	// Each change re-reads the file, so answers typed into the form would be lost.
	if watchInput && interactive {
		return fmt.Errorf("--watch cannot be combined with --interactive")
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var in form.Input
	if inputPath != "" {
		loaded, err := form.LoadInput(inputPath)
		if err != nil {
			return err
		}
		in = loaded
	}

	// Flags override the input file.
	overrides := func(in *form.Input) error {
		for _, f := range analyzeFlags {
			for _, name := range f.names {
				if set[name] {
					if err := in.UpdateField(f.field, *values[f.field]); err != nil {
						return err
					}
					break
				}
			}
		}
		if saveOnly || cmd.saveOnly {
			return in.UpdateField(form.FieldSaveOnly, "true")
		}
		return nil
	}
	if err := overrides(&in); err != nil {
		return err
	}

	if interactive || (!watchInput && !form.CanSubmit(in) && cmd.isTerminal()) {
		if err := cmd.prompt(ctx, &in); err != nil {
			return err
		}
	}

	asJSON := jsonOutput || cmd.output == config.OutputJSON
	if watchInput {
		return cmd.watch(ctx, inputPath, in, overrides, asJSON)
	}
	return cmd.submitOnce(ctx, in, asJSON)
}

func (cmd *AnalyzeCommand) submitOnce(ctx context.Context, in form.Input, asJSON bool) error {
	req, err := form.Build(in)
	if err != nil {
		return fmt.Errorf("cannot submit: %w", err)
	}

	ctrl := submission.NewController(cmd.analyzer, cmd.logger)
	ctrl.Submit(ctx, req)
	// The call itself observes ctx, so waiting without it cannot hang on cancel.
	st, err := ctrl.Wait(context.Background())
	if err != nil {
		return err
	}
	return cmd.render(st, asJSON)
}

func (cmd *AnalyzeCommand) watch(ctx context.Context, path string, in form.Input, overrides func(*form.Input) error, asJSON bool) error {
	ctrl := submission.NewController(cmd.analyzer, cmd.logger)
	ctrl.OnChange(func(st submission.State) {
		if st.InFlight() {
			cmd.logger.Info("analyzing")
			return
		}
		if err := cmd.render(st, asJSON); err != nil && !errors.Is(err, errAnalysisFailed) {
			cmd.logger.Error("failed to render result", "err", err)
		}
	})

	submit := func(in form.Input) {
		if !form.CanSubmit(in) {
			cmd.logger.Warn("input incomplete, not submitting", "missing", form.Missing(in))
			return
		}
		req, err := form.Build(in)
		if err != nil {
			cmd.logger.Warn("cannot submit", "err", err)
			return
		}
		if !ctrl.Submit(ctx, req) {
			cmd.logger.Warn("request in flight, change ignored")
		}
	}

	ext := filepath.Ext(path)
	fw, err := watch.NewFileWatcher(path, 0, cmd.logger, func(content []byte) {
		next, err := form.ParseInput(content, ext)
		if err != nil {
			cmd.logger.Warn("ignoring unreadable input file", "err", err)
			return
		}
		if err := overrides(&next); err != nil {
			cmd.logger.Warn("ignoring input file", "err", err)
			return
		}
		submit(next)
	})
	if err != nil {
		return err
	}
	defer fw.Stop()

	cmd.logger.Info("watching input file", "file", path)
	submit(in)

	<-ctx.Done()
	_, err = ctrl.Wait(context.Background())
	return err
}

// render prints a settled state. Failures are printed and reported as
// errAnalysisFailed.
func (cmd *AnalyzeCommand) render(st submission.State, asJSON bool) error {
	switch st.Status {
	case submission.StatusSuccess:
		if asJSON {
			return view.WriteJSON(cmd.stdout, st.Rows, st.SaveOnly)
		}
		return view.NewRenderer(cmd.stdout).Rows(st.Rows, st.SaveOnly)
	case submission.StatusFailure:
		if asJSON {
			if err := writeJSONError(cmd.stdout, st.Message); err != nil {
				return err
			}
		} else if err := view.NewRenderer(cmd.stdout).Failure(st.Message); err != nil {
			return err
		}
		return errAnalysisFailed
	default:
		return nil
	}
}
