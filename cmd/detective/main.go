package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/sergeknystautas/commitdetective/internal/client"
	"github.com/sergeknystautas/commitdetective/internal/config"
	"github.com/sergeknystautas/commitdetective/internal/logging"
	"github.com/sergeknystautas/commitdetective/internal/version"
)

// globalFlags are accepted by every command that talks to the service.
type globalFlags struct {
	configPath string
	verbose    bool
}

// valueFlags take the next argument as their value, which is passed
// through untouched even when it looks like a global flag.
var valueFlags = map[string]bool{
	"d": true, "description": true,
	"f": true, "files": true,
	"c": true, "commit": true,
	"r": true, "repo-url": true,
	"i": true, "input": true,
}

// parseGlobalFlags pulls --config <path> and --verbose out of args and
// returns the remaining arguments for the command's own flag set.
func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var g globalFlags
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" || arg == "-config":
			if i+1 >= len(args) {
				return g, nil, fmt.Errorf("%s requires a path", arg)
			}
			g.configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config=") || strings.HasPrefix(arg, "-config="):
			g.configPath = arg[strings.Index(arg, "=")+1:]
			if g.configPath == "" {
				return g, nil, fmt.Errorf("%s requires a path", arg)
			}
		case arg == "--verbose" || arg == "-verbose" || arg == "-V":
			g.verbose = true
		case arg == "--":
			return g, append(rest, args[i:]...), nil
		case valueFlags[strings.TrimLeft(arg, "-")] && strings.HasPrefix(arg, "-"):
			rest = append(rest, arg)
			if i+1 < len(args) {
				rest = append(rest, args[i+1])
				i++
			}
		default:
			rest = append(rest, arg)
		}
	}
	return g, rest, nil
}

// setup loads config and builds the logger and service client.
func setup(g globalFlags) (*config.Config, *log.Logger, *client.Client, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	level := cfg.LogLevel
	if g.verbose {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, level)
	if err != nil {
		return nil, nil, nil, err
	}
	c := client.NewClient(cfg.ServiceURL,
		client.WithTimeout(cfg.Timeout()),
		client.WithLogger(logger),
	)
	return cfg, logger, c, nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := args[0]

	switch command {
	case "analyze", "save":
		g, rest, err := parseGlobalFlags(args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		cfg, logger, c, err := setup(g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cmd := NewAnalyzeCommand(c, cfg, logger)
		cmd.saveOnly = command == "save"
		if err := cmd.Run(ctx, rest); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 130
			}
			if !errors.Is(err, errAnalysisFailed) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			return 1
		}

	case "health":
		g, rest, err := parseGlobalFlags(args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		_, _, c, err := setup(g)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := NewHealthCommand(c).Run(ctx, rest); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

	case "schema":
		if err := NewSchemaCommand().Run(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

	case "version", "-v", "--version":
		fmt.Printf("detective v%s\n", version.Version)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println("detective - find the commits that fixed an issue")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  detective <command> [--config path] [--verbose] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze     Rank commits after a known commit that may fix an issue")
	fmt.Println("  save        Have the service save matching commits without scoring")
	fmt.Println("  health      Check that the analysis service is reachable")
	fmt.Println("  schema      Print JSON schemas of the service wire types")
	fmt.Println("  version     Show version")
	fmt.Println("  help        Show this help message")
	fmt.Println()
	fmt.Println("Analyze flags:")
	fmt.Println("  -d, --description   Issue description (not needed with --save-only)")
	fmt.Println("  -f, --files         Comma-separated source files")
	fmt.Println("  -c, --commit        Current commit hash")
	fmt.Println("  -r, --repo-url      Repository URL (empty: service working copy)")
	fmt.Println("      --save-only     Save commits without analysis")
	fmt.Println("  -i, --input         Read the form from a YAML or JSON file")
	fmt.Println("      --watch         Resubmit whenever the input file changes (no prompting)")
	fmt.Println("      --interactive   Always open the interactive form")
	fmt.Println("      --json          JSON output")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  detective analyze -d \"crash on save\" -f src/save.c -c abc123")
	fmt.Println("  detective save -f src/save.c -c abc123 -r https://github.com/acme/app.git")
	fmt.Println("  detective analyze -i issue.yaml --watch")
	fmt.Println("  detective schema analyze-request")
}
