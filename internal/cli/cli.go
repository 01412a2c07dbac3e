// Package cli is the command line front end over the waste reduction API
// client. Every command prints the API response as indented JSON.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/wastewise/wastewise-core/internal/agent/graph"
	errx "github.com/wastewise/wastewise-core/internal/core/error"
	logx "github.com/wastewise/wastewise-core/pkg/logger"
	"github.com/wastewise/wastewise-core/pkg/wasteapi"
	"github.com/wastewise/wastewise-core/pkg/wasteapi/legacy"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Deps are the collaborators a command may use. Redis and the assistant are
// opened on demand so commands that only talk to the API never need them.
type Deps struct {
	Config AppConfig
	API    *wasteapi.Client
	Legacy *legacy.Client

	OpenRedis    func(ctx context.Context) (redis.UniversalClient, error)
	NewAssistant func(ctx context.Context, rdb redis.Cmdable) (graph.Runner, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, d *Deps, args []string) error
}

func commands() []command {
	return []command{
		{"health", "check API, database and model status", runHealth},
		{"index", "list the endpoints the server exposes", runIndex},
		{"products", "list products, optionally filtered or paginated", runProducts},
		{"pricing", "show the recommended discount for a product", runPricing},
		{"buy", "record a purchase", runBuy},
		{"recommend", "personalised recommendations for a user", runRecommend},
		{"dead-stock", "products at risk of expiring unsold", runDeadStock},
		{"expired", "expired product statistics", runExpired},
		{"categories", "list product categories", runCategories},
		{"users", "list users", runUsers},
		{"refresh", "reload server data and retrain models", runRefresh},
		{"summary", "inventory summary", runSummary},
		{"analytics", "inventory analytics", runAnalytics},
		{"weekly", "weekly inventory or expiry trend", runWeekly},
		{"report", "collect, publish and read report snapshots", runReport},
		{"assist", "ask the shopping assistant", runAssist},
		{"legacy", "call the legacy endpoints", runLegacy},
	}
}

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage")

func usageErr(format string, a ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, a...))
}

// Run dispatches args[0] and returns the process exit code.
func Run(ctx context.Context, args []string, d Deps) int {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}

	if len(args) < 1 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(d.Stderr)
		if len(args) < 1 {
			return exitUsage
		}
		return exitOK
	}

	for _, c := range commands() {
		if c.name != args[0] {
			continue
		}
		err := c.run(ctx, &d, args[1:])
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, flag.ErrHelp):
			return exitOK
		case errors.Is(err, errUsage):
			fmt.Fprintf(d.Stderr, "%v\n", err)
			return exitUsage
		default:
			logx.Debug().Err(err).Str("command", c.name).Int("status", errx.StatusOf(errx.WrapAPI(err))).Msg("command failed")
			fmt.Fprintf(d.Stderr, "error: %v\n", err)
			return exitError
		}
	}

	fmt.Fprintf(d.Stderr, "unknown command %q\n\n", args[0])
	usage(d.Stderr)
	return exitUsage
}

func usage(w io.Writer) {
	fmt.Fprint(w, "wastewise: Waste Reduction API client\n\nUsage:\n  wastewise <command> [flags]\n\nCommands:\n")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-11s %s\n", c.name, c.summary)
	}
	fmt.Fprint(w, "\nRun 'wastewise <command> -h' for command flags.\n")
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(d *Deps, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(d.Stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageErr("%s: %v", fs.Name(), err)
	}
	return nil
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func noArgs(d *Deps, name string, args []string) error {
	fs := newFlagSet(d, name)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErr("%s takes no arguments", name)
	}
	return nil
}
