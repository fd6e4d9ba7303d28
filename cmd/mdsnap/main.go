package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Pack   *PackCmd   `arg:"subcommand:pack" help:"Write selected files into a Markdown document"`
	Tree   *TreeCmd   `arg:"subcommand:tree" help:"Write the directory structure of the selection"`
	Unpack *UnpackCmd `arg:"subcommand:unpack" help:"Recreate files from a Markdown document"`
	Ls     *LsCmd     `arg:"subcommand:ls" help:"List the files a selection resolves to"`
	Pick   *PickCmd   `arg:"subcommand:pick" help:"Pick files interactively, then pack them"`

	Root           string   `arg:"-C,--root" env:"MDSNAP_ROOT" default:"." help:"root directory all paths are relative to"`
	Exclude        []string `arg:"-x,--exclude,separate" help:"glob of paths to skip while walking directories (repeatable)"`
	NoGitignore    bool     `arg:"--no-gitignore" help:"do not apply .gitignore rules"`
	TokenEstimator string   `arg:"--token-estimator" env:"MDSNAP_TOKEN_ESTIMATOR" help:"bytes, or a tiktoken model/encoding name"`
	LogLevel       string   `arg:"--log-level" env:"MDSNAP_LOG_LEVEL" default:"warn" help:"debug, info, warn or error"`
}

func (Args) Description() string {
	return "mdsnap converts between a set of files and a single Markdown document.\n"
}

func (a Args) hasSubcommand() bool {
	return a.Pack != nil || a.Tree != nil || a.Unpack != nil || a.Ls != nil || a.Pick != nil
}

// Run dispatches to the appropriate subcommand
func (a *App) Run(ctx context.Context) error {
	switch {
	case a.Args.Pack != nil:
		return a.RunPack(ctx, *a.Args.Pack)
	case a.Args.Tree != nil:
		return a.RunTree(*a.Args.Tree)
	case a.Args.Unpack != nil:
		return a.RunUnpack(*a.Args.Unpack)
	case a.Args.Ls != nil:
		return a.RunLs(*a.Args.Ls)
	case a.Args.Pick != nil:
		return a.RunPick(*a.Args.Pick)
	default:
		return fmt.Errorf("no subcommand specified, use 'pack', 'tree', 'unpack', 'ls' or 'pick'")
	}
}

func run() int {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	var args Args
	parser := arg.MustParse(&args)
	if !args.hasSubcommand() {
		parser.WriteHelp(os.Stderr)
		return 1
	}

	app, err := InitializeApp(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdsnap: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx); err != nil {
		app.Logger.Debug("command failed", "err", err)
		fmt.Fprintf(os.Stderr, "mdsnap: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
