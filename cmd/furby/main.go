package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/furby-therapist/internal/analysis/furbish"
	"github.com/zhouzirui/furby-therapist/internal/config"
	"github.com/zhouzirui/furby-therapist/internal/handler/repl"
	"github.com/zhouzirui/furby-therapist/internal/model/category"
	"github.com/zhouzirui/furby-therapist/internal/service/therapist"
	"github.com/zhouzirui/furby-therapist/pkg/logger"
	"github.com/zhouzirui/furby-therapist/pkg/utils"
)

const version = "Furby Therapist CLI 1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	query   string
	bikes   bool
	json    bool
	audit   bool
	version bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fsFlags := flag.NewFlagSet("furby", flag.ContinueOnError)
	fsFlags.SetOutput(stderr)
	fsFlags.StringVar(&opts.query, "query", "", "answer a single query and exit")
	fsFlags.StringVar(&opts.query, "q", "", "shorthand for --query")
	fsFlags.BoolVar(&opts.bikes, "bikes", false, "use the cycling-themed corpus")
	fsFlags.BoolVar(&opts.json, "json", false, "print --query and --audit results as JSON")
	fsFlags.BoolVar(&opts.audit, "audit", false, "check corpus Furbish phrases; exits 1 when any are invented")
	fsFlags.BoolVar(&opts.version, "version", false, "print the version and exit")
	fsFlags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: furby [--query TEXT] [--bikes] [--json] [--audit] [--version]\n\n")
		fmt.Fprintf(stderr, "Without --query, Furby starts an interactive chat.\n\n")
		fsFlags.PrintDefaults()
	}

	if err := fsFlags.Parse(args); err != nil {
		return options{}, err
	}
	if rest := fsFlags.Args(); len(rest) > 0 && opts.query == "" {
		opts.query = strings.Join(rest, " ")
	}
	return opts, nil
}

// run is main without the process exit, so it can be tested.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "*worried beep* Furby could not read its settings: %v\n", err)
		return 1
	}
	cfg.Corpus.Bikes = cfg.Corpus.Bikes || opts.bikes

	log, err := logger.New(cfg.Log.Options())
	if err != nil {
		fmt.Fprintf(stderr, "warning: file logging disabled: %v\n", err)
		log = logger.NewNop()
	}
	defer func() { _ = log.Sync() }()

	table, err := loadTable(cfg.Corpus)
	if err != nil {
		log.Error("failed to load corpus", zap.Error(err))
		fmt.Fprintf(stderr, "*sad beep* Furby could not load its responses: %v\n", err)
		return 1
	}

	switch {
	case opts.audit:
		return runAudit(table, opts.json, stdout)
	case opts.query != "":
		return runQuery(table, cfg, log, opts, stdout)
	default:
		th := therapist.New(table, cfg, log)
		if err := repl.New(th, cfg.Corpus.Bikes, log.Named("repl")).Run(ctx, stdin, stdout); err != nil {
			log.Error("interactive session failed", zap.Error(err))
			return 1
		}
		return 0
	}
}

func loadTable(corpus config.CorpusConfig) (*category.Table, error) {
	if corpus.Path != "" {
		return category.Load(corpus.Path)
	}
	return category.LoadDefault(corpus.Bikes)
}

func runQuery(table *category.Table, cfg *config.Config, log *zap.Logger, opts options, stdout io.Writer) int {
	cfg.Session.Stateful = false
	th := therapist.New(table, cfg, log)
	defer th.Cleanup()

	result := th.ProcessDetailed(opts.query)
	if opts.json {
		if err := utils.WriteJSON(stdout, result); err != nil {
			log.Error("failed to write json", zap.Error(err))
			return 1
		}
		return 0
	}

	utils.NewConsole(stdout).Furby(result.Response.Text())
	return 0
}

func runAudit(table *category.Table, asJSON bool, stdout io.Writer) int {
	findings := furbish.Audit(table, nil)

	if asJSON {
		if findings == nil {
			findings = []furbish.Finding{}
		}
		if err := utils.WriteJSON(stdout, findings); err != nil {
			return 1
		}
	} else {
		console := utils.NewConsole(stdout)
		if len(findings) == 0 {
			console.Info("*happy chirp* Every Furbish phrase is authentic!")
		}
		for _, f := range findings {
			suggestion := fmt.Sprintf("%q", f.Suggestion)
			if f.SuggestionMeaning != "" {
				suggestion += " (" + f.SuggestionMeaning + ")"
			}
			console.Warn(fmt.Sprintf("%s: %q (%s) -> %s: %s", f.Category, f.Furbish, f.Translation, suggestion, f.Reason))
		}
	}

	if len(findings) > 0 {
		return 1
	}
	return 0
}
