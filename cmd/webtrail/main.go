// Package main implements the webtrail command: search browser history and
// bookmarks and print a script filter payload on stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	goflags "github.com/jessevdk/go-flags"

	"github.com/ilexum-group/webtrail/internal/config"
	"github.com/ilexum-group/webtrail/internal/engine"
	"github.com/ilexum-group/webtrail/internal/render"
	"github.com/ilexum-group/webtrail/internal/utils"
	"github.com/ilexum-group/webtrail/pkg/models"
)

var version = "dev"

type options struct {
	Config     string   `long:"config" value-name:"FILE" description:"YAML configuration file (overrides WEBTRAIL_CONFIG)"`
	Sources    []string `short:"s" long:"source" value-name:"ID" description:"Search this source; repeat for more. Replaces the configured list"`
	Operator   string   `short:"o" long:"operator" choice:"AND" choice:"OR" choice:"and" choice:"or" description:"Operator for space separated terms"`
	Sort       string   `long:"sort" choice:"visits" choice:"recent" description:"Rank by visit count or by last visit"`
	Limit      int      `short:"n" long:"limit" value-name:"N" description:"Maximum number of results, 0 for no cap"`
	NoFavicons bool     `long:"no-favicons" description:"Do not fetch or attach favicons"`
	Verbose    bool     `short:"v" long:"verbose" description:"Log progress and a per-source summary to stderr"`
	Text       bool     `long:"text" description:"Print a readable listing instead of JSON"`
	Version    bool     `long:"version" description:"Print the version and exit"`

	Args struct {
		Query []string `positional-arg-name:"query"`
	} `positional-args:"yes"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	var opts options
	parser := goflags.NewParser(&opts, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "webtrail"
	parser.LongDescription = "Search local browser history and bookmarks."

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			_, _ = fmt.Fprintln(stdout, err)
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(stdout, "webtrail %s\n", version)
		return 0
	}

	query := strings.Join(opts.Args.Query, " ")
	cfg, err := loadConfig(parser, &opts, getenv)

	level := "warn"
	if cfg != nil {
		level = cfg.LogLevel
	}
	if opts.Verbose {
		level = "info"
	}
	utils.InitDefaultLogger(stderr, level)

	dateFormat := ""
	var res engine.Result
	if err != nil {
		utils.LogError("Invalid configuration", map[string]string{"error": err.Error()})
		res = engine.Result{Query: query, Notice: engine.NoticeConfigurationError, Message: err.Error()}
	} else {
		dateFormat = cfg.DateFormat
		utils.LogInfo("Starting webtrail", map[string]string{
			"version": version,
			"sources": strings.Join(cfg.Sources, ","),
		})

		start := time.Now()
		res, err = engine.New(cfg).Search(ctx, query)
		if err != nil {
			utils.LogError("Search interrupted", map[string]string{"error": err.Error()})
			return 1
		}
		if opts.Verbose {
			printSummary(stderr, res, time.Since(start))
		}
	}

	write := render.JSON
	if opts.Text {
		write = render.Text
	}
	if err := write(stdout, res, dateFormat); err != nil {
		utils.LogError("Failed to write results", map[string]string{"error": err.Error()})
		return 1
	}
	return 0
}

// loadConfig layers flags over the file and environment configuration
func loadConfig(parser *goflags.Parser, opts *options, getenv func(string) string) (*config.Config, error) {
	env := getenv
	if opts.Config != "" {
		env = func(key string) string {
			if key == "WEBTRAIL_CONFIG" {
				return opts.Config
			}
			return getenv(key)
		}
	}

	cfg, err := config.Load(env)
	if err != nil {
		return cfg, err
	}

	if len(opts.Sources) > 0 {
		cfg.Sources = opts.Sources
	}
	if opts.Operator != "" {
		cfg.Combinator = models.Combinator(strings.ToUpper(opts.Operator))
	}
	if opts.Sort != "" {
		if cfg.SortKey, err = config.ParseSortKey(opts.Sort); err != nil {
			return cfg, err
		}
	}
	if o := parser.FindOptionByLongName("limit"); o != nil && o.IsSet() {
		cfg.Limit = opts.Limit
	}
	if opts.NoFavicons {
		cfg.Favicons = false
	}

	return cfg, cfg.Validate()
}

func printSummary(w io.Writer, res engine.Result, elapsed time.Duration) {
	for _, r := range res.Reports {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		_, _ = fmt.Fprintf(w, "%-20s %5d entries  %8s  %s\n", r.SourceID, r.Tuples, r.Elapsed.Round(time.Millisecond), status)
	}
	_, _ = fmt.Fprintf(w, "%d results in %s (favicons: %d fetched, %d cached, %d failed)\n",
		len(res.Records), elapsed.Round(time.Millisecond),
		res.Favicons.Fetched, res.Favicons.Skipped, res.Favicons.Failed)
}
