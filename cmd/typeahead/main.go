/*
Package main implements the typeahead suggestion server and CLI application.

Typeahead provides interactive suggestion lookup over a static option set:
query normalization with latinization and tokenized matching, configurable
ordering and grouping, and a debounced pipeline that always presents the
result of the latest keystroke. It can operate as a MessagePack IPC server
for integration with editors and UI shells, or as a CLI application for
exercising the pipeline interactively.

# Usage

Start the server with a newline-delimited option file:

	typeahead -data states.txt

Use a TOML record set with grouping and ordering:

	typeahead -data cities.toml -field name -group region -order name

Run in CLI mode with a simulated slow source to watch supersession:

	typeahead -c -data states.txt -async-delay 300 -wait 100

# Configuration

Runtime configuration is managed through a TOML file supporting pipeline,
server and CLI sections:

	[pipeline]
	min_length = 1
	wait_ms = 0
	options_limit = 20
	latinize = true
	single_words = true

	[server]
	max_limit = 64
	max_query = 256

The config file is created with defaults if it doesn't exist. Flags
override file values.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Query requests
are processed synchronously with microsecond timing included in responses:

	{"id": "req1", "q": "new yo", "l": 10}
	{"id": "req1", "m": [{"v": "East", "h": true}, {"v": "New York"}], "c": 2, "t": 145}
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhasab/typeahead/internal/cli"
	"github.com/nhasab/typeahead/internal/logger"
	"github.com/nhasab/typeahead/pkg/config"
	"github.com/nhasab/typeahead/pkg/dataset"
	"github.com/nhasab/typeahead/pkg/server"
	"github.com/nhasab/typeahead/pkg/typeahead"
)

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	dataPath := flag.String("data", "", "Option set file: .toml record set or newline-delimited values")
	configPath := flag.String("config", "", "Custom config.toml path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run in CLI input handler mode")
	limit := flag.Int("limit", 0, "Maximum number of entries to present (0: config value)")
	minLength := flag.Int("min", -1, "Minimum input length before dispatch (-1: config value, 0: dispatch on empty input)")
	waitMs := flag.Int("wait", -1, "Debounce window in milliseconds (-1: config value)")
	optionField := flag.String("field", "", "Dot path of the display field on record options")
	groupField := flag.String("group", "", "Dot path of the group field on record options")
	orderField := flag.String("order", "", "Order matches by this field")
	orderDir := flag.String("dir", typeahead.DirectionAsc, "Order direction: asc or desc")
	prefixOnly := flag.Bool("prefix-only", false, "Anchor matching to the start of option values")
	asyncDelay := flag.Int("async-delay", 0, "Simulate a slow asynchronous source with this latency in milliseconds")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(false)
	} else {
		log.SetLevel(log.ErrorLevel)
	}

	fileConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Errorf("Loading config: %v", err)
		os.Exit(1)
	}
	if activePath != "" {
		log.Debugf("Active config: %s", config.GetActiveConfigPath(activePath))
	}

	cfg := fileConfig.Pipeline.Runtime()
	if *limit > 0 {
		cfg.OptionsLimit = *limit
	}
	if *minLength >= 0 {
		cfg.MinLength = *minLength
	}
	if *waitMs >= 0 {
		cfg.Wait = time.Duration(*waitMs) * time.Millisecond
	}
	if *optionField != "" {
		cfg.OptionField = *optionField
	}
	if *groupField != "" {
		cfg.GroupField = *groupField
	}
	if *orderField != "" {
		cfg.OrderBy = &typeahead.OrderSpec{Field: *orderField, Direction: *orderDir}
	}
	if *prefixOnly {
		cfg.PrefixOnly = true
	}

	if *dataPath == "" {
		log.Error("A -data option file is required")
		flag.Usage()
		os.Exit(1)
	}
	options, err := dataset.Load(*dataPath)
	if err != nil {
		log.Errorf("Loading options: %v", err)
		os.Exit(1)
	}
	log.Debugf("Loaded %d options from %s", len(options), *dataPath)

	src := buildSource(cfg, options, *asyncDelay, fileConfig.CLI.AsyncDelayMs)

	if *cliMode {
		settle := cfg.Wait + time.Duration(*asyncDelay)*time.Millisecond + 20*time.Millisecond
		handler := cli.NewInputHandler(cfg, src, settle)
		if err := handler.Start(); err != nil {
			log.Errorf("CLI input handler: %v", err)
			os.Exit(1)
		}
		return
	}

	srvLog := logger.New("typeahead")
	if *debugMode {
		srvLog = logger.NewWithConfig("typeahead", log.DebugLevel, true, false, log.TextFormatter)
	}
	srvLog.Debug("Starting msgpack server on stdin/stdout")
	srv := server.NewServer(cfg, src, fileConfig.Server.MaxLimit, fileConfig.Server.MaxQuery)
	if err := srv.Start(); err != nil {
		log.Errorf("Server: %v", err)
		os.Exit(1)
	}
}

// buildSource wraps the static set in a delayed streaming provider when a
// latency was asked for, so supersession is observable interactively.
func buildSource(cfg typeahead.Config, options []any, flagDelayMs, configDelayMs int) typeahead.Source {
	delay := flagDelayMs
	if delay == 0 {
		delay = configDelayMs
	}

	static := typeahead.NewStaticSource(cfg, options)
	if delay <= 0 {
		return static
	}

	latency := time.Duration(delay) * time.Millisecond
	return typeahead.NewStreamingSource(func(ctx context.Context, query string) ([]any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(latency):
			return static.Fetch(ctx, query)
		}
	})
}
