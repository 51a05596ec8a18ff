// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordfix fuzzy matching server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordfix answers "which dictionary words are close to this one" for autocorrection.
Words are indexed once in a shared multi-path graph; each query is searched against
it within a bounded depth and every match carries a confidence in (0, 1].

# Usage

Start the server with default settings:

	wordfix

Use a custom data directory and enable debug mode:

	wordfix -data /path/to/chunks -d

Run in CLI mode for interactive testing:

	wordfix -c -limit 10 -depth 3

The data directory holds chunked binary files named dict_0001.bin, dict_0002.bin,
etc., or plain text word lists ("word [frequency]" per line). A single list file
can be passed to -data too.

# Configuration

Runtime configuration is read from a TOML file:

	[match]
	max_depth = 5
	strategy = "graph"
	cache_size = 1024
	workers = 4

	[server]
	max_limit = 64
	max_query = 48
	enable_filter = true

	[dict]
	max_words = 50000
	min_frequency = 0

	[cli]
	default_limit = 10
	default_no_filter = false

The config file is created with defaults if it doesn't exist. Flags given on the
command line win over the file.

# Strategies

	graph   per-query overlay on a read-only index (default, concurrent)
	locked  insert the query, search, remove it again, one query at a time
	brute   bounded Levenshtein against every word

# IPC Protocol

See package server. In short:

	{"id": "req1", "q": "hullo", "l": 5}
	{"id": "req1", "s": [{"w": "hello", "c": 0.8, "d": 1, "r": 1}], "n": 1, "t": 145}

# Batch Mode

With -batch, every line of stdin is matched concurrently over [match].workers
goroutines and the results are printed in input order.
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/wordfix/internal/cli"
	"github.com/bastiangx/wordfix/internal/logger"
	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/config"
	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/bastiangx/wordfix/pkg/server"
	"github.com/bastiangx/wordfix/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordfix"
	gh      = "https://github.com/bastiangx/wordfix"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow between config, dictionary, matcher and the chosen mode.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "data/", "Directory (or file) with the word lists")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	batchMode := flag.Bool("batch", false, "Match every stdin line concurrently and exit")
	depth := flag.Int("depth", defaults.Match.MaxDepth, "Maximum search depth (>= 1)")
	strategy := flag.String("strategy", defaults.Match.Strategy, "Matching strategy: "+strings.Join(suggest.Strategies(), ", "))
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of matches to show")
	noFilter := flag.Bool("no-filter", defaults.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	fold := flag.Bool("fold", false, "Match case-insensitively and keep the query's capitals")
	wordLimit := flag.Int("words", defaults.Dict.MaxWords, "Maximum number of words to load (use 0 for all words)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path, err := config.GetActiveConfigPath(activePath); err == nil {
		log.Debugf("Using config file: (%s)", path)
	} else {
		log.Debugf("No config file in use: %v", err)
	}

	// explicit flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			appConfig.Match.MaxDepth = *depth
		case "strategy":
			appConfig.Match.Strategy = *strategy
		case "limit":
			appConfig.CLI.DefaultLimit = *limit
		case "no-filter":
			appConfig.CLI.DefaultNoFilter = *noFilter
			appConfig.Server.EnableFilter = !*noFilter
		case "words":
			appConfig.Dict.MaxWords = *wordLimit
		}
	})
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	resolvedData, err := pathResolver.GetDataDir(*dataPath)
	if err != nil {
		log.Fatalf("No word lists found for -data %q (last tried %s)", *dataPath, resolvedData)
	}
	log.Debugf("Using data at: %s", resolvedData)

	vocabulary, loader, err := dictionary.LoadVocabulary(resolvedData, appConfig.Dict.MaxWords, appConfig.Dict.MinFrequency)
	if err != nil {
		log.Fatalf("Failed to load vocabulary: %v", err)
	}
	log.Debugf("Init matcher: strategy=[%s], depth=[%d], words=[%d]",
		appConfig.Match.Strategy, appConfig.Match.MaxDepth, len(vocabulary))

	build := matcherBuilder(appConfig, *fold)
	matcher, err := build(vocabulary)
	if err != nil {
		log.Fatalf("Failed to build matcher: %v", err)
	}

	switch {
	case *batchMode:
		if err := runBatch(os.Stdin, os.Stdout, matcher, appConfig); err != nil {
			log.Fatalf("Batch error: %v", err)
		}
	case *cliMode:
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(matcher, appConfig.Server.MaxQuery,
			appConfig.CLI.DefaultLimit, appConfig.CLI.DefaultNoFilter, os.Stderr)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		srv := server.NewServer(matcher, appConfig)
		if loader != nil {
			srv.WithDictionary(dictionary.NewRuntimeLoader(loader), build)
		}
		showStartupInfo(resolvedData, len(vocabulary), matcher.Name())
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

// matcherBuilder returns the constructor used at startup and after dictionary resizes.
func matcherBuilder(cfg *config.Config, fold bool) server.RebuildFunc {
	return func(vocabulary map[string]int) (suggest.IMatcher, error) {
		m, err := suggest.New(cfg.Match.Strategy, vocabulary, cfg.Match.MaxDepth)
		if err != nil {
			return nil, err
		}
		matcher := suggest.NewCachedMatcher(m, cfg.Match.CacheSize)
		if fold {
			matcher = suggest.NewFoldedMatcher(matcher)
		}
		return matcher, nil
	}
}

// runBatch matches every non-empty line of in and prints one result line each.
func runBatch(in io.Reader, out io.Writer, matcher suggest.IMatcher, cfg *config.Config) error {
	var queries []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			queries = append(queries, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	results, err := suggest.SimilarBatch(context.Background(), matcher, queries, cfg.Match.Workers)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	for i, query := range queries {
		matches := suggest.Limit(suggest.Sorted(results[i]), cfg.CLI.DefaultLimit)
		words := make([]string, len(matches))
		for j, m := range matches {
			words[j] = fmt.Sprintf("%s:%.2f", m.Word, m.Confidence)
		}
		fmt.Fprintf(w, "%s\t%s\n", query, strings.Join(words, " "))
	}
	return w.Flush()
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ wordfix ] Finds the word you meant to type")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataPath string, words int, strategy string) {
	info := logger.New(AppName)
	info.SetLevel(log.InfoLevel)

	info.Infof("Version: %s", Version)
	info.Infof("Process ID: [ %d ]", os.Getpid())
	info.Infof("data: ( %s ), %s words", dataPath, utils.FormatWithCommas(words))
	info.Infof("strategy: %s", strategy)
	info.Info("status: ready")
}
