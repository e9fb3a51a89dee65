// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordcheck spell checking server and interactive CLI.

wordcheck walks a text document line by line and stops on every spelling,
capitalization, miscapitalization and double word error. Each stop offers
replacement suggestions ranked by edit distance against the stock and user
word lists. The corrected document is written to a staging file and exported
when the session ends; an existing file is never overwritten.

# Usage

Check a document interactively:

	wordcheck -c essay.txt

Write the result somewhere specific and enable debug logging:

	wordcheck -c -o ~/final/essay essay.txt -d

Start the MessagePack server for editor integration:

	wordcheck -stock /usr/share/dict/words

# Configuration

Configuration lives in ~/.config/wordcheck/config.toml and is created with
defaults on first run:

	[dict]
	stock_path = "data/words.txt"
	user_path = "~/.config/wordcheck/user_words.txt"

	[check]
	suggestion_limit = 10
	cache_size = 256

	[output]
	staging_dir = ""
	copy_suffix = "+copy"

	[cli]
	show_suggestions = 5

A malformed file is salvaged section by section; whatever cannot be read
falls back to the defaults.

# CLI Mode

Each error is printed with the flagged word highlighted and numbered
suggestions. Answer with a number to take a suggestion, or with one of
i (ignore), I (ignore all), d (delete), a (add to dictionary),
e <text> (manual edit), r <word> (replace), R <word> (replace all) and
q (save what was checked and stop).

# Server Mode

The server reads msgpack requests from stdin and answers on stdout. See
package server for the request shapes.

# Command Line Flags

	-c  Run the interactive CLI on the document given as argument
	-o string
	    Export destination for CLI mode (default "<input>-checked")
	-d  Enable debug mode with detailed logging
	-config string
	    Path to a config file
	-stock string
	    Stock word list (default from config)
	-user string
	    User word list that learned words are appended to (default from config)
	-limit int
	    Number of suggestions computed per error (default from config)
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bastiangx/wordcheck/internal/cli"
	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/document"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/bastiangx/wordcheck/pkg/spell"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordcheck"
	gh      = "https://github.com/bastiangx/wordcheck"
)

// sigHandler runs cleanup on SIGINT or SIGTERM and exits normally.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

// main wires config, dictionary and checker together and hands control to
// the CLI or the server.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Check the document given as argument interactively")
	output := flag.String("o", "", "Export destination for CLI mode")
	configPath := flag.String("config", "", "Path to a config file")
	stockPath := flag.String("stock", "", "Stock word list")
	userPath := flag.String("user", "", "User word list")
	limit := flag.Int("limit", 0, "Number of suggestions computed per error")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	stock := cfg.StockPath()
	if *stockPath != "" {
		stock = config.ExpandPath(*stockPath)
	}
	user := cfg.UserPath()
	if *userPath != "" {
		user = config.ExpandPath(*userPath)
	}
	suggestionLimit := cfg.Check.SuggestionLimit
	if *limit > 0 {
		suggestionLimit = *limit
	}

	dict, err := dictionary.Open(stock, user)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	defer dict.Close()
	log.Debugf("Dictionary ready: %d words", dict.Len())

	cache := spell.NewSuggestionCache(cfg.Check.CacheSize)
	docOpts := document.Options{
		StagingDir: cfg.StagingDir(),
		CopySuffix: cfg.Output.CopySuffix,
	}

	if *cliMode {
		if flag.NArg() != 1 {
			log.Error("CLI mode needs exactly one document to check")
			flag.Usage()
			dict.Close()
			os.Exit(2)
		}
		input := flag.Arg(0)
		dest := *output
		if dest == "" {
			dest = defaultDestination(input)
		}
		dest = config.ExpandPath(dest)

		checker := spell.NewChecker(dict, spell.WithLimit(suggestionLimit), spell.WithCache(cache))
		doc, err := document.Open(input, checker, docOpts)
		if err != nil {
			dict.Close()
			log.Fatalf("Failed to open %s: %v", input, err)
		}
		handler := cli.NewInputHandler(doc, dest, cfg.CLI.ShowSuggestions)
		sigHandler(func() {
			handler.Close()
			dict.Close()
		})
		if _, err := handler.Start(); err != nil {
			dict.Close()
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(dict, cache, server.Options{
		SuggestionLimit: suggestionLimit,
		Document:        docOpts,
	})
	sigHandler(func() {
		srv.Close()
		dict.Close()
	})

	showStartupInfo(stock, dict.Len())

	if err := srv.Start(); err != nil {
		dict.Close()
		log.Fatalf("Server error: %v", err)
	}
}

// defaultDestination puts "-checked" before the input's extension; the
// extension itself is added back on export.
func defaultDestination(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-checked"
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordCheck ] Checks spelling and capitalization, one error at a time")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(stockPath string, words int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" WordCheck ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("dictionary: ( %s ) %d words", stockPath, words)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
