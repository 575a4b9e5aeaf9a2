// Package main is a small inspector for layered settings files: it loads
// the given sources, merges them and prints resolved values.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/strata"
)

// Version information (set via ldflags during build).
var version = "dev"

// fileList collects repeatable file flags.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var defaults, plugins, users fileList
	var envPrefix string
	var debug bool
	var showVersion bool

	flag.Var(&defaults, "default", "Default-tier settings file (repeatable)")
	flag.Var(&plugins, "plugin", "Plugin-tier settings file (repeatable)")
	flag.Var(&users, "user", "User-tier settings file (repeatable)")
	flag.StringVar(&envPrefix, "env", "", "Environment variable prefix for runtime settings (e.g. MYAPP_)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "strata - layered settings inspector\n\n")
		fmt.Fprintf(os.Stderr, "Usage: strata [options] [paths...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  strata -default d.json -user u.json            Print the merged view\n")
		fmt.Fprintf(os.Stderr, "  strata -default d.json -user u.toml chart.dpi  Resolve one key\n")
		fmt.Fprintf(os.Stderr, "  strata -user u.json -env MYAPP_ chart.dpi      Include MYAPP_* variables\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("strata %s\n", version)
		return 0
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	m := strata.NewManager(strata.WithLogger(log))
	tiers := []struct {
		files fileList
		tier  strata.Tier
	}{
		{defaults, strata.TierDefault},
		{plugins, strata.TierPlugin},
		{users, strata.TierUser},
	}
	for _, t := range tiers {
		for _, path := range t.files {
			if _, err := m.AddSource(path, t.tier); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}
	}
	if envPrefix != "" {
		if err := m.LoadEnv(envPrefix); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	// No paths: print the whole merged view as JSON.
	if flag.NArg() == 0 {
		doc, err := m.ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(doc))
		return 0
	}

	status := 0
	for _, path := range flag.Args() {
		v, err := m.Resolve(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = 1
			continue
		}
		tier, _ := m.WhichTier(path)
		fmt.Printf("%s = %v (from %s)\n", path, formatValue(v), tier)
	}
	return status
}

// formatValue renders a resolved value for display.
func formatValue(v any) string {
	doc, err := strata.EncodeValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(doc)
}
