package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/danmuck/bomctl/internal/bom"
	"github.com/danmuck/bomctl/internal/logging"
	"github.com/danmuck/bomctl/internal/scan"
)

// bomctl config.toml key mapping to scan settings.
type fileConfig struct {
	Encoding  string   `toml:"encoding"`
	Recursive bool     `toml:"recursive"`
	DryRun    bool     `toml:"dry_run"`
	Exclude   []string `toml:"exclude"`
	LogLevel  string   `toml:"log_level"`
}

type runConfig struct {
	scan     scan.Config
	logLevel zerolog.Level
	logSet   bool
}

// loadRunConfig overlays three layers: defaults, then the optional config
// file, then any flags actually given on the command line.
func loadRunConfig(opts options, set map[string]bool, targets []string) (runConfig, error) {
	out := runConfig{scan: scan.DefaultConfig()}
	out.scan.Targets = targets

	if strings.TrimSpace(opts.configPath) != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(opts.configPath, &raw)
		if err != nil {
			return runConfig{}, fmt.Errorf("load bomctl config: %w", err)
		}
		if meta.IsDefined("encoding") {
			enc, err := bom.ParseEncoding(raw.Encoding)
			if err != nil {
				return runConfig{}, fmt.Errorf("load bomctl config: %w", err)
			}
			out.scan.Encoding = enc
		}
		if meta.IsDefined("recursive") {
			out.scan.Recursive = raw.Recursive
		}
		if meta.IsDefined("dry_run") {
			out.scan.DryRun = raw.DryRun
		}
		if meta.IsDefined("exclude") {
			out.scan.Exclude = normalizePatterns(raw.Exclude)
		}
		if meta.IsDefined("log_level") {
			level, ok := logging.ParseLevel(raw.LogLevel)
			if !ok {
				return runConfig{}, fmt.Errorf("load bomctl config: unknown log_level %q", raw.LogLevel)
			}
			out.logLevel = level
			out.logSet = true
		}
	}

	if set["e"] {
		enc, err := bom.ParseEncoding(opts.encoding)
		if err != nil {
			return runConfig{}, err
		}
		out.scan.Encoding = enc
	}
	if set["r"] {
		out.scan.Recursive = opts.recursive
	}
	if set["n"] {
		out.scan.DryRun = opts.dryRun
	}

	if err := out.scan.Validate(); err != nil {
		return runConfig{}, err
	}
	return out, nil
}

func normalizePatterns(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
