// Package scan drives a run: targets in, walked, stripped, reported.
package scan

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bomctl/internal/bom"
	"github.com/danmuck/bomctl/internal/walk"
)

// Scanner run configuration.
type Config struct {
	Targets   []string
	Encoding  bom.Encoding // empty means detect any known signature
	Recursive bool
	DryRun    bool
	Exclude   []string // glob patterns matched against the file base name
}

// Scanner defaults: detect any signature, top-level only, write mode.
func DefaultConfig() Config {
	return Config{}
}

// Validate rejects configurations Run could not act on.
func (c Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("scan config missing targets")
	}
	if c.Encoding != "" {
		if _, err := bom.ParseEncoding(string(c.Encoding)); err != nil {
			return fmt.Errorf("scan config: %w", err)
		}
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("scan config: exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Report totals for one run.
type Report struct {
	Scanned  int
	Stripped int
	Skipped  int
	Errors   int
	Failed   []string
}

type Scanner struct {
	cfg Config
}

func New(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Run processes every target sequentially. Per-file failures are counted and
// the run continues; a missing or unstattable target aborts the run.
func (s *Scanner) Run() (Report, error) {
	var rep Report
	if err := s.cfg.Validate(); err != nil {
		return rep, err
	}
	for _, target := range s.cfg.Targets {
		err := walk.Files(target, s.cfg.Recursive, func(path string) error {
			s.file(path, &rep)
			return nil
		})
		if err != nil {
			return rep, err
		}
	}
	summary := log.Info().
		Int("scanned", rep.Scanned).
		Int("stripped", rep.Stripped).
		Int("skipped", rep.Skipped).
		Int("errors", rep.Errors).
		Bool("dry_run", s.cfg.DryRun)
	if len(rep.Failed) > 0 {
		summary = summary.Strs("failed", rep.Failed)
	}
	summary.Msg("scan complete")
	return rep, nil
}

func (s *Scanner) file(path string, rep *Report) {
	if s.excluded(filepath.Base(path)) {
		rep.Skipped++
		log.Debug().Str("path", path).Msg("excluded by pattern")
		return
	}
	rep.Scanned++

	enc, ok, err := s.apply(path)
	if err != nil {
		rep.Errors++
		rep.Failed = append(rep.Failed, path)
		log.Error().Err(err).Str("path", path).Msg("file skipped")
		return
	}
	if !ok {
		log.Debug().Str("path", path).Msg("no byte order mark")
		return
	}
	rep.Stripped++
	if s.cfg.DryRun {
		log.Info().Str("path", path).Str("encoding", string(enc)).Msg("byte order mark found (dry run)")
		return
	}
	log.Info().Str("path", path).Str("encoding", string(enc)).Msg("byte order mark removed")
}

// apply strips the file, or only sniffs it in dry-run mode.
func (s *Scanner) apply(path string) (bom.Encoding, bool, error) {
	if s.cfg.DryRun {
		enc, ok, err := bom.Sniff(path)
		if err != nil || !ok {
			return "", false, err
		}
		if s.cfg.Encoding != "" && enc != s.cfg.Encoding {
			return "", false, nil
		}
		return enc, true, nil
	}
	if s.cfg.Encoding != "" {
		ok, err := bom.StripEncoding(path, s.cfg.Encoding)
		return s.cfg.Encoding, ok, err
	}
	return bom.Strip(path)
}

func (s *Scanner) excluded(name string) bool {
	for _, pattern := range s.cfg.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
