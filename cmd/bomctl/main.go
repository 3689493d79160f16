package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/danmuck/bomctl/internal/logging"
	"github.com/danmuck/bomctl/internal/scan"
)

type options struct {
	configPath string
	encoding   string
	recursive  bool
	dryRun     bool
	verbose    bool
}

func main() {
	opts, set := parseFlags()
	logging.ConfigureRuntime()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadRunConfig(opts, set, flag.Args())
	if err != nil {
		fatalf("%v", err)
	}
	if opts.verbose {
		logging.SetLevel(zerolog.DebugLevel)
	} else if cfg.logSet {
		logging.SetLevel(cfg.logLevel)
	}

	if _, err := scan.New(cfg.scan).Run(); err != nil {
		fatalf("%v", err)
	}
}

func parseFlags() (options, map[string]bool) {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to optional TOML config file")
	flag.StringVar(&opts.encoding, "e", "", "strip only this encoding's mark: utf-8 | utf-16le | utf-16be")
	flag.BoolVar(&opts.recursive, "r", false, "recurse into subdirectories")
	flag.BoolVar(&opts.dryRun, "n", false, "dry run: report marks without modifying files")
	flag.BoolVar(&opts.verbose, "v", false, "verbose (debug level) logging")
	flag.Usage = usage
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "bomctl removes leading byte order marks from text files in place.\n\n")
	fmt.Fprintf(out, "usage: bomctl [flags] path ...\n\n")
	flag.PrintDefaults()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "bomctl: "+format+"\n", args...)
	os.Exit(1)
}
