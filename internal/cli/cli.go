package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/p7r0x7/vainpath"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	appconfig "github.com/ykhdr/dictcrack/config"
	"github.com/ykhdr/dictcrack/internal/config"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/hashcrack"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/dictcrack/internal/wordlist"
)

const (
	exitOK    = 0
	exitError = 1
)

type options struct {
	help       bool
	algorithm  string
	strategy   string
	workers    int
	batchSize  int
	configPath string
	logLevel   string
}

// Run executes one crack from the command line and returns the process exit
// code. A valid fixed algorithm pins the digest and drops the --algorithm flag.
// Results go to stdout, diagnostics and logs to stderr.
func Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer, fixed digest.Algorithm) int {
	var opts options
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() {}
	fs.BoolVarP(&opts.help, "help", "h", false, "prints this help menu")
	if !fixed.Valid() {
		fs.StringVarP(&opts.algorithm, "algorithm", "a", "",
			"digest algorithm: "+strings.Join(digest.Names(), ", ")+" (default from config, else md5)")
	}
	fs.StringVarP(&opts.strategy, "strategy", "s", "", "scan strategy: sequential or parallel")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "parallel workers (default number of cpus)")
	fs.IntVar(&opts.batchSize, "batch-size", 0, "lines handed to a parallel worker at once")
	fs.StringVarP(&opts.configPath, "config", "c", appconfig.DefaultCLIConfigPath, "kdl config file")
	fs.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error")

	// Unparsable arguments are a usage mistake like a wrong argument count.
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "[!] %v\n", err)
		usage(stdout, name, fs)
		return exitOK
	}
	if opts.help || fs.NArg() != 2 {
		usage(stdout, name, fs)
		return exitOK
	}

	cfg, err := appconfig.LoadCLIConfig(opts.configPath, fs.Changed("config"))
	if err != nil {
		fmt.Fprintf(stderr, "[!] Config not loaded: %v\n", err)
		return exitError
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	config.SetupLogger(cfg, stderr)
	applyFlags(fs, &opts, cfg.Crack)

	alg := fixed
	if !alg.Valid() {
		if alg, err = digest.ParseAlgorithm(cfg.Crack.Algorithm); err != nil {
			fmt.Fprintf(stderr, "[!] %v\n", err)
			return exitError
		}
	}

	crackStrategy := strategy.NewStrategy(strategy.ParseStrategyName(cfg.Crack.Strategy), cfg.Crack.StrategyOptions())
	service := hashcrack.NewService(crackStrategy)
	src := wordlist.File(fs.Arg(0))
	log.Debug().
		Str("algorithm", alg.String()).
		Str("strategy", crackStrategy.Name()).
		Str("wordlist", src.Name()).
		Msg("starting crack")

	res, err := service.Crack(ctx, alg, strings.TrimSpace(fs.Arg(1)), src)
	switch {
	case errors.Is(err, hashcrack.ErrInvalidDigestFormat):
		fmt.Fprintf(stderr, "[!] Hash not valid! Expected %d hex characters for %s.\n", alg.HexLen(), alg)
		return exitError
	case errors.Is(err, hashcrack.ErrWordlistUnavailable):
		fmt.Fprintf(stderr, "[!] %v\n", err)
		return exitError
	case err != nil:
		fmt.Fprintf(stderr, "[!] Scan of %s aborted: %v\n", src.Name(), err)
		return exitError
	case res.Found():
		fmt.Fprintf(stdout, "[+] Password found: %s\n", res.Candidate())
	default:
		fmt.Fprintln(stdout, "[-] Hash not found.")
	}
	return exitOK
}

// applyFlags overrides config values with the flags set on the command line.
func applyFlags(fs *pflag.FlagSet, opts *options, cfg *appconfig.CrackConfig) {
	if fs.Changed("algorithm") {
		cfg.Algorithm = opts.algorithm
	}
	if fs.Changed("strategy") {
		cfg.Strategy = opts.strategy
	}
	if fs.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if fs.Changed("batch-size") {
		cfg.BatchSize = opts.batchSize
	}
}

func usage(w io.Writer, name string, fs *pflag.FlagSet) {
	name = vainpath.Trim(name, "…", 12)
	fmt.Fprintln(w, "[i] Usage:")
	fmt.Fprintf(w, "%s [flags] <wordlist.txt> <hash>\n\n", name)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w, "\nPut `--` before a wordlist whose name starts with `-`.")
}
