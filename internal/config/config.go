package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/dlowe-net/repeat/internal/clock"
)

// LaunchMode selects how the child command is started.
type LaunchMode int

const (
	// ViaShell joins the trailing arguments into one string and hands it
	// to the shell interpreter. No quoting or escaping is applied, so
	// shell metacharacters embedded in the arguments are interpreted by
	// the shell. This is deliberate.
	ViaShell LaunchMode = iota
	// Direct executes the program named by the first trailing argument
	// with the remaining arguments as its argument vector, without any
	// shell interpretation.
	Direct
)

// RunConfig is the resolved run configuration. It is constructed once
// by Parse and never modified afterwards.
type RunConfig struct {
	Times         int         // 0 means run forever
	Interval      clock.Stamp // zero means no pause between runs
	Precise       bool        // fixed-cadence scheduling from a fixed origin
	StopOnError   bool        // stop when the child exits non-zero
	StopOnSuccess bool        // stop when the child exits zero
	Mode          LaunchMode
	ShellCommand  string   // ViaShell: space-joined command string
	Argv          []string // Direct: program name and argument vector

	Shell    string // shell interpreter for ViaShell mode
	LogLevel string
	Debug    bool
}

// envConfig is the ambient environment layer. CLI flags take precedence
// over it; it takes precedence over an optional .env file.
type envConfig struct {
	Shell    string `env:"REPEAT_SHELL" envDefault:"/bin/sh"`
	LogLevel string `env:"REPEAT_LOG_LEVEL" envDefault:"warn"`
	Debug    bool   `env:"REPEAT_DEBUG" envDefault:"false"`
}

const usageText = `Repeatedly call COMMAND forever, or until specified option.

Usage: %[1]s [-ehpsx] [--times=<n>] [--interval=<n>] <command>

Options:
  -i, --interval=DURATION  specifies the interval between invocations.
  -t, --times=NUM          execute for number of times, then stop
  -e, --untilerr           stop repeating when command's exit code is non-zero
  -s, --untilsuccess       stop repeating when command's exit code is zero
  -p, --precise   runs command at specified intervals instead of waiting
                  the interval between executions
  -x, --noshell   runs command directly instead of via the shell
  -h, --help      display usage and exit
  -v, --version   display version info and exit

DURATION is a decimal magnitude with an optional d, h, m or s unit
suffix, taken as seconds when the suffix is omitted.

Examples:
  %[1]s echo Hello World       Prints out Hello World forever
  %[1]s -t 5 echo Hello World  Prints out Hello World five times
  %[1]s -i 1 echo Hello World  Prints out Hello World with a second between
                               each invocation
  %[1]s -i 1 -e -p -t 5 echo Hello World  Prints out Hello World five times,
                                          once a second, stopping if echo
                                          returns an error.
`

// Parse resolves the command line and environment into a RunConfig.
//
// Help and version requests print their text to stdout and return
// pflag.ErrHelp; the caller should exit 0. Any other non-nil error
// means usage text has already been written to stderr and the caller
// should exit 1.
func Parse(args []string, version string, stdout, stderr io.Writer) (*RunConfig, error) {
	_ = godotenv.Load() // .env is optional

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	name := "repeat"
	if len(args) > 0 {
		name = filepath.Base(args[0])
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	// Stop option processing at the first non-option token: everything
	// from there on is the command and its own arguments, even if they
	// look like options.
	fs.SetInterspersed(false)
	fs.Usage = func() { fmt.Fprintf(stderr, usageText, name) }

	var (
		intervalArg  string
		times        int
		precise      bool
		untilErr     bool
		untilSuccess bool
		noShell      bool
		showHelp     bool
		showVersion  bool
		debug        bool
	)
	fs.StringVarP(&intervalArg, "interval", "i", "", "interval between invocations")
	fs.IntVarP(&times, "times", "t", 0, "execute for number of times, then stop")
	fs.BoolVarP(&precise, "precise", "p", false, "run at fixed intervals")
	fs.BoolVarP(&untilErr, "untilerr", "e", false, "stop when exit code is non-zero")
	fs.BoolVarP(&untilSuccess, "untilsuccess", "s", false, "stop when exit code is zero")
	fs.BoolVarP(&noShell, "noshell", "x", false, "run command directly instead of via the shell")
	fs.BoolVarP(&showHelp, "help", "h", false, "display usage and exit")
	fs.BoolVarP(&showVersion, "version", "v", false, "display version info and exit")
	fs.BoolVarP(&debug, "debug", "d", false, "log the resolved configuration")
	_ = fs.MarkHidden("debug")

	// pflag suppresses its own diagnostics under ContinueOnError, so
	// every parse failure goes through usageError here.
	if err := fs.Parse(normalizeVersionAlias(args[1:])); err != nil {
		return nil, usageError(stderr, name, err)
	}

	if showHelp {
		fmt.Fprintf(stdout, usageText, name)
		return nil, pflag.ErrHelp
	}
	if showVersion {
		fmt.Fprintf(stdout, "%s %s\n\nWritten by Daniel Lowe.\n", name, version)
		return nil, pflag.ErrHelp
	}

	if times < 0 {
		return nil, usageError(stderr, name, fmt.Errorf("times must not be negative"))
	}

	var interval clock.Stamp
	if intervalArg != "" {
		var err error
		interval, err = ParseInterval(intervalArg)
		if err != nil {
			return nil, usageError(stderr, name, err)
		}
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, usageError(stderr, name, fmt.Errorf("no command given"))
	}

	cfg := &RunConfig{
		Times:         times,
		Interval:      interval,
		Precise:       precise,
		StopOnError:   untilErr,
		StopOnSuccess: untilSuccess,
		Shell:         ec.Shell,
		LogLevel:      ec.LogLevel,
		Debug:         debug || ec.Debug,
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	if noShell {
		cfg.Mode = Direct
		cfg.Argv = rest
	} else {
		cfg.Mode = ViaShell
		cfg.ShellCommand = strings.Join(rest, " ")
	}
	return cfg, nil
}

func usageError(stderr io.Writer, name string, err error) error {
	fmt.Fprintf(stderr, "%s: %v\n", name, err)
	fmt.Fprintf(stderr, usageText, name)
	return err
}

// normalizeVersionAlias rewrites a standalone -V in the option region
// into --version. Only -v/-V/--version request the version text; there
// is no long --Version form. The scan mirrors non-interspersed parsing:
// it ends at "--" or at the first token that is not an option, so a -V
// belonging to the command passes through untouched.
func normalizeVersionAlias(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		a := out[i]
		if a == "--" || a == "-" || !strings.HasPrefix(a, "-") {
			break
		}
		if a == "-V" {
			out[i] = "--version"
			continue
		}
		switch a {
		case "-i", "--interval", "-t", "--times":
			// these consume the next token as their value
			i++
		}
	}
	return out
}
