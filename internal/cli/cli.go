// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/wmfwconv/internal/config"
	"github.com/retroenv/wmfwconv/internal/options"
)

// ParseFlags parses command line flags and positional arguments and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// parse errors and defaults are printed once by UsageError.ShowUsage
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(os.Args[1:]); err != nil {
		usageErr := &UsageError{flags: flags}
		if !errors.Is(err, flag.ErrHelp) {
			usageErr.msg = err.Error()
		}
		return opts, usageErr
	}
	args := flags.Args()
	if len(args) < 2 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	opts.Command = args[0]
	opts.Firmware = args[1]
	opts.Tunings = args[2:]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: wmfwconv [options] <print|export> <firmware dump> [tuning dumps...]\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after command, please pass all options before the command", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Command = strings.ToLower(opts.Command)
	opts.Part = strings.ToLower(opts.Part)

	validCommands := []string{options.CommandPrint, options.CommandExport}
	for _, valid := range validCommands {
		if opts.Command == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported command: %s. Valid options: %s",
		opts.Command, strings.Join(validCommands, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "output directory for the exported .c and .h files, current directory if no name given")
	flags.StringVar(&opts.Part, "p", "", "part number to convert for (cs35l41) - if not detected from the firmware file name")
	flags.IntVar(&opts.BlockSizeLimit, "limit", config.DefaultBlockSizeLimit, "maximum payload size of a block in bytes")
	flags.BoolVar(&opts.Verify, "verify", false, "verify that the chunked blocks reproduce the assembled firmware and tuning data")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
