// Command speq runs the six-band equalizer over audio files and prints its
// response and spectrum as text.
//
// Usage:
//
//	speq <command> [flags] [args]
//
// Commands:
//
//	render   INPUT OUTPUT   filter a wav/mp3/flac file into a wav file
//	play     INPUT          play a file through the equalizer
//	response                print the magnitude response of the settings
//	analyze  INPUT          plot the output spectrum of a file
//	preset   save|load|list|delete [NAME]
//	windows                 list the analysis windows and their resolution
//
// Parameters are set with repeated --set flags using the parameter IDs,
// for example:
//
//	speq render --set "LowCut Freq=40" --set "LowCut Slope=24" in.flac out.wav
//	speq response --preset vocal --plot
//	speq preset save warm --set "Low Peak Gain=3"
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage")

type command struct {
	summary string
	run     func(args []string, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"render":   {"filter a file into a wav file", runRender},
	"play":     {"play a file through the equalizer", runPlay},
	"response": {"print the magnitude response", runResponse},
	"analyze":  {"plot the output spectrum of a file", runAnalyze},
	"preset":   {"save, load, list or delete presets", runPreset},
	"windows":  {"list the analysis windows", runWindows},
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)

		if len(args) == 0 {
			return errUsage
		}

		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		usage(stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	return cmd.run(args[1:], stdout, stderr)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: speq <command> [flags] [args]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}

	fmt.Fprintf(w, "\nRun 'speq <command> --help' for the flags of a command.\n")
}
