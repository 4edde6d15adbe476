package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
)

func runPreset(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("preset", "save|load|list|delete [NAME]", stderr)

	if err := fs.Parse(args); err != nil {
		return err
	}

	action := fs.Arg(0)
	name := fs.Arg(1)

	want := 2
	if action == "list" {
		want = 1
	}

	if fs.NArg() != want {
		fs.Usage()
		return fmt.Errorf("%w: preset %s", errUsage, action)
	}

	e, err := common.setup(fs, stdout, stderr)
	if err != nil {
		return err
	}

	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	switch action {
	case "save":
		return store.Save(name, e.params.Capture())
	case "load":
		if err := store.LoadInto(name, e.params); err != nil {
			return err
		}

		return printParameters(stdout, e.params)
	case "delete":
		return store.Delete(name)
	case "list":
		names, err := store.List()
		if err != nil {
			return err
		}

		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}

		return nil
	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown preset action %q", errUsage, action)
	}
}

func printParameters(w io.Writer, params *eq.Parameters) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range params.All() {
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Label())
	}

	return tw.Flush()
}
