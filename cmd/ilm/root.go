package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/lunar-propagation/internal/logging"
	"github.com/signalsfoundry/lunar-propagation/kb"
)

type globalOptions struct {
	catalogPath string
	server      string
	jsonOutput  bool
	logLevel    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "ilm",
		Short:         "Irregular Lunar Model propagation calculator",
		Long:          "ilm predicts basic transmission loss between two terminals on the lunar surface, from a terrain profile (p2p) or from terrain statistics (area).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.catalogPath, "catalog", "", "YAML catalog of ground and site presets, merged over the built-ins")
	pf.StringVar(&opts.server, "server", "", "address of an ilm-server to compute on instead of locally")
	pf.BoolVar(&opts.jsonOutput, "json", false, "print the full result as JSON")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level on stderr: debug, info, warn, error")

	root.AddCommand(
		newPointToPointCmd(opts),
		newAreaCmd(opts),
		newPresetsCmd(opts),
	)
	return root
}

func (o *globalOptions) logger(w io.Writer) logging.Logger {
	return logging.New(logging.Config{Level: o.logLevel, Format: "text", Output: w})
}

func (o *globalOptions) catalog() (*kb.Catalog, error) {
	cat := kb.DefaultCatalog()
	if o.catalogPath == "" {
		return cat, nil
	}
	if err := cat.LoadFile(o.catalogPath); err != nil {
		return nil, err
	}
	return cat, nil
}
