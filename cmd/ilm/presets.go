package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/lunar-propagation/kb"
	"github.com/signalsfoundry/lunar-propagation/model"
)

type presetListing struct {
	Grounds map[string]model.Ground `json:"grounds"`
	Sites   []kb.Site               `json:"sites"`
}

func newPresetsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List ground and site presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.catalog()
			if err != nil {
				return err
			}

			listing := presetListing{Grounds: map[string]model.Ground{}, Sites: cat.ListSites()}
			for _, name := range cat.GroundNames() {
				g, err := cat.Ground(name)
				if err != nil {
					return err
				}
				listing.Grounds[name] = g
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(listing)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUND\tEPSILON\tSIGMA (S/m)")
			for _, name := range cat.GroundNames() {
				g := listing.Grounds[name]
				fmt.Fprintf(tw, "%s\t%g\t%g\n", name, g.Epsilon, g.Sigma)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "SITE\tHEIGHT (m)\tSITING")
			for _, s := range listing.Sites {
				fmt.Fprintf(tw, "%s\t%g\t%s\n", s.Name, s.Height, s.Siting)
			}
			return tw.Flush()
		},
	}
}
