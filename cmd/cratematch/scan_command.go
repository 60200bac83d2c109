package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cratematch/internal/library"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "scan <library-dir>",
		Short: "List the tracks a library directory would contribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			tracks, err := library.ScanDirectory(args[0], logger)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := library.WriteCrate(outPath, tracks); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tracks to %s\n", len(tracks), outPath)
				return nil
			}
			if jsonOutput {
				return writeJSON(cmd, tracks)
			}

			rows := make([][]string, 0, len(tracks))
			for _, track := range tracks {
				year := ""
				if track.Year > 0 {
					year = strconv.Itoa(track.Year)
				}
				rows = append(rows, []string{
					track.Title,
					formatArtists(track.Artists),
					track.Key,
					year,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Artists", "Key", "Year"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d tracks\n", len(tracks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit tracks as JSON on stdout")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the scanned tracks as a crate CSV instead of printing")
	return cmd
}
