package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dgallion1/clausetree/internal/outline"
	"github.com/spf13/cobra"
)

var flattenJSON bool

var flattenCmd = &cobra.Command{
	Use:   "flatten <file>",
	Short: "Print one row per clause",
	Long:  `Print one (group, section, chapter_id, full_path) row per clause in document order.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := reconstructFile(args[0])
		if err != nil {
			return err
		}
		rows := outline.Flatten(doc)

		if flattenJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			for _, r := range rows {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "GROUP\tSECTION\tCHAPTER\tPAGES\tPATH")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\t%s%s\n",
				r.Group, r.Section, r.ChapterID, r.StartPage, r.EndPage,
				strings.Repeat("  ", r.Depth), r.FullPath)
		}
		return tw.Flush()
	},
}

func init() {
	flattenCmd.Flags().BoolVar(&flattenJSON, "json", false, "Print rows as JSON lines")
	rootCmd.AddCommand(flattenCmd)
}
