package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var outlineCompact bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the reconstructed outline as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := reconstructFile(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		if !outlineCompact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(doc)
	},
}

func init() {
	outlineCmd.Flags().BoolVarP(&outlineCompact, "compact", "c", false, "Print JSON on a single line")
	rootCmd.AddCommand(outlineCmd)
}
