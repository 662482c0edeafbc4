package main

import (
	"github.com/dgallion1/clausetree/internal/config"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the effective outline profile as YAML",
	Long: `Print the outline profile that outline and flatten would use: the built-in
defaults, overlaid with --profile when given. The output is a valid profile file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.LoadProfile(profilePath)
		if err != nil {
			return err
		}
		data, err := config.MarshalProfile(p)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
