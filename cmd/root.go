package cmd

import (
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/lernkarten-api/config"
)

var rootCmd = &cobra.Command{
	Use:   "lernkarten-api",
	Short: "Flashcard API with spaced repetition scheduling",
	Long:  "lernkarten-api serves courses, flashcard sets and SM-2 scheduled reviews over a JSON HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}
