package cmd

import (
	"os"

	"github.com/spf13/cobra"

	st "github.com/simdex/simdex/settings"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simdex",
	Short: "Similarity aware feature collection search",
	Long: `Simdex stores feature collections extracted from content and serves
similarity searches over them through a HTTP interface.

Collections are indexed by configured features so searches can scan the
corpus by the values a query collection contains. Result streams are
filtered for near duplicates and already labeled pairs before being
sampled down to the requested size.

Other commands are available for cooking similarity features on the
command line and running one-off searches against a configured backend.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		st.ResetSettings()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
