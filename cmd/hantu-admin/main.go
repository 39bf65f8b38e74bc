// Command hantu-admin is a companion CLI for operating on the artifacts a
// hantu fuzzing session produces: seed corpora, crash dumps, and grammar
// definitions. Unlike cmd/hantu's hand-rolled flag-based parsing (mirroring
// the original's own CLI style), hantu-admin is a small, subcommand-driven
// tool and reaches for Cobra the way jhkimqd-chaos-utils's chaos-runner
// does: one file per subcommand, a root command wiring them together.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hantu-admin",
	Short: "Operate on hantu fuzzing artifacts: corpora, crashes, and grammars",
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(crashesCmd)
	rootCmd.AddCommand(grammarCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
