package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xricksanchez/hantu-go/internal/grammar"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Work with grammar generator definitions",
}

var grammarValidateCmd = &cobra.Command{
	Use:   "validate <grammar.json>",
	Short: "Compile a grammar definition and report whether it's well-formed",
	Args:  cobra.ExactArgs(1),
	RunE:  runGrammarValidate,
}

func init() {
	grammarCmd.AddCommand(grammarValidateCmd)
}

func runGrammarValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if _, err := grammar.Compile(raw); err != nil {
		return fmt.Errorf("%s is not a valid grammar: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
	return nil
}
