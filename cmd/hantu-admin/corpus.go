package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/0xricksanchez/hantu-go/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and maintain a seed corpus directory",
}

var corpusListCmd = &cobra.Command{
	Use:   "list <corpus-dir>",
	Short: "List every entry in a corpus directory with its size",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusList,
}

var corpusDedupeCmd = &cobra.Command{
	Use:   "dedupe <corpus-dir>",
	Short: "Remove byte-identical duplicate files from a corpus directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusDedupe,
}

func init() {
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusDedupeCmd)
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		total += int(info.Size())
		fmt.Fprintf(cmd.OutOrStdout(), "%10d  %s\n", info.Size(), name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d entries, %d bytes total\n", len(names), total)
	return nil
}

func runCorpusDedupe(cmd *cobra.Command, args []string) error {
	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	c := corpus.New()
	removed := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if !c.Add(data) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing duplicate %s: %w", name, err)
			}
			removed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d duplicate/empty files, %d entries remain\n", removed, c.Len())
	return nil
}
