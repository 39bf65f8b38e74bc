package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "Inspect a crash directory produced by a hantu session",
}

var crashesBucketCmd = &cobra.Command{
	Use:   "bucket <crash-dir>",
	Short: "Group crash files by the exit code embedded in their name",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrashesBucket,
}

func init() {
	crashesCmd.AddCommand(crashesBucketCmd)
}

// crashExitCode extracts the exit code from a .crash_<thr_id>_<code>_<ordinal>
// file name, matching the naming scheme worker writes crash files under.
func crashExitCode(name string) (int, bool) {
	if !strings.HasPrefix(name, ".crash_") {
		return 0, false
	}
	parts := strings.Split(strings.TrimPrefix(name, ".crash_"), "_")
	if len(parts) != 3 {
		return 0, false
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return code, true
}

func runCrashesBucket(cmd *cobra.Command, args []string) error {
	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	buckets := make(map[int]int)
	unclassified := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		code, ok := crashExitCode(e.Name())
		if !ok {
			unclassified++
			continue
		}
		buckets[code]++
	}

	codes := make([]int, 0, len(buckets))
	for code := range buckets {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	for _, code := range codes {
		fmt.Fprintf(cmd.OutOrStdout(), "exit code %3d: %d crash(es)\n", code, buckets[code])
	}
	if unclassified > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "unclassified: %d file(s)\n", unclassified)
	}
	return nil
}
