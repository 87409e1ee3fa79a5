package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick the next candidate to use",
	Long: `Select the next candidate with the UCB1 policy over the learned
statistics. The pick itself does not change any state; report the outcome
with 'hoard reward' afterwards.

Examples:
  hoard pick
  hoard pick --json`,
	RunE: runPick,
}

var pickJSON bool

func init() {
	pickCmd.Flags().BoolVar(&pickJSON, "json", false, "output the pick as JSON")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	router, err := openRouter(ctx, store)
	if err != nil {
		return err
	}

	pick := router.Select()

	if pickJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pick)
	}

	fmt.Println(pick.ID)
	return nil
}
