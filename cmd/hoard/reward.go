package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var rewardCmd = &cobra.Command{
	Use:   "reward [ID] [VALUE]",
	Short: "Record the outcome of a call to a candidate",
	Long: `Record a reward for a candidate and persist the updated statistics.
Rewards are typically in [0, 1]: 1 for a fully successful call, 0 for a
failed one.

Examples:
  hoard reward some-model 1
  hoard reward other-model 0.25`,
	Args: cobra.ExactArgs(2),
	RunE: runReward,
}

func init() {
	rootCmd.AddCommand(rewardCmd)
}

func runReward(cmd *cobra.Command, args []string) error {
	id := args[0]
	reward, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid reward %q: %w", args[1], err)
	}

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

	if err := router.RecordReward(ctx, id, reward); err != nil {
		return fmt.Errorf("recording reward: %w", err)
	}

	s := router.State()[id]
	fmt.Printf("%s: %d pulls, mean reward %.3f\n", id, s.Pulls, s.MeanReward())
	return nil
}
