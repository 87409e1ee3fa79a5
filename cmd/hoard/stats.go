package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the learned routing statistics",
	Long: `Display per-candidate statistics from the persisted checkpoint:
pulls, cumulative reward, and mean reward. Candidates that have left the
catalog but still carry history are marked stale.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	state := router.State()
	if len(state) == 0 {
		fmt.Println("No rewards recorded yet.")
		fmt.Println("Run 'hoard pick' and 'hoard reward' to start learning.")
		return nil
	}

	current := make(map[string]bool)
	for _, c := range router.Candidates() {
		current[c.ID] = true
	}

	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("%-40s %8s %12s %8s\n", "CANDIDATE", "PULLS", "REWARD SUM", "MEAN")
	for _, id := range ids {
		s := state[id]
		marker := ""
		if !current[id] {
			marker = " (stale)"
		}
		fmt.Printf("%-40s %8d %12.3f %8.3f%s\n", id, s.Pulls, s.RewardSum, s.MeanReward(), marker)
	}
	return nil
}
