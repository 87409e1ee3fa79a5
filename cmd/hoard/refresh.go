package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoardlabs/hoard"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the candidate catalog from upstream",
	Long: `Fetch the upstream catalog, keep only candidates whose pricing is
zero for both prompt and completion, and persist the filtered list under
the data directory for later 'pick' and 'reward' calls.

Examples:
  # Refresh from an HTTP catalog endpoint
  hoard refresh --source https://example.com/api/v1/models

  # Refresh from a local JSON file
  hoard refresh --source ./models.json`,
	RunE: runRefresh,
}

var refreshTimeout time.Duration

func init() {
	refreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", 30*time.Second, "upstream fetch timeout")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if source == "" {
		return fmt.Errorf("no catalog source; set --source or HOARD_SOURCE")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := hoard.NewCatalog(fetchDescriptors(source),
		hoard.WithCatalogLogger(newLogger()),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	candidates, err := catalog.Refresh(ctx, true)
	if err != nil {
		return fmt.Errorf("refreshing catalog: %w", err)
	}

	if err := saveCandidates(ctx, store, candidates); err != nil {
		return err
	}

	fmt.Printf("Catalog refreshed: %d free candidates\n", len(candidates))
	for _, c := range candidates {
		fmt.Printf("  %s\n", c.ID)
	}
	return nil
}
