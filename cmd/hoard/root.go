package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hoardlabs/hoard"
	"github.com/hoardlabs/hoard/internal/checkpoint"
	"github.com/hoardlabs/hoard/internal/checkpoint/diskstore"
	"github.com/hoardlabs/hoard/internal/codec/zstdcodec"
)

const candidatesKey = "candidates.json"

var (
	// Global flags.
	dataDir     string
	source      string
	exploration float64
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "hoard",
	Short: "Adaptive routing over a cached candidate catalog",
	Long: `Hoard maintains a locally cached catalog of free upstream candidates
and routes selections over it with a UCB1 bandit, learning from rewards
you feed back after each call.

Examples:
  # Refresh the candidate catalog from upstream
  hoard refresh --source https://example.com/api/v1/models

  # Pick the next candidate to use
  hoard pick

  # Report how a call went (reward in [0, 1])
  hoard reward some-model 0.9

  # Show the learned statistics
  hoard stats`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "./data", "directory for catalog and checkpoint state")
	rootCmd.PersistentFlags().StringVarP(&source, "source", "s", "", "catalog source URL or local file path")
	rootCmd.PersistentFlags().Float64Var(&exploration, "exploration", 1.4, "UCB1 exploration coefficient")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.SetEnvPrefix("HOARD")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	_ = viper.BindPFlag("exploration", rootCmd.PersistentFlags().Lookup("exploration"))

	cobra.OnInitialize(func() {
		dataDir = viper.GetString("data_dir")
		source = viper.GetString("source")
		exploration = viper.GetFloat64("exploration")
	})
}

// newLogger returns a development logger in verbose mode, a silent one
// otherwise.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openStore opens the disk checkpoint store under the data directory.
func openStore() (*diskstore.Store, error) {
	store, err := diskstore.New(dataDir, zstdcodec.New())
	if err != nil {
		return nil, fmt.Errorf("opening data directory: %w", err)
	}
	return store, nil
}

// fetchDescriptors builds a fetch function for the configured source.
// A source starting with http:// or https:// is fetched over HTTP;
// anything else is read as a local file. The payload may be a bare JSON
// array or an object with a "data" array.
func fetchDescriptors(source string) hoard.FetchFunc {
	return func(ctx context.Context) ([]any, error) {
		var raw []byte
		var err error

		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			raw, err = fetchURL(ctx, source)
		} else {
			raw, err = os.ReadFile(source)
		}
		if err != nil {
			return nil, err
		}

		var descriptors []any
		if err := json.Unmarshal(raw, &descriptors); err == nil {
			return descriptors, nil
		}

		var wrapped struct {
			Data []any `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing catalog payload: %w", err)
		}
		return wrapped.Data, nil
	}
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching catalog: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// loadCandidates reads the candidate list persisted by 'hoard refresh'.
func loadCandidates(ctx context.Context, store *diskstore.Store) ([]hoard.Candidate, error) {
	data, err := store.Load(ctx, candidatesKey)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return nil, fmt.Errorf("no catalog in %q; run 'hoard refresh' first", dataDir)
		}
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var candidates []hoard.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return candidates, nil
}

// saveCandidates persists the candidate list for later commands.
func saveCandidates(ctx context.Context, store *diskstore.Store, candidates []hoard.Candidate) error {
	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := store.Save(ctx, candidatesKey, data); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// openRouter loads the persisted catalog and builds a router over it.
func openRouter(ctx context.Context, store *diskstore.Store) (*hoard.Router, error) {
	candidates, err := loadCandidates(ctx, store)
	if err != nil {
		return nil, err
	}
	return hoard.New(ctx, candidates,
		hoard.WithCheckpoints(store),
		hoard.WithExploration(exploration),
		hoard.WithLogger(newLogger()),
	)
}
