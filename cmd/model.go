package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbayes/market-bayes/pkg/learning"
)

var (
	modelName      string
	modelRedisURL  string
	modelSnapshot  string
	modelOpTimeout time.Duration
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Share trained models through Redis",
	Long:  `Publish, fetch and delete model snapshots in a Redis model store`,
}

var modelPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Publish the local model snapshot to Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := learning.LoadSnapshot(snapshotPath(cmd))
		if err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}

		return withRedisStore(cmd, func(ctx context.Context, store *learning.RedisStore, name string) error {
			if err := store.Publish(ctx, name, model); err != nil {
				return err
			}
			fmt.Printf("✅ Published model %q (%d classes, vocabulary %d)\n",
				name, len(model.Classes()), model.VocabSize())
			return nil
		})
	},
}

var modelPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch a model from Redis into the local snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := snapshotPath(cmd)
		return withRedisStore(cmd, func(ctx context.Context, store *learning.RedisStore, name string) error {
			model, err := store.Fetch(ctx, name)
			if err != nil {
				return err
			}
			if err := model.SaveSnapshot(path); err != nil {
				return fmt.Errorf("failed to save model: %w", err)
			}
			fmt.Printf("✅ Fetched model %q to: %s\n\n", name, path)
			model.PrintStats(os.Stdout)
			return nil
		})
	},
}

var modelDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a model from Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRedisStore(cmd, func(ctx context.Context, store *learning.RedisStore, name string) error {
			if err := store.Delete(ctx, name); err != nil {
				return err
			}
			fmt.Printf("🗑️  Deleted model %q\n", name)
			return nil
		})
	},
}

// snapshotPath returns the local snapshot file for model commands
func snapshotPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("snapshot") {
		return modelSnapshot
	}
	return appConfig.Model.ModelPath
}

// withRedisStore connects to the configured Redis and runs fn with the
// model name to operate on
func withRedisStore(cmd *cobra.Command, fn func(context.Context, *learning.RedisStore, string) error) error {
	redisCfg := appConfig.Redis
	if cmd.Flags().Changed("redis-url") {
		redisCfg.RedisURL = modelRedisURL
	}
	name := appConfig.Model.Name
	if cmd.Flags().Changed("name") {
		name = modelName
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), modelOpTimeout)
	defer cancel()

	store, err := learning.NewRedisStore(ctx, &redisCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(ctx, store, name)
}

func init() {
	modelCmd.AddCommand(modelPushCmd)
	modelCmd.AddCommand(modelPullCmd)
	modelCmd.AddCommand(modelDeleteCmd)

	modelCmd.PersistentFlags().StringVarP(&modelName, "name", "n", "", "Model name in Redis (overrides config)")
	modelCmd.PersistentFlags().StringVar(&modelRedisURL, "redis-url", "", "Redis URL (overrides config)")
	modelCmd.PersistentFlags().StringVarP(&modelSnapshot, "snapshot", "m", "", "Local model snapshot (overrides config)")
	modelCmd.PersistentFlags().DurationVar(&modelOpTimeout, "timeout", 30*time.Second, "Redis operation timeout")
}
