package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raushankrgupta/threadline/config"
	"github.com/raushankrgupta/threadline/storage"
	"github.com/raushankrgupta/threadline/utils"
)

var (
	backend    string
	sqlitePath string
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "threadline-admin",
	Short: "Maintenance tasks for the threadline wardrobe backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = utils.NewLogger(config.LogLevel)
	},
	SilenceUsage: true,
}

func init() {
	config.LoadConfig()
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.StorageBackend, "Storage backend: mongo or sqlite")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", config.SQLitePath, "SQLite database file")
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(historyCmd)
}

// openStore connects to the configured backend.
func openStore(ctx context.Context) (storage.Store, error) {
	switch backend {
	case config.BackendSQLite:
		return storage.NewSQLStore(sqlitePath)
	case config.BackendMongo:
		if err := utils.ConnectMongo(ctx, config.MongoURI, logger); err != nil {
			return nil, err
		}
		store := storage.NewMongoStore(config.DBName, logger)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
