// Command docsyncd runs the document indexing worker: it consumes queued
// indexing jobs and keeps the relational and vector stores in sync.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/docsync-labs/docsync/internal/adapters/driven/config/file"
	"github.com/docsync-labs/docsync/internal/adapters/driven/enrichment/openai"
	"github.com/docsync-labs/docsync/internal/adapters/driven/progress/redispub"
	"github.com/docsync-labs/docsync/internal/adapters/driven/storage/sqlite"
	"github.com/docsync-labs/docsync/internal/adapters/driven/vector/qdrant"
	"github.com/docsync-labs/docsync/internal/adapters/driving/worker"
	"github.com/docsync-labs/docsync/internal/connectors"
	"github.com/docsync-labs/docsync/internal/connectors/upload"
	"github.com/docsync-labs/docsync/internal/core/services"
	"github.com/docsync-labs/docsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "docsyncd",
	Short: "Document indexing worker",
	Long: `docsyncd consumes indexing jobs from the Redis queue, fetches document
snapshots from configured sources, and indexes their content into the
vector store.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docsyncd %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docsync)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := configfile.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.SetVerbose(verbose || cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbeddingModel,
		Dimensions: cfg.OpenAI.Dimensions,
	})
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}
	defer embedder.Close()

	summaries, err := openai.NewSummaryService(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.SummaryModel,
	})
	if err != nil {
		return fmt.Errorf("creating summary service: %w", err)
	}
	defer summaries.Close()

	vectors, err := qdrant.NewStore(ctx, qdrant.Config{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		APIKey:     cfg.Qdrant.APIKey,
		UseTLS:     cfg.Qdrant.UseTLS,
		Collection: cfg.Qdrant.Collection,
		Dimensions: embedder.Dimensions(),
	})
	if err != nil {
		return fmt.Errorf("connecting vector store: %w", err)
	}
	defer vectors.Close()

	redisClient := redispub.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()

	connections := store.ConnectionStore()
	indexer := services.NewIndexer(
		connections,
		store.DocumentStore(),
		vectors,
		embedder,
		summaries,
		redispub.NewPublisher(redisClient),
		redispub.NewCancellation(redisClient),
		connectors.NewFactory(),
		upload.NewExpander(),
	)

	w := worker.New(indexer, redispub.NewQueue(redisClient), connections, cfg.Worker.PollTimeout())
	return w.Run(ctx)
}
