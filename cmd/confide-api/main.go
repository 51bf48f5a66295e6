package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/confideai/confide-agent/internal/adapters/http"
	"github.com/confideai/confide-agent/internal/adapters/llm"
	memstore "github.com/confideai/confide-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/confideai/confide-agent/internal/adapters/storage/sqlite"
	"github.com/confideai/confide-agent/internal/app/conversation"
	"github.com/confideai/confide-agent/internal/app/gateway"
	"github.com/confideai/confide-agent/internal/app/journal"
	"github.com/confideai/confide-agent/internal/config"
	"github.com/confideai/confide-agent/internal/domain"
	"github.com/confideai/confide-agent/internal/observability"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "confide-api",
	Short:        "Emotional support companion API: chat, session threading, and guided journaling",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	observability.Init(cfg.LogLevel)
	log := observability.Logger()

	llmClient, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("llm provider ready", "provider", cfg.Provider)

	var (
		messages domain.MessageStore
		entries  domain.JournalStore
		drafts   domain.DraftStore
	)
	switch cfg.StorageBackend {
	case "sqlite":
		store, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("init sqlite store: %w", err)
		}
		defer store.Close()
		messages, entries, drafts = store, store, store
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
	default:
		messages = memstore.NewMessageStore()
		entries = memstore.NewJournalStore()
		drafts = memstore.NewDraftStore()
		log.Info("using in-memory storage")
	}

	gw := gateway.New(llmClient)
	convSvc := conversation.NewService(gw, messages)
	journalMgr := journal.NewManager(gw, entries, drafts)

	if resumed, err := journalMgr.Resume(ctx); err != nil {
		log.Warn("could not resume journal draft", "error", err)
	} else if resumed {
		log.Info("resumed in-progress journal draft")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpadapter.NewServer(convSvc, journalMgr, gw),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "vertex":
		return llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)
	default:
		return llm.NewMockLLM(), nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
