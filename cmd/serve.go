package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arraypress/edd-register-recount-tools/internal/batch"
	"github.com/arraypress/edd-register-recount-tools/internal/logger"
	"github.com/arraypress/edd-register-recount-tools/internal/recount/builtin"
	"github.com/arraypress/edd-register-recount-tools/internal/server"
	"github.com/arraypress/edd-register-recount-tools/internal/store"
)

var seedOrders int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the batch-export host with the built-in recount tools",
	Long: `Starts the HTTP surface the admin UI talks to: the tool options and
descriptions hooks and the per-step batch endpoint.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&seedOrders, "seed", 0, "insert N demo orders into the store before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	ctx := cmd.Context()

	if seedOrders > 0 {
		if err := seedDemoOrders(ctx, st, seedOrders); err != nil {
			return fmt.Errorf("failed to seed orders: %w", err)
		}
		logger.Info("seeded demo orders", "count", seedOrders)
	}

	registry := newRegistry()
	if err := registry.Register(builtin.Definitions(st)); err != nil {
		return fmt.Errorf("failed to register built-in tools: %w", err)
	}

	factory := batch.NewFactory()

	return server.NewServer(cfg, registry, factory).Start(ctx)
}

func seedDemoOrders(ctx context.Context, st store.Store, n int) error {
	orders := make([]store.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, store.Order{
			ID:         fmt.Sprintf("demo-order-%06d", i),
			CustomerID: fmt.Sprintf("demo-customer-%03d", i%100),
			Total:      float64(5+i%40) + 0.99,
			Status:     "complete",
			CreatedAt:  time.Now().UTC(),
		})
	}
	return st.InsertOrders(ctx, orders)
}
