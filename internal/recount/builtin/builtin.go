// Package builtin holds the recount tools the platform ships. Third-party
// tools register through the same Definitions map shape.
package builtin

import (
	"context"

	"github.com/arraypress/edd-register-recount-tools/internal/recount"
	"github.com/arraypress/edd-register-recount-tools/internal/store"
)

// Definitions returns the built-in callback-pair tools bound to a store.
func Definitions(s store.Store) map[string]recount.Definition {
	return map[string]recount.Definition{
		"recount-store-earnings": {
			Label:       "Recount Store Earnings",
			Description: "Recalculates total store earnings from the order ledger.",
			Callback:    recountOrders(s),
			Count:       countOrders(s),
		},
		"recount-order-stats": {
			Label:       "Recount Order Stats",
			Description: "Rebuilds per-order statistics for completed orders.",
			BatchSize:   50,
			Callback:    recountOrders(s),
			Count:       countOrders(s),
		},
	}
}

func countOrders(s store.Store) recount.CountFunc {
	return func(ctx context.Context) (int64, error) {
		return s.CountOrders(ctx)
	}
}

func recountOrders(s store.Store) recount.BatchFunc {
	return func(ctx context.Context, offset, limit int64) ([]string, error) {
		orders, err := s.OrderPage(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, nil
		}

		ids := make([]string, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}

		if err := s.ApplyRecount(ctx, ids); err != nil {
			return nil, err
		}
		return ids, nil
	}
}
