package service

import (
	"bus_booking/repository"
	"context"
	"log/slog"
)

const sweepBatchSize = 100

// RefundReconciler retries refunds owed for payments that lost the race
// against hold expiry.
type RefundReconciler interface {
	ReconcileRefunds(ctx context.Context) (int, error)
}

// Sweeper reclaims seats of holds whose deadline has passed. Runs may
// overlap: each hold is released under its own row lock and a second
// release of the same hold does nothing.
type Sweeper struct {
	stores  repository.Stores
	manager *ReservationManager
	refunds RefundReconciler
	batch   int
}

func NewSweeper(stores repository.Stores, manager *ReservationManager, refunds RefundReconciler) *Sweeper {
	return &Sweeper{stores: stores, manager: manager, refunds: refunds, batch: sweepBatchSize}
}

type SweepResult struct {
	Released int `json:"released"`
	Failed   int `json:"failed"`
	Refunded int `json:"refunded"`
}

func (s *Sweeper) SweepOnce(ctx context.Context) (SweepResult, error) {
	var (
		result SweepResult
		cursor *repository.HoldCursor
	)
	now := s.manager.Clock().Now()

	// Holds that fail to release stay behind the cursor, so they cannot
	// starve the ones after them.
	for {
		holds, err := s.stores.Holds().ListExpiredHolds(ctx, now, cursor, s.batch)
		if err != nil {
			return result, err
		}
		for _, h := range holds {
			if err := s.manager.ReleaseExpired(ctx, h.ID); err != nil {
				result.Failed++
				slog.Error("release expired hold failed", "hold_id", h.ID, "error", err)
				continue
			}
			result.Released++
		}
		if len(holds) < s.batch || ctx.Err() != nil {
			break
		}
		last := holds[len(holds)-1]
		cursor = &repository.HoldCursor{ExpiresAt: last.ExpiresAt, ID: last.ID}
	}

	if s.refunds != nil {
		n, err := s.refunds.ReconcileRefunds(ctx)
		result.Refunded = n
		if err != nil {
			slog.Error("refund reconciliation failed", "error", err)
		}
	}

	if result.Released > 0 || result.Failed > 0 || result.Refunded > 0 {
		slog.Info("sweep finished", "released", result.Released, "failed", result.Failed, "refunded", result.Refunded)
	}
	return result, nil
}
