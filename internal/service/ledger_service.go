package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/moneymates/internal/calculator"
	"github.com/mmynk/moneymates/internal/metrics"
	"github.com/mmynk/moneymates/internal/models"
	"github.com/mmynk/moneymates/internal/realtime"
)

// LedgerService manages the shared transaction ledger.
type LedgerService struct {
	*core
}

// AddTransactionResult reports a saved transaction. The transaction is
// committed even when GoalErr is set.
type AddTransactionResult struct {
	Transaction *models.Transaction `json:"transaction"`

	// GoalErr is the failure of the goal contribution that follows the
	// transaction, if any.
	GoalErr error `json:"-"`
}

// Summary is the lifetime savings overview.
type Summary struct {
	Totals   models.PerProfile `json:"totals"`
	Combined decimal.Decimal   `json:"combined"`
}

// Add records a contribution by actor. When the input links a goal, the
// goal is incremented afterwards; that step is best effort and its failure
// is reported in the result rather than undoing the transaction.
func (s *LedgerService) Add(ctx context.Context, actor string, in models.NewTransaction) (*AddTransactionResult, error) {
	slog.Info("AddTransaction request received",
		"profile_id", actor,
		"amount", in.Amount,
		"goal_id", in.GoalID,
	)

	if !models.IsProfileID(actor) {
		return nil, calculator.ErrUnknownProfile
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if in.Date != "" {
		date, err = calculator.ParseDate(in.Date, s.opts.Location)
		if err != nil {
			return nil, err
		}
	}

	tx := &models.Transaction{
		ProfileID: actor,
		Amount:    amount,
		Date:      date.Format(calculator.DateLayout),
		Period:    calculator.PeriodLabel(date),
		Note:      strings.TrimSpace(in.Note),
		GoalID:    in.GoalID,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.Error("AddTransaction failed", "profile_id", actor, "error", err)
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	metrics.TransactionsCreated.WithLabelValues(actor).Inc()
	slog.Info("Transaction created", "transaction_id", tx.ID, "period", tx.Period)

	result := &AddTransactionResult{Transaction: tx}
	topics := []realtime.Topic{realtime.TopicTransactions, realtime.TopicStats}
	if tx.GoalID != "" {
		if err := s.store.IncrementGoal(ctx, tx.GoalID, amount); err != nil {
			slog.Warn("Goal contribution failed", "transaction_id", tx.ID, "goal_id", tx.GoalID, "error", err)
			result.GoalErr = fmt.Errorf("transaction saved but goal contribution failed: %w", err)
		} else {
			topics = append(topics, realtime.TopicGoals)
		}
	}

	s.feed.publish(ctx, topics...)
	return result, nil
}

// List returns the whole ledger, newest date first.
func (s *LedgerService) List(ctx context.Context) ([]models.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		slog.Error("ListTransactions failed", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Delete removes one of actor's own transactions. Goal amounts are not
// adjusted.
func (s *LedgerService) Delete(ctx context.Context, actor, id string) error {
	slog.Info("DeleteTransaction request received", "profile_id", actor, "transaction_id", id)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if tx.ProfileID != actor {
		return ErrNotOwner
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", id, "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.feed.publish(ctx, realtime.TopicTransactions, realtime.TopicStats)
	return nil
}

// Summary returns lifetime totals per profile and combined.
func (s *LedgerService) Summary(ctx context.Context) (*Summary, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	totals := calculator.Totals(txs)
	return &Summary{Totals: totals, Combined: totals.Total()}, nil
}

// Monthly returns the per-month savings breakdown, oldest first.
func (s *LedgerService) Monthly(ctx context.Context) ([]calculator.MonthTotal, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.MonthlyBreakdown(txs), nil
}
