package bookkeeping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

// CreateExpense validates the record shape for its origin, resolves its
// references and stores it.
func (s *Service) CreateExpense(ctx context.Context, rec models.ExpenseRecord) (models.Expense, error) {
	rec.ID = 0
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = models.PaymentOpen
	}
	e, err := s.checkExpense(ctx, rec)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("store expense: %w", err)
	}
	s.logger.Info("expense registered",
		zap.Int64("expense_id", stored.Common().ID),
		zap.String("origin", string(stored.Origin())),
		zap.String("amount", stored.Common().Amount.String()))
	return stored, nil
}

// UpdateExpense replaces an existing expense. The origin cannot change.
func (s *Service) UpdateExpense(ctx context.Context, id int64, rec models.ExpenseRecord) (models.Expense, error) {
	current, err := s.store.FindExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Origin != current.Origin() {
		return nil, &models.ValidationError{Field: "origin", Reason: "cannot change from " + string(current.Origin())}
	}
	rec.ID = id
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = current.Common().PaymentStatus
	}

	e, err := s.checkExpense(ctx, rec)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense %d: %w", id, err)
	}
	s.logger.Info("expense updated", zap.Int64("expense_id", id))
	return e, nil
}

func (s *Service) checkExpense(ctx context.Context, rec models.ExpenseRecord) (models.Expense, error) {
	e, err := rec.ToExpense()
	if err != nil {
		return nil, err
	}
	if c, ok := e.(models.CommissionExpense); ok {
		c, err = s.commissionAmount(ctx, c)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if cost, _ := models.Cost(e); cost.AircraftID != nil {
		if _, err := s.store.FindAircraft(ctx, *cost.AircraftID); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// BulkUpdateExpenses sets one field on a set of expenses. Only the payment
// status can be bulk updated.
func (s *Service) BulkUpdateExpenses(ctx context.Context, ids []int64, field, value string) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.ValidationError{Field: "ids", Reason: "must not be empty"}
	}
	if field != repository.FieldPaymentStatus {
		return 0, &models.ValidationError{Field: "field", Reason: "only " + repository.FieldPaymentStatus + " can be bulk updated"}
	}
	switch models.PaymentStatus(value) {
	case models.PaymentPaid, models.PaymentOpen:
	default:
		return 0, &models.ValidationError{Field: "value", Reason: fmt.Sprintf("payment status must be %q or %q", models.PaymentPaid, models.PaymentOpen)}
	}

	n, err := s.store.UpdateExpenseFields(ctx, ids, field, value)
	if err != nil {
		return 0, fmt.Errorf("bulk update expenses: %w", err)
	}
	s.logger.Info("expenses bulk updated", zap.Int64s("ids", ids), zap.String("field", field), zap.Int64("matched", n))
	return n, nil
}

// DeleteExpenses removes expenses by id.
func (s *Service) DeleteExpenses(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.ValidationError{Field: "ids", Reason: "must not be empty"}
	}
	n, err := s.store.DeleteExpenses(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}
	s.logger.Info("expenses deleted", zap.Int64s("ids", ids), zap.Int64("deleted", n))
	return n, nil
}

// commissionAmount fills in the amount of a directly entered commission from
// its service's total price when the caller left it at zero.
func (s *Service) commissionAmount(ctx context.Context, c models.CommissionExpense) (models.CommissionExpense, error) {
	svc, err := s.store.FindService(ctx, c.ServiceID)
	if err != nil {
		return c, err
	}
	if _, err := s.store.FindEmployee(ctx, c.EmployeeID); err != nil {
		return c, err
	}
	if c.Amount.IsZero() {
		c.Amount = finance.CommissionAmount(c.Percentage, svc.TotalPrice)
	}
	return c, nil
}
