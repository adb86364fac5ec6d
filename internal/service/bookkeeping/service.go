// Package bookkeeping owns the write paths for services and expenses. Every
// write that touches a service's inputs re-derives its financial fields and
// its commission expenses from the same snapshot.
package bookkeeping

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

// Store is the storage the write paths need.
type Store interface {
	repository.AircraftStore
	repository.EmployeeStore
	repository.ServiceStore
	repository.ExpenseStore
}

// Service validates, derives and persists services and expenses.
type Service struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires a new bookkeeping service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, now: time.Now, logger: logger}
}

// ServiceResult is a stored service with the commission expenses it owns.
type ServiceResult struct {
	Service     models.Service             `json:"service"`
	Commissions []models.CommissionExpense `json:"-"`
}

// CreateService validates the draft, resolves its references, derives the
// financial fields and stores the service together with its commissions.
func (s *Service) CreateService(ctx context.Context, draft models.ServiceDraft) (ServiceResult, error) {
	svc, err := s.prepare(ctx, draft)
	if err != nil {
		return ServiceResult{}, err
	}
	svc.CreatedAt = s.now().UTC()

	commissions := finance.MintCommissions(svc, paymentStatusOr(draft.PilotPaymentStatus), paymentStatusOr(draft.SecondaryPaymentStatus))
	stored, storedCommissions, err := s.store.CreateService(ctx, svc, commissions)
	if err != nil {
		return ServiceResult{}, fmt.Errorf("store service: %w", err)
	}

	s.logger.Info("service registered",
		zap.Int64("service_id", stored.ID),
		zap.Int64("aircraft_id", stored.AircraftID),
		zap.String("total_price", stored.TotalPrice.String()),
		zap.Int("commissions", len(storedCommissions)))
	return ServiceResult{Service: stored, Commissions: storedCommissions}, nil
}

// UpdateService replaces the editable fields of a service, re-derives its
// financials and rebuilds its commissions. Commission payment statuses carry
// over per employee unless the draft sets them.
func (s *Service) UpdateService(ctx context.Context, id int64, draft models.ServiceDraft) (ServiceResult, error) {
	current, err := s.store.FindService(ctx, id)
	if err != nil {
		return ServiceResult{}, err
	}

	svc, err := s.prepare(ctx, draft)
	if err != nil {
		return ServiceResult{}, err
	}
	svc.ID = current.ID
	svc.CreatedAt = current.CreatedAt
	if draft.CreatedBy == 0 {
		svc.CreatedBy = current.CreatedBy
	}

	previous, err := s.store.ListExpenses(ctx, repository.ExpenseQuery{Origin: models.OriginCommission, ServiceIDs: []int64{id}})
	if err != nil {
		return ServiceResult{}, fmt.Errorf("load commissions of service %d: %w", id, err)
	}
	statuses := make(map[int64]models.PaymentStatus, len(previous))
	for _, e := range previous {
		if c, ok := e.(models.CommissionExpense); ok {
			statuses[c.EmployeeID] = c.PaymentStatus
		}
	}
	carry := func(explicit models.PaymentStatus, employeeID *int64) models.PaymentStatus {
		if explicit != "" || employeeID == nil {
			return paymentStatusOr(explicit)
		}
		return paymentStatusOr(statuses[*employeeID])
	}

	pilotID := svc.PilotID
	commissions := finance.MintCommissions(svc,
		carry(draft.PilotPaymentStatus, &pilotID),
		carry(draft.SecondaryPaymentStatus, svc.SecondaryEmployeeID))
	storedCommissions, err := s.store.UpdateService(ctx, svc, commissions)
	if err != nil {
		return ServiceResult{}, fmt.Errorf("update service %d: %w", id, err)
	}

	s.logger.Info("service updated", zap.Int64("service_id", id), zap.Int("commissions", len(storedCommissions)))
	return ServiceResult{Service: svc, Commissions: storedCommissions}, nil
}

// DeleteServices removes services and, through the store, their expenses.
func (s *Service) DeleteServices(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.ValidationError{Field: "ids", Reason: "must not be empty"}
	}
	n, err := s.store.DeleteServices(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete services: %w", err)
	}
	s.logger.Info("services deleted", zap.Int64s("ids", ids), zap.Int64("deleted", n))
	return n, nil
}

// prepare turns a draft into a service with derived financials after
// checking every reference it makes.
func (s *Service) prepare(ctx context.Context, draft models.ServiceDraft) (models.Service, error) {
	hours, err := finance.ParseFlightTime(string(draft.FlightTime))
	if err != nil {
		return models.Service{}, err
	}

	svc := models.Service{
		StartDate:               draft.StartDate.Time,
		EndDate:                 draft.EndDate.Time,
		Requester:               draft.Requester,
		AreaName:                draft.AreaName,
		Hectares:                draft.Hectares,
		ApplicationType:         draft.ApplicationType,
		FlowRateType:            draft.FlowRateType,
		HopperQuantityPerFlight: draft.HopperQuantityPerFlight,
		Flights:                 draft.Flights,
		TotalPrice:              draft.TotalPrice,
		FlightHours:             hours,
		PaymentStatus:           paymentStatusOr(draft.PaymentStatus),
		AircraftID:              draft.AircraftID,
		PilotID:                 draft.PilotID,
		SecondaryEmployeeID:     draft.SecondaryEmployeeID,
		PilotCommissionPct:      draft.PilotCommissionPct,
		SecondaryCommissionPct:  draft.SecondaryCommissionPct,
		CreatedBy:               draft.CreatedBy,
	}
	if svc.ApplicationType == "" {
		svc.ApplicationType = models.ApplicationNone
	}
	if svc.EndDate.IsZero() {
		svc.EndDate = svc.StartDate
	}
	if err := validateShape(svc); err != nil {
		return models.Service{}, err
	}

	svc.Financials, err = finance.DeriveServiceFinancials(finance.InputsOf(svc))
	if err != nil {
		return models.Service{}, err
	}

	if err := s.resolveReferences(ctx, svc); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

func validateShape(svc models.Service) error {
	switch {
	case svc.StartDate.IsZero():
		return &models.ValidationError{Field: "start_date", Reason: "must be provided"}
	case svc.EndDate.Before(svc.StartDate):
		return &models.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	case svc.AircraftID == 0:
		return &models.ValidationError{Field: "aircraft_id", Reason: "must be provided"}
	case svc.PilotID == 0:
		return &models.ValidationError{Field: "pilot_id", Reason: "must be provided"}
	case svc.Flights < 0:
		return &models.ValidationError{Field: "flights", Reason: "must not be negative"}
	case svc.SecondaryEmployeeID == nil && !svc.SecondaryCommissionPct.IsZero():
		return &models.ValidationError{Field: "secondary_commission_pct", Reason: "requires secondary_employee_id"}
	}
	switch svc.ApplicationType {
	case models.ApplicationSeed, models.ApplicationLiquid, models.ApplicationNone:
	default:
		return &models.ValidationError{Field: "application_type", Reason: "unknown application type " + string(svc.ApplicationType)}
	}
	return nil
}

func (s *Service) resolveReferences(ctx context.Context, svc models.Service) error {
	if _, err := s.store.FindAircraft(ctx, svc.AircraftID); err != nil {
		return err
	}
	pilot, err := s.store.FindEmployee(ctx, svc.PilotID)
	if err != nil {
		return err
	}
	if pilot.Role != models.RolePilot {
		return &models.ValidationError{Field: "pilot_id", Reason: fmt.Sprintf("employee %d is %s, not %s", pilot.ID, pilot.Role, models.RolePilot)}
	}
	if svc.SecondaryEmployeeID != nil {
		if _, err := s.store.FindEmployee(ctx, *svc.SecondaryEmployeeID); err != nil {
			return err
		}
	}
	return nil
}

func paymentStatusOr(status models.PaymentStatus) models.PaymentStatus {
	if status == "" {
		return models.PaymentOpen
	}
	return status
}
