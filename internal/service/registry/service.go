// Package registry manages the reference data services and expenses point at:
// aircraft, employees and harvest seasons.
package registry

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/repository"
)

// Store is the storage the registry needs.
type Store interface {
	repository.AircraftStore
	repository.EmployeeStore
	repository.SafraStore
}

// Service validates and persists reference data.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a new registry service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

func normalizeAircraft(a models.Aircraft) (models.Aircraft, error) {
	a.Registration = strings.ToUpper(strings.TrimSpace(a.Registration))
	a.Brand = strings.TrimSpace(a.Brand)
	a.Model = strings.TrimSpace(a.Model)
	if a.Registration == "" {
		return a, &models.ValidationError{Field: "registration", Reason: "must be provided"}
	}
	return a, nil
}

// RegisterAircraft stores a new aircraft. Registrations are unique.
func (s *Service) RegisterAircraft(ctx context.Context, a models.Aircraft) (models.Aircraft, error) {
	a, err := normalizeAircraft(a)
	if err != nil {
		return models.Aircraft{}, err
	}
	a.ID = 0
	stored, err := s.store.CreateAircraft(ctx, a)
	if err != nil {
		return models.Aircraft{}, fmt.Errorf("register aircraft: %w", err)
	}
	s.logger.Info("aircraft registered", zap.Int64("aircraft_id", stored.ID), zap.String("registration", stored.Registration))
	return stored, nil
}

func (s *Service) Aircraft(ctx context.Context, id int64) (models.Aircraft, error) {
	return s.store.FindAircraft(ctx, id)
}

func (s *Service) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	return s.store.ListAircraft(ctx)
}

// UpdateAircraft corrects an aircraft's registration, brand or model.
func (s *Service) UpdateAircraft(ctx context.Context, id int64, a models.Aircraft) (models.Aircraft, error) {
	a, err := normalizeAircraft(a)
	if err != nil {
		return models.Aircraft{}, err
	}
	a.ID = id
	if err := s.store.UpdateAircraft(ctx, a); err != nil {
		return models.Aircraft{}, fmt.Errorf("update aircraft %d: %w", id, err)
	}
	return a, nil
}

// DeleteAircraft removes an aircraft no service or expense refers to.
func (s *Service) DeleteAircraft(ctx context.Context, id int64) error {
	if err := s.store.DeleteAircraft(ctx, id); err != nil {
		return fmt.Errorf("delete aircraft %d: %w", id, err)
	}
	s.logger.Info("aircraft deleted", zap.Int64("aircraft_id", id))
	return nil
}

func normalizeEmployee(e models.Employee) (models.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	switch {
	case e.Name == "":
		return e, &models.ValidationError{Field: "name", Reason: "must be provided"}
	case !e.Role.Valid():
		return e, &models.ValidationError{Field: "role", Reason: "unknown role " + string(e.Role)}
	}
	return e, nil
}

// RegisterEmployee stores a new employee. Names are unique.
func (s *Service) RegisterEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	e, err := normalizeEmployee(e)
	if err != nil {
		return models.Employee{}, err
	}
	e.ID = 0
	stored, err := s.store.CreateEmployee(ctx, e)
	if err != nil {
		return models.Employee{}, fmt.Errorf("register employee: %w", err)
	}
	s.logger.Info("employee registered", zap.Int64("employee_id", stored.ID), zap.String("role", string(stored.Role)))
	return stored, nil
}

func (s *Service) Employee(ctx context.Context, id int64) (models.Employee, error) {
	return s.store.FindEmployee(ctx, id)
}

// ListEmployees lists every employee, or only those holding role when it is
// not empty.
func (s *Service) ListEmployees(ctx context.Context, role models.EmployeeRole) ([]models.Employee, error) {
	if role == "" {
		return s.store.ListEmployees(ctx, nil)
	}
	if !role.Valid() {
		return nil, &models.ValidationError{Field: "role", Reason: "unknown role " + string(role)}
	}
	return s.store.ListEmployees(ctx, &role)
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, e models.Employee) (models.Employee, error) {
	e, err := normalizeEmployee(e)
	if err != nil {
		return models.Employee{}, err
	}
	e.ID = id
	if err := s.store.UpdateEmployee(ctx, e); err != nil {
		return models.Employee{}, fmt.Errorf("update employee %d: %w", id, err)
	}
	return e, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	s.logger.Info("employee deleted", zap.Int64("employee_id", id))
	return nil
}

func validateSafra(sf models.Safra) error {
	if strings.TrimSpace(sf.Label) == "" {
		return &models.ValidationError{Field: "label", Reason: "must be provided"}
	}
	return sf.Range().Validate()
}

func (s *Service) CreateSafra(ctx context.Context, sf models.Safra) (models.Safra, error) {
	if err := validateSafra(sf); err != nil {
		return models.Safra{}, err
	}
	sf.ID = 0
	stored, err := s.store.CreateSafra(ctx, sf)
	if err != nil {
		return models.Safra{}, fmt.Errorf("create safra: %w", err)
	}
	return stored, nil
}

func (s *Service) Safra(ctx context.Context, id int64) (models.Safra, error) {
	return s.store.FindSafra(ctx, id)
}

func (s *Service) ListSafras(ctx context.Context) ([]models.Safra, error) {
	return s.store.ListSafras(ctx)
}

func (s *Service) UpdateSafra(ctx context.Context, id int64, sf models.Safra) (models.Safra, error) {
	if err := validateSafra(sf); err != nil {
		return models.Safra{}, err
	}
	sf.ID = id
	if err := s.store.UpdateSafra(ctx, sf); err != nil {
		return models.Safra{}, fmt.Errorf("update safra %d: %w", id, err)
	}
	return sf, nil
}

func (s *Service) DeleteSafra(ctx context.Context, id int64) error {
	if err := s.store.DeleteSafra(ctx, id); err != nil {
		return fmt.Errorf("delete safra %d: %w", id, err)
	}
	return nil
}
