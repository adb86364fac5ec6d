package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/repository/memory"
)

func TestRegisterAircraftRejectsDuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(), nil)

	a, err := svc.RegisterAircraft(ctx, models.Aircraft{Registration: " pr-abc ", Brand: "Cessna", Model: "188"})
	require.NoError(t, err)
	assert.Equal(t, "PR-ABC", a.Registration)

	_, err = svc.RegisterAircraft(ctx, models.Aircraft{Registration: "PR-ABC", Brand: "Embraer", Model: "Ipanema"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.RegisterAircraft(ctx, models.Aircraft{Brand: "Embraer"})
	assert.ErrorIs(t, err, models.ErrValidation)

	list, err := svc.ListAircraft(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	updated, err := svc.UpdateAircraft(ctx, a.ID, models.Aircraft{Registration: "PR-ABD", Brand: "Cessna", Model: "188"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)

	require.NoError(t, svc.DeleteAircraft(ctx, a.ID))
	_, err = svc.Aircraft(ctx, a.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEmployees(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(), nil)

	_, err := svc.RegisterEmployee(ctx, models.Employee{Name: "Ana", Role: models.RolePilot})
	require.NoError(t, err)
	_, err = svc.RegisterEmployee(ctx, models.Employee{Name: "Beto", Role: models.RoleMechanic})
	require.NoError(t, err)

	_, err = svc.RegisterEmployee(ctx, models.Employee{Name: "Ana ", Role: models.RoleOther})
	assert.ErrorIs(t, err, models.ErrConflict)
	_, err = svc.RegisterEmployee(ctx, models.Employee{Name: "Caio", Role: "Astronauta"})
	assert.ErrorIs(t, err, models.ErrValidation)

	pilots, err := svc.ListEmployees(ctx, models.RolePilot)
	require.NoError(t, err)
	require.Len(t, pilots, 1)
	assert.Equal(t, "Ana", pilots[0].Name)

	all, err := svc.ListEmployees(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListEmployees(ctx, "Chefe")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSafras(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(), nil)
	start := models.Date{Time: time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)}
	end := models.Date{Time: time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC)}

	sf, err := svc.CreateSafra(ctx, models.Safra{Label: "2023/24", StartDate: start, EndDate: end})
	require.NoError(t, err)

	_, err = svc.CreateSafra(ctx, models.Safra{Label: "invertida", StartDate: end, EndDate: start})
	assert.ErrorIs(t, err, models.ErrValidation)

	sf.Label = "Safra 2023/24"
	_, err = svc.UpdateSafra(ctx, sf.ID, sf)
	require.NoError(t, err)

	got, err := svc.Safra(ctx, sf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Safra 2023/24", got.Label)

	require.NoError(t, svc.DeleteSafra(ctx, sf.ID))
	list, err := svc.ListSafras(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, svc.DeleteSafra(ctx, sf.ID), models.ErrNotFound)
}
