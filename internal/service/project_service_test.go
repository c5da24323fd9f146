package service

import (
	"context"
	"testing"
	"time"

	"github.com/modline/modtrack/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_Defaults(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects, nil, env.log)
	ctx := context.Background()

	p := &domain.Project{Name: "  Harbor Flats ", Number: "mb-2041", ContractValue: decimal.RequireFromString("990000")}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Harbor Flats", p.Name)
	assert.Equal(t, "MB-2041", p.Number)
	assert.Equal(t, domain.ProjectPlanning, p.Status)

	fetched, err := svc.Resolve(ctx, "mb-2041")
	require.NoError(t, err)
	assert.Equal(t, p.ID, fetched.ID)

	byID, err := svc.Resolve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "MB-2041", byID.Number)
}

func TestProjectService_Create_Validation(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects, []string{"Plant A", "Plant B"}, env.log)
	ctx := context.Background()

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		p     domain.Project
		field string
	}{
		{"missing name", domain.Project{Number: "AB-12"}, "name"},
		{"bad number", domain.Project{Name: "x", Number: "12345"}, "number"},
		{"unknown factory", domain.Project{Name: "x", Number: "AB-12", Factory: "Plant Z"}, "factory"},
		{"bad status", domain.Project{Name: "x", Number: "AB-12", Status: "Paused"}, "status"},
		{"offline before start", domain.Project{Name: "x", Number: "AB-12", StartDate: &late, TargetOfflineDate: &early}, "target_offline_date"},
		{"negative modules", domain.Project{Name: "x", Number: "AB-12", ModuleCount: -1}, "module_count"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.p
			err := svc.Create(ctx, &p)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "validation failures must not reach the store")
}

func TestProjectService_Create_FactoryCaseFolded(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects, []string{"Plant A"}, env.log)

	p := &domain.Project{Name: "x", Number: "AB-12", Factory: "plant a"}
	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, "Plant A", p.Factory)
}

func TestProjectService_Create_DuplicateNumber(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects, nil, env.log)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &domain.Project{Name: "First", Number: "AB-12"}))
	err := svc.Create(ctx, &domain.Project{Name: "Second", Number: "ab-12"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestProjectService_CancelKeepsRow(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects, nil, env.log)
	ctx := context.Background()

	p := &domain.Project{Name: "Gone", Number: "GO-01", Status: domain.ProjectActive}
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Cancel(ctx, p.ID))

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCancelled, fetched.Status)

	assert.ErrorIs(t, svc.Cancel(ctx, "missing"), domain.ErrNotFound)
}

func TestProjectService_Update(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects, nil, env.log)
	ctx := context.Background()

	a := &domain.Project{Name: "A", Number: "AA-01"}
	b := &domain.Project{Name: "B", Number: "BB-01"}
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	b.Number = "AA-01"
	assert.True(t, domain.IsValidation(svc.Update(ctx, b)))

	b.Number = "BB-02"
	b.Status = domain.ProjectCompleted
	require.NoError(t, svc.Update(ctx, b))

	fetched, err := svc.GetByNumber(ctx, "BB-02")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, fetched.Status)
}
