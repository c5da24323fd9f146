package service

import (
	"context"
	"testing"

	"github.com/modline/modtrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleService_CreateAndProgress(t *testing.T) {
	env := setupEnv(t)
	svc := NewModuleService(env.modules, env.projects)
	ctx := context.Background()
	p := env.project(t)

	m1 := &domain.Module{ProjectID: p.ID, Tag: " m-01 ", Type: "Box"}
	m2 := &domain.Module{ProjectID: p.ID, Tag: "M-02", Type: "Bathroom pod"}
	require.NoError(t, svc.Create(ctx, m1))
	require.NoError(t, svc.Create(ctx, m2))
	assert.Equal(t, "M-01", m1.Tag)
	assert.Equal(t, domain.ModuleDesign, m1.Status)

	updated, err := svc.UpdateStatus(ctx, m2.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleShipped, updated.Status)

	progress, err := svc.Progress(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, progress, len(domain.ModuleStatuses))
	assert.Equal(t, 1, progress[domain.ModuleDesign])
	assert.Equal(t, 1, progress[domain.ModuleShipped])
	assert.Equal(t, 0, progress[domain.ModuleSet])

	assert.True(t, domain.IsValidation(svc.Create(ctx, &domain.Module{ProjectID: p.ID})))
	_, err = svc.UpdateStatus(ctx, m1.ID, "Scrapped")
	assert.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, svc.Create(ctx, &domain.Module{ProjectID: "missing", Tag: "M-09"}), domain.ErrNotFound)
}

func TestQCService_FailPutsModuleOnHold(t *testing.T) {
	env := setupEnv(t)
	modules := NewModuleService(env.modules, env.projects)
	svc := NewQCService(env.qc, env.uow, env.log)
	ctx := context.Background()
	p := env.project(t)

	m := &domain.Module{ProjectID: p.ID, Tag: "M-01", Status: domain.ModuleInProduction}
	require.NoError(t, modules.Create(ctx, m))

	require.NoError(t, svc.Record(ctx, &domain.QCRecord{ModuleID: m.ID, Inspection: "Framing", Result: "pass"}))
	got, err := modules.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleInProduction, got.Status)

	rec := &domain.QCRecord{ModuleID: m.ID, Inspection: "Plumbing", Result: domain.QCFail, Notes: "leak at P-trap"}
	require.NoError(t, svc.Record(ctx, rec))
	assert.Equal(t, p.ID, rec.ProjectID)

	got, err = modules.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleQCHold, got.Status)
	assert.Equal(t, 1, env.logs.FilterMessage("module placed on qc hold").Len())

	byModule, err := svc.ListByModule(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, byModule, 2)
	byProject, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 2)
}

func TestQCService_Validation(t *testing.T) {
	env := setupEnv(t)
	svc := NewQCService(env.qc, env.uow, env.log)
	ctx := context.Background()

	assert.True(t, domain.IsValidation(svc.Record(ctx, &domain.QCRecord{ModuleID: "m", Inspection: "x", Result: "Maybe"})))
	assert.True(t, domain.IsValidation(svc.Record(ctx, &domain.QCRecord{ModuleID: "m", Result: domain.QCPass})))
	assert.ErrorIs(t, svc.Record(ctx, &domain.QCRecord{ModuleID: "missing", Inspection: "x", Result: domain.QCPass}), domain.ErrNotFound)
}

func TestModuleFloorPlanAndQCServices_ReportUseCases(t *testing.T) {
	env := setupEnv(t)
	obs := &recordingObserver{}
	modules := NewModuleService(env.modules, env.projects, obs)
	qc := NewQCService(env.qc, env.uow, env.log, obs)
	plans := NewFloorPlanService(env.plans, env.projects, env.store, env.log, obs)
	ctx := context.Background()
	p := env.project(t)

	m := &domain.Module{ProjectID: p.ID, Tag: "M-01"}
	require.NoError(t, modules.Create(ctx, m))
	_, err := modules.UpdateStatus(ctx, m.ID, domain.ModuleInProduction)
	require.NoError(t, err)
	require.NoError(t, qc.Record(ctx, &domain.QCRecord{ModuleID: m.ID, Inspection: "Framing", Result: domain.QCPass}))
	require.Error(t, qc.Record(ctx, &domain.QCRecord{ModuleID: "missing", Inspection: "Framing", Result: domain.QCPass}))

	plan, err := plans.Upload(ctx, p.ID, "Level 1", "L1", textFile("l1.pdf", "%PDF"))
	require.NoError(t, err)
	marker := &domain.Marker{FloorPlanID: plan.ID, X: 0.5, Y: 0.5, Label: "M-01"}
	require.NoError(t, plans.AddMarker(ctx, marker))
	require.NoError(t, plans.RemoveMarker(ctx, marker.ID))
	require.NoError(t, plans.Deactivate(ctx, plan.ID))

	assert.Equal(t, []string{
		"module.create", "module.status", "qc.record", "qc.record",
		"floor_plan.upload", "floor_plan.add_marker", "floor_plan.remove_marker", "floor_plan.deactivate",
	}, obs.names())
	assert.True(t, obs.events[2].Success)
	assert.False(t, obs.events[3].Success)
	assert.ErrorIs(t, obs.events[3].Err, domain.ErrNotFound)
}
