package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aeroagri/internal/config"
	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

type fakeSnapshotter struct {
	label string
	rng   models.DateRange
	err   error
}

func (f *fakeSnapshotter) Snapshot(_ context.Context, label string, r models.DateRange) (models.ReportSnapshot, error) {
	f.label, f.rng = label, r
	if f.err != nil {
		return models.ReportSnapshot{}, f.err
	}
	return models.ReportSnapshot{Label: label, PeriodStart: r.Start, PeriodEnd: r.End}, nil
}

type fakeSink struct {
	got []models.ReportSnapshot
	err error
}

func (f *fakeSink) Export(_ context.Context, snap models.ReportSnapshot) error {
	f.got = append(f.got, snap)
	return f.err
}

func (f *fakeSink) NotifySnapshot(_ context.Context, snap models.ReportSnapshot) error {
	f.got = append(f.got, snap)
	return f.err
}

func newTestScheduler(t *testing.T, reports Snapshotter, exporter Exporter, notifier Notifier) *Scheduler {
	t.Helper()
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"}, reports, exporter, notifier, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, time.March, 15, 20, 0, 0, 0, time.UTC) }
	return s
}

func TestRunReportCoversMonthToDate(t *testing.T) {
	reports := &fakeSnapshotter{}
	exporter, notifier := &fakeSink{}, &fakeSink{}
	s := newTestScheduler(t, reports, exporter, notifier)

	require.NoError(t, s.RunReport(context.Background()))

	assert.Equal(t, "Balanço parcial até 15/03/2024", reports.label)
	assert.True(t, reports.rng.Start.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, reports.rng.Contains(time.Date(2024, time.March, 15, 23, 0, 0, 0, time.UTC)))
	assert.False(t, reports.rng.Contains(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)))
	assert.Len(t, exporter.got, 1)
	assert.Len(t, notifier.got, 1)
}

func TestRunReportWithoutIntegrations(t *testing.T) {
	s := newTestScheduler(t, &fakeSnapshotter{}, nil, nil)
	assert.NoError(t, s.RunReport(context.Background()))
}

func TestRunReportKeepsNotifyingWhenExportFails(t *testing.T) {
	exportErr := errors.New("sheets down")
	exporter, notifier := &fakeSink{err: exportErr}, &fakeSink{}
	s := newTestScheduler(t, &fakeSnapshotter{}, exporter, notifier)

	err := s.RunReport(context.Background())
	assert.ErrorIs(t, err, exportErr)
	assert.Len(t, notifier.got, 1)
}

func TestRunReportStopsWhenSnapshotFails(t *testing.T) {
	notifier := &fakeSink{}
	s := newTestScheduler(t, &fakeSnapshotter{err: errors.New("store down")}, nil, notifier)

	assert.Error(t, s.RunReport(context.Background()))
	assert.Empty(t, notifier.got)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every friday", Timezone: "UTC"}, &fakeSnapshotter{}, nil, nil, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "Mars/Olympus"}, &fakeSnapshotter{}, nil, nil, nil)
	assert.Error(t, err)
}
