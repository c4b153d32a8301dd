package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mongovault/internal/types"
)

func weeklySchedule(connID uuid.UUID) *types.Schedule {
	return &types.Schedule{
		ID:             uuid.New(),
		UserID:         testUser.ID,
		OrganizationID: testUser.OrganizationID,
		ConnectionID:   connID,
		Database:       "shop",
		StorageKind:    types.StorageKindFS,
		Days:           []int{1}, // Monday
		Times:          []string{"09:00"},
		RetentionDays:  7,
		Enabled:        true,
	}
}

type scannerFixture struct {
	scheduleRepo *fakeScheduleRepo
	runLogRepo   *fakeRunLogRepo
	connRepo     *fakeConnectionRepo
	scanner      ScannerService
}

func newScannerFixture(t *testing.T, now time.Time, schedules ...*types.Schedule) *scannerFixture {
	t.Helper()

	f := &scannerFixture{
		scheduleRepo: newFakeScheduleRepo(schedules...),
		runLogRepo:   newFakeRunLogRepo(),
		connRepo:     newFakeConnectionRepo(),
	}

	srcFactory := &fakeSourceFactory{src: &fakeSource{
		collections: map[string][]map[string]any{
			"users": {{"_id": "1"}},
		},
	}}
	connections := NewConnectionService(f.connRepo, fakeEncryptor{}, allowAllAuthorizer{})
	executor := NewExecutorService(f.scheduleRepo, f.runLogRepo, connections,
		srcFactory, &fakeStorageFactory{st: newFakeStorage()}, &fakeNotifier{}, fixedNow(now))
	f.scanner = NewScannerService(f.scheduleRepo, f.runLogRepo, executor)
	return f
}

func (f *scannerFixture) addConnection(id uuid.UUID) {
	f.connRepo.connections[id] = &types.Connection{
		ID:             id,
		UserID:         testUser.ID,
		OrganizationID: testUser.OrganizationID,
		EncryptedURI:   "enc:mongodb://localhost:27017",
	}
}

func TestScanDueFiltersSchedules(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 30, 0, time.UTC) // Monday 09:00 window

	due := weeklySchedule(uuid.New())
	wrongTime := weeklySchedule(uuid.New())
	wrongTime.Times = []string{"17:00"}
	disabled := weeklySchedule(uuid.New())
	disabled.Enabled = false
	badTimezone := weeklySchedule(uuid.New())
	badTimezone.Timezone = "Mars/Olympus"

	f := newScannerFixture(t, now, due, wrongTime, disabled, badTimezone)

	got, err := f.scanner.ScanDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestScanDueSkipsScheduleAlreadyRunInWindow(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 30, 0, time.UTC)
	schedule := weeklySchedule(uuid.New())
	f := newScannerFixture(t, now, schedule)

	require.NoError(t, f.runLogRepo.Save(context.Background(), &types.RunLogEntry{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		Status:     types.RunStatusRunning,
		StartedAt:  now.Truncate(time.Minute).Add(10 * time.Second),
	}))

	got, err := f.scanner.ScanDue(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunDueIsIdempotentWithinWindow(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 10, 0, time.UTC)
	schedule := weeklySchedule(uuid.New())
	f := newScannerFixture(t, now, schedule)
	f.addConnection(schedule.ConnectionID)

	first, err := f.scanner.RunDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, types.ScanSummary{Executed: 1, Failed: 0, Total: 1}, first)

	// A second overlapping pass inside the same minute sees the recorded
	// run and executes nothing.
	second, err := f.scanner.RunDue(context.Background(), now.Add(40*time.Second))
	require.NoError(t, err)
	assert.Equal(t, types.ScanSummary{}, second)

	entries, total, err := f.runLogRepo.Query(context.Background(), types.RunQuery{ScheduleID: schedule.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, types.RunStatusSuccess, entries[0].Status)
}

func TestRunDueCountsSuccessesAndFailures(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	healthy := weeklySchedule(uuid.New())
	orphaned := weeklySchedule(uuid.New()) // its connection never registered

	f := newScannerFixture(t, now, healthy, orphaned)
	f.addConnection(healthy.ConnectionID)

	summary, err := f.scanner.RunDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, types.ScanSummary{Executed: 1, Failed: 1, Total: 2}, summary)

	failed := f.runLogRepo.byStatus(types.RunStatusFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, orphaned.ID, failed[0].ScheduleID)
}

func TestRunDueRunsManySchedulesConcurrently(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	schedules := make([]*types.Schedule, 0, 8)
	for i := 0; i < 8; i++ {
		schedules = append(schedules, weeklySchedule(uuid.New()))
	}
	f := newScannerFixture(t, now, schedules...)
	for _, s := range schedules {
		f.addConnection(s.ConnectionID)
	}

	summary, err := f.scanner.RunDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, types.ScanSummary{Executed: 8, Failed: 0, Total: 8}, summary)
	assert.Len(t, f.runLogRepo.byStatus(types.RunStatusSuccess), 8)
}

func TestRunDueReapsStaleRunningEntries(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC) // Tuesday, nothing due
	schedule := weeklySchedule(uuid.New())
	f := newScannerFixture(t, now, schedule)

	stale := &types.RunLogEntry{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		Status:     types.RunStatusRunning,
		StartedAt:  now.Add(-7 * time.Hour),
	}
	recent := &types.RunLogEntry{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		Status:     types.RunStatusRunning,
		StartedAt:  now.Add(-5 * time.Minute),
	}
	require.NoError(t, f.runLogRepo.Save(context.Background(), stale))
	require.NoError(t, f.runLogRepo.Save(context.Background(), recent))

	_, err := f.scanner.RunDue(context.Background(), now)
	require.NoError(t, err)

	reaped, err := f.runLogRepo.FindByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusFailed, reaped.Status)
	assert.Contains(t, reaped.Error, "abandoned")

	untouched, err := f.runLogRepo.FindByID(context.Background(), recent.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusRunning, untouched.Status)
}
