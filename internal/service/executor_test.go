package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mongovault/internal/types"
)

type executorFixture struct {
	scheduleRepo *fakeScheduleRepo
	runLogRepo   *fakeRunLogRepo
	connRepo     *fakeConnectionRepo
	srcFactory   *fakeSourceFactory
	storage      *fakeStorage
	notifier     *fakeNotifier
	schedule     *types.Schedule
	executor     ExecutorService
}

func newExecutorFixture(t *testing.T, now time.Time) *executorFixture {
	t.Helper()

	conn := &types.Connection{
		ID:             uuid.New(),
		UserID:         testUser.ID,
		OrganizationID: testUser.OrganizationID,
		Name:           "prod",
		EncryptedURI:   "enc:mongodb://localhost:27017",
	}
	schedule := &types.Schedule{
		ID:             uuid.New(),
		UserID:         testUser.ID,
		OrganizationID: testUser.OrganizationID,
		ConnectionID:   conn.ID,
		Database:       "shop",
		StorageKind:    types.StorageKindFS,
		FolderPath:     "backups/shop",
		Days:           []int{1},
		Times:          []string{"09:00"},
		RetentionDays:  7,
		Enabled:        true,
	}

	f := &executorFixture{
		scheduleRepo: newFakeScheduleRepo(schedule),
		runLogRepo:   newFakeRunLogRepo(),
		connRepo:     newFakeConnectionRepo(conn),
		srcFactory: &fakeSourceFactory{src: &fakeSource{
			collections: map[string][]map[string]any{
				"users":  {{"_id": "1"}, {"_id": "2"}},
				"orders": {{"_id": "9"}},
			},
		}},
		storage:  newFakeStorage(),
		notifier: &fakeNotifier{},
		schedule: schedule,
	}

	connections := NewConnectionService(f.connRepo, fakeEncryptor{}, allowAllAuthorizer{})
	f.executor = NewExecutorService(f.scheduleRepo, f.runLogRepo, connections,
		f.srcFactory, &fakeStorageFactory{st: f.storage}, f.notifier, fixedNow(now))
	return f
}

func TestExecuteSuccess(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 12, 0, time.UTC)
	f := newExecutorFixture(t, now)

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.True(t, result.Success, "unexpected error: %s", result.Error)
	require.NotEqual(t, uuid.Nil, result.LogID)

	entry, err := f.runLogRepo.FindByID(context.Background(), result.LogID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusSuccess, entry.Status)
	assert.ElementsMatch(t, []string{"users", "orders"}, entry.Collections)
	assert.NotEmpty(t, entry.ArtifactID)
	assert.NotEmpty(t, entry.ArtifactLink)
	assert.Greater(t, entry.Size, int64(0))
	require.NotNil(t, entry.CompletedAt)
	require.NotNil(t, entry.RetentionExpiresAt)
	assert.True(t, entry.RetentionExpiresAt.Equal(now.AddDate(0, 0, 7)))

	assert.Len(t, f.storage.uploads, 1)
	assert.True(t, f.srcFactory.src.closed, "source connection must be closed")
	assert.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "completed")
}

func TestExecuteExplicitCollectionSubset(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.schedule.Collections = []string{"users"}

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.True(t, result.Success)
	entry, err := f.runLogRepo.FindByID(context.Background(), result.LogID)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, entry.Collections)
}

func TestExecuteUploadFailure(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.storage.uploadErr = errors.New("bucket unreachable")

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "bucket unreachable")

	entry, err := f.runLogRepo.FindByID(context.Background(), result.LogID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusFailed, entry.Status)
	assert.Empty(t, entry.ArtifactID, "a failed upload must not record an artifact")
	assert.Nil(t, entry.RetentionExpiresAt)
	require.NotNil(t, entry.CompletedAt)

	assert.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "failed")
}

func TestExecuteEmptyDatabase(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.srcFactory.src.collections = map[string][]map[string]any{}

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.False(t, result.Success)
	entry, err := f.runLogRepo.FindByID(context.Background(), result.LogID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusFailed, entry.Status)
	assert.Contains(t, entry.Error, types.ErrEmptyResult.Error())
	assert.Empty(t, f.storage.uploads)
}

func TestExecuteConnectFailure(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.srcFactory.openErr = errors.New("dial tcp: connection refused")

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.False(t, result.Success)
	entry, err := f.runLogRepo.FindByID(context.Background(), result.LogID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusFailed, entry.Status)
	assert.Contains(t, entry.Error, "connection refused")
}

func TestExecuteUnknownSchedule(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)

	result := f.executor.Execute(context.Background(), uuid.New())

	require.False(t, result.Success)
	assert.Equal(t, uuid.Nil, result.LogID)
	assert.Empty(t, f.runLogRepo.byStatus(types.RunStatusRunning))
}

func TestExecuteAbortsWhenRunCannotBeRecorded(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.runLogRepo.saveErr = errors.New("disk full")

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.False(t, result.Success)
	assert.Empty(t, f.storage.uploads, "no external system may be touched when the log write fails")
	assert.False(t, f.srcFactory.src.closed, "the source must never have been opened")
}

func TestExecuteRetentionSweep(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)

	expired := successEntry(f.schedule.ID, now.AddDate(0, 0, -2), "old-artifact")
	fresh := successEntry(f.schedule.ID, now.AddDate(0, 0, 1), "fresh-artifact")
	require.NoError(t, f.runLogRepo.Save(context.Background(), expired))
	require.NoError(t, f.runLogRepo.Save(context.Background(), fresh))

	result := f.executor.Execute(context.Background(), f.schedule.ID)
	require.True(t, result.Success)

	swept, err := f.runLogRepo.FindByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusDeleted, swept.Status)
	assert.Equal(t, "retention period elapsed", swept.DeletedReason)
	assert.Contains(t, f.storage.deleted, "old-artifact")

	kept, err := f.runLogRepo.FindByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusSuccess, kept.Status)
	assert.NotContains(t, f.storage.deleted, "fresh-artifact")
}

func TestExecuteSweepRunsAfterFailedRun(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.storage.uploadErr = errors.New("bucket unreachable")

	expired := successEntry(f.schedule.ID, now.AddDate(0, 0, -1), "old-artifact")
	require.NoError(t, f.runLogRepo.Save(context.Background(), expired))
	// Delete still works even though Upload is broken.
	result := f.executor.Execute(context.Background(), f.schedule.ID)
	require.False(t, result.Success)

	swept, err := f.runLogRepo.FindByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusDeleted, swept.Status)
}

func TestExecuteSweepKeepsEntryWhenArtifactDeleteFails(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.storage.deleteErr = errors.New("transient storage outage")

	expired := successEntry(f.schedule.ID, now.AddDate(0, 0, -1), "old-artifact")
	require.NoError(t, f.runLogRepo.Save(context.Background(), expired))

	result := f.executor.Execute(context.Background(), f.schedule.ID)
	require.True(t, result.Success)

	kept, err := f.runLogRepo.FindByID(context.Background(), expired.ID)
	require.NoError(t, err)
	// Still success: the next sweep retries the delete before annotating.
	assert.Equal(t, types.RunStatusSuccess, kept.Status)
}

func TestExecuteNotifyFailureDoesNotChangeOutcome(t *testing.T) {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	f := newExecutorFixture(t, now)
	f.notifier.err = errors.New("telegram down")

	result := f.executor.Execute(context.Background(), f.schedule.ID)

	require.True(t, result.Success)
	entry, err := f.runLogRepo.FindByID(context.Background(), result.LogID)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusSuccess, entry.Status)
}

func successEntry(scheduleID uuid.UUID, expiresAt time.Time, artifactID string) *types.RunLogEntry {
	started := expiresAt.AddDate(0, 0, -7)
	completed := started.Add(time.Minute)
	return &types.RunLogEntry{
		ID:                 uuid.New(),
		ScheduleID:         scheduleID,
		Status:             types.RunStatusSuccess,
		StartedAt:          started,
		CompletedAt:        &completed,
		ArtifactID:         artifactID,
		RetentionExpiresAt: &expiresAt,
	}
}
