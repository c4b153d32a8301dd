package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	errors2 "github.com/pkg/errors"
	"go.uber.org/zap"

	"mongovault/internal/archive"
	"mongovault/internal/clock"
	"mongovault/internal/database"
	"mongovault/internal/notify"
	"mongovault/internal/source"
	"mongovault/internal/storage"
	"mongovault/internal/types"
	"mongovault/logger"
)

type (
	// ExecutorService runs one backup end-to-end: resolve the connection,
	// enumerate collections, stream the archive to the destination, record
	// the outcome, then sweep expired prior backups and notify. It holds no
	// state between runs.
	ExecutorService interface {
		Execute(ctx context.Context, scheduleID uuid.UUID) types.ExecuteResult
	}

	executorService struct {
		scheduleRepo   database.ScheduleRepository
		runLogRepo     database.RunLogRepository
		connections    ConnectionService
		sourceFactory  source.Factory
		storageFactory storage.Factory
		notifier       notify.Notifier
		now            clock.Now
	}

	runResult struct {
		collections []string
		size        int64
		artifact    *types.Artifact
		err         error
	}
)

func NewExecutorService(
	scheduleRepo database.ScheduleRepository,
	runLogRepo database.RunLogRepository,
	connections ConnectionService,
	sourceFactory source.Factory,
	storageFactory storage.Factory,
	notifier notify.Notifier,
	now clock.Now) ExecutorService {
	if now == nil {
		now = time.Now
	}
	return &executorService{
		scheduleRepo:   scheduleRepo,
		runLogRepo:     runLogRepo,
		connections:    connections,
		sourceFactory:  sourceFactory,
		storageFactory: storageFactory,
		notifier:       notifier,
		now:            now,
	}
}

func (e executorService) Execute(ctx context.Context, scheduleID uuid.UUID) types.ExecuteResult {
	schedule, err := e.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		return types.ExecuteResult{Success: false, Error: errors2.Wrap(err, "unknown schedule").Error()}
	}

	entry := &types.RunLogEntry{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		Status:     types.RunStatusRunning,
		StartedAt:  e.now(),
	}
	// A failed log write aborts before any external system is touched: a
	// run that cannot be recorded must not happen.
	if err := e.runLogRepo.Save(ctx, entry); err != nil {
		logger.Error("failed to open run log entry",
			zap.String("schedule_id", schedule.ID.String()),
			zap.Error(err))
		return types.ExecuteResult{Success: false, Error: errors2.Wrap(err, "failed to open run log entry").Error()}
	}

	result := e.run(ctx, schedule, entry)

	outcome := types.RunOutcome{
		CompletedAt: e.now(),
		Collections: result.collections,
		Size:        result.size,
		Artifact:    result.artifact,
		Err:         result.err,
	}
	if result.err != nil {
		outcome.Status = types.RunStatusFailed
	} else {
		outcome.Status = types.RunStatusSuccess
		expires := outcome.CompletedAt.AddDate(0, 0, schedule.RetentionDays)
		outcome.RetentionExpiresAt = &expires
	}
	if err := e.runLogRepo.Finalize(ctx, entry.ID, outcome); err != nil {
		logger.Error("failed to finalize run log entry",
			zap.String("log_id", entry.ID.String()),
			zap.Error(err))
	}

	// The sweep runs whatever happened to this run; its failures are
	// logged and swallowed so they never mask the primary outcome.
	e.retentionSweep(ctx, schedule)
	e.notifyOutcome(ctx, schedule, outcome)

	if result.err != nil {
		logger.Error("backup run failed",
			zap.String("schedule_id", schedule.ID.String()),
			zap.String("database", schedule.Database),
			zap.Error(result.err))
		return types.ExecuteResult{Success: false, LogID: entry.ID, Error: result.err.Error()}
	}

	logger.Info("backup run completed",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("database", schedule.Database),
		zap.Int("collections", len(result.collections)),
		zap.Int64("size", result.size),
		zap.Duration("duration", outcome.CompletedAt.Sub(entry.StartedAt)))
	return types.ExecuteResult{Success: true, LogID: entry.ID}
}

func (e executorService) run(ctx context.Context, schedule *types.Schedule, entry *types.RunLogEntry) runResult {
	uri, err := e.connections.ResolveURI(ctx, schedule.UserID, schedule.OrganizationID, schedule.ConnectionID)
	if err != nil {
		return runResult{err: err}
	}

	src, err := e.sourceFactory.Open(ctx, uri)
	if err != nil {
		return runResult{err: errors2.Wrap(types.ErrConnection, err.Error())}
	}
	defer func() {
		if err := src.Close(context.Background()); err != nil {
			logger.Warn("failed to close source connection", zap.Error(err))
		}
	}()

	collections := schedule.Collections
	if len(collections) == 0 {
		collections, err = src.ListCollections(ctx, schedule.Database)
		if err != nil {
			return runResult{err: errors2.Wrap(types.ErrConnection, err.Error())}
		}
	}
	if len(collections) == 0 {
		return runResult{err: types.ErrEmptyResult}
	}

	st, err := e.storageFactory.Get(schedule.StorageKind)
	if err != nil {
		return runResult{err: errors2.Wrap(types.ErrUpload, err.Error())}
	}

	fetch := func(ctx context.Context, collection string) (archive.Iterator, error) {
		return src.ReadAll(ctx, schedule.Database, collection)
	}
	stream := archive.Build(ctx, collections, fetch)
	defer stream.Close()

	counted := &countingReader{r: stream}
	filename := backupFilename(schedule.Database, entry.StartedAt)
	artifact, err := st.Upload(ctx, counted, filename, schedule.FolderPath)
	if err != nil {
		// No partial credit: the archive may be fine, but an artifact
		// that never reached the destination is no backup.
		return runResult{collections: collections, err: errors2.Wrap(types.ErrUpload, err.Error())}
	}

	return runResult{
		collections: collections,
		size:        counted.n,
		artifact:    artifact,
	}
}

func (e executorService) retentionSweep(ctx context.Context, schedule *types.Schedule) {
	expired, err := e.runLogRepo.FindExpired(ctx, schedule.ID, e.now())
	if err != nil {
		logger.Error("retention sweep query failed",
			zap.String("schedule_id", schedule.ID.String()),
			zap.Error(err))
		return
	}

	for _, entry := range expired {
		if entry.ArtifactID != "" {
			st, err := e.storageFactory.Get(schedule.StorageKind)
			if err == nil {
				err = st.Delete(ctx, entry.ArtifactID)
			}
			if err != nil {
				// Best-effort: the artifact may outlive its window, the
				// next sweep retries.
				logger.Warn("failed to delete expired artifact",
					zap.String("log_id", entry.ID.String()),
					zap.String("artifact_id", entry.ArtifactID),
					zap.Error(err))
				continue
			}
		}

		if err := e.runLogRepo.MarkDeleted(ctx, entry.ID, "retention period elapsed"); err != nil {
			logger.Error("failed to mark expired run deleted",
				zap.String("log_id", entry.ID.String()),
				zap.Error(err))
		}
	}
}

func (e executorService) notifyOutcome(ctx context.Context, schedule *types.Schedule, outcome types.RunOutcome) {
	var message string
	if outcome.Status == types.RunStatusSuccess {
		message = fmt.Sprintf("Backup of %s completed: %d collections, %.2f MB",
			schedule.Database, len(outcome.Collections), float64(outcome.Size)/(1024*1024))
	} else {
		message = fmt.Sprintf("Backup of %s failed: %v", schedule.Database, outcome.Err)
	}

	// Deliberately discarded after logging; delivery never changes the
	// recorded outcome.
	if err := e.notifier.Notify(ctx, message); err != nil {
		logger.Warn("notification delivery failed", zap.Error(err))
	}
}

func backupFilename(database string, startedAt time.Time) string {
	return fmt.Sprintf("%s-%s.zip", database, startedAt.UTC().Format("20060102T150405Z"))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
