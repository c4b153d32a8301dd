package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mongovault/internal/archive"
	"mongovault/internal/auth"
	"mongovault/internal/source"
	"mongovault/internal/storage"
	"mongovault/internal/types"
	"mongovault/logger"
)

func init() {
	_ = logger.InitLogger("development", "")
}

// ---- repositories ----

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*types.Schedule
}

func newFakeScheduleRepo(schedules ...*types.Schedule) *fakeScheduleRepo {
	repo := &fakeScheduleRepo{schedules: make(map[uuid.UUID]*types.Schedule)}
	for _, s := range schedules {
		repo.schedules[s.ID] = s
	}
	return repo
}

func (f *fakeScheduleRepo) Save(ctx context.Context, schedule *types.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[schedule.ID] = schedule
	return nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return s, nil
}

func (f *fakeScheduleRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*types.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*types.Schedule, 0)
	for _, s := range f.schedules {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) FindEnabled(ctx context.Context) ([]*types.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*types.Schedule, 0)
	for _, s := range f.schedules {
		if s.Enabled {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return types.ErrNotFound
	}
	s.Enabled = enabled
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.schedules, id)
	return nil
}

type fakeRunLogRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*types.RunLogEntry
	saveErr error
}

func newFakeRunLogRepo(entries ...*types.RunLogEntry) *fakeRunLogRepo {
	repo := &fakeRunLogRepo{entries: make(map[uuid.UUID]*types.RunLogEntry)}
	for _, e := range entries {
		repo.entries[e.ID] = e
	}
	return repo
}

func (f *fakeRunLogRepo) Save(ctx context.Context, entry *types.RunLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeRunLogRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.RunLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return e, nil
}

func (f *fakeRunLogRepo) Finalize(ctx context.Context, id uuid.UUID, outcome types.RunOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return types.ErrNotFound
	}
	if e.Status != types.RunStatusRunning {
		return errors.New("run log entry already finalized")
	}
	completed := outcome.CompletedAt
	e.Status = outcome.Status
	e.CompletedAt = &completed
	e.Duration = completed.Sub(e.StartedAt)
	e.Collections = outcome.Collections
	e.Size = outcome.Size
	if outcome.Artifact != nil {
		e.ArtifactID = outcome.Artifact.ID
		e.ArtifactLink = outcome.Artifact.Link
	}
	e.RetentionExpiresAt = outcome.RetentionExpiresAt
	if outcome.Err != nil {
		e.Error = outcome.Err.Error()
	}
	return nil
}

func (f *fakeRunLogRepo) Query(ctx context.Context, q types.RunQuery) ([]*types.RunLogEntry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*types.RunLogEntry, 0)
	for _, e := range f.entries {
		if q.ScheduleID != uuid.Nil && e.ScheduleID != q.ScheduleID {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		result = append(result, e)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRunLogRepo) MarkDeleted(ctx context.Context, id uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return types.ErrNotFound
	}
	now := time.Now()
	e.Status = types.RunStatusDeleted
	e.DeletedAt = &now
	e.DeletedReason = reason
	return nil
}

func (f *fakeRunLogRepo) CountStartedBetween(ctx context.Context, scheduleID uuid.UUID, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, e := range f.entries {
		if e.ScheduleID != scheduleID {
			continue
		}
		if !e.StartedAt.Before(from) && e.StartedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRunLogRepo) FindExpired(ctx context.Context, scheduleID uuid.UUID, now time.Time) ([]*types.RunLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*types.RunLogEntry, 0)
	for _, e := range f.entries {
		if e.ScheduleID != scheduleID || e.Status != types.RunStatusSuccess {
			continue
		}
		if e.RetentionExpiresAt != nil && e.RetentionExpiresAt.Before(now) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeRunLogRepo) FindStaleRunning(ctx context.Context, cutoff time.Time) ([]*types.RunLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*types.RunLogEntry, 0)
	for _, e := range f.entries {
		if e.Status == types.RunStatusRunning && e.StartedAt.Before(cutoff) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeRunLogRepo) byStatus(status types.RunStatus) []*types.RunLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*types.RunLogEntry, 0)
	for _, e := range f.entries {
		if e.Status == status {
			result = append(result, e)
		}
	}
	return result
}

type fakeConnectionRepo struct {
	connections map[uuid.UUID]*types.Connection
}

func newFakeConnectionRepo(connections ...*types.Connection) *fakeConnectionRepo {
	repo := &fakeConnectionRepo{connections: make(map[uuid.UUID]*types.Connection)}
	for _, c := range connections {
		repo.connections[c.ID] = c
	}
	return repo
}

func (f *fakeConnectionRepo) Save(ctx context.Context, conn *types.Connection) error {
	f.connections[conn.ID] = conn
	return nil
}

func (f *fakeConnectionRepo) FindByID(ctx context.Context, id uuid.UUID) (*types.Connection, error) {
	c, ok := f.connections[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return c, nil
}

func (f *fakeConnectionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*types.Connection, error) {
	result := make([]*types.Connection, 0)
	for _, c := range f.connections {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeConnectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.connections, id)
	return nil
}

// ---- collaborators ----

type fakeEncryptor struct{}

func (fakeEncryptor) Encrypt(data string) (string, error) { return "enc:" + data, nil }

func (fakeEncryptor) Decrypt(data string) (string, error) {
	if len(data) < 4 || data[:4] != "enc:" {
		return "", errors.New("bad ciphertext")
	}
	return data[4:], nil
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanBackup(ctx context.Context, userID, orgID uuid.UUID) bool { return true }
func (allowAllAuthorizer) CanAccessConnection(ctx context.Context, userID uuid.UUID, conn *types.Connection) bool {
	return true
}
func (allowAllAuthorizer) VerifyBackupPassword(password string) bool { return password == "hunter2" }

type fakeSource struct {
	collections map[string][]map[string]any
	listErr     error
	closed      bool
}

func (f *fakeSource) ListCollections(ctx context.Context, database string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeSource) ReadAll(ctx context.Context, database, collection string) (archive.Iterator, error) {
	docs, ok := f.collections[collection]
	if !ok {
		return nil, errors.Errorf("no such collection %s", collection)
	}
	return &fakeIterator{docs: docs}, nil
}

func (f *fakeSource) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

type fakeIterator struct {
	docs []map[string]any
	pos  int
}

func (it *fakeIterator) Next(ctx context.Context) bool { return it.pos < len(it.docs) }

func (it *fakeIterator) Decode(out any) error {
	b, err := json.Marshal(it.docs[it.pos])
	it.pos++
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (it *fakeIterator) Err() error                     { return nil }
func (it *fakeIterator) Close(ctx context.Context) error { return nil }

type fakeSourceFactory struct {
	src     *fakeSource
	openErr error
}

func (f *fakeSourceFactory) Open(ctx context.Context, uri string) (source.Source, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.src, nil
}

type fakeStorage struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
	nextID    int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, content io.Reader, filename, folderPath string) (*types.Artifact, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.nextID++
	id := filename
	f.uploads[id] = data
	return &types.Artifact{ID: id, Link: "fake://" + folderPath + "/" + id}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, artifactID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.uploads, artifactID)
	f.deleted = append(f.deleted, artifactID)
	return nil
}

type fakeStorageFactory struct {
	st *fakeStorage
}

func (f *fakeStorageFactory) Get(kind types.StorageKind) (storage.Storage, error) {
	return f.st, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

// ---- helpers ----

var testUser = &auth.User{ID: uuid.New(), OrganizationID: uuid.New()}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
