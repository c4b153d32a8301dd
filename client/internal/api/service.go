package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type (
	Service interface {
		ConnectionService
		ScheduleService
		RunService
		TriggerService
	}

	ConnectionService interface {
		CreateConnection(ctx context.Context, params CreateConnectionParams) (Connection, error)
		ListConnections(ctx context.Context) ([]Connection, error)
		DeleteConnection(ctx context.Context, id uuid.UUID) error
	}

	ScheduleService interface {
		CreateSchedule(ctx context.Context, params CreateScheduleParams) (Schedule, error)
		ListSchedules(ctx context.Context) ([]Schedule, error)
		SetScheduleEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
		DeleteSchedule(ctx context.Context, id uuid.UUID, backupPassword string) error
	}

	RunService interface {
		ListRuns(ctx context.Context, scheduleID uuid.UUID, status string) ([]RunLogEntry, error)
		DeleteRunArtifact(ctx context.Context, id uuid.UUID) error
	}

	TriggerService interface {
		// TriggerBackupScan synchronously runs every schedule due in the
		// current minute. It is guarded by the cron secret, not the access
		// key.
		TriggerBackupScan(ctx context.Context, cronSecret string) (ScanSummary, error)
	}
)

type service struct {
	apiClient Client
}

func NewService(apiClient Client) Service {
	return service{apiClient: apiClient}
}

func (s service) CreateConnection(ctx context.Context, params CreateConnectionParams) (Connection, error) {
	var response struct {
		Data Connection `json:"data"`
	}

	err := s.apiClient.Do(ctx, Params{
		Method:   "POST",
		Path:     "connections",
		Body:     params,
		Response: &response,
	})
	return response.Data, err
}

func (s service) ListConnections(ctx context.Context) ([]Connection, error) {
	var response struct {
		Data []Connection `json:"data"`
	}

	err := s.apiClient.Do(ctx, Params{
		Method:   "GET",
		Path:     "connections",
		Response: &response,
	})
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (s service) DeleteConnection(ctx context.Context, id uuid.UUID) error {
	return s.apiClient.Do(ctx, Params{
		Method: "DELETE",
		Path:   fmt.Sprintf("connections/%s", id),
	})
}

func (s service) CreateSchedule(ctx context.Context, params CreateScheduleParams) (Schedule, error) {
	var response struct {
		Data Schedule `json:"data"`
	}

	err := s.apiClient.Do(ctx, Params{
		Method:   "POST",
		Path:     "schedules",
		Body:     params,
		Response: &response,
	})
	return response.Data, err
}

func (s service) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var response struct {
		Data []Schedule `json:"data"`
	}

	err := s.apiClient.Do(ctx, Params{
		Method:   "GET",
		Path:     "schedules",
		Response: &response,
	})
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (s service) SetScheduleEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	return s.apiClient.Do(ctx, Params{
		Method: "PATCH",
		Path:   fmt.Sprintf("schedules/%s/%s", id, action),
	})
}

func (s service) DeleteSchedule(ctx context.Context, id uuid.UUID, backupPassword string) error {
	return s.apiClient.Do(ctx, Params{
		Method: "DELETE",
		Path:   fmt.Sprintf("schedules/%s", id),
		Body:   DeleteScheduleParams{BackupPassword: backupPassword},
	})
}

func (s service) ListRuns(ctx context.Context, scheduleID uuid.UUID, status string) ([]RunLogEntry, error) {
	var response struct {
		Data struct {
			Entries []RunLogEntry `json:"entries"`
			Total   int64         `json:"total"`
		} `json:"data"`
	}

	queryParams := map[string]string{}
	if status != "" {
		queryParams["status"] = status
	}

	err := s.apiClient.Do(ctx, Params{
		Method:      "GET",
		Path:        fmt.Sprintf("schedules/%s/runs", scheduleID),
		Response:    &response,
		QueryParams: queryParams,
	})
	if err != nil {
		return nil, err
	}
	return response.Data.Entries, nil
}

func (s service) DeleteRunArtifact(ctx context.Context, id uuid.UUID) error {
	return s.apiClient.Do(ctx, Params{
		Method: "DELETE",
		Path:   fmt.Sprintf("runs/%s", id),
	})
}

func (s service) TriggerBackupScan(ctx context.Context, cronSecret string) (ScanSummary, error) {
	var response struct {
		Data ScanSummary `json:"data"`
	}

	err := s.apiClient.Do(ctx, Params{
		Method:   "POST",
		Path:     "backups/run",
		Response: &response,
		Headers:  map[string]string{"X-Cron-Secret": cronSecret},
	})
	return response.Data, err
}
