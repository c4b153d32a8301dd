package httphandlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mongovault/internal/service"
	"mongovault/internal/types"
)

type (
	ApiHandler struct {
		connections service.ConnectionService
		schedules   service.ScheduleService
		runs        service.RunLogService
		scanner     service.ScannerService
	}
)

func NewApiHandler(
	connections service.ConnectionService,
	schedules service.ScheduleService,
	runs service.RunLogService,
	scanner service.ScannerService) *ApiHandler {
	return &ApiHandler{
		connections: connections,
		schedules:   schedules,
		runs:        runs,
		scanner:     scanner,
	}
}

// TriggerScan is the external timer's entry point: it synchronously runs
// every schedule due in the current minute and reports the aggregate.
func (handler *ApiHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	summary, err := handler.scanner.RunDue(r.Context(), time.Now())
	if err != nil {
		serverError(w, errors.Wrap(err, "scan failed"))
		return
	}
	ok(w, "scan completed", summary)
}

func (handler *ApiHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var params types.CreateConnectionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		badRequest(w, err)
		return
	}

	conn, err := handler.connections.Create(r.Context(), userFrom(r), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "connection created", conn)
}

func (handler *ApiHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := handler.connections.List(r.Context(), userFrom(r))
	if err != nil {
		serverError(w, err)
		return
	}
	ok(w, "connections", conns)
}

func (handler *ApiHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, errors.New("invalid connection id"))
		return
	}

	if err := handler.connections.Delete(r.Context(), userFrom(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "connection deleted", struct{}{})
}

func (handler *ApiHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var params types.CreateScheduleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		badRequest(w, err)
		return
	}

	schedule, err := handler.schedules.Create(r.Context(), userFrom(r), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "schedule created", schedule)
}

func (handler *ApiHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, errors.New("invalid schedule id"))
		return
	}

	var params types.UpdateScheduleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		badRequest(w, err)
		return
	}

	schedule, err := handler.schedules.Update(r.Context(), userFrom(r), id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "schedule updated", schedule)
}

func (handler *ApiHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := handler.schedules.List(r.Context(), userFrom(r))
	if err != nil {
		serverError(w, err)
		return
	}
	ok(w, "schedules", schedules)
}

func (handler *ApiHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, errors.New("invalid schedule id"))
		return
	}

	schedule, err := handler.schedules.Get(r.Context(), userFrom(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "schedule", schedule)
}

func (handler *ApiHandler) SetScheduleEnabled(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			badRequest(w, errors.New("invalid schedule id"))
			return
		}

		if err := handler.schedules.SetEnabled(r.Context(), userFrom(r), id, enabled); err != nil {
			writeServiceError(w, err)
			return
		}
		if enabled {
			ok(w, "schedule enabled", struct{}{})
			return
		}
		ok(w, "schedule disabled", struct{}{})
	}
}

func (handler *ApiHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, errors.New("invalid schedule id"))
		return
	}

	var body struct {
		BackupPassword string `json:"backup_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, err)
		return
	}

	if err := handler.schedules.Delete(r.Context(), userFrom(r), id, body.BackupPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "schedule deleted", struct{}{})
}

func (handler *ApiHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, errors.New("invalid schedule id"))
		return
	}

	q := types.RunQuery{
		ScheduleID: scheduleID,
		Status:     types.RunStatus(r.URL.Query().Get("status")),
		Page:       queryInt(r, "page"),
		PerPage:    queryInt(r, "per_page"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			q.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			q.To = t
		}
	}

	entries, total, err := handler.runs.Query(r.Context(), userFrom(r), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "runs", map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}

func (handler *ApiHandler) DeleteRunArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, errors.New("invalid run id"))
		return
	}

	if err := handler.runs.DeleteArtifact(r.Context(), userFrom(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	ok(w, "artifact deleted", struct{}{})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		badRequest(w, err)
	case errors.Is(err, types.ErrPermission):
		forbidden(w, err)
	case errors.Is(err, types.ErrNotFound):
		notFound(w, err)
	default:
		serverError(w, err)
	}
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}
