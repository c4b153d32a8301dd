package httphandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mongovault/internal/auth"
)

func Routes(h *ApiHandler, verifier auth.TokenVerifier, cronSecret string) chi.Router {
	r := chi.NewRouter()
	r.Route("/v1", func(rr chi.Router) {
		rr.Group(func(cron chi.Router) {
			cron.Use(RequireCronSecret(cronSecret))
			cron.Post("/backups/run", h.TriggerScan)
		})

		rr.Group(func(api chi.Router) {
			api.Use(RequireUser(verifier))

			api.Post("/connections", h.CreateConnection)
			api.Get("/connections", h.ListConnections)
			api.Delete("/connections/{id}", h.DeleteConnection)

			api.Post("/schedules", h.CreateSchedule)
			api.Get("/schedules", h.ListSchedules)
			api.Get("/schedules/{id}", h.GetSchedule)
			api.Put("/schedules/{id}", h.UpdateSchedule)
			api.Patch("/schedules/{id}/enable", h.SetScheduleEnabled(true))
			api.Patch("/schedules/{id}/disable", h.SetScheduleEnabled(false))
			api.Delete("/schedules/{id}", h.DeleteSchedule)

			api.Get("/schedules/{id}/runs", h.ListRuns)
			api.Delete("/runs/{id}", h.DeleteRunArtifact)
		})

		rr.Get("/h", func(writer http.ResponseWriter, request *http.Request) {
			ok(writer, "Hoi, we're live!", struct{}{})
		})
	})
	return r
}
