package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/store"
)

// JSON API under /api, for scripting the same operations the HTML pages
// expose. Authentication is the same session cookie.

type apiError struct {
	Error string `json:"error"`
}

type sendReportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) apiRoutes(r chi.Router) {
	r.Get("/schedulers", s.apiListSchedulers)
	r.Post("/schedulers", s.apiCreateScheduler)
	r.Get("/schedulers/{id}", s.apiGetScheduler)
	r.Put("/schedulers/{id}", s.apiUpdateScheduler)
	r.Delete("/schedulers/{id}", s.apiDeleteScheduler)
	r.Post("/send-report", s.apiSendReport)
}

func (s *Server) apiListSchedulers(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.List(r.Context())
	if err != nil {
		s.apiInternalError(w, err)
		return
	}
	if entries == nil {
		entries = []store.ScheduleEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) apiGetScheduler(w http.ResponseWriter, r *http.Request) {
	entry, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.apiRepoError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) apiCreateScheduler(w http.ResponseWriter, r *http.Request) {
	var entry store.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}
	entry.ID = ""
	entry.LastRun = nil

	if err := s.repo.Create(r.Context(), &entry); err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: err.Error()})
		return
	}

	s.logger.Info("scheduler created",
		logger.Field{Key: "id", Value: entry.ID},
		logger.Field{Key: "name", Value: entry.Name},
	)
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) apiUpdateScheduler(w http.ResponseWriter, r *http.Request) {
	existing, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.apiRepoError(w, err)
		return
	}

	var update store.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body"})
		return
	}

	existing.Name = update.Name
	existing.RunTime = update.RunTime
	existing.DaysOfWeek = update.DaysOfWeek
	existing.IsActive = update.IsActive

	if err := s.repo.Update(r.Context(), existing); err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, existing)
}

func (s *Server) apiDeleteScheduler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.apiRepoError(w, err)
		return
	}

	s.logger.Info("scheduler deleted", logger.Field{Key: "id", Value: id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiSendReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	result, err := s.reports.GenerateAndSend(r.Context(), date)
	status := http.StatusOK
	if err != nil {
		s.logger.Error("manual report run failed", err, logger.Field{Key: "date", Value: date})
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, sendReportResponse{Success: result.Success, Message: result.Message})
}

func (s *Server) apiRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, apiError{Error: "scheduler not found"})
		return
	}
	s.apiInternalError(w, err)
}

func (s *Server) apiInternalError(w http.ResponseWriter, err error) {
	s.logger.Error("api request failed", err)
	s.writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", err)
	}
}
