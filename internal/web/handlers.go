package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/store"
)

type loginData struct {
	Error string
}

type schedulersData struct {
	Schedulers []store.ScheduleEntry
	Weekdays   []string
	Flash      string
	Error      string
}

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/schedulers", http.StatusFound)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.validSession(r) {
		http.Redirect(w, r, "/schedulers", http.StatusFound)
		return
	}
	s.render(w, loginTmpl, loginData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if !s.checkCredentials(r.PostFormValue("username"), r.PostFormValue("password")) {
		s.logger.Warn("failed login attempt", logger.Field{Key: "remote", Value: r.RemoteAddr})
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, loginTmpl, loginData{Error: "Invalid username or password."})
		return
	}

	s.issueSession(w)
	http.Redirect(w, r, "/schedulers", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleSchedulersPage(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.List(r.Context())
	if err != nil {
		s.logger.Error("list schedulers", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, schedulersTmpl, schedulersData{
		Schedulers: entries,
		Weekdays:   weekdayOrder,
		Flash:      r.URL.Query().Get("flash"),
		Error:      r.URL.Query().Get("error"),
	})
}

func (s *Server) handleCreateScheduler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	entry := &store.ScheduleEntry{
		Name:       r.PostFormValue("name"),
		RunTime:    r.PostFormValue("run_time"),
		DaysOfWeek: r.PostForm["days_of_week"],
		IsActive:   r.PostFormValue("is_active") == "1",
	}

	if err := s.repo.Create(r.Context(), entry); err != nil {
		s.redirectError(w, r, err.Error())
		return
	}

	s.logger.Info("scheduler created",
		logger.Field{Key: "id", Value: entry.ID},
		logger.Field{Key: "name", Value: entry.Name},
	)
	s.redirectFlash(w, r, "Scheduler created.")
}

func (s *Server) handleToggleScheduler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.notFoundOrError(w, r, err)
		return
	}

	entry.IsActive = !entry.IsActive
	if err := s.repo.Update(r.Context(), entry); err != nil {
		s.notFoundOrError(w, r, err)
		return
	}

	s.redirectFlash(w, r, "Scheduler updated.")
}

func (s *Server) handleDeleteScheduler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.notFoundOrError(w, r, err)
		return
	}

	s.logger.Info("scheduler deleted", logger.Field{Key: "id", Value: id})
	s.redirectFlash(w, r, "Scheduler deleted.")
}

func (s *Server) handleSendReport(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	result, err := s.reports.GenerateAndSend(r.Context(), date)
	if err != nil {
		s.logger.Error("manual report run failed", err, logger.Field{Key: "date", Value: date})
		s.redirectError(w, r, result.Message)
		return
	}

	s.redirectFlash(w, r, result.Message)
}

func (s *Server) notFoundOrError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.redirectError(w, r, "Scheduler not found.")
		return
	}
	s.logger.Error("scheduler operation failed", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) redirectFlash(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/schedulers?flash="+url.QueryEscape(msg), http.StatusFound)
}

func (s *Server) redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/schedulers?error="+url.QueryEscape(msg), http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("render template", err)
	}
}
