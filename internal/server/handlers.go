package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/devpath/internal/llm"
	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type notificationJSON struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
	XP      int    `json:"xp,omitempty"`
}

type stateResponse struct {
	Roadmap       *roadmap.Roadmap   `json:"roadmap"`
	Profile       progress.Profile   `json:"profile"`
	Snapshot      progress.Snapshot  `json:"snapshot"`
	Notifications []notificationJSON `json:"notifications,omitempty"`
}

// roadmapResponse inlines the roadmap fields so clients reading a bare
// roadmap keep working.
type roadmapResponse struct {
	*roadmap.Roadmap
	Notifications []notificationJSON `json:"notifications,omitempty"`
	Warning       string             `json:"warning,omitempty"`
}

type achievementJSON struct {
	progress.Achievement
	Unlocked bool `json:"unlocked"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "DevPath API está rodando",
	})
}

func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal     string `json:"goal"`
		Objetivo string `json:"objetivo"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	goal := req.Goal
	if strings.TrimSpace(goal) == "" {
		goal = req.Objetivo
	}

	rm, notes, err := s.svc.GenerateRoadmap(r.Context(), goal)
	if err != nil && rm == nil {
		s.writeError(w, "Falha ao gerar roadmap", err)
		return
	}
	resp := roadmapResponse{Roadmap: rm, Notifications: toNotifications(notes)}
	var saveErr *progress.SaveError
	if errors.As(err, &saveErr) {
		// The roadmap was generated but could not be saved.
		s.logger.Error("roadmap not persisted", zap.Error(err))
		resp.Warning = "progress could not be saved"
		w.Header().Set("X-Progress-Warning", "save-failed")
	} else if err != nil {
		s.writeError(w, "Falha ao gerar roadmap", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateChallenges(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TechName string `json:"techName"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	cs, cached, err := s.svc.Challenges(r.Context(), req.TechName)
	if err != nil {
		s.writeError(w, "Falha ao gerar desafios", err)
		return
	}
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	resp, err := s.stateResponse(r.Context(), s.hours(r), nil)
	if err != nil {
		s.writeError(w, "Falha ao carregar progresso", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stage *int `json:"stage"`
		Item  *int `json:"item"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Stage == nil {
		s.writeError(w, "Requisição inválida", &roadmap.ValidationError{Field: "stage"})
		return
	}
	if req.Item == nil {
		s.writeError(w, "Requisição inválida", &roadmap.ValidationError{Field: "item"})
		return
	}

	notes, err := s.svc.Toggle(r.Context(), *req.Stage, *req.Item)
	if err != nil {
		s.writeError(w, "Falha ao atualizar item", err)
		return
	}
	resp, err := s.stateResponse(r.Context(), s.hours(r), notes)
	if err != nil {
		s.writeError(w, "Falha ao carregar progresso", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	notes, err := s.svc.CheckIn(r.Context())
	if err != nil {
		s.writeError(w, "Falha ao registrar acesso", err)
		return
	}
	resp, err := s.stateResponse(r.Context(), s.hours(r), notes)
	if err != nil {
		s.writeError(w, "Falha ao carregar progresso", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	est, err := s.svc.Estimate(r.Context(), s.hours(r))
	if err != nil {
		s.writeError(w, "Falha ao estimar", err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		All bool `json:"all"`
	}
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.Reset(r.Context(), req.All); err != nil {
		s.writeError(w, "Falha ao reiniciar", err)
		return
	}
	resp, err := s.stateResponse(r.Context(), s.hours(r), nil)
	if err != nil {
		s.writeError(w, "Falha ao carregar progresso", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.State(r.Context())
	if err != nil {
		s.writeError(w, "Falha ao carregar conquistas", err)
		return
	}
	catalog := progress.Catalog()
	out := make([]achievementJSON, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, achievementJSON{Achievement: a, Unlocked: st.Profile.HasAchievement(a.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stateResponse(ctx context.Context, hours int, notes []progress.Notification) (stateResponse, error) {
	st, err := s.svc.State(ctx)
	if err != nil {
		return stateResponse{}, err
	}
	return stateResponse{
		Roadmap:       st.Roadmap,
		Profile:       st.Profile,
		Snapshot:      progress.TakeSnapshot(st, hours),
		Notifications: toNotifications(notes),
	}, nil
}

// hours reads the "hours" query parameter, falling back to the server
// default.
func (s *Server) hours(r *http.Request) int {
	if v := r.URL.Query().Get("hours"); v != "" {
		return roadmap.ParseHours(v)
	}
	return s.cfg.HoursPerWeek
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Requisição inválida",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// writeError maps a service error to a status code and the error envelope.
func (s *Server) writeError(w http.ResponseWriter, msg string, err error) {
	body := errorBody{Error: msg, Details: err.Error()}
	status := http.StatusInternalServerError

	var (
		verr   *roadmap.ValidationError
		failed *llm.ErrGenerationFailed
		oor    *progress.ErrItemOutOfRange
		saveEr *progress.SaveError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &oor):
		status = http.StatusBadRequest
	case errors.Is(err, progress.ErrNoRoadmap):
		status = http.StatusNotFound
	case errors.As(err, &failed):
		status = http.StatusBadGateway
		body.Details = failed.LastMessage()
		body.Reason = failed.Reason()
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, progress.ErrGenerationUnavailable):
		status = http.StatusInternalServerError
	case errors.As(err, &saveEr):
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func toNotifications(notes []progress.Notification) []notificationJSON {
	if len(notes) == 0 {
		return nil
	}
	out := make([]notificationJSON, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationJSON{
			Title:   n.Title(),
			Message: n.Message(),
			Icon:    n.Icon(),
			XP:      n.XP(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
