package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"avatarquest/internal/engine"
	"avatarquest/internal/storage"
)

type completeRequest struct {
	TaskID string `json:"task_id"`
}

type completeResponse struct {
	Message    string       `json:"message"`
	XPGained   int          `json:"xp_gained"`
	NewXP      int          `json:"new_xp"`
	NewLevel   int          `json:"new_level"`
	LevelUp    bool         `json:"level_up"`
	AvatarMood storage.Mood `json:"avatar_mood"`
	AIMessage  string       `json:"ai_message"`
}

type avatarResponse struct {
	Mood      storage.Mood      `json:"mood"`
	Animation storage.Animation `json:"animation"`
	Message   string            `json:"message"`
	XP        int               `json:"xp"`
	Level     int               `json:"level"`
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	XPReward    *int    `json:"xp_reward"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Avatar Productivity API is running!"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.engine.CreateUser(r.Context(), engine.CreateUserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.engine.GetUser(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "user_id query parameter is required", Code: string(engine.CodeInvalidArgument)})
		return
	}
	var req createTaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	in := engine.CreateTaskInput{UserID: userID, Title: req.Title, Description: req.Description}
	if req.XPReward != nil {
		if *req.XPReward <= 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "xp_reward must be positive", Code: string(engine.CodeInvalidArgument)})
			return
		}
		in.XPReward = *req.XPReward
	}
	t, err := s.engine.CreateTask(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.engine.ListTasks(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []storage.Task{}
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteTask(r.Context(), r.PathValue("task_id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.TaskID) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "task_id is required", Code: string(engine.CodeInvalidArgument)})
		return
	}
	res, err := s.engine.CompleteTask(r.Context(), req.TaskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, completeResponse{
		Message:    "Task completed successfully!",
		XPGained:   res.XPGained,
		NewXP:      res.NewXP,
		NewLevel:   res.NewLevel,
		LevelUp:    res.LevelUp,
		AvatarMood: res.AvatarMood,
		AIMessage:  res.AIMessage,
	})
}

func (s *Server) handleAvatarState(w http.ResponseWriter, r *http.Request) {
	v, err := s.engine.AvatarState(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, avatarResponse{
		Mood:      v.Mood,
		Animation: v.Animation,
		Message:   v.Message,
		XP:        v.XP,
		Level:     v.Level,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body", Code: string(engine.CodeInvalidArgument)})
		return false
	}
	return true
}

// statusFor maps domain error codes to HTTP statuses. An integrity fault is a
// missing user like NotFound, told apart by its code.
func statusFor(code engine.Code) int {
	switch code {
	case engine.CodeNotFound, engine.CodeIntegrityFault:
		return http.StatusNotFound
	case engine.CodeAlreadyCompleted, engine.CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var e *engine.Error
	if errors.As(err, &e) {
		if e.Code == engine.CodeIntegrityFault {
			s.logger.Error("integrity fault", zap.Error(err))
		}
		s.writeJSON(w, statusFor(e.Code), errorResponse{Detail: e.Message, Code: string(e.Code)})
		return
	}
	s.logger.Error("internal error", zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error", Code: "INTERNAL"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}
