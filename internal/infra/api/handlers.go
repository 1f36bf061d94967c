package api

import (
	"errors"
	"net/http"

	"personal-reply-bot/internal/domain"
	"personal-reply-bot/internal/infra/logging"
	"personal-reply-bot/internal/infra/metrics"
	"personal-reply-bot/internal/usecase"
)

// Request bodies. Pointer fields distinguish "absent" from "empty".

type chatRequest struct {
	Message *string `json:"message" validate:"required"`
	UserID  *string `json:"user_id"`
}

type trainRequest struct {
	InputText *string `json:"input_text" validate:"required"`
	Reply     *string `json:"reply" validate:"required"`
	Language  *string `json:"language"`
}

type personalityRequest struct {
	Personality *string `json:"personality" validate:"required"`
}

type correctionRequest struct {
	Query     *string `json:"query" validate:"required"`
	Original  *string `json:"original" validate:"required"`
	Corrected *string `json:"corrected" validate:"required"`
	UserID    *string `json:"user_id"`
}

type memoryRequest struct {
	UserID *string `json:"user_id" validate:"required"`
	Fact   *string `json:"fact" validate:"required"`
}

type clearRequest struct {
	UserID *string `json:"user_id"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func orDefault(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// bind decodes and validates a JSON body, writing the error response itself.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "could not read request body")
		return false
	}
	if err := decodeJSON(body, dst); err != nil {
		writeDetail(w, http.StatusBadRequest, errBadJSON.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail(err))
		return false
	}
	return true
}

// botError maps a ReplyBot failure to a response.
func (s *Server) botError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, domain.ErrInvalidArgument) {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	logging.With(r.Context(), s.log).Error().Err(err).Str("op", op).Msg("reply bot call failed")
	writeDetail(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "running",
		"bot":    BotName,
		"endpoints": map[string]string{
			"/chat":          "POST - Send a message",
			"/train":         "POST - Add training example",
			"/personality":   "POST - Change personality",
			"/correct":       "POST - Correct a reply",
			"/stats":         "GET - Get bot stats",
			"/memory":        "POST - Add long-term memory",
			"/clear":         "POST - Clear conversation",
			"/personalities": "GET - List personalities",
		},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.bind(w, r, &req) {
		return
	}
	userID := orDefault(req.UserID, usecase.DefaultUserID)
	ctx := logging.WithPlatform(logging.WithUserID(r.Context(), userID), "api")

	res, err := s.bot.GetReply(ctx, *req.Message, userID)
	metrics.IncBotReply("api", err == nil)
	if err != nil {
		s.botError(w, r.WithContext(ctx), "get_reply", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reply":   res.Reply,
		"user_id": userID,
		"stats":   res.Stats,
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if !s.bind(w, r, &req) {
		return
	}
	lang := orDefault(req.Language, "en")
	if err := s.bot.Train(r.Context(), *req.InputText, *req.Reply, lang); err != nil {
		s.botError(w, r, "train", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Training example added"})
}

func (s *Server) handlePersonality(w http.ResponseWriter, r *http.Request) {
	var req personalityRequest
	if !s.bind(w, r, &req) {
		return
	}
	ok, err := s.bot.SetPersonality(r.Context(), *req.Personality)
	if err != nil {
		s.botError(w, r, "set_personality", err)
		return
	}
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid personality")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "personality": *req.Personality})
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if !s.bind(w, r, &req) {
		return
	}
	userID := orDefault(req.UserID, usecase.DefaultUserID)
	msg, err := s.bot.Correct(r.Context(), *req.Query, *req.Original, *req.Corrected, userID)
	if err != nil {
		s.botError(w, r, "correct", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: msg})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.bot.GetStats(r.Context())
	if err != nil {
		s.botError(w, r, "get_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleMemory takes user_id and fact as query parameters, or as a JSON body when neither is in the query.
func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	q := r.URL.Query()
	if q.Has("user_id") || q.Has("fact") {
		if q.Has("user_id") {
			v := q.Get("user_id")
			req.UserID = &v
		}
		if q.Has("fact") {
			v := q.Get("fact")
			req.Fact = &v
		}
		if err := s.validate.Struct(&req); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, validationDetail(err))
			return
		}
	} else if !s.bind(w, r, &req) {
		return
	}

	if err := s.bot.AddMemory(r.Context(), *req.UserID, *req.Fact); err != nil {
		s.botError(w, r, "add_memory", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Remembered: " + *req.Fact})
}

// handleClear takes user_id from the query, then an optional JSON body, else "default".
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if q := r.URL.Query(); q.Has("user_id") {
		v := q.Get("user_id")
		req.UserID = &v
	} else {
		body, err := readBody(r)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "could not read request body")
			return
		}
		if len(body) > 0 {
			if err := decodeJSON(body, &req); err != nil {
				writeDetail(w, http.StatusBadRequest, errBadJSON.Error())
				return
			}
		}
	}

	if err := s.bot.ClearConversation(r.Context(), orDefault(req.UserID, usecase.DefaultUserID)); err != nil {
		s.botError(w, r, "clear_conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Conversation cleared"})
}

func (s *Server) handlePersonalities(w http.ResponseWriter, r *http.Request) {
	list, err := s.bot.ListPersonalities(r.Context())
	if err != nil {
		s.botError(w, r, "list_personalities", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
