package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"solace/pkg/conversation"
	"solace/pkg/journal"
	"solace/pkg/utils"
)

type chatReq struct {
	Text               string `json:"text"`
	Save               bool   `json:"save"`
	EnableConversation bool   `json:"enable_conversation"`
	ConversationID     string `json:"conversation_id"`
}

type chatResp struct {
	Timestamp string `json:"timestamp"`
	InputMood string `json:"input_mood"`

	IntensityLabels    map[string]string  `json:"intensity_labels,omitempty"`
	EmotionScores      map[string]float64 `json:"emotion_scores,omitempty"`
	EmotionReasons     map[string]string  `json:"emotion_reasons,omitempty"`
	NormalizedEmotions map[string]float64 `json:"normalized_emotions,omitempty"`
	BlendedEmotions    map[string]float64 `json:"blended_emotions,omitempty"`

	ConversationEnabled bool   `json:"conversation_enabled"`
	ConversationID      string `json:"conversation_id,omitempty"`
	AIResponse          string `json:"ai_response,omitempty"`
	ConversationError   string `json:"conversation_error,omitempty"`
}

// POST /chat
func (s *Server) handlePostChat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	ctx := c.Request().Context()
	resp := chatResp{
		Timestamp: time.Now().Format(time.RFC3339),
		InputMood: req.Text,
	}

	// Continuation turns skip re-analysis; the persona already carries
	// the emotional context of the first sharing.
	if req.ConversationID != "" {
		reply, err := s.Conversations.Continue(ctx, req.ConversationID, req.Text)
		if err != nil {
			if errors.Is(err, conversation.ErrNotFound) {
				return c.JSON(http.StatusNotFound, utils.ErrJSON("conversation not found"))
			}
			log.Error("continuation failed", "id", req.ConversationID, "error", err)
			resp.ConversationError = err.Error()
			return c.JSON(http.StatusOK, resp)
		}
		resp.ConversationEnabled = true
		resp.ConversationID = req.ConversationID
		resp.AIResponse = reply
		return c.JSON(http.StatusOK, resp)
	}

	profile, companionReply, err := s.Analyzer.Analyze(ctx, req.Text)
	if err != nil {
		// Explicit degradation branch: an analysis failure yields an
		// empty profile, never an error to the client.
		log.Error("emotion analysis failed", "error", err)
	}
	resp.IntensityLabels = profile.IntensityLabels
	resp.EmotionScores = profile.BaseScores
	resp.EmotionReasons = profile.Reasons()
	resp.NormalizedEmotions = profile.Normalized
	resp.BlendedEmotions = profile.Blends

	if req.Save {
		if err := s.Journal.Append(journal.NewEntry(req.Text, profile, companionReply)); err != nil {
			log.Warn("failed saving mood entry", "error", err)
		}
	}

	if req.EnableConversation {
		id, reply, err := s.Conversations.Start(ctx, "", req.Text, profile, companionReply, false)
		if err != nil {
			log.Error("conversation start failed", "error", err)
			resp.ConversationError = err.Error()
		} else {
			resp.ConversationEnabled = true
			resp.ConversationID = id
			resp.AIResponse = reply
		}
	}

	return c.JSON(http.StatusOK, resp)
}
