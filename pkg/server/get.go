package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"solace/pkg/conversation"
	"solace/pkg/utils"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Solace Emotion API",
		"status":  "ok",
	})
}

// GET /history
func (s *Server) handleGetHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"records": s.Journal.All()})
}

// GET /stats
func (s *Server) handleGetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"entries": s.Journal.Len(),
		"stats":   s.Journal.Stats(),
	})
}

// GET /export?format=csv|json
func (s *Server) handleGetExport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		file, err := s.Journal.ExportCSV()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed exporting mood log"))
		}
		return c.JSON(http.StatusOK, map[string]any{"file": file, "format": format})
	case "json":
		bin, err := json.MarshalIndent(s.Journal.All(), "", "  ")
		if err != nil {
			return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed exporting mood log"))
		}
		return c.JSON(http.StatusOK, map[string]any{"file": string(bin), "format": format})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported format: "+format)
	}
}

// GET /api/conversations
func (s *Server) handleListConversations(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"conversations": s.Conversations.List()})
}

// GET /api/conversations/:id
func (s *Server) handleGetConversation(c echo.Context) error {
	info, err := s.Conversations.Info(c.Param("id"))
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return c.JSON(http.StatusNotFound, utils.ErrJSON("conversation not found"))
		}
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON(err.Error()))
	}
	return c.JSON(http.StatusOK, info)
}

// DELETE /api/conversations/:id
func (s *Server) handleEndConversation(c echo.Context) error {
	ended := s.Conversations.End(c.Param("id"))
	return c.JSON(http.StatusOK, map[string]any{"ended": ended})
}
