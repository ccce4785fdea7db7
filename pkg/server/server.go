package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"solace/pkg/conversation"
	"solace/pkg/emotion"
	"solace/pkg/journal"
)

type Server struct {
	Echo          *echo.Echo
	Analyzer      *emotion.Analyzer
	Conversations *conversation.Manager
	Journal       *journal.Store
	Ctx           context.Context
}

func NewServer(ctx context.Context, analyzer *emotion.Analyzer, conversations *conversation.Manager, store *journal.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:          e,
		Analyzer:      analyzer,
		Conversations: conversations,
		Journal:       store,
		Ctx:           ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	s.Echo.POST("/chat", s.handlePostChat)
	s.Echo.GET("/history", s.handleGetHistory)
	s.Echo.GET("/stats", s.handleGetStats)
	s.Echo.GET("/export", s.handleGetExport)

	api := s.Echo.Group("/api")
	api.GET("/conversations", s.handleListConversations)
	api.GET("/conversations/:id", s.handleGetConversation)
	api.DELETE("/conversations/:id", s.handleEndConversation)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
