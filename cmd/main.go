package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"solace/pkg/conversation"
	"solace/pkg/emotion"
	"solace/pkg/inference"
	"solace/pkg/journal"
	"solace/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	openAI := inference.NewOpenAIInferencer(apiKey, model)
	if apiKey == "" {
		openAI.ChangeBaseURL("http://localhost:1234/v1")
		openAI.SetModel("")
		log.Info("no OpenAI key set, using local runtime", "base_url", "http://localhost:1234/v1")
	}
	var inf inference.Inferencer = openAI

	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		gemini, err := inference.NewGeminiInferencer(geminiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal("failed creating Gemini client", "error", err)
		}
		inf = gemini
	}

	analyzer := emotion.NewAnalyzer(inf)
	if os.Getenv("SOLACE_STRUCTURED_OUTPUTS") == "1" {
		analyzer.UseStructuredOutputs(true)
	}

	manager := conversation.NewManager(inf,
		conversation.WithMaxIdle(envDuration("SOLACE_MAX_IDLE", 30*time.Minute)),
		conversation.WithCapacity(envInt("SOLACE_MAX_CONVERSATIONS", 256)),
	)
	manager.StartEvictor(ctx, 5*time.Minute)

	journalPath := os.Getenv("SOLACE_MOOD_LOG")
	if journalPath == "" {
		journalPath = "data/mood_log.json"
	}
	store := journal.Open(journalPath)

	srv := server.NewServer(ctx, analyzer, manager, store)
	srv.Echo.Logger.SetLevel(gommon.INFO)

	addr := ":8888"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	log.Info("server listening", "addr", addr)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
	}
	done()
	<-finishedShutDown
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn("invalid duration, using default", "key", key, "value", v)
		return def
	}
	return d
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("invalid integer, using default", "key", key, "value", v)
		return def
	}
	return n
}
