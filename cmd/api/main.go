package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/rantme/backend/internal/config"
	"github.com/zhouzirui/rantme/backend/internal/handler"
	"github.com/zhouzirui/rantme/backend/internal/logger"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	"github.com/zhouzirui/rantme/backend/internal/service/ai"
	"github.com/zhouzirui/rantme/backend/internal/service/chat"
	emotionservice "github.com/zhouzirui/rantme/backend/internal/service/emotion"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("failed to load .env file, continuing with system environment variables only", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	if err := logger.Init(cfg.Log.Logger()); err != nil {
		log.Fatal("failed to initialize logger", "err", err)
	}
	defer logger.Close()
	logMain := logger.For("main")

	toneStore := tone.NewMemoryStore(tone.Seed())

	// Initialize AI service
	var (
		aiService *ai.Service
		chatModel model.ChatModel
	)
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err == nil {
			aiService, err = ai.NewService(ctx, chatModel, toneStore, cfg.AI)
		}
		if err != nil {
			logMain.Warn("failed to initialize AI service, replies will use the fallback text", "err", err)
			aiService, chatModel = nil, nil
		} else {
			logMain.Info("AI service initialized", "model", cfg.AI.Model, "stream", cfg.AI.StreamResponse)
		}
	} else {
		logMain.Info("Ark 凭证未配置，跳过 AI 功能初始化")
	}

	// Initialize emotion service; an unusable provider degrades to the lexicon
	emotionSvc, err := emotionservice.New(ctx, cfg.Emotion, chatModel, cfg.Mood.Lexicon())
	if err != nil {
		logMain.Warn("failed to initialize emotion provider, using lexicon", "provider", cfg.Emotion.Provider, "err", err)
		emotionSvc = emotionservice.NewService(nil, emotionservice.SourceLexicon, cfg.Mood.Lexicon(), emotionservice.Options{})
	}
	logMain.Info("emotion detection ready", "source", emotionSvc.Source(), "fallback", cfg.Emotion.Fallback)

	var replier chat.Replier
	if aiService != nil {
		replier = aiService
	}

	chatService := chat.NewService(emotionSvc, replier, chat.Options{
		Scoring:       cfg.Mood.Scoring,
		CascadeDelete: cfg.Mood.CascadeDelete,
	})

	router := handler.NewRouter(handler.Dependencies{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Tones:          toneStore,
		Chat:           chatService,
		Replier:        replier,
		Classifier:     emotionSvc,
	})

	startServer(ctx, logMain, cfg.Server, router)
}

func startServer(ctx context.Context, logMain *log.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logMain.Info("RantMe backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		logMain.Fatal("server error", "err", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
