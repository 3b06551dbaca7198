package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vedran77/haven/internal/config"
	"github.com/vedran77/haven/internal/database"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/moderation"
	"github.com/vedran77/haven/internal/repository"
	memoryrepo "github.com/vedran77/haven/internal/repository/memory"
	postgresrepo "github.com/vedran77/haven/internal/repository/postgres"
	"github.com/vedran77/haven/internal/scheduler"
	"github.com/vedran77/haven/internal/service"
	"github.com/vedran77/haven/internal/transport/http/handlers"
	"github.com/vedran77/haven/internal/transport/http/middleware"
	"github.com/vedran77/haven/internal/transport/ws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type repos struct {
	users    repository.UserRepository
	servers  repository.ServerRepository
	channels repository.ChannelRepository
	invites  repository.InviteRepository
	messages repository.MessageRepository
	dms      repository.DMRepository
	typing   repository.TypingRepository
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalw("server exited", "error", err)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repos
	if cfg.SelfContained {
		log.Info("running with in-memory store")
		users := memoryrepo.NewUserRepo()
		store = repos{
			users:    users,
			servers:  memoryrepo.NewServerRepo(),
			channels: memoryrepo.NewChannelRepo(),
			invites:  memoryrepo.NewInviteRepo(),
			messages: memoryrepo.NewMessageRepo(users),
			dms:      memoryrepo.NewDMRepo(users),
			typing:   memoryrepo.NewTypingRepo(),
		}
	} else {
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		log.Info("connected to database")
		store = repos{
			users:    postgresrepo.NewUserRepo(pool),
			servers:  postgresrepo.NewServerRepo(pool),
			channels: postgresrepo.NewChannelRepo(pool),
			invites:  postgresrepo.NewInviteRepo(pool),
			messages: postgresrepo.NewMessageRepo(pool),
			dms:      postgresrepo.NewDMRepo(pool),
			typing:   postgresrepo.NewTypingRepo(pool),
		}
	}

	// Services
	guard := service.NewGuard(store.servers, store.channels, store.dms)
	authService := service.NewAuthService(store.users, cfg.JWTSecret)
	serverService := service.NewServerService(store.servers, store.channels, guard)
	channelService := service.NewChannelService(store.channels, store.servers, guard)
	inviteService := service.NewInviteService(store.invites, store.servers, guard)
	dmService := service.NewDMService(store.dms, store.users)
	messageService := service.NewMessageService(store.messages, guard)

	sched := scheduler.New(log)
	defer sched.Shutdown()
	typingService := service.NewTypingService(store.typing, store.users, guard, sched)

	// Moderation
	classifier := moderation.NewHTTPClassifier(cfg.ModerationURL, cfg.ModerationAPIKey, cfg.ModerationModel)
	worker := moderation.NewWorker(store.messages, classifier, cfg.ModerationQueueSize, log)
	messageService.SetModerationQueue(worker)

	// Real-time hub
	hub := ws.NewHub(typingService, guard, log)
	notifier := ws.NewHubNotifier(hub, log)
	messageService.SetNotifier(notifier)
	typingService.SetNotifier(notifier)
	worker.SetNotifier(notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	serverHandler := handlers.NewServerHandler(serverService, log)
	channelHandler := handlers.NewChannelHandler(channelService, log)
	inviteHandler := handlers.NewInviteHandler(inviteService, log)
	messageHandler := handlers.NewMessageHandler(messageService, log)
	typingHandler := handlers.NewTypingHandler(typingService, log)
	dmHandler := handlers.NewDMHandler(dmService, log)

	auth := middleware.Auth(cfg.JWTSecret, log)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret, log))

	// Protected - Servers
	mux.Handle("POST /api/v1/servers", auth(http.HandlerFunc(serverHandler.Create)))
	mux.Handle("GET /api/v1/servers", auth(http.HandlerFunc(serverHandler.List)))
	mux.Handle("GET /api/v1/servers/{id}", auth(http.HandlerFunc(serverHandler.Get)))
	mux.Handle("GET /api/v1/servers/{id}/members", auth(http.HandlerFunc(serverHandler.ListMembers)))

	// Protected - Channels
	mux.Handle("GET /api/v1/servers/{id}/channels", auth(http.HandlerFunc(channelHandler.List)))
	mux.Handle("POST /api/v1/servers/{id}/channels", auth(http.HandlerFunc(channelHandler.Create)))
	mux.Handle("GET /api/v1/channels/{id}", auth(http.HandlerFunc(channelHandler.Get)))
	mux.Handle("DELETE /api/v1/channels/{id}", auth(http.HandlerFunc(channelHandler.Delete)))

	// Protected - Invites
	mux.Handle("POST /api/v1/servers/{id}/invites", auth(http.HandlerFunc(inviteHandler.Create)))
	mux.Handle("GET /api/v1/servers/{id}/invites", auth(http.HandlerFunc(inviteHandler.List)))
	mux.Handle("POST /api/v1/invites/{id}/redeem", auth(http.HandlerFunc(inviteHandler.Redeem)))

	// Protected - Messages and typing, channel side
	mux.Handle("POST /api/v1/channels/{id}/messages", auth(messageHandler.Send(domain.ConversationChannel)))
	mux.Handle("GET /api/v1/channels/{id}/messages", auth(messageHandler.List(domain.ConversationChannel)))
	mux.Handle("POST /api/v1/channels/{id}/typing", auth(typingHandler.Start(domain.ConversationChannel)))
	mux.Handle("GET /api/v1/channels/{id}/typing", auth(typingHandler.List(domain.ConversationChannel)))

	// Protected - DMs
	mux.Handle("POST /api/v1/dms", auth(http.HandlerFunc(dmHandler.Open)))
	mux.Handle("GET /api/v1/dms", auth(http.HandlerFunc(dmHandler.List)))
	mux.Handle("POST /api/v1/dms/{id}/messages", auth(messageHandler.Send(domain.ConversationDM)))
	mux.Handle("GET /api/v1/dms/{id}/messages", auth(messageHandler.List(domain.ConversationDM)))
	mux.Handle("POST /api/v1/dms/{id}/typing", auth(typingHandler.Start(domain.ConversationDM)))
	mux.Handle("GET /api/v1/dms/{id}/typing", auth(typingHandler.List(domain.ConversationDM)))

	// Protected - Message delete
	mux.Handle("DELETE /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Delete)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(mux),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		log.Infow("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
