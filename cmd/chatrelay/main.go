/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/internal/config"
	"chatrelay/internal/handler"
	"chatrelay/internal/relay"
	"chatrelay/internal/repository"
	"chatrelay/internal/rlog"
	"chatrelay/internal/service"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger, err := rlog.NewRelayLogger(cfg.LogDir, cfg.LogEnabled)
	if err != nil {
		log.Fatalf("opening log directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go logger.Run(ctx)

	httpLog := mustSubsystem(logger, "http")
	relayLog := mustSubsystem(logger, "relay")
	serviceLog := mustSubsystem(logger, "service")

	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}

	users := repository.NewSQLiteUserRepository(db)
	groups := repository.NewSQLiteGroupRepository(db)
	messages := repository.NewSQLiteMessageRepository(db)

	authService := service.NewAuthService(users, serviceLog)
	groupService := service.NewGroupService(groups, users, messages, serviceLog)
	messageService := service.NewMessageService(messages, groups, serviceLog)

	hub := relay.NewHub(groupService, messageService, relayLog, cfg.HistoryLimit)
	go hub.Run()

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionKey))
	authHandler := handler.NewAuthHandler(authService, cookieStore, httpLog)
	socketHandler := handler.NewSocketHandler(hub, cookieStore, cfg.AllowedOrigins, httpLog)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler.NewRouter(authHandler, socketHandler),
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting off...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := hub.Shutdown(5 * time.Second); err != nil {
		log.Printf("hub shutdown: %v", err)
	}
	logger.CloseAll()
}

func mustSubsystem(logger *rlog.RelayLogger, name string) rlog.Logger {
	l, err := logger.RegisterSubsystem(name)
	if err != nil {
		log.Fatalf("registering %s log: %v", name, err)
	}
	return l
}
