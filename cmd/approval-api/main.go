// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the approval service API that provides a RESTful API for
// meetings, topics and votings and handles NATS requests for the voting API.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/GlazyrinAV/corporate-approval/internal/api"
	"github.com/GlazyrinAV/corporate-approval/internal/handlers"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/service"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

func main() {
	flags := parseFlags()

	logging.InitStructureLogConfig()

	env, err := loadEnvironment(flags.ConfigFile)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error loading configuration")
		os.Exit(1)
	}
	port := utils.CoalesceString(flags.Port, env.Port)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		os.Exit(1)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
		}
	}()

	infra, err := setupInfrastructure(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err, "store_backend", env.StoreBackend).Error("error setting up infrastructure")
		return
	}
	defer infra.close()

	// Initialize services
	services := service.NewServices(
		infra.repos,
		infra.messageBuilder,
		infra.locker,
		infra.metrics,
		env.serviceConfig(),
	)

	svc := api.NewApprovalAPI(services, infra.ready)
	httpServer := setupHTTPServer(flags, port, newRouter(svc, infra.registry), &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	if infra.natsConn != nil {
		approvalHandler := handlers.NewApprovalHandler(services.Voting, services.Voter)
		if err := createNatsSubcriptions(ctx, approvalHandler, infra.natsConn); err != nil {
			slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
			return
		}
	}

	slog.With("port", port, "store_backend", env.StoreBackend).Info("approval service started")

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, infra.natsConn, &gracefulCloseWG, cancel, env.ShutdownTimeout)
}
