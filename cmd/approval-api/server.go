// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/GlazyrinAV/corporate-approval/internal/api"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/middleware"
	"github.com/GlazyrinAV/corporate-approval/pkg/constants"
)

// metricsPath serves the Prometheus registry.
const metricsPath = "/metrics"

// newRouter builds the HTTP handler: the approval routes, the optional
// metrics endpoint and the middleware chain.
func newRouter(svc *api.ApprovalAPI, registry *prometheus.Registry) http.Handler {
	router := chi.NewRouter()
	svc.Register(router)
	if registry != nil {
		router.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	var handler http.Handler = router

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	return otelhttp.NewHandler(handler, "approval-api", otelhttp.WithFilter(func(r *http.Request) bool {
		switch r.URL.Path {
		case constants.LivezPath, constants.ReadyzPath, metricsPath:
			return false
		}
		return true
	}))
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, port string, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + port
	} else {
		addr = flags.Bind + ":" + port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}

// gracefulShutdown stops the HTTP server and drains NATS, then waits for
// both to finish or for the timeout to expire.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc, timeout time.Duration) {
	slog.With("timeout", timeout).Info("graceful shutdown started")

	// Cancel the background context first so the NATS closed handler knows
	// the close is expected.
	cancel()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		gracefulCloseWG.Done()
	}()

	if natsConn != nil && !natsConn.IsClosed() {
		go func() {
			// Drain flushes pending replies and closes the connection, which
			// calls the closed handler.
			if err := natsConn.Drain(); err != nil {
				slog.With(logging.ErrKey, err).Error("error draining NATS connection")
				natsConn.Close()
			}
		}()
	}

	waitDone := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		slog.Info("graceful shutdown completed")
	case <-time.After(timeout + 5*time.Second):
		slog.Error("graceful shutdown timed out")
	}
}
