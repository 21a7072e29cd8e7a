// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/db-federation-service/internal/config"
	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring/prometheus"
	"github.com/canonical/db-federation-service/internal/synclock"
	"github.com/canonical/db-federation-service/internal/tracing"
	"github.com/canonical/db-federation-service/pkg/authentication"
	"github.com/canonical/db-federation-service/pkg/federation"
	"github.com/canonical/db-federation-service/pkg/status"
	"github.com/canonical/db-federation-service/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor(serviceName, logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	s, dbClient, closeStore, err := localStore(specs, specs.DSN, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	locker, closeLocker, err := syncLocker(context.Background(), specs, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	instances, err := config.LoadInstances(specs.InstancesFile)
	if err != nil {
		return err
	}

	registry := federation.NewRegistry(s, tracer, monitor, logger)
	if err := registry.Load(context.Background(), instances); err != nil {
		registry.Close()
		return fmt.Errorf("failed to load instances: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Errorf("failed to close instances: %v", err)
		}
	}()

	logger.Infof("Loaded %d federation instances", len(instances))

	if !specs.AuthenticationEnabled {
		logger.Info("JWT authentication is disabled")
	}

	jwtVerifier, err := authentication.NewJWTAuthenticator(
		context.Background(),
		specs.AuthenticationEnabled,
		authentication.NewConfig(
			specs.AuthenticationIssuer,
			specs.AuthenticationJwksURL,
			specs.AuthenticationAllowedSubjects,
			specs.AuthenticationRequiredScope,
		),
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to setup JWT authenticator: %v", err)
	}

	checks := make(map[string]status.Check)
	if redisLocker, ok := locker.(*synclock.RedisLocker); ok {
		checks["sync_lock"] = redisLocker.Ping
	}

	router := web.NewRouter(
		specs.AuthenticationEnabled,
		federation.NewService(registry, s, locker, specs.SyncLockTTL, tracer, monitor, logger),
		dbClient,
		checks,
		jwtVerifier,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
