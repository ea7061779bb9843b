package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"scriptbox/internal/executor"
	"scriptbox/internal/fileserve"
	"scriptbox/internal/server"
	"scriptbox/pkg/utils/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	host := flag.String("host", "", "Override bind host")
	port := flag.Int("port", 0, "Override bind port")
	workingDir := flag.String("working-dir", "", "Override base working directory")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}
	if *host != "" {
		appCfg.Server.Host = *host
	}
	if *port > 0 {
		appCfg.Server.Port = *port
	}
	if *workingDir != "" {
		appCfg.Executor.WorkRoot = *workingDir
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	if appCfg.Executor.APIKey == "" {
		logger.Error(context.Background(), "api key is required (config executor.apiKey or "+apiKeyEnv+")")
		return
	}

	// The work root is created if absent and resolved once; every
	// component receives it explicitly.
	workRoot, err := filepath.Abs(appCfg.Executor.WorkRoot)
	if err != nil {
		logger.Error(context.Background(), "resolve working directory failed", zap.Error(err))
		return
	}
	if err := os.MkdirAll(workRoot, 0755); err != nil {
		logger.Error(context.Background(), "create working directory failed", zap.Error(err))
		return
	}

	fileServer, err := fileserve.New(workRoot)
	if err != nil {
		logger.Error(context.Background(), "init file server failed", zap.Error(err))
		return
	}
	exec := executor.New(fileServer.Root(), appCfg.Executor.Runner)

	router := server.NewRouter(server.Deps{
		Executor: exec,
		Files:    fileServer,
		APIKey:   appCfg.Executor.APIKey,
		WorkRoot: fileServer.Root(),
		CORS:     appCfg.CORS,
	})
	httpServer := server.NewHTTPServer(appCfg.Server.toHTTPConfig(), router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "script execution server started",
			zap.String("addr", httpServer.Addr),
			zap.String("working_dir", fileServer.Root()),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}
