// Command tibber-mcp is an MCP server exposing Tibber energy data as
// tools over stdio. It reads its access token from the TIBBER_TOKEN
// environment variable and exits non-zero when configuration is
// invalid, before accepting any request.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corroleaus/tibber-mcp/app"
	"github.com/corroleaus/tibber-mcp/config"
	"github.com/corroleaus/tibber-mcp/mcp"
	"github.com/corroleaus/tibber-mcp/tibber"
)

const (
	serverName    = "tibber-mcp"
	serverVersion = "0.1.0"
)

func main() {
	// Logs go to stderr; stdout carries the protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	client := tibber.NewClient(cfg.Token,
		tibber.WithEndpoints(cfg.APIURL, cfg.WSURL),
		tibber.WithTimeout(cfg.Timeout),
		tibber.WithLogger(logger),
	)

	server, err := mcp.NewServer(mcp.ServerConfig{
		Name:    serverName,
		Version: serverVersion,
		Tools:   app.Tools(client, logger),
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		validator := mcp.NewStaticKeyValidator(cfg.HTTPAPIKey)
		httpTransport := mcp.NewHTTPTransport(server, logger, validator)
		go func() {
			if err := httpTransport.Start(ctx, cfg.HTTPAddr); err != nil {
				logger.Error("http transport error", "error", err)
			}
		}()
	}

	if err := mcp.NewStdioTransport(server, logger).Start(ctx); err != nil {
		logger.Error("stdio transport error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
