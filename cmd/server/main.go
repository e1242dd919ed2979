package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/internal/config"
	"github.com/brandon/mcp-spark/internal/mcp"
	"github.com/brandon/mcp-spark/internal/pdf"
	"github.com/brandon/mcp-spark/internal/spark"
)

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mcp-spark-server version %s\n", version)
		os.Exit(0)
	}
	// Set up logging. Stdout carries the MCP protocol, so logs go to
	// stderr.
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting MCP Spark Server")

	// Open the mail, search, and calendar stores
	store, err := spark.NewStore(cfg.MessagesDBPath(), cfg.SearchDBPath(), cfg.CalendarPath(), spark.DefaultHeuristics(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open Spark databases")
	}

	// Initialize PDF operations and the template store
	templates := pdf.NewTemplateStore(cfg.TemplateDir, logger)
	pdfOps := pdf.NewOperations(cfg.SignatureImagePath, cfg.PDFOutputDir, templates, logger)

	// Create MCP server
	server, err := mcp.NewServer(cfg, store, pdfOps, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	// Wait for shutdown signal, stdin close, or error
	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.WithError(err).Error("Server error")
		}
		cancel()
	}

	logger.Info("Shutting down MCP Spark Server")
}
