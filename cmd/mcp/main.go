package main

import (
	"log"
	"log/slog"
	"os"

	mcpadapter "github.com/kirillkom/legal-doc-assistant/internal/adapters/mcp"
	"github.com/kirillkom/legal-doc-assistant/internal/bootstrap"
	"github.com/kirillkom/legal-doc-assistant/internal/config"
	"github.com/kirillkom/legal-doc-assistant/internal/observability/logging"
)

func main() {
	// stdout carries the MCP protocol stream, so everything else goes to
	// stderr.
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewStderrJSONLogger("legal-doc-assistant-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	server := mcpadapter.NewServer(app.SessionUC, app.LoadUC, app.RunUC, app.ExportUC, app.Artifacts, logger)
	if err := server.Serve(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
