package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/config"
	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
	"github.com/kirillkom/legal-doc-assistant/internal/core/usecase"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/events/nats"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/export"
	exportpdf "github.com/kirillkom/legal-doc-assistant/internal/infrastructure/export/pdf"
	exporttext "github.com/kirillkom/legal-doc-assistant/internal/infrastructure/export/text"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/export/workbook"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/extractor"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/extractor/htmltext"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/extractor/ocr"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/llm/openai"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/sessionstore/memory"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/legal-doc-assistant/internal/observability/metrics"
)

type App struct {
	Config config.Config

	SessionUC ports.SessionManager
	LoadUC    ports.DocumentLoader
	RunUC     ports.FeatureRunner
	ExportUC  ports.InsightExporter

	HTTPMetrics *metrics.HTTPServerMetrics
	Artifacts   ports.ArtifactStore

	closeFn func()
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store := memory.New(
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		time.Duration(cfg.SessionSweepMinutes)*time.Minute,
	)

	httpMetrics := metrics.NewHTTPServerMetrics("legal-doc-assistant")
	insightMetrics := metrics.NewInsightMetrics(httpMetrics.Registry(), "legal-doc-assistant")

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	engine := openai.New(openai.Config{
		BaseURL:  cfg.OpenAIBaseURL,
		APIKey:   cfg.OpenAIAPIKey,
		Model:    cfg.OpenAIModel,
		Timeout:  time.Duration(cfg.OpenAITimeoutSeconds) * time.Second,
		Executor: executor,
		Logger:   logger,
	})

	extraction := extractor.NewService()
	extraction.Register(domain.TypePDF, domain.ModePlain, pdftext.New())
	extraction.Register(domain.TypePDF, domain.ModeOCR, ocr.New(ocr.Config{
		PdftoppmBin:  cfg.OCRPdftoppmBin,
		TesseractBin: cfg.OCRTesseractBin,
		DPI:          cfg.OCRDPI,
		MaxPages:     cfg.OCRMaxPages,
	}))
	extraction.Register(domain.TypeDOCX, domain.ModePlain, docx.New())
	extraction.Register(domain.TypeTXT, domain.ModePlain, plaintext.New())
	extraction.Register(domain.TypeHTML, domain.ModePlain, htmltext.New())

	rendering := export.NewService()
	rendering.Register(domain.FormatTXT, exporttext.New())
	rendering.Register(domain.FormatPDF, exportpdf.New())

	artifacts, err := localfs.New(cfg.ArtifactsPath)
	if err != nil {
		return nil, fmt.Errorf("init artifact store: %w", err)
	}

	var events ports.EventPublisher
	if cfg.EventsEnabled {
		publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubjectPrefix, nats.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
	}

	return &App{
		Config: cfg,

		SessionUC: usecase.NewSessionUseCase(store, cfg.DefaultPersona, insightMetrics),
		LoadUC:    usecase.NewLoadDocumentUseCase(store, extraction, events, insightMetrics),
		RunUC:     usecase.NewRunFeatureUseCase(store, engine, events, insightMetrics),
		ExportUC:  usecase.NewExportUseCase(store, rendering, workbook.New(), insightMetrics),

		HTTPMetrics: httpMetrics,
		Artifacts:   artifacts,

		closeFn: func() {
			if events != nil {
				events.Close()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
