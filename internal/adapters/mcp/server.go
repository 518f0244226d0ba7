package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

const serverVersion = "1.0.0"

// Server exposes the assistant over MCP stdio. One server process serves one
// client, so it runs everything inside a single lazily created session; if
// the session registry expires it between calls, the next call starts fresh.
type Server struct {
	sessions  ports.SessionManager
	loader    ports.DocumentLoader
	runner    ports.FeatureRunner
	exporter  ports.InsightExporter
	artifacts ports.ArtifactStore
	logger    *slog.Logger

	mu        sync.Mutex
	sessionID string
}

func NewServer(
	sessions ports.SessionManager,
	loader ports.DocumentLoader,
	runner ports.FeatureRunner,
	exporter ports.InsightExporter,
	artifacts ports.ArtifactStore,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		sessions:  sessions,
		loader:    loader,
		runner:    runner,
		exporter:  exporter,
		artifacts: artifacts,
		logger:    logger,
	}
}

func (s *Server) ensureSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != "" {
		if _, err := s.sessions.Get(ctx, s.sessionID); err == nil {
			return s.sessionID, nil
		}
	}

	snapshot, err := s.sessions.Create(ctx)
	if err != nil {
		return "", err
	}
	s.sessionID = snapshot.ID
	s.logger.Info("mcp_session_started", "session_id", snapshot.ID)
	return snapshot.ID, nil
}

// documentSummary is the document state without the extracted text, which can
// run to megabytes and has no place in a tool reply.
type documentSummary struct {
	SourceID      string    `json:"source_id,omitempty"`
	Status        string    `json:"status"`
	Version       uint64    `json:"version"`
	TextChars     int       `json:"text_chars"`
	FailureDetail string    `json:"failure_detail,omitempty"`
	DeclaredType  string    `json:"declared_type,omitempty"`
	Mode          string    `json:"extraction_mode,omitempty"`
	LoadedAt      time.Time `json:"loaded_at"`
}

func summarizeDocument(document domain.Document) documentSummary {
	return documentSummary{
		SourceID:      document.SourceID,
		Status:        string(document.Status),
		Version:       document.Version,
		TextChars:     utf8.RuneCountInString(document.Text),
		FailureDetail: document.FailureDetail,
		DeclaredType:  string(document.DeclaredType),
		Mode:          string(document.Mode),
		LoadedAt:      document.LoadedAt,
	}
}

func (s *Server) loadDocumentFromPath(ctx context.Context, path, mode string, force bool) (domain.Document, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return domain.Document{}, err
	}

	declaredType, err := domain.DocumentTypeFromFilename(path)
	if err != nil {
		return domain.Document{}, err
	}
	extractionMode, err := domain.ParseExtractionMode(mode)
	if err != nil {
		return domain.Document{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, domain.WrapError(domain.ErrInvalidInput, "read document file", err)
	}

	return s.loader.Load(ctx, sessionID, domain.Upload{
		SourceID:     path,
		Data:         data,
		DeclaredType: declaredType,
		Mode:         extractionMode,
		Force:        force,
	})
}

func (s *Server) clearDocument(ctx context.Context) (domain.Document, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	return s.loader.Clear(ctx, sessionID)
}

func (s *Server) setPersona(ctx context.Context, persona string) (string, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return "", err
	}
	return s.sessions.SetPersona(ctx, sessionID, persona)
}

func (s *Server) setFeatureInput(ctx context.Context, feature domain.FeatureID, text string) error {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return err
	}
	return s.sessions.SetFeatureInput(ctx, sessionID, feature, text)
}

func (s *Server) runFeature(ctx context.Context, feature domain.FeatureID, input string) (domain.FeatureResult, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return domain.FeatureResult{}, err
	}
	return s.runner.Run(ctx, sessionID, feature, input)
}

func (s *Server) getResult(ctx context.Context, feature domain.FeatureID) (domain.FeatureResult, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return domain.FeatureResult{}, err
	}
	return s.runner.Result(ctx, sessionID, feature)
}

func (s *Server) getDocument(ctx context.Context) (domain.Document, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	snapshot, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Document{}, err
	}
	return snapshot.Document, nil
}

func (s *Server) exportResult(ctx context.Context, feature domain.FeatureID, format string) (string, error) {
	sessionID, err := s.ensureSession(ctx)
	if err != nil {
		return "", err
	}

	exportFormat, err := domain.ParseExportFormat(format)
	if err != nil {
		return "", err
	}
	artifact, err := s.exporter.ExportFeature(ctx, sessionID, feature, exportFormat)
	if err != nil {
		return "", err
	}
	return s.artifacts.Save(ctx, artifact.Filename, artifact.Data)
}

// MCPServer assembles the tool surface.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		"legal-doc-assistant",
		serverVersion,
		server.WithToolCapabilities(false),
	)

	srv.AddTool(mcp.NewTool("list_features",
		mcp.WithDescription("List the analysis feature catalog with input requirements."),
	), s.handleListFeatures)

	srv.AddTool(mcp.NewTool("load_document",
		mcp.WithDescription("Load a legal document from a server-local file into the session. Re-loading the same path is a no-op unless force is set."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to a .pdf, .docx, .txt or .html file.")),
		mcp.WithString("mode", mcp.Description("Extraction mode: plain (default) or ocr (PDF only).")),
		mcp.WithBoolean("force", mcp.Description("Reload even if this path is already the loaded source.")),
	), s.handleLoadDocument)

	srv.AddTool(mcp.NewTool("clear_document",
		mcp.WithDescription("Clear the loaded document and every cached result."),
	), s.handleClearDocument)

	srv.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Show the state of the loaded document."),
	), s.handleGetDocument)

	srv.AddTool(mcp.NewTool("set_persona",
		mcp.WithDescription("Replace the instruction persona used for generated answers. Blank resets to the default."),
		mcp.WithString("persona", mcp.Required(), mcp.Description("Persona text, e.g. 'You are a contracts paralegal.'")),
	), s.handleSetPersona)

	srv.AddTool(mcp.NewTool("set_feature_input",
		mcp.WithDescription("Stage input text for an input-driven feature such as qa-answer or clause-explanation."),
		mcp.WithString("feature_id", mcp.Required(), mcp.Description("Feature id from list_features.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Input text for the feature.")),
	), s.handleSetFeatureInput)

	srv.AddTool(mcp.NewTool("run_feature",
		mcp.WithDescription("Run an analysis feature against the loaded document and return the generated content."),
		mcp.WithString("feature_id", mcp.Required(), mcp.Description("Feature id from list_features.")),
		mcp.WithString("input", mcp.Description("Inline input for input-driven features; overrides staged input.")),
	), s.handleRunFeature)

	srv.AddTool(mcp.NewTool("get_result",
		mcp.WithDescription("Read the cached result slot for a feature."),
		mcp.WithString("feature_id", mcp.Required(), mcp.Description("Feature id from list_features.")),
	), s.handleGetResult)

	srv.AddTool(mcp.NewTool("export_result",
		mcp.WithDescription("Render one ready result to a file in the artifacts directory and return its path."),
		mcp.WithString("feature_id", mcp.Required(), mcp.Description("Feature id from list_features.")),
		mcp.WithString("format", mcp.Description("txt (default) or pdf.")),
	), s.handleExportResult)

	return srv
}

// Serve blocks on the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.MCPServer())
}

func (s *Server) handleListFeatures(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolJSON(map[string]any{"features": domain.Catalog()})
}

func (s *Server) handleLoadDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := request.GetString("mode", "")
	force := request.GetBool("force", false)

	document, err := s.loadDocumentFromPath(ctx, path, mode, force)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(summarizeDocument(document))
}

func (s *Server) handleClearDocument(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := s.clearDocument(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(summarizeDocument(document))
}

func (s *Server) handleGetDocument(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := s.getDocument(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(summarizeDocument(document))
}

func (s *Server) handleSetPersona(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	persona, err := request.RequireString("persona")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	applied, err := s.setPersona(ctx, persona)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("persona set to: %s", applied)), nil
}

func (s *Server) handleSetFeatureInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	featureID, err := request.RequireString("feature_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.setFeatureInput(ctx, domain.FeatureID(featureID), text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("input staged for %s", featureID)), nil
}

func (s *Server) handleRunFeature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	featureID, err := request.RequireString("feature_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input := request.GetString("input", "")

	result, err := s.runFeature(ctx, domain.FeatureID(featureID), input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.Content), nil
}

func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	featureID, err := request.RequireString("feature_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.getResult(ctx, domain.FeatureID(featureID))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(result)
}

func (s *Server) handleExportResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	featureID, err := request.RequireString("feature_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := request.GetString("format", "")

	path, err := s.exportResult(ctx, domain.FeatureID(featureID), format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(path), nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
