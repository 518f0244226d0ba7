package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

const (
	workbookFilename    = "legal_doc_insights.xlsx"
	workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportUseCase renders cached results into downloadable artifacts. Exports
// never call the engine: only ready results can leave the system.
type ExportUseCase struct {
	repo     ports.SessionRepository
	renderer ports.ArtifactRenderer
	workbook ports.WorkbookRenderer
	recorder ports.InsightRecorder
}

func NewExportUseCase(repo ports.SessionRepository, renderer ports.ArtifactRenderer, workbook ports.WorkbookRenderer, recorder ports.InsightRecorder) *ExportUseCase {
	return &ExportUseCase{repo: repo, renderer: renderer, workbook: workbook, recorder: recorder}
}

func (uc *ExportUseCase) ExportFeature(ctx context.Context, sessionID string, feature domain.FeatureID, format domain.ExportFormat) (domain.Artifact, error) {
	descriptor, err := domain.DescriptorFor(feature)
	if err != nil {
		return domain.Artifact{}, err
	}
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.Artifact{}, err
	}
	result, err := session.Result(feature)
	if err != nil {
		return domain.Artifact{}, err
	}
	if result.Status != domain.FeatureReady {
		return domain.Artifact{}, domain.WrapError(domain.ErrPreconditionViolation, "export feature", fmt.Errorf("feature %q has no ready result", feature))
	}
	data, err := uc.renderer.Render(result.Content, descriptor.Title, format)
	if err != nil {
		return domain.Artifact{}, err
	}
	uc.recorder.RecordExportDownload(string(format))
	return domain.Artifact{
		Filename:    descriptor.ExportBase + "." + string(format),
		ContentType: contentTypeFor(format),
		Data:        data,
	}, nil
}

// ExportWorkbook renders every ready result into one spreadsheet.
func (uc *ExportUseCase) ExportWorkbook(ctx context.Context, sessionID string) (domain.Artifact, error) {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.Artifact{}, err
	}
	snapshot := session.Snapshot()
	if !hasReadyResult(snapshot) {
		return domain.Artifact{}, domain.WrapError(domain.ErrPreconditionViolation, "export workbook", errors.New("no ready results to export"))
	}
	data, err := uc.workbook.RenderWorkbook(snapshot)
	if err != nil {
		return domain.Artifact{}, err
	}
	uc.recorder.RecordExportDownload("xlsx")
	return domain.Artifact{Filename: workbookFilename, ContentType: workbookContentType, Data: data}, nil
}

func hasReadyResult(snapshot domain.SessionSnapshot) bool {
	for _, result := range snapshot.Results {
		if result.Status == domain.FeatureReady {
			return true
		}
	}
	return false
}

func contentTypeFor(format domain.ExportFormat) string {
	if format == domain.FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}
