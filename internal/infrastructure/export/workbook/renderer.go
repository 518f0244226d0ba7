package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

const sheet = "Insights"

// Renderer collects every ready insight of a session into one XLSX sheet,
// one row per feature, in catalog order.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderWorkbook(snapshot domain.SessionSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	index, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	headers := []string{"Feature", "Title", "Generated At", "Content"}
	for i, h := range headers {
		write(i+1, 1, h)
	}

	row := 2
	for _, descriptor := range domain.Catalog() {
		result, ok := snapshot.Results[descriptor.ID]
		if !ok || result.Status != domain.FeatureReady {
			continue
		}
		write(1, row, string(descriptor.ID))
		write(2, row, descriptor.Title)
		write(3, row, result.GeneratedAt.UTC().Format("2006-01-02 15:04"))
		write(4, row, result.Content)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 90)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
