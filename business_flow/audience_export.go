package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/xuri/excelize/v2"
)

const (
	exportSummarySheet  = "Summary"
	exportEntitiesSheet = "Entities"
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportAudience renders an audience as an XLSX workbook with a summary and an entity sheet
func (f *AudienceFlowImpl) ExportAudience(ctx context.Context, userID, audienceID string) (*dto.AudienceExport, error) {
	audience, err := f.loadAudience(ctx, userID, audienceID)
	if err != nil {
		return nil, err
	}

	content, err := renderAudienceWorkbook(audience)
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return &dto.AudienceExport{
		FileName:    exportFileName(audience.Name),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

func renderAudienceWorkbook(audience *models.Audience) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), exportSummarySheet); err != nil {
		return nil, err
	}
	if _, err := xl.NewSheet(exportEntitiesSheet); err != nil {
		return nil, err
	}

	age := audience.AgeTotals.Data()
	gender := audience.GenderTotals.Data()

	summary := [][]any{
		{"Name", audience.Name},
		{"Created at", audience.CreatedAt.UTC().Format(time.RFC3339)},
		{"Demographics", strings.Join(audience.Demographics, ", ")},
		{},
		{"Age group", "Total"},
	}
	for _, g := range models.AgeGroups {
		v, _ := age.Get(string(g))
		summary = append(summary, []any{string(g), v})
	}
	summary = append(summary,
		[]any{},
		[]any{"Gender", "Total"},
		[]any{string(models.GenderMale), gender.Male},
		[]any{string(models.GenderFemale), gender.Female},
	)
	for i, row := range summary {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := xl.SetSheetRow(exportSummarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = xl.SetColWidth(exportSummarySheet, "A", "A", 18)
	_ = xl.SetColWidth(exportSummarySheet, "B", "B", 48)

	header := []any{"source", "entity_id", "name", "type", "popularity", "image_url"}
	if err := xl.SetSheetRow(exportEntitiesSheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	writeEntities := func(source string, entities []models.Entity) error {
		for _, e := range entities {
			var popularity any
			if e.Popularity != nil {
				popularity = *e.Popularity
			}
			imageURL := ""
			if e.ImageURL != nil {
				imageURL = *e.ImageURL
			}
			record := []any{source, e.EntityID, e.Name, string(e.Type), popularity, imageURL}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := xl.SetSheetRow(exportEntitiesSheet, cell, &record); err != nil {
				return err
			}
			row++
		}
		return nil
	}
	if err := writeEntities("input", audience.Entities); err != nil {
		return nil, err
	}
	if err := writeEntities("recommended", audience.RecommendedEntities); err != nil {
		return nil, err
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportFileName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\"", "", ":", "_", "*", "_", "?", "_", "<", "", ">", "", "|", "_")
	safe := strings.Trim(replacer.Replace(strings.TrimSpace(name)), "_")
	if safe == "" {
		safe = "audience"
	}
	return fmt.Sprintf("%s.xlsx", strings.ToLower(safe))
}
