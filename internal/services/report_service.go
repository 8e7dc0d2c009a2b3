package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

type reportService struct {
	progress ProgressService
	logger   *slog.Logger
}

func NewReportService(progress ProgressService, logger *slog.Logger) ReportService {
	return &reportService{
		progress: progress,
		logger:   logger,
	}
}

const reportSheet = "Progress"

// ExportStudentProgress renders the student's full history as an xlsx
// workbook. Ownership is enforced by the progress lookup.
func (s *reportService) ExportStudentProgress(ctx context.Context, studentID, parentID string) ([]byte, string, error) {
	records, err := s.progress.GetByStudent(ctx, studentID, parentID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Activity", "Stage", "Level", "Score", "Max Score", "Percent", "Time Spent", "Completed", "Completed At", "Notes"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, record := range records {
		notes := ""
		if record.Notes != nil {
			notes = *record.Notes
		}

		values := []interface{}{
			record.ActivityNameEn,
			record.StageName,
			record.LevelName,
			record.Score,
			record.MaxScore,
			record.PercentageScore,
			record.TimeSpentFormatted,
			record.IsCompleted,
			record.CompletedAt.Format(time.RFC3339),
			notes,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("progress-%s-%s.xlsx", studentID, time.Now().UTC().Format("20060102"))
	s.logger.Info("Progress report exported", "student_id", studentID, "rows", len(records))

	return buf.Bytes(), filename, nil
}
