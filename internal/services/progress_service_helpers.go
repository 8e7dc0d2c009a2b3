package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ===== RESPONSE MAPPING =====

func (s *progressService) getResponseByID(ctx context.Context, id uint) (*ProgressResponse, error) {
	progress, err := s.repo.Progress().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload progress: %w", err)
	}
	return s.toResponse(progress), nil
}

func (s *progressService) toResponse(progress *models.StudentProgress) *ProgressResponse {
	resp := &ProgressResponse{
		StudentProgress:    progress,
		PercentageScore:    round2(progress.PercentageScore()),
		TimeSpentFormatted: utils.FormatTimeSpent(progress.TimeSpentSeconds),
	}

	if progress.Student != nil {
		resp.StudentNickname = progress.Student.Nickname
	}

	if progress.Activity.ID != 0 {
		resp.ActivityNameEn = progress.Activity.NameEn
		resp.ActivityNameTa = progress.Activity.NameTa
		resp.ActivityNameSi = progress.Activity.NameSi

		if progress.Activity.Stage.ID != 0 {
			resp.StageID = progress.Activity.Stage.ID
			resp.StageName = progress.Activity.Stage.NameEn

			if progress.Activity.Stage.Level.ID != 0 {
				resp.LevelID = progress.Activity.Stage.Level.ID
				resp.LevelName = progress.Activity.Stage.Level.NameEn
			}
		}
	}

	return resp
}

func (s *progressService) toResponses(records []*models.StudentProgress) []*ProgressResponse {
	responses := make([]*ProgressResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, s.toResponse(record))
	}
	return responses
}

func resolveStageName(record *models.StudentProgress) string {
	if record.Activity.ID == 0 || record.Activity.Stage.ID == 0 {
		return ""
	}
	return record.Activity.Stage.NameEn
}

// ===== PAGINATION AND FILTERS =====

func normalizePage(params *models.ListProgressParams) (page, size int) {
	page = params.Page
	if page < 1 {
		page = 1
	}
	size = params.Size
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func totalPages(total int64, size int) int {
	if size < 1 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func buildProgressFilters(params *models.ListProgressParams) repositories.ProgressFilters {
	page, size := normalizePage(params)

	sortOrder := "asc"
	if params.SortDescending {
		sortOrder = "desc"
	}

	return repositories.ProgressFilters{
		ActivityID:  params.ActivityID,
		StageID:     params.StageID,
		LevelID:     params.LevelID,
		MinScore:    params.MinScore,
		MaxScore:    params.MaxScore,
		IsCompleted: params.IsCompleted,
		DateFrom:    params.FromDate,
		DateTo:      params.ToDate,
		Limit:       size,
		Offset:      (page - 1) * size,
		SortBy:      strings.ToLower(strings.TrimSpace(params.SortBy)),
		SortOrder:   sortOrder,
	}
}

func emptyProgressList(params *models.ListProgressParams) *ProgressListResponse {
	page, size := normalizePage(params)
	return &ProgressListResponse{
		Items:           []*ProgressResponse{},
		PageNumber:      page,
		PageSize:        size,
		HasPreviousPage: page > 1,
	}
}

// ===== SCORING =====

// averageScorePercent averages the raw percentage across every record. The
// average is reported only when all records carry a positive MaxScore;
// otherwise it collapses to 0 rather than mixing scales.
func averageScorePercent(records []*models.StudentProgress) float64 {
	if len(records) == 0 {
		return 0
	}

	var sum float64
	for _, record := range records {
		if record.MaxScore <= 0 {
			return 0
		}
		sum += record.PercentageScore()
	}
	return round2(sum / float64(len(records)))
}

// takeRecent assumes records are already ordered newest first.
func takeRecent(records []*models.StudentProgress, n int) []*models.StudentProgress {
	if len(records) <= n {
		return records
	}
	return records[:n]
}

func round2(value float64) float64 {
	return utils.Round2(value)
}
