package postgres

import (
	"context"
	"strings"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountProgressByStudent counts progress records for a student
func (h *SharedHelpers) CountProgressByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.StudentProgress{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

// ApplyProgressFilters applies common filters to progress queries.
// Stage and level predicates go through the activity join.
func (h *SharedHelpers) ApplyProgressFilters(query *gorm.DB, filters repositories.ProgressFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_progress.student_id = ?", *filters.StudentID)
	}
	if len(filters.StudentIDs) > 0 {
		query = query.Where("student_progress.student_id IN ?", filters.StudentIDs)
	}
	if filters.ActivityID != nil {
		query = query.Where("student_progress.activity_id = ?", *filters.ActivityID)
	}
	if filters.StageID != nil {
		query = query.
			Joins("JOIN activities ON activities.id = student_progress.activity_id").
			Where("activities.stage_id = ?", *filters.StageID)
	}
	if filters.LevelID != nil {
		query = query.
			Joins("JOIN activities AS level_activities ON level_activities.id = student_progress.activity_id").
			Joins("JOIN stages ON stages.id = level_activities.stage_id").
			Where("stages.level_id = ?", *filters.LevelID)
	}
	if filters.MinScore != nil {
		query = query.Where("student_progress.score >= ?", *filters.MinScore)
	}
	if filters.MaxScore != nil {
		query = query.Where("student_progress.score <= ?", *filters.MaxScore)
	}
	if filters.IsCompleted != nil {
		query = query.Where("student_progress.is_completed = ?", *filters.IsCompleted)
	}
	if filters.DateFrom != nil {
		query = query.Where("student_progress.completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("student_progress.completed_at <= ?", *filters.DateTo)
	}
	return query
}

// progressSortColumns whitelists client sort keys against real columns.
var progressSortColumns = map[string]string{
	"score":            "score",
	"timespentseconds": "time_spent_seconds",
	"completedat":      "completed_at",
}

// ApplyProgressSort resolves the client sort key with SQL injection protection.
// Unknown keys fall back to completed_at descending.
func (h *SharedHelpers) ApplyProgressSort(query *gorm.DB, sortBy, sortOrder string) *gorm.DB {
	column, ok := progressSortColumns[strings.ToLower(sortBy)]
	if !ok {
		column = "completed_at"
		sortOrder = "desc"
	}

	if !strings.EqualFold(sortOrder, "asc") {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	return query.Order("student_progress." + column + " " + sortOrder)
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"created_at":     true,
		"updated_at":     true,
		"id":             true,
		"sequence_order": true,
		"purchased_at":   true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
