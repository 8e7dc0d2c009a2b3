package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
)

func dryRunQuery(t *testing.T) (*gorm.DB, *SharedHelpers) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		DryRun: true,
	})
	require.NoError(t, err)

	return db.Model(&models.StudentProgress{}), NewSharedHelpers(db)
}

func builtSQL(query *gorm.DB) string {
	var out []models.StudentProgress
	return query.Find(&out).Statement.SQL.String()
}

func TestApplyProgressSort_Whitelist(t *testing.T) {
	cases := []struct {
		sortBy    string
		sortOrder string
		want      string
	}{
		{"score", "asc", "ORDER BY student_progress.score ASC"},
		{"Score", "desc", "ORDER BY student_progress.score DESC"},
		{"timespentseconds", "asc", "ORDER BY student_progress.time_spent_seconds ASC"},
		{"completedat", "", "ORDER BY student_progress.completed_at DESC"},
		// Unknown keys fall back to newest-first instead of reaching SQL.
		{"", "", "ORDER BY student_progress.completed_at DESC"},
		{"nickname; DROP TABLE students", "asc", "ORDER BY student_progress.completed_at DESC"},
	}

	for _, tc := range cases {
		query, helpers := dryRunQuery(t)
		sql := builtSQL(helpers.ApplyProgressSort(query, tc.sortBy, tc.sortOrder))
		assert.Contains(t, sql, tc.want, "sortBy=%q sortOrder=%q", tc.sortBy, tc.sortOrder)
	}
}

func TestApplyProgressFilters(t *testing.T) {
	studentID := "student-1"
	stageID := uint(4)
	minScore := 2.5

	query, helpers := dryRunQuery(t)
	sql := builtSQL(helpers.ApplyProgressFilters(query, repositories.ProgressFilters{
		StudentID: &studentID,
		StageID:   &stageID,
		MinScore:  &minScore,
	}))

	assert.Contains(t, sql, "student_progress.student_id = ?")
	assert.Contains(t, sql, "JOIN activities ON activities.id = student_progress.activity_id")
	assert.Contains(t, sql, "activities.stage_id = ?")
	assert.Contains(t, sql, "student_progress.score >= ?")
}

func TestApplyProgressFilters_StudentIDs(t *testing.T) {
	query, helpers := dryRunQuery(t)
	sql := builtSQL(helpers.ApplyProgressFilters(query, repositories.ProgressFilters{
		StudentIDs: []string{"a", "b"},
	}))

	assert.Contains(t, sql, "student_progress.student_id IN")
}

func TestApplyPaginationAndSort(t *testing.T) {
	query, helpers := dryRunQuery(t)
	sql := builtSQL(helpers.ApplyPaginationAndSort(query, "purchased_at", "asc", 10, 20))
	assert.Contains(t, sql, "ORDER BY purchased_at ASC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")

	// Columns outside the whitelist collapse to created_at.
	query, helpers = dryRunQuery(t)
	sql = builtSQL(helpers.ApplyPaginationAndSort(query, "amount; --", "asc", 0, 0))
	assert.Contains(t, sql, "ORDER BY created_at ASC")
}
