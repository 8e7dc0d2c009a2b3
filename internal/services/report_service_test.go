package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
)

func TestReportService_ExportStudentProgress(t *testing.T) {
	env := newProgressTestEnv(t)
	svc := NewReportService(env.service, testLogger())
	ctx := context.Background()

	seed := seedContent(t, env.db, 2)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	notes := "first try"
	_, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:        student.ID,
		ActivityID:       seed.Activities[0].ID,
		Score:            8,
		MaxScore:         10,
		TimeSpentSeconds: 90,
		Notes:            &notes,
	}, parent.ID)
	require.NoError(t, err)

	_, err = env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[1].ID,
		Score:      5,
		MaxScore:   10,
	}, parent.ID)
	require.NoError(t, err)

	data, filename, err := svc.ExportStudentProgress(ctx, student.ID, parent.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "progress-"+student.ID))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Progress")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, "Activity", rows[0][0])
	assert.Equal(t, "Score", rows[0][3])

	exported := []string{rows[1][0], rows[2][0]}
	assert.ElementsMatch(t, []string{"Activity 1", "Activity 2"}, exported)
	assert.Equal(t, "Letters", rows[1][1])
	assert.Equal(t, "Level 1", rows[1][2])
}

func TestReportService_ExportStudentProgress_Empty(t *testing.T) {
	env := newProgressTestEnv(t)
	svc := NewReportService(env.service, testLogger())
	ctx := context.Background()

	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	data, _, err := svc.ExportStudentProgress(ctx, student.ID, parent.ID)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Progress")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestReportService_ExportStudentProgress_ForeignStudent(t *testing.T) {
	env := newProgressTestEnv(t)
	svc := NewReportService(env.service, testLogger())
	ctx := context.Background()

	owner := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")
	student := seedStudent(t, env.db, owner.ID, "Amara")

	var permErr *PermissionError
	_, _, err := svc.ExportStudentProgress(ctx, student.ID, other.ID)
	require.ErrorAs(t, err, &permErr)
}
