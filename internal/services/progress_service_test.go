package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
)

func TestProgressService_Create(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 2)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	req := &models.CreateProgressRequest{
		StudentID:        student.ID,
		ActivityID:       seed.Activities[0].ID,
		Score:            8,
		MaxScore:         10,
		TimeSpentSeconds: 125,
	}

	resp, err := env.service.Create(ctx, req, parent.ID)
	require.NoError(t, err)

	assert.Equal(t, 8.0, resp.Score)
	assert.Equal(t, 80.0, resp.PercentageScore)
	assert.Equal(t, "2m 5s", resp.TimeSpentFormatted)
	assert.Equal(t, 1, resp.AttemptNumber)
	assert.True(t, resp.IsCompleted)
	assert.Equal(t, "Amara", resp.StudentNickname)
	assert.Equal(t, "Activity 1", resp.ActivityNameEn)
	assert.Equal(t, "Letters", resp.StageName)
	assert.Equal(t, "Level 1", resp.LevelName)
}

func TestProgressService_Create_FirstAttemptWins(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	req := &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      8,
		MaxScore:   10,
	}

	_, err := env.service.Create(ctx, req, parent.ID)
	require.NoError(t, err)

	// A repeat submission is rejected, even with a better score.
	req.Score = 10
	_, err = env.service.Create(ctx, req, parent.ID)
	assert.ErrorIs(t, err, ErrProgressAlreadyRecorded)

	// The original record stays untouched.
	records, err := env.service.GetByStudent(ctx, student.ID, parent.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 8.0, records[0].Score)
}

func TestProgressService_Create_DuplicateKeyRace(t *testing.T) {
	// A concurrent insert that slips past the existence check must still be
	// rejected by the unique index and translated to the duplicate error.
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	first := &models.StudentProgress{
		StudentID:   &student.ID,
		ActivityID:  seed.Activities[0].ID,
		Score:       5,
		MaxScore:    10,
		CompletedAt: time.Now().UTC(),
	}
	require.NoError(t, env.repo.Progress().Create(ctx, nil, first))

	second := &models.StudentProgress{
		StudentID:   &student.ID,
		ActivityID:  seed.Activities[0].ID,
		Score:       9,
		MaxScore:    10,
		CompletedAt: time.Now().UTC(),
	}
	err := env.repo.Progress().Create(ctx, nil, second)
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateError(err))
}

func TestProgressService_Create_OwnershipFailsClosed(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	owner := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")
	student := seedStudent(t, env.db, owner.ID, "Amara")
	ghost := seedStudent(t, env.db, owner.ID, "Ghost")
	require.NoError(t, env.db.Delete(ghost).Error)

	// A foreign student and a missing student produce the same error, so a
	// caller cannot probe for profile existence.
	foreignReq := &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      5,
		MaxScore:   10,
	}
	_, foreignErr := env.service.Create(ctx, foreignReq, other.ID)

	missingReq := &models.CreateProgressRequest{
		StudentID:  ghost.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      5,
		MaxScore:   10,
	}
	_, missingErr := env.service.Create(ctx, missingReq, other.ID)

	var foreignPerm, missingPerm *PermissionError
	require.ErrorAs(t, foreignErr, &foreignPerm)
	require.ErrorAs(t, missingErr, &missingPerm)
	assert.Equal(t, foreignPerm.Reason, missingPerm.Reason)
}

func TestProgressService_Create_ActivityNotFound(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	req := &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: 9999,
		Score:      5,
		MaxScore:   10,
	}
	_, err := env.service.Create(ctx, req, parent.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestProgressService_Create_ScoreExceedsMax(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	req := &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      11,
		MaxScore:   10,
	}
	_, err := env.service.Create(ctx, req, parent.ID)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "score", verrs[0].Field)
}

func TestProgressService_Update_LockedFields(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	created, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      6,
		MaxScore:   10,
	}, parent.ID)
	require.NoError(t, err)

	newScore := 10.0
	_, err = env.service.Update(ctx, created.ID, &models.UpdateProgressRequest{Score: &newScore}, parent.ID)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "locked_field", verrs[0].Rule)

	// The mutable fields still go through.
	seconds := 300
	notes := "retried the tracing part"
	updated, err := env.service.Update(ctx, created.ID, &models.UpdateProgressRequest{
		TimeSpentSeconds: &seconds,
		Notes:            &notes,
	}, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, updated.TimeSpentSeconds)
	assert.Equal(t, "5m 0s", updated.TimeSpentFormatted)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	assert.Equal(t, 6.0, updated.Score)
}

func TestProgressService_GetByID_NotFound(t *testing.T) {
	env := newProgressTestEnv(t)

	_, err := env.service.GetByID(context.Background(), 42, "parent-1")
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestProgressService_Delete(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	created, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      6,
		MaxScore:   10,
	}, parent.ID)
	require.NoError(t, err)

	// Another parent cannot delete the record.
	var permErr *PermissionError
	err = env.service.Delete(ctx, created.ID, other.ID)
	require.ErrorAs(t, err, &permErr)

	require.NoError(t, env.service.Delete(ctx, created.ID, parent.ID))

	_, err = env.service.GetByID(ctx, created.ID, parent.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestProgressService_List_ParentScoping(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 3)
	parentA := seedParent(t, env.db, "parent-a")
	parentB := seedParent(t, env.db, "parent-b")
	childless := seedParent(t, env.db, "parent-c")
	studentA := seedStudent(t, env.db, parentA.ID, "Amara")
	studentB := seedStudent(t, env.db, parentB.ID, "Bilal")

	for _, activity := range seed.Activities[:2] {
		_, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:  studentA.ID,
			ActivityID: activity.ID,
			Score:      5,
			MaxScore:   10,
		}, parentA.ID)
		require.NoError(t, err)
	}
	_, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:  studentB.ID,
		ActivityID: seed.Activities[2].ID,
		Score:      5,
		MaxScore:   10,
	}, parentB.ID)
	require.NoError(t, err)

	listA, err := env.service.List(ctx, &models.ListProgressParams{}, parentA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), listA.TotalCount)

	listB, err := env.service.List(ctx, &models.ListProgressParams{}, parentB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listB.TotalCount)

	// A parent without students gets an empty page, never the whole table.
	listC, err := env.service.List(ctx, &models.ListProgressParams{}, childless.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), listC.TotalCount)
	assert.Empty(t, listC.Items)

	// Filtering on another parent's student is denied.
	var permErr *PermissionError
	_, err = env.service.List(ctx, &models.ListProgressParams{StudentID: &studentB.ID}, parentA.ID)
	require.ErrorAs(t, err, &permErr)

	// The admin listing sees everything.
	all, err := env.service.ListAll(ctx, &models.ListProgressParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)
}

func TestProgressService_List_Pagination(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 3)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	for _, activity := range seed.Activities {
		_, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:  student.ID,
			ActivityID: activity.ID,
			Score:      5,
			MaxScore:   10,
		}, parent.ID)
		require.NoError(t, err)
	}

	page1, err := env.service.List(ctx, &models.ListProgressParams{Page: 1, Size: 2}, parent.ID)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 2)
	assert.Equal(t, int64(3), page1.TotalCount)
	assert.Equal(t, 2, page1.TotalPages)
	assert.False(t, page1.HasPreviousPage)
	assert.True(t, page1.HasNextPage)

	page2, err := env.service.List(ctx, &models.ListProgressParams{Page: 2, Size: 2}, parent.ID)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 1)
	assert.True(t, page2.HasPreviousPage)
	assert.False(t, page2.HasNextPage)
}

func TestProgressService_List_SortByScore(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 3)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	scores := []float64{4, 9, 6}
	for i, activity := range seed.Activities {
		_, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:  student.ID,
			ActivityID: activity.ID,
			Score:      scores[i],
			MaxScore:   10,
		}, parent.ID)
		require.NoError(t, err)
	}

	list, err := env.service.List(ctx, &models.ListProgressParams{
		SortBy:         "score",
		SortDescending: true,
	}, parent.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, 9.0, list.Items[0].Score)
	assert.Equal(t, 4.0, list.Items[2].Score)
}

func TestProgressService_GetSummary(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 2)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	_, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:        student.ID,
		ActivityID:       seed.Activities[0].ID,
		Score:            8,
		MaxScore:         10,
		TimeSpentSeconds: 60,
	}, parent.ID)
	require.NoError(t, err)

	_, err = env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:        student.ID,
		ActivityID:       seed.Activities[1].ID,
		Score:            5,
		MaxScore:         10,
		TimeSpentSeconds: 65,
	}, parent.ID)
	require.NoError(t, err)

	summary, err := env.service.GetSummary(ctx, student.ID, parent.ID)
	require.NoError(t, err)

	assert.Equal(t, "Amara", summary.StudentNickname)
	assert.Equal(t, 2, summary.TotalActivitiesCompleted)
	assert.Equal(t, 2, summary.TotalActivitiesAttempted)
	assert.Equal(t, 125, summary.TotalTimeSpentSeconds)
	assert.Equal(t, "2m 5s", summary.TotalTimeSpentFormatted)
	assert.Equal(t, 65.0, summary.AverageScorePercent)
	require.NotNil(t, summary.LastActivityDate)
	assert.False(t, summary.LastActivityDate.IsZero())
	assert.Len(t, summary.RecentActivities, 2)
}

func TestProgressService_GetSummary_NoRecords(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	summary, err := env.service.GetSummary(ctx, student.ID, parent.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalActivitiesCompleted)
	assert.Equal(t, 0, summary.TotalActivitiesAttempted)
	assert.Equal(t, 0.0, summary.AverageScorePercent)
	assert.Nil(t, summary.LastActivityDate)
	assert.Empty(t, summary.RecentActivities)
}

func TestProgressService_GetSummary_ZeroMaxScoreCollapsesAverage(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 2)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	_, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:  student.ID,
		ActivityID: seed.Activities[0].ID,
		Score:      8,
		MaxScore:   10,
	}, parent.ID)
	require.NoError(t, err)

	// Legacy rows can carry a zero max score. One such row blanks the
	// average instead of mixing scales.
	legacy := &models.StudentProgress{
		StudentID:   &student.ID,
		ActivityID:  seed.Activities[1].ID,
		Score:       3,
		MaxScore:    0,
		IsCompleted: true,
		CompletedAt: time.Now().UTC(),
	}
	require.NoError(t, env.db.Create(legacy).Error)

	summary, err := env.service.GetSummary(ctx, student.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageScorePercent)
}

func TestProgressService_GetStats(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 3)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	scores := []float64{4, 9, 6}
	for i, activity := range seed.Activities {
		_, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:        student.ID,
			ActivityID:       activity.ID,
			Score:            scores[i],
			MaxScore:         10,
			TimeSpentSeconds: 30,
		}, parent.ID)
		require.NoError(t, err)
	}

	stats, err := env.service.GetStats(ctx, student.ID, parent.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCompleted)
	assert.Equal(t, 3, stats.TotalAttempted)
	assert.Equal(t, 90, stats.TotalTimeSpentSeconds)
	require.NotNil(t, stats.BestActivity)
	require.NotNil(t, stats.WorstActivity)
	assert.Equal(t, 9.0, stats.BestActivity.Score)
	assert.Equal(t, 4.0, stats.WorstActivity.Score)
	assert.Equal(t, 90.0, stats.BestScorePercent)
	assert.Equal(t, 40.0, stats.WorstScorePercent)
	assert.InDelta(t, 63.33, stats.AverageScorePercent, 0.01)
	assert.Equal(t, 3, stats.ActivitiesByStage["Letters"])
	assert.InDelta(t, 63.33, stats.AverageScoreByStage["Letters"], 0.01)
	assert.Len(t, stats.RecentProgress, 3)
}

func TestProgressService_Create_ExplicitNotCompleted(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	notCompleted := false
	created, err := env.service.Create(ctx, &models.CreateProgressRequest{
		StudentID:   student.ID,
		ActivityID:  seed.Activities[0].ID,
		Score:       3,
		MaxScore:    10,
		IsCompleted: &notCompleted,
	}, parent.ID)
	require.NoError(t, err)
	assert.False(t, created.IsCompleted)

	// The stored row must carry false too, not a column default.
	var stored models.StudentProgress
	require.NoError(t, env.db.First(&stored, created.ID).Error)
	assert.False(t, stored.IsCompleted)

	summary, err := env.service.GetSummary(ctx, student.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalActivitiesCompleted)
	assert.Equal(t, 1, summary.TotalActivitiesAttempted)
}

func TestProgressService_GetStats_IncompleteRecordsStillGrouped(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 2)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	var ids []uint
	for _, activity := range seed.Activities {
		created, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:  student.ID,
			ActivityID: activity.ID,
			Score:      8,
			MaxScore:   10,
		}, parent.ID)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	notCompleted := false
	_, err := env.service.Update(ctx, ids[1], &models.UpdateProgressRequest{IsCompleted: &notCompleted}, parent.ID)
	require.NoError(t, err)

	stats, err := env.service.GetStats(ctx, student.ID, parent.ID)
	require.NoError(t, err)

	// The stage grouping counts every record; completion only gates the
	// per-stage average.
	assert.Equal(t, 2, stats.ActivitiesByStage["Letters"])
	assert.Equal(t, 80.0, stats.AverageScoreByStage["Letters"])
	assert.Equal(t, 1, stats.TotalCompleted)
	assert.Equal(t, 2, stats.TotalAttempted)
}

func TestProgressService_List_PageBeyondEnd(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 3)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	for _, activity := range seed.Activities {
		_, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:  student.ID,
			ActivityID: activity.ID,
			Score:      5,
			MaxScore:   10,
		}, parent.ID)
		require.NoError(t, err)
	}

	list, err := env.service.List(ctx, &models.ListProgressParams{Page: 5, Size: 2}, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, int64(3), list.TotalCount)
	assert.Equal(t, 2, list.TotalPages)
	assert.False(t, list.HasNextPage)
	assert.True(t, list.HasPreviousPage)

	// The short-circuit for a parent without students keeps the same flag
	// semantics.
	childless := seedParent(t, env.db, "parent-2")
	empty, err := env.service.List(ctx, &models.ListProgressParams{Page: 3, Size: 2}, childless.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.False(t, empty.HasNextPage)
	assert.True(t, empty.HasPreviousPage)
}

func TestProgressService_GetStats_ForeignStudentDenied(t *testing.T) {
	env := newProgressTestEnv(t)
	ctx := context.Background()

	seedContent(t, env.db, 1)
	owner := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")
	student := seedStudent(t, env.db, owner.ID, "Amara")

	var permErr *PermissionError
	_, err := env.service.GetStats(ctx, student.ID, other.ID)
	require.True(t, errors.As(err, &permErr))
	assert.Equal(t, "student", permErr.Resource)
}
