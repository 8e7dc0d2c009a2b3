package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

type contentTestEnv struct {
	*progressTestEnv
	content ContentService
}

func newContentTestEnv(t *testing.T) *contentTestEnv {
	t.Helper()

	base := newProgressTestEnv(t)
	return &contentTestEnv{
		progressTestEnv: base,
		content:         NewContentService(base.repo, base.db, testLogger(), validator.New(), base.service),
	}
}

func TestContentService_LevelLifecycle(t *testing.T) {
	env := newContentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)

	level, err := env.content.CreateLevel(ctx, &CreateLevelRequest{
		LanguageID:    seed.Language.ID,
		NameEn:        "Level 2",
		NameTa:        "நிலை 2",
		NameSi:        "මට්ටම 2",
		SequenceOrder: 2,
	})
	require.NoError(t, err)
	assert.False(t, level.IsFree)

	fetched, err := env.content.GetLevel(ctx, level.ID)
	require.NoError(t, err)
	assert.Equal(t, "Level 2", fetched.NameEn)
	assert.Equal(t, "நிலை 2", fetched.NameTa)

	nameEn := "Level Two"
	free := true
	updated, err := env.content.UpdateLevel(ctx, level.ID, &UpdateLevelRequest{NameEn: &nameEn, IsFree: &free})
	require.NoError(t, err)
	assert.Equal(t, "Level Two", updated.NameEn)
	assert.True(t, updated.IsFree)

	levels, err := env.content.ListLevels(ctx, &seed.Language.ID)
	require.NoError(t, err)
	assert.Len(t, levels, 2)

	require.NoError(t, env.content.DeleteLevel(ctx, level.ID))
	_, err = env.content.GetLevel(ctx, level.ID)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestContentService_CreateLevel_UnknownLanguage(t *testing.T) {
	env := newContentTestEnv(t)

	_, err := env.content.CreateLevel(context.Background(), &CreateLevelRequest{
		LanguageID:    999,
		NameEn:        "Orphan",
		SequenceOrder: 1,
	})
	assert.ErrorIs(t, err, ErrLanguageNotFound)
}

func TestContentService_StageAndActivity(t *testing.T) {
	env := newContentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)

	stage, err := env.content.CreateStage(ctx, &CreateStageRequest{
		LevelID:       seed.Level.ID,
		NameEn:        "Numbers",
		SequenceOrder: 2,
	})
	require.NoError(t, err)

	activity, err := env.content.CreateActivity(ctx, &CreateActivityRequest{
		StageID:       stage.ID,
		NameEn:        "Count to ten",
		SequenceOrder: 1,
		DetailsJSON:   []byte(`{"target":10}`),
	})
	require.NoError(t, err)

	stages, err := env.content.ListStagesByLevel(ctx, seed.Level.ID)
	require.NoError(t, err)
	assert.Len(t, stages, 2)

	activities, err := env.content.ListActivitiesByStage(ctx, stage.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Count to ten", activities[0].NameEn)

	_, err = env.content.ListActivitiesByStage(ctx, 999)
	assert.ErrorIs(t, err, ErrStageNotFound)

	require.NoError(t, env.content.DeleteActivity(ctx, activity.ID))
	_, err = env.content.GetActivity(ctx, activity.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestContentService_ExerciseLifecycle(t *testing.T) {
	env := newContentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)

	exercise, err := env.content.CreateExercise(ctx, &CreateExerciseRequest{
		ActivityID:    seed.Activities[0].ID,
		JSONData:      []byte(`{"question":"A or B?"}`),
		SequenceOrder: 1,
	})
	require.NoError(t, err)

	exercises, err := env.content.ListExercisesByActivity(ctx, seed.Activities[0].ID)
	require.NoError(t, err)
	assert.Len(t, exercises, 1)

	order := 3
	updated, err := env.content.UpdateExercise(ctx, exercise.ID, &UpdateExerciseRequest{SequenceOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.SequenceOrder)

	require.NoError(t, env.content.DeleteExercise(ctx, exercise.ID))
	_, err = env.content.GetExercise(ctx, exercise.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestContentService_SubmitExerciseResult(t *testing.T) {
	env := newContentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 1)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	exercise, err := env.content.CreateExercise(ctx, &CreateExerciseRequest{
		ActivityID:    seed.Activities[0].ID,
		JSONData:      []byte(`{"question":"A or B?"}`),
		SequenceOrder: 1,
	})
	require.NoError(t, err)

	resp, err := env.content.SubmitExerciseResult(ctx, student.ID, &models.SubmitExerciseResultRequest{
		ExerciseID:         exercise.ID,
		Score:              9,
		MaxScore:           10,
		TimeTakenInSeconds: 75,
	}, parent.ID)
	require.NoError(t, err)

	assert.Equal(t, seed.Activities[0].ID, resp.ActivityID)
	assert.Equal(t, 90.0, resp.PercentageScore)
	assert.Equal(t, "1m 15s", resp.TimeSpentFormatted)

	// The submission lands in the same per-activity slot, so a second
	// attempt through the exercise path is rejected too.
	_, err = env.content.SubmitExerciseResult(ctx, student.ID, &models.SubmitExerciseResultRequest{
		ExerciseID: exercise.ID,
		Score:      10,
		MaxScore:   10,
	}, parent.ID)
	assert.ErrorIs(t, err, ErrProgressAlreadyRecorded)
}

func TestContentService_SubmitExerciseResult_UnknownExercise(t *testing.T) {
	env := newContentTestEnv(t)
	ctx := context.Background()

	seedContent(t, env.db, 0)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	_, err := env.content.SubmitExerciseResult(ctx, student.ID, &models.SubmitExerciseResultRequest{
		ExerciseID: 404,
		Score:      1,
		MaxScore:   10,
	}, parent.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestContentService_ListLanguages(t *testing.T) {
	env := newContentTestEnv(t)

	seedContent(t, env.db, 0)
	require.NoError(t, env.db.Create(&models.Language{Name: "Tamil", Code: "ta"}).Error)

	languages, err := env.content.ListLanguages(context.Background())
	require.NoError(t, err)
	assert.Len(t, languages, 2)
}
