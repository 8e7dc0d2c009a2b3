package validator

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
)

func validCreateProgress() *models.CreateProgressRequest {
	return &models.CreateProgressRequest{
		StudentID:  uuid.New().String(),
		ActivityID: 1,
		Score:      8,
		MaxScore:   10,
	}
}

func TestValidateProgressCreate_Valid(t *testing.T) {
	v := New()
	assert.Empty(t, v.Business().ValidateProgressCreate(validCreateProgress()))
}

func TestValidateProgressCreate_StudentIDMustBeUUID(t *testing.T) {
	v := New()

	req := validCreateProgress()
	req.StudentID = "not-a-uuid"

	errs := v.Business().ValidateProgressCreate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "uuid4", errs[0].Rule)
}

func TestValidateProgressCreate_ScoreRange(t *testing.T) {
	v := New()

	req := validCreateProgress()
	req.Score = 11

	errs := v.Business().ValidateProgressCreate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "score", errs[0].Field)
	assert.Equal(t, "score_range", errs[0].Rule)
}

func TestValidateProgressCreate_MaxScoreRequired(t *testing.T) {
	v := New()

	req := validCreateProgress()
	req.Score = 0
	req.MaxScore = 0

	errs := v.Business().ValidateProgressCreate(req)
	require.NotEmpty(t, errs)

	rules := make([]string, 0, len(errs))
	for _, e := range errs {
		rules = append(rules, e.Rule)
	}
	assert.Contains(t, rules, "required")
	assert.Contains(t, rules, "score_range")
}

func TestValidateProgressUpdate_LockedFields(t *testing.T) {
	v := New()

	score := 10.0
	maxScore := 20.0
	attempt := 2
	errs := v.Business().ValidateProgressUpdate(&models.UpdateProgressRequest{
		Score:         &score,
		MaxScore:      &maxScore,
		AttemptNumber: &attempt,
	})

	require.Len(t, errs, 3)
	for _, e := range errs {
		assert.Equal(t, "locked_field", e.Rule)
	}
}

func TestValidateProgressUpdate_MutableFieldsPass(t *testing.T) {
	v := New()

	seconds := 120
	done := true
	notes := "good focus today"
	errs := v.Business().ValidateProgressUpdate(&models.UpdateProgressRequest{
		TimeSpentSeconds: &seconds,
		IsCompleted:      &done,
		Notes:            &notes,
	})
	assert.Empty(t, errs)
}

func TestValidateProgressUpdate_NotesTooLong(t *testing.T) {
	v := New()

	notes := strings.Repeat("x", 501)
	errs := v.Business().ValidateProgressUpdate(&models.UpdateProgressRequest{Notes: &notes})
	require.Len(t, errs, 1)
	assert.Equal(t, "max", errs[0].Rule)
}

func TestValidateExerciseResult(t *testing.T) {
	v := New()

	errs := v.Business().ValidateExerciseResult(&models.SubmitExerciseResultRequest{
		ExerciseID: 1,
		Score:      12,
		MaxScore:   10,
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "score_range", errs[0].Rule)
}

func TestStudentNicknameRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&CreateStudentRequest{Nickname: "Amara"}))

	err := v.Validate(&CreateStudentRequest{Nickname: "   "})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "student_nickname", verrs[0].Rule)

	err = v.Validate(&CreateStudentRequest{Nickname: strings.Repeat("a", 101)})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "student_nickname", verrs[0].Rule)
}

func TestContentNameRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&CreateLevelRequest{
		LanguageID:    1,
		NameEn:        "Level 1",
		SequenceOrder: 1,
	}))

	err := v.Validate(&CreateLevelRequest{
		LanguageID:    1,
		NameEn:        " ",
		SequenceOrder: 1,
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "content_name", verrs[0].Rule)
}

func TestValidationErrorsMessage(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
	assert.Equal(t, "validation failed: score cannot exceed max_score", ValidationErrors{
		{Field: "score", Message: "cannot exceed max_score"},
	}.Error())
	assert.Equal(t, "validation failed: 2 field errors", ValidationErrors{
		{Field: "a"}, {Field: "b"},
	}.Error())
}
