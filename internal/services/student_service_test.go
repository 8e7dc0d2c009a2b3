package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

func newStudentService(t *testing.T) (StudentService, *progressTestEnv) {
	t.Helper()
	env := newProgressTestEnv(t)
	return NewStudentService(env.repo, env.db, testLogger(), validator.New(), nil), env
}

func TestStudentService_Create(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	parent := seedParent(t, env.db, "parent-1")

	year := 2019
	resp, err := svc.Create(ctx, &CreateStudentRequest{Nickname: "Amara", BirthYear: &year}, parent.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, parent.ID, resp.ParentID)
	assert.Equal(t, "Amara", resp.Nickname)
	require.NotNil(t, resp.BirthYear)
	assert.Equal(t, 2019, *resp.BirthYear)
	assert.Equal(t, int64(0), resp.ProgressCount)
}

func TestStudentService_Create_InvalidNickname(t *testing.T) {
	svc, env := newStudentService(t)

	parent := seedParent(t, env.db, "parent-1")

	_, err := svc.Create(context.Background(), &CreateStudentRequest{Nickname: ""}, parent.ID)

	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestStudentService_Create_ProfileLimit(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	parent := seedParent(t, env.db, "parent-1")
	for i := 0; i < 10; i++ {
		seedStudent(t, env.db, parent.ID, fmt.Sprintf("Child %d", i+1))
	}

	_, err := svc.Create(ctx, &CreateStudentRequest{Nickname: "One Too Many"}, parent.ID)
	assert.ErrorIs(t, err, ErrStudentLimit)

	// Another parent is unaffected by the first parent's count.
	other := seedParent(t, env.db, "parent-2")
	_, err = svc.Create(ctx, &CreateStudentRequest{Nickname: "Bilal"}, other.ID)
	assert.NoError(t, err)
}

func TestStudentService_GetByID_FailsClosed(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	owner := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")
	student := seedStudent(t, env.db, owner.ID, "Amara")

	_, foreignErr := svc.GetByID(ctx, student.ID, other.ID)
	_, missingErr := svc.GetByID(ctx, "no-such-student", other.ID)

	var foreignPerm, missingPerm *PermissionError
	require.ErrorAs(t, foreignErr, &foreignPerm)
	require.ErrorAs(t, missingErr, &missingPerm)
	assert.Equal(t, foreignPerm.Reason, missingPerm.Reason)
}

func TestStudentService_GetByParent(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	parentA := seedParent(t, env.db, "parent-a")
	parentB := seedParent(t, env.db, "parent-b")
	seedStudent(t, env.db, parentA.ID, "Amara")
	seedStudent(t, env.db, parentA.ID, "Bilal")
	seedStudent(t, env.db, parentB.ID, "Chathu")

	listA, err := svc.GetByParent(ctx, parentA.ID)
	require.NoError(t, err)
	assert.Len(t, listA, 2)

	listB, err := svc.GetByParent(ctx, parentB.ID)
	require.NoError(t, err)
	assert.Len(t, listB, 1)
	assert.Equal(t, "Chathu", listB[0].Nickname)
}

func TestStudentService_Update(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	nickname := "Amara S"
	year := 2018
	resp, err := svc.Update(ctx, student.ID, &UpdateStudentRequest{Nickname: &nickname, BirthYear: &year}, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amara S", resp.Nickname)
	require.NotNil(t, resp.BirthYear)
	assert.Equal(t, 2018, *resp.BirthYear)

	// A foreign parent cannot update the profile.
	other := seedParent(t, env.db, "parent-2")
	var permErr *PermissionError
	_, err = svc.Update(ctx, student.ID, &UpdateStudentRequest{Nickname: &nickname}, other.ID)
	assert.ErrorAs(t, err, &permErr)
}

func TestStudentService_Delete(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	require.NoError(t, svc.Delete(ctx, student.ID, parent.ID))

	var permErr *PermissionError
	_, err := svc.GetByID(ctx, student.ID, parent.ID)
	assert.ErrorAs(t, err, &permErr)
}

func TestStudentService_ProgressCount(t *testing.T) {
	svc, env := newStudentService(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 2)
	parent := seedParent(t, env.db, "parent-1")
	student := seedStudent(t, env.db, parent.ID, "Amara")

	for _, activity := range seed.Activities {
		_, err := env.service.Create(ctx, &models.CreateProgressRequest{
			StudentID:  student.ID,
			ActivityID: activity.ID,
			Score:      7,
			MaxScore:   10,
		}, parent.ID)
		require.NoError(t, err)
	}

	resp, err := svc.GetByID(ctx, student.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ProgressCount)
}
