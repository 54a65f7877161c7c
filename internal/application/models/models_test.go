package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/testutil"
)

func newDonor(t *testing.T) *Application {
	t.Helper()
	app, err := NewDonorApplication(id.NewApplicationID(), "DNR-000001", "LOT-000001", " Abebe@Example.com ", "hash",
		id.BloodTypeONeg, DonorProfile{FullName: "Abebe", Address: Address{Region: "Addis Ababa"}}, time.Now())
	require.NoError(t, err)
	return app
}

func TestNewApplicationStartsPending(t *testing.T) {
	app := newDonor(t)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, "abebe@example.com", app.Email)
	assert.Equal(t, "Addis Ababa", app.Region)
}

func TestNewDonorRequiresLotteryIdentifier(t *testing.T) {
	_, err := NewDonorApplication(id.NewApplicationID(), "DNR-000001", "", "a@b.c", "hash", id.BloodTypeAPos, DonorProfile{}, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestApprovalTransitions(t *testing.T) {
	actor := id.ActorID(uuid.New())
	now := time.Now()

	app := newDonor(t)
	require.NoError(t, app.CanApprove(actor))
	app.ApplyApproval(actor, now)
	assert.Equal(t, StatusApproved, app.Status)
	assert.Equal(t, actor, app.DecidedBy)
	require.NotNil(t, app.DecidedAt)

	err := app.CanApprove(actor)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	err = app.CanReject(actor, "late")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
}

func TestDecidedApplicationReportsStateBeforeInput(t *testing.T) {
	actor := id.ActorID(uuid.New())
	app := newDonor(t)
	app.ApplyApproval(actor, time.Now())

	assert.True(t, dErrors.HasCode(app.CanReject(actor, ""), dErrors.CodeInvalidStateTransition))
	assert.True(t, dErrors.HasCode(app.CanReject(id.ActorID{}, ""), dErrors.CodeInvalidStateTransition))
	assert.True(t, dErrors.HasCode(app.CanApprove(id.ActorID{}), dErrors.CodeInvalidStateTransition))
}

func TestRejectionRequiresReason(t *testing.T) {
	actor := id.ActorID(uuid.New())
	app := newDonor(t)

	assert.True(t, dErrors.HasCode(app.CanReject(actor, "  "), dErrors.CodeValidation))
	assert.True(t, dErrors.HasCode(app.CanReject(id.ActorID{}, "reason"), dErrors.CodeValidation))

	require.NoError(t, app.CanReject(actor, "incomplete documents"))
	app.ApplyRejection(actor, " incomplete documents ", time.Now())
	assert.Equal(t, StatusRejected, app.Status)
	assert.Equal(t, "incomplete documents", app.DecisionReason)
	assert.True(t, dErrors.HasCode(app.CanApprove(actor), dErrors.CodeInvalidStateTransition))
}

func TestEditNeverChangesStatus(t *testing.T) {
	app := newDonor(t)
	app.ApplyApproval(id.ActorID(uuid.New()), time.Now())

	app.ApplyDonorEdit(DonorProfile{FullName: "Abebe K", Address: Address{Region: "Amhara"}}, id.BloodTypeAPos, time.Now())
	assert.Equal(t, StatusApproved, app.Status)
	assert.Equal(t, "Amhara", app.Region)
	assert.Equal(t, id.BloodTypeAPos, app.BloodType)
}

func TestStatusMachine(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusApproved, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAgeOn(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	age, err := AgeOn("2000-03-10", now)
	require.NoError(t, err)
	assert.Equal(t, 26, age)

	age, err = AgeOn("2000-03-11", now)
	require.NoError(t, err)
	assert.Equal(t, 25, age)

	age, err = AgeOn("2026-03-10", now)
	require.NoError(t, err)
	assert.Zero(t, age)

	_, err = AgeOn("2027-01-01", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = AgeOn("10/03/2000", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestDonorProfileNationalID(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := DonorProfile{FullName: "Sara", Phone: "0911000000", BirthDate: "1995-05-05"}

	ok := base
	ok.NationalID = "1234567890123456"
	require.NoError(t, ok.Normalize(now))
	assert.Equal(t, 30, ok.Age)

	short := base
	short.NationalID = "123456789012345"
	assert.True(t, dErrors.HasCode(short.Normalize(now), dErrors.CodeValidation))

	letters := base
	letters.NationalID = "12345678901234AB"
	assert.True(t, dErrors.HasCode(letters.Normalize(now), dErrors.CodeValidation))

	absent := base
	require.NoError(t, absent.Normalize(now))
}

func TestListFilterMatches(t *testing.T) {
	app := newDonor(t)
	app.Status = StatusApproved

	assert.True(t, ListFilter{}.Matches(app))
	assert.True(t, ListFilter{Kind: KindDonor, Status: StatusApproved, BloodType: id.BloodTypeONeg, Region: "addis ababa"}.Matches(app))
	assert.False(t, ListFilter{Kind: KindHospital}.Matches(app))
	assert.False(t, ListFilter{BloodType: id.BloodTypeAPos}.Matches(app))
}

func TestRejectedDonorLifecycle(t *testing.T) {
	actor := id.ActorID(uuid.New())
	decidedAt := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	testutil.Given(t, "a pending donor application", func(t *testing.T) {
		app := newDonor(t)

		testutil.When(t, "staff reject it with a reason", func(t *testing.T) {
			require.NoError(t, app.CanReject(actor, "failed screening"))
			app.ApplyRejection(actor, "failed screening", decidedAt)

			testutil.Then(t, "the decision is recorded and terminal", func(t *testing.T) {
				assert.Equal(t, StatusRejected, app.Status)
				assert.True(t, app.Status.IsTerminal())
				assert.Equal(t, decidedAt, *app.DecidedAt)
				assert.False(t, app.IsApproved())
			})

			testutil.Then(t, "it no longer matches approved listings", func(t *testing.T) {
				assert.False(t, ListFilter{Status: StatusApproved}.Matches(app))
				assert.True(t, ListFilter{Status: StatusRejected}.Matches(app))
			})
		})
	})
}

func TestDonorProfileNormalizesMedicalConditions(t *testing.T) {
	p := DonorProfile{
		FullName:          "Sara",
		Phone:             "0911000000",
		BirthDate:         "1995-05-05",
		MedicalConditions: []string{" Asthma ", "asthma", "", "low  iron"},
	}
	require.NoError(t, p.Normalize(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"Asthma", "low iron"}, p.MedicalConditions)
}
