package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,IdentifierIssuer,AppointmentSelector,TokenIssuer,AuditPublisher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"donorhub/internal/application/models"
	"donorhub/internal/application/service/mocks"
	"donorhub/internal/application/store"
	appointmentsvc "donorhub/internal/appointment/service"
	appointment "donorhub/internal/appointment/models"
	identifier "donorhub/internal/identifier/models"
	identifiersvc "donorhub/internal/identifier/service"
	identifierstore "donorhub/internal/identifier/store"
	jwttoken "donorhub/internal/jwt_token"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

type ApplicationServiceSuite struct {
	suite.Suite
	ctx         context.Context
	store       *store.InMemoryStore
	identifiers *identifierstore.InMemoryStore
	jwt         *jwttoken.JWTService
	service     *Service
	actor       id.ActorID
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceSuite))
}

func (s *ApplicationServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	s.store = store.NewInMemory()
	s.identifiers = identifierstore.NewInMemory()
	s.jwt = jwttoken.NewJWTService("test-key", "donorhub", "donorhub-sessions")
	s.service = New(s.store, identifiersvc.New(s.identifiers), appointmentsvc.New(),
		WithBcryptCost(bcrypt.MinCost),
		WithTokenIssuer(s.jwt, time.Hour),
	)
	s.actor = id.ActorID(uuid.New())
}

func donorForm(email string) models.DonorRegistration {
	return models.DonorRegistration{
		Email:                email,
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
		BloodType:            "o-",
		Profile: models.DonorProfile{
			FullName:   "Hanna Tesfaye",
			Phone:      "0911223344",
			BirthDate:  "1998-09-15",
			NationalID: "1234567812345678",
			Address:    models.Address{Region: "addis-ababa", Woreda: "03"},
			Appointment: appointment.Selection{
				Region:   "Addis Ababa",
				Facility: "Genet Hospital",
				Date:     "2026-04-10",
				Time:     "09:30",
			},
		},
	}
}

func hospitalForm(email string) models.HospitalRegistration {
	return models.HospitalRegistration{
		Email:                email,
		Password:             "hospital-pass",
		PasswordConfirmation: "hospital-pass",
		Profile: models.HospitalProfile{
			Name:          "Felege Hiwot",
			ContactDoctor: "Dr. Alemu",
			LicenseName:   "Felege Hiwot Referral Hospital",
			LicenseNumber: "AMH-0042",
			Phone:         "0582200000",
			Address:       models.Address{Region: "Amhara"},
		},
	}
}

func (s *ApplicationServiceSuite) registerDonor(email string) *models.RegistrationResult {
	s.T().Helper()
	res, err := s.service.RegisterDonor(s.ctx, donorForm(email))
	s.Require().NoError(err)
	return res
}

func (s *ApplicationServiceSuite) TestRegisterDonorIssuesIdentifiers() {
	res := s.registerDonor("hanna@example.et")

	s.Equal(models.StatusPending, res.Status)
	_, err := identifier.ParseKind(identifier.KindDonor, res.Identifier)
	s.NoError(err)
	_, err = identifier.ParseKind(identifier.KindLottery, res.LotteryIdentifier)
	s.NoError(err)

	app, err := s.service.Get(s.ctx, res.ApplicationID)
	s.Require().NoError(err)
	s.Equal(id.BloodTypeONeg, app.BloodType)
	s.Equal("Addis Ababa", app.Region)
	s.Equal(27, app.Donor.Age)
	s.NotEqual("correct-horse", app.PasswordHash)
}

func (s *ApplicationServiceSuite) TestRegisterDonorValidation() {
	mismatch := donorForm("a@example.et")
	mismatch.PasswordConfirmation = "something-else"
	_, err := s.service.RegisterDonor(s.ctx, mismatch)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	badID := donorForm("b@example.et")
	badID.Profile.NationalID = "12345"
	_, err = s.service.RegisterDonor(s.ctx, badID)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	badBlood := donorForm("c@example.et")
	badBlood.BloodType = "C+"
	_, err = s.service.RegisterDonor(s.ctx, badBlood)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	wrongFacility := donorForm("d@example.et")
	wrongFacility.Profile.Appointment.Region = "Amhara"
	_, err = s.service.RegisterDonor(s.ctx, wrongFacility)
	s.True(dErrors.HasCode(err, dErrors.CodeFacilityNotInRegion))

	issued, err := s.identifiers.Count(s.ctx, identifier.KindDonor)
	s.Require().NoError(err)
	s.Zero(issued, "rejected forms must not consume identifiers")
}

func (s *ApplicationServiceSuite) TestRegisterDuplicateEmail() {
	s.registerDonor("dup@example.et")
	_, err := s.service.RegisterDonor(s.ctx, donorForm(" DUP@example.et "))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ApplicationServiceSuite) TestRegisterHospital() {
	res, err := s.service.RegisterHospital(s.ctx, hospitalForm("fh@example.et"))
	s.Require().NoError(err)
	s.Equal(models.StatusPending, res.Status)
	s.Empty(res.LotteryIdentifier)
	_, err = identifier.ParseKind(identifier.KindHospital, res.Identifier)
	s.NoError(err)
}

func (s *ApplicationServiceSuite) TestApproveThenDecidedIsTerminal() {
	res := s.registerDonor("hanna@example.et")

	app, err := s.service.Approve(s.ctx, res.ApplicationID, s.actor)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, app.Status)
	s.Equal(s.actor, app.DecidedBy)
	s.Require().NotNil(app.DecidedAt)
	s.Equal(requestcontext.Now(s.ctx), *app.DecidedAt)

	_, err = s.service.Approve(s.ctx, res.ApplicationID, s.actor)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	_, err = s.service.Reject(s.ctx, res.ApplicationID, s.actor, "changed my mind")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
}

func (s *ApplicationServiceSuite) TestRejectRequiresReasonAndStaysQueryable() {
	res := s.registerDonor("hanna@example.et")

	_, err := s.service.Reject(s.ctx, res.ApplicationID, s.actor, "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	app, err := s.service.Reject(s.ctx, res.ApplicationID, s.actor, "failed screening")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, app.Status)

	fetched, err := s.service.Get(s.ctx, res.ApplicationID)
	s.Require().NoError(err)
	s.Equal("failed screening", fetched.DecisionReason)

	donors, err := s.service.Directory(s.ctx, models.KindDonor, "", "")
	s.Require().NoError(err)
	s.Empty(donors)
}

func (s *ApplicationServiceSuite) TestDecideUnknownApplication() {
	_, err := s.service.Approve(s.ctx, id.NewApplicationID(), s.actor)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ApplicationServiceSuite) TestConcurrentDecisionsSingleWinner() {
	res := s.registerDonor("race@example.et")

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = s.service.Approve(s.ctx, res.ApplicationID, s.actor)
			} else {
				_, err = s.service.Reject(s.ctx, res.ApplicationID, s.actor, "duplicate")
			}
			if err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}

func (s *ApplicationServiceSuite) TestDirectoryAndQueue() {
	first := s.registerDonor("one@example.et")
	second := donorForm("two@example.et")
	second.BloodType = "A+"
	second.Profile.Address.Region = "Oromia"
	second.Profile.Appointment = appointment.Selection{}
	res2, err := s.service.RegisterDonor(s.ctx, second)
	s.Require().NoError(err)
	hospital, err := s.service.RegisterHospital(s.ctx, hospitalForm("h@example.et"))
	s.Require().NoError(err)

	pending, err := s.service.Queue(s.ctx, "", models.StatusPending)
	s.Require().NoError(err)
	s.Len(pending, 3)

	for _, appID := range []id.ApplicationID{first.ApplicationID, res2.ApplicationID, hospital.ApplicationID} {
		_, err := s.service.Approve(s.ctx, appID, s.actor)
		s.Require().NoError(err)
	}

	donors, err := s.service.Directory(s.ctx, models.KindDonor, "", "")
	s.Require().NoError(err)
	s.Len(donors, 2)

	oNeg, err := s.service.Directory(s.ctx, models.KindDonor, id.BloodTypeONeg, "")
	s.Require().NoError(err)
	s.Require().Len(oNeg, 1)
	s.Equal(first.Identifier, oNeg[0].Identifier)

	oromia, err := s.service.Directory(s.ctx, models.KindDonor, "", "oromia")
	s.Require().NoError(err)
	s.Require().Len(oromia, 1)
	s.Equal(res2.Identifier, oromia[0].Identifier)

	hospitals, err := s.service.Directory(s.ctx, models.KindHospital, "", "")
	s.Require().NoError(err)
	s.Len(hospitals, 1)
}

func (s *ApplicationServiceSuite) TestEditRegionChangeClearsFacility() {
	res := s.registerDonor("hanna@example.et")
	_, err := s.service.Approve(s.ctx, res.ApplicationID, s.actor)
	s.Require().NoError(err)

	profile := donorForm("").Profile
	profile.Appointment.Region = "Amhara"
	result, err := s.service.Edit(s.ctx, res.ApplicationID, s.actor, models.Edit{Donor: &profile})
	s.Require().NoError(err)

	s.True(result.FacilityCleared)
	s.Equal(models.StatusApproved, result.Application.Status)
	s.Equal(appointment.RegionAmhara, result.Application.Donor.Appointment.Region)
	s.Empty(result.Application.Donor.Appointment.Facility)
	s.Equal("2026-04-10", result.Application.Donor.Appointment.Date)
}

func (s *ApplicationServiceSuite) TestEditRegionChangeRejectsNewUnknownFacility() {
	res := s.registerDonor("hanna@example.et")

	profile := donorForm("").Profile
	profile.Appointment.Region = "Amhara"
	profile.Appointment.Facility = "Unknown Place"
	_, err := s.service.Edit(s.ctx, res.ApplicationID, s.actor, models.Edit{Donor: &profile})
	s.True(dErrors.HasCode(err, dErrors.CodeFacilityNotInRegion))

	app, err := s.service.Get(s.ctx, res.ApplicationID)
	s.Require().NoError(err)
	s.Equal(appointment.RegionAddisAbaba, app.Donor.Appointment.Region)
	s.Equal(appointment.Facility("Genet Hospital"), app.Donor.Appointment.Facility)
}

func (s *ApplicationServiceSuite) TestEditRegionChangeKeepsNewFacilityInRegion() {
	res := s.registerDonor("hanna@example.et")

	profile := donorForm("").Profile
	profile.Appointment.Region = "Amhara"
	profile.Appointment.Facility = "Felege Hiwot Referral Hospital"
	result, err := s.service.Edit(s.ctx, res.ApplicationID, s.actor, models.Edit{Donor: &profile})
	s.Require().NoError(err)

	s.False(result.FacilityCleared)
	s.Equal(appointment.Facility("Felege Hiwot Referral Hospital"), result.Application.Donor.Appointment.Facility)
}

func (s *ApplicationServiceSuite) TestEditSameRegionRejectsForeignFacility() {
	res := s.registerDonor("hanna@example.et")

	profile := donorForm("").Profile
	profile.Appointment.Facility = "Ayder Comprehensive Specialized Hospital"
	_, err := s.service.Edit(s.ctx, res.ApplicationID, s.actor, models.Edit{Donor: &profile})
	s.True(dErrors.HasCode(err, dErrors.CodeFacilityNotInRegion))

	app, err := s.service.Get(s.ctx, res.ApplicationID)
	s.Require().NoError(err)
	s.Equal(appointment.Facility("Genet Hospital"), app.Donor.Appointment.Facility)
}

func (s *ApplicationServiceSuite) TestEditKindMismatch() {
	res := s.registerDonor("hanna@example.et")
	hospital := hospitalForm("").Profile
	_, err := s.service.Edit(s.ctx, res.ApplicationID, s.actor, models.Edit{Hospital: &hospital})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ApplicationServiceSuite) TestDeleteIsTerminal() {
	res := s.registerDonor("gone@example.et")
	s.Require().NoError(s.service.Delete(s.ctx, res.ApplicationID, s.actor))

	_, err := s.service.Get(s.ctx, res.ApplicationID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	err = s.service.Delete(s.ctx, res.ApplicationID, s.actor)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	issued, err := s.identifiers.Count(s.ctx, identifier.KindDonor)
	s.Require().NoError(err)
	s.Equal(1, issued, "identifiers stay reserved after delete")
}

func (s *ApplicationServiceSuite) TestAuthenticate() {
	ctx := requestcontext.WithTime(context.Background(), time.Now())
	res, err := s.service.RegisterDonor(ctx, donorForm("login@example.et"))
	s.Require().NoError(err)

	_, err = s.service.Authenticate(ctx, "login@example.et", "correct-horse")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "pending applicants cannot log in")

	_, err = s.service.Approve(ctx, res.ApplicationID, s.actor)
	s.Require().NoError(err)

	_, err = s.service.Authenticate(ctx, "login@example.et", "wrong-password")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, err = s.service.Authenticate(ctx, "nobody@example.et", "correct-horse")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	login, err := s.service.Authenticate(ctx, "LOGIN@example.et", "correct-horse")
	s.Require().NoError(err)
	s.Equal(res.Identifier, login.Subject)
	claims, err := s.jwt.ValidateToken(login.Token)
	s.Require().NoError(err)
	s.Equal(res.Identifier, claims.Subject)
	s.Equal(res.ApplicationID.String(), claims.ApplicationID)
}

func (s *ApplicationServiceSuite) TestExhaustedNamespaceStoresNothing() {
	ctrl := gomock.NewController(s.T())
	issuer := mocks.NewMockIdentifierIssuer(ctrl)
	issuer.EXPECT().Issue(gomock.Any(), identifier.KindDonor).
		Return(identifier.Identifier{}, dErrors.New(dErrors.CodeExhaustedNamespace, "donor identifiers exhausted"))

	svc := New(s.store, issuer, appointmentsvc.New(), WithBcryptCost(bcrypt.MinCost))
	_, err := svc.RegisterDonor(s.ctx, donorForm("late@example.et"))
	s.True(dErrors.HasCode(err, dErrors.CodeExhaustedNamespace))

	pending, err := svc.Queue(s.ctx, "", "")
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *ApplicationServiceSuite) TestStoreConflictOnCreateIsConflict() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStore(ctrl)
	gomock.InOrder(
		st.EXPECT().FindByEmail(gomock.Any(), "racer@example.et").Return(nil, sentinel.ErrNotFound),
		st.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict),
		st.EXPECT().FindByEmail(gomock.Any(), "racer@example.et").Return(&models.Application{}, nil),
	)

	svc := New(st, identifiersvc.New(s.identifiers), appointmentsvc.New(), WithBcryptCost(bcrypt.MinCost))
	_, err := svc.RegisterDonor(s.ctx, donorForm("racer@example.et"))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "email is already registered")
}

func (s *ApplicationServiceSuite) TestIdentifierConflictOnCreateIsNotReportedAsEmail() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().FindByEmail(gomock.Any(), "fresh@example.et").Return(nil, sentinel.ErrNotFound).Times(2)
	st.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	svc := New(st, identifiersvc.New(s.identifiers), appointmentsvc.New(), WithBcryptCost(bcrypt.MinCost))
	_, err := svc.RegisterDonor(s.ctx, donorForm("fresh@example.et"))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.NotContains(err.Error(), "email")
	s.Contains(err.Error(), "identifier")
}
