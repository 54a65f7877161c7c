package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"donorhub/internal/application/models"
	"donorhub/internal/application/service"
	"donorhub/internal/application/store"
	appointmentsvc "donorhub/internal/appointment/service"
	identifiersvc "donorhub/internal/identifier/service"
	identifierstore "donorhub/internal/identifier/store"
	jwttoken "donorhub/internal/jwt_token"
	lockoutmodels "donorhub/internal/lockout/models"
	lockoutsvc "donorhub/internal/lockout/service"
	lockoutstore "donorhub/internal/lockout/store"
	adminmw "donorhub/pkg/platform/middleware/admin"
	"donorhub/pkg/testutil"
)

const adminToken = "staff-secret"

type ApplicationHandlerSuite struct {
	suite.Suite
	router  chi.Router
	service *service.Service
	logger  *slog.Logger
	actor   string
}

func TestApplicationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ApplicationHandlerSuite))
}

func (s *ApplicationHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), identifiersvc.New(identifierstore.NewInMemory()), appointmentsvc.New(),
		service.WithLogger(logger),
		service.WithBcryptCost(bcrypt.MinCost),
		service.WithTokenIssuer(jwttoken.NewJWTService("test-key", "donorhub", "donorhub-sessions"), time.Hour),
	)
	s.service = svc
	s.logger = logger
	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router, adminmw.RequireAdminToken(adminToken, logger))
	s.actor = uuid.NewString()
}

func (s *ApplicationHandlerSuite) admin(req *http.Request) *http.Request {
	req = testutil.WithAdminToken(req, adminToken)
	req.Header.Set(adminmw.HeaderAdminActor, s.actor)
	return req
}

func donorBody(email string) map[string]any {
	return map[string]any{
		"email":                 email,
		"password":              "correct-horse",
		"password_confirmation": "correct-horse",
		"blood_type":            "O-",
		"profile": map[string]any{
			"full_name":   "Hanna Tesfaye",
			"phone":       "0911223344",
			"birth_date":  "1998-09-15",
			"national_id": "1234567812345678",
			"address":     map[string]any{"region": "Addis Ababa"},
			"appointment": map[string]any{"region": "Addis Ababa", "facility": "Genet Hospital"},
		},
	}
}

func (s *ApplicationHandlerSuite) register(email string) models.RegistrationResult {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/registrations/donors", donorBody(email)))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var res models.RegistrationResult
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

func (s *ApplicationHandlerSuite) decide(appID, decision, reason string) *http.Response {
	body := map[string]any{"decision": decision}
	if reason != "" {
		body["reason"] = reason
	}
	req := s.admin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/applications/"+appID+"/decision", body))
	return testutil.DoRequest(s.router, req).Result()
}

func (s *ApplicationHandlerSuite) TestRegisterDonorReturnsPendingIdentifiers() {
	res := s.register("hanna@example.et")
	s.Equal(models.StatusPending, res.Status)
	s.Regexp(`^DNR-\d{6}$`, res.Identifier)
	s.Regexp(`^LOT-\d{6}$`, res.LotteryIdentifier)
}

func (s *ApplicationHandlerSuite) TestRegisterDonorFacilityOutsideRegion() {
	body := donorBody("far@example.et")
	body["profile"].(map[string]any)["appointment"] = map[string]any{"region": "Tigray", "facility": "Genet Hospital"}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/registrations/donors", body))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "facility_not_in_region")
}

func (s *ApplicationHandlerSuite) TestRegisterHospitalHasNoLotteryIdentifier() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/registrations/hospitals", map[string]any{
		"email":                 "ayder@example.et",
		"password":              "hospital-pass",
		"password_confirmation": "hospital-pass",
		"profile": map[string]any{
			"name":           "Ayder",
			"contact_doctor": "Dr. Gebru",
			"license_name":   "Ayder Comprehensive Specialized Hospital",
			"license_number": "TIG-0007",
			"phone":          "0344400000",
			"address":        map[string]any{"region": "Tigray"},
		},
	}))
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var res map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &res))
	s.Regexp(`^HSP-\d{6}$`, res["identifier"])
	s.NotContains(res, "lottery_identifier")
}

func (s *ApplicationHandlerSuite) TestDecisionLifecycle() {
	res := s.register("hanna@example.et")
	appID := res.ApplicationID.String()

	resp := s.decide(appID, "approve", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var decided decisionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decided))
	s.Equal(models.StatusApproved, decided.Status)

	again := s.decide(appID, "reject", "late objection")
	s.Equal(http.StatusConflict, again.StatusCode)
}

func (s *ApplicationHandlerSuite) TestDecisionValidation() {
	res := s.register("hanna@example.et")

	s.Equal(http.StatusBadRequest, s.decide(res.ApplicationID.String(), "maybe", "").StatusCode)
	s.Equal(http.StatusBadRequest, s.decide(res.ApplicationID.String(), "reject", "").StatusCode)
	s.Equal(http.StatusNotFound, s.decide(uuid.NewString(), "approve", "").StatusCode)
	s.Equal(http.StatusBadRequest, s.decide("not-a-uuid", "approve", "").StatusCode)
}

func (s *ApplicationHandlerSuite) TestDecisionRequiresActor() {
	res := s.register("hanna@example.et")
	req := testutil.WithAdminToken(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/admin/applications/"+res.ApplicationID.String()+"/decision", map[string]any{"decision": "approve"}), adminToken)
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rr.Code)

	req = testutil.WithAdminToken(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/admin/applications/"+res.ApplicationID.String()+"/decision",
		map[string]any{"decision": "approve", "actor_id": uuid.NewString()}), adminToken)
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code, rr.Body.String())
}

func (s *ApplicationHandlerSuite) TestAdminRoutesRequireToken() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/applications"))
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *ApplicationHandlerSuite) TestQueueAndDirectory() {
	pending := s.register("one@example.et")
	approved := s.register("two@example.et")
	s.Require().Equal(http.StatusOK, s.decide(approved.ApplicationID.String(), "approve", "").StatusCode)

	rr := testutil.DoRequest(s.router, s.admin(testutil.NewRequest(s.T(), http.MethodGet, "/admin/applications")))
	s.Require().Equal(http.StatusOK, rr.Code)
	var queue listResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &queue))
	s.Require().Len(queue.Applications, 1)
	s.Equal(pending.Identifier, queue.Applications[0].Identifier)
	s.Empty(queue.Applications[0].PasswordHash)

	rr = testutil.DoRequest(s.router, s.admin(testutil.NewRequest(s.T(), http.MethodGet, "/admin/donors?blood_type=O-&region=addis-ababa")))
	s.Require().Equal(http.StatusOK, rr.Code)
	var donors listResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &donors))
	s.Require().Len(donors.Applications, 1)
	s.Equal(approved.Identifier, donors.Applications[0].Identifier)

	rr = testutil.DoRequest(s.router, s.admin(testutil.NewRequest(s.T(), http.MethodGet, "/admin/applications?status=archived")))
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *ApplicationHandlerSuite) TestEditMovesRegion() {
	res := s.register("hanna@example.et")
	profile := donorBody("")["profile"].(map[string]any)
	profile["appointment"] = map[string]any{"region": "Amhara", "facility": "Genet Hospital"}

	req := s.admin(testutil.NewJSONRequest(s.T(), http.MethodPut, "/admin/applications/"+res.ApplicationID.String(),
		map[string]any{"donor": profile}))
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var edited models.EditResult
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &edited))
	s.True(edited.FacilityCleared)
	s.Equal(models.StatusPending, edited.Application.Status)
	s.Empty(edited.Application.Donor.Appointment.Facility)
}

func (s *ApplicationHandlerSuite) TestDeleteThenGet() {
	res := s.register("gone@example.et")
	path := "/admin/applications/" + res.ApplicationID.String()

	rr := testutil.DoRequest(s.router, s.admin(testutil.NewRequest(s.T(), http.MethodDelete, path)))
	s.Equal(http.StatusNoContent, rr.Code)

	rr = testutil.DoRequest(s.router, s.admin(testutil.NewRequest(s.T(), http.MethodGet, path)))
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *ApplicationHandlerSuite) TestLogin() {
	res := s.register("login@example.et")
	login := func(password string) int {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login", map[string]any{
			"email": "login@example.et", "password": password,
		}))
		return rr.Code
	}

	s.Equal(http.StatusForbidden, login("correct-horse"))
	s.Require().Equal(http.StatusOK, s.decide(res.ApplicationID.String(), "approve", "").StatusCode)
	s.Equal(http.StatusUnauthorized, login("wrong-horse"))
	s.Equal(http.StatusOK, login("correct-horse"))
}

func (s *ApplicationHandlerSuite) TestLoginLockout() {
	guard := lockoutsvc.New(lockoutstore.NewInMemory(),
		lockoutsvc.WithPolicy(lockoutmodels.Policy{Attempts: 2, Window: time.Minute, LockDuration: time.Minute}),
	)
	s.router = chi.NewRouter()
	New(s.service, s.logger, WithLoginGuard(guard)).Register(s.router, adminmw.RequireAdminToken(adminToken, s.logger))

	res := s.register("locked@example.et")
	login := func(password string) int {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login", map[string]any{
			"email": "locked@example.et", "password": password,
		}))
		return rr.Code
	}

	s.Run("pending applicants are not throttled", func() {
		for range 3 {
			s.Equal(http.StatusForbidden, login("correct-horse"))
		}
	})

	s.Require().Equal(http.StatusOK, s.decide(res.ApplicationID.String(), "approve", "").StatusCode)
	s.Equal(http.StatusUnauthorized, login("wrong-horse"))
	s.Equal(http.StatusUnauthorized, login("wrong-horse"))
	s.Equal(http.StatusTooManyRequests, login("correct-horse"))
}
