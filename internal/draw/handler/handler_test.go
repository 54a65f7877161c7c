package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"donorhub/internal/draw/models"
	"donorhub/internal/draw/service"
	"donorhub/internal/draw/store"
	adminmw "donorhub/pkg/platform/middleware/admin"
	"donorhub/pkg/testutil"
)

const adminToken = "staff-secret"

type ledger []models.Candidate

func (l ledger) Candidates(context.Context, int) ([]models.Candidate, error) { return l, nil }

type DrawHandlerSuite struct {
	suite.Suite
	router chi.Router
	start  time.Time
}

func TestDrawHandlerSuite(t *testing.T) {
	suite.Run(t, new(DrawHandlerSuite))
}

func (s *DrawHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(store.NewInMemory(), ledger{
		{DonorID: "DNR-000009", TotalPoints: 800, QualifyingSequence: 5},
	}, nil, time.Hour, 500)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router, adminmw.RequireAdminToken(adminToken, logger))
	s.start = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
}

func (s *DrawHandlerSuite) do(req *http.Request, at time.Time) *http.Request {
	return testutil.WithRequestTime(req, at)
}

func (s *DrawHandlerSuite) TestStatus() {
	req := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/draw/status"), s.start)
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	var status models.Status
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &status))
	s.Equal(int64(3600), status.RemainingSeconds)
	s.Equal([]string{"DNR-000009"}, status.EligibleDonorIDs)
}

func (s *DrawHandlerSuite) TestManualRunLifecycle() {
	testutil.DoRequest(s.router, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/draw/status"), s.start))

	early := testutil.WithAdminToken(s.do(testutil.NewRequest(s.T(), http.MethodPost, "/admin/draw/run"), s.start.Add(time.Minute)), adminToken)
	rr := testutil.DoRequest(s.router, early)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "premature_advance")

	due := testutil.WithAdminToken(s.do(testutil.NewRequest(s.T(), http.MethodPost, "/admin/draw/run"), s.start.Add(time.Hour)), adminToken)
	rr = testutil.DoRequest(s.router, due)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/draw/history"))
	s.Require().Equal(http.StatusOK, rr.Code)
	var history historyResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &history))
	s.Require().Len(history.Draws, 1)
	s.Equal("DNR-000009", history.Draws[0].Entrants[0].DonorID)
}

func (s *DrawHandlerSuite) TestManualRunRequiresAdmin() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/admin/draw/run"))
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *DrawHandlerSuite) TestHistoryRejectsBadLimit() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/draw/history?limit=zero"))
	s.Equal(http.StatusBadRequest, rr.Code)
}
