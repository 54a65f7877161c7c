package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Ledger,LotteryDirectory,AuditPublisher

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"donorhub/internal/draw/metrics"
	"donorhub/internal/draw/models"
	"donorhub/internal/draw/service/mocks"
	"donorhub/internal/draw/store"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

type fixedLedger []models.Candidate

func (f fixedLedger) Candidates(context.Context, int) ([]models.Candidate, error) {
	return f, nil
}

type donorTable struct {
	lottery map[string]string
	removed map[string]bool
}

func (d donorTable) IsApprovedDonor(_ context.Context, donorID string) (bool, error) {
	return !d.removed[donorID], nil
}

func (d donorTable) LotteryIdentifierOf(_ context.Context, donorID string) (string, error) {
	if d.removed[donorID] {
		return "", sentinel.ErrNotFound
	}
	if lot, ok := d.lottery[donorID]; ok {
		return lot, nil
	}
	return "", sentinel.ErrNotFound
}

type DrawServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	ledger  fixedLedger
	donors  donorTable
	metrics *metrics.Metrics
	service *Service
	start   time.Time
}

func TestDrawServiceSuite(t *testing.T) {
	suite.Run(t, new(DrawServiceSuite))
}

func (s *DrawServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.ledger = fixedLedger{
		{DonorID: "DNR-000003", TotalPoints: 700, QualifyingSequence: 8},
		{DonorID: "DNR-000001", TotalPoints: 500, QualifyingSequence: 2},
		{DonorID: "DNR-000002", TotalPoints: 100},
	}
	s.donors = donorTable{
		lottery: map[string]string{"DNR-000001": "LOT-000111", "DNR-000003": "LOT-000333"},
		removed: map[string]bool{},
	}
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.start = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	var err error
	s.service, err = New(s.store, s.ledger, s.donors, 24*time.Hour, 500, WithMetrics(s.metrics))
	s.Require().NoError(err)
}

func (s *DrawServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *DrawServiceSuite) TestStatusOpensFirstWindow() {
	status, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)
	s.Equal(int64(24*60*60), status.RemainingSeconds)
	s.False(status.Due)
	s.Equal(s.start, status.WindowStartedAt)
	s.Equal([]string{"DNR-000001", "DNR-000003"}, status.EligibleDonorIDs)
}

func (s *DrawServiceSuite) TestStatusCountsDown() {
	_, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)

	status, err := s.service.Status(s.at(s.start.Add(23 * time.Hour)))
	s.Require().NoError(err)
	s.Equal(int64(3600), status.RemainingSeconds)

	status, err = s.service.Status(s.at(s.start.Add(30 * time.Hour)))
	s.Require().NoError(err)
	s.Zero(status.RemainingSeconds)
	s.True(status.Due)

	records, err := s.service.History(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(records, "status must not draw")
}

func (s *DrawServiceSuite) TestRunIfDueBeforeElapsed() {
	_, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)

	record, err := s.service.RunIfDue(s.at(s.start.Add(time.Hour)))
	s.Require().NoError(err)
	s.Nil(record)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DrawsSkipped.WithLabelValues("not_due")))
}

func (s *DrawServiceSuite) TestRunIfDueRecordsDrawAndAdvances() {
	_, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)

	drawAt := s.start.Add(25 * time.Hour)
	record, err := s.service.RunIfDue(s.at(drawAt))
	s.Require().NoError(err)
	s.Require().NotNil(record)
	s.Equal(s.start, record.WindowStartedAt)
	s.Equal(drawAt, record.DrawnAt)
	s.Equal([]models.Entrant{
		{DonorID: "DNR-000001", LotteryIdentifier: "LOT-000111"},
		{DonorID: "DNR-000003", LotteryIdentifier: "LOT-000333"},
	}, record.Entrants)

	w, err := s.store.LoadWindow(context.Background())
	s.Require().NoError(err)
	s.Equal(drawAt, w.StartedAt)
	s.Equal(24*time.Hour, w.Duration)

	again, err := s.service.RunIfDue(s.at(drawAt))
	s.Require().NoError(err)
	s.Nil(again)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DrawsCompleted))
}

func (s *DrawServiceSuite) TestRunNowWhileOpenIsPremature() {
	_, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)

	_, err = s.service.RunNow(s.at(s.start.Add(time.Minute)))
	s.True(dErrors.HasCode(err, dErrors.CodePrematureAdvance))
}

func (s *DrawServiceSuite) TestEntrantWithoutLotteryIdentifier() {
	delete(s.donors.lottery, "DNR-000003")
	_, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)

	record, err := s.service.RunNow(s.at(s.start.Add(24 * time.Hour)))
	s.Require().NoError(err)
	s.Require().Len(record.Entrants, 2)
	s.Empty(record.Entrants[1].LotteryIdentifier)
}

func (s *DrawServiceSuite) TestDeletedDonorLeavesDraw() {
	s.donors.removed["DNR-000003"] = true

	status, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)
	s.Equal([]string{"DNR-000001"}, status.EligibleDonorIDs)

	record, err := s.service.RunNow(s.at(s.start.Add(24 * time.Hour)))
	s.Require().NoError(err)
	s.Equal([]models.Entrant{{DonorID: "DNR-000001", LotteryIdentifier: "LOT-000111"}}, record.Entrants)
}

func (s *DrawServiceSuite) TestRemainingRoundsUp() {
	_, err := s.service.Status(s.at(s.start))
	s.Require().NoError(err)

	status, err := s.service.Status(s.at(s.start.Add(24*time.Hour - 400*time.Millisecond)))
	s.Require().NoError(err)
	s.Equal(int64(1), status.RemainingSeconds)
	s.False(status.Due)
}

func (s *DrawServiceSuite) TestHistoryNewestFirst() {
	now := s.start
	_, err := s.service.Status(s.at(now))
	s.Require().NoError(err)
	for range 3 {
		now = now.Add(24 * time.Hour)
		_, err := s.service.RunIfDue(s.at(now))
		s.Require().NoError(err)
	}

	records, err := s.service.History(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(now, records[0].DrawnAt)
	s.True(records[0].DrawnAt.After(records[1].DrawnAt))
}

func (s *DrawServiceSuite) TestConcurrentDrawLosesRace() {
	ctrl := gomock.NewController(s.T())
	st := mocks.NewMockStore(ctrl)
	window := models.Window{StartedAt: s.start, Duration: time.Hour}
	st.EXPECT().LoadWindow(gomock.Any()).Return(window, nil).Times(2)
	st.EXPECT().CompleteDraw(gomock.Any(), window, gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict).Times(2)

	svc, err := New(st, s.ledger, s.donors, time.Hour, 500)
	s.Require().NoError(err)

	record, err := svc.RunIfDue(s.at(s.start.Add(2 * time.Hour)))
	s.Require().NoError(err)
	s.Nil(record)

	_, err = svc.RunNow(s.at(s.start.Add(2 * time.Hour)))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *DrawServiceSuite) TestDrawEmitsAudit() {
	ctrl := gomock.NewController(s.T())
	publisher := mocks.NewMockAuditPublisher(ctrl)
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.Equal(string(audit.EventDrawCompleted), e.Action)
		return nil
	})
	svc, err := New(s.store, s.ledger, s.donors, time.Hour, 500, WithAuditPublisher(publisher))
	s.Require().NoError(err)

	_, err = svc.Status(s.at(s.start))
	s.Require().NoError(err)
	_, err = svc.RunIfDue(s.at(s.start.Add(time.Hour)))
	s.Require().NoError(err)
}

func (s *DrawServiceSuite) TestNewRejectsInvalidConfig() {
	_, err := New(s.store, s.ledger, nil, 0, 10)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = New(s.store, s.ledger, nil, time.Hour, -1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
