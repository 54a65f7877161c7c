package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"donorhub/internal/identifier/metrics"
	"donorhub/internal/identifier/models"
	"donorhub/internal/identifier/service/mocks"
	"donorhub/internal/identifier/store"
	dErrors "donorhub/pkg/domain-errors"
)

type IssuerSuite struct {
	suite.Suite
	ctx context.Context
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) SetupTest() {
	s.ctx = context.Background()
}

// sequence returns a RandomSource that replays values, then repeats the last one.
func sequence(values ...int) RandomSource {
	var mu sync.Mutex
	i := 0
	return func(int) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		v := values[min(i, len(values)-1)]
		i++
		return v, nil
	}
}

func (s *IssuerSuite) TestIssueProducesDistinctFormattedValues() {
	pattern := map[models.Kind]*regexp.Regexp{
		models.KindDonor:    regexp.MustCompile(`^DNR-\d{6}$`),
		models.KindHospital: regexp.MustCompile(`^HSP-\d{6}$`),
		models.KindLottery:  regexp.MustCompile(`^LOT-\d{6}$`),
	}
	svc := New(store.NewInMemory())

	for _, kind := range models.Kinds {
		seen := make(map[string]struct{})
		for range 500 {
			ident, err := svc.Issue(s.ctx, kind)
			s.Require().NoError(err)
			s.Regexp(pattern[kind], ident.Value)
			s.Equal(kind, ident.Kind)
			_, dup := seen[ident.Value]
			s.False(dup, "duplicate %s", ident.Value)
			seen[ident.Value] = struct{}{}
		}
	}
}

func (s *IssuerSuite) TestIssueConcurrentIsUnique() {
	svc := New(store.NewInMemory())
	const workers = 8
	const perWorker = 100

	results := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				ident, err := svc.Issue(s.ctx, models.KindLottery)
				if err == nil {
					results <- ident.Value
				}
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]struct{})
	for v := range results {
		seen[v] = struct{}{}
	}
	s.Len(seen, workers*perWorker)
}

func (s *IssuerSuite) TestCollisionRedraws() {
	reg := prometheus.NewRegistry()
	m := metrics.NewWith(reg)
	st := store.NewInMemory()
	svc := New(st, WithRandomSource(sequence(7, 7, 8)), WithMetrics(m))

	first, err := svc.Issue(s.ctx, models.KindDonor)
	s.Require().NoError(err)
	s.Equal("DNR-000007", first.Value)

	second, err := svc.Issue(s.ctx, models.KindDonor)
	s.Require().NoError(err)
	s.Equal("DNR-000008", second.Value)

	s.InDelta(1, testutil.ToFloat64(m.Collisions.WithLabelValues("donor")), 0)
	s.InDelta(2, testutil.ToFloat64(m.Issued.WithLabelValues("donor")), 0)
}

func (s *IssuerSuite) TestKindsHaveIndependentNamespaces() {
	svc := New(store.NewInMemory(), WithRandomSource(sequence(42)))

	donor, err := svc.Issue(s.ctx, models.KindDonor)
	s.Require().NoError(err)
	hospital, err := svc.Issue(s.ctx, models.KindHospital)
	s.Require().NoError(err)

	s.Equal("DNR-000042", donor.Value)
	s.Equal("HSP-000042", hospital.Value)
}

func (s *IssuerSuite) TestSweepFindsFreeValueAfterRepeatedCollisions() {
	st := store.NewInMemory()
	for n := 10; n < 15; n++ {
		ident, _ := models.Format(models.KindLottery, n)
		_, _ = st.Reserve(s.ctx, ident)
	}
	svc := New(st, WithRandomSource(sequence(10)), WithMaxRandomAttempts(3))

	ident, err := svc.Issue(s.ctx, models.KindLottery)
	s.Require().NoError(err)
	s.Equal("LOT-000015", ident.Value)
}

func (s *IssuerSuite) TestExhaustedNamespace() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().Count(gomock.Any(), models.KindDonor).Return(models.NamespaceSize, nil)

	svc := New(mockStore)
	_, err := svc.Issue(s.ctx, models.KindDonor)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeExhaustedNamespace))
}

// fullStore reports one free slot by count but rejects every reservation.
type fullStore struct{ reserves int }

func (f *fullStore) Reserve(context.Context, models.Identifier) (bool, error) {
	f.reserves++
	return false, nil
}

func (f *fullStore) Count(context.Context, models.Kind) (int, error) {
	return models.NamespaceSize - 1, nil
}

func (s *IssuerSuite) TestExhaustedAfterFullSweep() {
	st := &fullStore{}
	svc := New(st, WithRandomSource(sequence(0)), WithMaxRandomAttempts(2))

	_, err := svc.Issue(s.ctx, models.KindHospital)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeExhaustedNamespace))
	s.Equal(2+models.NamespaceSize, st.reserves)
}

func (s *IssuerSuite) TestStoreFailureIsInternal() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().Count(gomock.Any(), models.KindDonor).Return(0, nil)
	mockStore.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset"))

	svc := New(mockStore)
	_, err := svc.Issue(s.ctx, models.KindDonor)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *IssuerSuite) TestUnknownKind() {
	svc := New(store.NewInMemory())
	_, err := svc.Issue(s.ctx, models.Kind("volunteer"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
