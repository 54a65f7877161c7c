package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"donorhub/internal/appointment/models"
	"donorhub/internal/appointment/service"
	"donorhub/pkg/testutil"
)

type AppointmentHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestAppointmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AppointmentHandlerSuite))
}

func (s *AppointmentHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(service.New(), logger).Register(s.router)
}

func (s *AppointmentHandlerSuite) TestListFacilities() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/appointments/regions/"+url.PathEscape("Addis Ababa")+"/facilities")
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	var resp facilitiesResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal(models.RegionAddisAbaba, resp.Region)
	s.Contains(resp.Facilities, models.Facility("Genet Hospital"))
	s.Contains(resp.Facilities, models.OnStreet)
}

func (s *AppointmentHandlerSuite) TestListFacilitiesAcceptsSlug() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/appointments/regions/dire-dawa/facilities"))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *AppointmentHandlerSuite) TestUnknownRegion() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/appointments/regions/atlantis/facilities"))
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *AppointmentHandlerSuite) TestSelectFacilityNotInRegion() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/appointments/selection", map[string]string{
		"region":   "Addis Ababa",
		"facility": "Unknown Place",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "facility_not_in_region")
}

func (s *AppointmentHandlerSuite) TestSelectOnStreet() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/appointments/selection", map[string]string{
		"region":   "Addis Ababa",
		"facility": "On Street",
	})
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *AppointmentHandlerSuite) TestRegionChangeClearsFacility() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/appointments/selection/region-change", map[string]any{
		"selection":  map[string]string{"region": "Addis Ababa", "facility": "Genet Hospital"},
		"new_region": "Amhara",
	})
	rr := testutil.DoRequest(s.router, req)

	s.Require().Equal(http.StatusOK, rr.Code)
	var resp selectionResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Equal(models.RegionAmhara, resp.Selection.Region)
	s.Empty(resp.Selection.Facility)
	s.True(resp.FacilityCleared)
}
