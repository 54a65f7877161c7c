package service

import (
	"log/slog"

	"donorhub/internal/appointment/models"
	dErrors "donorhub/pkg/domain-errors"
)

// Selector validates appointment selections against a fixed catalog.
// Every method is pure with respect to the catalog.
type Selector struct {
	catalog *models.Catalog
	logger  *slog.Logger
}

type Option func(*Selector)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

func WithCatalog(catalog *models.Catalog) Option {
	return func(s *Selector) {
		s.catalog = catalog
	}
}

func New(opts ...Option) *Selector {
	s := &Selector{catalog: models.DefaultCatalog()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Selector) Regions() []models.Region {
	return s.catalog.Regions()
}

// ResolveRegion maps user input to a catalog region.
func (s *Selector) ResolveRegion(name string) (models.Region, error) {
	region, ok := s.catalog.Lookup(name)
	if !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown region")
	}
	return region, nil
}

// SelectRegion returns the facility list for region, always including On Street.
func (s *Selector) SelectRegion(region models.Region) ([]models.Facility, error) {
	list, ok := s.catalog.Facilities(region)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown region")
	}
	return list, nil
}

// SelectFacility accepts facility only if region offers it.
func (s *Selector) SelectFacility(region models.Region, facility models.Facility) (models.Selection, error) {
	if _, err := s.SelectRegion(region); err != nil {
		return models.Selection{}, err
	}
	if !s.catalog.Offers(region, facility) {
		return models.Selection{}, dErrors.New(dErrors.CodeFacilityNotInRegion,
			string(facility)+" is not available in "+string(region))
	}
	return models.Selection{Region: region, Facility: facility}, nil
}

// OnRegionChanged moves sel to newRegion. A facility the new region does not
// offer is cleared; date and time are kept.
func (s *Selector) OnRegionChanged(sel models.Selection, newRegion models.Region) (models.Selection, error) {
	if _, err := s.SelectRegion(newRegion); err != nil {
		return models.Selection{}, err
	}
	changed := sel
	changed.Region = newRegion
	if sel.HasFacility() && !s.catalog.Offers(newRegion, sel.Facility) {
		changed.Facility = ""
		if s.logger != nil {
			s.logger.Debug("appointment facility cleared on region change",
				"from_region", sel.Region, "to_region", newRegion, "facility", sel.Facility)
		}
	}
	return changed, nil
}

// Validate checks a complete selection as submitted with a registration or edit.
func (s *Selector) Validate(sel models.Selection) (models.Selection, error) {
	region, err := s.ResolveRegion(string(sel.Region))
	if err != nil {
		return models.Selection{}, err
	}
	sel.Region = region
	if sel.HasFacility() {
		if _, err := s.SelectFacility(region, sel.Facility); err != nil {
			return models.Selection{}, err
		}
	}
	if err := sel.ValidateSchedule(); err != nil {
		return models.Selection{}, err
	}
	return sel, nil
}
