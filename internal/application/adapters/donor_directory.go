package adapters

import (
	"context"
	"errors"

	"donorhub/internal/application/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
)

// ApplicationFinder is the lookup the directory needs from the application store.
type ApplicationFinder interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.Application, error)
}

// DonorDirectory answers ledger and draw lookups about approved donors.
// Unknown, pending, rejected and hospital identifiers all read as
// sentinel.ErrNotFound.
type DonorDirectory struct {
	finder ApplicationFinder
}

func NewDonorDirectory(finder ApplicationFinder) *DonorDirectory {
	return &DonorDirectory{finder: finder}
}

func (d *DonorDirectory) approvedDonor(ctx context.Context, donorID string) (*models.Application, error) {
	app, err := d.finder.FindByIdentifier(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if app.Kind != models.KindDonor || !app.IsApproved() {
		return nil, sentinel.ErrNotFound
	}
	return app, nil
}

// IsApprovedDonor reports false for deleted, pending and rejected donors so
// they drop out of the draw.
func (d *DonorDirectory) IsApprovedDonor(ctx context.Context, donorID string) (bool, error) {
	_, err := d.approvedDonor(ctx, donorID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *DonorDirectory) BloodTypeOf(ctx context.Context, donorID string) (id.BloodType, error) {
	app, err := d.approvedDonor(ctx, donorID)
	if err != nil {
		return "", err
	}
	return app.BloodType, nil
}

func (d *DonorDirectory) LotteryIdentifierOf(ctx context.Context, donorID string) (string, error) {
	app, err := d.approvedDonor(ctx, donorID)
	if err != nil {
		return "", err
	}
	if app.LotteryIdentifier == "" {
		return "", sentinel.ErrNotFound
	}
	return app.LotteryIdentifier, nil
}
