package service

import (
	"context"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// The property-management system owns contacts, leases and the property
// structure. The service only reads from it, through these interfaces.

type EstateCodeLookup interface {
	// ResolveEstateCode returns the estate a rental object belongs to, or nil
	// when the object is unknown.
	ResolveEstateCode(ctx context.Context, rentalObjectCode string) (*model.Estate, error)
}

type ResidentialAreaLookup interface {
	// ResolveResidentialArea returns the district of a rental property, or
	// nil when the property is unknown.
	ResolveResidentialArea(ctx context.Context, rentalPropertyID string) (*model.ResidentialArea, error)
}

type ContactDirectory interface {
	GetContact(ctx context.Context, contactCode string) (*model.Contact, error)
	// GetHousingContracts returns the contact's current and upcoming housing
	// contracts; either may be nil.
	GetHousingContracts(ctx context.Context, contactCode string) (current, upcoming *model.Lease, err error)
	GetParkingSpaceContracts(ctx context.Context, contactCode string) ([]model.Lease, error)
	// GetQueuePoints returns the days the contact has waited in the parking
	// space queue.
	GetQueuePoints(ctx context.Context, contactCode string) (int, error)
}
