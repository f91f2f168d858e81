package model

import "time"

// ResidentialArea identifies the district a rental property belongs to.
type ResidentialArea struct {
	Code    string
	Caption string
}

// Estate identifies the property an individual rental object belongs to.
type Estate struct {
	EstateCode    string
	EstateCaption string
	Type          string
}

// Lease is a contract held by a contact, either for a dwelling or for a
// parking space. Leases live in the external property-management system;
// this service only reads them.
type Lease struct {
	LeaseID          string
	Type             string
	RentalPropertyID string
	RentalObjectCode string
	Status           string
	StartDate        time.Time
	EndDate          *time.Time
	ResidentialArea  *ResidentialArea
}

// Contact is the directory record behind a contact code.
type Contact struct {
	ContactCode                string
	FullName                   string
	NationalRegistrationNumber string
	Address                    string
}
