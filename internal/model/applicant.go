package model

import "time"

type ApplicantStatus string

const (
	ApplicantStatusActive           ApplicantStatus = "ACTIVE"
	ApplicantStatusAssigned         ApplicantStatus = "ASSIGNED"
	ApplicantStatusOfferAccepted    ApplicantStatus = "OFFER_ACCEPTED"
	ApplicantStatusOfferDeclined    ApplicantStatus = "OFFER_DECLINED"
	ApplicantStatusOfferExpired     ApplicantStatus = "OFFER_EXPIRED"
	ApplicantStatusWithdrawnByUser  ApplicantStatus = "WITHDRAWN_BY_USER"
	ApplicantStatusWithdrawnByAdmin ApplicantStatus = "WITHDRAWN_BY_ADMIN"
)

// ApplicationType tells whether the contact may keep existing parking
// contracts in the area (ADDITIONAL) or has to swap one (REPLACE).
type ApplicationType string

const (
	ApplicationTypeAdditional ApplicationType = "ADDITIONAL"
	ApplicationTypeReplace    ApplicationType = "REPLACE"
)

// Applicant is one contact's application for one listing.
// A contact may apply at most once per listing.
type Applicant struct {
	ID                         int
	Name                       string
	NationalRegistrationNumber string
	ContactCode                string
	ApplicationDate            time.Time
	ApplicationType            ApplicationType // empty until rental rules resolve it
	Status                     ApplicantStatus
	ListingID                  int
}

// Terminal statuses are never overwritten.
func (s ApplicantStatus) Terminal() bool {
	switch s {
	case ApplicantStatusOfferAccepted,
		ApplicantStatusOfferDeclined,
		ApplicantStatusWithdrawnByUser,
		ApplicantStatusWithdrawnByAdmin:
		return true
	}
	return false
}

// DetailedApplicant is an Applicant enriched with directory data and,
// once the rules have run, a priority tier for a specific listing.
type DetailedApplicant struct {
	Applicant

	Address                 string
	QueuePoints             int
	CurrentHousingContract  *Lease
	UpcomingHousingContract *Lease
	ParkingSpaceContracts   []Lease

	// Priority 1-3; nil when the applicant is not eligible for ranking.
	Priority *int
}

// PreferredHousingContract picks the contract whose residential area governs
// the area rules. An upcoming contract takes precedence over the current one.
func (a DetailedApplicant) PreferredHousingContract() *Lease {
	if a.UpcomingHousingContract != nil {
		return a.UpcomingHousingContract
	}
	return a.CurrentHousingContract
}

// HousingContracts returns current and upcoming contracts, in that order,
// skipping absent ones.
func (a DetailedApplicant) HousingContracts() []*Lease {
	var out []*Lease
	if a.CurrentHousingContract != nil {
		out = append(out, a.CurrentHousingContract)
	}
	if a.UpcomingHousingContract != nil {
		out = append(out, a.UpcomingHousingContract)
	}
	return out
}
