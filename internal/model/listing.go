package model

import "time"

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "ACTIVE"
	ListingStatusAssigned ListingStatus = "ASSIGNED"
	ListingStatusExpired  ListingStatus = "EXPIRED"
	ListingStatusClosed   ListingStatus = "CLOSED"
)

// Listing is a published parking space open for applications.
// At most one ACTIVE listing may exist per rental object code.
type Listing struct {
	ID               int
	RentalObjectCode string
	Address          string
	MonthlyRent      float64
	DistrictCode     string
	DistrictCaption  string
	BlockCode        string
	BlockCaption     string
	ObjectTypeCode   string
	ObjectTypeCaption string
	PublishedFrom    time.Time
	PublishedTo      time.Time
	VacantFrom       time.Time
	WaitingListType  string
	Status           ListingStatus
	CreatedAt        time.Time
}

func (s ListingStatus) Terminal() bool {
	return s == ListingStatusAssigned || s == ListingStatusClosed
}
