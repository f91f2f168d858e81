package model

import "time"

type OfferStatus string

const (
	OfferStatusActive   OfferStatus = "ACTIVE"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusDeclined OfferStatus = "DECLINED"
	OfferStatusExpired  OfferStatus = "EXPIRED"
)

func (s OfferStatus) Terminal() bool {
	return s != OfferStatusActive
}

// Offer is a time-boxed proposal of one listing to one applicant.
//
// SelectedApplicants is the ranked list frozen at creation time. It is an
// audit snapshot: recomputing the ranking later never touches an existing
// offer.
type Offer struct {
	ID                 int
	ListingID          int
	OfferedApplicantID int
	SelectedApplicants []DetailedApplicant
	Status             OfferStatus
	ExpiresAt          time.Time
	SentAt             *time.Time
	AnsweredAt         *time.Time
	CreatedAt          time.Time
}

// OfferLetter is the data behind the printable offer confirmation.
type OfferLetter struct {
	Offer          Offer
	Listing        Listing
	ApplicantName  string
	ContactAddress string
}
