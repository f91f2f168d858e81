package http

import (
	"time"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

type listingResponse struct {
	ID               int       `json:"id"`
	RentalObjectCode string    `json:"rentalObjectCode"`
	Address          string    `json:"address"`
	MonthlyRent      float64   `json:"monthlyRent"`
	DistrictCode     string    `json:"districtCode"`
	DistrictCaption  string    `json:"districtCaption"`
	PublishedFrom    time.Time `json:"publishedFrom"`
	PublishedTo      time.Time `json:"publishedTo"`
	VacantFrom       time.Time `json:"vacantFrom"`
	WaitingListType  string    `json:"waitingListType"`
	Status           string    `json:"status"`
}

func toListingResponse(listing model.Listing) listingResponse {
	return listingResponse{
		ID:               listing.ID,
		RentalObjectCode: listing.RentalObjectCode,
		Address:          listing.Address,
		MonthlyRent:      listing.MonthlyRent,
		DistrictCode:     listing.DistrictCode,
		DistrictCaption:  listing.DistrictCaption,
		PublishedFrom:    listing.PublishedFrom,
		PublishedTo:      listing.PublishedTo,
		VacantFrom:       listing.VacantFrom,
		WaitingListType:  listing.WaitingListType,
		Status:           string(listing.Status),
	}
}

type applicantResponse struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	ContactCode     string    `json:"contactCode"`
	ApplicationDate time.Time `json:"applicationDate"`
	ApplicationType string    `json:"applicationType,omitempty"`
	Status          string    `json:"status"`
	ListingID       int       `json:"listingId"`
}

func toApplicantResponse(applicant model.Applicant) applicantResponse {
	return applicantResponse{
		ID:              applicant.ID,
		Name:            applicant.Name,
		ContactCode:     applicant.ContactCode,
		ApplicationDate: applicant.ApplicationDate,
		ApplicationType: string(applicant.ApplicationType),
		Status:          string(applicant.Status),
		ListingID:       applicant.ListingID,
	}
}

type detailedApplicantResponse struct {
	applicantResponse
	Address     string `json:"address"`
	QueuePoints int    `json:"queuePoints"`
	Priority    *int   `json:"priority"`
}

func toDetailedApplicantResponse(applicant model.DetailedApplicant) detailedApplicantResponse {
	return detailedApplicantResponse{
		applicantResponse: toApplicantResponse(applicant.Applicant),
		Address:           applicant.Address,
		QueuePoints:       applicant.QueuePoints,
		Priority:          applicant.Priority,
	}
}

type offerResponse struct {
	ID                 int        `json:"id"`
	ListingID          int        `json:"listingId"`
	OfferedApplicantID int        `json:"offeredApplicantId"`
	Status             string     `json:"status"`
	ExpiresAt          time.Time  `json:"expiresAt"`
	SentAt             *time.Time `json:"sentAt"`
	AnsweredAt         *time.Time `json:"answeredAt"`
	CreatedAt          time.Time  `json:"createdAt"`

	SelectedApplicants []detailedApplicantResponse `json:"selectedApplicants"`
}

func toOfferResponse(offer model.Offer) offerResponse {
	selected := make([]detailedApplicantResponse, 0, len(offer.SelectedApplicants))
	for _, applicant := range offer.SelectedApplicants {
		selected = append(selected, toDetailedApplicantResponse(applicant))
	}
	return offerResponse{
		ID:                 offer.ID,
		ListingID:          offer.ListingID,
		OfferedApplicantID: offer.OfferedApplicantID,
		Status:             string(offer.Status),
		ExpiresAt:          offer.ExpiresAt,
		SentAt:             offer.SentAt,
		AnsweredAt:         offer.AnsweredAt,
		CreatedAt:          offer.CreatedAt,
		SelectedApplicants: selected,
	}
}
