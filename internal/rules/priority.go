package rules

import (
	"errors"
	"fmt"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// ErrInvariantViolation marks a precondition the caller must guarantee.
// It indicates a caller bug and is never retried.
var ErrInvariantViolation = errors.New("invariant violation")

// AssignPriority returns a copy of the applicant with the priority tier for
// the given listing set. Applicants that fail every rule keep a nil priority
// and sort after every ranked applicant.
//
// Tiers, first match wins:
//
//	1: tenant in the listing's district without any parking contract there,
//	   or replacing the single parking contract held there
//	2: one additional contract on top of one existing, or replacing one of
//	   several
//	3: additional contract on top of two or more existing
func AssignPriority(listing model.Listing, applicant model.DetailedApplicant) (model.DetailedApplicant, error) {
	if applicant.ListingID != listing.ID {
		return applicant, fmt.Errorf(
			"%w: applicant %d belongs to listing %d, not %d",
			ErrInvariantViolation, applicant.ID, applicant.ListingID, listing.ID,
		)
	}

	inArea := parkingContractsInDistrict(applicant, listing.DistrictCode)

	if len(inArea) == 0 && hasHousingContractInDistrict(applicant, listing.DistrictCode) {
		return withPriority(applicant, 1), nil
	}

	if len(inArea) == 1 && applicant.ApplicationType == model.ApplicationTypeReplace {
		return withPriority(applicant, 1), nil
	}

	if applicant.ApplicationType == model.ApplicationTypeAdditional && len(inArea) == 1 ||
		applicant.ApplicationType == model.ApplicationTypeReplace && len(inArea) >= 2 {
		return withPriority(applicant, 2), nil
	}

	if applicant.ApplicationType == model.ApplicationTypeAdditional && len(inArea) >= 2 {
		return withPriority(applicant, 3), nil
	}

	applicant.Priority = nil
	return applicant, nil
}

// AddPriorityToApplicants assigns a priority to every applicant, preserving
// input order. No I/O, no side effects on the input slice.
func AddPriorityToApplicants(listing model.Listing, applicants []model.DetailedApplicant) ([]model.DetailedApplicant, error) {
	out := make([]model.DetailedApplicant, 0, len(applicants))
	for _, applicant := range applicants {
		ranked, err := AssignPriority(listing, applicant)
		if err != nil {
			return nil, err
		}
		out = append(out, ranked)
	}
	return out, nil
}

func withPriority(applicant model.DetailedApplicant, priority int) model.DetailedApplicant {
	applicant.Priority = &priority
	return applicant
}

func parkingContractsInDistrict(applicant model.DetailedApplicant, districtCode string) []model.Lease {
	var out []model.Lease
	for _, lease := range applicant.ParkingSpaceContracts {
		if lease.ResidentialArea != nil && lease.ResidentialArea.Code == districtCode {
			out = append(out, lease)
		}
	}
	return out
}

func hasHousingContractInDistrict(applicant model.DetailedApplicant, districtCode string) bool {
	for _, lease := range applicant.HousingContracts() {
		if lease.ResidentialArea != nil && lease.ResidentialArea.Code == districtCode {
			return true
		}
	}
	return false
}
