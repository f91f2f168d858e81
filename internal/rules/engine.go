package rules

import (
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// Ineligibility reasons surfaced to the caller so the boundary can render a
// precise message instead of a generic failure.
const (
	ReasonNotTenantInProperty = "applicant is not a current or upcoming tenant in the property"
	ReasonNotTenantInArea     = "applicant is not a current or upcoming tenant in the residential area"
)

// Eligibility is the outcome of a rental-rule check. Ineligibility is a
// normal business result, not an error.
type Eligibility struct {
	Eligible        bool
	ApplicationType model.ApplicationType
	Reason          string
}

func eligible(applicationType model.ApplicationType) Eligibility {
	return Eligibility{Eligible: true, ApplicationType: applicationType}
}

func ineligible(reason string) Eligibility {
	return Eligibility{Reason: reason}
}

// Engine evaluates the property-level and area-level rental rule families.
// All methods are pure: external lookups (estate codes of the applicant's
// parking contracts) are resolved by the caller and passed in.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// PropertyHasSpecificRules reports whether the estate is governed by the
// property-level family. When it is, the property rules are authoritative
// and the area rules are not consulted.
func (e *Engine) PropertyHasSpecificRules(estateCode string) bool {
	return e.cfg.propertyHasSpecificRules(estateCode)
}

func (e *Engine) AreaHasSpecificRules(districtCode string) bool {
	return e.cfg.areaHasSpecificRules(districtCode)
}

// EvaluatePropertyRules checks whether the applicant may apply for a parking
// space in the given estate. contractEstateCodes maps the rental object code
// of each of the applicant's contracts, housing and parking alike, to its
// resolved estate code.
func (e *Engine) EvaluatePropertyRules(
	estateCode string,
	applicant model.DetailedApplicant,
	contractEstateCodes map[string]string,
) Eligibility {
	if !e.cfg.propertyHasSpecificRules(estateCode) {
		return eligible(model.ApplicationTypeAdditional)
	}

	if !e.housingContractInEstate(applicant, estateCode, contractEstateCodes) {
		return ineligible(ReasonNotTenantInProperty)
	}

	if len(applicant.ParkingSpaceContracts) == 0 {
		return eligible(model.ApplicationTypeAdditional)
	}

	for _, lease := range applicant.ParkingSpaceContracts {
		if contractEstateCodes[lease.RentalObjectCode] == estateCode {
			return eligible(model.ApplicationTypeReplace)
		}
	}
	return eligible(model.ApplicationTypeAdditional)
}

// EvaluateAreaRules checks whether the applicant may apply for a parking
// space in the given residential area. The upcoming housing contract's area
// takes precedence over the current one.
func (e *Engine) EvaluateAreaRules(districtCode string, applicant model.DetailedApplicant) Eligibility {
	if !e.cfg.areaHasSpecificRules(districtCode) {
		return eligible(model.ApplicationTypeAdditional)
	}

	housing := applicant.PreferredHousingContract()
	if housing == nil || housing.ResidentialArea == nil || housing.ResidentialArea.Code != districtCode {
		return ineligible(ReasonNotTenantInArea)
	}

	for _, lease := range applicant.ParkingSpaceContracts {
		if lease.ResidentialArea != nil && lease.ResidentialArea.Code == districtCode {
			return eligible(model.ApplicationTypeReplace)
		}
	}
	return eligible(model.ApplicationTypeAdditional)
}

func (e *Engine) housingContractInEstate(
	applicant model.DetailedApplicant,
	estateCode string,
	contractEstateCodes map[string]string,
) bool {
	for _, lease := range applicant.HousingContracts() {
		if contractEstateCodes[lease.RentalObjectCode] == estateCode {
			return true
		}
	}
	return false
}
