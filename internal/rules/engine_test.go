package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

func testConfig() Config {
	return Config{
		PropertiesWithSpecificRules: []string{"EST-001", "EST-002"},
		AreasWithSpecificRules:      []string{"OXB", "CEN"},
	}
}

func housingLease(areaCode string) *model.Lease {
	return &model.Lease{
		LeaseID:          "H-1",
		Type:             "housing",
		RentalObjectCode: "OBJ-H-1",
		ResidentialArea:  &model.ResidentialArea{Code: areaCode},
	}
}

func parkingLease(objectCode, areaCode string) model.Lease {
	return model.Lease{
		LeaseID:          "P-" + objectCode,
		Type:             "parkingSpace",
		RentalObjectCode: objectCode,
		ResidentialArea:  &model.ResidentialArea{Code: areaCode},
	}
}

func TestEvaluateAreaRules_UnregulatedDistrict(t *testing.T) {
	engine := NewEngine(testConfig())

	result := engine.EvaluateAreaRules("ZZZ", model.DetailedApplicant{})

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeAdditional, result.ApplicationType)
}

func TestEvaluateAreaRules_TenantWithoutParkingContract(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
	}

	result := engine.EvaluateAreaRules("OXB", applicant)

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeAdditional, result.ApplicationType)
}

func TestEvaluateAreaRules_TenantWithParkingContractMustReplace(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
		ParkingSpaceContracts:  []model.Lease{parkingLease("OBJ-P-1", "OXB")},
	}

	result := engine.EvaluateAreaRules("OXB", applicant)

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeReplace, result.ApplicationType)
}

func TestEvaluateAreaRules_NotTenantInArea(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("ZZZ"),
	}

	result := engine.EvaluateAreaRules("OXB", applicant)

	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonNotTenantInArea, result.Reason)
}

func TestEvaluateAreaRules_UpcomingContractTakesPrecedence(t *testing.T) {
	engine := NewEngine(testConfig())

	// Moving out of the district: current contract matches but the upcoming
	// one governs.
	leaving := model.DetailedApplicant{
		CurrentHousingContract:  housingLease("OXB"),
		UpcomingHousingContract: housingLease("ZZZ"),
	}
	assert.False(t, engine.EvaluateAreaRules("OXB", leaving).Eligible)

	// Moving into the district: upcoming contract qualifies on its own.
	arriving := model.DetailedApplicant{
		CurrentHousingContract:  housingLease("ZZZ"),
		UpcomingHousingContract: housingLease("OXB"),
	}
	assert.True(t, engine.EvaluateAreaRules("OXB", arriving).Eligible)
}

func TestEvaluateAreaRules_NoHousingContract(t *testing.T) {
	engine := NewEngine(testConfig())

	result := engine.EvaluateAreaRules("OXB", model.DetailedApplicant{})

	assert.False(t, result.Eligible)
}

func TestEvaluatePropertyRules_UnregulatedEstate(t *testing.T) {
	engine := NewEngine(testConfig())

	result := engine.EvaluatePropertyRules("EST-999", model.DetailedApplicant{}, nil)

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeAdditional, result.ApplicationType)
}

func TestEvaluatePropertyRules_NotTenantInProperty(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
	}
	estateCodes := map[string]string{"OBJ-H-1": "EST-999"}

	result := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)

	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonNotTenantInProperty, result.Reason)
}

func TestEvaluatePropertyRules_TenantWithoutParkingContract(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
	}
	estateCodes := map[string]string{"OBJ-H-1": "EST-001"}

	result := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeAdditional, result.ApplicationType)
}

func TestEvaluatePropertyRules_UpcomingContractQualifies(t *testing.T) {
	engine := NewEngine(testConfig())
	upcoming := housingLease("OXB")
	upcoming.RentalObjectCode = "OBJ-H-2"
	applicant := model.DetailedApplicant{
		UpcomingHousingContract: upcoming,
	}
	estateCodes := map[string]string{"OBJ-H-2": "EST-001"}

	result := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)

	assert.True(t, result.Eligible)
}

func TestEvaluatePropertyRules_ParkingContractInSameEstateMustReplace(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
		ParkingSpaceContracts:  []model.Lease{parkingLease("OBJ-P-1", "OXB")},
	}
	estateCodes := map[string]string{
		"OBJ-H-1": "EST-001",
		"OBJ-P-1": "EST-001",
	}

	result := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeReplace, result.ApplicationType)
}

func TestEvaluatePropertyRules_ParkingContractElsewhereStaysAdditional(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
		ParkingSpaceContracts:  []model.Lease{parkingLease("OBJ-P-1", "ZZZ")},
	}
	estateCodes := map[string]string{
		"OBJ-H-1": "EST-001",
		"OBJ-P-1": "EST-999",
	}

	result := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)

	assert.True(t, result.Eligible)
	assert.Equal(t, model.ApplicationTypeAdditional, result.ApplicationType)
}

func TestRuleChecks_AreDeterministic(t *testing.T) {
	engine := NewEngine(testConfig())
	applicant := model.DetailedApplicant{
		CurrentHousingContract: housingLease("OXB"),
		ParkingSpaceContracts:  []model.Lease{parkingLease("OBJ-P-1", "OXB")},
	}
	estateCodes := map[string]string{"OBJ-H-1": "EST-001", "OBJ-P-1": "EST-001"}

	first := engine.EvaluateAreaRules("OXB", applicant)
	second := engine.EvaluateAreaRules("OXB", applicant)
	assert.Equal(t, first, second)

	firstProperty := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)
	secondProperty := engine.EvaluatePropertyRules("EST-001", applicant, estateCodes)
	assert.Equal(t, firstProperty, secondProperty)
}
