package rules

// Config lists the codes that are subject to specialized parking rental
// rules. It is injected at construction so environments and tests can carry
// their own sets.
type Config struct {
	// Estate codes where only tenants of the property may rent parking spaces.
	PropertiesWithSpecificRules []string
	// Residential-area codes where only tenants of the district may rent
	// parking spaces.
	AreasWithSpecificRules []string
}

func (c Config) propertyHasSpecificRules(estateCode string) bool {
	return contains(c.PropertiesWithSpecificRules, estateCode)
}

func (c Config) areaHasSpecificRules(districtCode string) bool {
	return contains(c.AreasWithSpecificRules, districtCode)
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
