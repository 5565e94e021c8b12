package tax

// Zone classifies a country for rule matching. Zones are bit flags so a rule
// can match several of them.
type Zone uint8

const (
	// ZoneMetropolitan covers mainland France and Monaco.
	ZoneMetropolitan Zone = 1 << iota
	// ZoneOverseasTaxed covers the DOM that apply the overseas table to services.
	ZoneOverseasTaxed
	// ZoneOverseasUntaxed covers French Guiana and Mayotte.
	ZoneOverseasUntaxed
	// ZoneEU covers the other EU member states.
	ZoneEU
	// ZoneWorld is everything else.
	ZoneWorld

	ZoneOverseas = ZoneOverseasTaxed | ZoneOverseasUntaxed
	ZoneAny      = ZoneMetropolitan | ZoneOverseas | ZoneEU | ZoneWorld
)

var zoneNames = map[Zone]string{
	ZoneMetropolitan:    "metropolitan",
	ZoneOverseasTaxed:   "overseas_taxed",
	ZoneOverseasUntaxed: "overseas_untaxed",
	ZoneEU:              "eu",
	ZoneWorld:           "world",
}

func (z Zone) String() string {
	if n, ok := zoneNames[z]; ok {
		return n
	}
	return "zone_set"
}

// Has reports whether z includes every flag of other.
func (z Zone) Has(other Zone) bool {
	return z&other == other
}

var metropolitanCountries = map[string]bool{"FR": true, "MC": true}

var overseasTaxedCountries = map[string]bool{"GP": true, "MQ": true, "RE": true}

var overseasUntaxedCountries = map[string]bool{"GF": true, "YT": true}

// euMembers lists the EU member states other than France.
var euMembers = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "DE", "GR", "HU", "IE",
	"IT", "LV", "LT", "LU", "MT", "NL", "PL", "PT", "RO", "SK", "SI", "ES", "SE",
}

var euCountries = func() map[string]bool {
	m := make(map[string]bool, len(euMembers))
	for _, c := range euMembers {
		m[c] = true
	}
	return m
}()

// overseasDepartments lists the DOM codes in display order.
var overseasDepartments = []string{"GP", "MQ", "GF", "RE", "YT"}

// EUMembers returns a copy of the fixed EU member list (France excluded).
func EUMembers() []string {
	return append([]string(nil), euMembers...)
}

// OverseasDepartments returns a copy of the DOM list.
func OverseasDepartments() []string {
	return append([]string(nil), overseasDepartments...)
}

// IsEUMember reports whether country is in the fixed EU list.
func IsEUMember(country string) bool {
	return euCountries[country]
}

// IsOverseasDepartment reports whether country is one of the five DOM.
func IsOverseasDepartment(country string) bool {
	return overseasTaxedCountries[country] || overseasUntaxedCountries[country]
}

// ClassifyCountry maps an ISO 3166 alpha-2 code to its zone. Codes are
// compared as given.
func ClassifyCountry(country string) Zone {
	switch {
	case metropolitanCountries[country]:
		return ZoneMetropolitan
	case overseasTaxedCountries[country]:
		return ZoneOverseasTaxed
	case overseasUntaxedCountries[country]:
		return ZoneOverseasUntaxed
	case euCountries[country]:
		return ZoneEU
	default:
		return ZoneWorld
	}
}
