package taxonomy

// GeographicScope narrows a search to a geographic region.
type GeographicScope string

const (
	GeoBulgaria       GeographicScope = "BULGARIA"
	GeoBalkans        GeographicScope = "BALKANS"
	GeoEasternEurope  GeographicScope = "EASTERN_EUROPE"
	GeoEUMemberStates GeographicScope = "EU_MEMBER_STATES"
	GeoEurope         GeographicScope = "EUROPE"
	GeoGlobal         GeographicScope = "GLOBAL"
)

// AllGeographicScopes lists every scope in a stable order.
func AllGeographicScopes() []GeographicScope {
	return []GeographicScope{
		GeoBulgaria, GeoBalkans, GeoEasternEurope,
		GeoEUMemberStates, GeoEurope, GeoGlobal,
	}
}

var geoKeywords = map[GeographicScope]string{
	GeoBulgaria:       "Bulgaria",
	GeoBalkans:        "Balkans",
	GeoEasternEurope:  "Eastern Europe",
	GeoEUMemberStates: "European Union",
	GeoEurope:         "Europe",
	GeoGlobal:         "international",
}

var geoDescriptions = map[GeographicScope]string{
	GeoBulgaria:       "organizations and programs operating in Bulgaria or open to Bulgarian applicants",
	GeoBalkans:        "funders active in the Balkan region and Southeast Europe",
	GeoEasternEurope:  "programs targeting Eastern European and post-communist countries",
	GeoEUMemberStates: "funding open to applicants from European Union member states",
	GeoEurope:         "pan-European funding programs and foundations",
	GeoGlobal:         "international funders without geographic restrictions",
}

// Keywords returns the short phrase used in keyword queries.
func (g GeographicScope) Keywords() string { return geoKeywords[g] }

// ConceptualDescription returns the prompt-oriented description of the scope.
func (g GeographicScope) ConceptualDescription() string { return geoDescriptions[g] }

func (g GeographicScope) String() string { return string(g) }
