// Package refdata holds the static reference tables the lead engine runs
// on: the service catalog with its tier mapping, tier profiles, the
// serviceable-area geography, luxury and premium location sets, and the
// tag bonus/priority tables. The tables are immutable after construction
// and are passed explicitly into the components that need them, so tests
// can substitute reduced datasets.
package refdata

import "leadflow_backend/internal/leads/domain"

// Canonical service types. The slice order in Default matters: the
// classifier's substring pass takes the first match in catalog order.
const (
	ServiceNewConstruction     domain.ServiceType = "New Construction"
	ServiceWholeHomeRenovation domain.ServiceType = "Whole Home Renovation"
	ServiceHomeAddition        domain.ServiceType = "Home Addition"
	ServiceKitchenRemodel      domain.ServiceType = "Kitchen Remodel"
	ServiceBathroomRemodel     domain.ServiceType = "Bathroom Remodel"
	ServiceBasementFinishing   domain.ServiceType = "Basement Finishing"
	ServiceGarageConversion    domain.ServiceType = "Garage Conversion"
	ServiceSheShed             domain.ServiceType = "She-Shed"
	ServiceRoofing             domain.ServiceType = "Roofing"
	ServiceSiding              domain.ServiceType = "Siding"
	ServiceWindowsDoors        domain.ServiceType = "Windows & Doors"
	ServiceDeckPatio           domain.ServiceType = "Deck & Patio"
	ServiceExteriorPainting    domain.ServiceType = "Exterior Painting"
	ServiceHandyman            domain.ServiceType = "Handyman Services"
	ServiceGutterCleaning      domain.ServiceType = "Gutter Cleaning"
	ServicePowerWashing        domain.ServiceType = "Power Washing"
	ServiceFenceRepair         domain.ServiceType = "Fence Repair"
)

// DefaultService is the caller fallback when classification returns no
// match at all.
const DefaultService = ServiceHandyman

// CatalogEntry binds a canonical service type to its tier.
type CatalogEntry struct {
	Service domain.ServiceType
	Tier    domain.ServiceTier
}

// TierProfile holds the per-tier display and scoring constants.
type TierProfile struct {
	Label     string
	Color     string
	MinValue  float64
	MaxValue  float64
	BaseScore float64
}

// KeywordEntry maps a free-text keyword to a canonical service type.
// Entries are ordered; the classifier's keyword pass takes the first
// keyword found as a substring of the input.
type KeywordEntry struct {
	Keyword string
	Service domain.ServiceType
}

// Data is the full immutable reference dataset.
type Data struct {
	// StateCode and StateName identify the serviceable state.
	StateCode string
	StateName string

	// Catalog lists the 17 canonical services in iteration order.
	Catalog []CatalogEntry

	// TierProfiles maps each tier to its constants.
	TierProfiles map[domain.ServiceTier]TierProfile

	// Keywords is the ordered keyword dictionary for fuzzy classification.
	Keywords []KeywordEntry

	// ZIPPrefixes is the set of serviceable 2-digit ZIP prefixes.
	ZIPPrefixes map[string]struct{}

	// ZIPCounties maps 5-digit ZIPs to counties. Coverage is partial;
	// a serviceable ZIP absent from this table is still valid.
	ZIPCounties map[string]string

	// Regions maps region name to member counties.
	Regions map[string][]string

	// PremiumCounties raise the location score to 100.
	PremiumCounties map[string]struct{}

	// LuxuryAreas are matched as substrings of the lead's location name.
	LuxuryAreas []string

	// LuxuryCounties are matched against the resolved county.
	LuxuryCounties map[string]struct{}

	// WhaleValueThreshold is the estimated value at which any lead is
	// tagged Whale regardless of tier.
	WhaleValueThreshold float64

	// ScopeScores maps project scope to its score contribution.
	ScopeScores map[domain.ProjectScope]float64

	// TagBonuses maps each tag to its additive score contribution.
	TagBonuses map[domain.Tag]float64

	// TagPriorities orders tags for display; lower is shown first.
	TagPriorities map[domain.Tag]int
}

// Default builds the production reference dataset for the Virginia
// service area.
func Default() *Data {
	return &Data{
		StateCode: "VA",
		StateName: "Virginia",

		Catalog: []CatalogEntry{
			{ServiceNewConstruction, domain.TierEpic},
			{ServiceWholeHomeRenovation, domain.TierEpic},
			{ServiceHomeAddition, domain.TierEpic},
			{ServiceKitchenRemodel, domain.TierModernize},
			{ServiceBathroomRemodel, domain.TierModernize},
			{ServiceBasementFinishing, domain.TierModernize},
			{ServiceGarageConversion, domain.TierModernize},
			{ServiceSheShed, domain.TierModernize},
			{ServiceRoofing, domain.TierExterior},
			{ServiceSiding, domain.TierExterior},
			{ServiceWindowsDoors, domain.TierExterior},
			{ServiceDeckPatio, domain.TierExterior},
			{ServiceExteriorPainting, domain.TierExterior},
			{ServiceHandyman, domain.TierService},
			{ServiceGutterCleaning, domain.TierService},
			{ServicePowerWashing, domain.TierService},
			{ServiceFenceRepair, domain.TierService},
		},

		TierProfiles: map[domain.ServiceTier]TierProfile{
			domain.TierEpic:      {Label: "Epic Build", Color: "#7c3aed", MinValue: 100000, MaxValue: 400000, BaseScore: 80},
			domain.TierModernize: {Label: "Modernize", Color: "#2563eb", MinValue: 30000, MaxValue: 100000, BaseScore: 60},
			domain.TierExterior:  {Label: "Exterior", Color: "#059669", MinValue: 10000, MaxValue: 50000, BaseScore: 40},
			domain.TierService:   {Label: "Service", Color: "#d97706", MinValue: 500, MaxValue: 10000, BaseScore: 20},
		},

		Keywords: []KeywordEntry{
			{"kitchen", ServiceKitchenRemodel},
			{"bath", ServiceBathroomRemodel},
			{"basement", ServiceBasementFinishing},
			{"garage", ServiceGarageConversion},
			{"shed", ServiceSheShed},
			{"roof", ServiceRoofing},
			{"shingle", ServiceRoofing},
			{"siding", ServiceSiding},
			{"window", ServiceWindowsDoors},
			{"door", ServiceWindowsDoors},
			{"deck", ServiceDeckPatio},
			{"patio", ServiceDeckPatio},
			{"paint", ServiceExteriorPainting},
			{"fence", ServiceFenceRepair},
			{"gutter", ServiceGutterCleaning},
			{"power wash", ServicePowerWashing},
			{"pressure wash", ServicePowerWashing},
			{"handyman", ServiceHandyman},
			{"addition", ServiceHomeAddition},
			{"custom home", ServiceNewConstruction},
			{"new build", ServiceNewConstruction},
			{"renovation", ServiceWholeHomeRenovation},
		},

		ZIPPrefixes: map[string]struct{}{
			"22": {},
			"23": {},
			"24": {},
		},

		ZIPCounties: map[string]string{
			"22030": "Fairfax",
			"22031": "Fairfax",
			"22032": "Fairfax",
			"22066": "Fairfax",
			"22101": "Fairfax",
			"22102": "Fairfax",
			"22124": "Fairfax",
			"22180": "Fairfax",
			"22182": "Fairfax",
			"22201": "Arlington",
			"22203": "Arlington",
			"22204": "Arlington",
			"22301": "Alexandria",
			"22314": "Alexandria",
			"22191": "Prince William",
			"22192": "Prince William",
			"22601": "Frederick",
			"22664": "Shenandoah",
			"22801": "Rockingham",
			"22980": "Augusta",
			"23005": "Hanover",
			"23220": "Richmond City",
			"23229": "Henrico",
			"23320": "Chesapeake",
			"23451": "Virginia Beach",
			"23510": "Norfolk",
			"23601": "Newport News",
			"23832": "Chesterfield",
		},

		Regions: map[string][]string{
			"Northern Virginia": {"Fairfax", "Arlington", "Alexandria", "Loudoun", "Prince William"},
			"Richmond Metro":    {"Richmond City", "Henrico", "Chesterfield", "Hanover"},
			"Hampton Roads":     {"Virginia Beach", "Norfolk", "Chesapeake", "Newport News"},
			"Shenandoah Valley": {"Frederick", "Shenandoah", "Rockingham", "Augusta"},
		},

		PremiumCounties: map[string]struct{}{
			"Fairfax":        {},
			"Arlington":      {},
			"Loudoun":        {},
			"Alexandria":     {},
			"Falls Church":   {},
			"Prince William": {},
		},

		LuxuryAreas: []string{
			"Great Falls",
			"McLean",
			"Langley",
			"Clifton",
			"Oakton",
			"Vienna",
			"Wolf Trap",
			"Tysons",
			"Old Town Alexandria",
			"Belle Haven",
			"Mason Neck",
			"Arlington Ridge",
			"Middleburg",
			"Waterford",
			"Aldie",
			"Keswick",
			"Windsor Farms",
		},

		LuxuryCounties: map[string]struct{}{
			"Fairfax":      {},
			"Arlington":    {},
			"Loudoun":      {},
			"Falls Church": {},
			"Goochland":    {},
		},

		WhaleValueThreshold: 100000,

		ScopeScores: map[domain.ProjectScope]float64{
			domain.ScopeSmall:      20,
			domain.ScopeMedium:     50,
			domain.ScopeLarge:      75,
			domain.ScopeEnterprise: 100,
		},

		TagBonuses: map[domain.Tag]float64{
			domain.TagWhale:      15,
			domain.TagLuxury:     10,
			domain.TagMultiUnit:  8,
			domain.TagCommercial: 5,
			domain.TagQuickTurn:  3,
		},

		TagPriorities: map[domain.Tag]int{
			domain.TagWhale:      1,
			domain.TagLuxury:     2,
			domain.TagCommercial: 3,
			domain.TagMultiUnit:  4,
			domain.TagQuickTurn:  5,
		},
	}
}

// TierFor resolves the tier of a canonical service type. Unknown input
// fails closed to the lowest-priority SERVICE tier so downstream scoring
// always has a number to work with.
func (d *Data) TierFor(service domain.ServiceType) domain.ServiceTier {
	for _, entry := range d.Catalog {
		if entry.Service == service {
			return entry.Tier
		}
	}
	return domain.TierService
}

// Profile returns the tier profile, falling back to the SERVICE tier
// profile for unknown tiers.
func (d *Data) Profile(tier domain.ServiceTier) TierProfile {
	if p, ok := d.TierProfiles[tier]; ok {
		return p
	}
	return d.TierProfiles[domain.TierService]
}

// ServicesInTier lists the catalog services belonging to a tier, in
// catalog order.
func (d *Data) ServicesInTier(tier domain.ServiceTier) []domain.ServiceType {
	var out []domain.ServiceType
	for _, entry := range d.Catalog {
		if entry.Tier == tier {
			out = append(out, entry.Service)
		}
	}
	return out
}

// RegionFor reverse-looks-up the region a county belongs to. Returns ""
// when the county is unknown or uncategorized.
func (d *Data) RegionFor(county string) string {
	for region, counties := range d.Regions {
		for _, c := range counties {
			if c == county {
				return region
			}
		}
	}
	return ""
}
