package models

import (
	"slices"
	"strings"
)

// Region is an administrative region that offers donation facilities.
type Region string

// Facility is a named place where a donation appointment can be kept.
type Facility string

// OnStreet is the mobile collection option offered in every region.
const OnStreet Facility = "On Street"

const (
	RegionAddisAbaba       Region = "Addis Ababa"
	RegionAfar             Region = "Afar"
	RegionAmhara           Region = "Amhara"
	RegionBenishangulGumuz Region = "Benishangul-Gumuz"
	RegionCentralEthiopia  Region = "Central Ethiopia"
	RegionDireDawa         Region = "Dire Dawa"
	RegionGambela          Region = "Gambela"
	RegionHarari           Region = "Harari"
	RegionOromia           Region = "Oromia"
	RegionSidama           Region = "Sidama"
	RegionSomali           Region = "Somali"
	RegionSouthEthiopia    Region = "South Ethiopia"
	RegionSouthWest        Region = "South West Ethiopia Peoples"
	RegionTigray           Region = "Tigray"
)

// Catalog is a fixed mapping from region to its facility list.
type Catalog struct {
	regions    []Region
	facilities map[Region][]Facility
}

// NewCatalog builds a catalog and appends OnStreet to every region's list.
func NewCatalog(entries map[Region][]Facility) *Catalog {
	c := &Catalog{facilities: make(map[Region][]Facility, len(entries))}
	for region, list := range entries {
		withStreet := slices.Clone(list)
		if !slices.Contains(withStreet, OnStreet) {
			withStreet = append(withStreet, OnStreet)
		}
		c.facilities[region] = withStreet
		c.regions = append(c.regions, region)
	}
	slices.Sort(c.regions)
	return c
}

// Regions lists every region in alphabetical order.
func (c *Catalog) Regions() []Region {
	return slices.Clone(c.regions)
}

// Facilities returns the region's list. ok is false for an unknown region.
func (c *Catalog) Facilities(region Region) ([]Facility, bool) {
	list, ok := c.facilities[region]
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// Offers reports whether facility is on region's list.
func (c *Catalog) Offers(region Region, facility Facility) bool {
	return slices.Contains(c.facilities[region], facility)
}

// Lookup resolves a region name case-insensitively. Hyphen and underscore slugs
// such as "addis-ababa" are accepted.
func (c *Catalog) Lookup(name string) (Region, bool) {
	want := normalize(name)
	for _, region := range c.regions {
		if normalize(string(region)) == want {
			return region, true
		}
	}
	return "", false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// DefaultCatalog is the national list of blood collection facilities.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[Region][]Facility{
		RegionAddisAbaba: {
			"Genet Hospital",
			"Tikur Anbessa Specialized Hospital",
			"St. Paul's Hospital Millennium Medical College",
			"Yekatit 12 Hospital",
			"Zewditu Memorial Hospital",
			"National Blood Bank Service",
		},
		RegionAfar:             {"Dubti General Hospital", "Semera Blood Bank"},
		RegionAmhara:           {"Felege Hiwot Referral Hospital", "University of Gondar Hospital", "Dessie Referral Hospital", "Debre Markos Referral Hospital"},
		RegionBenishangulGumuz: {"Assosa General Hospital"},
		RegionCentralEthiopia:  {"Nigist Eleni Mohammed Memorial Hospital", "Butajira General Hospital"},
		RegionDireDawa:         {"Dil Chora Referral Hospital"},
		RegionGambela:          {"Gambela General Hospital"},
		RegionHarari:           {"Hiwot Fana Specialized Hospital", "Jugal Hospital"},
		RegionOromia:           {"Adama Hospital Medical College", "Jimma University Medical Center", "Nekemte Referral Hospital"},
		RegionSidama:           {"Hawassa University Comprehensive Specialized Hospital"},
		RegionSomali:           {"Karamara General Hospital", "Jigjiga University Sheik Hassan Yabare Hospital"},
		RegionSouthEthiopia:    {"Wolaita Sodo University Teaching Hospital", "Arba Minch General Hospital"},
		RegionSouthWest:        {"Mizan-Tepi University Teaching Hospital"},
		RegionTigray:           {"Ayder Comprehensive Specialized Hospital", "Mekelle General Hospital"},
	})
}
