// Package refdata holds the static reference data behind the dashboard
// selectors: the known department name to code mappings, the commodity and
// vendor lists, and the fixed time-window choices. All of it is immutable;
// accessors hand out copies.
package refdata

import "slices"

// DefaultTimeWindowDays matches the first selector choice ("Last week").
const DefaultTimeWindowDays = 7

var timeWindows = []int{7, 30, 90, 120, 180, 360}

// The "DT " code carries a trailing space in the source data.
var departments = map[string]string{
	"Airport Commission":         "AIR",
	"Assessor / Recorder":        "ASR",
	"Building Inspection":        "DBI",
	"City Planning":              "CPC",
	"Elections":                  "REG",
	"Emergency Management":       "DEM",
	"Fire Department":            "FIR",
	"GSA - City Administrator":   "ADM",
	"GSA - Public Works":         "DPW",
	"GSA - Technology":           "DT ",
	"General City / Unallocated": "GEN",
	"Human Services Agency":      "HSA",
	"Municipal Transprtn Agncy":  "MTA",
	"Police":                     "POL",
	"Port":                       "PRT",
	"Public Health":              "DPH",
	"Public Library":             "LIB",
	"Public Utilities Commsn":    "PUC",
	"Recreation & Park Commsn":   "REC",
	"Sheriff":                    "SHF",
}

var commodities = []string{
	"AUTOMOTIVE AND TRAILER EQUIPMENT AND PARTS",
	"AUTOMOTIVE VEHICLES AND RELATED TRANSPORTATION EQUIPMENT (IN",
	"CHEMICALS AND SOLVENTS COMMERCIAL (IN BULK)",
	"CLOTHING: ATHLETIC CASUAL DRESS UNIFORM WEATHER AND WORK",
	"COMPUTER HARDWARE AND PERIPHERALS FOR MICROCOMPUTERS",
	"COMPUTER SOFTWARE FOR MINI AND MAINFRAME COMPUTERS (PREPROGR",
	"ELECTRICAL EQUIPMENT AND SUPPLIES (EXCEPT CABLE AND WIRE)",
	"Emergency Showers and Wash Stations",
	"FIRST AID AND SAFETY EQUIPMENT AND SUPPLIES (EXCEPT NUCLEAR",
	"FURNITURE: OFFICE",
	"HOSPITAL AND SURGICAL EQUIPMENT INSTRUMENTS AND SUPPLIES",
	"HOSPITAL SURGICAL AND MEDICAL RELATED ACCESSORIES AND SUND",
	"LABORATORY EQUIPMENT ACCESSORIES AND SUPPLIES: GENERAL ANAL",
	"PLUMBING EQUIPMENT FIXTURES AND SUPPLIES",
	"POLICE AND PRISON EQUIPMENT AND SUPPLIES",
	"Personal Protective Equipment (PPE) (Bloodborne Pathogen Pr",
	"RADIO COMMUNICATION TELEPHONE AND TELECOMMUNICATION EQUIPM",
	"Spreaders Self-Propelled (For Aggregates Sand etc.)",
	"Surgical Support Supplies incl. Post-Surgery (Not Otherwise",
	"Tools and Supplies for Copper and Fiber Optic Wiring Systems",
}

var vendors = []string{
	"AZCO SUPPLY INC",
	"BAY MEDICAL CO INC",
	"CARDINALHEALTH MEDICAL PRODUCTS & SVCS",
	"COMPUTERLAND SILICON VALLEY",
	"CONNECTION",
	"Cummins Inc",
	"GALLS LLC QUARTERMASTER LLC",
	"HANSON AGGREGATES MID-PACIFIC INC",
	"INSIGHT PUBLIC SECTOR INC",
	"Intervision Systems LLC",
	"Jimmie Muscatello's",
	"MEDLINE INDUSTRIES INC",
	"North Eastern Bus Rebuilders Inc.",
	"PACIFIC POWER PRODUCTS",
	"R & B COMPANY",
	"TROLLEY SUPPORT LLC",
	"UNITED SITE SERVICES OF CALIFORNIA INC",
	"VORTECH INDUSTRIES",
	"XTECH",
	"ZONES LLC",
}

// TimeWindows returns the selectable time windows in days.
func TimeWindows() []int {
	return slices.Clone(timeWindows)
}

// ValidTimeWindow reports whether days is one of the fixed choices.
func ValidTimeWindow(days int) bool {
	return slices.Contains(timeWindows, days)
}

// DepartmentNames returns the department display names, sorted.
func DepartmentNames() []string {
	names := make([]string, 0, len(departments))
	for name := range departments {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Departments returns a copy of the display name to code mapping.
func Departments() map[string]string {
	m := make(map[string]string, len(departments))
	for name, code := range departments {
		m[name] = code
	}
	return m
}

// DepartmentCode resolves a department display name to its code.
func DepartmentCode(name string) (string, bool) {
	code, ok := departments[name]
	return code, ok
}

// ValidDepartmentCode reports whether code belongs to a known department.
func ValidDepartmentCode(code string) bool {
	for _, c := range departments {
		if c == code {
			return true
		}
	}
	return false
}

// Commodities returns the commodity titles in selector order.
func Commodities() []string {
	return slices.Clone(commodities)
}

// ValidCommodity reports whether title is a known commodity title.
func ValidCommodity(title string) bool {
	return slices.Contains(commodities, title)
}

// Vendors returns the vendor names in selector order.
func Vendors() []string {
	return slices.Clone(vendors)
}

// ValidVendor reports whether name is a known vendor.
func ValidVendor(name string) bool {
	return slices.Contains(vendors, name)
}
