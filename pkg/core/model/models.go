package model

import (
	"fmt"
	"slices"
)

// Period is a named time slot on a specific camp day.
// Period IDs recur across days, so a period is identified by (Day, ID).
type Period struct {
	ID             string
	Name           string
	StartTime      int // HHMM, e.g. 900
	EndTime        int
	Day            int // 1-based
	IsChoicePeriod bool
	ClosedAreas    []string
}

// Key returns the (day, period) key of the period
func (p Period) Key() PeriodKey {
	return PeriodKey{Day: p.Day, PeriodID: p.ID}
}

// IsAreaClosed reports whether the given area is closed during this period
func (p Period) IsAreaClosed(areaID string) bool {
	return slices.Contains(p.ClosedAreas, areaID)
}

// PeriodKey identifies a period occurrence on a given day
type PeriodKey struct {
	Day      int
	PeriodID string
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("day %d/%s", k.Day, k.PeriodID)
}

// SlotKey identifies an area within a period occurrence
type SlotKey struct {
	AreaID   string
	Day      int
	PeriodID string
}

// Likelihood controls whether an area may be double-booked
type Likelihood string

const (
	LikelihoodNever     Likelihood = "never"
	LikelihoodSometimes Likelihood = "sometimes"
	LikelihoodAlways    Likelihood = "always"
)

// ParseLikelihood converts a config value into a Likelihood. Empty means never.
func ParseLikelihood(s string) (Likelihood, error) {
	switch Likelihood(s) {
	case "", LikelihoodNever:
		return LikelihoodNever, nil
	case LikelihoodSometimes:
		return LikelihoodSometimes, nil
	case LikelihoodAlways:
		return LikelihoodAlways, nil
	default:
		return LikelihoodNever, fmt.Errorf("unknown double booking likelihood %q", s)
	}
}

// Scope limits which cabins may share a double-booked area.
// It is carried through configuration but not yet consulted when deciding permission.
type Scope string

const (
	ScopeSameUnit Scope = "sameUnit"
	ScopeAnyUnit  Scope = "anyUnit"
)

// ParseScope converts a config value into a Scope. Empty means anyUnit.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAnyUnit:
		return ScopeAnyUnit, nil
	case ScopeSameUnit:
		return ScopeSameUnit, nil
	default:
		return ScopeAnyUnit, fmt.Errorf("unknown double booking scope %q", s)
	}
}

// DoubleBooking is the double-booking policy of an area
type DoubleBooking struct {
	Likelihood Likelihood
	Scope      Scope
}

// AccessRule is the outcome of checking an age group against an area's accessibility lists
type AccessRule int

const (
	AccessDenied AccessRule = iota
	AccessAllowed
)

// Accessibility holds allow and deny lists keyed by cabin age group
type Accessibility struct {
	Allowed   []string
	Forbidden []string
}

// Rule decides access for an age group.
//
// The deny list wins. Otherwise a non-empty allow list must contain the age group,
// and an empty allow list admits every age group not denied.
func (a Accessibility) Rule(ageGroup string) AccessRule {
	if slices.Contains(a.Forbidden, ageGroup) {
		return AccessDenied
	}
	if len(a.Allowed) > 0 && !slices.Contains(a.Allowed, ageGroup) {
		return AccessDenied
	}
	return AccessAllowed
}

// Permits reports whether the age group may use the area
func (a Accessibility) Permits(ageGroup string) bool {
	switch a.Rule(ageGroup) {
	case AccessAllowed:
		return true
	case AccessDenied:
		return false
	}
	return false
}

// ActivityArea is a bookable location with capacity and eligibility rules
type ActivityArea struct {
	ID                 string
	Name               string
	MaxCapacity        int
	MinCapacity        *int
	Category           string
	WeatherSensitive   bool
	Aliases            []string
	LinkedAreas        []string
	BufferPeriods      int
	Accessibility      Accessibility
	DoubleBooking      DoubleBooking
	AlternatesDays     bool
	AlternateDayOffset *int
	TravelTime         int
}

// RelaxedCapacity is the capacity ceiling used when the area is double-booked
func (a ActivityArea) RelaxedCapacity() int {
	return a.MaxCapacity * 3 / 2
}

// IsOpenOnDay applies alternating-day parity. Areas that do not alternate are open every day.
func (a ActivityArea) IsOpenOnDay(day int) bool {
	if !a.AlternatesDays {
		return true
	}
	offset := 0
	if a.AlternateDayOffset != nil {
		offset = *a.AlternateDayOffset
	}
	return (day+offset)%2 == 0
}

// Preferences lists areas a cabin would like to visit or avoid
type Preferences struct {
	FavoriteAreas []string
	AvoidAreas    []string
}

// Restrictions lists periods and areas a cabin may never be scheduled into
type Restrictions struct {
	BlackoutPeriods []string
	BlackoutAreas   []string
}

// Cabin is a group of campers scheduled as a unit
type Cabin struct {
	ID           string
	Name         string
	AgeGroup     string
	Unit         string
	Size         int
	Priority     int
	SocialGroups []string
	Preferences  Preferences
	Restrictions Restrictions
}

// IsBlackedOutFromArea reports whether the cabin's restrictions exclude the area
func (c Cabin) IsBlackedOutFromArea(areaID string) bool {
	return slices.Contains(c.Restrictions.BlackoutAreas, areaID)
}

// IsBlackedOutDuring reports whether the cabin's restrictions exclude the period
func (c Cabin) IsBlackedOutDuring(periodID string) bool {
	return slices.Contains(c.Restrictions.BlackoutPeriods, periodID)
}

// AssignmentKind classifies how an assignment was produced
type AssignmentKind string

const (
	KindManual       AssignmentKind = "manual"
	KindChoice       AssignmentKind = "choice"
	KindDoubleBooked AssignmentKind = "double_booked"
	KindAuto         AssignmentKind = "auto"
)

// Assignment places a cabin in an area for one period occurrence.
// Assignments are never updated or removed once recorded.
type Assignment struct {
	CabinID          string `json:"cabinId"`
	AreaID           string `json:"areaId"`
	PeriodID         string `json:"periodId"`
	Day              int    `json:"day"`
	IsManualOverride bool   `json:"isManualOverride"`
	IsChoicePeriod   bool   `json:"isChoicePeriod"`
	IsDoubleBooked   bool   `json:"isDoubleBooked"`
}

// Kind returns how the assignment was produced
func (a Assignment) Kind() AssignmentKind {
	switch {
	case a.IsManualOverride:
		return KindManual
	case a.IsChoicePeriod:
		return KindChoice
	case a.IsDoubleBooked:
		return KindDoubleBooked
	default:
		return KindAuto
	}
}

// PeriodKey returns the (day, period) occurrence the assignment belongs to
func (a Assignment) PeriodKey() PeriodKey {
	return PeriodKey{Day: a.Day, PeriodID: a.PeriodID}
}

// SlotKey returns the (area, day, period) bucket the assignment occupies
func (a Assignment) SlotKey() SlotKey {
	return SlotKey{AreaID: a.AreaID, Day: a.Day, PeriodID: a.PeriodID}
}

// Catalog is the active set of cabins, areas and periods for a scheduling run
type Catalog struct {
	Cabins  []Cabin
	Areas   []ActivityArea
	Periods []Period
}

// CabinByID looks up a cabin
func (c *Catalog) CabinByID(id string) (Cabin, bool) {
	for _, cabin := range c.Cabins {
		if cabin.ID == id {
			return cabin, true
		}
	}
	return Cabin{}, false
}

// AreaByID looks up an area
func (c *Catalog) AreaByID(id string) (ActivityArea, bool) {
	for _, area := range c.Areas {
		if area.ID == id {
			return area, true
		}
	}
	return ActivityArea{}, false
}

// PeriodAt looks up the occurrence of a period on a day
func (c *Catalog) PeriodAt(day int, periodID string) (Period, bool) {
	for _, period := range c.Periods {
		if period.Day == day && period.ID == periodID {
			return period, true
		}
	}
	return Period{}, false
}

// Days returns the distinct days covered by the catalog's periods in ascending order
func (c *Catalog) Days() []int {
	var days []int
	for _, period := range c.Periods {
		if !slices.Contains(days, period.Day) {
			days = append(days, period.Day)
		}
	}
	slices.Sort(days)
	return days
}
