package catalog

import "fmt"

// Scope restricts production-graph queries to one race's buildings or to the
// whole catalog. The zero value is the global scope.
type Scope struct {
	race ID
	set  bool
}

// Global returns the unrestricted scope
func Global() Scope {
	return Scope{}
}

// RaceScope restricts queries to the buildings reachable from a race's constructions
func RaceScope(race ID) Scope {
	return Scope{race: race, set: true}
}

// IsGlobal reports whether the scope is unrestricted
func (s Scope) IsGlobal() bool {
	return !s.set
}

// Race returns the race id and whether the scope is race-restricted
func (s Scope) Race() (ID, bool) {
	return s.race, s.set
}

func (s Scope) String() string {
	if !s.set {
		return "global"
	}
	return fmt.Sprintf("race:%d", s.race)
}
