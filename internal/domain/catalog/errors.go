package catalog

import "fmt"

// LoadError indicates the catalog source is missing or not well-formed
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load catalog from %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load catalog from %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrUnknownName indicates a name lookup found no prototype
type ErrUnknownName struct {
	Name string
}

func (e *ErrUnknownName) Error() string {
	return fmt.Sprintf("unknown prototype name: %s", e.Name)
}

// ErrUnknownRace indicates a race name is not present in the catalog
type ErrUnknownRace struct {
	Name string
}

func (e *ErrUnknownRace) Error() string {
	return fmt.Sprintf("unknown race: %s", e.Name)
}
