package analytics

import (
	"errors"
	"fmt"
	"strings"

	"civicstats/internal/types"
)

// ErrUnknownKind is returned for a vaccination type other than partial or full.
var ErrUnknownKind = errors.New("vaccination type must be 'partial' or 'full'")

// VaccinationKind selects which vaccination count a query reads.
type VaccinationKind int

const (
	Partial VaccinationKind = iota + 1
	Full
)

// ParseVaccinationKind accepts "partial" or "full" in any case.
func ParseVaccinationKind(s string) (VaccinationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "partial":
		return Partial, nil
	case "full":
		return Full, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k VaccinationKind) String() string {
	switch k {
	case Partial:
		return "partial"
	case Full:
		return "full"
	}
	return fmt.Sprintf("VaccinationKind(%d)", int(k))
}

func (k VaccinationKind) count(r types.VaccinationRecord) int {
	switch k {
	case Partial:
		return r.PartiallyVaccinated
	case Full:
		return r.FullyVaccinated
	}
	return 0
}

// Metric names a numeric property field that can be averaged per ZIP.
type Metric int

const (
	MarketValue Metric = iota + 1
	LivableArea
)

func (m Metric) String() string {
	switch m {
	case MarketValue:
		return "market value"
	case LivableArea:
		return "livable area"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// Extract returns the metric's value for p; ok is false when the field is
// absent.
func (m Metric) Extract(p types.PropertyRecord) (v int, ok bool) {
	var field *int
	switch m {
	case MarketValue:
		field = p.MarketValue
	case LivableArea:
		field = p.TotalLivableArea
	}
	if field == nil {
		return 0, false
	}
	return *field, true
}
