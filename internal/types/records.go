package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidZip is returned when a ZIP code is not exactly five ASCII digits.
	ErrInvalidZip = errors.New("zip code must be exactly 5 digits")
	// ErrInvalidTimestamp is returned when a timestamp is not shaped YYYY-MM-DD HH:MM:SS.
	ErrInvalidTimestamp = errors.New("timestamp must be shaped YYYY-MM-DD HH:MM:SS")
)

// VaccinationRecord is one vaccination event row for a ZIP code.
type VaccinationRecord struct {
	Zip                 string
	Timestamp           string
	PartiallyVaccinated int
	FullyVaccinated     int
}

// NewVaccinationRecord validates zip and timestamp. Negative counts are stored as 0.
func NewVaccinationRecord(zip, timestamp string, partial, full int) (VaccinationRecord, error) {
	if !IsZip(zip) {
		return VaccinationRecord{}, fmt.Errorf("%w: %q", ErrInvalidZip, zip)
	}
	if !IsTimestamp(timestamp) {
		return VaccinationRecord{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, timestamp)
	}
	return VaccinationRecord{
		Zip:                 zip,
		Timestamp:           timestamp,
		PartiallyVaccinated: max(partial, 0),
		FullyVaccinated:     max(full, 0),
	}, nil
}

// Date returns the YYYY-MM-DD part of the timestamp.
func (r VaccinationRecord) Date() string {
	return r.Timestamp[:10]
}

// PopulationRecord holds the resident count of a ZIP code.
type PopulationRecord struct {
	Zip        string
	Population int
}

// NewPopulationRecord validates the zip.
func NewPopulationRecord(zip string, population int) (PopulationRecord, error) {
	if !IsZip(zip) {
		return PopulationRecord{}, fmt.Errorf("%w: %q", ErrInvalidZip, zip)
	}
	return PopulationRecord{Zip: zip, Population: population}, nil
}

// PropertyRecord is a single property assessment. MarketValue and
// TotalLivableArea are nil when the source left them blank or unparsable,
// which is not the same thing as zero.
type PropertyRecord struct {
	Zip              string
	MarketValue      *int
	TotalLivableArea *int
}

// NewPropertyRecord validates the zip.
func NewPropertyRecord(zip string, marketValue, livableArea *int) (PropertyRecord, error) {
	if !IsZip(zip) {
		return PropertyRecord{}, fmt.Errorf("%w: %q", ErrInvalidZip, zip)
	}
	return PropertyRecord{Zip: zip, MarketValue: marketValue, TotalLivableArea: livableArea}, nil
}

// IsZip reports whether s is exactly five ASCII digits.
func IsZip(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsDate reports whether s is shaped YYYY-MM-DD. Only the shape is checked.
func IsDate(s string) bool {
	return matchShape(s, "dddd-dd-dd")
}

// IsTimestamp reports whether s is shaped YYYY-MM-DD HH:MM:SS. Only the shape
// is checked; "2021-13-45 99:99:99" passes.
func IsTimestamp(s string) bool {
	return matchShape(s, "dddd-dd-dd dd:dd:dd")
}

// matchShape compares s to a pattern where 'd' stands for any ASCII digit and
// every other byte must match literally.
func matchShape(s, pattern string) bool {
	if len(s) != len(pattern) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == 'd' {
			if !isDigit(s[i]) {
				return false
			}
			continue
		}
		if s[i] != pattern[i] {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
