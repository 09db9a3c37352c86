package analytics

import (
	"maps"
	"math"

	"github.com/samber/lo"

	"civicstats/internal/types"
)

// Option configures an Engine.
type Option func(*Engine)

// WithZipAreas supplies land area per ZIP in square miles, used by
// PopulationDensity. The map is copied.
func WithZipAreas(areas map[string]float64) Option {
	return func(e *Engine) {
		e.areas = maps.Clone(areas)
	}
}

type countKey struct {
	kind VaccinationKind
	date string
}

type averageKey struct {
	metric Metric
	zip    string
}

// Engine answers cross-dataset queries over immutable record collections.
type Engine struct {
	vaccinations []types.VaccinationRecord
	populations  []types.PopulationRecord
	properties   []types.PropertyRecord
	areas        map[string]float64

	// memo tables, filled on first use
	totalPopulation      *int
	populationByZip      map[string]int
	propertiesByZip      map[string][]types.PropertyRecord
	vaccinationCounts    map[countKey]map[string]int
	perCapita            map[countKey]map[string]float64
	averages             map[averageKey]int
	marketValuePerCapita map[string]int
	healthRisk           map[string]map[string]float64
	density              map[string]float64
}

// New returns an Engine that takes ownership of the given collections. Any of
// them may be nil when the dataset was not loaded.
func New(vaccinations []types.VaccinationRecord, populations []types.PopulationRecord, properties []types.PropertyRecord, opts ...Option) *Engine {
	e := &Engine{
		vaccinations:         vaccinations,
		populations:          populations,
		properties:           properties,
		vaccinationCounts:    make(map[countKey]map[string]int),
		perCapita:            make(map[countKey]map[string]float64),
		averages:             make(map[averageKey]int),
		marketValuePerCapita: make(map[string]int),
		healthRisk:           make(map[string]map[string]float64),
		density:              make(map[string]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) HasVaccinationData() bool { return len(e.vaccinations) > 0 }
func (e *Engine) HasPopulationData() bool  { return len(e.populations) > 0 }
func (e *Engine) HasPropertyData() bool    { return len(e.properties) > 0 }
func (e *Engine) HasBoundaryData() bool    { return len(e.areas) > 0 }

// TotalPopulation sums every population record.
func (e *Engine) TotalPopulation() int {
	if e.totalPopulation != nil {
		return *e.totalPopulation
	}
	total := lo.SumBy(e.populations, func(p types.PopulationRecord) int {
		return p.Population
	})
	e.totalPopulation = &total
	return total
}

// VaccinationCounts sums the chosen count per ZIP over records whose
// timestamp falls on date (YYYY-MM-DD). Records with a zero count do not
// contribute, so a ZIP appears only if it has a positive total.
func (e *Engine) VaccinationCounts(kind VaccinationKind, date string) map[string]int {
	return maps.Clone(e.vaccinationCountsByZip(kind, date))
}

func (e *Engine) vaccinationCountsByZip(kind VaccinationKind, date string) map[string]int {
	key := countKey{kind: kind, date: date}
	if counts, ok := e.vaccinationCounts[key]; ok {
		return counts
	}

	counts := make(map[string]int)
	for _, r := range e.vaccinations {
		if r.Date() != date {
			continue
		}
		n := kind.count(r)
		if n <= 0 {
			continue
		}
		counts[r.Zip] += n
	}
	e.vaccinationCounts[key] = counts
	return counts
}

// VaccinationPerCapita divides each ZIP's vaccination count on date by its
// population, rounded to 4 decimals. A ZIP with no vaccinations or no
// population is left out rather than reported as zero.
func (e *Engine) VaccinationPerCapita(kind VaccinationKind, date string) map[string]float64 {
	key := countKey{kind: kind, date: date}
	if result, ok := e.perCapita[key]; ok {
		return maps.Clone(result)
	}

	population := e.populationIndex()
	result := make(map[string]float64)
	for zip, vaccinated := range e.vaccinationCountsByZip(kind, date) {
		pop := population[zip]
		if vaccinated == 0 || pop == 0 {
			continue
		}
		result[zip] = round4(float64(vaccinated) / float64(pop))
	}
	e.perCapita[key] = result
	return maps.Clone(result)
}

// AverageMarketValue is the truncated mean market value of the ZIP's
// properties, counting absent values as 0. It is 0 for a ZIP without
// properties.
func (e *Engine) AverageMarketValue(zip string) int {
	return e.Average(MarketValue, zip)
}

// AverageLivableArea is AverageMarketValue for total livable area.
func (e *Engine) AverageLivableArea(zip string) int {
	return e.Average(LivableArea, zip)
}

// Average computes the truncated mean of metric over every property in zip.
// Properties lacking the field still count toward the divisor.
func (e *Engine) Average(metric Metric, zip string) int {
	key := averageKey{metric: metric, zip: zip}
	if avg, ok := e.averages[key]; ok {
		return avg
	}

	props := e.propertyIndex()[zip]
	avg := 0
	if len(props) > 0 {
		var total int64
		for _, p := range props {
			v, _ := metric.Extract(p)
			total += int64(v)
		}
		avg = int(total / int64(len(props)))
	}
	e.averages[key] = avg
	return avg
}

// MarketValuePerCapita is the ZIP's total market value divided by its
// population, truncated. It is 0 when the population is 0 or unknown or the
// ZIP has no properties.
func (e *Engine) MarketValuePerCapita(zip string) int {
	if v, ok := e.marketValuePerCapita[zip]; ok {
		return v
	}

	result := 0
	pop := e.populationIndex()[zip]
	props := e.propertyIndex()[zip]
	if pop != 0 && len(props) > 0 {
		var total int64
		for _, p := range props {
			v, _ := MarketValue.Extract(p)
			total += int64(v)
		}
		result = int(total / int64(pop))
	}
	e.marketValuePerCapita[zip] = result
	return result
}

// HealthRiskIndex scores every ZIP known to the population dataset as
// ((1 - fully vaccinated rate) * population) / total livable area, rounded
// to 4 decimals. ZIPs with zero population or zero livable area are left out.
//
// When no full vaccinations at all are recorded for date, every known ZIP is
// reported as 0 instead. This differs from VaccinationPerCapita, which omits
// ZIPs without data.
func (e *Engine) HealthRiskIndex(date string) map[string]float64 {
	if result, ok := e.healthRisk[date]; ok {
		return maps.Clone(result)
	}

	population := e.populationIndex()
	vaccinated := e.vaccinationCountsByZip(Full, date)
	result := make(map[string]float64, len(population))

	if len(vaccinated) == 0 {
		for zip := range population {
			result[zip] = 0
		}
		e.healthRisk[date] = result
		return maps.Clone(result)
	}

	for zip, pop := range population {
		area := e.totalLivableArea(zip)
		if pop == 0 || area == 0 {
			continue
		}
		rate := float64(vaccinated[zip]) / float64(pop)
		result[zip] = round4(((1 - rate) * float64(pop)) / float64(area))
	}
	e.healthRisk[date] = result
	return maps.Clone(result)
}

// PopulationDensity is residents per square mile of land in zip, rounded to
// 4 decimals; 0 when either the population or the area is unknown or zero.
func (e *Engine) PopulationDensity(zip string) float64 {
	if d, ok := e.density[zip]; ok {
		return d
	}

	d := 0.0
	pop := e.populationIndex()[zip]
	if area := e.areas[zip]; pop != 0 && area > 0 {
		d = round4(float64(pop) / area)
	}
	e.density[zip] = d
	return d
}

func (e *Engine) totalLivableArea(zip string) int64 {
	var total int64
	for _, p := range e.propertyIndex()[zip] {
		if v, ok := LivableArea.Extract(p); ok {
			total += int64(v)
		}
	}
	return total
}

// populationIndex maps ZIP to population. A ZIP listed twice keeps its last
// value.
func (e *Engine) populationIndex() map[string]int {
	if e.populationByZip == nil {
		e.populationByZip = make(map[string]int, len(e.populations))
		for _, p := range e.populations {
			e.populationByZip[p.Zip] = p.Population
		}
	}
	return e.populationByZip
}

func (e *Engine) propertyIndex() map[string][]types.PropertyRecord {
	if e.propertiesByZip == nil {
		e.propertiesByZip = lo.GroupBy(e.properties, func(p types.PropertyRecord) string {
			return p.Zip
		})
	}
	return e.propertiesByZip
}

// round4 rounds half up to 4 decimal places.
func round4(v float64) float64 {
	return math.Floor(v*10000+0.5) / 10000
}
