package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicstats/internal/types"
)

func vacc(zip, ts string, partial, full int) types.VaccinationRecord {
	return types.VaccinationRecord{Zip: zip, Timestamp: ts, PartiallyVaccinated: partial, FullyVaccinated: full}
}

func prop(zip string, value, area *int) types.PropertyRecord {
	return types.PropertyRecord{Zip: zip, MarketValue: value, TotalLivableArea: area}
}

var intp = types.IntPtr

func fixture() *Engine {
	vaccinations := []types.VaccinationRecord{
		vacc("19103", "2021-05-01 10:00:00", 40, 100),
		vacc("19103", "2021-05-01 18:30:00", 10, 50),
		vacc("19104", "2021-05-01 09:00:00", 0, 300),
		vacc("19105", "2021-05-01 09:00:00", 5, 0),
		vacc("19103", "2021-05-02 09:00:00", 1, 1),
		vacc("19106", "2021-05-01 09:00:00", 7, 7), // no population
	}
	populations := []types.PopulationRecord{
		{Zip: "19103", Population: 50000},
		{Zip: "19104", Population: 30000},
		{Zip: "19105", Population: 0},
	}
	properties := []types.PropertyRecord{
		prop("19103", intp(200000), intp(1000)),
		prop("19103", intp(300000), intp(2000)),
		prop("19104", intp(100000), nil),
		prop("19104", nil, intp(1500)),
		prop("19104", intp(50001), intp(500)),
	}
	return New(vaccinations, populations, properties)
}

func TestTotalPopulation(t *testing.T) {
	e := New(nil, []types.PopulationRecord{
		{Zip: "19103", Population: 50000},
		{Zip: "19104", Population: 30000},
	}, nil)
	assert.Equal(t, 80000, e.TotalPopulation())
	assert.Equal(t, 80000, e.TotalPopulation())

	assert.Equal(t, 0, New(nil, nil, nil).TotalPopulation())
}

func TestTotalPopulationCountsDuplicateZips(t *testing.T) {
	e := New(nil, []types.PopulationRecord{
		{Zip: "19103", Population: 10},
		{Zip: "19103", Population: 20},
	}, nil)
	assert.Equal(t, 30, e.TotalPopulation())
}

func TestVaccinationCounts(t *testing.T) {
	e := fixture()
	assert.Equal(t, map[string]int{"19103": 150, "19104": 300, "19106": 7}, e.VaccinationCounts(Full, "2021-05-01"))
	assert.Equal(t, map[string]int{"19103": 50, "19105": 5, "19106": 7}, e.VaccinationCounts(Partial, "2021-05-01"))
	assert.Empty(t, e.VaccinationCounts(Full, "2021-06-01"))
}

func TestVaccinationPerCapitaScenario(t *testing.T) {
	e := New(
		[]types.VaccinationRecord{vacc("19103", "2021-05-01 12:00:00", 0, 100)},
		[]types.PopulationRecord{{Zip: "19103", Population: 50000}},
		nil,
	)
	assert.Equal(t, map[string]float64{"19103": 0.0020}, e.VaccinationPerCapita(Full, "2021-05-01"))
}

func TestVaccinationPerCapitaOmitsMissingData(t *testing.T) {
	e := fixture()
	got := e.VaccinationPerCapita(Full, "2021-05-01")
	// 19106 has no population; 19105 has no full vaccinations
	assert.Equal(t, map[string]float64{"19103": 0.003, "19104": 0.01}, got)

	got = e.VaccinationPerCapita(Partial, "2021-05-01")
	// 19105 population is zero
	assert.Equal(t, map[string]float64{"19103": 0.001}, got)

	assert.Empty(t, e.VaccinationPerCapita(Full, "1999-01-01"))
}

func TestAverages(t *testing.T) {
	e := fixture()
	assert.Equal(t, 250000, e.AverageMarketValue("19103"))
	assert.Equal(t, 1500, e.AverageLivableArea("19103"))

	// absent values count as zero but still count toward the divisor
	assert.Equal(t, 50000, e.AverageMarketValue("19104"))
	assert.Equal(t, 666, e.AverageLivableArea("19104"))
	assert.Equal(t, 0, e.AverageMarketValue("99999"))
	assert.Equal(t, 0, e.Average(LivableArea, "99999"))
}

func TestAverageMarketValueScenario(t *testing.T) {
	e := New(nil, nil, []types.PropertyRecord{
		prop("19103", intp(200000), nil),
		prop("19103", intp(300000), nil),
	})
	assert.Equal(t, 250000, e.AverageMarketValue("19103"))
}

func TestMarketValuePerCapita(t *testing.T) {
	e := fixture()
	assert.Equal(t, 10, e.MarketValuePerCapita("19103"))
	assert.Equal(t, 5, e.MarketValuePerCapita("19104"))
	// zero population, then no population record at all
	assert.Equal(t, 0, e.MarketValuePerCapita("19105"))
	assert.Equal(t, 0, e.MarketValuePerCapita("19106"))
	assert.Equal(t, 0, e.MarketValuePerCapita("99999"))

	noProps := New(nil, []types.PopulationRecord{{Zip: "19103", Population: 10}}, nil)
	assert.Equal(t, 0, noProps.MarketValuePerCapita("19103"))
}

func TestHealthRiskIndex(t *testing.T) {
	e := fixture()
	got := e.HealthRiskIndex("2021-05-01")
	// 19103: ((1 - 150/50000) * 50000) / 3000 = 16.6167
	// 19104: ((1 - 300/30000) * 30000) / 2000 = 14.85
	// 19105: zero population, left out
	assert.Equal(t, map[string]float64{"19103": 16.6167, "19104": 14.85}, got)
}

func TestHealthRiskIndexOmitsZipWithoutLivableArea(t *testing.T) {
	e := New(
		[]types.VaccinationRecord{vacc("19103", "2021-05-01 12:00:00", 0, 10)},
		[]types.PopulationRecord{{Zip: "19103", Population: 100}, {Zip: "19104", Population: 100}},
		[]types.PropertyRecord{prop("19103", nil, intp(90)), prop("19104", intp(1), nil)},
	)
	assert.Equal(t, map[string]float64{"19103": 1.0}, e.HealthRiskIndex("2021-05-01"))
}

func TestHealthRiskIndexZeroFillsWhenDateHasNoVaccinations(t *testing.T) {
	e := New(
		[]types.VaccinationRecord{vacc("19103", "2021-05-01 12:00:00", 0, 10)},
		[]types.PopulationRecord{{Zip: "19103", Population: 50000}, {Zip: "19104", Population: 30000}},
		nil,
	)
	assert.Equal(t, map[string]float64{"19103": 0.0, "19104": 0.0}, e.HealthRiskIndex("2020-01-01"))
	// per capita omits instead
	assert.Empty(t, e.VaccinationPerCapita(Full, "2020-01-01"))
}

func TestPopulationDensity(t *testing.T) {
	e := New(nil,
		[]types.PopulationRecord{{Zip: "19103", Population: 50000}, {Zip: "19104", Population: 0}},
		nil,
		WithZipAreas(map[string]float64{"19103": 3, "19104": 2, "19105": 1}),
	)
	require.True(t, e.HasBoundaryData())
	assert.Equal(t, 16666.6667, e.PopulationDensity("19103"))
	assert.Equal(t, 0.0, e.PopulationDensity("19104"))
	assert.Equal(t, 0.0, e.PopulationDensity("19105"))
	assert.Equal(t, 0.0, e.PopulationDensity("99999"))

	assert.False(t, New(nil, nil, nil).HasBoundaryData())
}

func TestQueriesAreRepeatable(t *testing.T) {
	e := fixture()

	first := e.VaccinationPerCapita(Full, "2021-05-01")
	// callers get their own copy; the memo table is unaffected
	first["19103"] = 42
	assert.Equal(t, e.VaccinationPerCapita(Full, "2021-05-01"), e.VaccinationPerCapita(Full, "2021-05-01"))
	assert.Equal(t, 0.003, e.VaccinationPerCapita(Full, "2021-05-01")["19103"])

	risk := e.HealthRiskIndex("2021-05-01")
	delete(risk, "19103")
	assert.Equal(t, e.HealthRiskIndex("2021-05-01"), e.HealthRiskIndex("2021-05-01"))
	assert.Len(t, e.HealthRiskIndex("2021-05-01"), 2)

	counts := e.VaccinationCounts(Full, "2021-05-01")
	counts["19103"] = 0
	assert.Equal(t, 150, e.VaccinationCounts(Full, "2021-05-01")["19103"])

	assert.Equal(t, e.AverageMarketValue("19104"), e.AverageMarketValue("19104"))
	assert.Equal(t, e.MarketValuePerCapita("19104"), e.MarketValuePerCapita("19104"))
	assert.Equal(t, e.TotalPopulation(), e.TotalPopulation())
}

func TestAvailability(t *testing.T) {
	e := fixture()
	assert.True(t, e.HasVaccinationData())
	assert.True(t, e.HasPopulationData())
	assert.True(t, e.HasPropertyData())

	empty := New(nil, []types.PopulationRecord{}, nil)
	assert.False(t, empty.HasVaccinationData())
	assert.False(t, empty.HasPopulationData())
	assert.False(t, empty.HasPropertyData())
}

func TestParseVaccinationKind(t *testing.T) {
	k, err := ParseVaccinationKind("FULL")
	require.NoError(t, err)
	assert.Equal(t, Full, k)

	k, err = ParseVaccinationKind(" partial ")
	require.NoError(t, err)
	assert.Equal(t, Partial, k)
	assert.Equal(t, "partial", k.String())

	_, err = ParseVaccinationKind("booster")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestMetricExtract(t *testing.T) {
	p := prop("19103", intp(7), nil)
	v, ok := MarketValue.Extract(p)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = LivableArea.Extract(p)
	assert.False(t, ok)
	assert.Equal(t, "livable area", LivableArea.String())
}
