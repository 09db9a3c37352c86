// Package boundaries reads ZIP code boundary shapefiles (Census ZCTA layers
// and similar) and reports the land area of each ZIP.
package boundaries

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"civicstats/internal/types"
)

const (
	earthRadiusMiles  = 3958.8
	sqMetersPerSqMile = 2589988.110336
)

// Attribute names tried, in order, for the ZIP code and for the land area in
// square metres.
var (
	zipFields  = []string{"ZCTA5CE20", "ZCTA5CE10", "GEOID20", "GEOID10", "ZIP_CODE", "ZIP", "CODE"}
	landFields = []string{"ALAND20", "ALAND10", "ALAND"}
)

// zipFeature is one polygon (possibly multi-part) of the boundary layer
// together with its attribute table values.
type zipFeature struct {
	Parts  [][][2]float64 // each part is a closed ring of [lat, lon] points
	Attrs  map[string]string
	MinLat float64
	MaxLat float64
}

// Load reads the shapefile at path and returns land area in square miles per
// ZIP. Features whose ZIP attribute is not five digits are skipped; several
// features sharing a ZIP are summed. The land-area attribute is used when
// present, otherwise the area is computed from the rings, which are assumed
// to be in geographic (lat/lon) coordinates.
func Load(path string) (map[string]float64, error) {
	features, err := loadShapefile(path)
	if err != nil {
		return nil, fmt.Errorf("load zip boundaries %s: %w", path, err)
	}

	areas := make(map[string]float64)
	for _, f := range features {
		zip, ok := firstAttr(f.Attrs, zipFields)
		if !ok || !types.IsZip(zip) {
			continue
		}
		areas[zip] += f.areaSqMiles()
	}
	return areas, nil
}

// loadShapefile converts the shapefile at path to in-memory features.
func loadShapefile(path string) ([]zipFeature, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if r.GeometryType != shp.POLYGON {
		return nil, fmt.Errorf("unsupported shape type %d, want polygons", r.GeometryType)
	}
	fields := r.Fields()
	if len(fields) == 0 {
		return nil, errors.New("missing or empty attribute table")
	}

	var features []zipFeature
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		numParts := len(poly.Parts)
		parts := make([][][2]float64, numParts)
		minLat, maxLat := math.MaxFloat64, -math.MaxFloat64

		for partIdx := 0; partIdx < numParts; partIdx++ {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < numParts {
				end = poly.Parts[partIdx+1]
			}
			ring := make([][2]float64, 0, int(end-start))
			for i := start; i < end; i++ {
				pt := poly.Points[i]
				ring = append(ring, [2]float64{pt.Y, pt.X})
				minLat = math.Min(minLat, pt.Y)
				maxLat = math.Max(maxLat, pt.Y)
			}
			parts[partIdx] = ring
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			// unwritten DBF cells are NUL-filled
			attrs[strings.ToUpper(f.String())] = strings.Trim(r.ReadAttribute(idx, i), " \x00")
		}

		features = append(features, zipFeature{
			Parts:  parts,
			Attrs:  attrs,
			MinLat: minLat,
			MaxLat: maxLat,
		})
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return features, nil
}

func firstAttr(attrs map[string]string, names []string) (string, bool) {
	for _, name := range names {
		if v, ok := attrs[name]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// areaSqMiles prefers the land-area attribute and falls back to the ring
// geometry.
func (f zipFeature) areaSqMiles() float64 {
	if raw, ok := firstAttr(f.Attrs, landFields); ok {
		if m2, err := strconv.ParseFloat(raw, 64); err == nil && m2 >= 0 {
			return m2 / sqMetersPerSqMile
		}
	}
	if len(f.Parts) == 0 {
		return 0
	}
	midLat := (f.MinLat + f.MaxLat) / 2
	var signed float64
	for _, ring := range f.Parts {
		signed += ringArea(ring, midLat)
	}
	// outer rings are clockwise and holes counter-clockwise, so the signed
	// sum already subtracts the holes
	return math.Abs(signed)
}

// ringArea returns the signed shoelace area in square miles of a [lat, lon]
// ring, projected equirectangularly around midLat. Counter-clockwise rings
// are positive.
func ringArea(ring [][2]float64, midLat float64) float64 {
	if len(ring) < 3 {
		return 0
	}
	milesPerDeg := earthRadiusMiles * math.Pi / 180
	xScale := milesPerDeg * math.Cos(midLat*math.Pi/180)

	var sum float64
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i][1]*xScale, ring[i][0]*milesPerDeg
		xj, yj := ring[j][1]*xScale, ring[j][0]*milesPerDeg
		sum += xj*yi - xi*yj
		j = i
	}
	return sum / 2
}
