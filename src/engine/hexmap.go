package engine

import (
	"log"
	"math"

	"github.com/ozroads/highways-h3/src/project_types"
	h3 "github.com/uber/h3-go/v3"
)

// Segmentize returns a copy of the geometry with extra vertices interpolated so
// that no segment is longer than maxSegmentLength (in degrees). Without this,
// mapping only the input vertices skips hexagons on long straight stretches.
func Segmentize(geometry project_types.HighwayGeometry, maxSegmentLength float64) project_types.HighwayGeometry {
	segmentized := project_types.HighwayGeometry{
		RoadName: geometry.RoadName,
		Class:    geometry.Class,
		Nrn:      geometry.Nrn,
	}
	if len(geometry.Points) == 0 {
		return segmentized
	}

	points := []h3.GeoCoord{geometry.Points[0]}
	for i := 1; i < len(geometry.Points); i++ {
		prev := geometry.Points[i-1]
		next := geometry.Points[i]
		latDiff := next.Latitude - prev.Latitude
		lonDiff := next.Longitude - prev.Longitude
		length := math.Sqrt(latDiff*latDiff + lonDiff*lonDiff)

		pieces := int(math.Ceil(length / maxSegmentLength))
		for j := 1; j < pieces; j++ {
			frac := float64(j) / float64(pieces)
			points = append(points, h3.GeoCoord{
				Latitude:  prev.Latitude + latDiff*frac,
				Longitude: prev.Longitude + lonDiff*frac,
			})
		}
		points = append(points, next)
	}
	segmentized.Points = points
	return segmentized
}

// MapGeometry converts one geometry into the set of h3 cells covering it at the
// given resolution. Every vertex maps to its cell plus a k-ring of neighbors so
// the coverage forms a contiguous band around the route.
func MapGeometry(geometry project_types.HighwayGeometry, resolution int, ringSize int) (project_types.CellSet, error) {
	if resolution < 0 || resolution > project_types.MaxResolution {
		return nil, project_types.ErrInvalidResolution
	}

	cells := project_types.CellSet{}
	for _, coord := range geometry.Points {
		for _, h := range h3.KRing(h3.FromGeo(coord, resolution), ringSize) {
			cells[h3.ToString(h)] = true
		}
	}
	return cells, nil
}

// Aggregate unions per-geometry cell sets into one coverage set. The hit count
// per cell is the number of geometries covering it; membership does not depend
// on input order.
func Aggregate(sets []project_types.CellSet) project_types.CoverageSet {
	coverage := project_types.CoverageSet{}
	for _, set := range sets {
		for cell := range set {
			coverage[cell]++
		}
	}
	return coverage
}

// MapHighways runs segmentize, map and aggregate over the full dataset and
// returns the segmentized geometries alongside the coverage.
func MapHighways(geometries []project_types.HighwayGeometry, options project_types.ConvertOptions) ([]project_types.HighwayGeometry, project_types.CoverageSet, error) {
	if err := options.Validate(); err != nil {
		return nil, nil, err
	}

	segmentized := make([]project_types.HighwayGeometry, len(geometries))
	sets := make([]project_types.CellSet, len(geometries))
	for i, geometry := range geometries {
		segmentized[i] = Segmentize(geometry, options.MaxSegmentLength)
		cells, err := MapGeometry(segmentized[i], options.Resolution, options.RingSize)
		if err != nil {
			return nil, nil, err
		}
		sets[i] = cells

		if (i+1)%100 == 0 {
			log.Printf("mapped %d/%d routes\n", i+1, len(geometries))
		}
	}
	return segmentized, Aggregate(sets), nil
}
