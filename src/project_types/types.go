package project_types

import (
	"errors"
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v3"
)

const MaxResolution = 15

var ErrInvalidResolution = errors.New("h3 resolution must be between 0 and 15")

// HighwayGeometry is one named route read from the input dataset. Points are
// (lat, lng) vertices in input order and are not mutated after loading.
type HighwayGeometry struct {
	RoadName string        `json:"roadName"`
	Class    string        `json:"class"`
	Nrn      string        `json:"nrn"`
	Points   []h3.GeoCoord `json:"points"`
}

// CellSet holds the deduplicated h3 indexes covering a single geometry.
type CellSet map[string]bool

func (s CellSet) Union(other CellSet) CellSet {
	union := make(CellSet, len(s)+len(other))
	for cell := range s {
		union[cell] = true
	}
	for cell := range other {
		union[cell] = true
	}
	return union
}

// CoverageSet maps each covered h3 index to the number of geometries covering it.
type CoverageSet map[string]int

// Cells returns the covered indexes sorted so csv output is reproducible run to run.
func (c CoverageSet) Cells() []string {
	cells := make([]string, 0, len(c))
	for cell := range c {
		cells = append(cells, cell)
	}
	sort.Strings(cells)
	return cells
}

func (c CoverageSet) MaxHits() int {
	max := 0
	for _, hits := range c {
		if hits > max {
			max = hits
		}
	}
	return max
}

// Resolution reports the h3 resolution of the coverage, taken from any member
// cell. Returns -1 for an empty set.
func (c CoverageSet) Resolution() int {
	for cell := range c {
		return h3.Resolution(h3.FromString(cell))
	}
	return -1
}

type ConvertOptions struct {
	Resolution         int     `json:"resolution"`
	MaxSegmentLength   float64 `json:"maxSegmentLength"`
	RingSize           int     `json:"ringSize"`
	CoordinateDecimals int     `json:"coordinateDecimals"`
}

func (o *ConvertOptions) Validate() error {
	if o.Resolution < 0 || o.Resolution > MaxResolution {
		return ErrInvalidResolution
	}
	if o.MaxSegmentLength <= 0 {
		return errors.New("maxSegmentLength must be positive")
	}
	if o.RingSize < 0 {
		return errors.New("ringSize must be non-negative")
	}
	return nil
}

// DataFormatError reports a missing or malformed input dataset.
type DataFormatError struct {
	Path string
	Err  error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("invalid highway dataset %s: %v", e.Path, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// RenderError reports a failure producing the rendered artifact.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// total number of cells in the global grid per resolution
var ResolutionSizes map[int]int = map[int]int{
	0:  122,
	1:  842,
	2:  5882,
	3:  41162,
	4:  288122,
	5:  2016842,
	6:  14117882,
	7:  98825162,
	8:  691776122,
	9:  4842432842,
	10: 33897029882,
	11: 237279209162,
	12: 1660954464122,
	13: 11626681248842,
	14: 81386768741882,
	15: 569707381193162,
}
