package project_types

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverageSetCells(t *testing.T) {
	coverage := CoverageSet{
		"8abe8d12aca7fff": 1,
		"8abe8d12ac27fff": 3,
		"8abe8d12ac37fff": 2,
	}

	cells := coverage.Cells()
	assert.Len(t, cells, 3)
	assert.True(t, sort.StringsAreSorted(cells))
}

func TestCoverageSetMaxHits(t *testing.T) {
	assert.Equal(t, 0, CoverageSet{}.MaxHits())
	assert.Equal(t, 3, CoverageSet{"a": 1, "b": 3, "c": 2}.MaxHits())
}

func TestCoverageSetResolutionEmpty(t *testing.T) {
	assert.Equal(t, -1, CoverageSet{}.Resolution())
}

func TestCellSetUnion(t *testing.T) {
	a := CellSet{"x": true, "y": true}
	b := CellSet{"y": true, "z": true}

	union := a.Union(b)
	assert.Equal(t, CellSet{"x": true, "y": true, "z": true}, union)
	// inputs unchanged
	assert.Len(t, a, 2)
	assert.Len(t, b, 2)
}

func TestConvertOptionsValidate(t *testing.T) {
	valid := ConvertOptions{Resolution: 8, MaxSegmentLength: 0.001, RingSize: 1}
	assert.NoError(t, valid.Validate())

	badResolution := valid
	badResolution.Resolution = 16
	assert.ErrorIs(t, badResolution.Validate(), ErrInvalidResolution)

	badSegment := valid
	badSegment.MaxSegmentLength = 0
	assert.Error(t, badSegment.Validate())

	badRing := valid
	badRing.RingSize = -1
	assert.Error(t, badRing.Validate())
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("boom")

	dataErr := &DataFormatError{Path: "in.geojson", Err: cause}
	assert.ErrorIs(t, dataErr, cause)
	assert.Contains(t, dataErr.Error(), "in.geojson")

	renderErr := &RenderError{Path: "out.png", Err: cause}
	assert.ErrorIs(t, renderErr, cause)
	assert.Contains(t, renderErr.Error(), "out.png")
}
