package render

import (
	"errors"
	"math"
	"os"
	"path"

	"github.com/fogleman/gg"
	"github.com/ozroads/highways-h3/src/project_types"
	h3 "github.com/uber/h3-go/v3"
)

const margin = 24.0

type projection struct {
	minLat, maxLat float64
	minLng, maxLng float64
	scaleLat       float64
	scaleLng       float64
}

func (p *projection) toXY(coord h3.GeoCoord) (float64, float64) {
	x := margin + (coord.Longitude-p.minLng)*p.scaleLng
	y := margin + (p.maxLat-coord.Latitude)*p.scaleLat
	return x, y
}

func fitProjection(boundaries [][]h3.GeoCoord, width int) (*projection, int) {
	p := projection{
		minLat: math.MaxFloat64, maxLat: -math.MaxFloat64,
		minLng: math.MaxFloat64, maxLng: -math.MaxFloat64,
	}
	for _, boundary := range boundaries {
		for _, coord := range boundary {
			p.minLat = math.Min(p.minLat, coord.Latitude)
			p.maxLat = math.Max(p.maxLat, coord.Latitude)
			p.minLng = math.Min(p.minLng, coord.Longitude)
			p.maxLng = math.Max(p.maxLng, coord.Longitude)
		}
	}

	lngSpan := p.maxLng - p.minLng
	latSpan := p.maxLat - p.minLat
	if lngSpan == 0 {
		lngSpan = 1e-9
	}
	if latSpan == 0 {
		latSpan = 1e-9
	}

	// equirectangular with latitude correction so hexagons keep their shape
	midLat := (p.minLat + p.maxLat) / 2 * math.Pi / 180
	p.scaleLng = (float64(width) - 2*margin) / lngSpan
	p.scaleLat = p.scaleLng / math.Cos(midLat)

	height := int(latSpan*p.scaleLat + 2*margin)
	return &p, height
}

// density ramp from pale yellow (single route) to dark red (most overlapped)
func densityColor(hits int, maxHits int) (float64, float64, float64) {
	t := 0.0
	if maxHits > 1 {
		t = float64(hits-1) / float64(maxHits-1)
	}
	r := 0.98 - 0.33*t
	g := 0.85 - 0.72*t
	b := 0.45 - 0.38*t
	return r, g, b
}

// WritePNG renders every covered hexagon into a png, filled by overlap density.
func WritePNG(coverage project_types.CoverageSet, filePath string, width int) error {
	if len(coverage) == 0 {
		return &project_types.RenderError{Path: filePath, Err: errors.New("empty coverage set")}
	}
	if width <= 0 {
		return &project_types.RenderError{Path: filePath, Err: errors.New("width must be positive")}
	}

	cells := coverage.Cells()
	boundaries := make([][]h3.GeoCoord, len(cells))
	for i, cell := range cells {
		boundaries[i] = h3.ToGeoBoundary(h3.FromString(cell))
	}

	proj, height := fitProjection(boundaries, width)
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	maxHits := coverage.MaxHits()
	for i, cell := range cells {
		boundary := boundaries[i]
		if len(boundary) == 0 {
			continue
		}
		x, y := proj.toXY(boundary[0])
		dc.MoveTo(x, y)
		for _, coord := range boundary[1:] {
			x, y = proj.toXY(coord)
			dc.LineTo(x, y)
		}
		dc.ClosePath()

		dc.SetRGB(densityColor(coverage[cell], maxHits))
		dc.FillPreserve()
		dc.SetRGBA(0.2, 0.2, 0.2, 0.6)
		dc.SetLineWidth(0.5)
		dc.Stroke()
	}

	base := path.Base(filePath)
	dirPath := filePath[:len(filePath)-len(base)]
	if dirPath != "" {
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return &project_types.RenderError{Path: filePath, Err: err}
		}
	}
	if err := dc.SavePNG(filePath); err != nil {
		return &project_types.RenderError{Path: filePath, Err: err}
	}
	return nil
}
