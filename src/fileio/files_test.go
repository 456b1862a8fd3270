package fileio

import (
	"os"
	"path"
	"testing"

	"github.com/ozroads/highways-h3/src/engine"
	"github.com/ozroads/highways-h3/src/project_types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"road_name": "Hume Highway", "class": "Principal Road", "nrn": "M31"},
			"geometry": {
				"type": "LineString",
				"coordinates": [[149.6185, -34.7515], [149.6412, -34.7603], [149.6633, -34.7711]]
			}
		},
		{
			"type": "Feature",
			"properties": {"road_name": "Pacific Highway", "class": "Dual Carriageway", "nrn": "M1"},
			"geometry": {
				"type": "MultiLineString",
				"coordinates": [
					[[151.3412, -33.4245], [151.3529, -33.4101]],
					[[151.3601, -33.3987], [151.3712, -33.3856]]
				]
			}
		}
	]
}`

func writeSample(t *testing.T, contents string) string {
	t.Helper()
	filePath := path.Join(t.TempDir(), "highways.geojson")
	require.NoError(t, os.WriteFile(filePath, []byte(contents), 0644))
	return filePath
}

func TestReadHighwaysFile(t *testing.T) {
	geometries, err := ReadHighwaysFile(writeSample(t, sampleGeoJSON))
	require.NoError(t, err)
	// the multilinestring splits into two geometries
	require.Len(t, geometries, 3)

	hume := geometries[0]
	assert.Equal(t, "Hume Highway", hume.RoadName)
	assert.Equal(t, "Principal Road", hume.Class)
	assert.Equal(t, "M31", hume.Nrn)
	require.Len(t, hume.Points, 3)
	// geojson stores lng,lat; points must come back lat,lng
	assert.InDelta(t, -34.7515, hume.Points[0].Latitude, 1e-9)
	assert.InDelta(t, 149.6185, hume.Points[0].Longitude, 1e-9)

	assert.Equal(t, "Pacific Highway", geometries[1].RoadName)
	assert.Equal(t, geometries[1].RoadName, geometries[2].RoadName)
	assert.Len(t, geometries[1].Points, 2)
}

func TestReadHighwaysFileMissing(t *testing.T) {
	_, err := ReadHighwaysFile(path.Join(t.TempDir(), "nope.geojson"))
	var dataErr *project_types.DataFormatError
	assert.ErrorAs(t, err, &dataErr)
}

func TestReadHighwaysFileMalformed(t *testing.T) {
	_, err := ReadHighwaysFile(writeSample(t, `{"type": "FeatureCollection", "features": [{`))
	var dataErr *project_types.DataFormatError
	assert.ErrorAs(t, err, &dataErr)
}

func TestReadHighwaysFileUnsupportedGeometry(t *testing.T) {
	pointsOnly := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {},
				"geometry": {"type": "Point", "coordinates": [149.6185, -34.7515]}
			}
		]
	}`
	_, err := ReadHighwaysFile(writeSample(t, pointsOnly))
	var dataErr *project_types.DataFormatError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Error(), "unsupported geometry type")
}

func TestReadHighwaysFileNoFeatures(t *testing.T) {
	_, err := ReadHighwaysFile(writeSample(t, `{"type": "FeatureCollection", "features": []}`))
	var dataErr *project_types.DataFormatError
	assert.ErrorAs(t, err, &dataErr)
}

func TestHighwaysGeoJSONRoundTrip(t *testing.T) {
	geometries, err := ReadHighwaysFile(writeSample(t, sampleGeoJSON))
	require.NoError(t, err)

	outPath := path.Join(t.TempDir(), "echo.geojson")
	require.NoError(t, WriteHighwaysGeoJSON(geometries, outPath))

	reloaded, err := ReadHighwaysFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, geometries, reloaded)
}

func TestWriteCoordinatesCSV(t *testing.T) {
	geometries, err := ReadHighwaysFile(writeSample(t, sampleGeoJSON))
	require.NoError(t, err)

	outPath := path.Join(t.TempDir(), "coordinates.csv")
	require.NoError(t, WriteCoordinatesCSV(geometries, outPath, 4))

	contents, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "index,latitude,longitude")
	assert.Contains(t, string(contents), "0,-34.7515,149.6185")
}

func TestCoverageCSVRoundTrip(t *testing.T) {
	geometries, err := ReadHighwaysFile(writeSample(t, sampleGeoJSON))
	require.NoError(t, err)
	_, coverage, err := engine.MapHighways(geometries, project_types.ConvertOptions{
		Resolution:         8,
		MaxSegmentLength:   0.001,
		RingSize:           1,
		CoordinateDecimals: 4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, coverage)

	dir := t.TempDir()
	outPath := path.Join(dir, "h3_hexagons.csv")
	require.NoError(t, WriteCoverageCSV(coverage, outPath))

	reloaded, err := ReadCoverageCSV(outPath)
	require.NoError(t, err)
	assert.Equal(t, coverage, reloaded)

	// same coverage written twice is byte identical
	secondPath := path.Join(dir, "again.csv")
	require.NoError(t, WriteCoverageCSV(coverage, secondPath))
	first, err := os.ReadFile(outPath)
	require.NoError(t, err)
	second, err := os.ReadFile(secondPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReadCoverageCSVMalformed(t *testing.T) {
	filePath := path.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("not,a,coverage\n1,2,3\n"), 0644))

	_, err := ReadCoverageCSV(filePath)
	var dataErr *project_types.DataFormatError
	assert.ErrorAs(t, err, &dataErr)
}

func TestLoadOptions(t *testing.T) {
	filePath := path.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(filePath, []byte(`{"resolution": 6, "maxSegmentLength": 0.005}`), 0644))

	options, err := LoadOptions(filePath)
	require.NoError(t, err)
	assert.Equal(t, 6, options.Resolution)
	assert.Equal(t, 0.005, options.MaxSegmentLength)
	// unset fields fall back to defaults
	assert.Equal(t, 1, options.RingSize)
}

func TestLoadOptionsInvalidResolution(t *testing.T) {
	filePath := path.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(filePath, []byte(`{"resolution": 42}`), 0644))

	_, err := LoadOptions(filePath)
	assert.ErrorIs(t, err, project_types.ErrInvalidResolution)
}
