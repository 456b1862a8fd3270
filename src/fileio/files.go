package fileio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/ozroads/highways-h3/src/project_types"
	"github.com/ozroads/highways-h3/src/utils"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v3"
)

func LoadOptions(filePath string) (project_types.ConvertOptions, error) {
	options := utils.DefaultOptions
	if err := utils.ReadJsonFile(filePath, &options); err != nil {
		return options, err
	}
	return options, options.Validate()
}

func lineToGeometry(line orb.LineString, props geojson.Properties) (project_types.HighwayGeometry, error) {
	if len(line) == 0 {
		return project_types.HighwayGeometry{}, errors.New("empty linestring")
	}
	geometry := project_types.HighwayGeometry{
		RoadName: props.MustString("road_name", ""),
		Class:    props.MustString("class", ""),
		Nrn:      props.MustString("nrn", ""),
		Points:   make([]h3.GeoCoord, len(line)),
	}
	for i, point := range line {
		// geojson does lng,lat instead of lat,lng
		geometry.Points[i] = h3.GeoCoord{Latitude: point.Lat(), Longitude: point.Lon()}
	}
	return geometry, nil
}

// ReadHighwaysFile loads highway routes from a geojson FeatureCollection.
// LineString and MultiLineString features are accepted; anything else is a
// malformed dataset.
func ReadHighwaysFile(filePath string) ([]project_types.HighwayGeometry, error) {
	bytes, err := utils.ReadFileOrURL(filePath)
	if err != nil {
		return nil, &project_types.DataFormatError{Path: filePath, Err: err}
	}

	collection, err := geojson.UnmarshalFeatureCollection(bytes)
	if err != nil {
		return nil, &project_types.DataFormatError{Path: filePath, Err: err}
	}

	geometries := []project_types.HighwayGeometry{}
	for _, feature := range collection.Features {
		switch geom := feature.Geometry.(type) {
		case orb.LineString:
			geometry, err := lineToGeometry(geom, feature.Properties)
			if err != nil {
				return nil, &project_types.DataFormatError{Path: filePath, Err: err}
			}
			geometries = append(geometries, geometry)
		case orb.MultiLineString:
			for _, line := range geom {
				geometry, err := lineToGeometry(line, feature.Properties)
				if err != nil {
					return nil, &project_types.DataFormatError{Path: filePath, Err: err}
				}
				geometries = append(geometries, geometry)
			}
		default:
			err := fmt.Errorf("unsupported geometry type %s", feature.Geometry.GeoJSONType())
			return nil, &project_types.DataFormatError{Path: filePath, Err: err}
		}
	}
	if len(geometries) == 0 {
		return nil, &project_types.DataFormatError{Path: filePath, Err: errors.New("no line features found")}
	}
	return geometries, nil
}

// WriteHighwaysGeoJSON writes the geometries back out as a FeatureCollection
// with snake_case properties, mirroring the input format.
func WriteHighwaysGeoJSON(geometries []project_types.HighwayGeometry, filePath string) error {
	collection := geojson.NewFeatureCollection()
	for _, geometry := range geometries {
		line := make(orb.LineString, len(geometry.Points))
		for i, coord := range geometry.Points {
			line[i] = orb.Point{coord.Longitude, coord.Latitude}
		}
		feature := geojson.NewFeature(line)
		props, err := utils.DecodeSnakeCase(struct {
			RoadName string
			Class    string
			Nrn      string
		}{geometry.RoadName, geometry.Class, geometry.Nrn})
		if err != nil {
			return err
		}
		feature.Properties = geojson.Properties(props)
		collection.Append(feature)
	}
	return utils.WriteAsJsonFile(collection, filePath)
}

func openCSV(filePath string) (*os.File, error) {
	base := path.Base(filePath)
	dirPath := filePath[:len(filePath)-len(base)]
	if dirPath != "" {
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return nil, err
		}
	}
	return os.Create(filePath)
}

// WriteCoordinatesCSV flattens every geometry's vertices into one csv with
// rounded lat/lng columns.
func WriteCoordinatesCSV(geometries []project_types.HighwayGeometry, filePath string, decimals int) error {
	file, err := openCSV(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"index", "latitude", "longitude"}); err != nil {
		return err
	}
	i := 0
	for _, geometry := range geometries {
		for _, coord := range geometry.Points {
			record := []string{
				strconv.Itoa(i),
				strconv.FormatFloat(coord.Latitude, 'f', decimals, 64),
				strconv.FormatFloat(coord.Longitude, 'f', decimals, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
			i++
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCoverageCSV writes the coverage sorted by h3 index so identical inputs
// produce byte-identical files.
func WriteCoverageCSV(coverage project_types.CoverageSet, filePath string) error {
	file, err := openCSV(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"index", "h3_hexagon", "hits"}); err != nil {
		return err
	}
	for i, cell := range coverage.Cells() {
		record := []string{strconv.Itoa(i), cell, strconv.Itoa(coverage[cell])}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadCoverageCSV(filePath string) (project_types.CoverageSet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &project_types.DataFormatError{Path: filePath, Err: err}
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, &project_types.DataFormatError{Path: filePath, Err: err}
	}
	if len(records) == 0 || len(records[0]) < 3 || records[0][1] != "h3_hexagon" {
		return nil, &project_types.DataFormatError{Path: filePath, Err: errors.New("missing h3_hexagon header")}
	}

	coverage := project_types.CoverageSet{}
	for _, record := range records[1:] {
		hits, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, &project_types.DataFormatError{Path: filePath, Err: err}
		}
		coverage[record[1]] = hits
	}
	return coverage, nil
}
