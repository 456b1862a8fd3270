package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/ozroads/highways-h3/src/project_types"
)

// postgres caps the number of bind parameters per statement
const maxInsert int = 65535

func SqlInitialize(connectString string) (*sqlx.DB, error) {
	var err error
	Sqldb, err := sqlx.Connect("postgres", connectString)
	if err != nil {
		return Sqldb, err
	}
	if err = Sqldb.Ping(); err != nil {
		return Sqldb, err
	}
	return Sqldb, nil
}

func CreateTables(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS hexagons (
		h3 text PRIMARY KEY,
		hits int,
		resolution int
	);`); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS routes (
		road_name text,
		class text,
		nrn text,
		vertices int
	);`); err != nil {
		return err
	}

	return nil
}

// BatchBounds yields the half-open [start, end) slice bounds for inserting
// total rows of rowParams parameters each without exceeding the postgres limit.
func BatchBounds(total int, rowParams int) [][2]int {
	batchSize := maxInsert / rowParams
	bounds := [][2]int{}
	for i := 0; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}
		bounds = append(bounds, [2]int{i, end})
	}
	return bounds
}

func PopulateHexagons(db *sqlx.DB, coverage project_types.CoverageSet) error {
	resolution := coverage.Resolution()
	values := []map[string]interface{}{}
	for _, cell := range coverage.Cells() {
		values = append(values, map[string]interface{}{
			"h3":         cell,
			"hits":       coverage[cell],
			"resolution": resolution,
		})
	}
	for _, bounds := range BatchBounds(len(values), 3) {
		if _, err := db.NamedExec(
			`INSERT INTO hexagons (h3, hits, resolution) VALUES (:h3, :hits, :resolution)`,
			values[bounds[0]:bounds[1]],
		); err != nil {
			return err
		}
	}
	return nil
}

func PopulateRoutes(db *sqlx.DB, geometries []project_types.HighwayGeometry) error {
	values := []map[string]interface{}{}
	for _, geometry := range geometries {
		values = append(values, map[string]interface{}{
			"road_name": geometry.RoadName,
			"class":     geometry.Class,
			"nrn":       geometry.Nrn,
			"vertices":  len(geometry.Points),
		})
	}
	for _, bounds := range BatchBounds(len(values), 4) {
		if _, err := db.NamedExec(
			`INSERT INTO routes (road_name, class, nrn, vertices) VALUES (:road_name, :class, :nrn, :vertices)`,
			values[bounds[0]:bounds[1]],
		); err != nil {
			return err
		}
	}
	return nil
}
