package main

import (
	"fmt"
	"log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/ozroads/highways-h3/src/fileio"
	"github.com/ozroads/highways-h3/src/project_types"
	h3 "github.com/uber/h3-go/v3"
)

// Aggregates a coverage csv onto parent cells at a coarser resolution.
func main() {
	start := time.Now()
	if len(os.Args) < 3 {
		log.Fatal("usage: coarsen [h3-csv-path] [resolution]")
	}
	csvPath := os.Args[1]
	res, err := strconv.Atoi(os.Args[2])
	if err != nil || res < 0 || res > project_types.MaxResolution {
		log.Fatal("resolution must be an integer between 0 and 15")
	}

	log.Print("reading coverage csv")
	coverage, err := fileio.ReadCoverageCSV(csvPath)
	if err != nil {
		log.Fatal(err)
	}
	if coverage.Resolution() < res {
		log.Fatalf("coverage is already coarser than resolution %d\n", res)
	}

	log.Printf("aggregating onto parents at resolution %d\n", res)
	coarse := project_types.CoverageSet{}
	for cell, hits := range coverage {
		parent := h3.ToString(h3.ToParent(h3.FromString(cell), res))
		coarse[parent] += hits
	}

	outPath := path.Join(path.Dir(csvPath), fmt.Sprintf("h3_hexagons_res%d.csv", res))
	if err := fileio.WriteCoverageCSV(coarse, outPath); err != nil {
		log.Fatal(err)
	}

	log.Printf("%d parent hexagons written to %s\n", len(coarse), outPath)
	log.Printf("total time: %s\n", time.Since(start))
}
