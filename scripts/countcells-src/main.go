package main

import (
	"log"
	"os"

	"github.com/ozroads/highways-h3/src/fileio"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: countcells [h3-csv-path]")
	}

	coverage, err := fileio.ReadCoverageCSV(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	hits := 0
	for _, count := range coverage {
		hits += count
	}

	log.Printf("hexagons: %d, total route hits: %d, resolution: %d\n", len(coverage), hits, coverage.Resolution())
}
