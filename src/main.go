package main

import (
	"flag"
	"log"
	"os"
	"path"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/joho/godotenv"
	"github.com/ozroads/highways-h3/src/database"
	"github.com/ozroads/highways-h3/src/engine"
	"github.com/ozroads/highways-h3/src/fileio"
	"github.com/ozroads/highways-h3/src/render"
	"github.com/ozroads/highways-h3/src/server"
	"github.com/ozroads/highways-h3/src/utils"
)

const usage = "run using one of these subcommands: convert, render, serve, dbwrite"

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	switch os.Args[1] {
	case "convert":
		if len(os.Args) < 3 {
			log.Fatal("convert subcommand has one argument: [highways-geojson-path]")
		}
		highwaysPath := os.Args[2]

		cmd := flag.NewFlagSet("convert", flag.ExitOnError)
		var resolution int
		var maxSegmentLength float64
		var ringSize int
		var configPath string
		var outDir string
		var pngWidth int
		cmd.IntVar(&resolution, "r", -1, "h3 resolution used to map the highways (overrides config)")
		cmd.Float64Var(&maxSegmentLength, "s", 0, "max segment length in degrees before interpolating extra vertices (overrides config)")
		cmd.IntVar(&ringSize, "k", -1, "ring of neighbor cells added around each vertex cell (overrides config)")
		cmd.StringVar(&configPath, "c", "", "path to convert options file (json)")
		cmd.StringVar(&outDir, "o", "data_out", "data output directory")
		cmd.IntVar(&pngWidth, "w", 1600, "rendered png width in pixels")
		cmd.Parse(os.Args[3:])

		options := utils.DefaultOptions
		if configPath != "" {
			var err error
			options, err = fileio.LoadOptions(configPath)
			if err != nil {
				log.Fatal(err)
			}
		}
		if resolution >= 0 {
			options.Resolution = resolution
		}
		if maxSegmentLength > 0 {
			options.MaxSegmentLength = maxSegmentLength
		}
		if ringSize >= 0 {
			options.RingSize = ringSize
		}
		if err := options.Validate(); err != nil {
			log.Fatal(err)
		}

		log.Print("loading highways geojson data")
		geometries, err := fileio.ReadHighwaysFile(highwaysPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%d routes loaded\n", len(geometries))

		if err = fileio.WriteHighwaysGeoJSON(geometries, path.Join(outDir, "highways.geojson")); err != nil {
			log.Fatal(err)
		}
		if err = fileio.WriteCoordinatesCSV(geometries, path.Join(outDir, "coordinates.csv"), options.CoordinateDecimals); err != nil {
			log.Fatal(err)
		}

		log.Printf("mapping routes to h3 cells at resolution %d\n", options.Resolution)
		segmentized, coverage, err := engine.MapHighways(geometries, options)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%d hexagons covered\n", len(coverage))

		if err = fileio.WriteHighwaysGeoJSON(segmentized, path.Join(outDir, "highways_segmentized.geojson")); err != nil {
			log.Fatal(err)
		}
		if err = fileio.WriteCoordinatesCSV(segmentized, path.Join(outDir, "coordinates_segmentized.csv"), options.CoordinateDecimals); err != nil {
			log.Fatal(err)
		}
		if err = fileio.WriteCoverageCSV(coverage, path.Join(outDir, "h3_hexagons.csv")); err != nil {
			log.Fatal(err)
		}

		log.Print("rendering hexagons")
		if err = render.WritePNG(coverage, path.Join(outDir, "hexagons.png"), pngWidth); err != nil {
			log.Fatal(err)
		}

		log.Print(time.Since(startTime))
	case "render":
		if len(os.Args) < 3 {
			log.Fatal("render subcommand has one argument: [data-directory]")
		}
		dataDir := os.Args[2]

		cmd := flag.NewFlagSet("render", flag.ExitOnError)
		var outPath string
		var pngWidth int
		cmd.StringVar(&outPath, "o", "", "output png path (default [data-directory]/hexagons.png)")
		cmd.IntVar(&pngWidth, "w", 1600, "rendered png width in pixels")
		cmd.Parse(os.Args[3:])

		if outPath == "" {
			outPath = path.Join(dataDir, "hexagons.png")
		}

		log.Print("reading coverage csv")
		coverage, err := fileio.ReadCoverageCSV(path.Join(dataDir, "h3_hexagons.csv"))
		if err != nil {
			log.Fatal(err)
		}

		log.Print("rendering hexagons")
		if err = render.WritePNG(coverage, outPath, pngWidth); err != nil {
			log.Fatal(err)
		}

		log.Print(time.Since(startTime))
	case "serve":
		if len(os.Args) < 3 {
			log.Fatal("serve subcommand has one argument: [data-directory]")
		}
		dataDir := os.Args[2]

		cmd := flag.NewFlagSet("serve", flag.ExitOnError)
		var port int
		var jwksURL string
		cmd.IntVar(&port, "p", 8080, "serving port")
		cmd.StringVar(&jwksURL, "j", os.Getenv("JWKS_URL"), "jwks url for token verification (empty disables auth)")
		cmd.Parse(os.Args[3:])

		log.Print("reading coverage csv")
		coverage, err := fileio.ReadCoverageCSV(path.Join(dataDir, "h3_hexagons.csv"))
		if err != nil {
			log.Fatal(err)
		}

		var jwks *keyfunc.JWKS
		if jwksURL != "" {
			jwks, err = utils.JwksCreatePublicKey(jwksURL, time.Hour)
			if err != nil {
				log.Fatal(err)
			}
		}

		log.Print(time.Since(startTime))

		server.RunServer(coverage, jwks, port)
	case "dbwrite":
		if len(os.Args) < 3 {
			log.Fatal("dbwrite subcommand has two arguments: [data-directory] [sql-connection-string]")
		}
		dataDir := os.Args[2]
		connectionString := os.Getenv("DATABASE_URL")
		if len(os.Args) >= 4 {
			connectionString = os.Args[3]
		}
		if connectionString == "" {
			log.Fatal("no connection string given and DATABASE_URL is unset")
		}

		db, err := database.SqlInitialize(connectionString)
		if err != nil {
			log.Fatal(err)
		}

		log.Print("creating tables")
		if err := database.CreateTables(db); err != nil {
			log.Fatal(err)
		}

		log.Print("reading coverage csv")
		coverage, err := fileio.ReadCoverageCSV(path.Join(dataDir, "h3_hexagons.csv"))
		if err != nil {
			log.Fatal(err)
		}
		log.Print("populating hexagons")
		if err := database.PopulateHexagons(db, coverage); err != nil {
			log.Fatal(err)
		}

		log.Print("reading segmentized geojson")
		if geometries, err := fileio.ReadHighwaysFile(path.Join(dataDir, "highways_segmentized.geojson")); err == nil {
			log.Print("populating routes")
			if err := database.PopulateRoutes(db, geometries); err != nil {
				log.Fatal(err)
			}
		} else {
			log.Fatal(err)
		}

		log.Print(time.Since(startTime))
	default:
		log.Fatal(usage)
	}
}
