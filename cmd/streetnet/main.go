package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"streetnet"
)

var (
	osmFileName = flag.String("file", "", "Filename of *.osm / *.xml / *.pbf file. Leave empty to download a tile for -bbox instead")
	bboxStr     = flag.String("bbox", "", "Bounding box of the tile to download: 'left,bottom,right,top' (WGS84 degrees)")
	cacheDir    = flag.String("cache", "", "Folder for the on-disk tile cache. Leave empty to disable caching")
	proxyHost   = flag.String("proxy-host", "", "HTTP proxy host for tile downloads. Leave empty to connect directly")
	proxyPort   = flag.Int("proxy-port", 8080, "HTTP proxy port for tile downloads")
	addr        = flag.String("addr", ":8080", "Address for the simulation HTTP server")
	roadsOnly   = flag.Bool("roads-only", true, "Keep motor-vehicle roads only (drop footways, cycleways etc.)")
	numCars     = flag.Int("cars", 50, "Number of simulated cars")
	tick        = flag.Duration("tick", 300*time.Millisecond, "Interval between simulation ticks")
	verbose     = flag.Bool("verbose", true, "Print progress")
)

func main() {
	flag.Parse()

	graph, stops, err := loadNetwork()
	if err != nil {
		log.Fatalln(err)
	}

	sim, err := streetnet.NewSimulation(graph, *numCars, *tick, time.Now().UnixNano())
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := newServer(stops, streetnet.MapCenter(graph))
	go server.consume(sim.Run(ctx, *tick))

	httpServer := &http.Server{Addr: *addr, Handler: server.router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	if *verbose {
		fmt.Printf("Serving simulation on '%s'\n", *addr)
	}
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}

func loadNetwork() (*streetnet.Graph, []*geojson.Feature, error) {
	options := []func(*streetnet.Parser){
		streetnet.WithRoadsOnly(*roadsOnly),
		streetnet.WithVerbose(*verbose),
	}

	if *osmFileName != "" {
		return streetnet.CreateStreetNetworkFromFile(*osmFileName, options...)
	}

	bound, err := parseBBox(*bboxStr)
	if err != nil {
		return nil, nil, err
	}
	sourceOptions := []func(*streetnet.TileSource){
		streetnet.WithFetchVerbose(*verbose),
	}
	if *cacheDir != "" {
		sourceOptions = append(sourceOptions, streetnet.WithCacheDir(*cacheDir))
	}
	if *proxyHost != "" {
		sourceOptions = append(sourceOptions, streetnet.WithProxy(*proxyHost, *proxyPort))
	}
	stream, err := streetnet.NewTileSource(sourceOptions...).Fetch(bound)
	if err != nil {
		return nil, nil, err
	}
	defer stream.Close()
	return streetnet.CreateStreetNetwork(stream, options...)
}

// parseBBox reads 'left,bottom,right,top' into a bound
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.Errorf("Expected bounding box as 'left,bottom,right,top', got '%s'", s)
	}
	coords := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, errors.Wrapf(err, "Bad bounding box coordinate '%s'", part)
		}
		coords[i] = value
	}
	return orb.Bound{
		Min: orb.Point{coords[0], coords[1]},
		Max: orb.Point{coords[2], coords[3]},
	}, nil
}
