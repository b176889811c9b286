package streetnet

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const defaultTileAPI = "https://api.openstreetmap.org/api/0.6/map"

// TileSource acquires OSM tiles for bounding boxes, optionally keeping an
// on-disk cache. It resolves a tile to a readable byte stream; the graph
// build itself never performs network or filesystem I/O.
type TileSource struct {
	client   *http.Client
	apiURL   string
	cacheDir string
	verbose  bool
}

// NewTileSource returns tile source with provided options applied
func NewTileSource(options ...func(*TileSource)) *TileSource {
	ts := &TileSource{
		client: http.DefaultClient,
		apiURL: defaultTileAPI,
	}
	for _, option := range options {
		option(ts)
	}
	return ts
}

// WithCacheDir enables the on-disk tile cache in given directory
func WithCacheDir(dir string) func(*TileSource) {
	return func(ts *TileSource) {
		ts.cacheDir = dir
	}
}

// WithTileAPI overrides the OSM map API endpoint
func WithTileAPI(apiURL string) func(*TileSource) {
	return func(ts *TileSource) {
		ts.apiURL = apiURL
	}
}

// WithProxy routes tile downloads through given HTTP proxy
func WithProxy(host string, port int) func(*TileSource) {
	return func(ts *TileSource) {
		proxyURL := &url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", host, port)}
		ts.client = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
			Timeout:   ts.client.Timeout,
		}
	}
}

// WithHTTPClient overrides the HTTP client used for downloads
func WithHTTPClient(client *http.Client) func(*TileSource) {
	return func(ts *TileSource) {
		ts.client = client
	}
}

// WithFetchVerbose enables download progress output
func WithFetchVerbose(verbose bool) func(*TileSource) {
	return func(ts *TileSource) {
		ts.verbose = verbose
	}
}

// CachedTileName returns cache file name for given bounding box,
// coordinates formatted to 8 decimal places
func CachedTileName(bound orb.Bound) string {
	return fmt.Sprintf("osm_map_%.8f_%.8f_%.8f_%.8f.map", bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y())
}

// Fetch returns a readable stream with the OSM tile covering given bounding
// box. With a cache directory configured, a hit is served from disk and a
// miss is written through before reopening from the cache.
func (ts *TileSource) Fetch(bound orb.Bound) (io.ReadCloser, error) {
	cachedTile := ""
	if ts.cacheDir != "" {
		cachedTile = filepath.Join(ts.cacheDir, CachedTileName(bound))
		if file, err := os.Open(cachedTile); err == nil {
			if ts.verbose {
				fmt.Printf("Tile loaded from the cache folder: '%s'\n", cachedTile)
			}
			return file, nil
		}
		if err := os.MkdirAll(ts.cacheDir, 0o755); err != nil {
			return nil, errors.Wrap(err, "Can't prepare cache folder")
		}
	}

	request := fmt.Sprintf("%s?bbox=%f,%f,%f,%f", ts.apiURL, bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y())
	if ts.verbose {
		fmt.Printf("Downloading tile: '%s'... ", request)
	}
	st := time.Now()
	resp, err := ts.client.Get(request)
	if err != nil {
		return nil, errors.Wrap(err, "Tile download")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("Tile download: unexpected status '%s'", resp.Status)
	}
	if ts.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	if cachedTile == "" {
		return resp.Body, nil
	}
	defer resp.Body.Close()

	file, err := os.Create(cachedTile)
	if err != nil {
		return nil, errors.Wrap(err, "Can't create cached tile")
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "Can't write cached tile")
	}
	if err := file.Close(); err != nil {
		return nil, errors.Wrap(err, "Can't finish cached tile")
	}
	cached, err := os.Open(cachedTile)
	if err != nil {
		return nil, errors.Wrap(err, "Can't reopen cached tile")
	}
	return cached, nil
}
