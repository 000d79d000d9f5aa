// Package imgload decodes image sources off the UI thread. Decoding
// is the only concurrent part of the runtime: requests fan out to
// goroutines and finished results queue on a channel that the frame
// loop drains before layout.
package imgload

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Result is one finished decode. Width and Height are the intrinsic
// pixel size; on error the image is nil.
type Result struct {
	Src    string
	Image  image.Image
	Width  int
	Height int
	Err    error
}

// Loader fetches and decodes images by source string. A source is an
// http(s) URL or a file path (with or without a file:// prefix).
// Requests for a source already being fetched are coalesced.
type Loader struct {
	client  *http.Client
	results chan Result

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewLoader returns a loader with a buffered result queue.
func NewLoader() *Loader {
	return &Loader{
		client:   &http.Client{Timeout: 10 * time.Second},
		results:  make(chan Result, 32),
		inFlight: make(map[string]struct{}),
	}
}

// Request starts fetching src unless a fetch for it is already
// running. Reports whether a new fetch was started.
func (l *Loader) Request(src string) bool {
	if src == "" {
		return false
	}
	l.mu.Lock()
	if _, ok := l.inFlight[src]; ok {
		l.mu.Unlock()
		return false
	}
	l.inFlight[src] = struct{}{}
	l.mu.Unlock()

	go l.fetch(src)
	return true
}

// Drain returns every result finished since the last call without
// blocking. The frame loop calls it once per tick, before layout.
func (l *Loader) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Pending reports how many fetches are still running.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inFlight)
}

func (l *Loader) fetch(src string) {
	img, err := l.decode(src)

	res := Result{Src: src, Err: err}
	if err == nil {
		res.Image = img
		b := img.Bounds()
		res.Width, res.Height = b.Dx(), b.Dy()
	}

	l.mu.Lock()
	delete(l.inFlight, src)
	l.mu.Unlock()

	// Never block the fetch goroutine on a loader nobody drains; the
	// source can be requested again.
	select {
	case l.results <- res:
	default:
		log.Printf("imgload: result queue full, dropping result for %q", src)
	}
}

func (l *Loader) decode(src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		resp, err := l.client.Get(src)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image %q: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch image %q: status %s", src, resp.Status)
		}
		img, _, err := image.Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %q: %w", src, err)
		}
		return img, nil
	}

	path := strings.TrimPrefix(src, "file://")
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", src, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", src, err)
	}
	return img, nil
}
