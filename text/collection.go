// Package text implements the measurement callback used by layout:
// HarfBuzz shaping through go-text/typesetting, greedy word wrapping,
// and caret mapping between rune offsets and pixel positions.
package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
)

// Collection registers font families by name. The first loaded family
// becomes the fallback for unknown names, so a single-font setup never
// has to repeat the family in styles.
//
// Parsed font.Font values are read-only and safe to share; Collection
// is safe for concurrent use.
type Collection struct {
	mu       sync.RWMutex
	fonts    map[string]*font.Font
	fallback string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{fonts: make(map[string]*font.Font)}
}

// Load parses TTF or OTF bytes and registers them under family.
func (c *Collection) Load(family string, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.fonts) == 0 {
		c.fallback = family
	}
	c.fonts[family] = face.Font
	return nil
}

// LoadFile reads and registers a font file.
func (c *Collection) LoadFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %q: %w", family, err)
	}
	return c.Load(family, data)
}

// Len returns the number of registered families.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fonts)
}

// lookup returns the font for a family, falling back to the first
// loaded family, or nil when the collection is empty.
func (c *Collection) lookup(family string) *font.Font {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f, ok := c.fonts[family]; ok {
		return f
	}
	return c.fonts[c.fallback]
}
