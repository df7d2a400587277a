// Package avatar renders initials-based fallback avatars for users without
// an avatar_url, so the dashboard never shows a broken image.
package avatar

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/adminkit/portal-core/views/helpers"
)

const size = 128

// palette holds the background colors an avatar can pick from. The seed
// selects one deterministically so a user always gets the same color.
var palette = [][3]float64{
	{0.31, 0.27, 0.90}, // indigo
	{0.02, 0.59, 0.41}, // emerald
	{0.86, 0.15, 0.47}, // pink
	{0.92, 0.35, 0.05}, // orange
	{0.03, 0.57, 0.82}, // sky
	{0.49, 0.23, 0.93}, // violet
}

// Generator renders and caches avatar PNGs keyed by seed and name.
type Generator struct {
	mu    sync.Mutex
	cache map[string][]byte
}

func NewGenerator() *Generator {
	return &Generator{cache: make(map[string][]byte)}
}

// Render returns a PNG avatar for the given seed and display name.
func (g *Generator) Render(seed, name string) ([]byte, error) {
	key := seed + "\x00" + name

	g.mu.Lock()
	cached, ok := g.cache[key]
	g.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := render(seed, name)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.cache[key] = data
	g.mu.Unlock()
	return data, nil
}

func render(seed, name string) ([]byte, error) {
	dc := gg.NewContext(size, size)

	color := palette[colorIndex(seed)]
	dc.SetRGB(color[0], color[1], color[2])
	dc.Clear()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(font, &truetype.Options{Size: 52})
	dc.SetFontFace(face)

	initials := helpers.Initials(name)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials, size/2, size/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func colorIndex(seed string) int {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return int(h.Sum32() % uint32(len(palette)))
}
