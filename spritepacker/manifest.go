// Package spritepacker describes the JSON manifest written alongside a
// baked atlas image: where each source image ended up, and the overall
// canvas size.
package spritepacker

import (
	"encoding/json"
	"os"
)

// SpriteInfo is the region a single source image occupies within a baked
// atlas, plus enough information to undo transparent-border trimming.
type SpriteInfo struct {
	Filename   string `json:"filename"`
	Region     Region `json:"region"`
	Trimmed    bool   `json:"trimmed"`
	SourceSize Size   `json:"sourceSize"`
	SourceRect Region `json:"sourceRect,omitempty"`
}

// Region is a placed rectangle: its position (X, Y) followed by its size
// (W, H), in pixels, which is what a consumer of the manifest (a renderer
// slicing the atlas texture) needs to set up a UV rect.
type Region struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
	W uint16 `json:"w"`
	H uint16 `json:"h"`
}

// Size is a source image's original dimensions, before any trimming.
type Size struct {
	W uint16 `json:"w"`
	H uint16 `json:"h"`
}

// Manifest is the metadata written next to a single baked atlas image.
type Manifest struct {
	Meta struct {
		Version string `json:"version"`
	} `json:"meta"`
	Atlas string `json:"atlas"`
	Size  struct {
		W uint32 `json:"w"`
		H uint32 `json:"h"`
	} `json:"size"`
	Sprites map[string]SpriteInfo `json:"sprites"`
}

// NewManifest builds a manifest for an atlas image named atlasName with
// the given baked canvas size.
func NewManifest(version, atlasName string, width, height uint32) *Manifest {
	m := &Manifest{
		Atlas:   atlasName,
		Sprites: make(map[string]SpriteInfo),
	}
	m.Meta.Version = version
	m.Size.W = width
	m.Size.H = height
	return m
}

// Add records where name was placed, untrimmed: its source size equals
// its placed region.
func (m *Manifest) Add(name string, x, y, w, h uint16) {
	m.Sprites[name] = SpriteInfo{
		Filename:   name,
		Region:     Region{X: x, Y: y, W: w, H: h},
		SourceSize: Size{W: w, H: h},
	}
}

// AddTrimmed records where name's non-transparent bounding box (at
// position x, y, size w x h) was placed, alongside the full untrimmed
// source size and the offset of that bounding box within it, so the
// original transparent border can be reconstructed later.
func (m *Manifest) AddTrimmed(name string, x, y, w, h uint16, sourceW, sourceH uint16, sourceX, sourceY uint16) {
	m.Sprites[name] = SpriteInfo{
		Filename:   name,
		Region:     Region{X: x, Y: y, W: w, H: h},
		Trimmed:    true,
		SourceSize: Size{W: sourceW, H: sourceH},
		SourceRect: Region{X: sourceX, Y: sourceY, W: w, H: h},
	}
}

// WriteFile encodes the manifest as indented JSON and writes it to path.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile loads a manifest previously written by WriteFile.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
