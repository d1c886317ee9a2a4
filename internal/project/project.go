// Package project provides layout document handling and persistence.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"venue-designer/internal/shape"
)

// CurrentVersion is the document format version written by Save.
const CurrentVersion = 1

// Extension is the file extension for layout documents.
const Extension = ".venue.json"

// ErrUnsupportedVersion is returned for documents written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported layout version")

// Document is a venue layout file: metadata plus the full shape tree.
type Document struct {
	Version     int        `json:"version"`
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Created     time.Time  `json:"created"`
	Modified    time.Time  `json:"modified"`
	Description string     `json:"description,omitempty"`
	Shapes      shape.List `json:"shapes"`

	// Background image path (relative to the document)
	BackgroundImagePath string `json:"background_image,omitempty"`

	Settings Settings `json:"settings"`
}

// Settings holds per-layout editor preferences.
type Settings struct {
	SnapEnabled      bool    `json:"snap_enabled"`
	DefaultSeatPrice float64 `json:"default_seat_price,omitempty"`
	Currency         string  `json:"currency,omitempty"`
}

// New creates an empty document with default settings.
func New(name string) *Document {
	now := time.Now()
	return &Document{
		Version:  CurrentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		Shapes:   shape.List{},
		Settings: Settings{SnapEnabled: true},
	}
}

// Decode parses a document from JSON.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Shapes == nil {
		doc.Shapes = shape.List{}
	}
	return &doc, nil
}

// Encode returns the indented JSON form of the document.
func (d *Document) Encode() ([]byte, error) {
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	return json.MarshalIndent(d, "", "  ")
}

// Load loads a document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save saves the document to a file, updating its modified time.
func (d *Document) Save(path string) error {
	d.Modified = time.Now()

	data, err := d.Encode()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetBackgroundImage stores the image path relative to the document.
func (d *Document) SetBackgroundImage(docPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(docPath), imagePath)
	if err != nil {
		d.BackgroundImagePath = imagePath
	} else {
		d.BackgroundImagePath = rel
	}
	d.Modified = time.Now()
}

// GetBackgroundImagePath returns the absolute path to the background image.
func (d *Document) GetBackgroundImagePath(docPath string) string {
	if d.BackgroundImagePath == "" {
		return ""
	}
	if filepath.IsAbs(d.BackgroundImagePath) {
		return d.BackgroundImagePath
	}
	return filepath.Join(filepath.Dir(docPath), d.BackgroundImagePath)
}

// Stats summarizes the seating in a document.
type Stats struct {
	Shapes int
	Areas  int
	Rows   int
	Seats  int

	// Seats per category
	Categories map[string]int
}

// Stats counts shapes, areas, rows and seats.
func (d *Document) Stats() Stats {
	st := Stats{Shapes: len(d.Shapes), Categories: make(map[string]int)}
	for _, s := range d.Shapes {
		p, ok := s.(*shape.Polygon)
		if !ok || !p.IsArea() {
			continue
		}
		st.Areas++
		st.Rows += len(p.Rows)
		for _, r := range p.Rows {
			st.Seats += len(r.Seats)
			for _, seat := range r.Seats {
				st.Categories[seat.Category]++
			}
		}
	}
	return st
}
