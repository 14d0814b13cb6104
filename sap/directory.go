package sap

import (
	"errors"
	"sort"
)

// ErrNotFound is returned for unknown document, partner or material ids.
var ErrNotFound = errors.New("not found")

// MasterData resolves partner and material numbers.
type MasterData interface {
	Partner(number string) (Partner, bool)
	Material(number string) (Material, bool)
}

// Directory is a read-only partner and material table. It is immutable after
// construction and safe for concurrent use.
type Directory struct {
	partners  map[string]Partner
	materials map[string]Material
}

// NewDirectory indexes partners by number and materials by MATNR. Later
// duplicates replace earlier ones.
func NewDirectory(partners []Partner, materials []Material) *Directory {
	d := &Directory{
		partners:  make(map[string]Partner, len(partners)),
		materials: make(map[string]Material, len(materials)),
	}
	for _, p := range partners {
		d.partners[p.Number] = p
	}
	for _, m := range materials {
		d.materials[m.Number] = m
	}
	return d
}

// Partner returns the partner with the given number.
func (d *Directory) Partner(number string) (Partner, bool) {
	p, ok := d.partners[number]
	return p, ok
}

// Material returns the material with the given number.
func (d *Directory) Material(number string) (Material, bool) {
	m, ok := d.materials[number]
	return m, ok
}

// Partners returns all partners sorted by number.
func (d *Directory) Partners() []Partner {
	out := make([]Partner, 0, len(d.partners))
	for _, p := range d.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Materials returns all materials sorted by number.
func (d *Directory) Materials() []Material {
	out := make([]Material, 0, len(d.materials))
	for _, m := range d.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
