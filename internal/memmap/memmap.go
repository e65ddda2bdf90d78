// Package memmap contains the DSP memory maps of the supported parts.
package memmap

import (
	"maps"
	"slices"
	"strings"

	"github.com/retroenv/wmfwconv/internal/firmware"
)

// Part is a supported part number.
type Part string

// Supported parts.
const (
	CS35L41 Part = "cs35l41"
)

// Map is the immutable memory map of a part, mapping every region and width
// combination to the base address of its register window.
type Map struct {
	part  Part
	bases map[firmware.Region]map[firmware.Width]uint32
}

var parts = map[Part]map[firmware.Region]map[firmware.Width]uint32{
	CS35L41: {
		firmware.RegionXM: {
			firmware.WidthU24: 0x2800000,
			firmware.WidthP32: 0x2000000,
			firmware.WidthU32: 0x2400000,
		},
		firmware.RegionYM: {
			firmware.WidthU24: 0x3400000,
			firmware.WidthP32: 0x2C00000,
			firmware.WidthU32: 0x3000000,
		},
		firmware.RegionPM: {
			firmware.WidthP32: 0x3800000,
		},
	},
}

// unitsPerWord is the number of register addresses a single word occupies.
// Raw 32 bit access has no defined word stride and is therefore absent.
var unitsPerWord = map[firmware.Width]uint32{
	firmware.WidthU24: 4,
	firmware.WidthP32: 3,
}

// ForPart returns the memory map of the given part number.
func ForPart(part string) (*Map, error) {
	p := Part(strings.ToLower(part))
	bases, ok := parts[p]
	if !ok {
		return nil, &firmware.ConfigurationError{Field: "part", Value: part, Err: firmware.ErrUnsupportedPart}
	}
	return New(p, bases), nil
}

// New returns a memory map for a custom base address table. The table is
// copied so that later changes by the caller do not affect the map.
func New(part Part, bases map[firmware.Region]map[firmware.Width]uint32) *Map {
	m := &Map{
		part:  part,
		bases: make(map[firmware.Region]map[firmware.Width]uint32, len(bases)),
	}
	for region, widths := range bases {
		m.bases[region] = maps.Clone(widths)
	}
	return m
}

// Part returns the part number of the map.
func (m *Map) Part() Part {
	return m.part
}

// Base returns the base address of the region and width combination.
func (m *Map) Base(region firmware.Region, width firmware.Width) (uint32, error) {
	widths, ok := m.bases[region]
	if !ok {
		return 0, &firmware.ConfigurationError{Field: "region", Value: region.String(), Err: firmware.ErrUnmappedRegion}
	}
	base, ok := widths[width]
	if !ok {
		return 0, &firmware.ConfigurationError{
			Field: "region width",
			Value: region.String() + "/" + width.String(),
			Err:   firmware.ErrUnmappedRegion,
		}
	}
	return base, nil
}

// UnitsPerWord returns the number of register addresses per word of the width.
func UnitsPerWord(width firmware.Width) (uint32, error) {
	units, ok := unitsPerWord[width]
	if !ok {
		return 0, &firmware.ConfigurationError{Field: "width", Value: width.String(), Err: firmware.ErrUnsupportedWidth}
	}
	return units, nil
}

// Supported returns the sorted list of supported part numbers.
func Supported() []string {
	names := make([]string, 0, len(parts))
	for part := range parts {
		names = append(names, string(part))
	}
	slices.Sort(names)
	return names
}
