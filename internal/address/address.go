// Package address resolves region word offsets to absolute register addresses.
package address

import (
	"fmt"

	"github.com/retroenv/wmfwconv/internal/firmware"
	"github.com/retroenv/wmfwconv/internal/memmap"
)

// alignMask clears the low bits, all register addresses are 4 byte aligned.
const alignMask = ^uint32(0x3)

// Resolver converts region word offsets to register addresses of a part.
type Resolver struct {
	memory *memmap.Map
}

// New returns a resolver for the given memory map.
func New(memory *memmap.Map) *Resolver {
	return &Resolver{
		memory: memory,
	}
}

// Resolve returns the aligned register address of the word offset within
// the region and width combination.
func (r *Resolver) Resolve(region firmware.Region, width firmware.Width, wordOffset uint32) (uint32, error) {
	base, err := r.memory.Base(region, width)
	if err != nil {
		return 0, fmt.Errorf("getting base address: %w", err)
	}
	units, err := memmap.UnitsPerWord(width)
	if err != nil {
		return 0, fmt.Errorf("getting word size: %w", err)
	}

	address, err := firmware.AddOffset("word offset", base, uint64(wordOffset)*uint64(units))
	if err != nil {
		return 0, err
	}
	return address & alignMask, nil
}

// Part returns the part number the resolver maps addresses for.
func (r *Resolver) Part() memmap.Part {
	return r.memory.Part()
}
