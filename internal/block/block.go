// Package block assembles decoded data blocks into address tagged blocks and
// splits them into size bounded chunks.
package block

import (
	"fmt"

	"github.com/retroenv/wmfwconv/internal/firmware"
)

// Block is a payload tagged with the register address it is written to.
type Block struct {
	Address uint32
	Data    []byte
}

// Set is an ordered list of blocks of one conversion pass.
type Set []Block

// Size returns the total payload size of all blocks in bytes.
func (s Set) Size() int {
	var size int
	for _, b := range s {
		size += len(b.Data)
	}
	return size
}

// Resolver resolves region word offsets to register addresses.
type Resolver interface {
	Resolve(region firmware.Region, width firmware.Width, wordOffset uint32) (uint32, error)
}

// Strategy derives the register address of a decoded data block.
type Strategy interface {
	Address(block firmware.DataBlock) (uint32, error)
}

// FirmwareStrategy resolves firmware blocks whose offsets are region words.
type FirmwareStrategy struct {
	resolver Resolver
}

// NewFirmwareStrategy returns the address strategy for WMFW data blocks.
func NewFirmwareStrategy(resolver Resolver) FirmwareStrategy {
	return FirmwareStrategy{resolver: resolver}
}

// Address returns the register address of the firmware block.
func (s FirmwareStrategy) Address(block firmware.DataBlock) (uint32, error) {
	return s.resolver.Resolve(block.Region, block.Width, block.Offset)
}

// CoefficientStrategy resolves tuning blocks. Their offsets are byte offsets
// on the external control port relative to the data window of the owning
// algorithm, not region words.
type CoefficientStrategy struct {
	resolver Resolver
	lookup   firmware.OffsetLookup
}

// NewCoefficientStrategy returns the address strategy for WMDR data blocks.
func NewCoefficientStrategy(resolver Resolver, lookup firmware.OffsetLookup) CoefficientStrategy {
	return CoefficientStrategy{
		resolver: resolver,
		lookup:   lookup,
	}
}

// Address returns the register address of the tuning block.
func (s CoefficientStrategy) Address(block firmware.DataBlock) (uint32, error) {
	windowOffset, err := s.lookup.AdjustedOffset(block.AlgorithmID, block.Region, 0)
	if err != nil {
		return 0, fmt.Errorf("looking up algorithm window: %w", err)
	}
	base, err := s.resolver.Resolve(block.Region, block.Width, windowOffset)
	if err != nil {
		return 0, err
	}
	return firmware.AddOffset("coefficient offset", base, uint64(block.Offset))
}

// Assemble resolves the addresses of all decoded blocks in order.
func Assemble(blocks []firmware.DataBlock, strategy Strategy) (Set, error) {
	set := make(Set, 0, len(blocks))
	for i, b := range blocks {
		address, err := strategy.Address(b)
		if err != nil {
			return nil, fmt.Errorf("resolving block %d: %w", i, err)
		}
		set = append(set, Block{
			Address: address,
			Data:    b.Data,
		})
	}
	return set, nil
}
