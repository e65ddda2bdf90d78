// Package firmware contains the decoded firmware and tuning data model that the
// converter consumes, as produced by the external WMFW and WMDR parsers.
package firmware

// DataBlock is a decoded data block of a firmware or tuning file.
type DataBlock struct {
	Region Region
	Width  Width

	// Offset is the start offset of the block. For firmware blocks it is
	// measured in region words, for tuning blocks it is a byte offset relative
	// to the data window of the owning algorithm.
	Offset uint32

	// AlgorithmID is the algorithm owning the block, only set for tuning blocks.
	AlgorithmID uint32

	Data []byte
}

// Coefficient describes a named control inside the data window of an algorithm.
type Coefficient struct {
	Region Region
	Offset uint32 // in region words relative to the algorithm data window
	Name   string
}

// Algorithm describes a firmware algorithm and its coefficients.
type Algorithm struct {
	ID           uint32
	Name         string
	Coefficients []Coefficient
}

// OffsetLookup returns the region word offset of a position inside the data
// window of an algorithm.
type OffsetLookup interface {
	AdjustedOffset(algorithmID uint32, region Region, offset uint32) (uint32, error)
}

// Firmware is a decoded WMFW file.
type Firmware struct {
	Name string

	// SystemAlgorithmID identifies the algorithm that represents the overall
	// system controls of the firmware.
	SystemAlgorithmID uint32

	Blocks     []DataBlock
	Algorithms []Algorithm
	Windows    AlgorithmTable
}

// Tuning is a decoded WMDR tuning file.
type Tuning struct {
	Name   string
	Blocks []DataBlock
}
