package firmware

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors wrapped by ConfigurationError and LookupError.
var (
	ErrUnsupportedPart  = errors.New("unsupported part number")
	ErrUnmappedRegion   = errors.New("memory region not mapped")
	ErrUnsupportedWidth = errors.New("unsupported data width")
	ErrInvalidLimit     = errors.New("invalid block size limit")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrAddressOverflow  = errors.New("address exceeds 32 bit range")
)

// ConfigurationError indicates a part, region, width or limit that the
// conversion can not handle. It is never retried.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s '%s': %s", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AddOffset returns base plus offset. A sum that does not fit into 32 bits
// returns a ConfigurationError wrapping ErrAddressOverflow for the field.
func AddOffset(field string, base uint32, offset uint64) (uint32, error) {
	sum := uint64(base) + offset
	if offset > math.MaxUint32 || sum > math.MaxUint32 {
		return 0, &ConfigurationError{
			Field: field,
			Value: fmt.Sprintf("0x%08X+0x%X", base, offset),
			Err:   ErrAddressOverflow,
		}
	}
	return uint32(sum), nil
}

// LookupError indicates that the data window of an algorithm could not be
// found for a memory region.
type LookupError struct {
	AlgorithmID uint32
	Region      Region
	Err         error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup error: algorithm 0x%06X in region %s: %s", e.AlgorithmID, e.Region, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
