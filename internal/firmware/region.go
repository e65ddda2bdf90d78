package firmware

import (
	"fmt"
	"strings"
)

// Region is an on-chip DSP memory bank.
type Region int

// Supported memory regions.
const (
	RegionUnknown Region = iota
	RegionPM             // program memory
	RegionXM             // X data memory
	RegionYM             // Y data memory
)

var regionNames = map[Region]string{
	RegionPM: "pm",
	RegionXM: "xm",
	RegionYM: "ym",
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("region(%d)", int(r))
}

// ParseRegion returns the region for the given case-insensitive name.
func ParseRegion(s string) (Region, error) {
	s = strings.ToLower(s)
	for region, name := range regionNames {
		if name == s {
			return region, nil
		}
	}
	return RegionUnknown, &ConfigurationError{Field: "region", Value: s, Err: ErrUnmappedRegion}
}

// Width is the data width and addressing convention of a region.
type Width int

// Supported data widths.
const (
	WidthUnknown Width = iota
	WidthU24           // 24 bit words, unpacked, one word per 4 addresses
	WidthP32           // 24 bit words packed into 32 bit, 4 words per 3 register addresses
	WidthU32           // raw 32 bit access
)

var widthNames = map[Width]string{
	WidthU24: "u24",
	WidthP32: "p32",
	WidthU32: "u32",
}

func (w Width) String() string {
	if name, ok := widthNames[w]; ok {
		return name
	}
	return fmt.Sprintf("width(%d)", int(w))
}

// ParseWidth returns the width for the given case-insensitive name.
func ParseWidth(s string) (Width, error) {
	s = strings.ToLower(s)
	for width, name := range widthNames {
		if name == s {
			return width, nil
		}
	}
	return WidthUnknown, &ConfigurationError{Field: "width", Value: s, Err: ErrUnsupportedWidth}
}

// Block type codes used by HALO core WMFW and WMDR files.
const (
	TypeXMUnpacked uint16 = 0x05
	TypeYMUnpacked uint16 = 0x06
	TypePMPacked   uint16 = 0x10
	TypeXMPacked   uint16 = 0x11
	TypeYMPacked   uint16 = 0x12
)

// RegionFromType maps a WMFW/WMDR data block type code to its region and width.
func RegionFromType(blockType uint16) (Region, Width, error) {
	switch blockType {
	case TypeXMUnpacked:
		return RegionXM, WidthU24, nil
	case TypeYMUnpacked:
		return RegionYM, WidthU24, nil
	case TypePMPacked:
		return RegionPM, WidthP32, nil
	case TypeXMPacked:
		return RegionXM, WidthP32, nil
	case TypeYMPacked:
		return RegionYM, WidthP32, nil
	default:
		return RegionUnknown, WidthUnknown, &ConfigurationError{
			Field: "block type",
			Value: fmt.Sprintf("0x%02X", blockType),
			Err:   ErrUnmappedRegion,
		}
	}
}
