// Package control builds the table of runtime control addresses.
package control

import (
	"fmt"

	"github.com/retroenv/wmfwconv/internal/firmware"
)

// GeneralLabel replaces the name of the system algorithm.
const GeneralLabel = "GENERAL"

// Control is a named runtime control and its register address.
type Control struct {
	Algorithm string
	Name      string
	Address   uint32
}

// Resolver resolves region word offsets to register addresses.
type Resolver interface {
	Resolve(region firmware.Region, width firmware.Width, wordOffset uint32) (uint32, error)
}

// BuildTable returns the controls of all coefficients of all algorithms in
// declaration order. Controls are always addressed as unpacked 24 bit words,
// regardless of the storage width of the coefficient.
func BuildTable(algorithms []firmware.Algorithm, systemAlgorithmID uint32,
	lookup firmware.OffsetLookup, resolver Resolver) ([]Control, error) {

	var controls []Control
	for _, alg := range algorithms {
		label := alg.Name
		if alg.ID == systemAlgorithmID {
			label = GeneralLabel
		}

		for _, coeff := range alg.Coefficients {
			offset, err := lookup.AdjustedOffset(alg.ID, coeff.Region, coeff.Offset)
			if err != nil {
				return nil, fmt.Errorf("looking up control '%s' of algorithm '%s': %w", coeff.Name, alg.Name, err)
			}
			address, err := resolver.Resolve(coeff.Region, firmware.WidthU24, offset)
			if err != nil {
				return nil, fmt.Errorf("resolving control '%s' of algorithm '%s': %w", coeff.Name, alg.Name, err)
			}

			controls = append(controls, Control{
				Algorithm: label,
				Name:      coeff.Name,
				Address:   address,
			})
		}
	}
	return controls, nil
}
