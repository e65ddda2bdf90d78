// Package loader handles loading of decoded firmware and tuning dumps.
package loader

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/wmfwconv/internal/firmware"
)

// Loader handles loading decoded WMFW and WMDR dumps from disk.
type Loader struct{}

// New creates a new dump loader.
func New() *Loader {
	return &Loader{}
}

// LoadFirmware loads and converts a decoded WMFW dump file.
func (l *Loader) LoadFirmware(path string) (*firmware.Firmware, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	fw, err := l.ReadFirmware(file)
	if err != nil {
		return nil, fmt.Errorf("loading firmware %s: %w", path, err)
	}
	fw.Name = filepath.Base(path)
	return fw, nil
}

// LoadTuning loads and converts a decoded WMDR dump file.
func (l *Loader) LoadTuning(path string) (firmware.Tuning, error) {
	file, err := os.Open(path)
	if err != nil {
		return firmware.Tuning{}, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	tuning, err := l.ReadTuning(file)
	if err != nil {
		return firmware.Tuning{}, fmt.Errorf("loading tuning %s: %w", path, err)
	}
	tuning.Name = filepath.Base(path)
	return tuning, nil
}

// ReadFirmware reads a decoded WMFW dump from the reader.
func (l *Loader) ReadFirmware(reader io.Reader) (*firmware.Firmware, error) {
	var dump firmwareDump
	if err := json.NewDecoder(reader).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	blocks, err := convertBlocks(dump.Blocks)
	if err != nil {
		return nil, err
	}

	fw := &firmware.Firmware{
		SystemAlgorithmID: dump.SystemAlgorithmID,
		Blocks:            blocks,
		Algorithms:        make([]firmware.Algorithm, 0, len(dump.Algorithms)),
		Windows:           firmware.AlgorithmTable{},
	}

	for i, alg := range dump.Algorithms {
		algorithm, err := convertAlgorithm(alg, fw.Windows)
		if err != nil {
			return nil, fmt.Errorf("converting algorithm %d: %w", i, err)
		}
		fw.Algorithms = append(fw.Algorithms, algorithm)
	}

	return fw, nil
}

// ReadTuning reads a decoded WMDR dump from the reader.
func (l *Loader) ReadTuning(reader io.Reader) (firmware.Tuning, error) {
	var dump tuningDump
	if err := json.NewDecoder(reader).Decode(&dump); err != nil {
		return firmware.Tuning{}, fmt.Errorf("decoding json: %w", err)
	}

	blocks, err := convertBlocks(dump.Blocks)
	if err != nil {
		return firmware.Tuning{}, err
	}
	return firmware.Tuning{Blocks: blocks}, nil
}

func convertBlocks(dumps []blockDump) ([]firmware.DataBlock, error) {
	blocks := make([]firmware.DataBlock, 0, len(dumps))
	for i, dump := range dumps {
		region, width, err := dump.regionWidth()
		if err != nil {
			return nil, fmt.Errorf("converting block %d: %w", i, err)
		}

		blocks = append(blocks, firmware.DataBlock{
			Region:      region,
			Width:       width,
			Offset:      dump.Offset,
			AlgorithmID: dump.AlgorithmID,
			Data:        dump.Data,
		})
	}
	return blocks, nil
}

func convertAlgorithm(dump algorithmDump, windows firmware.AlgorithmTable) (firmware.Algorithm, error) {
	for name, base := range dump.Windows {
		region, err := firmware.ParseRegion(name)
		if err != nil {
			return firmware.Algorithm{}, fmt.Errorf("parsing window region: %w", err)
		}
		windows.Add(dump.ID, region, base)
	}

	alg := firmware.Algorithm{
		ID:           dump.ID,
		Name:         dump.Name,
		Coefficients: make([]firmware.Coefficient, 0, len(dump.Coefficients)),
	}
	for i, coeff := range dump.Coefficients {
		region, err := firmware.ParseRegion(coeff.Region)
		if err != nil {
			return firmware.Algorithm{}, fmt.Errorf("parsing region of coefficient %d: %w", i, err)
		}
		alg.Coefficients = append(alg.Coefficients, firmware.Coefficient{
			Region: region,
			Offset: coeff.Offset,
			Name:   coeff.Name,
		})
	}
	return alg, nil
}

type firmwareDump struct {
	SystemAlgorithmID uint32          `json:"system_algorithm_id"`
	Algorithms        []algorithmDump `json:"algorithms"`
	Blocks            []blockDump     `json:"blocks"`
}

type tuningDump struct {
	Blocks []blockDump `json:"blocks"`
}

type algorithmDump struct {
	ID           uint32            `json:"id"`
	Name         string            `json:"name"`
	Windows      map[string]uint32 `json:"windows"`
	Coefficients []coefficientDump `json:"coefficients"`
}

type coefficientDump struct {
	Region string `json:"region"`
	Offset uint32 `json:"offset"`
	Name   string `json:"name"`
}

type blockDump struct {
	Type        *uint16  `json:"type"`
	Region      string   `json:"region"`
	Width       string   `json:"width"`
	Offset      uint32   `json:"offset"`
	AlgorithmID uint32   `json:"algorithm_id"`
	Data        hexBytes `json:"data"`
}

// regionWidth returns the region and width of the block, given either as
// WMFW block type code or as names.
func (b blockDump) regionWidth() (firmware.Region, firmware.Width, error) {
	if b.Type != nil {
		return firmware.RegionFromType(*b.Type)
	}

	region, err := firmware.ParseRegion(b.Region)
	if err != nil {
		return firmware.RegionUnknown, firmware.WidthUnknown, err
	}
	width, err := firmware.ParseWidth(b.Width)
	if err != nil {
		return firmware.RegionUnknown, firmware.WidthUnknown, err
	}
	return region, width, nil
}

// hexBytes is a byte payload encoded as hex string, whitespace is ignored.
type hexBytes []byte

func (h *hexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding payload string: %w", err)
	}
	s = strings.Join(strings.Fields(s), "")

	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decoding payload hex: %w", err)
	}
	*h = b
	return nil
}
