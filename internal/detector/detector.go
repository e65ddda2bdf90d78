// Package detector handles part number detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/wmfwconv/internal/firmware"
	"github.com/retroenv/wmfwconv/internal/memmap"
	"github.com/retroenv/wmfwconv/internal/options"
)

// Detector handles part number detection from file names and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new part detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the part number from options or file auto-detection.
// It first checks if a part is explicitly specified in options, otherwise
// attempts to detect the part from the firmware file name.
func (d *Detector) Detect(opts options.Program) (string, error) {
	if opts.Part != "" {
		return strings.ToLower(opts.Part), nil
	}

	part := detectFromFile(opts.Firmware)
	if part == "" {
		return "", &firmware.ConfigurationError{
			Field: "part",
			Value: filepath.Base(opts.Firmware),
			Err:   firmware.ErrUnsupportedPart,
		}
	}

	d.logger.Debug("Auto-detected part",
		log.String("part", part),
		log.String("file", opts.Firmware))
	return part, nil
}

// detectFromFile returns the supported part number that the file name starts with.
func detectFromFile(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	for _, part := range memmap.Supported() {
		if strings.HasPrefix(name, part) {
			return part
		}
	}
	return ""
}
