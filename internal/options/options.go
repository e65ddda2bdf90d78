// Package options contains the program options.
package options

// Command names.
const (
	CommandPrint  = "print"
	CommandExport = "export"
)

// Parameters contains file path options.
type Parameters struct {
	Command  string   // print or export
	Firmware string   // decoded WMFW dump
	Tunings  []string // decoded WMDR dumps, in output index order
	Output   string   `flag:"o" usage:"output directory for exported files (default: current directory)"`
}

// Flags contains behavior options.
type Flags struct {
	Part           string `flag:"p" usage:"part number (default: detected from firmware file name)"`
	BlockSizeLimit int    `flag:"limit" usage:"maximum payload size of a block in bytes" default:"4140"`
	Verify         bool   `flag:"verify" usage:"verify that chunked blocks reproduce the assembled blocks"`
	Debug          bool   `flag:"debug" usage:"enable debug logging"`
	Quiet          bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the converter.
type Program struct {
	Parameters
	Flags
}
