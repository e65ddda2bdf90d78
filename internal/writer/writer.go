// Package writer implements the C header and source file output of a conversion.
package writer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/wmfwconv/internal/block"
	"github.com/retroenv/wmfwconv/internal/pipeline"
)

const dataBytesPerLine = 16

const bootBlockType = "halo_boot_block_t"

// Writer implements the output of a conversion result.
type Writer struct {
	logger *log.Logger
	result *pipeline.Result
	writer io.Writer
}

// New creates a new writer.
func New(logger *log.Logger, result *pipeline.Result, writer io.Writer) *Writer {
	return &Writer{
		logger: logger,
		result: result,
		writer: writer,
	}
}

// HeaderFileName returns the file name of the exported C header.
func HeaderFileName(result *pipeline.Result) string {
	return string(result.Part) + "_firmware.h"
}

// SourceFileName returns the file name of the exported C source.
func SourceFileName(result *pipeline.Result) string {
	return string(result.Part) + "_firmware.c"
}

// WriteHeader writes the C header containing block counts, control addresses
// and the block table declarations.
func (w Writer) WriteHeader() error {
	prefix := symbolName(string(w.result.Part))
	guard := symbolName(HeaderFileName(w.result))

	if err := w.writeFileComment(HeaderFileName(w.result)); err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("#ifndef %s", guard),
		fmt.Sprintf("#define %s", guard),
		"",
		"#ifdef __cplusplus",
		"extern \"C\" {",
		"#endif",
		"",
		"#include <stddef.h>",
		"#include <stdint.h>",
		"",
		fmt.Sprintf("#define %s_FW_BLOCKS_TOTAL (%d)", prefix, len(w.result.Blocks)),
		fmt.Sprintf("#define %s_COEFF_FILES_TOTAL (%d)", prefix, len(w.result.Tunings)),
	}
	for _, tuning := range w.result.Tunings {
		lines = append(lines, fmt.Sprintf("#define %s_COEFF_%d_BLOCKS_TOTAL (%d)", prefix, tuning.Index, len(tuning.Blocks)))
	}
	if err := w.writeLines(lines); err != nil {
		return err
	}

	if err := w.writeControls(prefix); err != nil {
		return err
	}

	lines = []string{
		"",
		"typedef struct",
		"{",
		"    uint32_t address;",
		"    uint32_t block_size;",
		"    const uint8_t *bytes;",
		fmt.Sprintf("} %s;", bootBlockType),
		"",
	}
	if len(w.result.Blocks) > 0 {
		lines = append(lines, fmt.Sprintf("extern const %s %s_fw_blocks[];", bootBlockType, w.result.Part))
	}
	for _, tuning := range w.result.Tunings {
		if len(tuning.Blocks) > 0 {
			lines = append(lines, fmt.Sprintf("extern const %s %s_coeff_%d_blocks[];", bootBlockType, w.result.Part, tuning.Index))
		}
	}
	lines = append(lines,
		"",
		"#ifdef __cplusplus",
		"}",
		"#endif",
		"",
		fmt.Sprintf("#endif // %s", guard),
	)
	return w.writeLines(lines)
}

// WriteSource writes the C source containing the block payloads and block tables.
func (w Writer) WriteSource() error {
	if err := w.writeFileComment(SourceFileName(w.result)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.writer, "#include \"%s\"\n", HeaderFileName(w.result)); err != nil {
		return fmt.Errorf("writing include: %w", err)
	}

	fwName := fmt.Sprintf("%s_fw", w.result.Part)
	if err := w.writeBlockSet(fwName, w.result.Blocks); err != nil {
		return fmt.Errorf("writing firmware blocks: %w", err)
	}

	for _, tuning := range w.result.Tunings {
		name := fmt.Sprintf("%s_coeff_%d", w.result.Part, tuning.Index)
		if err := w.writeBlockSet(name, tuning.Blocks); err != nil {
			return fmt.Errorf("writing tuning %d blocks: %w", tuning.Index, err)
		}
	}
	return nil
}

// writeData writes the data bytes as array initializer lines of
// dataBytesPerLine bytes each.
func (w Writer) writeData(data []byte) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString("    ")
		for j := range toWrite {
			if _, err := fmt.Fprintf(buf, "0x%02x, ", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}

		line := strings.TrimRight(buf.String(), " ")
		if remaining == toWrite {
			line = strings.TrimSuffix(line, ",")
		}

		if _, err := fmt.Fprintf(w.writer, "%s\n", line); err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}

func (w Writer) writeControls(prefix string) error {
	if len(w.result.Controls) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}

	symbols := set.New[string]()
	for _, ctrl := range w.result.Controls {
		symbol := fmt.Sprintf("%s_SYM_%s_%s", prefix, symbolName(ctrl.Algorithm), symbolName(ctrl.Name))
		if symbols.Contains(symbol) {
			w.logger.Warn("Duplicate control symbol",
				log.String("symbol", symbol),
				log.Hex("address", ctrl.Address))
		}
		symbols.Add(symbol)

		if _, err := fmt.Fprintf(w.writer, "#define %-64s (0x%08x)\n", symbol, ctrl.Address); err != nil {
			return fmt.Errorf("writing control: %w", err)
		}
	}
	return nil
}

// writeBlockSet writes the payload arrays and the block table of a set.
// Empty initializers are not valid C, so an empty set only gets a comment
// and an empty payload is referenced as NULL.
func (w Writer) writeBlockSet(name string, blocks block.Set) error {
	if len(blocks) == 0 {
		if _, err := fmt.Fprintf(w.writer, "\n/* %s_blocks: no blocks */\n", name); err != nil {
			return fmt.Errorf("writing empty block table comment: %w", err)
		}
		return nil
	}

	for i, b := range blocks {
		if len(b.Data) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w.writer, "\nconst uint8_t %s_block_%d[] = {\n", name, i); err != nil {
			return fmt.Errorf("writing block declaration: %w", err)
		}
		if err := w.writeData(b.Data); err != nil {
			return fmt.Errorf("writing block %d data: %w", i, err)
		}
		if _, err := fmt.Fprintln(w.writer, "};"); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w.writer, "\nconst %s %s_blocks[] = {\n", bootBlockType, name); err != nil {
		return fmt.Errorf("writing block table declaration: %w", err)
	}
	for i, b := range blocks {
		bytesName := fmt.Sprintf("%s_block_%d", name, i)
		if len(b.Data) == 0 {
			bytesName = "NULL"
		}
		if _, err := fmt.Fprintf(w.writer, "    { 0x%08x, %d, %s },\n", b.Address, len(b.Data), bytesName); err != nil {
			return fmt.Errorf("writing block table entry: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer, "};"); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w Writer) writeFileComment(fileName string) error {
	lines := []string{
		"/**",
		fmt.Sprintf(" * @file %s", fileName),
		" *",
		" * @brief Firmware and tuning blocks converted from WMFW/WMDR files",
		" *",
		fmt.Sprintf(" * Firmware: %s", w.result.Firmware),
	}
	for _, tuning := range w.result.Tunings {
		lines = append(lines, fmt.Sprintf(" * Tuning %d: %s", tuning.Index, tuning.Name))
	}
	lines = append(lines, " */", "")
	return w.writeLines(lines)
}

func (w Writer) writeLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

// symbolName converts a name to an upper case C identifier part.
func symbolName(name string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, name)
}
