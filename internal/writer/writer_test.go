package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/wmfwconv/internal/block"
	"github.com/retroenv/wmfwconv/internal/control"
	"github.com/retroenv/wmfwconv/internal/memmap"
	"github.com/retroenv/wmfwconv/internal/pipeline"
)

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Part:     memmap.CS35L41,
		Firmware: "cs35l41_fw.json",
		Blocks: block.Set{
			{Address: 0x2800000, Data: []byte{0x01, 0x02, 0x03}},
			{Address: 0x3800000, Data: []byte{0xAA}},
		},
		Tunings: []pipeline.Tuning{
			{Index: 0, Name: "tune.json", Blocks: block.Set{{Address: 0x3400208, Data: []byte{0xFF, 0xEE}}}},
		},
		Controls: []control.Control{
			{Algorithm: control.GeneralLabel, Name: "HALO_STATE", Address: 0x2800010},
			{Algorithm: "Protect Lite", Name: "cal.r", Address: 0x3400204},
		},
	}
}

func TestFileNames(t *testing.T) {
	result := testResult()
	assert.Equal(t, "cs35l41_firmware.h", HeaderFileName(result))
	assert.Equal(t, "cs35l41_firmware.c", SourceFileName(result))
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := New(log.NewTestLogger(t), testResult(), &buf)
	assert.NoError(t, w.WriteHeader())

	output := buf.String()
	assert.Contains(t, output, "@file cs35l41_firmware.h")
	assert.Contains(t, output, "#ifndef CS35L41_FIRMWARE_H")
	assert.Contains(t, output, "#include <stddef.h>")
	assert.Contains(t, output, "#define CS35L41_FW_BLOCKS_TOTAL (2)")
	assert.Contains(t, output, "#define CS35L41_COEFF_FILES_TOTAL (1)")
	assert.Contains(t, output, "#define CS35L41_COEFF_0_BLOCKS_TOTAL (1)")
	assert.Contains(t, output, "#define CS35L41_SYM_GENERAL_HALO_STATE")
	assert.Contains(t, output, "(0x02800010)")
	assert.Contains(t, output, "#define CS35L41_SYM_PROTECT_LITE_CAL_R")
	assert.Contains(t, output, "extern const halo_boot_block_t cs35l41_fw_blocks[];")
	assert.Contains(t, output, "extern const halo_boot_block_t cs35l41_coeff_0_blocks[];")
	assert.True(t, strings.HasSuffix(output, "#endif // CS35L41_FIRMWARE_H\n"))
}

func TestWriteHeaderDuplicateControls(t *testing.T) {
	result := testResult()
	result.Controls = append(result.Controls, result.Controls[0])

	var buf bytes.Buffer
	w := New(log.NewTestLogger(t), result, &buf)
	assert.NoError(t, w.WriteHeader())

	// duplicates are kept
	assert.Equal(t, 2, strings.Count(buf.String(), "CS35L41_SYM_GENERAL_HALO_STATE"))
}

func TestWriteSource(t *testing.T) {
	var buf bytes.Buffer
	w := New(log.NewTestLogger(t), testResult(), &buf)
	assert.NoError(t, w.WriteSource())

	output := buf.String()
	assert.Contains(t, output, "#include \"cs35l41_firmware.h\"")
	assert.Contains(t, output, "const uint8_t cs35l41_fw_block_0[] = {\n    0x01, 0x02, 0x03\n};")
	assert.Contains(t, output, "const uint8_t cs35l41_fw_block_1[] = {\n    0xaa\n};")
	assert.Contains(t, output, "const halo_boot_block_t cs35l41_fw_blocks[] = {\n"+
		"    { 0x02800000, 3, cs35l41_fw_block_0 },\n"+
		"    { 0x03800000, 1, cs35l41_fw_block_1 },\n};")
	assert.Contains(t, output, "const uint8_t cs35l41_coeff_0_block_0[] = {\n    0xff, 0xee\n};")
	assert.Contains(t, output, "    { 0x03400208, 2, cs35l41_coeff_0_block_0 },")
}

func TestWriteData(t *testing.T) {
	data := make([]byte, 18)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	w := New(log.NewTestLogger(t), testResult(), &buf)
	assert.NoError(t, w.writeData(data))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "    0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, "+
		"0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,", lines[0])
	assert.Equal(t, "    0x10, 0x11", lines[1])
}

func TestWriteEmptyBlocks(t *testing.T) {
	result := testResult()
	result.Blocks = append(result.Blocks, block.Block{Address: 0x2800100})
	result.Tunings = append(result.Tunings, pipeline.Tuning{Index: 1, Name: "empty.json"})

	var header bytes.Buffer
	assert.NoError(t, New(log.NewTestLogger(t), result, &header).WriteHeader())
	assert.Contains(t, header.String(), "#define CS35L41_COEFF_1_BLOCKS_TOTAL (0)")
	assert.Contains(t, header.String(), "extern const halo_boot_block_t cs35l41_coeff_0_blocks[];")
	assert.False(t, strings.Contains(header.String(), "cs35l41_coeff_1_blocks[]"))

	var source bytes.Buffer
	assert.NoError(t, New(log.NewTestLogger(t), result, &source).WriteSource())
	output := source.String()

	// empty initializers are not valid C
	assert.False(t, strings.Contains(output, "{\n};"))
	assert.False(t, strings.Contains(output, "cs35l41_fw_block_2[]"))
	assert.Contains(t, output, "    { 0x02800100, 0, NULL },")
	assert.Contains(t, output, "/* cs35l41_coeff_1_blocks: no blocks */")
	assert.False(t, strings.Contains(output, "cs35l41_coeff_1_blocks[]"))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	w := New(log.NewTestLogger(t), testResult(), &buf)
	assert.NoError(t, w.WriteSummary())

	output := buf.String()
	assert.Contains(t, output, "Part: cs35l41")
	assert.Contains(t, output, "Firmware: cs35l41_fw.json\n  2 blocks, 4 bytes")
	assert.Contains(t, output, "  0x02800000      3 bytes")
	assert.Contains(t, output, "Tuning 0: tune.json\n  1 blocks, 2 bytes")
	assert.Contains(t, output, "Controls: 2")
	assert.Contains(t, output, "0x02800010  GENERAL")
}

func TestSymbolName(t *testing.T) {
	assert.Equal(t, "PROTECT_LITE_V2", symbolName("Protect Lite v2"))
	assert.Equal(t, "CAL_R", symbolName("cal.r"))
	assert.Equal(t, "A_B", symbolName("aéb"))
}
