package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/wmfwconv/internal/firmware"
)

const firmwareJSON = `{
  "system_algorithm_id": 262144,
  "algorithms": [
    {
      "id": 262144,
      "name": "FIRMWARE_CSPL",
      "windows": {"xm": 0, "ym": 0},
      "coefficients": [
        {"region": "xm", "offset": 4, "name": "HALO_STATE"}
      ]
    },
    {
      "id": 262308,
      "name": "CSPL",
      "windows": {"xm": 512, "YM": 128},
      "coefficients": [
        {"region": "ym", "offset": 1, "name": "CAL_R"}
      ]
    }
  ],
  "blocks": [
    {"region": "pm", "width": "p32", "offset": 0, "data": "00 11 22 33"},
    {"type": 5, "offset": 16, "data": "aabb"}
  ]
}`

const tuningJSON = `{
  "blocks": [
    {"type": 6, "offset": 8, "algorithm_id": 262308, "data": "0102030405060708"}
  ]
}`

//nolint:funlen // test functions can be long
func TestLoad(t *testing.T) {
	t.Run("load firmware file", func(t *testing.T) {
		tmpFile := createTempFile(t, "cs35l41_fw.json", firmwareJSON)

		fw, err := New().LoadFirmware(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, "cs35l41_fw.json", fw.Name)
		assert.Equal(t, uint32(262144), fw.SystemAlgorithmID)

		assert.Len(t, fw.Blocks, 2)
		assert.Equal(t, firmware.RegionPM, fw.Blocks[0].Region)
		assert.Equal(t, firmware.WidthP32, fw.Blocks[0].Width)
		assert.Equal(t, []byte{0x00, 0x11, 0x22, 0x33}, fw.Blocks[0].Data)
		assert.Equal(t, firmware.RegionXM, fw.Blocks[1].Region)
		assert.Equal(t, firmware.WidthU24, fw.Blocks[1].Width)
		assert.Equal(t, uint32(16), fw.Blocks[1].Offset)

		assert.Len(t, fw.Algorithms, 2)
		assert.Equal(t, "CSPL", fw.Algorithms[1].Name)
		assert.Equal(t, firmware.RegionYM, fw.Algorithms[1].Coefficients[0].Region)

		offset, err := fw.Windows.AdjustedOffset(262308, firmware.RegionYM, 1)
		assert.NoError(t, err)
		assert.Equal(t, uint32(129), offset)
	})

	t.Run("load tuning file", func(t *testing.T) {
		tmpFile := createTempFile(t, "tuning.json", tuningJSON)

		tuning, err := New().LoadTuning(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, "tuning.json", tuning.Name)
		assert.Len(t, tuning.Blocks, 1)
		assert.Equal(t, uint32(262308), tuning.Blocks[0].AlgorithmID)
		assert.Equal(t, uint32(8), tuning.Blocks[0].Offset)
		assert.Len(t, tuning.Blocks[0].Data, 8)
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().LoadFirmware("/nonexistent/file.json")
		assert.Error(t, err)

		_, err = New().LoadTuning("/nonexistent/file.json")
		assert.Error(t, err)
	})
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
		errIs       error
	}{
		{
			name:        "invalid json",
			input:       `{"blocks": [`,
			errContains: "decoding json",
		},
		{
			name:        "invalid hex payload",
			input:       `{"blocks": [{"region": "xm", "width": "u24", "data": "zz"}]}`,
			errContains: "decoding payload hex",
		},
		{
			name:        "unknown region",
			input:       `{"blocks": [{"region": "zm", "width": "u24", "data": ""}]}`,
			errContains: "converting block 0",
			errIs:       firmware.ErrUnmappedRegion,
		},
		{
			name:  "unknown width",
			input: `{"blocks": [{"region": "xm", "width": "u16", "data": ""}]}`,
			errIs: firmware.ErrUnsupportedWidth,
		},
		{
			name:        "unknown block type",
			input:       `{"blocks": [{"type": 2, "data": ""}]}`,
			errContains: "block type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ReadTuning(strings.NewReader(tt.input))
			assert.Error(t, err)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
			}
			if tt.errIs != nil {
				assert.True(t, errors.Is(err, tt.errIs))
			}
		})
	}
}

func TestReadFirmwareAlgorithmErrors(t *testing.T) {
	input := `{"algorithms": [{"id": 1, "name": "A", "coefficients": [{"region": "qm", "name": "X"}]}]}`
	_, err := New().ReadFirmware(strings.NewReader(input))
	assert.ErrorContains(t, err, "converting algorithm 0")

	input = `{"algorithms": [{"id": 1, "name": "A", "windows": {"qm": 1}}]}`
	_, err = New().ReadFirmware(strings.NewReader(input))
	assert.ErrorContains(t, err, "parsing window region")
}

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, name)
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
