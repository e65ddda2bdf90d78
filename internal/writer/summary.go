package writer

import (
	"fmt"

	"github.com/retroenv/wmfwconv/internal/block"
)

// WriteSummary writes a human readable overview of all blocks and controls.
func (w Writer) WriteSummary() error {
	if _, err := fmt.Fprintf(w.writer, "Part: %s\n\n", w.result.Part); err != nil {
		return fmt.Errorf("writing part: %w", err)
	}

	if err := w.writeSetSummary("Firmware: "+w.result.Firmware, w.result.Blocks); err != nil {
		return err
	}
	for _, tuning := range w.result.Tunings {
		title := fmt.Sprintf("Tuning %d: %s", tuning.Index, tuning.Name)
		if err := w.writeSetSummary(title, tuning.Blocks); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w.writer, "Controls: %d\n", len(w.result.Controls)); err != nil {
		return fmt.Errorf("writing controls title: %w", err)
	}
	for _, ctrl := range w.result.Controls {
		if _, err := fmt.Fprintf(w.writer, "  0x%08X  %-24s %s\n", ctrl.Address, ctrl.Algorithm, ctrl.Name); err != nil {
			return fmt.Errorf("writing control: %w", err)
		}
	}
	return nil
}

func (w Writer) writeSetSummary(title string, blocks block.Set) error {
	if _, err := fmt.Fprintf(w.writer, "%s\n  %d blocks, %d bytes\n", title, len(blocks), blocks.Size()); err != nil {
		return fmt.Errorf("writing block summary: %w", err)
	}
	for _, b := range blocks {
		if _, err := fmt.Fprintf(w.writer, "  0x%08X  %5d bytes\n", b.Address, len(b.Data)); err != nil {
			return fmt.Errorf("writing block: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
