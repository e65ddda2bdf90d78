// Package pipeline orchestrates the conversion workflow stages.
package pipeline

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/wmfwconv/internal/address"
	"github.com/retroenv/wmfwconv/internal/block"
	"github.com/retroenv/wmfwconv/internal/control"
	"github.com/retroenv/wmfwconv/internal/detector"
	"github.com/retroenv/wmfwconv/internal/firmware"
	"github.com/retroenv/wmfwconv/internal/loader"
	"github.com/retroenv/wmfwconv/internal/memmap"
	"github.com/retroenv/wmfwconv/internal/options"
	"github.com/retroenv/wmfwconv/internal/verification"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates the complete conversion workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// Settings control a conversion run.
type Settings struct {
	BlockSizeLimit int
	Verify         bool
	Quiet          bool
}

// Tuning contains the converted blocks of a tuning file.
type Tuning struct {
	Index  int // position of the file on the command line
	Name   string
	Blocks block.Set
}

// Result contains everything that the renderer outputs.
type Result struct {
	Part     memmap.Part
	Firmware string
	Blocks   block.Set
	Tunings  []Tuning
	Controls []control.Control
}

// New creates a new conversion pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete conversion pipeline for the files of the options.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*Result, error) {
	part, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting part: %w", err)
	}
	memory, err := memmap.ForPart(part)
	if err != nil {
		return nil, fmt.Errorf("loading memory map: %w", err)
	}

	fw, err := p.loader.LoadFirmware(opts.Firmware)
	if err != nil {
		return nil, fmt.Errorf("loading firmware: %w", err)
	}

	tunings := make([]firmware.Tuning, 0, len(opts.Tunings))
	for _, path := range opts.Tunings {
		tuning, err := p.loader.LoadTuning(path)
		if err != nil {
			return nil, fmt.Errorf("loading tuning: %w", err)
		}
		tunings = append(tunings, tuning)
	}

	settings := Settings{
		BlockSizeLimit: opts.BlockSizeLimit,
		Verify:         opts.Verify,
		Quiet:          opts.Quiet,
	}
	return p.Run(ctx, memory, fw, tunings, settings)
}

// Run converts already loaded firmware and tuning data for the memory map of a part.
// This is useful for testing and programmatic usage where the data is already in memory.
// Tuning files are converted concurrently, they never share any blocks.
func (p *Pipeline) Run(ctx context.Context, memory *memmap.Map, fw *firmware.Firmware,
	tunings []firmware.Tuning, settings Settings) (*Result, error) {

	if !settings.Quiet {
		p.logger.Info("Converting firmware",
			log.String("file", fw.Name),
			log.String("part", string(memory.Part())),
			log.Int("tunings", len(tunings)),
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resolver := address.New(memory)

	blocks, err := p.convert(fw.Blocks, block.NewFirmwareStrategy(resolver), settings)
	if err != nil {
		return nil, fmt.Errorf("converting firmware '%s': %w", fw.Name, err)
	}
	p.logger.Debug("Firmware blocks",
		log.Int("blocks", len(blocks)),
		log.Int("bytes", blocks.Size()))

	converted := make([]Tuning, len(tunings))
	coefficients := block.NewCoefficientStrategy(resolver, fw.Windows)

	group, groupCtx := errgroup.WithContext(ctx)
	for i, tuning := range tunings {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			set, err := p.convert(tuning.Blocks, coefficients, settings)
			if err != nil {
				return fmt.Errorf("converting tuning %d '%s': %w", i, tuning.Name, err)
			}
			p.logger.Debug("Tuning blocks",
				log.String("file", tuning.Name),
				log.Int("blocks", len(set)),
				log.Int("bytes", set.Size()))

			converted[i] = Tuning{
				Index:  i,
				Name:   tuning.Name,
				Blocks: set,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	controls, err := control.BuildTable(fw.Algorithms, fw.SystemAlgorithmID, fw.Windows, resolver)
	if err != nil {
		return nil, fmt.Errorf("building control table: %w", err)
	}
	p.logger.Debug("Controls", log.Int("count", len(controls)))

	return &Result{
		Part:     memory.Part(),
		Firmware: fw.Name,
		Blocks:   blocks,
		Tunings:  converted,
		Controls: controls,
	}, nil
}

// convert assembles the decoded blocks and splits them into size bounded chunks.
func (p *Pipeline) convert(blocks []firmware.DataBlock, strategy block.Strategy, settings Settings) (block.Set, error) {
	assembled, err := block.Assemble(blocks, strategy)
	if err != nil {
		return nil, fmt.Errorf("assembling blocks: %w", err)
	}

	chunked, err := block.Rehash(assembled, settings.BlockSizeLimit)
	if err != nil {
		return nil, fmt.Errorf("chunking blocks: %w", err)
	}

	if settings.Verify {
		if err := verification.VerifyChunks(p.logger, assembled, chunked, settings.BlockSizeLimit); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
	}
	return chunked, nil
}
