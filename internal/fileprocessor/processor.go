// Package fileprocessor handles the conversion of input files and writing of the results
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/wmfwconv/internal/options"
	"github.com/retroenv/wmfwconv/internal/pipeline"
	"github.com/retroenv/wmfwconv/internal/writer"
)

// ProcessFiles handles the complete conversion workflow. The print command
// writes a summary to stdout, the export command writes the C header and source.
func ProcessFiles(ctx context.Context, logger *log.Logger, opts options.Program, stdout io.Writer) error {
	result, err := pipeline.New(logger).Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("converting: %w", err)
	}

	switch opts.Command {
	case options.CommandPrint:
		w := writer.New(logger, result, stdout)
		if err := w.WriteSummary(); err != nil {
			return fmt.Errorf("printing summary: %w", err)
		}
		return nil

	case options.CommandExport:
		files, err := Export(logger, result, opts.Output)
		if err != nil {
			return err
		}
		if !opts.Quiet {
			for _, file := range files {
				logger.Info("Exported", log.String("file", file))
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported command '%s'", opts.Command)
	}
}

// Export writes the C header and source of the result into the output
// directory and returns the written file paths.
func Export(logger *log.Logger, result *pipeline.Result, outputDir string) ([]string, error) {
	headerFile := GenerateOutputFilename(outputDir, writer.HeaderFileName(result))
	sourceFile := GenerateOutputFilename(outputDir, writer.SourceFileName(result))

	if err := writeFile(logger, result, headerFile, (*writer.Writer).WriteHeader); err != nil {
		return nil, err
	}
	if err := writeFile(logger, result, sourceFile, (*writer.Writer).WriteSource); err != nil {
		return nil, err
	}
	return []string{headerFile, sourceFile}, nil
}

// GenerateOutputFilename generates the output path for a file name in the output directory
func GenerateOutputFilename(outputDir, fileName string) string {
	if outputDir == "" {
		return fileName
	}
	return filepath.Join(outputDir, fileName)
}

func writeFile(logger *log.Logger, result *pipeline.Result, path string, write func(w *writer.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", path, err)
	}

	if err := write(writer.New(logger, result, file)); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing output file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file %s: %w", path, err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("wmfwconv - WMFW/WMDR to C source converter",
		log.String("version", buildinfo.Version(version, commit, date)))

	if opts.Command != "" {
		logger.Info("Input",
			log.String("command", opts.Command),
			log.String("firmware", opts.Firmware),
			log.String("tunings", strings.Join(opts.Tunings, ", ")))
	}
}
