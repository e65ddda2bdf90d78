// Package verification verifies that chunked blocks recreate the assembled blocks.
package verification

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/wmfwconv/internal/block"
)

var errChunksExhausted = errors.New("chunks exhausted")

// VerifyChunks verifies that the chunked set is a lossless repartition of the
// assembled set: the chunks of every assembled block are address continuous,
// not larger than the limit and concatenate to the assembled payload.
func VerifyChunks(logger *log.Logger, assembled, chunked block.Set, limit int) error {
	next := 0
	for i, source := range assembled {
		count, err := verifyBlock(logger, source, chunked[next:], limit)
		if err != nil {
			return fmt.Errorf("verifying block %d at 0x%08X: %w", i, source.Address, err)
		}
		next += count
	}

	if next != len(chunked) {
		return fmt.Errorf("%d unexpected chunks after last block", len(chunked)-next)
	}
	return nil
}

// verifyBlock verifies the chunks of a single assembled block and returns
// the number of chunks that it consists of.
func verifyBlock(logger *log.Logger, source block.Block, chunks block.Set, limit int) (int, error) {
	if len(chunks) == 0 {
		return 0, errChunksExhausted
	}
	if len(source.Data) < limit {
		if chunks[0].Address != source.Address {
			return 0, fmt.Errorf("address mismatch, 0x%08X != 0x%08X", chunks[0].Address, source.Address)
		}
		return 1, checkBufferEqual(logger, source.Data, chunks[0].Data)
	}

	var (
		count  int
		joined []byte
	)
	address := source.Address
	for len(joined) < len(source.Data) {
		if count == len(chunks) {
			return 0, errChunksExhausted
		}
		chunk := chunks[count]
		if chunk.Address != address {
			return 0, fmt.Errorf("chunk %d address mismatch, 0x%08X != 0x%08X", count, chunk.Address, address)
		}
		if len(chunk.Data) > limit || len(chunk.Data) == 0 {
			return 0, fmt.Errorf("chunk %d has invalid size %d", count, len(chunk.Data))
		}

		joined = append(joined, chunk.Data...)
		address += uint32(len(chunk.Data))
		count++
	}

	return count, checkBufferEqual(logger, source.Data, joined)
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
