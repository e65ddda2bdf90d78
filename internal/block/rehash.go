package block

import (
	"slices"
	"strconv"

	"github.com/retroenv/wmfwconv/internal/firmware"
)

// Rehash returns a new set in which every block whose payload reaches the
// limit is split into consecutive chunks of at most limit bytes. Chunk
// addresses continue from the address of the block they were split from.
// Blocks below the limit are copied unchanged and the block order is kept.
// A chunk address beyond the 32 bit range is reported as ErrAddressOverflow.
func Rehash(set Set, limit int) (Set, error) {
	if limit <= 0 {
		return nil, &firmware.ConfigurationError{
			Field: "block size limit",
			Value: strconv.Itoa(limit),
			Err:   firmware.ErrInvalidLimit,
		}
	}

	result := make(Set, 0, len(set))
	for _, b := range set {
		if len(b.Data) < limit {
			result = append(result, Block{
				Address: b.Address,
				Data:    slices.Clone(b.Data),
			})
			continue
		}

		for pos := 0; pos < len(b.Data); pos += limit {
			address, err := firmware.AddOffset("chunk address", b.Address, uint64(pos))
			if err != nil {
				return nil, err
			}
			size := min(limit, len(b.Data)-pos)
			result = append(result, Block{
				Address: address,
				Data:    slices.Clone(b.Data[pos : pos+size]),
			})
		}
	}
	return result, nil
}
