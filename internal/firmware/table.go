package firmware

var _ OffsetLookup = AlgorithmTable{}

// AlgorithmTable maps algorithm IDs to the region word offsets at which their
// data windows start.
type AlgorithmTable map[uint32]map[Region]uint32

// Add sets the data window base of an algorithm in a region.
func (t AlgorithmTable) Add(algorithmID uint32, region Region, base uint32) {
	windows, ok := t[algorithmID]
	if !ok {
		windows = make(map[Region]uint32)
		t[algorithmID] = windows
	}
	windows[region] = base
}

// AdjustedOffset returns the region word offset of the given offset inside
// the data window of the algorithm.
func (t AlgorithmTable) AdjustedOffset(algorithmID uint32, region Region, offset uint32) (uint32, error) {
	windows, ok := t[algorithmID]
	if !ok {
		return 0, &LookupError{AlgorithmID: algorithmID, Region: region, Err: ErrUnknownAlgorithm}
	}
	base, ok := windows[region]
	if !ok {
		return 0, &LookupError{AlgorithmID: algorithmID, Region: region, Err: ErrUnmappedRegion}
	}
	return AddOffset("window offset", base, uint64(offset))
}
