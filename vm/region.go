package vm

import (
	"encoding/binary"
	"fmt"
)

// Region describes a chunk of guest linear memory, in the guest's own terms:
// where it starts, how many bytes it can hold, and how many are meaningful.
// Regions are the only way data crosses the host/guest boundary; the host
// validates every descriptor against actual memory bounds before use.
type Region struct {
	Offset   uint32
	Capacity uint32
	Length   uint32
}

const regionSize = 12

// guestMemory is the subset of wazero's api.Memory the region transfer logic
// needs. Narrowed so the validation rules can be tested without instantiating
// a wasm module.
type guestMemory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	Size() uint32
}

func decodeRegion(raw []byte) Region {
	return Region{
		Offset:   binary.LittleEndian.Uint32(raw[0:4]),
		Capacity: binary.LittleEndian.Uint32(raw[4:8]),
		Length:   binary.LittleEndian.Uint32(raw[8:12]),
	}
}

func encodeRegion(r Region) []byte {
	raw := make([]byte, regionSize)
	binary.LittleEndian.PutUint32(raw[0:4], r.Offset)
	binary.LittleEndian.PutUint32(raw[4:8], r.Capacity)
	binary.LittleEndian.PutUint32(raw[8:12], r.Length)
	return raw
}

// readRegion loads and validates a region descriptor at ptr.
func readRegion(mem guestMemory, ptr uint32) (Region, error) {
	raw, ok := mem.Read(ptr, regionSize)
	if !ok {
		return Region{}, fmt.Errorf("region descriptor at %d out of memory bounds", ptr)
	}
	region := decodeRegion(raw)
	if region.Length > region.Capacity {
		return Region{}, RegionTooSmallError{Offset: region.Offset, Capacity: region.Capacity, DataLen: int(region.Length)}
	}
	if uint64(region.Offset)+uint64(region.Capacity) > uint64(mem.Size()) {
		return Region{}, RegionTooSmallError{Offset: region.Offset, Capacity: region.Capacity, DataLen: int(region.Length)}
	}
	return region, nil
}

// readRegionData reads the meaningful bytes of the region at ptr.
func readRegionData(mem guestMemory, ptr uint32) ([]byte, error) {
	region, err := readRegion(mem, ptr)
	if err != nil {
		return nil, err
	}
	data, ok := mem.Read(region.Offset, region.Length)
	if !ok {
		return nil, RegionTooSmallError{Offset: region.Offset, Capacity: region.Capacity, DataLen: int(region.Length)}
	}
	return append([]byte(nil), data...), nil
}

// writeToRegion writes data into the region at ptr and updates its length
// field. The region's capacity must hold all of data.
func writeToRegion(mem guestMemory, ptr uint32, data []byte) error {
	region, err := readRegion(mem, ptr)
	if err != nil {
		return err
	}
	if int(region.Capacity) < len(data) {
		return RegionTooSmallError{Offset: region.Offset, Capacity: region.Capacity, DataLen: len(data)}
	}
	if !mem.Write(region.Offset, data) {
		return RegionTooSmallError{Offset: region.Offset, Capacity: region.Capacity, DataLen: len(data)}
	}
	region.Length = uint32(len(data))
	if !mem.Write(ptr, encodeRegion(region)) {
		return fmt.Errorf("region descriptor at %d out of memory bounds", ptr)
	}
	return nil
}
