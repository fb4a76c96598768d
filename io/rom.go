package io

// Rom is a read-only window of words. Reads past the data return zero,
// writes are ignored.
type Rom struct {
	Data  []uint16
	Delay uint32 // Cycles charged per access.
}

var _ Device = (*Rom)(nil)

func (rc *Rom) Rewind() {
}

func (rc *Rom) Read(addr uint16) (result ReadResult) {
	result.Delay = rc.Delay
	if int(addr) < len(rc.Data) {
		result.Data = rc.Data[addr]
	}
	return
}

func (rc *Rom) Write(addr uint16, data uint16) (result WriteResult) {
	result.Delay = rc.Delay
	return
}
