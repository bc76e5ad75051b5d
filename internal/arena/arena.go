package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
)

const (
	// DefaultChunkSize is the default number of float32 slots per chunk (1M slots, 4MB).
	DefaultChunkSize = 1 << 20
	// MaxChunks limits the number of chunks to bound total memory usage.
	MaxChunks = 65536
)

// Stats tracks arena memory usage.
type Stats struct {
	ChunksAllocated uint64 // Total chunks ever created
	SlotsReserved   uint64 // Total float32 slots reserved
	SlotsUsed       uint64 // Slots actually handed out
	TotalAllocs     uint64 // Cumulative allocation count
}

// Arena is a chunked float32 allocator. Chunks are allocated at full capacity
// up front and never resized, so slices returned by AllocFloat32Slice remain
// valid until Free.
//
// Arena is not safe for concurrent use; a tree under construction has a
// single writer.
type Arena struct {
	chunkSize int
	chunks    [][]float32
	offset    int // offset into the last chunk
	stats     Stats
	freed     bool
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithChunkSize sets the chunk size in float32 slots.
func WithChunkSize(slots int) Option {
	return func(a *Arena) {
		if slots > 0 {
			a.chunkSize = slots
		}
	}
}

// New creates a new Arena.
func New(opts ...Option) *Arena {
	a := &Arena{
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arena) addChunk(capacity int) error {
	if len(a.chunks) >= MaxChunks {
		return ErrMaxChunksExceeded
	}
	a.chunks = append(a.chunks, make([]float32, capacity))
	a.offset = 0
	a.stats.ChunksAllocated++
	a.stats.SlotsReserved += uint64(capacity)
	return nil
}

// AllocFloat32Slice returns a zero-initialized float32 slice of length n
// carved from the arena. The slice has capacity n so appends cannot bleed
// into neighbouring allocations.
func (a *Arena) AllocFloat32Slice(n int) ([]float32, error) {
	if a.freed {
		return nil, fmt.Errorf("arena: allocate after Free")
	}
	if n <= 0 {
		return nil, nil
	}

	// Oversized requests get a dedicated chunk.
	if n > a.chunkSize {
		if err := a.addChunk(n); err != nil {
			return nil, err
		}
		a.offset = n
		a.stats.SlotsUsed += uint64(n)
		a.stats.TotalAllocs++
		last := a.chunks[len(a.chunks)-1]
		return last[0:n:n], nil
	}

	if len(a.chunks) == 0 || a.offset+n > a.chunkSize {
		if err := a.addChunk(a.chunkSize); err != nil {
			return nil, err
		}
	}

	chunk := a.chunks[len(a.chunks)-1]
	s := chunk[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	a.stats.SlotsUsed += uint64(n)
	a.stats.TotalAllocs++
	return s, nil
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats
}

// Usage returns the fraction of reserved slots actually handed out, in percent.
func (a *Arena) Usage() float64 {
	if a.stats.SlotsReserved == 0 {
		return 0
	}
	return float64(a.stats.SlotsUsed) / float64(a.stats.SlotsReserved) * 100
}

// Free releases all arena memory back to the garbage collector. Every slice
// previously returned becomes invalid. The arena cannot be reused afterwards.
func (a *Arena) Free() {
	a.chunks = nil
	a.offset = 0
	a.freed = true
	a.stats.SlotsReserved = 0
	a.stats.SlotsUsed = 0
}

func (a *Arena) String() string {
	return fmt.Sprintf("Arena{chunks: %d, reserved: %d, used: %d, allocs: %d, usage: %.1f%%}",
		len(a.chunks), a.stats.SlotsReserved, a.stats.SlotsUsed, a.stats.TotalAllocs, a.Usage())
}
