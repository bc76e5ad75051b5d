// Package arena provides a chunked pool allocator that owns all vector and
// node memory for one clustering tree.
//
// Memory is carved from fixed-capacity chunks that are never resized or
// moved, so slices handed out stay valid for the lifetime of the arena.
// There is no per-object free: the whole pool is released at once when the
// owning tree is discarded.
package arena
