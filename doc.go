// Package ktreego implements a height-balanced n-ary clustering tree
// (k-tree) for fixed-dimension float32 vectors.
//
// Vectors are routed to the leaf with the nearest centroid under squared
// Euclidean distance. Every node carries the coordinate-wise mean of the
// objects in its subtree; when a node exceeds the configured order it is
// split into two siblings with a deterministic 2-means pass, and splits
// propagate upward so all leaves stay at the same depth.
//
// # Quick Start
//
//	tree, _ := ktreego.New(10, 128)
//	defer tree.Close()
//
//	for _, v := range vectors {
//	    o, _ := tree.Prototype().NewObject()
//	    copy(o.Vector(), v)
//	    _ = tree.Insert(o)
//	}
//
//	_ = tree.SaveToFile("tree.bin", persistence.CompressionZstd)
//
// All memory for vectors and nodes comes from a tree-owned arena and is
// released in one step by Close. Construction is strictly single-writer:
// callers needing concurrent access must serialize externally.
//
// The loader package turns text files of vectors into built trees; the
// blobstore package persists serialized trees to local disk or object
// storage.
package ktreego
