// Package blobstore abstracts the medium that persisted trees are written to
// and read from: local filesystem, memory (tests), or S3-compatible object
// storage.
//
// The tree core never talks to a BlobStore directly; SaveTree/LoadTree at the
// module root pipe the binary encoding through one.
package blobstore
