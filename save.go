package ktreego

import (
	"bytes"
	"context"

	"github.com/hupe1980/ktreego/blobstore"
	"github.com/hupe1980/ktreego/persistence"
)

// SaveTree serializes the tree and writes it to the blob store under name.
// The tree itself stays valid and reusable whether or not the store accepts
// the bytes.
func SaveTree(ctx context.Context, store blobstore.BlobStore, name string, t *Tree, c persistence.Compression) error {
	var buf bytes.Buffer
	if _, err := t.WriteCompressed(&buf, c); err != nil {
		t.opts.Logger.LogSave(ctx, name, err)
		return err
	}

	err := store.Put(ctx, name, buf.Bytes())
	t.opts.Logger.LogSave(ctx, name, err)
	return err
}

// LoadTree reads a serialized tree from the blob store.
func LoadTree(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *Options)) (*Tree, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), optFns...)
}
