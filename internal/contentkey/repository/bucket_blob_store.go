// Package repository implements blob stores for the wrapped content key.
//
// Three backends are provided: a gocloud.dev/blob bucket (file://, mem:// and
// any registered cloud driver), PostgreSQL and MySQL. Every Put replaces the
// stored value in one step so readers never see a partial record.
package repository

import (
	"context"
	"path"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Register bucket drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	apperrors "github.com/allisson/envelope/internal/errors"
)

// BucketBlobStore stores values as objects named <store>/<key>.
//
// fileblob writes to a temporary file and renames it on Close, and cloud
// buckets commit on Close, so an interrupted Put leaves the previous value.
type BucketBlobStore struct {
	bucket *blob.Bucket
}

// NewBucketBlobStore creates a BucketBlobStore over an open bucket.
func NewBucketBlobStore(bucket *blob.Bucket) *BucketBlobStore {
	return &BucketBlobStore{bucket: bucket}
}

// OpenBucketBlobStore opens bucketURL and returns a BucketBlobStore over it.
func OpenBucketBlobStore(ctx context.Context, bucketURL string) (*BucketBlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return NewBucketBlobStore(bucket), nil
}

// Get reads the value under store/key.
func (b *BucketBlobStore) Get(ctx context.Context, store, key string) (string, error) {
	data, err := b.bucket.ReadAll(ctx, path.Join(store, key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", contentkeyDomain.ErrBlobNotFound
		}
		return "", apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return string(data), nil
}

// Put replaces the value under store/key.
func (b *BucketBlobStore) Put(ctx context.Context, store, key, value string) error {
	err := b.bucket.WriteAll(ctx, path.Join(store, key), []byte(value), &blob.WriterOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return nil
}

// Close closes the underlying bucket.
func (b *BucketBlobStore) Close() error {
	return b.bucket.Close()
}
