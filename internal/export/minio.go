package export

import (
	"bytes"
	"context"
	"path"

	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/minio"
)

// MinIOSink uploads documents to an object storage bucket
type MinIOSink struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOSink ensures the bucket exists. prefix is prepended to object names.
func NewMinIOSink(ctx context.Context, client *minio.Client, prefix string) (*MinIOSink, error) {
	bucket := client.Config().Bucket
	if err := client.EnsureBucket(ctx, bucket); err != nil {
		return nil, err
	}
	return &MinIOSink{client: client, bucket: bucket, prefix: prefix}, nil
}

// Write uploads data and returns a presigned download link
func (s *MinIOSink) Write(ctx context.Context, name string, data []byte) (*Location, error) {
	object := path.Join(s.prefix, name)
	info, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), ContentType)
	if err != nil {
		return nil, err
	}

	loc := &Location{Backend: BackendMinIO, Name: name, Path: s.bucket + "/" + object, Size: info.Size}
	if u, err := s.client.PresignedGetObject(ctx, s.bucket, object, s.client.Config().PresignExpiry); err == nil {
		loc.URL = u.String()
	}
	return loc, nil
}
