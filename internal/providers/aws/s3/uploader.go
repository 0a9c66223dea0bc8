package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const uriScheme = "s3://"

// Location is a parsed s3://bucket/key URI.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return uriScheme + l.Bucket + "/" + l.Key
}

// IsS3URI reports whether dest names an S3 object rather than a local path.
func IsS3URI(dest string) bool {
	return strings.HasPrefix(dest, uriScheme)
}

// ParseS3URI splits "s3://bucket/key" into its bucket and key. Both parts
// are required; a trailing slash on the key is rejected.
func ParseS3URI(uri string) (Location, error) {
	if !IsS3URI(uri) {
		return Location{}, fmt.Errorf("invalid S3 URI %q: must start with %s", uri, uriScheme)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, uriScheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid S3 URI %q: want s3://bucket/key", uri)
	}
	if strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("invalid S3 URI %q: key must name an object, not a prefix", uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Uploader writes audit reports to S3.
type Uploader struct {
	client PutObjectClient
}

// NewUploader returns an Uploader using client.
func NewUploader(client PutObjectClient) *Uploader {
	return &Uploader{client: client}
}

// Upload stores body at loc with SSE-S3 encryption.
func (u *Uploader) Upload(ctx context.Context, loc Location, body []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:               aws.String(loc.Bucket),
		Key:                  aws.String(loc.Key),
		Body:                 bytes.NewReader(body),
		ContentLength:        aws.Int64(int64(len(body))),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return fmt.Errorf("upload report to %s: %w", loc, err)
	}
	return nil
}
