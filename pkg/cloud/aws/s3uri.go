package aws

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidS3URI is returned for URIs without the s3 scheme or a bucket.
var ErrInvalidS3URI = errors.New("invalid S3 URI")

// S3URI is a parsed s3://bucket/key location.
type S3URI struct {
	Bucket string
	Key    string
	URI    string
}

// ParseS3URI splits uri into bucket and key. The key is taken verbatim: '#' is part
// of the key rather than a fragment, a query string is kept, and nothing is
// percent-decoded.
func ParseS3URI(uri string) (S3URI, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || !strings.EqualFold(scheme, "s3") {
		return S3URI{}, fmt.Errorf("%w %q: expected s3://<bucket>/<key>", ErrInvalidS3URI, uri)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return S3URI{}, fmt.Errorf("%w %q: missing bucket", ErrInvalidS3URI, uri)
	}

	key = strings.TrimLeft(key, "/")
	if before, after, found := strings.Cut(key, "?"); found && after == "" {
		key = before
	}

	return S3URI{Bucket: bucket, Key: key, URI: uri}, nil
}

func (u S3URI) String() string {
	return u.URI
}
