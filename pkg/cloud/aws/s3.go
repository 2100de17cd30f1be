package aws

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/amplify-education/awsutils-go/pkg/cloud"
	"github.com/amplify-education/awsutils-go/pkg/retry"
)

const (
	// ObjectExistsTimeout bounds the wait for an object to appear before reading it.
	ObjectExistsTimeout = 100 * time.Second

	// hashBlockSize is the read size used when hashing objects (5 MiB).
	hashBlockSize = 5 * 1024 * 1024
)

// ListObjects returns every object under prefix in bucket.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]s3types.Object, error) {
	return retry.ListAll[s3types.Object](ctx, c.policy(), "ListObjectsV2",
		retry.FromCall(c.S3.ListObjectsV2, s3.ListObjectsV2Input{
			Bucket: awssdk.String(bucket),
			Prefix: awssdk.String(prefix),
		}),
		retry.PagedRequest{
			ResultsField: "Contents",
			TokenField:   "NextContinuationToken",
			TokenArg:     "ContinuationToken",
		})
}

// ListVersions returns every object version under prefix in bucket.
func (c *Client) ListVersions(ctx context.Context, bucket, prefix string) ([]s3types.ObjectVersion, error) {
	return retry.ListAll[s3types.ObjectVersion](ctx, c.policy(), "ListObjectVersions",
		retry.FromCall(c.S3.ListObjectVersions, s3.ListObjectVersionsInput{
			Bucket: awssdk.String(bucket),
			Prefix: awssdk.String(prefix),
		}),
		retry.PagedRequest{
			ResultsField: "Versions",
			TokenField:   "NextVersionIdMarker",
			TokenArg:     "VersionIdMarker",
		})
}

// ReadFile returns the object body as a string. With wait set it first waits up to
// ObjectExistsTimeout for the object to exist.
func (c *Client) ReadFile(ctx context.Context, bucket, key string, wait bool) (string, error) {
	var body strings.Builder
	if err := c.DownloadFile(ctx, bucket, key, &body, wait); err != nil {
		return "", err
	}
	return body.String(), nil
}

// DownloadFile copies the object body into w. With wait set it first waits up to
// ObjectExistsTimeout for the object to exist.
func (c *Client) DownloadFile(ctx context.Context, bucket, key string, w io.Writer, wait bool) error {
	if wait {
		if err := c.waitForObject(ctx, bucket, key); err != nil {
			return err
		}
	}

	out, err := throttled(ctx, c, "GetObject", func(ctx context.Context) (*s3.GetObjectOutput, error) {
		return c.S3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: awssdk.String(bucket),
			Key:    awssdk.String(key),
		})
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	written, err := io.Copy(w, out.Body)
	if err != nil {
		return fmt.Errorf("reading s3://%s/%s: %w", bucket, key, err)
	}
	if out.ContentLength != nil {
		return cloud.CheckWritten(fmt.Sprintf("s3://%s/%s", bucket, key), *out.ContentLength, written)
	}
	return nil
}

func (c *Client) waitForObject(ctx context.Context, bucket, key string) error {
	c.logger().Info("Waiting for object to exist", "bucket", bucket, "key", key)

	waiter := s3.NewObjectExistsWaiter(c.S3)
	err := waiter.Wait(ctx, &s3.HeadObjectInput{
		Bucket: awssdk.String(bucket),
		Key:    awssdk.String(key),
	}, ObjectExistsTimeout)
	if err != nil {
		return retry.NewError(retry.KindWaiter, fmt.Sprintf("waiting for s3://%s/%s", bucket, key), err)
	}
	return nil
}

// WriteFile stores body as the object at key.
func (c *Client) WriteFile(ctx context.Context, bucket, key, body string) error {
	_, err := throttled(ctx, c, "PutObject", func(ctx context.Context) (*s3.PutObjectOutput, error) {
		return c.S3.PutObject(ctx, &s3.PutObjectInput{
			Bucket: awssdk.String(bucket),
			Key:    awssdk.String(key),
			Body:   strings.NewReader(body),
		})
	})
	return err
}

// PutBucketTags replaces the bucket's tags with tags. With merge set, tags are
// layered over the existing ones instead.
func (c *Client) PutBucketTags(ctx context.Context, bucket string, tags map[string]string, merge bool) error {
	if merge {
		existing, err := c.GetBucketTags(ctx, bucket)
		if err != nil {
			return err
		}
		for k, v := range tags {
			existing[k] = v
		}
		tags = existing
	}

	_, err := throttled(ctx, c, "PutBucketTagging", func(ctx context.Context) (*s3.PutBucketTaggingOutput, error) {
		return c.S3.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
			Bucket:  awssdk.String(bucket),
			Tagging: &s3types.Tagging{TagSet: s3Tags(tags)},
		})
	})
	return err
}

// GetBucketTags returns the bucket's tags. S3 answers with an error when a bucket
// has no tag set, so any service error yields an empty map.
func (c *Client) GetBucketTags(ctx context.Context, bucket string) (map[string]string, error) {
	out, err := throttled(ctx, c, "GetBucketTagging", func(ctx context.Context) (*s3.GetBucketTaggingOutput, error) {
		return c.S3.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: awssdk.String(bucket)})
	})
	if err != nil {
		if retry.KindOf(err) == retry.KindService {
			c.logger().Warn("Bucket has no tags", "bucket", bucket, "code", retry.CodeOf(err))
			return map[string]string{}, nil
		}
		return nil, err
	}
	return cloud.TagsToMap(out.TagSet)
}

// PutObjectTags replaces the object's tags.
func (c *Client) PutObjectTags(ctx context.Context, bucket, key string, tags map[string]string) error {
	_, err := throttled(ctx, c, "PutObjectTagging", func(ctx context.Context) (*s3.PutObjectTaggingOutput, error) {
		return c.S3.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
			Bucket:  awssdk.String(bucket),
			Key:     awssdk.String(key),
			Tagging: &s3types.Tagging{TagSet: s3Tags(tags)},
		})
	})
	return err
}

// GetObjectTags returns the object's tags.
func (c *Client) GetObjectTags(ctx context.Context, bucket, key string) (map[string]string, error) {
	out, err := throttled(ctx, c, "GetObjectTagging", func(ctx context.Context) (*s3.GetObjectTaggingOutput, error) {
		return c.S3.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
			Bucket: awssdk.String(bucket),
			Key:    awssdk.String(key),
		})
	})
	if err != nil {
		return nil, err
	}
	return cloud.TagsToMap(out.TagSet)
}

// HashFile returns the hex SHA-256 digest of the object body.
func (c *Client) HashFile(ctx context.Context, bucket, key string) (string, error) {
	out, err := throttled(ctx, c, "GetObject", func(ctx context.Context) (*s3.GetObjectOutput, error) {
		return c.S3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: awssdk.String(bucket),
			Key:    awssdk.String(key),
		})
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	hasher := sha256.New()
	if _, err := io.CopyBuffer(hasher, out.Body, make([]byte, hashBlockSize)); err != nil {
		return "", fmt.Errorf("hashing s3://%s/%s: %w", bucket, key, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// CopyFile copies an object between buckets.
func (c *Client) CopyFile(ctx context.Context, sourceBucket, destinationBucket, sourceKey, destinationKey string) error {
	_, err := throttled(ctx, c, "CopyObject", func(ctx context.Context) (*s3.CopyObjectOutput, error) {
		return c.S3.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     awssdk.String(destinationBucket),
			Key:        awssdk.String(destinationKey),
			CopySource: awssdk.String(sourceBucket + "/" + url.PathEscape(sourceKey)),
		})
	})
	return err
}

func s3Tags(m map[string]string) []s3types.Tag {
	tags := cloud.MapToTags(m)
	out := make([]s3types.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, s3types.Tag{Key: awssdk.String(t.Key), Value: awssdk.String(t.Value)})
	}
	return out
}
