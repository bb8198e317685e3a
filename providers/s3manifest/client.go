// Package s3manifest reads release manifest files from an S3 bucket.
package s3manifest

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client fetches manifest objects from one bucket.
type Client struct {
	s3c    *s3.Client
	bucket string
}

// NewClient creates a manifest client for the given bucket and region,
// using the default AWS credential chain.
func NewClient(ctx context.Context, bucket, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Client{
		s3c:    s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// Fetch downloads one manifest object and returns its contents with
// surrounding whitespace trimmed.
func (c *Client) Fetch(ctx context.Context, key string) (string, error) {
	out, err := c.s3c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		return "", fmt.Errorf("fetch s3://%s/%s: %w", c.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("fetch s3://%s/%s: %w", c.bucket, key, err)
	}
	return strings.TrimSpace(string(data)), nil
}
