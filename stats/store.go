package stats

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/justapithecus/lode/lode"
	lodes3 "github.com/justapithecus/lode/lode/s3"

	"github.com/pithecene-io/browserslist/types"
)

// s3Scheme prefixes stats locations stored in S3 (s3://bucket/key).
const s3Scheme = "s3://"

// Location is a parsed stats location.
type Location struct {
	// Raw is the location as given by the user; it appears in messages.
	Raw string
	// Backend is "fs" or "s3".
	Backend string
	// Root is the store root: a directory for fs, a bucket for s3.
	Root string
	// Key is the object key relative to Root.
	Key string
}

// ParseLocation parses a --stats value. Local paths are resolved against cwd.
func ParseLocation(raw, cwd string) (Location, error) {
	if raw == "" {
		return Location{}, errors.New("empty stats location")
	}

	if strings.HasPrefix(raw, s3Scheme) {
		bucket, key, _ := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("stats location %q must be s3://bucket/key", raw)
		}
		return Location{Raw: raw, Backend: "s3", Root: bucket, Key: key}, nil
	}

	p := raw
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	p = filepath.Clean(p)
	return Location{Raw: raw, Backend: "fs", Root: filepath.Dir(p), Key: filepath.Base(p)}, nil
}

// S3Target is the bucket an s3:// location is read from and how to
// reach it.
type S3Target struct {
	Bucket string
	// Region is empty to use the SDK's default resolution.
	Region string
	// Endpoint points at an S3-compatible service; it implies path-style
	// addressing.
	Endpoint string
}

// S3TargetFor builds the target for an s3 location, taking region and
// endpoint from BROWSERSLIST_S3_REGION and BROWSERSLIST_S3_ENDPOINT.
func S3TargetFor(loc Location, env types.Environment) S3Target {
	return S3Target{
		Bucket:   loc.Root,
		Region:   env.Get(S3RegionEnvVar),
		Endpoint: env.Get(S3EndpointEnvVar),
	}
}

// OpenS3 returns a Lode store factory over the target bucket. Credentials
// come from the AWS default chain.
func OpenS3(ctx context.Context, t S3Target) (lode.StoreFactory, error) {
	var opts []func(*config.LoadOptions) error
	if t.Region != "" {
		opts = append(opts, config.WithRegion(t.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if t.Endpoint != "" {
			o.BaseEndpoint = &t.Endpoint
			o.UsePathStyle = true
		}
	})
	return func() (lode.Store, error) {
		return lodes3.New(client, lodes3.Config{Bucket: t.Bucket})
	}, nil
}
