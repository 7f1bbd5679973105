package storage

import (
	"fmt"
	"strings"
)

// Target is a parsed export destination: a local directory or s3://bucket/prefix.
type Target struct {
	Dir    string
	Bucket string
	Prefix string
}

// IsS3 reports whether the target is an S3 location.
func (t Target) IsS3() bool {
	return t.Bucket != ""
}

func (t Target) String() string {
	if t.IsS3() {
		if t.Prefix == "" {
			return "s3://" + t.Bucket
		}
		return "s3://" + t.Bucket + "/" + t.Prefix
	}
	return t.Dir
}

// ParseTarget accepts a directory path or an s3:// URL.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, fmt.Errorf("empty export target")
	}
	if !strings.HasPrefix(s, "s3://") {
		return Target{Dir: s}, nil
	}

	rest := strings.TrimPrefix(s, "s3://")
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, fmt.Errorf("invalid s3 target %q: missing bucket", s)
	}
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}
