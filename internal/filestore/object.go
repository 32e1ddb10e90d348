package filestore

import (
	"io"
	"time"
)

// PageSize is the number of keys a single list request returns.
const PageSize = 1000

// ObjectInfo describes a single object stored in a bucket.
type ObjectInfo struct {
	// Key is the full object path within the bucket (e.g. "images/photo.jpg").
	Key string `yaml:"key"`

	// Size is the byte size of the object.
	Size int64 `yaml:"size"`

	// ETag is the entity tag without surrounding quotes.
	ETag string `yaml:"etag,omitempty"`

	// LastModified is when the object was last written.
	LastModified time.Time `yaml:"lastModified,omitempty"`

	// IsDir is true for a common prefix ("folder") rather than a stored object.
	IsDir bool `yaml:"isDir,omitempty"`
}

// ListOptions controls how ListObjects filters and paginates results.
type ListOptions struct {
	// Prefix restricts results to keys starting with this string.
	Prefix string

	// Recursive lists every key under Prefix. When false, keys are grouped
	// by "/" and the groups come back as IsDir entries.
	Recursive bool

	// FirstPageOnly stops after the first PageSize keys instead of
	// following continuation tokens to the end of the bucket.
	FirstPageOnly bool
}

// File is an upload source.
type File struct {
	// Name is the original file name. Used for key generation only.
	Name string

	// ContentType wins over extension-based detection when set.
	ContentType string

	// Size is the byte length of Body. Zero or negative means unknown and
	// Body is read fully before the transfer starts.
	Size int64

	Body io.Reader
}

// UploadResult is returned by a successful UploadObject.
type UploadResult struct {
	Key        string
	URL        string
	ETag       string
	StatusCode int
}
