// Package bucket builds the object storage client the fabric reads
// partitions from. Every tier shares the same configuration surface, so a
// worker running remotely resolves the exact same objects a local run does.
package bucket

import (
	"flag"
	"fmt"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thanos-io/objstore"
	"github.com/thanos-io/objstore/providers/filesystem"
	"github.com/thanos-io/objstore/providers/s3"
)

const (
	// S3 is the value for the S3 storage backend.
	S3 = "s3"

	// Filesystem is the value for the filesystem storage backend.
	Filesystem = "filesystem"
)

var (
	// SupportedBackends lists the selectable storage backends.
	SupportedBackends = []string{S3, Filesystem}

	// ErrUnsupportedStorageBackend is returned for backend values outside
	// SupportedBackends.
	ErrUnsupportedStorageBackend = errors.New("unsupported storage backend")
)

// S3Config holds the S3 backend settings.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket_name"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Insecure        bool   `yaml:"insecure"`
}

func (cfg *S3Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Endpoint, prefix+"s3.endpoint", "", "The S3 bucket endpoint. It could be an AWS S3 endpoint listed at https://docs.aws.amazon.com/general/latest/gr/s3.html or the address of an S3-compatible service in hostname:port format.")
	f.StringVar(&cfg.Region, prefix+"s3.region", "", "S3 region. If unset, the client will issue a S3 GetBucketLocation API call to autodetect it.")
	f.StringVar(&cfg.BucketName, prefix+"s3.bucket-name", "", "S3 bucket name.")
	f.StringVar(&cfg.AccessKeyID, prefix+"s3.access-key-id", "", "S3 access key ID.")
	f.StringVar(&cfg.SecretAccessKey, prefix+"s3.secret-access-key", "", "S3 secret access key.")
	f.BoolVar(&cfg.Insecure, prefix+"s3.insecure", false, "If enabled, use http:// for the S3 endpoint instead of https://.")
}

// FilesystemConfig holds the local filesystem backend settings.
type FilesystemConfig struct {
	Directory string `yaml:"dir"`
}

func (cfg *FilesystemConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Directory, prefix+"filesystem.dir", "", "Local filesystem storage directory.")
}

// Config holds configuration for accessing partition storage.
type Config struct {
	Backend string `yaml:"backend"`

	S3         S3Config         `yaml:"s3"`
	Filesystem FilesystemConfig `yaml:"filesystem"`
}

// RegisterFlags registers the backend storage config.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Backend, prefix+"backend", Filesystem, fmt.Sprintf("Backend storage to use. Supported backends are: %v.", SupportedBackends))
	cfg.S3.RegisterFlagsWithPrefix(prefix, f)
	cfg.Filesystem.RegisterFlagsWithPrefix(prefix, f)
}

func (cfg *Config) Validate() error {
	switch cfg.Backend {
	case S3, Filesystem:
		return nil
	default:
		return ErrUnsupportedStorageBackend
	}
}

// NewClient creates a new bucket client based on the configured backend.
func NewClient(cfg Config, name string, logger log.Logger, reg prometheus.Registerer) (objstore.Bucket, error) {
	var (
		client objstore.Bucket
		err    error
	)

	switch cfg.Backend {
	case S3:
		client, err = s3.NewBucketWithConfig(logger, s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.BucketName,
			AccessKey: cfg.S3.AccessKeyID,
			SecretKey: cfg.S3.SecretAccessKey,
			Insecure:  cfg.S3.Insecure,
		}, name, nil)
	case Filesystem:
		client, err = filesystem.NewBucket(cfg.Filesystem.Directory)
	default:
		return nil, ErrUnsupportedStorageBackend
	}
	if err != nil {
		return nil, errors.Wrap(err, "creating bucket client")
	}

	if reg != nil {
		client = objstore.WrapWith(client, objstore.BucketMetrics(prometheus.WrapRegistererWithPrefix("colibri_", reg), ""))
	}
	return client, nil
}
