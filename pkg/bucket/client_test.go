package bucket

import (
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	for backend, expectErr := range map[string]bool{
		S3:         false,
		Filesystem: false,
		"gcs":      true,
		"":         true,
	} {
		cfg := Config{Backend: backend}
		err := cfg.Validate()
		if expectErr {
			require.ErrorIs(t, err, ErrUnsupportedStorageBackend, "backend %q", backend)
		} else {
			require.NoError(t, err, "backend %q", backend)
		}
	}
}

func TestRegisterFlagsDefaults(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.PanicOnError)
	cfg.RegisterFlagsWithPrefix("store.", fs)
	require.NoError(t, fs.Parse(nil))

	require.Equal(t, Filesystem, cfg.Backend)
	require.NoError(t, fs.Parse([]string{"-store.backend=s3", "-store.s3.bucket-name=data"}))
	require.Equal(t, S3, cfg.Backend)
	require.Equal(t, "data", cfg.S3.BucketName)
}

func TestNewClientFilesystem(t *testing.T) {
	cfg := Config{
		Backend:    Filesystem,
		Filesystem: FilesystemConfig{Directory: t.TempDir()},
	}
	client, err := NewClient(cfg, "test", log.NewNopLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Upload(context.Background(), "obj", strings.NewReader("payload")))
	attrs, err := client.Attributes(context.Background(), "obj")
	require.NoError(t, err)
	require.Equal(t, int64(len("payload")), attrs.Size)
}

func TestNewClientUnsupportedBackend(t *testing.T) {
	_, err := NewClient(Config{Backend: "tape"}, "test", log.NewNopLogger(), nil)
	require.ErrorIs(t, err, ErrUnsupportedStorageBackend)
}
