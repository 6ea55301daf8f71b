//go:build integration

package backup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMinioSink_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "metalerp",
				"MINIO_ROOT_PASSWORD": "metalerp-secret",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "")
	require.NoError(t, err)

	sink, err := NewMinioSink(ctx, MinioConfig{
		Endpoint:  endpoint,
		AccessKey: "metalerp",
		SecretKey: "metalerp-secret",
		Bucket:    "backups",
	})
	require.NoError(t, err)
	require.NoError(t, sink.Put(ctx, "bundle.json", []byte(`{"version":"2.2"}`)))
}
