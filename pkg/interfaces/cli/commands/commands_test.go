package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProgress_SeedLedger(t *testing.T) {
	t.Setenv("METALERP_STORE_DRIVER", "memory")

	out, err := run(t, "progress", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "op,client,status,items,done,progress")
	assert.Contains(t, out, "0831-25")
	assert.Contains(t, out, "OP-1005")
	assert.NotContains(t, out, "OP-1002")
}

func TestReport_ByOPNumber(t *testing.T) {
	t.Setenv("METALERP_STORE_DRIVER", "memory")

	out, err := run(t, "report", "OP-1005", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Chapa 3/8")

	_, err = run(t, "report", "OP-9999")
	assert.Error(t, err)
}

func TestImportAndBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("METALERP_STORE_DRIVER", "file")
	t.Setenv("METALERP_DATA_DIR", filepath.Join(dir, "data"))

	tsv := filepath.Join(dir, "parts.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("3\tParafuso M16\tAço\n"), 0o644))

	out, err := run(t, "import", "OP-1002", "--type", "COMERCIAL_PART", "--file", tsv)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 materials into OP-1002")

	bundle := filepath.Join(dir, "backup.json")
	_, err = run(t, "backup", "export", "--out", bundle)
	require.NoError(t, err)
	data, err := os.ReadFile(bundle)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Parafuso M16")

	_, err = run(t, "backup", "restore", "--file", bundle)
	assert.ErrorContains(t, err, "--yes")

	out, err = run(t, "backup", "restore", "--file", bundle, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "3 projects")
}

func TestImport_RejectsUnknownType(t *testing.T) {
	t.Setenv("METALERP_STORE_DRIVER", "memory")

	_, err := run(t, "import", "OP-1002", "--type", "TUBO", "--file", "missing.tsv")
	assert.Error(t, err)
}
