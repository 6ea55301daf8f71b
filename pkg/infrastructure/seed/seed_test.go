package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

func TestDefaultLedger(t *testing.T) {
	l, err := DefaultLedger()
	require.NoError(t, err)
	require.Len(t, l.Projects, 3)

	assert.Equal(t, "0831-25", l.Projects[0].OPNumber)
	assert.Equal(t, entities.StatusPCP, l.Projects[0].Status)
	assert.Len(t, l.Projects[0].Items, 7)

	assert.Equal(t, entities.StatusCommercial, l.Projects[1].Status)

	agro := l.Projects[2]
	assert.Equal(t, entities.StatusPurchasing, agro.Status)
	require.Len(t, agro.Materials, 2)
	assert.Equal(t, entities.MaterialBar, agro.Materials[0].Type)
	assert.True(t, agro.Materials[0].InStock)
	assert.Equal(t, `Viga I 6"`, agro.Materials[0].Name)
	assert.Equal(t, entities.MaterialSheet, agro.Materials[1].Type)
	assert.False(t, agro.Materials[1].InStock)
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	_, err := parse([]byte("projects:\n  - id: x\n    status: LIMBO\n    createdAt: \"2024-01-01T00:00:00Z\"\n"))
	assert.Error(t, err)
}
