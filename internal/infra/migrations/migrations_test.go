package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_AreOrderedGooseMigrations(t *testing.T) {
	entries, err := fs.ReadDir(Files(), dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())

		data, err := fs.ReadFile(Files(), dir+"/"+e.Name())
		require.NoError(t, err)
		content := string(data)
		assert.True(t, strings.HasPrefix(content, "-- +goose Up"), e.Name())
		assert.Contains(t, content, "-- +goose Down", e.Name())
	}

	assert.Equal(t, []string{
		"00001_create_catalog.sql",
		"00002_create_model_slots_config.sql",
		"00003_create_bookings.sql",
	}, names)
}
