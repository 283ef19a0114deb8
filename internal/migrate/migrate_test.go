package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/jump-spaces/migrations"
)

func TestFiles_OrderedAndAnnotated(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	require.Equal(t, []string{"00001_users.sql", "00002_workspace.sql"}, files)

	for _, name := range files {
		body, err := migrations.FS.ReadFile(name)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(body), "-- +goose Up"), name)
		require.Contains(t, string(body), "-- +goose Down", name)
	}
}
