package migrate

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Order Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_order_index.sql"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "+goose Up")
	assert.Contains(t, string(body), "+goose Down")

	_, err = CreateSQLMigration(dir, "")
	require.Error(t, err)
	_, err = CreateSQLMigration("", "x")
	require.Error(t, err)
	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}
