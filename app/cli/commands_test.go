package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupStore points the commands at a fresh SQLite file with the schema applied.
func setupStore(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_URL", filepath.Join(dir, "stock.db"))
	t.Setenv("STORE_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOW_STOCK_THRESHOLD", "")

	envFile := filepath.Join(dir, "missing.env")
	_, err := execute(t, envFile, "migrate")
	require.NoError(t, err)
	return envFile
}

func execute(t *testing.T, envFile string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", envFile}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_InventoryScenario(t *testing.T) {
	env := setupStore(t)

	out, err := execute(t, env, "category", "add", "Dairy")
	require.NoError(t, err)
	assert.Equal(t, "Added category \"Dairy\" (id 1)\n", out)

	out, err = execute(t, env, "product", "upsert", "Milk", "--price", "4.50", "--category", "1", "--qty", "20")
	require.NoError(t, err)
	assert.Equal(t, "Added new product Milk with 20 units\n", out)

	out, err = execute(t, env, "product", "upsert", "MILK", "--price", "4.80", "--category", "1", "--qty", "5")
	require.NoError(t, err)
	assert.Equal(t, "Updated Milk: now 25 units at 4.80\n", out)

	_, err = execute(t, env, "issue", "--product", "milk", "--qty", "30")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "available 25")

	out, err = execute(t, env, "--format", "json", "issue", "--product", "1", "--qty", "20")
	require.NoError(t, err)
	var issued struct {
		Order     OrderView `json:"order"`
		Remaining int       `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	assert.Equal(t, 5, issued.Remaining)
	assert.Equal(t, "96.00", issued.Order.TotalPrice)
	assert.Equal(t, "Milk", issued.Order.Product)

	out, err = execute(t, env, "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "LOW  Milk")

	_, err = execute(t, env, "category", "delete", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "category still has products")

	out, err = execute(t, env, "--format", "yaml", "history")
	require.NoError(t, err)
	var history []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &history))
	require.Len(t, history, 1)
	assert.Equal(t, 20, history[0]["quantity"])

	_, err = execute(t, env, "product", "delete", "1")
	require.NoError(t, err)
	_, err = execute(t, env, "category", "delete", "1")
	require.NoError(t, err)

	out, err = execute(t, env, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "(deleted)")
}

func TestCommands_Dashboard(t *testing.T) {
	env := setupStore(t)

	_, err := execute(t, env, "category", "add", "Bread", "-d", "baked daily")
	require.NoError(t, err)
	_, err = execute(t, env, "product", "upsert", "Rolls", "--price", "0.80", "--category", "1", "--qty", "40")
	require.NoError(t, err)

	out, err := execute(t, env, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "All products are sufficiently stocked.")

	out, err = execute(t, env, "--format", "json", "dashboard")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.EqualValues(t, 40, summary["total_units"])
	assert.Equal(t, "32.00", summary["stock_value"])
}

func TestCommands_Validation(t *testing.T) {
	env := setupStore(t)

	testCases := []struct {
		name         string
		args         []string
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "Blank category name",
			args:         []string{"category", "add", "  "},
			expectedCode: ExitFailure,
			expectedMsg:  "name cannot be empty",
		},
		{
			name:         "Unknown category",
			args:         []string{"product", "upsert", "Milk", "--category", "9"},
			expectedCode: ExitFailure,
			expectedMsg:  "category not found",
		},
		{
			name:         "Bad price",
			args:         []string{"product", "upsert", "Milk", "--category", "1", "--price", "abc"},
			expectedCode: ExitCommandError,
			expectedMsg:  `invalid price "abc"`,
		},
		{
			name:         "Bad id",
			args:         []string{"product", "delete", "x"},
			expectedCode: ExitCommandError,
			expectedMsg:  `invalid id "x"`,
		},
		{
			name:         "Unknown product",
			args:         []string{"issue", "--product", "Ghost"},
			expectedCode: ExitFailure,
			expectedMsg:  "product not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, env, tc.args...)
			require.Error(t, err)
			assert.Equal(t, tc.expectedCode, GetExitCode(err))
			assert.Contains(t, err.Error(), tc.expectedMsg)
		})
	}
}

func TestCommands_MissingStoreURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_KEY", "")

	_, err := execute(t, filepath.Join(t.TempDir(), "missing.env"), "alerts")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "STORE_URL is required")
}
