package api

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getFixturePath returns the path to the shared envelope fixtures.
// Client tests embed matching JSON strings to verify parsing compatibility.
func getFixturePath(t *testing.T) string {
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get caller info")

	// Navigate from internal/api to the repository root.
	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return filepath.Join(root, "testdata", "envelope")
}

func loadFixture(t *testing.T, name string) map[string]any {
	t.Helper()
	fixtureBytes, err := os.ReadFile(filepath.Join(getFixturePath(t), name))
	require.NoError(t, err, "Failed to read fixture file - contract tests require shared fixtures")

	var expected map[string]any
	require.NoError(t, json.Unmarshal(fixtureBytes, &expected))
	return expected
}

func transformToMap(t *testing.T, status string, v any) map[string]any {
	t.Helper()
	result, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)

	serverBytes, err := json.Marshal(result)
	require.NoError(t, err)

	var serverOutput map[string]any
	require.NoError(t, json.Unmarshal(serverBytes, &serverOutput))
	return serverOutput
}

func TestEnvelopeContract_SuccessMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "success.json")

	serverOutput := transformToMap(t, "200", map[string]string{"id": "test-123", "name": "Test Item"})

	assert.Equal(t, expected["v"], serverOutput["v"], "Version field 'v' must match fixture")
	assert.Equal(t, expected["success"], serverOutput["success"], "Success field must match fixture")
	assert.Equal(t, expected["data"], serverOutput["data"])

	for key := range serverOutput {
		assert.Contains(t, expected, key, "Server output contains unexpected field: %s", key)
	}
}

func TestEnvelopeContract_SuccessNullDataMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "success_null_data.json")

	serverOutput := transformToMap(t, "204", nil)

	assert.Equal(t, expected, serverOutput)
}

func TestEnvelopeContract_SimpleErrorMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "error_simple.json")

	serverOutput := transformToMap(t, "404", &APIError{Message: "Resource not found"})

	assert.Equal(t, expected, serverOutput)
	assert.IsType(t, "", serverOutput["error"], "Error must be a string")
}

func TestEnvelopeContract_DetailedErrorMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "error_detailed.json")

	serverOutput := transformToMap(t, "404", &APIError{
		Code:    "NOT_FOUND",
		Message: "Search session srch-V1StGXR8_Z5j not found",
		Details: map[string]string{"id": "srch-V1StGXR8_Z5j"},
	})

	assert.Equal(t, expected, serverOutput)
}

// The version field must be named exactly 'v'; clients break silently otherwise.
func TestEnvelopeContract_VersionFieldName(t *testing.T) {
	serverOutput := transformToMap(t, "200", nil)

	assert.Contains(t, serverOutput, "v", "Must use 'v' as version field name")
	assert.NotContains(t, serverOutput, "version", "Must NOT use 'version' as field name")
	assert.NotContains(t, serverOutput, "Version", "Must NOT use 'Version' as field name")
}
