package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "content.toml"))
	require.NoError(t, err)
	assert.Len(t, c.Campaigns, 3)
	assert.Len(t, c.Allocation, 3)
	assert.Len(t, c.Highlights, 3)
	assert.Len(t, c.Summary, 4)
}

func TestLoadOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	data := `
[[campaigns]]
id = "winter-coats"
name = "Winter Coat Drive"
goal = 5000.0
raised = 1250.0
supporters = 40
focus = "Safe Harbor Housing"
highlights = ["300 coats sorted"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Campaigns, 1)
	assert.Equal(t, "Winter Coat Drive", c.Campaigns[0].Name)
	assert.Equal(t, 40, c.Campaigns[0].Supporters)
	assert.Len(t, c.Allocation, 3, "sections absent from the file keep their defaults")
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[campaigns]\nid="), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
