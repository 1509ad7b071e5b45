package xfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, "audio"), ExpandTilde("~/audio"))
	assert.Equal(t, "/var/lib/napcast", ExpandTilde("/var/lib/napcast"))
	assert.Equal(t, "~user/audio", ExpandTilde("~user/audio"))
}
