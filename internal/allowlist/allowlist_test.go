package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBasename(t *testing.T) {
	set, err := Compile([]string{"vim", "ssh"})
	require.NoError(t, err)

	assert.True(t, set.Matches("vim", ""))
	assert.True(t, set.Matches("/opt/bin/ssh", ""))
}

func TestMatchGlob(t *testing.T) {
	set, err := Compile([]string{"kubectl*"})
	require.NoError(t, err)

	assert.True(t, set.Matches("kubectl", "/usr/local/bin/kubectl"))
}

func TestMatchFullPath(t *testing.T) {
	set, err := Compile([]string{"/usr/bin/less"})
	require.NoError(t, err)

	assert.True(t, set.Matches("less", "/usr/bin/less"))
	assert.False(t, set.Matches("less", "/usr/local/bin/less"))
}

func TestMatchMiss(t *testing.T) {
	set, err := Compile([]string{"ssh"})
	require.NoError(t, err)

	assert.False(t, set.Matches("git", "/usr/bin/git"))
}

func TestCompileSkipsBlankAndRejectsMalformed(t *testing.T) {
	set, err := Compile([]string{"  ", "top"})
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	_, err = Compile([]string{"["})
	assert.Error(t, err)
}

func TestNilSetMatchesNothing(t *testing.T) {
	var set *Set
	assert.False(t, set.Matches("vim", ""))
	assert.Zero(t, set.Len())
}
