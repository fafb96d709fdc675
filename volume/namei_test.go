package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameiFindsAnAllocatedName(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)
	id, err := v.ialloc()
	require.NoError(t, err)
	v.inodes[id] = Inode{Type: Regular, Name: "/findme.txt"}

	assert.Equal(t, id, v.namei("/findme.txt"))
	assert.Equal(t, -1, v.namei("/missing.txt"))
}

func TestNameiIgnoresAFreedInodesStaleName(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)
	id, err := v.ialloc()
	require.NoError(t, err)
	v.inodes[id] = Inode{Type: Regular, Name: "/gone.txt"}

	require.NoError(t, v.ifree(id))

	assert.Equal(t, -1, v.namei("/gone.txt"), "ifree must zero the name so a stale record is never resolved again")
}
