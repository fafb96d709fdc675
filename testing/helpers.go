// Package testing provides in-memory fixtures for exercising a volume
// without touching the host file system, in the same spirit as the
// original disko test helpers.
package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abustany/flatfs/device"
	"github.com/abustany/flatfs/volume"
)

// NewFormattedVolume formats a fresh in-memory device of deviceSize bytes
// and mounts it, failing the test immediately on any error. The caller is
// responsible for unmounting.
func NewFormattedVolume(t *testing.T, deviceSize int) (*volume.Volume, device.Device) {
	t.Helper()

	blocks := deviceSize / volume.BlockSize
	dev := device.NewMemory(volume.BlockSize, blocks)

	v := volume.New(dev)
	require.Equal(t, 0, v.MakeFS(deviceSize), "mkFS should succeed")
	require.Equal(t, 0, v.Mount(), "mountFS should succeed")

	return v, dev
}

// Remount unmounts and re-mounts v, failing the test on any error. It is
// used to exercise the persistence boundary: metadata only ever reaches
// disk at unmount and is only ever read back at mount.
func Remount(t *testing.T, v *volume.Volume) {
	t.Helper()

	require.Equal(t, 0, v.Unmount(), "unmountFS should succeed")
	require.Equal(t, 0, v.Mount(), "mountFS should succeed")
}
