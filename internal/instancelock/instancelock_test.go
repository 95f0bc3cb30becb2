package instancelock

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireCreatesLockFileWithPID(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lock.Release() })

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	pid, err := strconv.Atoi(string(data))
	require.NoError(t, err, "lock file content = %q, want this process's PID", data)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquireFailsOnContention(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Release() })

	_, err = Acquire(dir)
	assert.Error(t, err, "want a contention error for a second process")
}

func TestAcquireSucceedsAfterReleaseWithinGracePeriod(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = first.Release()
	}()

	second, err := Acquire(dir)
	require.NoError(t, err, "want Acquire to notice the release within the grace period")
	_ = second.Release()
}

func TestReleaseRemovesLockFile(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(err), "lock file still exists after Release()")
}

func TestAcquireContentionMessageNamesHolderPID(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Release() })

	_, err = Acquire(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), strconv.Itoa(os.Getpid()))
}
