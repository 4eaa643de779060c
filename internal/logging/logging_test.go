package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	path := filepath.Join(t.TempDir(), "idlenudge.log")
	closer, err := Setup(path, "debug")
	require.NoError(t, err)

	logrus.WithField("component", "test").Debug("hello from test")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "component=test")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetupDefaultsToStderr(t *testing.T) {
	closer, err := Setup("", "")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := Setup("", "chatty")
	assert.Error(t, err)
}

func TestSetupBadPath(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "info")
	assert.Error(t, err)
}
