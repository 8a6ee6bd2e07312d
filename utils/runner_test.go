package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSudoRunner(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		m := &MockRunner{}
		r := &SudoRunner{Inner: m, Enabled: true}

		_, err := r.Run(context.Background(), "systemctl", "start", "nfs-server")
		require.NoError(t, err)
		assert.Equal(t, []string{"sudo systemctl start nfs-server"}, m.Commands())
	})

	t.Run("disabled", func(t *testing.T) {
		m := &MockRunner{}
		r := &SudoRunner{Inner: m}

		_, err := r.Run(context.Background(), "exportfs", "-rav")
		require.NoError(t, err)
		assert.Equal(t, []string{"exportfs -rav"}, m.Commands())
	})

	t.Run("error passthrough", func(t *testing.T) {
		m := &MockRunner{Out: "denied", Err: errors.New("exit status 1")}
		r := &SudoRunner{Inner: m, Enabled: true}

		out, err := r.Run(context.Background(), "ufw", "reload")
		require.Error(t, err)
		assert.Equal(t, "denied", out)
	})
}

func TestShellRunner(t *testing.T) {
	r := &ShellRunner{}

	out, err := r.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, out, "boom")
	assert.Contains(t, err.Error(), "exit status 3")
}
