package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/erikmagkekse/dshare/utils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// stateRunner answers is-active with the given state and succeeds otherwise.
func stateRunner(state string) *utils.MockRunner {
	return &utils.MockRunner{
		RunFn: func(cmd []string) (string, error) {
			if cmd[1] == "is-active" {
				if state == "active" {
					return "active\n", nil
				}
				return state + "\n", fmt.Errorf("exit status 3")
			}
			return "", nil
		},
	}
}

func TestState(t *testing.T) {
	s := NewSystemd("systemctl", stateRunner("inactive"), 0)
	ctx := context.Background()

	assert.Equal(t, "inactive", s.State(ctx, "nfs-server"))
	assert.False(t, s.IsActive(ctx, "nfs-server"))
	assert.True(t, s.IsInactive(ctx, "nfs-server"))
}

func TestStart(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := stateRunner("active")
		s := NewSystemd("systemctl", m, 0)

		require.NoError(t, s.Start(context.Background(), "nfs-server"))
		assert.Equal(t, []string{
			"systemctl start nfs-server",
			"systemctl is-active nfs-server",
		}, m.Commands())
	})

	t.Run("not active after start", func(t *testing.T) {
		s := NewSystemd("systemctl", stateRunner("failed"), 0)

		err := s.Start(context.Background(), "nfs-server")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unit is failed")
	})

	t.Run("start command fails", func(t *testing.T) {
		m := &utils.MockRunner{Err: fmt.Errorf("unit not found")}
		s := NewSystemd("systemctl", m, 0)

		require.Error(t, s.Start(context.Background(), "nfs-server"))
		assert.Len(t, m.Calls, 1)
	})

	t.Run("settle honours context", func(t *testing.T) {
		s := NewSystemd("systemctl", stateRunner("active"), time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, s.Start(ctx, "nfs-server"), context.Canceled)
	})
}

func TestStop(t *testing.T) {
	s := NewSystemd("systemctl", stateRunner("inactive"), 0)
	require.NoError(t, s.Stop(context.Background(), "nfs-server"))

	s = NewSystemd("systemctl", stateRunner("active"), 0)
	require.Error(t, s.Stop(context.Background(), "nfs-server"))
}

func TestStartAndEnable(t *testing.T) {
	m := stateRunner("active")
	s := NewSystemd("systemctl", m, 0)

	require.NoError(t, s.StartAndEnable(context.Background(), "nfs-client.target"))
	assert.Equal(t, "systemctl enable --now nfs-client.target", m.Commands()[0])
}

func TestEnsureRunning(t *testing.T) {
	t.Run("already active", func(t *testing.T) {
		m := stateRunner("active")
		s := NewSystemd("systemctl", m, 0)

		require.NoError(t, s.EnsureRunning(context.Background(), "nfs-server"))
		assert.Len(t, m.Calls, 1)
	})

	t.Run("starts inactive unit", func(t *testing.T) {
		started := false
		m := &utils.MockRunner{
			RunFn: func(cmd []string) (string, error) {
				switch cmd[1] {
				case "start":
					started = true
					return "", nil
				case "is-active":
					if started {
						return "active\n", nil
					}
					return "inactive\n", fmt.Errorf("exit status 3")
				}
				return "", nil
			},
		}
		s := NewSystemd("systemctl", m, 0)

		require.NoError(t, s.EnsureRunning(context.Background(), "nfs-server"))
		assert.True(t, started)
		assert.Len(t, m.Calls, 3)
	})
}
