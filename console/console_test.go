package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}

	c.Success("Exports:\n/srv *(rw)")
	c.Failed("Failed to remove /mnt/share")

	assert.Contains(t, buf.String(), "/srv *(rw)")
	assert.Contains(t, buf.String(), "Failed to remove /mnt/share")
}

func TestPromptNonInteractive(t *testing.T) {
	c := Discard()
	assert.False(t, c.Interactive())

	v, err := c.Prompt("Subnet", "192.168.120.0/24")
	require.NoError(t, err)
	assert.Equal(t, "192.168.120.0/24", v)
}
