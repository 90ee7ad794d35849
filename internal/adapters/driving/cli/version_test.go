package cli

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "curricula version "+version, lines[0])
	assert.Equal(t, runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH, lines[len(lines)-1])
}

func TestSetVersion(t *testing.T) {
	prev := version
	defer func() { version = prev }()

	SetVersion("1.2.0")
	assert.Equal(t, "1.2.0", version)

	SetVersion("")
	assert.Equal(t, "1.2.0", version, "empty version is ignored")

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "curricula version 1.2.0\n")
}
