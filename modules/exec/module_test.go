package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunExec(t *testing.T) {
	t.Run("captures stdout", func(t *testing.T) {
		out, err := OnRunExec(context.Background(), &Input{Command: "echo hello"})
		require.NoError(t, err)
		output := out.(*Output)
		assert.Equal(t, "hello\n", output.Stdout)
	})

	t.Run("honors working directory", func(t *testing.T) {
		dir := t.TempDir()
		out, err := OnRunExec(context.Background(), &Input{Command: "pwd", Dir: dir})
		require.NoError(t, err)
		assert.Contains(t, out.(*Output).Stdout, dir)
	})

	t.Run("extra environment", func(t *testing.T) {
		out, err := OnRunExec(context.Background(), &Input{
			Command: "echo $GREETING",
			Env:     []string{"GREETING=hi"},
		})
		require.NoError(t, err)
		assert.Equal(t, "hi\n", out.(*Output).Stdout)
	})

	t.Run("non-zero exit is an error with stderr attached", func(t *testing.T) {
		_, err := OnRunExec(context.Background(), &Input{Command: "echo oops >&2; exit 3"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "oops")
	})
}
