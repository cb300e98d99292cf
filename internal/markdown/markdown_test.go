package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("empty body renders nothing", func(t *testing.T) {
		out, err := Render([]byte("  \n\n"), Options{})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("paragraph and emphasis", func(t *testing.T) {
		out, err := Render([]byte("Climbed *before* sunrise.\n"), Options{})
		require.NoError(t, err)
		assert.Equal(t, "<p>Climbed <em>before</em> sunrise.</p>\n", out)
	})

	t.Run("raw html is omitted", func(t *testing.T) {
		out, err := Render([]byte("<script>alert(1)</script>\n"), Options{})
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
	})

	t.Run("hard wraps", func(t *testing.T) {
		out, err := Render([]byte("line one\nline two\n"), Options{HardWraps: true})
		require.NoError(t, err)
		assert.Contains(t, out, "<br>")
	})
}
