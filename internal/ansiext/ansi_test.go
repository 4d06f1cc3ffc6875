package ansiext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	require.Equal(t, "smile.png", Escape("smile.png"))
	require.Equal(t, "a␛[31mb", Escape("a\x1b[31mb"))
	require.Equal(t, "tab␉nl␊", Escape("tab\tnl\n"))
	require.Equal(t, "del␡", Escape("del\x7f"))
}
