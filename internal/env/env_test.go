package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_ReadsProcess(t *testing.T) {
	t.Setenv("LIGHTSTYLER_HOST", "http://127.0.0.1:8000")

	e := New()
	require.Equal(t, "http://127.0.0.1:8000", e.Get("LIGHTSTYLER_HOST"))
	require.Empty(t, e.Get("LIGHTSTYLER_UNSET_FOR_TEST"))
	require.Contains(t, e.Env(), "LIGHTSTYLER_HOST=http://127.0.0.1:8000")
}

func TestNewFromMap(t *testing.T) {
	e := NewFromMap(map[string]string{
		"LIGHTSTYLER_DEBUG": "1",
		"CSRF_TOKEN":        "a=b=c",
		"EMPTY":             "",
	})

	require.Equal(t, "a=b=c", e.Get("CSRF_TOKEN"))
	require.Empty(t, e.Get("EMPTY"))
	require.Equal(t, []string{"CSRF_TOKEN=a=b=c", "EMPTY=", "LIGHTSTYLER_DEBUG=1"}, e.Env())

	require.Empty(t, NewFromMap(nil).Env())
	require.Empty(t, NewFromMap(nil).Get("ANY"))
}

func TestExpand(t *testing.T) {
	e := NewFromMap(map[string]string{"CSRF": "abc123", "USER": "st"})

	cases := map[string]string{
		"$CSRF":              "abc123",
		"token=${CSRF}":      "token=abc123",
		"${USER}:${CSRF}":    "st:abc123",
		"plain":              "plain",
		"$MISSING":           "",
		"Bearer ${MISSING}x": "Bearer x",
	}
	for in, want := range cases {
		require.Equal(t, want, Expand(e, in), in)
	}
}
