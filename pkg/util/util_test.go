package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnippet(t *testing.T) {
	require.Equal(t, "ZZ", Snippet([]byte("ZZ"), 10))
	require.Equal(t, "ZZZ…", Snippet([]byte("ZZZZZ"), 3))
	require.Equal(t, "A�", Snippet([]byte{'A', 0xff}, 10))
}

func TestIsBlank(t *testing.T) {
	require.True(t, IsBlank([]byte("    ")))
	require.True(t, IsBlank(nil))
	require.False(t, IsBlank([]byte("  H ")))
}

func TestAddSecondsToDate(t *testing.T) {
	date := time.Date(2019, 10, 15, 17, 45, 0, 0, time.UTC)

	require.Equal(t, time.Date(2019, 10, 15, 23, 27, 30, 0, time.UTC), AddSecondsToDate(date, 23*3600+27*60+30))
}

func TestGetEnvironmentVariable(t *testing.T) {
	t.Setenv("TRAVIGO_TEST_VALUE", "a=b")

	require.Equal(t, "a=b", GetEnvironmentVariables()["TRAVIGO_TEST_VALUE"])
	require.Equal(t, "a=b", GetEnvironmentVariable("TRAVIGO_TEST_VALUE", "fallback"))
	require.Equal(t, "fallback", GetEnvironmentVariable("TRAVIGO_TEST_UNSET", "fallback"))
	require.True(t, ContainsString([]string{"mongo", "queue"}, "queue"))
}
