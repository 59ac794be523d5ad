package generics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, limit, expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{7, 0, 0},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, TotalPages(tc.total, tc.limit), "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestStringConversions(t *testing.T) {
	require.Equal(t, 3, StringToInt("3"))
	require.Equal(t, 0, StringToInt("three"))
	require.Equal(t, 0, StringToInt(""))

	require.Nil(t, StringToFloat(""))
	require.Nil(t, StringToFloat("high"))
	f := StringToFloat("7.5")
	require.NotNil(t, f)
	require.Equal(t, 7.5, *f)
}
