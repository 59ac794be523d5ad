package reviews

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeRanking(t *testing.T) {
	cases := []struct {
		name     string
		ratings  []int
		expected float64
	}{
		{name: "No reviews", ratings: nil, expected: 0},
		{name: "Empty reviews", ratings: []int{}, expected: 0},
		{name: "Single review", ratings: []int{10}, expected: 10},
		{name: "Exact half", ratings: []int{7, 8}, expected: 7.5},
		{name: "Rounds up", ratings: []int{7, 8, 8}, expected: 7.7},
		{name: "Rounds down", ratings: []int{7, 7, 8}, expected: 7.3},
		{name: "Mean of 6 and 9", ratings: []int{6, 9}, expected: 7.5},
		{name: "Half at second decimal rounds up", ratings: []int{7, 7, 7, 8}, expected: 7.3},
		{name: "Lowest possible", ratings: []int{1, 1, 1}, expected: 1},
		{name: "Repeating decimal", ratings: []int{1, 2, 2}, expected: 1.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ComputeRanking(tc.ratings))
		})
	}
}

func TestComputeRankingStaysInRange(t *testing.T) {
	for a := 1; a <= 10; a++ {
		for b := 1; b <= 10; b++ {
			ranking := ComputeRanking([]int{a, b})
			require.GreaterOrEqual(t, ranking, 1.0)
			require.LessOrEqual(t, ranking, 10.0)
		}
	}
}
