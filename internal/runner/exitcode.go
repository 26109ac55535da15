package runner

import "sort"

// ReduceList returns the code with the greatest magnitude, the earliest one
// on ties. An empty list reduces to 0.
func ReduceList(codes []int) int {
	best := 0
	for i, code := range codes {
		if i == 0 || abs(code) > abs(best) {
			best = code
		}
	}
	return best
}

// ReduceSet collapses duplicate codes before reducing. Ties between a code and
// its negation go to the negative one, which is a signal death.
func ReduceSet(codes []int) int {
	seen := make(map[int]bool, len(codes))
	distinct := make([]int, 0, len(codes))
	for _, code := range codes {
		if !seen[code] {
			seen[code] = true
			distinct = append(distinct, code)
		}
	}
	sort.Ints(distinct)
	return ReduceList(distinct)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
