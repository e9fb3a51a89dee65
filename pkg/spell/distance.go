package spell

// EditDistance is the cost-1 insert/delete/substitute distance between a and
// b with an adjacent-transposition relaxation: at every cell (i, j) with
// i, j >= 2 where a[i-1] == b[j-2] and a[i-2] == b[j-1], dp[i-2][j-2]+1 is
// also a candidate. The relaxation is applied at every qualifying cell, not
// only where the characters differ. Strings are compared byte-wise.
func EditDistance(a, b string) int {
	n, m := len(a), len(b)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	// three rolling rows: i-2, i-1, i
	prev2 := make([]int, m+1)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		cur[0] = i
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1]
			} else {
				cur[j] = 1 + min(prev[j], cur[j-1], prev[j-1])
			}
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[m]
}
