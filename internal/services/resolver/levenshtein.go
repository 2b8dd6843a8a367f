package resolver

// levenshtein returns the edit distance between two strings, compared
// byte-wise (callers pass sanitized ASCII)
func levenshtein(s1, s2 string) int {
	costs := make([]int, len(s2)+1)
	for j := range costs {
		costs[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		prev := costs[0]
		costs[0] = i
		for j := 1; j <= len(s2); j++ {
			cur := costs[j]
			if s1[i-1] == s2[j-1] {
				costs[j] = prev
			} else {
				costs[j] = min(prev, costs[j-1], costs[j]) + 1
			}
			prev = cur
		}
	}
	return costs[len(s2)]
}
