package engine

import "strings"

// Similarity scores how close two normalized symptom phrases are, in
// [0, 1]. The checks run cheapest-first:
//
//	1.0  exact equality (two empty strings included)
//	0.9  one phrase contains the other
//	n/m  shared words over the longer phrase's word count, if any overlap
//	else normalized Levenshtein similarity
//
// The function is symmetric in its arguments.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	common := 0
	for _, w := range wordsA {
		for _, v := range wordsB {
			if w == v {
				common++
				break
			}
		}
	}
	if common > 0 {
		longer := len(wordsA)
		if len(wordsB) > longer {
			longer = len(wordsB)
		}
		return float64(common) / float64(longer)
	}

	return levenshteinSimilarity(a, b)
}

// levenshteinSimilarity is 1 - distance/maxLen, or 1.0 when both strings
// are empty.
func levenshteinSimilarity(a, b string) float64 {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-levenshtein(a, b)) / float64(longer)
}

// levenshtein computes the edit distance between two strings using a
// two-row dynamic programming table.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j-1]+cost, curr[j-1]+1, prev[j]+1)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
