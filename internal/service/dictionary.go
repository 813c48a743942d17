package service

import (
	"sort"
	"strings"
)

// CloseMatches возвращает до n кандидатов, похожих на word не меньше
// чем на cutoff (0..1). Сходство считается по расстоянию Левенштейна,
// результат отсортирован по убыванию сходства.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || n <= 0 {
		return nil
	}

	type scored struct {
		value string
		score float64
	}
	var matches []scored
	for _, candidate := range candidates {
		score := similarity(word, strings.ToLower(candidate))
		if score >= cutoff && score < 1.0 {
			matches = append(matches, scored{value: candidate, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) == 0 {
		return nil
	}
	if len(matches) > n {
		matches = matches[:n]
	}
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.value
	}
	return result
}

// similarity возвращает сходство строк от 0 до 1
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein считает расстояние редактирования между строками
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = min(prev[j]+1, min(current[j-1]+1, prev[j-1]+cost))
		}
		prev, current = current, prev
	}
	return prev[len(b)]
}
