package score

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// DefaultStopwords is the Korean filler-word table used when ranking title
// keywords. It is hand-enumerated and not linguistically exhaustive; swap it
// per deployment rather than extending the algorithm.
func DefaultStopwords() []string {
	return []string{
		"이번", "오늘", "어제", "그리고", "하지만", "그래서", "그런데",
		"있는", "없는", "되는", "하는", "이렇게", "저렇게", "정말", "진짜",
		"너무", "아주", "매우", "완전", "후기", "리뷰", "추천",
	}
}

// ExtractKeywords pulls up to MaxKeywords candidate keywords from a title:
// tokens of at least MinKeywordRunes runes, stopword-filtered, ranked by
// frequency with first-seen order breaking ties.
func (r Rubric) ExtractKeywords(title string) []string {
	cleaned := nonWordPattern.ReplaceAllString(title, " ")

	stop := make(map[string]struct{}, len(r.Stopwords))
	for _, w := range r.Stopwords {
		stop[w] = struct{}{}
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) < r.MinKeywordRunes {
			continue
		}
		if _, ok := stop[w]; ok {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > r.MaxKeywords {
		order = order[:r.MaxKeywords]
	}
	return order
}
