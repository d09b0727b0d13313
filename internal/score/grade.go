package score

import "github.com/blogrank/blogrank/internal/blog"

type gradeBand struct {
	min     float64
	rank    string
	traffic string
}

// Fixed descending-threshold table mapping mean composite score to a letter
// grade and a traffic-potential label.
var gradeBands = []gradeBand{
	{min: 90, rank: "S", traffic: "S등급 (매우 높음)"},
	{min: 80, rank: "A", traffic: "A등급 (높음)"},
	{min: 70, rank: "B", traffic: "B등급 (보통)"},
	{min: 60, rank: "C", traffic: "C등급 (낮음)"},
	{min: 50, rank: "D", traffic: "D등급 (매우 낮음)"},
}

// Grade maps the arithmetic mean of the composite scores to an author-level
// grade and traffic label. Zero scored posts is grade F with the explicit
// not-analyzable label, never a division error.
func Grade(posts []blog.PostScore) (string, string) {
	if len(posts) == 0 {
		return "F", "F등급 (분석 불가)"
	}

	total := 0
	for _, p := range posts {
		total += p.TotalScore
	}
	mean := float64(total) / float64(len(posts))

	for _, band := range gradeBands {
		if mean >= band.min {
			return band.rank, band.traffic
		}
	}
	return "F", "F등급 (기대 어려움)"
}
