// Package score computes per-post discoverability and content-quality scores
// and aggregates them into an author-level grade.
package score

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blogrank/blogrank/internal/blog"
)

// Band awards Points for the first threshold a value reaches. The Issue
// format string, when set, flags the band in the deduction/addition list.
type Band struct {
	Min    int
	Points int
	Issue  string
}

func (b Band) issueFor(value int) string {
	if b.Issue == "" {
		return ""
	}
	if strings.Contains(b.Issue, "%d") {
		return fmt.Sprintf(b.Issue, value)
	}
	return b.Issue
}

// Rubric holds the scoring bands. The constants are empirically calibrated
// with no documented derivation; they are configuration, not algorithm, and
// can be recalibrated without touching the scoring code. The stopword table
// is likewise swappable per language.
type Rubric struct {
	// Discoverability (deduction-based, starts at 100).
	TitleMinRunes     int
	TitleMaxRunes     int
	TitleShortPenalty int
	TitleLongPenalty  int

	TagOptimalMin     int
	TagOptimalMax     int
	TagNonePenalty    int
	TagVeryFewPenalty int // 1-2 tags
	TagFewPenalty     int // 3-4 tags
	TagLowPenalty     int // 5-7 tags
	TagExcessLimit    int
	TagExcessPenalty  int

	KeywordMismatchPenalty   int
	KeywordIntroPenalty      int
	KeywordIntroWindowRunes  int
	KeywordMinRepeats        int
	KeywordMaxRepeats        int
	KeywordRepeatLowPenalty  int
	KeywordRepeatHighPenalty int

	LinkMissingPenalty int
	LinkExcessLimit    int
	LinkExcessPenalty  int

	// Content quality (addition-based, starts at 0).
	TextBands      []Band
	ImageBands     []Band
	ParagraphBands []Band
	VideoBonus     int

	LongParagraphRunes   int
	LongParagraphShare   float64
	LongParagraphPenalty int

	// Keyword extraction from titles.
	Stopwords        []string
	MaxKeywords      int
	MinKeywordRunes  int
	DisplayTitleMax  int
	CompositeSEOPart float64
}

// DefaultRubric returns the production calibration.
func DefaultRubric() Rubric {
	return Rubric{
		TitleMinRunes:     15,
		TitleMaxRunes:     40,
		TitleShortPenalty: 10,
		TitleLongPenalty:  5,

		TagOptimalMin:     8,
		TagOptimalMax:     10,
		TagNonePenalty:    20,
		TagVeryFewPenalty: 15,
		TagFewPenalty:     10,
		TagLowPenalty:     5,
		TagExcessLimit:    15,
		TagExcessPenalty:  8,

		KeywordMismatchPenalty:   10,
		KeywordIntroPenalty:      8,
		KeywordIntroWindowRunes:  200,
		KeywordMinRepeats:        3,
		KeywordMaxRepeats:        10,
		KeywordRepeatLowPenalty:  7,
		KeywordRepeatHighPenalty: 5,

		LinkMissingPenalty: 5,
		LinkExcessLimit:    10,
		LinkExcessPenalty:  3,

		TextBands: []Band{
			{Min: 3000, Points: 45},
			{Min: 2500, Points: 40},
			{Min: 2000, Points: 35},
			{Min: 1500, Points: 25, Issue: "글자수 부족 (%d자)"},
			{Min: 1000, Points: 15, Issue: "글자수 많이 부족 (%d자)"},
			{Min: 500, Points: 5, Issue: "글자수 매우 부족 (%d자)"},
			{Min: 0, Points: 0, Issue: "글자수 심각하게 부족 (%d자)"},
		},
		ImageBands: []Band{
			{Min: 10, Points: 35},
			{Min: 7, Points: 30},
			{Min: 5, Points: 25, Issue: "이미지 부족 (%d장)"},
			{Min: 3, Points: 15, Issue: "이미지 많이 부족 (%d장)"},
			{Min: 1, Points: 5, Issue: "이미지 매우 부족 (%d장)"},
			{Min: 0, Points: 0, Issue: "이미지 없음"},
		},
		ParagraphBands: []Band{
			{Min: 8, Points: 10},
			{Min: 5, Points: 7},
			{Min: 3, Points: 5, Issue: "문단 부족 (%d개)"},
			{Min: 1, Points: 3, Issue: "문단 매우 부족 (%d개)"},
			{Min: 0, Points: 0, Issue: "문단 구조 없음"},
		},
		VideoBonus: 10,

		LongParagraphRunes:   300,
		LongParagraphShare:   0.4,
		LongParagraphPenalty: 3,

		Stopwords:        DefaultStopwords(),
		MaxKeywords:      3,
		MinKeywordRunes:  2,
		DisplayTitleMax:  50,
		CompositeSEOPart: 0.4,
	}
}

// SEOScore computes the 0-100 discoverability score plus its issue list.
// Identical fields always yield identical results.
func (r Rubric) SEOScore(f blog.PostFields) (int, []string) {
	score := 100
	issues := []string{}

	titleLen := utf8.RuneCountInString(f.Title)
	if titleLen < r.TitleMinRunes {
		score -= r.TitleShortPenalty
		issues = append(issues, fmt.Sprintf("제목이 짧음 (%d자)", titleLen))
	} else if titleLen > r.TitleMaxRunes {
		score -= r.TitleLongPenalty
		issues = append(issues, fmt.Sprintf("제목이 김 (%d자)", titleLen))
	}

	tagCount := len(f.Hashtags)
	switch {
	case tagCount >= r.TagOptimalMin && tagCount <= r.TagOptimalMax:
	case tagCount == 0:
		score -= r.TagNonePenalty
		issues = append(issues, "해시태그 없음")
	case tagCount > r.TagExcessLimit:
		score -= r.TagExcessPenalty
		issues = append(issues, fmt.Sprintf("해시태그 과다 (%d개)", tagCount))
	case tagCount > r.TagOptimalMax:
		// Above optimal but within the excess limit: no deduction.
	case tagCount >= 5:
		score -= r.TagLowPenalty
		issues = append(issues, fmt.Sprintf("해시태그 부족 (%d개)", tagCount))
	case tagCount >= 3:
		score -= r.TagFewPenalty
		issues = append(issues, fmt.Sprintf("해시태그 많이 부족 (%d개)", tagCount))
	default:
		score -= r.TagVeryFewPenalty
		issues = append(issues, fmt.Sprintf("해시태그 매우 부족 (%d개)", tagCount))
	}

	if keywords := r.ExtractKeywords(f.Title); len(keywords) > 0 {
		inHashtags := 0
		for _, kw := range keywords {
			for _, tag := range f.Hashtags {
				if kw == tag {
					inHashtags++
					break
				}
			}
		}
		if inHashtags == 0 {
			score -= r.KeywordMismatchPenalty
			issues = append(issues, "키워드와 해시태그 불일치")
		}

		first := f.FirstParagraph()
		if first != "" {
			intro := truncateRunes(first, r.KeywordIntroWindowRunes)
			inIntro := 0
			for _, kw := range keywords {
				if strings.Contains(intro, kw) {
					inIntro++
				}
			}
			if inIntro == 0 {
				score -= r.KeywordIntroPenalty
				issues = append(issues, "도입부에 키워드 없음")
			}
		}

		if len(f.Text) > 0 {
			repeats := 0
			for _, kw := range keywords {
				repeats += strings.Count(f.Text, kw)
			}
			if repeats < r.KeywordMinRepeats {
				score -= r.KeywordRepeatLowPenalty
				issues = append(issues, fmt.Sprintf("키워드 반복 부족 (%d회)", repeats))
			} else if repeats > r.KeywordMaxRepeats {
				score -= r.KeywordRepeatHighPenalty
				issues = append(issues, fmt.Sprintf("키워드 과다 (%d회)", repeats))
			}
		}
	}

	if f.LinkCount == 0 {
		score -= r.LinkMissingPenalty
		issues = append(issues, "링크 없음")
	} else if f.LinkCount > r.LinkExcessLimit {
		score -= r.LinkExcessPenalty
		issues = append(issues, fmt.Sprintf("링크 과다 (%d개)", f.LinkCount))
	}

	return clamp(score), issues
}

// ContentScore computes the 0-100 content-quality score plus its issue list.
func (r Rubric) ContentScore(f blog.PostFields) (int, []string) {
	score := 0
	issues := []string{}

	textLen := utf8.RuneCountInString(f.Text)
	points, issue := applyBands(textLen, r.TextBands)
	score += points
	if issue != "" {
		issues = append(issues, issue)
	}

	points, issue = applyBands(f.ImageCount, r.ImageBands)
	score += points
	if issue != "" {
		issues = append(issues, issue)
	}

	if f.VideoCount >= 1 {
		score += r.VideoBonus
	}

	paragraphCount := len(f.Paragraphs)
	points, issue = applyBands(paragraphCount, r.ParagraphBands)
	score += points
	if issue != "" {
		issues = append(issues, issue)
	}

	if paragraphCount > 0 {
		long := 0
		for _, p := range f.Paragraphs {
			if utf8.RuneCountInString(p) > r.LongParagraphRunes {
				long++
			}
		}
		if float64(long) > float64(paragraphCount)*r.LongParagraphShare {
			score -= r.LongParagraphPenalty
			issues = append(issues, "일부 문단이 너무 김")
		}
	}

	return clamp(score), issues
}

// Composite blends the two rubrics, weighted toward content quality.
func (r Rubric) Composite(seo, content int) int {
	return int(float64(seo)*r.CompositeSEOPart + float64(content)*(1-r.CompositeSEOPart))
}

// Post scores one extracted post and assembles the immutable result.
func (r Rubric) Post(f blog.PostFields) blog.PostScore {
	seo, seoIssues := r.SEOScore(f)
	content, contentIssues := r.ContentScore(f)

	result := blog.PostScore{
		Title:         displayTitle(f.Title, r.DisplayTitleMax),
		URL:           f.URL,
		TotalScore:    r.Composite(seo, content),
		SEOScore:      seo,
		ContentScore:  content,
		TextLength:    utf8.RuneCountInString(f.Text),
		ImageCount:    f.ImageCount,
		VideoCount:    f.VideoCount,
		HashtagCount:  len(f.Hashtags),
		LinkCount:     f.LinkCount,
		ViewCount:     f.ViewCount,
		CommentCount:  f.CommentCount,
		SympathyCount: f.SympathyCount,
		Issues:        append(seoIssues, contentIssues...),
	}
	if f.PostDate != nil {
		result.PostDate = *f.PostDate
	}
	return result
}

func applyBands(value int, bands []Band) (int, string) {
	for _, b := range bands {
		if value >= b.Min {
			return b.Points, b.issueFor(value)
		}
	}
	return 0, ""
}

func displayTitle(title string, max int) string {
	if utf8.RuneCountInString(title) > max {
		return truncateRunes(title, max) + "..."
	}
	return title
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
