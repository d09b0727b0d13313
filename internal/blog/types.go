// Package blog defines core types shared across the analysis pipeline.
package blog

import (
	"errors"
	"time"
)

// ErrNotFound reports that a blog has no discoverable or analyzable posts.
// It is the one non-error outcome the orchestrator distinguishes: the blog
// either does not exist or exposes nothing we can score.
var ErrNotFound = errors.New("blog not found or has no analyzable posts")

// ErrUnparsable reports that a fetched document could not be parsed as markup.
var ErrUnparsable = errors.New("document is not parsable markup")

// PostFields holds the structured data extracted from one rendered post.
// Optional fields are pointers so "not found" stays distinct from zero.
type PostFields struct {
	Title         string
	URL           string
	Text          string
	Paragraphs    []string
	Hashtags      []string
	ImageCount    int
	VideoCount    int
	LinkCount     int
	PostDate      *string // calendar date, YYYY-MM-DD
	ViewCount     *int
	CommentCount  *int
	SympathyCount *int
}

// FirstParagraph returns the first paragraph candidate, or "".
func (f PostFields) FirstParagraph() string {
	if len(f.Paragraphs) == 0 {
		return ""
	}
	return f.Paragraphs[0]
}

// PostScore is the immutable per-post result.
type PostScore struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	TotalScore    int      `json:"total_score"`
	SEOScore      int      `json:"seo_score"`
	ContentScore  int      `json:"content_score"`
	TextLength    int      `json:"text_length"`
	ImageCount    int      `json:"image_count"`
	VideoCount    int      `json:"video_count"`
	HashtagCount  int      `json:"hashtag_count"`
	LinkCount     int      `json:"link_count"`
	PostDate      string   `json:"post_date,omitempty"`
	ViewCount     *int     `json:"view_count,omitempty"`
	CommentCount  *int     `json:"comment_count,omitempty"`
	SympathyCount *int     `json:"sympathy_count,omitempty"`
	Issues        []string `json:"issues"`
}

// KeywordCompetition is the result of one keyword-competitiveness lookup.
type KeywordCompetition struct {
	Keyword             string `json:"keyword"`
	MonthlySearchPC     int    `json:"monthly_search_pc"`
	MonthlySearchMobile int    `json:"monthly_search_mobile"`
	TotalMonthlySearch  int    `json:"total_monthly_search"`
	Competition         string `json:"competition"`
	AvgAdDepth          int    `json:"pl_avg_depth"`
	CompetitionScore    int    `json:"competition_score"`
	Recommended         bool   `json:"recommended"`
}

// KeywordAnalysis summarizes keyword competitiveness across a blog's posts.
type KeywordAnalysis struct {
	TotalKeywordsAnalyzed   int                  `json:"total_keywords_analyzed"`
	TotalMonthlySearch      int                  `json:"total_monthly_search"`
	AvgCompetitionScore     float64              `json:"avg_competition_score"`
	Keywords                []KeywordCompetition `json:"keywords"`
	RecommendedKeywords     []KeywordCompetition `json:"recommended_keywords"`
	HighCompetitionKeywords []KeywordCompetition `json:"high_competition_keywords"`
	Summary                 string               `json:"analysis_summary"`
}

// Report is the author-level result produced by one analysis run.
type Report struct {
	ID              string           `json:"id"`
	BlogID          string           `json:"blog_id"`
	TotalPosts      int              `json:"total_posts"`
	Posts           []PostScore      `json:"posts"`
	BlogRank        string           `json:"blog_rank"`
	TrafficRank     string           `json:"traffic_rank"`
	AnalyzedAt      time.Time        `json:"analyzed_at"`
	KeywordAnalysis *KeywordAnalysis `json:"keyword_analysis,omitempty"`
}
