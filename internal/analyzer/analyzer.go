// Package analyzer drives the full analysis pipeline: discover post
// addresses, fetch+extract+score each post with bounded parallelism, then
// aggregate into an author-level report.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/blog"
	"github.com/blogrank/blogrank/internal/discover"
	"github.com/blogrank/blogrank/internal/extract"
	"github.com/blogrank/blogrank/internal/fetch"
	"github.com/blogrank/blogrank/internal/metrics"
	"github.com/blogrank/blogrank/internal/score"
)

var hangulWordPattern = regexp.MustCompile(`\p{Hangul}{2,}`)

// KeywordAnalyzer is the optional keyword-competitiveness enrichment
// dependency. The analyzer works correctly with it entirely absent.
type KeywordAnalyzer interface {
	AnalyzeKeywordCompetition(ctx context.Context, keyword string) (*blog.KeywordCompetition, error)
}

// Config controls pipeline fan-out and enrichment throttling.
type Config struct {
	MaxPosts          int
	Concurrency       int
	EnrichDelay       time.Duration
	MaxEnrichKeywords int
}

func (c Config) withDefaults() Config {
	if c.MaxPosts <= 0 {
		c.MaxPosts = 30
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 8
	}
	if c.EnrichDelay <= 0 {
		c.EnrichDelay = 300 * time.Millisecond
	}
	if c.MaxEnrichKeywords <= 0 {
		c.MaxEnrichKeywords = 10
	}
	return c
}

// Analyzer orchestrates one blog analysis per call. It holds no mutable
// state, so concurrent analyses for different blogs are independent.
type Analyzer struct {
	fetcher    fetch.Fetcher
	discoverer *discover.Discoverer
	rubric     score.Rubric
	keywordAPI KeywordAnalyzer
	eps        blog.Endpoints
	cfg        Config
	logger     *zap.Logger
}

// New constructs an Analyzer. keywordAPI may be nil; its presence is decided
// here once, never re-checked per call.
func New(
	fetcher fetch.Fetcher,
	discoverer *discover.Discoverer,
	rubric score.Rubric,
	keywordAPI KeywordAnalyzer,
	eps blog.Endpoints,
	cfg Config,
	logger *zap.Logger,
) *Analyzer {
	return &Analyzer{
		fetcher:    fetcher,
		discoverer: discoverer,
		rubric:     rubric,
		keywordAPI: keywordAPI,
		eps:        eps,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// Analyze runs the full pipeline for one blog id. It returns
// blog.ErrNotFound when nothing is discoverable or scoreable; every other
// per-post failure is absorbed.
func (a *Analyzer) Analyze(ctx context.Context, blogID string) (*blog.Report, error) {
	start := time.Now()

	urls := a.discoverer.Discover(ctx, blogID)
	if len(urls) == 0 {
		metrics.RecordAnalysis("not_found")
		return nil, fmt.Errorf("discover %s: %w", blogID, blog.ErrNotFound)
	}
	if len(urls) > a.cfg.MaxPosts {
		urls = urls[:a.cfg.MaxPosts]
	}

	posts := a.scorePosts(ctx, blogID, urls)
	if len(posts) == 0 {
		metrics.RecordAnalysis("not_found")
		return nil, fmt.Errorf("score %s: %w", blogID, blog.ErrNotFound)
	}
	metrics.RecordPostsScored(len(posts))

	rank, traffic := score.Grade(posts)
	report := &blog.Report{
		ID:          uuid.NewString(),
		BlogID:      blogID,
		TotalPosts:  len(posts),
		Posts:       posts,
		BlogRank:    rank,
		TrafficRank: traffic,
		AnalyzedAt:  time.Now().UTC(),
	}

	if a.keywordAPI != nil {
		report.KeywordAnalysis = a.enrichKeywords(ctx, posts)
	}

	metrics.RecordAnalysis("ok")
	metrics.ObserveAnalysisDuration(time.Since(start))
	a.logger.Info("analysis complete",
		zap.String("blog_id", blogID),
		zap.Int("posts", len(posts)),
		zap.String("rank", rank),
	)
	return report, nil
}

// scorePosts fans out one task per address over a bounded pool. Tasks are
// fully isolated: a failed post is dropped and never aborts its siblings.
// Results arrive in completion order.
func (a *Analyzer) scorePosts(ctx context.Context, blogID string, urls []string) []blog.PostScore {
	sem := make(chan struct{}, a.cfg.Concurrency)
	results := make(chan blog.PostScore, len(urls))
	var wg sync.WaitGroup

	for _, u := range urls {
		wg.Add(1)
		go func(postURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			post, err := a.scoreOne(ctx, blogID, postURL)
			if err != nil {
				a.logger.Debug("post skipped",
					zap.String("blog_id", blogID),
					zap.String("url", postURL),
					zap.Error(err),
				)
				return
			}
			results <- post
		}(u)
	}

	wg.Wait()
	close(results)

	posts := make([]blog.PostScore, 0, len(urls))
	for post := range results {
		posts = append(posts, post)
	}
	return posts
}

func (a *Analyzer) scoreOne(ctx context.Context, blogID, postURL string) (blog.PostScore, error) {
	logNo, ok := blog.ParseLogNo(postURL, blogID)
	if !ok {
		return blog.PostScore{}, fmt.Errorf("no post id in %s", postURL)
	}

	html, err := a.fetcher.Fetch(ctx, a.eps.MobilePostView(blogID, logNo))
	if err != nil {
		return blog.PostScore{}, err
	}

	fields, err := extract.Post(html, postURL)
	if err != nil {
		return blog.PostScore{}, err
	}
	return a.rubric.Post(fields), nil
}

// enrichKeywords samples title keywords and runs them through the external
// competitiveness API. Best effort: any failure yields a nil section, never
// an error.
func (a *Analyzer) enrichKeywords(ctx context.Context, posts []blog.PostScore) *blog.KeywordAnalysis {
	keywords := sampleKeywords(posts, a.cfg.MaxEnrichKeywords)
	if len(keywords) == 0 {
		return nil
	}

	var analyzed []blog.KeywordCompetition
	for _, kw := range keywords {
		result, err := a.keywordAPI.AnalyzeKeywordCompetition(ctx, kw)
		if err != nil {
			a.logger.Debug("keyword lookup failed", zap.String("keyword", kw), zap.Error(err))
		} else if result != nil {
			analyzed = append(analyzed, *result)
		}

		// External rate limit: fixed inter-call delay.
		select {
		case <-ctx.Done():
			return summarizeKeywords(analyzed)
		case <-time.After(a.cfg.EnrichDelay):
		}
	}
	return summarizeKeywords(analyzed)
}

// sampleKeywords takes up to three Hangul words per title, deduplicated in
// first-seen order, capped at max.
func sampleKeywords(posts []blog.PostScore, max int) []string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, p := range posts {
		words := hangulWordPattern.FindAllString(p.Title, -1)
		if len(words) > 3 {
			words = words[:3]
		}
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			keywords = append(keywords, w)
			if len(keywords) >= max {
				return keywords
			}
		}
	}
	return keywords
}

func summarizeKeywords(analyzed []blog.KeywordCompetition) *blog.KeywordAnalysis {
	if len(analyzed) == 0 {
		return nil
	}

	totalSearch := 0
	scoreSum := 0
	var recommended, high []blog.KeywordCompetition
	for _, k := range analyzed {
		totalSearch += k.TotalMonthlySearch
		scoreSum += k.CompetitionScore
		if k.Recommended {
			recommended = append(recommended, k)
		}
		if k.Competition == "높음" {
			high = append(high, k)
		}
	}
	avg := math.Round(float64(scoreSum)/float64(len(analyzed))*10) / 10

	return &blog.KeywordAnalysis{
		TotalKeywordsAnalyzed:   len(analyzed),
		TotalMonthlySearch:      totalSearch,
		AvgCompetitionScore:     avg,
		Keywords:                analyzed,
		RecommendedKeywords:     capList(recommended, 5),
		HighCompetitionKeywords: capList(high, 5),
		Summary:                 keywordSummary(avg, len(recommended)),
	}
}

func keywordSummary(avg float64, recommendedCount int) string {
	var summary string
	switch {
	case avg >= 70:
		summary = fmt.Sprintf("높은 경쟁: 사용 중인 키워드들의 경쟁이 치열합니다. (평균 %.1f점)", avg)
	case avg >= 50:
		summary = fmt.Sprintf("중간 경쟁: 적절한 수준의 경쟁 키워드입니다. (평균 %.1f점)", avg)
	default:
		summary = fmt.Sprintf("낮은 경쟁: 경쟁이 낮은 블루오션 키워드입니다. (평균 %.1f점)", avg)
	}
	if recommendedCount > 0 {
		summary += fmt.Sprintf(" | 추천 키워드 %d개 발견", recommendedCount)
	}
	return summary
}

func capList(list []blog.KeywordCompetition, max int) []blog.KeywordCompetition {
	if len(list) > max {
		return list[:max]
	}
	return list
}
