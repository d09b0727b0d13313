// Package adapi implements the keyword-competitiveness lookup against the
// Naver SearchAd keyword tool. The whole dependency is optional: when
// credentials are absent the analyzer simply runs without enrichment.
package adapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/blog"
)

const keywordToolURI = "/keywordstool"

// Config holds SearchAd API credentials and connection settings.
type Config struct {
	BaseURL       string
	AccessLicense string
	SecretKey     string
	CustomerID    string
	Timeout       time.Duration
}

// Client signs and sends keyword tool requests.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New validates credentials and builds a Client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.AccessLicense == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("searchad api credentials are not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.naver.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// AnalyzeKeywordCompetition looks up one keyword and derives its
// competitiveness score and recommendation.
func (c *Client) AnalyzeKeywordCompetition(ctx context.Context, keyword string) (*blog.KeywordCompetition, error) {
	resp, err := c.keywordIdeas(ctx, []string{keyword})
	if err != nil {
		return nil, err
	}
	if len(resp.KeywordList) == 0 {
		return nil, fmt.Errorf("no keyword data for %q", keyword)
	}

	row := resp.KeywordList[0]
	competition := row.CompIdx
	if competition == "" {
		competition = "낮음"
	}
	name := row.RelKeyword
	if name == "" {
		name = keyword
	}

	result := &blog.KeywordCompetition{
		Keyword:             name,
		MonthlySearchPC:     int(row.MonthlyPCQcCnt),
		MonthlySearchMobile: int(row.MonthlyMobileQcCnt),
		TotalMonthlySearch:  int(row.MonthlyPCQcCnt) + int(row.MonthlyMobileQcCnt),
		Competition:         competition,
		AvgAdDepth:          int(row.PlAvgDepth),
	}
	result.CompetitionScore = competitionScore(result)
	result.Recommended = isRecommended(result)
	return result, nil
}

type keywordToolResponse struct {
	KeywordList []keywordRow `json:"keywordList"`
}

type keywordRow struct {
	RelKeyword         string  `json:"relKeyword"`
	MonthlyPCQcCnt     flexInt `json:"monthlyPcQcCnt"`
	MonthlyMobileQcCnt flexInt `json:"monthlyMobileQcCnt"`
	CompIdx            string  `json:"compIdx"`
	PlAvgDepth         flexInt `json:"plAvgDepth"`
}

// keywordIdeas queries the keyword tool for up to five hint keywords.
func (c *Client) keywordIdeas(ctx context.Context, keywords []string) (*keywordToolResponse, error) {
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	query := url.Values{}
	query.Set("hintKeywords", strings.Join(keywords, ","))
	query.Set("showDetail", "1")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.cfg.BaseURL+keywordToolURI+"?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build keyword request: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("X-API-KEY", c.cfg.AccessLicense)
	req.Header.Set("X-Customer", c.cfg.CustomerID)
	req.Header.Set("X-Signature", c.sign(timestamp, http.MethodGet, keywordToolURI))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keyword request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("close keyword response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("keyword tool status %d: %s", resp.StatusCode, body)
	}

	var decoded keywordToolResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode keyword response: %w", err)
	}
	return &decoded, nil
}

// sign produces the HMAC-SHA256 request signature over
// "{timestamp}.{method}.{uri}".
func (c *Client) sign(timestamp, method, uri string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.SecretKey))
	mac.Write([]byte(timestamp + "." + method + "." + uri))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// competitionScore bands search volume (30), competition index (40), and
// average ad depth (30) into a 0-100 score; higher means harder to rank.
func competitionScore(k *blog.KeywordCompetition) int {
	score := 0

	switch {
	case k.TotalMonthlySearch >= 10000:
		score += 30
	case k.TotalMonthlySearch >= 5000:
		score += 25
	case k.TotalMonthlySearch >= 1000:
		score += 20
	case k.TotalMonthlySearch >= 100:
		score += 10
	default:
		score += 5
	}

	switch k.Competition {
	case "높음":
		score += 40
	case "중간":
		score += 25
	default:
		score += 10
	}

	switch {
	case k.AvgAdDepth >= 10:
		score += 30
	case k.AvgAdDepth >= 7:
		score += 25
	case k.AvgAdDepth >= 5:
		score += 20
	case k.AvgAdDepth >= 3:
		score += 15
	default:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// isRecommended marks keywords with enough search volume and low-to-medium
// competition.
func isRecommended(k *blog.KeywordCompetition) bool {
	if k.TotalMonthlySearch < 100 {
		return false
	}
	if k.Competition != "낮음" && k.Competition != "중간" {
		return false
	}
	return k.CompetitionScore <= 60
}

// flexInt tolerates the keyword tool's habit of returning small counts as
// strings such as "< 10".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(v)
		return nil
	}
	*f = 0
	return nil
}
