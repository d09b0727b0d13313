package adapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/blog"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		AccessLicense: "license-123",
		SecretKey:     "secret-456",
		CustomerID:    "789",
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{}, zap.NewNop())
	require.Error(t, err)

	_, err = New(Config{AccessLicense: "only-license"}, zap.NewNop())
	require.Error(t, err)

	c, err := New(testConfig(""), zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "https://api.naver.com", c.cfg.BaseURL)
}

func TestAnalyzeKeywordCompetition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, keywordToolURI, r.URL.Path)
		require.Equal(t, "맛집", r.URL.Query().Get("hintKeywords"))
		require.Equal(t, "1", r.URL.Query().Get("showDetail"))
		require.Equal(t, "license-123", r.Header.Get("X-API-KEY"))
		require.Equal(t, "789", r.Header.Get("X-Customer"))

		// The signature covers "{timestamp}.{method}.{uri}".
		timestamp := r.Header.Get("X-Timestamp")
		require.NotEmpty(t, timestamp)
		mac := hmac.New(sha256.New, []byte("secret-456"))
		mac.Write([]byte(timestamp + "." + http.MethodGet + "." + keywordToolURI))
		want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
		require.Equal(t, want, r.Header.Get("X-Signature"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"keywordList": []map[string]any{{
				"relKeyword":         "맛집",
				"monthlyPcQcCnt":    4000,
				"monthlyMobileQcCnt": 8000,
				"compIdx":            "높음",
				"plAvgDepth":         12,
			}},
		})
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	got, err := c.AnalyzeKeywordCompetition(context.Background(), "맛집")
	require.NoError(t, err)
	require.Equal(t, "맛집", got.Keyword)
	require.Equal(t, 4000, got.MonthlySearchPC)
	require.Equal(t, 8000, got.MonthlySearchMobile)
	require.Equal(t, 12000, got.TotalMonthlySearch)
	require.Equal(t, "높음", got.Competition)
	require.Equal(t, 12, got.AvgAdDepth)
	// 30 for volume, 40 for high competition, 30 for deep ad placement.
	require.Equal(t, 100, got.CompetitionScore)
	require.False(t, got.Recommended)
}

func TestAnalyzeKeywordCompetitionLowVolumeStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keywordList": []map[string]any{{
				"relKeyword":         "틈새키워드",
				"monthlyPcQcCnt":    "< 10",
				"monthlyMobileQcCnt": "150",
				"compIdx":            "",
				"plAvgDepth":         "< 10",
			}},
		})
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	got, err := c.AnalyzeKeywordCompetition(context.Background(), "틈새키워드")
	require.NoError(t, err)
	require.Equal(t, 0, got.MonthlySearchPC)
	require.Equal(t, 150, got.MonthlySearchMobile)
	require.Equal(t, 150, got.TotalMonthlySearch)
	// Missing competition index defaults to low.
	require.Equal(t, "낮음", got.Competition)
	// 10 for volume, 10 for low competition, 5 for shallow ad placement.
	require.Equal(t, 25, got.CompetitionScore)
	require.True(t, got.Recommended)
}

func TestAnalyzeKeywordCompetitionErrors(t *testing.T) {
	t.Run("empty keyword list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"keywordList": []any{}})
		}))
		defer srv.Close()

		c, err := New(testConfig(srv.URL), zap.NewNop())
		require.NoError(t, err)

		_, err = c.AnalyzeKeywordCompetition(context.Background(), "없는키워드")
		require.Error(t, err)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c, err := New(testConfig(srv.URL), zap.NewNop())
		require.NoError(t, err)

		_, err = c.AnalyzeKeywordCompetition(context.Background(), "맛집")
		require.ErrorContains(t, err, "status 429")
	})
}

func TestFlexInt(t *testing.T) {
	var row keywordRow
	payload := `{"monthlyPcQcCnt": 1200, "monthlyMobileQcCnt": "3400", "plAvgDepth": "< 10"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &row))
	require.Equal(t, flexInt(1200), row.MonthlyPCQcCnt)
	require.Equal(t, flexInt(3400), row.MonthlyMobileQcCnt)
	require.Equal(t, flexInt(0), row.PlAvgDepth)
}

func TestCompetitionScoreBands(t *testing.T) {
	tests := []struct {
		name string
		k    blog.KeywordCompetition
		want int
	}{
		{
			name: "mid volume mid competition",
			k:    blog.KeywordCompetition{TotalMonthlySearch: 6000, Competition: "중간", AvgAdDepth: 6},
			want: 25 + 25 + 20,
		},
		{
			name: "tiny volume unknown competition",
			k:    blog.KeywordCompetition{TotalMonthlySearch: 50, Competition: "낮음", AvgAdDepth: 0},
			want: 5 + 10 + 5,
		},
		{
			name: "volume band boundary",
			k:    blog.KeywordCompetition{TotalMonthlySearch: 1000, Competition: "낮음", AvgAdDepth: 3},
			want: 20 + 10 + 15,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, competitionScore(&tc.k))
		})
	}
}

func TestIsRecommended(t *testing.T) {
	require.True(t, isRecommended(&blog.KeywordCompetition{
		TotalMonthlySearch: 500, Competition: "중간", CompetitionScore: 55,
	}))
	require.False(t, isRecommended(&blog.KeywordCompetition{
		TotalMonthlySearch: 50, Competition: "낮음", CompetitionScore: 20,
	}))
	require.False(t, isRecommended(&blog.KeywordCompetition{
		TotalMonthlySearch: 5000, Competition: "높음", CompetitionScore: 55,
	}))
	require.False(t, isRecommended(&blog.KeywordCompetition{
		TotalMonthlySearch: 5000, Competition: "낮음", CompetitionScore: 61,
	}))
}
