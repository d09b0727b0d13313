package blog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogNo(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		blogID string
		want   string
		ok     bool
	}{
		{
			name:   "path form",
			rawURL: "https://blog.naver.com/myblog/223344556677",
			blogID: "myblog",
			want:   "223344556677",
			ok:     true,
		},
		{
			name:   "query form",
			rawURL: "https://blog.naver.com/PostView.naver?blogId=myblog&logNo=998877",
			blogID: "myblog",
			want:   "998877",
			ok:     true,
		},
		{
			name:   "path form wins over query form",
			rawURL: "https://blog.naver.com/myblog/111?logNo=222",
			blogID: "myblog",
			want:   "111",
			ok:     true,
		},
		{
			name:   "other blog id does not match path form",
			rawURL: "https://blog.naver.com/otherblog/333",
			blogID: "myblog",
			ok:     false,
		},
		{
			name:   "no post id at all",
			rawURL: "https://blog.naver.com/myblog",
			blogID: "myblog",
			ok:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLogNo(tc.rawURL, tc.blogID)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseLogNoQuotesBlogID(t *testing.T) {
	// A blog id with regex metacharacters must be treated literally.
	_, ok := ParseLogNo("https://blog.naver.com/anyblog/123", "any.log")
	require.False(t, ok)
}
