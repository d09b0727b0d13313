package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blogrank/blogrank/internal/blog"
)

const fullPostHTML = `<html>
<head>
<title>서울 맛집 탐방 기록</title>
<meta property="article:published_time" content="2024-03-05T12:00:00+09:00">
<meta property="og:article:tag" content="여행">
</head>
<body>
<div class="se-main-container">
<p>서울 맛집 탐방을 다녀온 기록입니다</p>
<p>두 번째 문단입니다 충분히 길게</p>
</div>
<span class="__se-hash-tag">#맛집</span>
<span class="__se-hash-tag">#서울</span>
<div class="wrap_tag"><a>#맛집</a><a>#카페</a></div>
<img src="a.jpg"><img src="b.jpg">
<video src="v.mp4"></video>
<a href="https://example.com">바깥 링크</a>
<span class="count">1,234</span>
<span class="u_cbox_count">댓글 5</span>
<em class="u_cnt">12</em>
</body>
</html>`

func TestPostFullDocument(t *testing.T) {
	fields, err := Post(fullPostHTML, "https://blog.naver.com/myblog/100")
	require.NoError(t, err)

	require.Equal(t, "서울 맛집 탐방 기록", fields.Title)
	require.Equal(t, "https://blog.naver.com/myblog/100", fields.URL)

	// Inline spans first, then footer tags, then preview metadata,
	// duplicates removed in first-seen order.
	require.Equal(t, []string{"맛집", "서울", "카페", "여행"}, fields.Hashtags)

	require.Equal(t, 2, fields.ImageCount)
	require.Equal(t, 1, fields.VideoCount)
	require.Equal(t, 1, fields.LinkCount)

	require.NotNil(t, fields.PostDate)
	require.Equal(t, "2024-03-05", *fields.PostDate)

	require.NotNil(t, fields.ViewCount)
	require.Equal(t, 1234, *fields.ViewCount)
	require.NotNil(t, fields.CommentCount)
	require.Equal(t, 5, *fields.CommentCount)
	require.NotNil(t, fields.SympathyCount)
	require.Equal(t, 12, *fields.SympathyCount)

	require.Contains(t, fields.Text, "서울 맛집 탐방을 다녀온 기록입니다")
	require.Len(t, fields.Paragraphs, 3)
	require.Equal(t, "서울 맛집 탐방을 다녀온 기록입니다", fields.Paragraphs[1])
}

func TestPostFallbackChains(t *testing.T) {
	t.Run("og title and printed date", func(t *testing.T) {
		html := `<html>
<head><meta property="og:title" content="모바일 포스트 제목"></head>
<body>
<span class="se_publishDate">2024. 3. 5. 12:00</span>
<em class="cnt">조회 567</em>
</body>
</html>`
		fields, err := Post(html, "u")
		require.NoError(t, err)
		require.Equal(t, "모바일 포스트 제목", fields.Title)
		require.NotNil(t, fields.PostDate)
		require.Equal(t, "2024-03-05", *fields.PostDate)
		require.NotNil(t, fields.ViewCount)
		require.Equal(t, 567, *fields.ViewCount)
	})

	t.Run("time element date", func(t *testing.T) {
		html := `<html><body><time datetime="2023-12-01T10:00:00">작성일</time></body></html>`
		fields, err := Post(html, "u")
		require.NoError(t, err)
		require.NotNil(t, fields.PostDate)
		require.Equal(t, "2023-12-01", *fields.PostDate)
	})

	t.Run("bare document", func(t *testing.T) {
		fields, err := Post(`<html><body><div>본문</div></body></html>`, "u")
		require.NoError(t, err)
		require.Equal(t, "제목 없음", fields.Title)
		require.Nil(t, fields.PostDate)
		require.Nil(t, fields.ViewCount)
		require.Nil(t, fields.CommentCount)
		require.Nil(t, fields.SympathyCount)
		require.Empty(t, fields.Hashtags)
		require.Empty(t, fields.Paragraphs)
	})
}

func TestPostRejectsEmptyDocument(t *testing.T) {
	_, err := Post("", "u")
	require.ErrorIs(t, err, blog.ErrUnparsable)

	_, err = Post("   \n\t  ", "u")
	require.ErrorIs(t, err, blog.ErrUnparsable)
}

func TestPostShortBlocksAreNotParagraphs(t *testing.T) {
	html := `<html><body>
<p>짧다</p>
<p>이 문단은 열 자를 확실히 넘습니다</p>
</body></html>`
	fields, err := Post(html, "u")
	require.NoError(t, err)
	require.Equal(t, []string{"이 문단은 열 자를 확실히 넘습니다"}, fields.Paragraphs)
}
