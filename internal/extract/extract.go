// Package extract pulls structured fields out of a rendered post document.
//
// The source markup is inconsistent across render surfaces, so every field
// is read through its own fallback chain; a failed chain leaves its field
// absent and never blocks another field.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/blogrank/blogrank/internal/blog"
)

// Paragraph candidates shorter than this are treated as UI chrome.
const minParagraphRunes = 10

const noTitle = "제목 없음"

var (
	datePattern    = regexp.MustCompile(`(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})`)
	counterPattern = regexp.MustCompile(`[\d,]+`)
	digitsPattern  = regexp.MustCompile(`\d+`)
)

// Post extracts all fields from one rendered post document. If the document
// cannot be parsed as markup the whole extraction fails and the caller drops
// the post.
func Post(html, rawURL string) (blog.PostFields, error) {
	if strings.TrimSpace(html) == "" {
		return blog.PostFields{}, blog.ErrUnparsable
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return blog.PostFields{}, fmt.Errorf("%w: %v", blog.ErrUnparsable, err)
	}

	fields := blog.PostFields{
		Title:         title(doc),
		URL:           rawURL,
		Hashtags:      hashtags(doc),
		ImageCount:    doc.Find("img").Length(),
		VideoCount:    doc.Find("video, iframe").Length(),
		LinkCount:     doc.Find("a[href]").Length(),
		PostDate:      publishDate(doc),
		ViewCount:     viewCount(doc),
		CommentCount:  commentCount(doc),
		SympathyCount: sympathyCount(doc),
	}
	fields.Text = flattenText(doc)
	fields.Paragraphs = paragraphs(doc)
	return fields, nil
}

func title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if c, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(c); t != "" {
			return t
		}
	}
	return noTitle
}

// hashtags merges the inline tag spans, the footer tag list, and the
// social-preview tag metadata, stripping the leading marker and keeping
// first-seen order.
func hashtags(doc *goquery.Document) []string {
	var raw []string
	doc.Find("span.__se-hash-tag").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, s.Text())
	})
	doc.Find("div.wrap_tag a, a.link_tag").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, s.Text())
	})
	doc.Find(`meta[property="og:article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if c, ok := s.Attr("content"); ok {
			raw = append(raw, c)
		}
	})

	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{})
	for _, t := range raw {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// flattenText joins all visible text into one whitespace-separated string.
func flattenText(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// paragraphs collects block-level elements whose visible text is long enough
// to be body copy rather than UI chrome.
func paragraphs(doc *goquery.Document) []string {
	var out []string
	doc.Find("p, div").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if utf8.RuneCountInString(text) > minParagraphRunes {
			out = append(out, text)
		}
	})
	return out
}

func publishDate(doc *goquery.Document) *string {
	if c, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok && len(c) >= 10 {
		d := c[:10]
		return &d
	}
	if text := strings.TrimSpace(doc.Find("span.se_publishDate").First().Text()); text != "" {
		if m := datePattern.FindStringSubmatch(text); m != nil {
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			d := fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
			return &d
		}
	}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok && len(dt) >= 10 {
		d := dt[:10]
		return &d
	}
	return nil
}

func viewCount(doc *goquery.Document) *int {
	for _, sel := range []string{"span.count", "em.cnt"} {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if m := counterPattern.FindString(text); m != "" {
			if n, err := strconv.Atoi(strings.ReplaceAll(m, ",", "")); err == nil {
				return &n
			}
		}
	}
	return nil
}

func commentCount(doc *goquery.Document) *int {
	return smallCounter(doc, "span.u_cbox_count", ".comment_count", ".cbox_count")
}

func sympathyCount(doc *goquery.Document) *int {
	return smallCounter(doc, "em.u_cnt", ".sympathy_count", ".cnt_sympathy")
}

func smallCounter(doc *goquery.Document, selectors ...string) *int {
	for _, sel := range selectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if m := digitsPattern.FindString(text); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return &n
			}
		}
	}
	return nil
}
