// Package discover locates a blog's recent post addresses through an ordered
// chain of independently-failing strategies.
package discover

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/blog"
	"github.com/blogrank/blogrank/internal/fetch"
)

var (
	logNoQueryPattern = regexp.MustCompile(`logNo=(\d+)`)
	dataLogNoPattern  = regexp.MustCompile(`data-log-no=["'](\d+)["']`)
)

// Discoverer runs the strategy chain against a Fetcher. Strategies are tried
// in order; the first one yielding at least one address wins and the rest are
// never invoked.
type Discoverer struct {
	fetcher  fetch.Fetcher
	eps      blog.Endpoints
	maxPosts int
	logger   *zap.Logger
}

// New builds a Discoverer capped at maxPosts addresses.
func New(fetcher fetch.Fetcher, eps blog.Endpoints, maxPosts int, logger *zap.Logger) *Discoverer {
	if maxPosts <= 0 {
		maxPosts = 30
	}
	return &Discoverer{
		fetcher:  fetcher,
		eps:      eps,
		maxPosts: maxPosts,
		logger:   logger,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, blogID string) ([]string, error)
}

// Discover returns up to maxPosts post addresses in first-discovered order.
// An empty result means the blog has no discoverable posts; it is not an
// error.
func (d *Discoverer) Discover(ctx context.Context, blogID string) []string {
	strategies := []strategy{
		{name: "mainframe", run: d.fromMainFrame},
		{name: "postlist", run: d.fromPostList},
		{name: "mobile_home", run: d.fromMobileHome},
		{name: "feed", run: d.fromFeed},
	}

	for _, s := range strategies {
		urls, err := s.run(ctx, blogID)
		if err != nil {
			d.logger.Debug("discovery strategy failed",
				zap.String("blog_id", blogID),
				zap.String("strategy", s.name),
				zap.Error(err),
			)
			continue
		}
		if len(urls) > 0 {
			d.logger.Info("post urls discovered",
				zap.String("blog_id", blogID),
				zap.String("strategy", s.name),
				zap.Int("count", len(urls)),
			)
			return urls
		}
	}
	return nil
}

// fromMainFrame loads the desktop page, follows the embedded frame it points
// at, and extracts addresses from the frame target.
func (d *Discoverer) fromMainFrame(ctx context.Context, blogID string) ([]string, error) {
	html, err := d.fetcher.Fetch(ctx, d.eps.AuthorRoot(blogID))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse desktop page: %w", err)
	}
	src, ok := doc.Find("iframe#mainFrame").Attr("src")
	if !ok || src == "" {
		return nil, nil
	}
	frameHTML, err := d.fetcher.Fetch(ctx, d.eps.ResolveFrame(src))
	if err != nil {
		return nil, err
	}
	return d.extractPostURLs(frameHTML, blogID), nil
}

func (d *Discoverer) fromPostList(ctx context.Context, blogID string) ([]string, error) {
	html, err := d.fetcher.Fetch(ctx, d.eps.PostList(blogID))
	if err != nil {
		return nil, err
	}
	return d.extractPostURLs(html, blogID), nil
}

func (d *Discoverer) fromMobileHome(ctx context.Context, blogID string) ([]string, error) {
	html, err := d.fetcher.Fetch(ctx, d.eps.MobileHome(blogID))
	if err != nil {
		return nil, err
	}
	return d.extractPostURLs(html, blogID), nil
}

type feedDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []struct {
			Link string `xml:"link"`
		} `xml:"item"`
	} `xml:"channel"`
}

// fromFeed parses the syndication feed and pulls post ids from item links:
// explicit logNo parameter first, then a path segment after the blog id.
func (d *Discoverer) fromFeed(ctx context.Context, blogID string) ([]string, error) {
	body, err := d.fetcher.Fetch(ctx, d.eps.Feed(blogID))
	if err != nil {
		return nil, err
	}
	var feed feedDocument
	if err := xml.Unmarshal([]byte(body), &feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	pathPattern := regexp.MustCompile(`/` + regexp.QuoteMeta(blogID) + `/(\d+)`)
	urls := make([]string, 0, d.maxPosts)
	seen := make(map[string]struct{})
	for _, item := range feed.Channel.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		m := logNoQueryPattern.FindStringSubmatch(link)
		if m == nil {
			m = pathPattern.FindStringSubmatch(link)
		}
		if m == nil {
			continue
		}
		u := d.eps.Post(blogID, m[1])
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		if len(urls) >= d.maxPosts {
			break
		}
	}
	return urls, nil
}

// extractPostURLs applies the three address patterns against raw markup and
// merges matches, removing duplicates while preserving first-seen order.
func (d *Discoverer) extractPostURLs(html, blogID string) []string {
	pathPattern := regexp.MustCompile(`/` + regexp.QuoteMeta(blogID) + `/(\d+)`)
	patterns := []*regexp.Regexp{pathPattern, logNoQueryPattern, dataLogNoPattern}

	urls := make([]string, 0, d.maxPosts)
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(html, -1) {
			u := d.eps.Post(blogID, m[1])
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
			if len(urls) >= d.maxPosts {
				return urls
			}
		}
	}
	return urls
}
