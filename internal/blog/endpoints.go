package blog

import (
	"fmt"
	"strings"
)

// Endpoints builds the source-site addresses consumed by the pipeline.
// All bases are configurable so tests can point the pipeline at a local server.
type Endpoints struct {
	DesktopBase string
	MobileBase  string
	FeedBase    string
}

// DefaultEndpoints returns the production Naver blog surfaces.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		DesktopBase: "https://blog.naver.com",
		MobileBase:  "https://m.blog.naver.com",
		FeedBase:    "https://rss.blog.naver.com",
	}
}

// AuthorRoot is the canonical desktop landing page for one blog.
func (e Endpoints) AuthorRoot(blogID string) string {
	return fmt.Sprintf("%s/%s", e.DesktopBase, blogID)
}

// PostList is the legacy widget listing endpoint.
func (e Endpoints) PostList(blogID string) string {
	return fmt.Sprintf("%s/PostList.naver?blogId=%s&widgetTypeCall=true&directAccess=true", e.DesktopBase, blogID)
}

// MobileHome is the mobile-rendered author root page.
func (e Endpoints) MobileHome(blogID string) string {
	return fmt.Sprintf("%s/%s", e.MobileBase, blogID)
}

// Feed is the syndication feed for one blog.
func (e Endpoints) Feed(blogID string) string {
	return fmt.Sprintf("%s/%s.xml", e.FeedBase, blogID)
}

// Post is the canonical desktop address of a single post.
func (e Endpoints) Post(blogID, logNo string) string {
	return fmt.Sprintf("%s/%s/%s", e.DesktopBase, blogID, logNo)
}

// MobilePostView is the mobile single-post render used for extraction.
func (e Endpoints) MobilePostView(blogID, logNo string) string {
	return fmt.Sprintf("%s/PostView.naver?blogId=%s&logNo=%s", e.MobileBase, blogID, logNo)
}

// ResolveFrame turns a frame src discovered on the desktop page into an
// absolute address.
func (e Endpoints) ResolveFrame(src string) string {
	if strings.HasPrefix(src, "/") {
		return e.DesktopBase + src
	}
	return src
}
