package blog

import "regexp"

var logNoQuery = regexp.MustCompile(`logNo=(\d+)`)

// ParseLogNo pulls the numeric post id out of a post address, matching the
// path form first and the query-parameter form as fallback.
func ParseLogNo(rawURL, blogID string) (string, bool) {
	pathPattern := regexp.MustCompile(`/` + regexp.QuoteMeta(blogID) + `/(\d+)`)
	if m := pathPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if m := logNoQuery.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	return "", false
}
