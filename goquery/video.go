package goquery

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medfeed"
	"golang.org/x/net/html"
)

var _ medfeed.VideoParser = (*VideoParser)(nil)

// flashvarsRe finds the file parameter of an embedded flash player.
var flashvarsRe = regexp.MustCompile(`flashvars=\{[^}]*f:"(.*?)"`)

const videoDateLabel = "发布日期"

// VideoParser parses video detail pages.
type VideoParser struct {
	// Location is the zone of published dates. Defaults to ChinaTime.
	Location *time.Location
}

// NewVideoParser creates a new VideoParser.
func NewVideoParser() *VideoParser {
	return &VideoParser{}
}

// ParseVideo extracts the title, video source and publish date of a
// detail page. The source comes from a <video> element, falling back to
// an embedded player's flashvars. VideoURL is empty when neither exists.
func (p *VideoParser) ParseVideo(page []byte, pageURL string) (*medfeed.VideoPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "failed to parse HTML: %v", err)
	}

	v := &medfeed.VideoPage{
		Title: strings.TrimSpace(doc.Find("td.title").First().Text()),
	}
	if v.Title == "" {
		v.Title = medfeed.UntitledArticle
	}

	doc.Find("video").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if src == "" {
			src, _ = s.Find("source[src]").First().Attr("src")
		}
		v.VideoURL = resolveSrc(base, src)
		return v.VideoURL == ""
	})
	if v.VideoURL == "" {
		doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			m := flashvarsRe.FindStringSubmatch(s.Text())
			if m == nil {
				return true
			}
			v.VideoURL = resolveSrc(base, m[1])
			return v.VideoURL == ""
		})
	}

	if t, ok := p.publishedAt(doc); ok {
		v.PublishedAt = &t
	}
	return v, nil
}

// publishedAt finds the first text node mentioning the date label and
// parses what follows its colon.
func (p *VideoParser) publishedAt(doc *goquery.Document) (time.Time, bool) {
	var text string
	doc.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "script" || goquery.NodeName(s) == "style" {
			return true
		}
		for _, n := range s.Contents().Nodes {
			if n.Type == html.TextNode && strings.Contains(n.Data, videoDateLabel) {
				text = n.Data
				return false
			}
		}
		return true
	})
	if text == "" {
		return time.Time{}, false
	}

	_, value, ok := strings.Cut(text, "：")
	if !ok {
		_, value, ok = strings.Cut(text, ":")
	}
	if !ok {
		return time.Time{}, false
	}
	if t, ok := parseDate(value, p.Location); ok {
		return t, true
	}
	// The label is often followed by other metadata on the same line.
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return time.Time{}, false
	}
	return parseDate(fields[0], p.Location)
}
