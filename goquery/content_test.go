package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + markup + "</body></html>"))
	require.NoError(t, err)

	var body *html.Node
	stack := []*html.Node{doc}
	for len(stack) > 0 && body == nil {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
	require.NotNil(t, body)
	return body
}

func leaves(root medfeed.ContentNode) []string {
	var out []string
	for _, n := range medfeed.Walk(root) {
		switch n := n.(type) {
		case medfeed.TextNode:
			out = append(out, "text:"+n.Text)
		case medfeed.ImageNode:
			out = append(out, "img:"+n.Src)
		}
	}
	return out
}

func TestContentTree(t *testing.T) {
	t.Parallel()

	t.Run("keeps text and images in document order", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<p>first</p><p><img src="/a.png"></p><div><p>second</p><img src="/b.png"></div>`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:first", "img:/a.png", "text:second", "img:/b.png"}, got)
	})

	t.Run("merges inline runs into one text node", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<p>Hello <strong>bold</strong> and <a href="#">link</a>.</p>`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:Hello bold and link."}, got)
	})

	t.Run("splits text around images", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<p>before<img src="/x.png">after</p>`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:before", "img:/x.png", "text:after"}, got)
	})

	t.Run("opens inline elements holding images", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<p><span>caption <img src="/x.png"></span> tail</p>`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:caption", "img:/x.png", "text:tail"}, got)
	})

	t.Run("drops hidden elements with their subtree", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<p>shown</p><div style="DISPLAY: none"><p>hidden</p><img src="/h.png"></div><p>x<span style="display:none">secret</span>y</p>`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:shown", "text:xy"}, got)
	})

	t.Run("ignores scripts and styles", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<script>var a = 1;</script><style>p{}</style><p>text</p><!-- note -->`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:text"}, got)
	})

	t.Run("line breaks end a text run", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<p>one<br>two</p>`)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:one", "text:two"}, got)
	})

	t.Run("falls back to data-src and keeps attributes", func(t *testing.T) {
		t.Parallel()

		body := parseBody(t, `<img data-src="/lazy.png" alt="图1" width="100">`)

		walked := medfeed.Walk(goquery.ContentTree(body))

		require.Len(t, walked, 1)
		img, ok := walked[0].(medfeed.ImageNode)
		require.True(t, ok)
		assert.Equal(t, "/lazy.png", img.Src)
		assert.Equal(t, "图1", img.Attrs["alt"])
		assert.Equal(t, "100", img.Attrs["width"])
	})

	t.Run("handles deep nesting", func(t *testing.T) {
		t.Parallel()

		const depth = 500
		markup := strings.Repeat("<div>", depth) + "deep" + strings.Repeat("</div>", depth)
		body := parseBody(t, markup)

		got := leaves(goquery.ContentTree(body))

		assert.Equal(t, []string{"text:deep"}, got)
	})

	t.Run("nil root yields empty tree", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.ContentTree(nil).Children)
	})
}
