package goquery

import (
	"strings"

	"github.com/fwojciec/medfeed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements become nested containers in the content tree.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Blockquote: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.Table: true, atom.Tbody: true, atom.Thead: true, atom.Tr: true,
	atom.Td: true, atom.Th: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Center: true, atom.Figure: true, atom.Figcaption: true,
	atom.Main: true, atom.Pre: true, atom.Dl: true, atom.Dd: true,
	atom.Dt: true,
}

// ignoredElements never contribute content.
var ignoredElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Template: true, atom.Iframe: true, atom.Head: true,
}

// ContentTree converts the children of root into a content tree.
//
// Hidden elements (inline style display:none) are dropped with their
// subtree. Images become ImageNodes. Block elements become nested
// containers. Adjacent text and inline elements within one container are
// merged into a single TextNode; a <br> ends the current run. An inline
// element that holds an image is opened like a container so the image
// keeps its position. The conversion uses an explicit stack.
func ContentTree(root *html.Node) *medfeed.ContainerNode {
	top := &medfeed.ContainerNode{}
	if root == nil {
		return top
	}

	type frame struct {
		next      *html.Node
		container *medfeed.ContainerNode
		run       strings.Builder
	}
	flush := func(f *frame) {
		if text := strings.TrimSpace(f.run.String()); text != "" {
			f.container.Children = append(f.container.Children, medfeed.TextNode{Text: text})
		}
		f.run.Reset()
	}

	stack := []*frame{{next: root.FirstChild, container: top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		n := f.next
		if n == nil {
			flush(f)
			stack = stack[:len(stack)-1]
			continue
		}
		f.next = n.NextSibling

		switch n.Type {
		case html.TextNode:
			f.run.WriteString(n.Data)
			continue
		case html.ElementNode:
		default:
			continue
		}

		if ignoredElements[n.DataAtom] || isHidden(n) {
			continue
		}

		switch {
		case n.DataAtom == atom.Img:
			flush(f)
			f.container.Children = append(f.container.Children, imageNode(n))
		case n.DataAtom == atom.Br:
			flush(f)
		case blockElements[n.DataAtom] || containsImage(n):
			flush(f)
			child := &medfeed.ContainerNode{}
			f.container.Children = append(f.container.Children, child)
			stack = append(stack, &frame{next: n.FirstChild, container: child})
		default:
			f.run.WriteString(visibleText(n))
		}
	}

	return top
}

func imageNode(n *html.Node) medfeed.ImageNode {
	img := medfeed.ImageNode{Attrs: make(map[string]string, len(n.Attr))}
	for _, a := range n.Attr {
		img.Attrs[a.Key] = a.Val
	}
	img.Src = strings.TrimSpace(img.Attrs["src"])
	if img.Src == "" {
		img.Src = strings.TrimSpace(img.Attrs["data-src"])
	}
	return img
}

// isHidden reports whether n carries an inline display:none style.
func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		style := strings.ToLower(strings.Join(strings.Fields(a.Val), ""))
		return strings.Contains(style, "display:none")
	}
	return false
}

// containsImage reports whether a visible img sits anywhere below n.
func containsImage(n *html.Node) bool {
	stack := []*html.Node{n.FirstChild}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for ; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || ignoredElements[c.DataAtom] || isHidden(c) {
				continue
			}
			if c.DataAtom == atom.Img {
				return true
			}
			stack = append(stack, c.FirstChild)
		}
	}
	return false
}

// visibleText concatenates the text below n, skipping hidden and
// non-content elements.
func visibleText(n *html.Node) string {
	var b strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
			continue
		case html.ElementNode:
			if ignoredElements[c.DataAtom] || isHidden(c) {
				continue
			}
			if c.DataAtom == atom.Br {
				b.WriteString(" ")
				continue
			}
		default:
			continue
		}
		// Push children in reverse so they pop in document order.
		for k := c.LastChild; k != nil; k = k.PrevSibling {
			stack = append(stack, k)
		}
	}
	return b.String()
}
