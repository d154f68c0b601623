package medfeed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// figureRefRe matches an in-text figure citation such as "图3" or "图 12".
var figureRefRe = regexp.MustCompile(`图\s*(\d+)`)

// Reconstruction is the ordered content recovered from an article body.
type Reconstruction struct {
	Paragraphs []*Paragraph
	Images     []*Image
	Links      []FigureLink
}

// ImageIdentifier returns the label of the n-th image in an article.
func ImageIdentifier(n int) string {
	return fmt.Sprintf("img_%d", n)
}

// Reconstruct turns a content sequence into ordered paragraphs and images.
//
// Paragraph orders start at 1 and advance once per emitted paragraph,
// including image placeholders. Image positions start at 1 and advance
// once per accepted image. Rejected images consume no order. Containers
// in the sequence are flattened in document order and share the same
// counters. The resolve function maps a raw src to an absolute URL; a
// src that resolves to "" is rejected. A nil resolve keeps src as is.
func Reconstruct(nodes []ContentNode, filter *ImageFilter, resolve func(string) string) *Reconstruction {
	r := &Reconstruction{}
	order := 1
	imageCounter := 1

	leaves := Walk(&ContainerNode{Children: nodes})
	for _, node := range leaves {
		switch n := node.(type) {
		case ImageNode:
			if !filter.IsContentImage(n.Src) {
				continue
			}
			url := n.Src
			if resolve != nil {
				url = resolve(n.Src)
			}
			if url == "" {
				continue
			}
			r.Images = append(r.Images, &Image{
				URL:        url,
				Identifier: ImageIdentifier(imageCounter),
				Position:   imageCounter,
			})
			r.Paragraphs = append(r.Paragraphs, &Paragraph{
				Content:  PlaceholderContent,
				Order:    order,
				ImageRef: imageCounter,
			})
			imageCounter++
			order++
		case TextNode:
			text := strings.TrimSpace(n.Text)
			if text == "" {
				continue
			}
			r.Paragraphs = append(r.Paragraphs, &Paragraph{
				Content: text,
				Order:   order,
			})
			order++
		case *ContainerNode:
			// Walk never yields containers.
		}
	}

	r.Links = LinkFigureReferences(r.Paragraphs, r.Images)
	return r
}

// LinkFigureReferences links narrative paragraphs to the images they cite.
// A paragraph citing "图N" is linked to the image at position N when one
// exists; otherwise it is left unlinked. Placeholder paragraphs are
// skipped. Only the first citation in a paragraph is considered.
func LinkFigureReferences(paragraphs []*Paragraph, images []*Image) []FigureLink {
	byPosition := make(map[int]*Image, len(images))
	for _, img := range images {
		byPosition[img.Position] = img
	}

	var links []FigureLink
	for _, p := range paragraphs {
		if p.IsPlaceholder() {
			continue
		}
		n, ok := FigureNumber(p.Content)
		if !ok {
			continue
		}
		img, ok := byPosition[n]
		if !ok {
			continue
		}
		p.ImageRef = img.Position
		links = append(links, FigureLink{
			ParagraphOrder: p.Order,
			ImagePosition:  img.Position,
		})
	}
	return links
}

// FigureNumber returns the number of the first figure citation in text.
func FigureNumber(text string) (int, bool) {
	m := figureRefRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
