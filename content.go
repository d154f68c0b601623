package medfeed

import "strings"

// ContentNode is a node of article content. It is a closed variant:
// TextNode, ImageNode or ContainerNode.
type ContentNode interface {
	contentNode()
}

// TextNode is a run of prose.
type TextNode struct {
	Text string
}

// ImageNode is an inline image reference.
type ImageNode struct {
	Src   string
	Attrs map[string]string
}

// ContainerNode groups child nodes in document order.
type ContainerNode struct {
	Children []ContentNode
}

func (TextNode) contentNode()       {}
func (ImageNode) contentNode()      {}
func (*ContainerNode) contentNode() {}

// Walk flattens a content tree into its ordered Text and Image leaves.
// Containers are spliced into the sequence at their position. Text that
// is empty after trimming is dropped. Nesting depth is bounded only by
// memory; the walk uses an explicit stack.
func Walk(root ContentNode) []ContentNode {
	var out []ContentNode

	// Each frame is a container and the index of its next child.
	type frame struct {
		children []ContentNode
		next     int
	}
	stack := []frame{{children: []ContentNode{root}}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.children) {
			stack = stack[:len(stack)-1]
			continue
		}
		node := top.children[top.next]
		top.next++

		switch n := node.(type) {
		case TextNode:
			if strings.TrimSpace(n.Text) != "" {
				out = append(out, n)
			}
		case ImageNode:
			out = append(out, n)
		case *ContainerNode:
			if n != nil && len(n.Children) > 0 {
				stack = append(stack, frame{children: n.Children})
			}
		}
	}

	return out
}
