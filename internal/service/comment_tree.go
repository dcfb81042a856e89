package service

import "inkwell/internal/models"

const (
	InitialVisibleRoots = 3
	ShowMoreStep        = 5
)

// CommentNode is a comment with its nested replies.
type CommentNode struct {
	*models.Comment
	Replies []CommentNode `json:"replies"`
}

// CommentTree indexes a flat comment list by parent. Order within every
// sibling list is the order of the flat input.
type CommentTree struct {
	roots    []*models.Comment
	children map[uint][]*models.Comment
	size     int
}

// BuildCommentTree indexes flat in a single pass.
func BuildCommentTree(flat []*models.Comment) *CommentTree {
	t := &CommentTree{
		roots:    make([]*models.Comment, 0),
		children: make(map[uint][]*models.Comment),
	}
	for _, c := range flat {
		if c == nil {
			continue
		}
		t.size++
		if c.IsRoot() {
			t.roots = append(t.roots, c)
			continue
		}
		parent := *c.ParentCommentID
		t.children[parent] = append(t.children[parent], c)
	}
	return t
}

func (t *CommentTree) Roots() []*models.Comment {
	return t.roots
}

// Replies returns the direct children of id; never nil.
func (t *CommentTree) Replies(id uint) []*models.Comment {
	if r, ok := t.children[id]; ok {
		return r
	}
	return []*models.Comment{}
}

// Len counts every indexed comment, including orphans.
func (t *CommentTree) Len() int {
	return t.size
}

// Prepend puts c in front of its siblings without re-sorting.
func (t *CommentTree) Prepend(c *models.Comment) {
	if c == nil {
		return
	}
	t.size++
	if c.IsRoot() {
		t.roots = append([]*models.Comment{c}, t.roots...)
		return
	}
	parent := *c.ParentCommentID
	t.children[parent] = append([]*models.Comment{c}, t.children[parent]...)
}

// Nest materializes the whole tree. Replies whose parent is missing are dropped.
func (t *CommentTree) Nest() []CommentNode {
	return t.NestRoots(t.roots)
}

// NestRoots materializes the subtrees under the given roots.
func (t *CommentTree) NestRoots(roots []*models.Comment) []CommentNode {
	seen := make(map[uint]bool, t.size)
	return t.nest(roots, seen)
}

func (t *CommentTree) nest(list []*models.Comment, seen map[uint]bool) []CommentNode {
	nodes := make([]CommentNode, 0, len(list))
	for _, c := range list {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		nodes = append(nodes, CommentNode{
			Comment: c,
			Replies: t.nest(t.children[c.ID], seen),
		})
	}
	return nodes
}

// RootWindow tracks how many root comments are on display.
type RootWindow struct {
	visible int
}

func NewRootWindow() *RootWindow {
	return &RootWindow{visible: InitialVisibleRoots}
}

func (w *RootWindow) Count() int {
	return w.visible
}

// ShowMore widens the window by ShowMoreStep, never past total.
func (w *RootWindow) ShowMore(total int) {
	w.visible += ShowMoreStep
	if w.visible > total {
		w.visible = total
	}
	if w.visible < InitialVisibleRoots {
		w.visible = InitialVisibleRoots
	}
}

// Reveal widens the window by one so a just-added root stays on display.
func (w *RootWindow) Reveal() {
	w.visible++
}

// ShowLess collapses back to the initial window.
func (w *RootWindow) ShowLess() {
	w.visible = InitialVisibleRoots
}

func (w *RootWindow) HasMore(total int) bool {
	return w.visible < total
}

// Visible returns the leading roots inside the window.
func (w *RootWindow) Visible(roots []*models.Comment) []*models.Comment {
	if w.visible >= len(roots) {
		return roots
	}
	return roots[:w.visible]
}
