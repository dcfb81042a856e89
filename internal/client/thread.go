package client

import (
	"context"
	"sync"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// CommentAPI is the slice of the API CommentThread needs.
type CommentAPI interface {
	ListComments(ctx context.Context, blogID uint) ([]*models.Comment, error)
	CreateComment(ctx context.Context, blogID uint, in service.CreateCommentInput) (*models.Comment, error)
}

// CommentThread is the client view of one blog's comments: the reply tree
// plus how many root comments are expanded.
type CommentThread struct {
	mu     sync.Mutex
	blogID uint
	tree   *service.CommentTree
	window *service.RootWindow
}

func NewCommentThread(blogID uint) *CommentThread {
	return &CommentThread{
		blogID: blogID,
		tree:   service.BuildCommentTree(nil),
		window: service.NewRootWindow(),
	}
}

// Reload replaces the thread with the server's flat list.
func (t *CommentThread) Reload(ctx context.Context, api CommentAPI) error {
	flat, err := api.ListComments(ctx, t.blogID)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.tree = service.BuildCommentTree(flat)
	t.mu.Unlock()
	return nil
}

// Add posts a comment (a reply when parent is set) and puts the created
// comment first among its siblings. Nothing is re-sorted.
func (t *CommentThread) Add(ctx context.Context, api CommentAPI, content string, parent *uint) (*models.Comment, error) {
	created, err := api.CreateComment(ctx, t.blogID, service.CreateCommentInput{Content: content, ParentComment: parent})
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.tree.Prepend(created)
	if created.IsRoot() {
		t.window.Reveal()
	}
	t.mu.Unlock()
	return created, nil
}

// Len counts all comments in the thread.
func (t *CommentThread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.Len()
}

// Visible returns the expanded roots with their full reply trees.
func (t *CommentThread) Visible() []service.CommentNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.NestRoots(t.window.Visible(t.tree.Roots()))
}

func (t *CommentThread) HasMore() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window.HasMore(len(t.tree.Roots()))
}

func (t *CommentThread) ShowMore() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window.ShowMore(len(t.tree.Roots()))
}

func (t *CommentThread) ShowLess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window.ShowLess()
}
