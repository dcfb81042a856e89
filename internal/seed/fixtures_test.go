package seed

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	fx, err := LoadFixtures("testdata/fixtures.yml")
	require.NoError(t, err)
	require.Len(t, fx.Users, 3)
	require.Len(t, fx.Blogs, 2)
	assert.Equal(t, "admin", fx.Users[0].Role)
	assert.Len(t, fx.Blogs[0].Comments, 2)
	assert.Len(t, fx.Blogs[0].Comments[0].Replies, 1)
	assert.NoError(t, fx.Validate())
}

func TestParseFixtures_UnknownField(t *testing.T) {
	_, err := ParseFixtures([]byte("users:\n  - username: ada\n    nickname: countess\n"))
	assert.Error(t, err)
}

func TestFixtures_Validate(t *testing.T) {
	base := func() *Fixtures {
		return &Fixtures{
			Users: []UserFixture{{Username: "ada", Email: "ada@example.com"}},
			Blogs: []BlogFixture{{Title: "Valid title", Content: "Long enough content", Author: "ada"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Fixtures)
	}{
		{"bad username", func(f *Fixtures) { f.Users[0].Username = "_ada" }},
		{"bad email", func(f *Fixtures) { f.Users[0].Email = "nope" }},
		{"short password", func(f *Fixtures) { f.Users[0].Password = "123" }},
		{"bad role", func(f *Fixtures) { f.Users[0].Role = "owner" }},
		{"duplicate user", func(f *Fixtures) { f.Users = append(f.Users, f.Users[0]) }},
		{"unknown author", func(f *Fixtures) { f.Blogs[0].Author = "bob" }},
		{"short title", func(f *Fixtures) { f.Blogs[0].Title = "Hi" }},
		{"bad language", func(f *Fixtures) { f.Blogs[0].Language = "fr" }},
		{"unknown liker", func(f *Fixtures) { f.Blogs[0].Likes = []string{"bob"} }},
		{"empty reply", func(f *Fixtures) {
			f.Blogs[0].Comments = []CommentFixture{{Author: "ada", Content: "ok", Replies: []CommentFixture{{Author: "ada", Content: " "}}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := base()
			tt.mutate(fx)
			assert.Error(t, fx.Validate())
		})
	}
	assert.NoError(t, base().Validate())
}

func TestApplyFixtures(t *testing.T) {
	db := setupDB(t)
	fx, err := LoadFixtures("testdata/fixtures.yml")
	require.NoError(t, err)

	ctx := context.Background()
	sum, err := NewSeeder(db, Options{}).ApplyFixtures(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 3, Blogs: 2, Comments: 3, Likes: 2}, sum)

	users := repository.NewUserRepository(db)
	ada, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, ada)
	assert.Equal(t, models.RoleAdmin, ada.Role)

	blogs := service.NewBlogService(repository.NewBlogRepository(db), users)
	page, err := blogs.ListBlogs(ctx, service.ListBlogsInput{Search: "hello"})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	hello := page.Blogs[0]
	assert.Equal(t, []string{"intro", "greetings"}, hello.Tags)
	assert.Len(t, hello.Likes, 2)

	comments := service.NewCommentService(repository.NewCommentRepository(db), repository.NewBlogRepository(db))
	tree, err := comments.ListCommentTree(ctx, hello.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, tree.Total)
	var first *service.CommentNode
	for i := range tree.Comments {
		if tree.Comments[i].Content == "first" {
			first = &tree.Comments[i]
		}
	}
	require.NotNil(t, first)
	require.Len(t, first.Replies, 1)
	assert.Equal(t, "re:first", first.Replies[0].Content)

	arabic, err := blogs.ListBlogs(ctx, service.ListBlogsInput{Language: "ar"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, arabic.Total)
}

func TestApplyFixtures_InvalidWritesNothing(t *testing.T) {
	db := setupDB(t)
	fx := &Fixtures{Users: []UserFixture{{Username: "ada", Email: "bad"}}}

	_, err := NewSeeder(db, Options{}).ApplyFixtures(context.Background(), fx)
	assert.Error(t, err)
	assert.Zero(t, count(t, db, &models.User{}))
}
