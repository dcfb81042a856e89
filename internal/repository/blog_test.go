package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogRepository_CreateAndGet(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBlogRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "writer")

	blog := &models.Blog{Title: "Hello World", Content: "<p>first post</p>", Language: models.LanguageEnglish, UserID: author.ID}
	require.NoError(t, repo.Create(ctx, blog, []string{"intro", "news"}))
	require.NotZero(t, blog.ID)
	assert.Equal(t, []string{"intro", "news"}, blog.Tags)
	assert.Empty(t, blog.Likes)

	got, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got.Title)
	assert.Equal(t, []string{"intro", "news"}, got.Tags)
	assert.NotNil(t, got.Likes)
	require.NotNil(t, got.Author)
	assert.Equal(t, "writer", got.Author.Username)

	_, err = repo.GetByID(ctx, 404)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	ok, err := repo.Exists(ctx, blog.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlogRepository_List(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBlogRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	hank := createUser(t, db, "hank_hellofan")

	seed := []struct {
		title string
		lang  models.Language
		tags  []string
		user  uint
	}{
		{"Hello World", models.LanguageEnglish, nil, alice.ID},
		{"Gardening", models.LanguageEnglish, []string{"HELLO-spring"}, alice.ID},
		{"Cooking", models.LanguageEnglish, []string{"food"}, hank.ID},
		{"Unrelated", models.LanguageEnglish, nil, alice.ID},
		{"Hello Arabic", models.LanguageArabic, nil, alice.ID},
		{"100% pure", models.LanguageEnglish, nil, alice.ID},
	}
	ids := make(map[string]uint)
	for _, s := range seed {
		b := &models.Blog{Title: s.title, Content: "0123456789", Language: s.lang, UserID: s.user}
		require.NoError(t, repo.Create(ctx, b, s.tags))
		ids[s.title] = b.ID
	}

	t.Run("language filter newest first", func(t *testing.T) {
		blogs, total, err := repo.List(ctx, BlogFilter{Language: models.LanguageEnglish, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, blogs, 5)
		assert.Equal(t, "100% pure", blogs[0].Title)
		assert.Equal(t, "Hello World", blogs[4].Title)
		for _, b := range blogs {
			assert.Equal(t, models.LanguageEnglish, b.Language)
		}
	})

	t.Run("search spans title tag and author", func(t *testing.T) {
		blogs, total, err := repo.List(ctx, BlogFilter{
			Language:  models.LanguageEnglish,
			Search:    "hello",
			AuthorIDs: []uint{hank.ID},
			Limit:     10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		titles := make([]string, 0, len(blogs))
		for _, b := range blogs {
			titles = append(titles, b.Title)
		}
		assert.ElementsMatch(t, []string{"Hello World", "Gardening", "Cooking"}, titles)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		blogs, total, err := repo.List(ctx, BlogFilter{Language: models.LanguageEnglish, Search: "%", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, ids["100% pure"], blogs[0].ID)
	})

	t.Run("pagination and past the end", func(t *testing.T) {
		page, total, err := repo.List(ctx, BlogFilter{Language: models.LanguageEnglish, Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, page, 1)
		assert.Equal(t, "Hello World", page[0].Title)

		page, _, err = repo.List(ctx, BlogFilter{Language: models.LanguageEnglish, Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.NotNil(t, page)
		assert.Empty(t, page)
	})
}

func TestBlogRepository_UpdateReplacesTags(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBlogRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "writer")

	blog := &models.Blog{Title: "Draft", Content: "0123456789", Language: models.LanguageEnglish, UserID: author.ID}
	require.NoError(t, repo.Create(ctx, blog, []string{"a", "b"}))

	title := "Final"
	tags := []string{"c", "a"}
	require.NoError(t, repo.Update(ctx, blog.ID, BlogChanges{Title: &title, Tags: &tags}))

	got, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "0123456789", got.Content)
	assert.Equal(t, []string{"c", "a"}, got.Tags)

	empty := []string{}
	require.NoError(t, repo.Update(ctx, blog.ID, BlogChanges{Tags: &empty}))
	got, err = repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	err = repo.Update(ctx, 999, BlogChanges{Title: &title})
	assert.True(t, models.HasCode(err, models.CodeNotFound), "got %v", err)
}

func TestBlogRepository_ToggleLike(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBlogRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "writer")
	fan := createUser(t, db, "fan")

	blog := &models.Blog{Title: "Likeable", Content: "0123456789", Language: models.LanguageEnglish, UserID: author.ID}
	require.NoError(t, repo.Create(ctx, blog, nil))

	likes, liked, err := repo.ToggleLike(ctx, blog.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []uint{fan.ID}, likes)

	likes, liked, err = repo.ToggleLike(ctx, blog.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []uint{fan.ID, author.ID}, likes)

	likes, liked, err = repo.ToggleLike(ctx, blog.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, []uint{author.ID}, likes)

	got, err := repo.GetByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{author.ID}, got.Likes)
}

func TestBlogRepository_DeleteKeepsComments(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBlogRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "writer")

	blog := &models.Blog{Title: "Short lived", Content: "0123456789", Language: models.LanguageEnglish, UserID: author.ID}
	require.NoError(t, repo.Create(ctx, blog, nil))
	c := &models.Comment{Content: "still here", BlogID: blog.ID, UserID: author.ID}
	require.NoError(t, comments.Create(ctx, c))

	require.NoError(t, repo.Delete(ctx, blog.ID))
	_, err := repo.GetByID(ctx, blog.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.True(t, models.HasCode(repo.Delete(ctx, blog.ID), models.CodeNotFound))

	got, err := comments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, blog.ID, got.BlogID)
}
