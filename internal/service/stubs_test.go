package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	findIDsFn       func(context.Context, string) ([]uint, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, uint, repository.UserChanges) error
	setRoleFn       func(context.Context, uint, models.Role) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, int64, error)
	listByRoleFn    func(context.Context, models.Role) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) FindIDsByUsernameLike(ctx context.Context, term string) ([]uint, error) {
	return s.findIDsFn(ctx, term)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, c repository.UserChanges) error {
	return s.updateFn(ctx, id, c)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role models.Role) error {
	return s.setRoleFn(ctx, id, role)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.listByRoleFn(ctx, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		findIDsFn:       func(_ context.Context, _ string) ([]uint, error) { return []uint{}, nil },
		createFn:        func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		updateFn:        func(_ context.Context, _ uint, _ repository.UserChanges) error { return nil },
		setRoleFn:       func(_ context.Context, _ uint, _ models.Role) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, int64, error) { return nil, 0, nil },
		listByRoleFn:    func(_ context.Context, _ models.Role) ([]models.User, error) { return nil, nil },
	}
}

// blogRepoStub is a stub for repository.BlogRepository.
type blogRepoStub struct {
	createFn     func(context.Context, *models.Blog, []string) error
	getByIDFn    func(context.Context, uint) (*models.Blog, error)
	existsFn     func(context.Context, uint) (bool, error)
	listFn       func(context.Context, repository.BlogFilter) ([]models.Blog, int64, error)
	updateFn     func(context.Context, uint, repository.BlogChanges) error
	deleteFn     func(context.Context, uint) error
	toggleLikeFn func(context.Context, uint, uint) ([]uint, bool, error)
}

func (s *blogRepoStub) Create(ctx context.Context, b *models.Blog, tags []string) error {
	return s.createFn(ctx, b, tags)
}
func (s *blogRepoStub) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	return s.getByIDFn(ctx, id)
}
func (s *blogRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *blogRepoStub) List(ctx context.Context, f repository.BlogFilter) ([]models.Blog, int64, error) {
	return s.listFn(ctx, f)
}
func (s *blogRepoStub) Update(ctx context.Context, id uint, c repository.BlogChanges) error {
	return s.updateFn(ctx, id, c)
}
func (s *blogRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *blogRepoStub) ToggleLike(ctx context.Context, blogID, userID uint) ([]uint, bool, error) {
	return s.toggleLikeFn(ctx, blogID, userID)
}

// blogsOf serves GetByID and Exists from a fixed set of blogs.
func blogsOf(blogs ...*models.Blog) *blogRepoStub {
	byID := make(map[uint]*models.Blog, len(blogs))
	for _, b := range blogs {
		byID[b.ID] = b
	}
	return &blogRepoStub{
		createFn: func(_ context.Context, b *models.Blog, tags []string) error {
			b.ID = uint(len(byID) + 1)
			b.Tags = tags
			byID[b.ID] = b
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Blog, error) {
			if b, ok := byID[id]; ok {
				return b, nil
			}
			return nil, models.NewNotFoundError("Blog", id)
		},
		existsFn: func(_ context.Context, id uint) (bool, error) {
			_, ok := byID[id]
			return ok, nil
		},
		listFn: func(_ context.Context, _ repository.BlogFilter) ([]models.Blog, int64, error) {
			return []models.Blog{}, 0, nil
		},
		updateFn: func(_ context.Context, id uint, c repository.BlogChanges) error {
			b := byID[id]
			if c.Title != nil {
				b.Title = *c.Title
			}
			if c.Tags != nil {
				b.Tags = *c.Tags
			}
			return nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			delete(byID, id)
			return nil
		},
		toggleLikeFn: func(_ context.Context, _, _ uint) ([]uint, bool, error) { return []uint{}, false, nil },
	}
}

// commentRepoStub keeps comments in insertion order and lists them newest first.
type commentRepoStub struct {
	items   []*models.Comment
	deleted []uint
}

func (s *commentRepoStub) Create(_ context.Context, c *models.Comment) error {
	c.ID = uint(len(s.items) + 1)
	c.Author = &models.Author{ID: c.UserID}
	s.items = append(s.items, c)
	return nil
}

func (s *commentRepoStub) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	for _, c := range s.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, models.NewNotFoundError("Comment", id)
}

func (s *commentRepoStub) ListByBlog(_ context.Context, blogID uint) ([]*models.Comment, error) {
	out := make([]*models.Comment, 0)
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].BlogID == blogID {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *commentRepoStub) Delete(_ context.Context, id uint) error {
	for i, c := range s.items {
		if c.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return models.NewNotFoundError("Comment", id)
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func tagsPtr(v ...string) *[]string { return &v }
