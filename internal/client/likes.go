package client

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrNotSignedIn is returned when an anonymous user tries to like.
var ErrNotSignedIn = errors.New("sign in to like posts")

// LikeToggler is the slice of the API LikeState needs.
type LikeToggler interface {
	ToggleLike(ctx context.Context, blogID uint) ([]uint, error)
}

// LikePhase is where a LikeState is in its optimistic update.
type LikePhase int

const (
	// LikeIdle means no toggle has happened yet.
	LikeIdle LikePhase = iota
	// LikePending means the speculative flip is shown and the request is in flight.
	LikePending
	// LikeConfirmed means the server's like set replaced the speculation.
	LikeConfirmed
	// LikeReverted means the request failed and the snapshot was restored.
	LikeReverted
)

func (p LikePhase) String() string {
	switch p {
	case LikePending:
		return "pending"
	case LikeConfirmed:
		return "confirmed"
	case LikeReverted:
		return "reverted"
	default:
		return "idle"
	}
}

// LikeState holds the like set of one blog as a client shows it. Toggles run
// one at a time; a second Toggle waits for the first to confirm or revert.
type LikeState struct {
	toggling sync.Mutex

	mu    sync.Mutex
	likes []uint
	phase LikePhase
}

func NewLikeState(initial []uint) *LikeState {
	return &LikeState{likes: slices.Clone(initial)}
}

// Likes returns a copy of the current like set.
func (s *LikeState) Likes() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.likes)
}

func (s *LikeState) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes)
}

func (s *LikeState) Liked(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.likes, userID)
}

func (s *LikeState) Phase() LikePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Toggle flips userID's like immediately, then asks the server. The server's
// answer replaces the local set; on error the pre-toggle set comes back.
func (s *LikeState) Toggle(ctx context.Context, api LikeToggler, blogID, userID uint) error {
	if userID == 0 {
		return ErrNotSignedIn
	}

	s.toggling.Lock()
	defer s.toggling.Unlock()

	s.mu.Lock()
	snapshot := slices.Clone(s.likes)
	if i := slices.Index(s.likes, userID); i >= 0 {
		s.likes = slices.Delete(slices.Clone(s.likes), i, i+1)
	} else {
		s.likes = append(slices.Clone(s.likes), userID)
	}
	s.phase = LikePending
	s.mu.Unlock()

	likes, err := api.ToggleLike(ctx, blogID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.likes = snapshot
		s.phase = LikeReverted
		return err
	}
	if likes == nil {
		likes = []uint{}
	}
	s.likes = likes
	s.phase = LikeConfirmed
	return nil
}
