package memory

import (
	"sync"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

// Store is an in-process implementation of the post, user and like contracts.
// A single mutex serializes transactions, which makes them trivially serializable.
type Store struct {
	mu       sync.Mutex
	posts    map[string]*entity.Post
	likes    map[string]*entity.LikeRecord
	users    map[string]*entity.User
	watchers map[string]map[*countWatch]struct{}
}

var (
	_ contract.IPostRepository   = (*Store)(nil)
	_ contract.IUserRepository   = (*Store)(nil)
	_ contract.ILikeStore        = (*Store)(nil)
	_ contract.ILikeCountWatcher = (*Store)(nil)
)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		posts:    make(map[string]*entity.Post),
		likes:    make(map[string]*entity.LikeRecord),
		users:    make(map[string]*entity.User),
		watchers: make(map[string]map[*countWatch]struct{}),
	}
}

func copyPost(p *entity.Post) *entity.Post {
	cp := *p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	if p.ImageURL != nil {
		img := *p.ImageURL
		cp.ImageURL = &img
	}
	return &cp
}

func copyUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}
