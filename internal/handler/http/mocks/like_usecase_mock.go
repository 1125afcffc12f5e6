package mocks

import (
	"context"
	"sync"

	"github.com/echomind/mindink/internal/domain/entity"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// MockLikeUsecase is a mock implementation of ILikeUseCase.
type MockLikeUsecase struct {
	ShouldFailToggle     bool
	ShouldFailLikedState bool
	ShouldFailSubscribe  bool

	// ToggleErr is returned when ShouldFailToggle is set. Defaults to ErrConflict.
	ToggleErr error
	MockLiked bool
	MockCount int64

	// StreamValues are delivered to a subscriber in order, followed by StreamErr when set.
	StreamValues []int64
	StreamErr    error

	mu            sync.Mutex
	lastUserID    string
	unsubscribed  int
	subscriptions int
}

var _ usecasecontract.ILikeUseCase = (*MockLikeUsecase)(nil)

func NewMockLikeUsecase() *MockLikeUsecase {
	return &MockLikeUsecase{MockLiked: true, MockCount: 1}
}

func (m *MockLikeUsecase) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	state, err := m.ToggleLikeState(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	return state.Liked, nil
}

func (m *MockLikeUsecase) ToggleLikeState(ctx context.Context, postID, userID string) (*entity.LikeState, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.mu.Unlock()
	if m.ShouldFailToggle {
		if m.ToggleErr != nil {
			return nil, m.ToggleErr
		}
		return nil, entity.ErrConflict
	}
	return &entity.LikeState{PostID: postID, Liked: m.MockLiked, LikeCount: m.MockCount}, nil
}

func (m *MockLikeUsecase) GetInitialLikedState(ctx context.Context, postID, userID string) (bool, error) {
	m.mu.Lock()
	m.lastUserID = userID
	m.mu.Unlock()
	if m.ShouldFailLikedState {
		return false, entity.ErrUnavailable
	}
	return m.MockLiked, nil
}

func (m *MockLikeUsecase) SubscribeToLikeCount(ctx context.Context, postID string, onChange func(count int64), onError func(err error)) (usecasecontract.Unsubscribe, error) {
	if m.ShouldFailSubscribe {
		return nil, entity.ErrValidation
	}

	m.mu.Lock()
	m.subscriptions++
	m.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		for _, v := range m.StreamValues {
			if subCtx.Err() != nil {
				return
			}
			onChange(v)
		}
		if m.StreamErr != nil && onError != nil && subCtx.Err() == nil {
			onError(m.StreamErr)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			m.mu.Lock()
			m.unsubscribed++
			m.mu.Unlock()
		})
	}, nil
}

// LastUserID is the user id passed to the most recent toggle or state read.
func (m *MockLikeUsecase) LastUserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUserID
}

// Unsubscribed reports how many subscriptions were released.
func (m *MockLikeUsecase) Unsubscribed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed
}

// Subscriptions reports how many subscriptions were opened.
func (m *MockLikeUsecase) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscriptions
}
