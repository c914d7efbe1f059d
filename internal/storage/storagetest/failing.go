package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// ErrInjected is returned for writes FailingStorage was told to fail
var ErrInjected = errors.New("storagetest: injected write failure")

// FailingStorage wraps a backend and fails the next n game writes. A hook
// can run once after a hand read. Everything else passes through.
type FailingStorage struct {
	storage.Storage

	mu           sync.Mutex
	gameFailures int
	onGetHand    func()
}

// NewFailingStorage wraps inner
func NewFailingStorage(inner storage.Storage) *FailingStorage {
	return &FailingStorage{Storage: inner}
}

// FailSaveGame makes the next n SaveGame calls fail
func (f *FailingStorage) FailSaveGame(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gameFailures = n
}

// AfterGetHand runs fn once, just after the next successful GetHand
func (f *FailingStorage) AfterGetHand(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onGetHand = fn
}

func (f *FailingStorage) SaveGame(ctx context.Context, game *model.Game) error {
	if f.take(&f.gameFailures) {
		return ErrInjected
	}
	return f.Storage.SaveGame(ctx, game)
}

func (f *FailingStorage) GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error) {
	hand, err := f.Storage.GetHand(ctx, roundID, playerID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	hook := f.onGetHand
	f.onGetHand = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return hand, nil
}

func (f *FailingStorage) take(counter *int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if *counter == 0 {
		return false
	}
	*counter--
	return true
}
