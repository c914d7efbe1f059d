package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Storage = New()
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestSavedHandIsDetachedFromCaller() {
	hand := &model.Hand{GameID: "g1", RoundID: "r1", PlayerID: "p1", Tiles: []model.Tile{model.MustParseTile("66"), model.MustParseTile("54")}}
	s.Require().NoError(s.Storage.SaveHands(s.Ctx, hand))

	hand.Remove(model.MustParseTile("66"))

	stored, err := s.Storage.GetHand(s.Ctx, "r1", "p1")
	s.Require().NoError(err)
	s.Len(stored.Tiles, 2)
	s.True(stored.Contains(model.MustParseTile("66")))
}

func (s *StorageSuite) TestConcurrentHandWrites() {
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			player := model.PlayerID(fmt.Sprintf("p%d", i))
			for v := range 25 {
				hand := &model.Hand{GameID: "g1", RoundID: "r1", PlayerID: player, Version: int64(v)}
				s.NoError(s.Storage.SaveHands(s.Ctx, hand))
				_, err := s.Storage.GetHandsForRound(s.Ctx, "r1")
				s.NoError(err)
			}
		}()
	}
	wg.Wait()

	hands, err := s.Storage.GetHandsForRound(s.Ctx, "r1")
	s.Require().NoError(err)
	s.Len(hands, 4)
	for _, h := range hands {
		s.Equal(int64(24), h.Version)
	}
}
