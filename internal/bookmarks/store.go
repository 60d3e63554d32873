package bookmarks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vennlabs/pulseboard/internal/clients"
)

// Store keeps per-user bookmark sets in Valkey. Bookmarks are durable: no
// TTL is set on the keys.
type Store struct {
	vc *clients.ValkeyClient
}

func NewStore(vc *clients.ValkeyClient) *Store {
	return &Store{vc: vc}
}

// BookmarkKey namespaces each user's set under bookmarks:.
func BookmarkKey(userID string) string {
	return fmt.Sprintf("bookmarks:%s", userID)
}

func (s *Store) Save(ctx context.Context, userID, itemID string) error {
	res := s.vc.DoWithRetry(ctx, s.vc.Client.B().Sadd().Key(BookmarkKey(userID)).Member(itemID).Build(), 3)
	if err := res.Error(); err != nil {
		return fmt.Errorf("[Bookmarks] failed to save bookmark: %w", err)
	}

	slog.Info("[Bookmarks] Saved bookmark",
		slog.String("user_id", userID),
		slog.String("item_id", itemID))
	return nil
}

func (s *Store) Unsave(ctx context.Context, userID, itemID string) error {
	res := s.vc.DoWithRetry(ctx, s.vc.Client.B().Srem().Key(BookmarkKey(userID)).Member(itemID).Build(), 3)
	if err := res.Error(); err != nil {
		return fmt.Errorf("[Bookmarks] failed to remove bookmark: %w", err)
	}

	slog.Info("[Bookmarks] Removed bookmark",
		slog.String("user_id", userID),
		slog.String("item_id", itemID))
	return nil
}

func (s *Store) IsSaved(ctx context.Context, userID, itemID string) (bool, error) {
	res := s.vc.DoWithRetry(ctx, s.vc.Client.B().Sismember().Key(BookmarkKey(userID)).Member(itemID).Build(), 3)
	if err := res.Error(); err != nil {
		return false, fmt.Errorf("[Bookmarks] failed to check bookmark: %w", err)
	}

	return res.AsBool()
}

// Toggle flips an item's bookmarked state and reports the new state.
func (s *Store) Toggle(ctx context.Context, userID, itemID string) (bool, error) {
	saved, err := s.IsSaved(ctx, userID, itemID)
	if err != nil {
		return false, err
	}

	if saved {
		if err := s.Unsave(ctx, userID, itemID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.Save(ctx, userID, itemID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]string, error) {
	res := s.vc.DoWithRetry(ctx, s.vc.Client.B().Smembers().Key(BookmarkKey(userID)).Build(), 3)
	if err := res.Error(); err != nil {
		return nil, fmt.Errorf("[Bookmarks] failed to list bookmarks: %w", err)
	}

	items, err := res.AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("[Bookmarks] failed to decode bookmarks: %w", err)
	}

	sort.Strings(items)
	return items, nil
}
