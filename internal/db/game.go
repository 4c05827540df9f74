package db

import (
	"context"
	"fmt"
)

// ListGames returns the full catalog in insertion order.
func (s *Store) ListGames(ctx context.Context) ([]Game, error) {
	return s.listGames(ctx, "id")
}

// ListGamesNewestFirst returns the full catalog, most recently added first.
func (s *Store) ListGamesNewestFirst(ctx context.Context) ([]Game, error) {
	return s.listGames(ctx, "id DESC")
}

func (s *Store) listGames(ctx context.Context, order string) ([]Game, error) {
	games := []Game{}
	if err := s.db.WithContext(ctx).Order(order).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// SearchGames matches q anywhere in the title using the store's LIKE.
// Wildcards inside q are not escaped and act as wildcards.
func (s *Store) SearchGames(ctx context.Context, q string) ([]Game, error) {
	games := []Game{}
	err := s.db.WithContext(ctx).
		Where("title LIKE ?", "%"+q+"%").
		Order("id").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	return games, nil
}

// CreateGame inserts a game built from f and returns it with its id.
func (s *Store) CreateGame(ctx context.Context, f GameFields) (*Game, error) {
	game := &Game{
		Title:     f.Title,
		Developer: f.Developer,
		Platform:  f.Platform,
		Price:     f.Price,
		Rating:    f.Rating,
	}
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return game, nil
}

// UpdateGame overwrites every editable column of game id. Updating a
// missing id changes nothing and is not an error.
func (s *Store) UpdateGame(ctx context.Context, id uint, f GameFields) error {
	err := s.db.WithContext(ctx).
		Model(&Game{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":     f.Title,
			"developer": f.Developer,
			"platform":  f.Platform,
			"price":     f.Price,
			"rating":    f.Rating,
		}).Error
	if err != nil {
		return fmt.Errorf("update game %d: %w", id, err)
	}
	return nil
}

// DeleteGame removes game id. Deleting a missing id is not an error.
func (s *Store) DeleteGame(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&Game{}, id).Error; err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return nil
}
