package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bingo-cards-backend/internal/bingo"
	"bingo-cards-backend/internal/codec"
	"bingo-cards-backend/internal/draw"
	"bingo-cards-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	SaveGame(ctx context.Context, g bingo.Game) (GameSummary, error)
	GetGame(ctx context.Context, id string) (bingo.Game, error)
	ListGames(ctx context.Context) ([]GameSummary, error)
	DeleteGame(ctx context.Context, id string) error
	AppendDraw(ctx context.Context, id string, n int) ([]int, error)
	Draws(ctx context.Context, id string) ([]int, error)
	ResetDraws(ctx context.Context, id string) error
	PurgeBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// SaveGame stores g under a fresh id, encoded as .bingoCards content.
func (s *gormStore) SaveGame(ctx context.Context, g bingo.Game) (GameSummary, error) {
	record := model.Game{
		ID:        uuid.NewString(),
		Tag:       string(g.ID),
		Content:   codec.Serialize(g),
		CardCount: len(g.Cards),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return GameSummary{}, fmt.Errorf("failed to save game %q: %w", g.ID, err)
	}
	return summarize(record), nil
}

// GetGame loads and decodes a stored game.
func (s *gormStore) GetGame(ctx context.Context, id string) (bingo.Game, error) {
	var record model.Game
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bingo.Game{}, ErrNotFound
		}
		return bingo.Game{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}

	g, err := codec.Parse(bingo.GameID(record.Tag), record.Content)
	if err != nil {
		return bingo.Game{}, fmt.Errorf("stored game %s is corrupt: %w", id, err)
	}
	return g, nil
}

// ListGames returns summaries, most recent first.
func (s *gormStore) ListGames(ctx context.Context) ([]GameSummary, error) {
	var records []model.Game
	if err := s.db.WithContext(ctx).
		Select("id", "tag", "card_count", "created_at").
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	out := make([]GameSummary, 0, len(records))
	for _, r := range records {
		out = append(out, summarize(r))
	}
	return out, nil
}

// DeleteGame removes a game and its draws.
func (s *gormStore) DeleteGame(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&model.Draw{}).Error; err != nil {
			return fmt.Errorf("failed to delete draws for game %s: %w", id, err)
		}
		res := tx.Delete(&model.Game{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete game %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AppendDraw records n as the next called number and returns the full sequence.
// Range and repeat violations surface as draw.ErrOutOfRange and draw.ErrAlreadyDrawn.
func (s *gormStore) AppendDraw(ctx context.Context, id string, n int) ([]int, error) {
	var numbers []int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGame(tx, id); err != nil {
			return err
		}

		existing, err := loadDraws(tx, id)
		if err != nil {
			return err
		}
		state, err := draw.FromNumbers(existing)
		if err != nil {
			return fmt.Errorf("stored draw for game %s is inconsistent: %w", id, err)
		}
		if err := state.Add(n); err != nil {
			return err
		}

		row := model.Draw{GameID: id, Number: n, Seq: len(existing)}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %d", draw.ErrAlreadyDrawn, n)
			}
			return fmt.Errorf("failed to record draw %d for game %s: %w", n, id, err)
		}
		numbers = state.Numbers()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// Draws returns the called numbers of a game in order.
func (s *gormStore) Draws(ctx context.Context, id string) ([]int, error) {
	tx := s.db.WithContext(ctx)
	if err := gameExists(tx, id); err != nil {
		return nil, err
	}
	return loadDraws(tx, id)
}

// ResetDraws clears a game's draw for a restart.
func (s *gormStore) ResetDraws(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gameExists(tx, id); err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&model.Draw{}).Error; err != nil {
			return fmt.Errorf("failed to reset draws for game %s: %w", id, err)
		}
		return nil
	})
}

// PurgeBefore deletes games created before cutoff and returns their ids.
func (s *gormStore) PurgeBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Game{}).Where("created_at < ?", cutoff).Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to find stale games: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("game_id IN ?", ids).Delete(&model.Draw{}).Error; err != nil {
			return fmt.Errorf("failed to purge draws: %w", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.Game{}).Error; err != nil {
			return fmt.Errorf("failed to purge games: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// --- Helpers ---

func gameExists(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&model.Game{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up game %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// lockGame takes a row lock on the game so concurrent appends serialise.
// SQLite ignores the locking clause; its writes are serialised already.
func lockGame(tx *gorm.DB, id string) error {
	var g model.Game
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Take(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock game %s: %w", id, err)
	}
	return nil
}

func loadDraws(tx *gorm.DB, id string) ([]int, error) {
	var numbers []int
	if err := tx.Model(&model.Draw{}).
		Where("game_id = ?", id).
		Order("seq ASC").
		Pluck("number", &numbers).Error; err != nil {
		return nil, fmt.Errorf("failed to load draws for game %s: %w", id, err)
	}
	if numbers == nil {
		numbers = []int{}
	}
	return numbers, nil
}

func summarize(r model.Game) GameSummary {
	return GameSummary{
		ID:        r.ID,
		Name:      r.Tag,
		CardCount: r.CardCount,
		CreatedAt: r.CreatedAt,
	}
}
