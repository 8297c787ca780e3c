package favorite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/janisto/biodata-discovery/internal/platform/database"
)

type favoriteRow struct {
	UserID    string `gorm:"primaryKey"`
	BiodataID int64  `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (favoriteRow) TableName() string { return "favorites" }

// PostgresStore implements Store with GORM. The composite primary key enforces uniqueness.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a GORM-backed store.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add inserts the pair; unique and foreign key violations map to service errors.
func (s *PostgresStore) Add(ctx context.Context, f Favorite) error {
	row := favoriteRow(f)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return ErrAlreadyExists
		case database.IsForeignKeyViolation(err):
			return ErrBiodataNotFound
		}
		return err
	}
	return nil
}

// Remove deletes the pair.
func (s *PostgresStore) Remove(ctx context.Context, userID string, biodataID int64) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND biodata_id = ?", userID, biodataID).
		Delete(&favoriteRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's favorites newest first.
func (s *PostgresStore) List(ctx context.Context, userID string) ([]Favorite, error) {
	var rows []favoriteRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, biodata_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Favorite, 0, len(rows))
	for _, r := range rows {
		out = append(out, Favorite(r))
	}
	return out, nil
}

// Exists reports whether the pair is stored.
func (s *PostgresStore) Exists(ctx context.Context, userID string, biodataID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&favoriteRow{}).
		Where("user_id = ? AND biodata_id = ?", userID, biodataID).
		Count(&n).Error
	return n > 0, err
}

// RemoveAllForBiodata deletes every favorite of biodataID. The foreign key
// already cascades on biodata delete; this covers explicit calls.
func (s *PostgresStore) RemoveAllForBiodata(ctx context.Context, biodataID int64) error {
	return s.db.WithContext(ctx).Where("biodata_id = ?", biodataID).Delete(&favoriteRow{}).Error
}

// Compile-time interface check
var _ Store = (*PostgresStore)(nil)
