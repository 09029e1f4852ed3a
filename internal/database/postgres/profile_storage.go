package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileStorage реализует интерфейс ports.ProfileStorage с использованием GORM
type GormProfileStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormProfileStorage создает новый экземпляр GormProfileStorage
func NewGormProfileStorage(db *gorm.DB, logger *slog.Logger) *GormProfileStorage {
	return &GormProfileStorage{db: db, logger: logger}
}

// GetProfileByUserID получает профиль вместе с образованием и опытом работы в исходном порядке
func (s *GormProfileStorage) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	result := s.db.WithContext(ctx).
		Preload("Education", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("PastWork", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to get profile", "user_id", userID, "error", result.Error)
		return nil, fmt.Errorf("ошибка при получении профиля с помощью GORM: %w", result.Error)
	}
	return &profile, nil
}

// ReplaceProfile обновляет скалярные поля и полностью заменяет дочерние записи.
// Всё выполняется в одной транзакции: либо профиль целиком новый, либо прежний.
func (s *GormProfileStorage) ReplaceProfile(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error) {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile domain.Profile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("select profile: %w", err)
		}

		if err := tx.Model(&profile).Updates(map[string]any{
			"bio":          upd.Bio,
			"current_post": upd.CurrentPost,
			"location":     upd.Location,
			"updated_at":   time.Now().UTC(),
		}).Error; err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		if err := tx.Where("profile_id = ?", profile.ID).Delete(&domain.Education{}).Error; err != nil {
			return fmt.Errorf("delete education: %w", err)
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&domain.WorkHistory{}).Error; err != nil {
			return fmt.Errorf("delete work history: %w", err)
		}

		education, work := prepareChildren(profile.ID, upd)
		if len(education) > 0 {
			if err := tx.Create(&education).Error; err != nil {
				return fmt.Errorf("insert education: %w", err)
			}
		}
		if len(work) > 0 {
			if err := tx.Create(&work).Error; err != nil {
				return fmt.Errorf("insert work history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to replace profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении профиля с помощью GORM: %w", err)
	}

	s.logger.Info("profile replaced",
		"user_id", userID,
		"education", len(upd.Education),
		"past_work", len(upd.PastWork),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.GetProfileByUserID(ctx, userID)
}

// prepareChildren привязывает новые записи к профилю и нумерует их в порядке запроса
func prepareChildren(profileID uuid.UUID, upd domain.ProfileUpdate) ([]domain.Education, []domain.WorkHistory) {
	education := make([]domain.Education, len(upd.Education))
	for i, e := range upd.Education {
		e.ID = uuid.New()
		e.ProfileID = profileID
		e.Position = i
		education[i] = e
	}
	work := make([]domain.WorkHistory, len(upd.PastWork))
	for i, w := range upd.PastWork {
		w.ID = uuid.New()
		w.ProfileID = profileID
		w.Position = i
		work[i] = w
	}
	return education, work
}
