package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a read-only gorm-backed domain.UserDirectory.
func NewUserRepository(db *gorm.DB) domain.UserDirectory {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u := rec.toDomain()
	return &u, nil
}

// FindByIDs returns the users that exist among ids, ordered by id. Unknown ids are skipped.
func (r *gormUserRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	var recs []userRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toDomain())
	}
	return users, nil
}
