package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	models "github.com/yethikrishna/y0-waitlist-builder/internal/models/gorm"
)

// RoleRepository answers role lookups with GORM
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// HasRole reports whether the identity holds the given role. Queried fresh
// on every privileged request; the answer is never cached.
func (r *RoleRepository) HasRole(ctx context.Context, userID string, role constants.Role) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}

	return count > 0, nil
}

// Grant assigns a role to an identity. Granting twice is a no-op.
func (r *RoleRepository) Grant(ctx context.Context, userID string, role constants.Role) error {
	existing, err := r.HasRole(ctx, userID, role)
	if err != nil {
		return err
	}
	if existing {
		return nil
	}

	err = r.db.WithContext(ctx).Create(&models.UserRole{
		ID:     uuid.New().String(),
		UserID: userID,
		Role:   role,
	}).Error

	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}
