package gorm

import (
	"time"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
)

// UserRole associates a user identity with a capability. Used as an
// existence check: does this identity hold role X.
type UserRole struct {
	ID        string         `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string         `gorm:"column:user_id;index:idx_user_roles_user_role,unique"`
	Role      constants.Role `gorm:"column:role;type:app_role;index:idx_user_roles_user_role,unique"`
	GrantedAt time.Time      `gorm:"column:granted_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}
