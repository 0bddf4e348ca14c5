package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles, ordered by privilege.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleInspector = "inspector"
)

// User is an application account, maps to users.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                          json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                    json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"        json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                    json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'inspector'" json:"role"`
	BaseModel
}

// TableName names the table.
func (User) TableName() string { return "users" }

// BeforeCreate mints the primary key when the caller has not set one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}
