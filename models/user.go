package models

import (
	"time"
)

type User struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	NIP       *string   `gorm:"column:nip;unique" json:"nip,omitempty"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email;unique" json:"email"`
	Jabatan   *string   `gorm:"column:jabatan" json:"jabatan,omitempty"`
	Password  string    `gorm:"column:password" json:"-"`
	RoleID    int       `gorm:"column:role_id" json:"role_id"`
	BidangID  *int      `gorm:"column:bidang_id" json:"bidang_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Role   Role    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Bidang *Bidang `gorm:"foreignKey:BidangID" json:"bidang,omitempty"`
}

type Role struct {
	ID          int       `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;unique" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// Role names used for authorization checks.
const (
	RoleAdmin   = "admin"
	RolePegawai = "pegawai"
)

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (u *User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}
