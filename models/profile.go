package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles a profile can hold within its org.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Profile links a login to an organization with a role.
type Profile struct {
	Id        string `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  []byte `json:"-" gorm:"not null"`
	OrgId     string `json:"org_id" gorm:"index;not null"`
	Role      string `json:"role" gorm:"size:20;not null;default:viewer"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	p.Id = uuid.NewString()
	return
}

func (p *Profile) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	p.Password = hashedPassword
}

func (p *Profile) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(p.Password, []byte(password))
}
