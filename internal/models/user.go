package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'user'" json:"role"`
	Preferences  Preferences    `gorm:"type:jsonb" json:"preferences"`
}

// BeforeCreate assigns an ID and the default role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PriceRange is an average-cost-for-two range in local currency.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences are the dining preferences a user stores on their profile.
type Preferences struct {
	Cuisines          []string   `json:"cuisines"`
	PriceRange        PriceRange `json:"priceRange"`
	Location          string     `json:"location"`
	HasTableBooking   bool       `json:"hasTableBooking"`
	HasOnlineDelivery bool       `json:"hasOnlineDelivery"`
	IsDeliveringNow   bool       `json:"isDeliveringNow"`
}

// DefaultPreferences mirrors what a new profile starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Cuisines:   []string{},
		PriceRange: PriceRange{Min: 0, Max: 5000},
	}
}

// Value implements the driver.Valuer interface
func (p Preferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		*p = DefaultPreferences()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Preferences: %T", value)
	}

	return json.Unmarshal(bytes, p)
}
