package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleProvider UserRole = "provider"
)

// StringList stores a list of offered service names as JSONB
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	jsonData, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// User holds both customers and providers, discriminated by Role.
// Provider-only columns stay empty for customers.
type User struct {
	ID            uint     `json:"id" gorm:"primaryKey"`
	Name          string   `json:"name"`
	Email         string   `json:"email" gorm:"uniqueIndex:idx_users_email_role"`
	Password      string   `json:"password,omitempty"`
	Phone         string   `json:"phone"`
	PhoneVerified bool     `json:"phone_verified"`
	Role          UserRole `json:"role" gorm:"uniqueIndex:idx_users_email_role;index"`

	// Customer fields
	Address string `json:"address"`

	// Provider fields
	ServiceArea  string     `json:"service_area,omitempty"`
	Services     StringList `json:"services,omitempty" gorm:"type:jsonb"`
	Description  string     `json:"description,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	Rating       float64    `json:"rating"`
	TotalRatings int        `json:"total_ratings"`

	ProfilePicture string `json:"profile_picture,omitempty"`

	ProvidedServices     []Service     `json:"provided_services,omitempty" gorm:"foreignKey:ProviderID"`
	Appointments         []Appointment `json:"appointments,omitempty" gorm:"foreignKey:ProviderID"`
	CustomerAppointments []Appointment `json:"customer_appointments,omitempty" gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddRating folds a new review score into the provider's running average.
func (u *User) AddRating(score float64) {
	total := float64(u.Rating)*float64(u.TotalRatings) + score
	u.TotalRatings++
	u.Rating = total / float64(u.TotalRatings)
}
