package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// FreeLevelSessionID marks purchases granted without a checkout round trip.
const FreeLevelSessionID = "FREE_LEVEL_1"

type LevelPurchase struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;index;size:255"`
	LevelID uint   `json:"level_id" gorm:"not null;index"`

	SessionID     string        `json:"session_id" gorm:"not null;uniqueIndex;size:255"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"not null;size:50;default:pending"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"size:10;default:INR"`

	PurchasedAt time.Time  `json:"purchased_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User  `json:"-" gorm:"foreignKey:UserID"`
	Level Level `json:"-" gorm:"foreignKey:LevelID"`
}

func (LevelPurchase) TableName() string {
	return "level_purchases"
}
