package models

import "time"

// BlacklistedToken stores access tokens revoked at logout. A token found here
// is rejected even before its natural expiry.
type BlacklistedToken struct {
	ID      uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Token   string    `gorm:"column:token;uniqueIndex;not null"`
	AddedAt time.Time `gorm:"column:added_at;autoCreateTime"`
}

// UsedEmailToken marks one-shot email confirmation/reset tokens as consumed.
type UsedEmailToken struct {
	ID     uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Token  string    `gorm:"column:token;uniqueIndex;not null"`
	UsedAt time.Time `gorm:"column:used_at;autoCreateTime"`
}
