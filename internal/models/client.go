package models

import "time"

// Client is the root of ownership for sub-accounts.
type Client struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (Client) TableName() string { return "clients" }

// SubAccount belongs to a client and is the unit that holds positions and
// places orders. Name is only required to be unique among a client's
// *active* sub-accounts.
type SubAccount struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	ClientID  int64            `json:"client_id"`
	Status    SubAccountStatus `json:"status"`
}

func (SubAccount) TableName() string { return "sub_accounts" }

func (s *SubAccount) IsActive() bool { return s.Status == SubAccountActive }
