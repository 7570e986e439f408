package models

import "time"

// DropTransaction is one append-only ledger entry. Rows are never updated
// or deleted; refunds are new positive entries, not reversals in place.
// The sum of an account's entries always equals its DropsBalance.
type DropTransaction struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Amount int64  `gorm:"not null" json:"amount"` // positive = credit, negative = debit
	Kind   string `gorm:"size:30;not null;index:idx_tx_kind_ref,unique" json:"kind"`
	// Reference identifies the event that caused this entry (session id,
	// challenge id, redemption ref). Unique together with Kind so a retried
	// credit can never apply twice. Nil when the caller needs no such guard.
	Reference *string   `gorm:"size:128;index:idx_tx_kind_ref,unique" json:"reference"`
	GymID     *uint     `gorm:"index" json:"gym_id"` // set when the entry also moves a local balance
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (DropTransaction) TableName() string {
	return "drop_transactions"
}
