package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a consignor: the person whose pieces the store
// sells on commission. CommissionRate is the percentage of the charged
// price credited to the supplier when one of their pieces sells.
type Supplier struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Email          *string        `gorm:"size:255" json:"email,omitempty"`
	Phone          *string        `gorm:"size:50" json:"phone,omitempty"`
	Address        *string        `gorm:"type:text" json:"address,omitempty"`
	CommissionRate int            `gorm:"default:50" json:"commission_rate"`
	AccountHolder  *string        `gorm:"size:255" json:"account_holder,omitempty"`
	AccountNumber  *string        `gorm:"size:100" json:"account_number,omitempty"`
	BankName       *string        `gorm:"size:255" json:"bank_name,omitempty"`
	PixKey         *string        `gorm:"size:255" json:"pix_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Pieces []Piece `gorm:"foreignKey:SupplierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
