package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch is a physical clinic location belonging to one tenant
type Branch struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:char(36);not null;index" json:"tenantId"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Address   *string   `gorm:"size:500" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for Branch model
func (Branch) TableName() string {
	return "branches"
}

func (b *Branch) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BranchResponse is the public representation of a branch
type BranchResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address *string   `json:"address"`
}

func NewBranchResponse(b Branch) BranchResponse {
	return BranchResponse{ID: b.ID, Name: b.Name, Address: b.Address}
}
