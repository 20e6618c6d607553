package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned app-side so inserts behave the same on every backend.
// The column defaults stay as a safety net for rows created outside gorm.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *Product) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (m *Customer) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *Order) BeforeCreate(*gorm.DB) error             { ensureID(&m.ID); return nil }
func (m *OrderLineItem) BeforeCreate(*gorm.DB) error     { ensureID(&m.ID); return nil }
func (m *Purchase) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *PurchaseLineItem) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }
func (m *Quotation) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *QuotationLineItem) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *Receipt) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (m *Banner) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *Notification) BeforeCreate(*gorm.DB) error      { ensureID(&m.ID); return nil }
func (m *User) BeforeCreate(*gorm.DB) error              { ensureID(&m.ID); return nil }
