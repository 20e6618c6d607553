package models

import "time"

// StoreSettings is the single-row store configuration edited from the
// back-office. The fixed primary key enforces the single row.
type StoreSettings struct {
	ID                int       `gorm:"column:id;primaryKey"`
	StoreName         string    `gorm:"column:store_name;not null"`
	ContactEmail      string    `gorm:"column:contact_email;not null"`
	ContactPhone      *string   `gorm:"column:contact_phone"`
	Address           *string   `gorm:"column:address"`
	CurrencyCode      string    `gorm:"column:currency_code;not null;default:'USD'"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null;default:5"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SettingsRowID is the primary key of the only StoreSettings row.
const SettingsRowID = 1
