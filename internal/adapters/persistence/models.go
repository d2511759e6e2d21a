package persistence

import (
	"time"
)

// PrototypeModel represents the prototypes table. One row per catalog entry.
type PrototypeModel struct {
	Category string `gorm:"column:category;primaryKey"`
	ProtoID  int64  `gorm:"column:proto_id;primaryKey;autoIncrement:false"`
	Name     string `gorm:"column:name;index"`
	Payload  string `gorm:"column:payload;type:text;not null"` // JSON object as text
}

func (PrototypeModel) TableName() string {
	return "prototypes"
}

// CatalogImportModel represents the catalog_imports table
type CatalogImportModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Source     string    `gorm:"column:source;not null"`
	Entries    int       `gorm:"column:entries;not null"`
	ImportedAt time.Time `gorm:"column:imported_at;not null"`
}

func (CatalogImportModel) TableName() string {
	return "catalog_imports"
}
