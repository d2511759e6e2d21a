package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

const insertBatchSize = 200

// GormPrototypeRepository stores the prototype catalog in the prototypes table.
// It implements catalog.Store.
type GormPrototypeRepository struct {
	db *gorm.DB
}

// NewGormPrototypeRepository creates a new GORM prototype repository
func NewGormPrototypeRepository(db *gorm.DB) *GormPrototypeRepository {
	return &GormPrototypeRepository{db: db}
}

// Describe names the source in logs and load errors
func (r *GormPrototypeRepository) Describe() string {
	return "database:prototypes"
}

// Load reads every stored prototype into a document
func (r *GormPrototypeRepository) Load(ctx context.Context) (*catalog.Document, error) {
	var models []PrototypeModel
	result := r.db.WithContext(ctx).Order("category, proto_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list prototypes: %w", result.Error)
	}

	doc := catalog.NewDocument()
	for _, model := range models {
		category, ok := catalog.ParseCategory(model.Category)
		if !ok {
			continue
		}
		fields, err := decodePayload(model.Payload)
		if err != nil {
			return nil, &catalog.LoadError{
				Source: r.Describe(),
				Reason: fmt.Sprintf("%s %d payload", model.Category, model.ProtoID),
				Err:    err,
			}
		}
		key := catalog.ID(model.ProtoID).String()
		if err := doc.ParseEntry(category, key, fields); err != nil {
			return nil, &catalog.LoadError{
				Source: r.Describe(),
				Reason: fmt.Sprintf("%s %d", model.Category, model.ProtoID),
				Err:    err,
			}
		}
	}
	return doc, nil
}

// Save replaces the whole table with doc in one transaction
func (r *GormPrototypeRepository) Save(ctx context.Context, doc *catalog.Document) (int, error) {
	models := make([]PrototypeModel, 0, doc.Size())
	for _, category := range catalog.RegistrationOrder {
		for _, id := range doc.IDs(category) {
			fields, _ := doc.Fields(category, id)
			payload, err := json.Marshal(fields)
			if err != nil {
				return 0, fmt.Errorf("failed to encode %s %d: %w", category, id, err)
			}
			name, _ := fields["name"].(string)
			models = append(models, PrototypeModel{
				Category: string(category),
				ProtoID:  int64(id),
				Name:     name,
				Payload:  string(payload),
			})
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&PrototypeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear prototypes: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(models, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert prototypes: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(models), nil
}

// FindByName returns the stored rows carrying a raw name, across categories
func (r *GormPrototypeRepository) FindByName(ctx context.Context, name string) ([]PrototypeModel, error) {
	var models []PrototypeModel
	result := r.db.WithContext(ctx).Where("name = ?", name).Order("proto_id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find prototypes by name: %w", result.Error)
	}
	return models, nil
}

// RecordImport appends an entry to the import log
func (r *GormPrototypeRepository) RecordImport(ctx context.Context, source string, entries int) (string, error) {
	model := CatalogImportModel{
		ID:         uuid.New().String(),
		Source:     source,
		Entries:    entries,
		ImportedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return "", fmt.Errorf("failed to record catalog import: %w", err)
	}
	return model.ID, nil
}

// LatestImport returns the most recent import log entry, nil when none exists
func (r *GormPrototypeRepository) LatestImport(ctx context.Context) (*CatalogImportModel, error) {
	var model CatalogImportModel
	result := r.db.WithContext(ctx).Order("imported_at DESC").Limit(1).Find(&model)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read catalog imports: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &model, nil
}

func decodePayload(payload string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
