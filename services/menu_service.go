package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"dispensary_admin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryInUse = errors.New("category still referenced by products")

// MenuService owns the draft catalog. Every draft mutation records a
// pending change; Publish folds the accumulated changes into the
// append-only log and rewrites the last-published snapshot that Discard
// restores from. Single-writer: one operator session at a time.
type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) CreateProduct(ctx context.Context, product *models.MenuProduct) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product.Deleted = false
		product.UpdatedAt = time.Now()
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		return appendChange(tx, models.PendingChange{
			Kind:        models.ChangeNew,
			ProductID:   product.ID,
			ProductName: product.Name,
			After:       product.Name,
		})
	})
}

// UpdateProduct merges an edit onto the draft product. Price and
// inventory edits get their own change entries even when they arrive in
// the same save; the remaining field edits fold into one details entry.
func (s *MenuService) UpdateProduct(ctx context.Context, id int64, product *models.MenuProduct) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := &models.MenuProduct{}
		if err := tx.Where("deleted = ?", false).First(existing, id).Error; err != nil {
			return err
		}

		var changes []models.PendingChange
		if !existing.Price.Equal(product.Price) {
			changes = append(changes, models.PendingChange{
				Kind:        models.ChangePrice,
				ProductID:   existing.ID,
				ProductName: product.Name,
				Before:      existing.Price.StringFixed(2),
				After:       product.Price.StringFixed(2),
			})
		}
		if existing.Inventory != product.Inventory {
			changes = append(changes, models.PendingChange{
				Kind:        models.ChangeInventory,
				ProductID:   existing.ID,
				ProductName: product.Name,
				Before:      strconv.Itoa(existing.Inventory),
				After:       strconv.Itoa(product.Inventory),
			})
		}
		if existing.Active != product.Active {
			changes = append(changes, models.PendingChange{
				Kind:        models.ChangeStatus,
				ProductID:   existing.ID,
				ProductName: product.Name,
				Before:      activeLabel(existing.Active),
				After:       activeLabel(product.Active),
			})
		}
		if fields := detailFields(existing, product); len(fields) > 0 {
			changes = append(changes, models.PendingChange{
				Kind:        models.ChangeDetails,
				ProductID:   existing.ID,
				ProductName: product.Name,
				Before:      existing.Name,
				After:       strings.Join(fields, ", ") + " updated",
			})
		}

		existing.Name = product.Name
		existing.Description = product.Description
		existing.SKU = product.SKU
		existing.Price = product.Price
		existing.Inventory = product.Inventory
		existing.CategoryID = product.CategoryID
		existing.Active = product.Active
		existing.LowStockThreshold = product.LowStockThreshold
		existing.Featured = product.Featured
		existing.ImageURL = product.ImageURL
		existing.UpdatedAt = time.Now()
		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		*product = *existing

		for _, change := range changes {
			if err := appendChange(tx, change); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteProduct soft-deletes a draft product; the row survives until the
// delete is published so the change entry keeps its display name.
func (s *MenuService) DeleteProduct(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := &models.MenuProduct{}
		if err := tx.Where("deleted = ?", false).First(product, id).Error; err != nil {
			return err
		}
		if err := tx.Model(product).
			Updates(map[string]interface{}{"deleted": true, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		return appendChange(tx, models.PendingChange{
			Kind:        models.ChangeDelete,
			ProductID:   product.ID,
			ProductName: product.Name,
			Before:      product.Name,
			After:       "removed",
		})
	})
}

func (s *MenuService) SetProductActive(ctx context.Context, id int64, active bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := &models.MenuProduct{}
		if err := tx.Where("deleted = ?", false).First(product, id).Error; err != nil {
			return err
		}
		if product.Active == active {
			return nil
		}
		if err := tx.Model(product).
			Updates(map[string]interface{}{"active": active, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		return appendChange(tx, models.PendingChange{
			Kind:        models.ChangeStatus,
			ProductID:   product.ID,
			ProductName: product.Name,
			Before:      activeLabel(!active),
			After:       activeLabel(active),
		})
	})
}

func (s *MenuService) Products(ctx context.Context) ([]models.MenuProduct, error) {
	var products []models.MenuProduct
	err := s.db.WithContext(ctx).Where("deleted = ?", false).Order("id").Find(&products).Error
	return products, err
}

func (s *MenuService) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *MenuService) UpdateCategory(ctx context.Context, id int64, category *models.MenuCategory) error {
	existing := &models.MenuCategory{}
	if err := s.db.WithContext(ctx).First(existing, id).Error; err != nil {
		return err
	}
	existing.Name = category.Name
	existing.Icon = category.Icon
	existing.DisplayOrder = category.DisplayOrder
	existing.Active = category.Active
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return err
	}
	*category = *existing
	return nil
}

// DeleteCategory refuses while any draft product still references the
// category. The operator reassigns or deletes those products first; there
// is no cascading delete.
func (s *MenuService) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MenuProduct{}).
			Where("category_id = ? AND deleted = ?", id, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}
		return tx.Delete(&models.MenuCategory{}, id).Error
	})
}

func (s *MenuService) Categories(ctx context.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := s.db.WithContext(ctx).Order("display_order").Find(&categories).Error
	return categories, err
}

func (s *MenuService) PendingChanges(ctx context.Context) ([]models.PendingChange, error) {
	var changes []models.PendingChange
	err := s.db.WithContext(ctx).Order("id").Find(&changes).Error
	return changes, err
}

// Discard drops all pending changes and restores the catalog from the
// last-published snapshot. No-op when there is nothing to discard.
func (s *MenuService) Discard(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&models.PendingChange{}).Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			return nil
		}

		var products []models.MenuProduct
		var categories []models.MenuCategory
		snapshot := &models.MenuSnapshot{}
		err := tx.First(snapshot, 1).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if err := json.Unmarshal(snapshot.Products, &products); err != nil {
				return err
			}
			if err := json.Unmarshal(snapshot.Categories, &categories); err != nil {
				return err
			}
		}
		// Never published yet: the last-published catalog is empty.

		if err := clearTable(tx, &models.MenuProduct{}); err != nil {
			return err
		}
		if err := clearTable(tx, &models.MenuCategory{}); err != nil {
			return err
		}
		if len(products) > 0 {
			if err := tx.Create(&products).Error; err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}
		}
		return clearTable(tx, &models.PendingChange{})
	})
}

// Publish freezes the pending change list into one immutable log entry,
// clears it, and rewrites the snapshot so the draft becomes the new live
// state. No-op when nothing is pending; an empty publish never creates a
// log entry.
func (s *MenuService) Publish(ctx context.Context, operatorID string) (*models.PublishLogEntry, error) {
	var entry *models.PublishLogEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var changes []models.PendingChange
		if err := tx.Order("id").Find(&changes).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		frozen, err := json.Marshal(changes)
		if err != nil {
			return err
		}
		entry = &models.PublishLogEntry{
			ID:          uuid.NewString(),
			OperatorID:  operatorID,
			PublishedAt: time.Now(),
			Changes:     frozen,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		if err := clearTable(tx, &models.PendingChange{}); err != nil {
			return err
		}

		// Published deletes leave the draft for good.
		if err := tx.Where("deleted = ?", true).Delete(&models.MenuProduct{}).Error; err != nil {
			return err
		}
		return writeSnapshot(tx)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *MenuService) PublishLog(ctx context.Context) ([]models.PublishLogEntry, error) {
	var entries []models.PublishLogEntry
	err := s.db.WithContext(ctx).Order("published_at desc").Find(&entries).Error
	return entries, err
}

func appendChange(tx *gorm.DB, change models.PendingChange) error {
	change.CreatedAt = time.Now()
	return tx.Create(&change).Error
}

func writeSnapshot(tx *gorm.DB) error {
	var products []models.MenuProduct
	if err := tx.Where("deleted = ?", false).Order("id").Find(&products).Error; err != nil {
		return err
	}
	var categories []models.MenuCategory
	if err := tx.Order("id").Find(&categories).Error; err != nil {
		return err
	}
	rawProducts, err := json.Marshal(products)
	if err != nil {
		return err
	}
	rawCategories, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	if err := tx.Delete(&models.MenuSnapshot{}, 1).Error; err != nil {
		return err
	}
	return tx.Create(&models.MenuSnapshot{
		ID:         1,
		Products:   rawProducts,
		Categories: rawCategories,
		UpdatedAt:  time.Now(),
	}).Error
}

func clearTable(tx *gorm.DB, model interface{}) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error
}

func detailFields(before, after *models.MenuProduct) []string {
	var fields []string
	if before.Name != after.Name {
		fields = append(fields, "name")
	}
	if before.Description != after.Description {
		fields = append(fields, "description")
	}
	if before.SKU != after.SKU {
		fields = append(fields, "sku")
	}
	if before.CategoryID != after.CategoryID {
		fields = append(fields, "category")
	}
	if before.LowStockThreshold != after.LowStockThreshold {
		fields = append(fields, "low stock threshold")
	}
	if before.Featured != after.Featured {
		fields = append(fields, "featured")
	}
	if before.ImageURL != after.ImageURL {
		fields = append(fields, "image")
	}
	return fields
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
