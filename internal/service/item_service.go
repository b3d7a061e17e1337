package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"fleamarket/internal/cache"
	"fleamarket/internal/events"
	"fleamarket/internal/logger"
	"fleamarket/internal/metrics"
	"fleamarket/internal/storage"
	"fleamarket/models"

	"gorm.io/gorm"
)

// MaxPage bounds the page number accepted by ListPage.
const MaxPage = 10000

var (
	ErrItemNotFound = errors.New("item not found")
	ErrForbidden    = errors.New("user not authorized to perform this action")
)

type ItemService struct {
	db        *gorm.DB
	storage   storage.Storage
	cache     cache.ItemCache
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewItemService(db *gorm.DB, store storage.Storage, itemCache cache.ItemCache, publisher events.Publisher, m *metrics.Metrics, log logger.Logger) *ItemService {
	return &ItemService{
		db:        db,
		storage:   store,
		cache:     itemCache,
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// Create validates form and persists a new item owned by ownerID. The image
// is stored first and removed again if the row cannot be written.
func (s *ItemService) Create(ctx context.Context, ownerID uint, form *models.ItemForm) (*models.Item, error) {
	if err := form.Validate(true); err != nil {
		s.metrics.ValidationFailures.WithLabelValues("item").Inc()
		return nil, err
	}

	key, err := s.saveImage(ctx, form.Image)
	if err != nil {
		return nil, err
	}

	item := &models.Item{UserID: ownerID, ImageKey: key}
	form.ApplyTo(item)

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		s.logger.Errorf("ItemService.Create: insert failed for user %d: %v", ownerID, err)
		s.removeImage(ctx, key)
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Infof("ItemService.Create: item %d created by user %d", item.ID, ownerID)
	s.metrics.ItemsCreated.Inc()
	s.publish(ctx, events.SubjectItemCreated, item)
	return item, nil
}

// Find returns the item with its seller, reading through the cache.
func (s *ItemService) Find(ctx context.Context, id uint) (*models.Item, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warnf("ItemService.Find: cache read for item %d failed: %v", id, err)
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, item); err != nil {
		s.logger.Warnf("ItemService.Find: cache write for item %d failed: %v", id, err)
	}
	return item, nil
}

// FindOwned returns the item only when actorID owns it.
func (s *ItemService) FindOwned(ctx context.Context, actorID, id uint) (*models.Item, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actorID, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies form to the item. Ownership is checked before the form is
// looked at; a rejected form leaves the row untouched. Without a new image the
// current one is kept.
func (s *ItemService) Update(ctx context.Context, actorID, id uint, form *models.ItemForm) (*models.Item, error) {
	item, err := s.FindOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if err := form.Validate(false); err != nil {
		s.metrics.ValidationFailures.WithLabelValues("item").Inc()
		return nil, err
	}

	oldKey := item.ImageKey
	newKey := ""
	if form.Image != nil {
		if newKey, err = s.saveImage(ctx, form.Image); err != nil {
			return nil, err
		}
		item.ImageKey = newKey
	}
	form.ApplyTo(item)

	if err := s.db.WithContext(ctx).Omit("User").Save(item).Error; err != nil {
		s.logger.Errorf("ItemService.Update: save of item %d failed: %v", id, err)
		if newKey != "" {
			s.removeImage(ctx, newKey)
		}
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	if newKey != "" {
		s.removeImage(ctx, oldKey)
	}
	if err := s.cache.Set(ctx, item); err != nil {
		s.logger.Warnf("ItemService.Update: cache refresh for item %d failed: %v", id, err)
		s.invalidate(ctx, id)
	}

	s.logger.Infof("ItemService.Update: item %d updated by user %d", id, actorID)
	s.metrics.ItemsUpdated.Inc()
	s.publish(ctx, events.SubjectItemUpdated, item)
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, actorID, id uint) error {
	item, err := s.FindOwned(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Item{}, id).Error; err != nil {
		s.logger.Errorf("ItemService.Delete: delete of item %d failed: %v", id, err)
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	s.removeImage(ctx, item.ImageKey)
	s.invalidate(ctx, id)

	s.logger.Infof("ItemService.Delete: item %d deleted by user %d", id, actorID)
	s.metrics.ItemsDeleted.Inc()
	s.publish(ctx, events.SubjectItemDeleted, item)
	return nil
}

// List returns every item, newest first.
func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListPage returns one page of items, optionally filtered by category. Pages
// past MaxPage are empty.
func (s *ItemService) ListPage(ctx context.Context, categoryID uint, page, limit int) ([]models.Item, int64, error) {
	if page < 1 {
		page = 1
	}
	query := s.db.WithContext(ctx).Model(&models.Item{})
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	var items []models.Item
	if page > MaxPage {
		return items, total, nil
	}
	err := query.Preload("User").
		Order("created_at desc, id desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

func (s *ItemService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// ImageURL returns the public URL of the item's image.
func (s *ItemService) ImageURL(item *models.Item) string {
	if item == nil || item.ImageKey == "" {
		return ""
	}
	return s.storage.URL(item.ImageKey)
}

func (s *ItemService) load(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Preload("User").First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load item %d: %w", id, err)
	}
	return &item, nil
}

func (s *ItemService) authorize(actorID uint, item *models.Item) error {
	if !item.OwnedBy(actorID) {
		s.logger.Warnf("ItemService: user %d is not the owner of item %d (owner %d)", actorID, item.ID, item.UserID)
		return ErrForbidden
	}
	return nil
}

func (s *ItemService) saveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()

	key, err := s.storage.Save(ctx, fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		s.logger.Errorf("ItemService: storing image %s failed: %v", fh.Filename, err)
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

func (s *ItemService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warnf("ItemService: removing image %s failed: %v", key, err)
	}
}

func (s *ItemService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warnf("ItemService: cache invalidation for item %d failed: %v", id, err)
	}
}

func (s *ItemService) publish(ctx context.Context, subject string, item *models.Item) {
	evt := events.ItemEvent{
		ItemID:     item.ID,
		UserID:     item.UserID,
		Name:       item.Name,
		Price:      item.Price,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, subject, evt); err != nil {
		s.logger.Warnf("ItemService: publish %s for item %d failed: %v", subject, item.ID, err)
	}
}
