package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"testing"

	"fleamarket/config"
	"fleamarket/internal/cache"
	"fleamarket/internal/logger"
	"fleamarket/internal/metrics"
	"fleamarket/internal/storage"
	"fleamarket/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

type itemFixture struct {
	db        *gorm.DB
	store     *storage.LocalStorage
	publisher *MockPublisher
	metrics   *metrics.Metrics
	service   *ItemService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, logger.NewNop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newItemFixture(t *testing.T, itemCache cache.ItemCache) *itemFixture {
	t.Helper()
	db := newTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads", logger.NewNop())
	require.NoError(t, err)

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	m := metrics.New("test")
	return &itemFixture{
		db:        db,
		store:     store,
		publisher: pub,
		metrics:   m,
		service:   NewItemService(db, store, itemCache, pub, m, logger.NewNop()),
	}
}

func createUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Nickname:      nickname,
		Email:         nickname + "@example.com",
		Password:      "not-used",
		LastName:      "山田",
		FirstName:     "太郎",
		LastNameKana:  "ヤマダ",
		FirstNameKana: "タロウ",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// imageHeader builds a real multipart file header the way a browser upload arrives.
func imageHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("item[image]", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["item[image]"][0]
}

func validForm(t *testing.T) *models.ItemForm {
	return &models.ItemForm{
		Image:               imageHeader(t, "sample.png", []byte("png-bytes")),
		Name:                "テスト商品",
		Info:                "テスト用の商品説明です",
		CategoryID:          2,
		SalesStatusID:       2,
		ShippingFeeStatusID: 2,
		PrefectureID:        2,
		ScheduledDeliveryID: 2,
		Price:               "1000",
	}
}

func countItems(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Item{}).Count(&n).Error)
	return n
}
