package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fleamarket/config"
	"fleamarket/internal/cache"
	"fleamarket/internal/events"
	"fleamarket/internal/logger"
	"fleamarket/internal/metrics"
	"fleamarket/internal/service"
	"fleamarket/internal/storage"
	"fleamarket/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	baseURL      = "http://furima.test"
	testPassword = "abc123"
)

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	items *service.ItemService
	users *service.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.NewNop()

	db, err := config.OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, log))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{
		AppName:       "FURIMA",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		Storage: config.StorageConfig{
			Driver:    "local",
			UploadDir: t.TempDir(),
			URLPrefix: "/uploads",
		},
	}
	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.URLPrefix, log)
	require.NoError(t, err)

	m := metrics.New("test")
	items := service.NewItemService(db, store, cache.NoopItemCache{}, events.NoopPublisher{}, m, log)
	users := service.NewUserService(db, log)

	app := New(Deps{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Storage: store,
		Items:   items,
		Users:   users,
		Metrics: m,
	})
	return &testApp{app: app, db: db, items: items, users: users}
}

func (a *testApp) createUser(t *testing.T, nickname string) *models.User {
	t.Helper()
	user, err := a.users.Register(context.Background(), &models.RegistrationForm{
		Nickname:             nickname,
		Email:                nickname + "@example.com",
		Password:             testPassword,
		PasswordConfirmation: testPassword,
		LastName:             "山田",
		FirstName:            "太郎",
		LastNameKana:         "ヤマダ",
		FirstNameKana:        "タロウ",
		BirthDate:            "1990-01-01",
	})
	require.NoError(t, err)
	return user
}

func (a *testApp) createItem(t *testing.T, owner *models.User, name string) *models.Item {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("item[image]", "sample.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, w.Close())
	mf, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { mf.RemoveAll() })

	item, err := a.items.Create(context.Background(), owner.ID, &models.ItemForm{
		Image:               mf.File["item[image]"][0],
		Name:                name,
		Info:                "テスト用の商品説明です",
		CategoryID:          2,
		SalesStatusID:       2,
		ShippingFeeStatusID: 2,
		PrefectureID:        2,
		ScheduledDeliveryID: 2,
		Price:               "1000",
	})
	require.NoError(t, err)
	return item
}

func (a *testApp) itemCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Model(&models.Item{}).Count(&n).Error)
	return n
}

func (a *testApp) reloadItem(t *testing.T, id uint) models.Item {
	t.Helper()
	var item models.Item
	require.NoError(t, a.db.First(&item, id).Error)
	return item
}

// browser drives the app through app.Test while keeping cookies between requests.
type browser struct {
	t    *testing.T
	app  *fiber.App
	jar  *cookiejar.Jar
	path string
}

func (a *testApp) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, app: a.app, jar: jar}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for _, c := range b.jar.Cookies(req.URL) {
		req.AddCookie(c)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	b.jar.SetCookies(req.URL, resp.Cookies())
	b.path = req.URL.Path
	return resp
}

// visit performs a GET and follows redirects.
func (b *browser) visit(path string) (*http.Response, *goquery.Document) {
	b.t.Helper()
	return b.follow(b.do(httptest.NewRequest(http.MethodGet, baseURL+path, nil)))
}

func (b *browser) follow(resp *http.Response) (*http.Response, *goquery.Document) {
	b.t.Helper()
	for i := 0; i < 5 && isRedirect(resp.StatusCode); i++ {
		resp.Body.Close()
		resp = b.do(httptest.NewRequest(http.MethodGet, baseURL+resp.Header.Get("Location"), nil))
	}
	return resp, document(b.t, resp)
}

func (b *browser) post(path string, form url.Values) *http.Response {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

type upload struct {
	field    string
	filename string
	content  []byte
}

func (b *browser) postMultipart(path string, fields map[string]string, file *upload) *http.Response {
	b.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.filename)
		require.NoError(b.t, err)
		_, err = part.Write(file.content)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, baseURL+path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func (b *browser) signIn(email, password string) *http.Response {
	b.t.Helper()
	_, doc := b.visit("/users/sign_in")
	return b.post("/users/sign_in", url.Values{
		"authenticity_token": {csrfToken(doc)},
		"user[email]":        {email},
		"user[password]":     {password},
	})
}

func (b *browser) signInAs(user *models.User) {
	b.t.Helper()
	resp := b.signIn(user.Email, testPassword)
	require.Equal(b.t, fiber.StatusFound, resp.StatusCode)
	require.Equal(b.t, "/", resp.Header.Get("Location"))
}

func isRedirect(code int) bool {
	return code == fiber.StatusFound || code == fiber.StatusSeeOther || code == fiber.StatusMovedPermanently
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func csrfToken(doc *goquery.Document) string {
	return doc.Find(`input[name="authenticity_token"]`).First().AttrOr("value", "")
}

func itemFields(doc *goquery.Document, overrides map[string]string) map[string]string {
	fields := map[string]string{
		"authenticity_token":           csrfToken(doc),
		"item[name]":                   "テスト商品",
		"item[info]":                   "テスト用の商品説明です",
		"item[category_id]":            "2",
		"item[sales_status_id]":        "2",
		"item[shipping_fee_status_id]": "2",
		"item[prefecture_id]":          "2",
		"item[scheduled_delivery_id]":  "2",
		"item[price]":                  "1000",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return fields
}

func pngUpload(filename string) *upload {
	return &upload{field: "item[image]", filename: filename, content: []byte("\x89PNG\r\n\x1a\n")}
}
