package pages

import (
	"context"
	"database/sql"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/contact"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testProvider 测试数据库提供者
type testProvider struct {
	db *gorm.DB
}

func (p *testProvider) DB() *gorm.DB {
	return p.db
}

func (p *testProvider) WithContext(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx)
}

func (p *testProvider) Transaction(fn database.TxFunc) error {
	return p.db.Transaction(fn)
}

func (p *testProvider) TransactionWithContext(ctx context.Context, fn database.TxFunc) error {
	return p.db.WithContext(ctx).Transaction(fn)
}

func (p *testProvider) AutoMigrate(models ...interface{}) error {
	return p.db.AutoMigrate(models...)
}

func (p *testProvider) SQLDB() (*sql.DB, error) {
	return p.db.DB()
}

func (p *testProvider) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (p *testProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *testProvider) Name() string {
	return "sqlite"
}

func setupPagesRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.ContactMessage{}))

	handler := NewHandler(contact.NewRepository(&testProvider{db: db}))

	tmpl := template.New("")
	template.Must(tmpl.New("home.html").Parse(`home`))
	template.Must(tmpl.New("about-us.html").Parse(`about`))
	template.Must(tmpl.New("contact-us.html").Parse(
		`contact{{if .success}} thanks {{.form.Name}}{{end}}{{if .error}} {{.error}}{{end}}`))

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.GET("/", handler.Home)
	router.GET("/about-us", handler.AboutUs)
	router.GET("/contact-us", handler.GetContactUs)
	router.POST("/contact-us", handler.PostContactUs)
	return router, db
}

// --- 测试静态页 ---

func TestStaticPages(t *testing.T) {
	router, _ := setupPagesRouter(t)

	for _, path := range []string{"/", "/about-us", "/contact-us"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
	}
}

// --- 测试联系表单 ---

func TestPostContactUs(t *testing.T) {
	router, db := setupPagesRouter(t)

	form := url.Values{
		"name":    {"Helen"},
		"email":   {"helen@example.com"},
		"subject": {"Hello"},
		"message": {"Nice site!"},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact-us", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "thanks Helen")

	var saved models.ContactMessage
	assert.NoError(t, db.Where("email = ?", "helen@example.com").First(&saved).Error)
	assert.Equal(t, "Hello", saved.Subject)
	assert.Equal(t, "Nice site!", saved.Message)
	assert.False(t, saved.SubmissionDate.IsZero())
}
