package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MAHIRE-7/drive-clone/internal/database"
	"github.com/MAHIRE-7/drive-clone/internal/middleware"
	"github.com/MAHIRE-7/drive-clone/internal/storage"
	"github.com/MAHIRE-7/drive-clone/pkg/redisclient"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	return newRouter(t, db, nil)
}

// setupRouterWithCache backs the drive cache with an in-process redis,
// for the starred/recent endpoints.
func setupRouterWithCache(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return newRouter(t, db, redisclient.NewDriveCache(client))
}

func newRouter(t *testing.T, db *gorm.DB, cache *redisclient.DriveCache) *gin.Engine {
	t.Helper()

	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create disk store: %v", err)
	}

	r := gin.New()

	authHandler := NewAuthHandler(db)
	fileHandler := NewFileHandler(db, store, cache, nil)
	folderHandler := NewFolderHandler(db, nil)

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		protected.POST("/files/upload", fileHandler.UploadFile)
		protected.GET("/files", fileHandler.GetFiles)
		protected.GET("/files/shared", fileHandler.GetSharedFiles)
		protected.GET("/files/starred", fileHandler.GetStarredFiles)
		protected.GET("/files/recent", fileHandler.GetRecentFiles)
		protected.GET("/files/:id/download", fileHandler.DownloadFile)
		protected.DELETE("/files/:id", fileHandler.DeleteFile)
		protected.POST("/files/:id/share", fileHandler.ShareFile)
		protected.POST("/files/:id/star", fileHandler.StarFile)
		protected.DELETE("/files/:id/star", fileHandler.UnstarFile)

		protected.POST("/folders", folderHandler.CreateFolder)
		protected.GET("/folders", folderHandler.GetFolders)
		protected.GET("/folders/shared", folderHandler.GetSharedFolders)
		protected.DELETE("/folders/:id", folderHandler.DeleteFolder)
		protected.POST("/folders/:id/share", folderHandler.ShareFolder)
	}

	return r
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, r *gin.Engine, token, filename, folderID string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	fw.Write(content)

	if folderID != "" {
		mw.WriteField("folderId", folderID)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerUser creates an account and returns its token
func registerUser(t *testing.T, r *gin.Engine, email, name string) string {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("register %s: empty token", email)
	}

	return resp.Token
}

func getProfile(t *testing.T, r *gin.Engine, token string) map[string]interface{} {
	t.Helper()

	w := doJSON(r, http.MethodGet, "/api/auth/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	return profile
}
