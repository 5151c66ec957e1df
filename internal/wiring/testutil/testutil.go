package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/devprbtt/wiringmaster/internal/database"
	"github.com/devprbtt/wiringmaster/internal/wiring/entity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens a private in-memory SQLite database and runs the real
// migrations against it. The database is dropped when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: database.Now,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	// a shared-cache memory database lives as long as one connection does
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupRouter creates a gin engine in test mode
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// DoRequest executes a JSON request against the router
func DoRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = strings.NewReader(b)
	default:
		jsonBytes, _ := json.Marshal(b)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DoUpload posts a multipart form with a single file part. An empty field
// name sends a form without any file part.
func DoUpload(r http.Handler, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, _ := mw.CreateFormFile(field, filename)
		part.Write(content)
	} else {
		mw.WriteField("note", "no file")
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes a JSON object body
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// ParseList decodes a JSON array body
func ParseList(w *httptest.ResponseRecorder) []map[string]interface{} {
	var result []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func strPtr(s string) *string { return &s }

var (
	seedEpoch = database.Now().Add(-time.Hour)
	seedClock atomic.Int64
)

// stamp hands out strictly increasing timestamps so seeded rows have a
// stable creation order. Every stamp predates anything the services write.
func stamp() time.Time {
	n := seedClock.Add(1)
	return seedEpoch.Add(time.Duration(n) * time.Microsecond)
}

// SeedDevice inserts a catalog device directly, bypassing the service layer.
func SeedDevice(t *testing.T, db *gorm.DB, brand, model, category string) *entity.Device {
	t.Helper()
	now := stamp()
	device := &entity.Device{
		ID:        uuid.New().String(),
		Brand:     brand,
		Model:     model,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("Failed to seed device: %v", err)
	}
	return device
}

// SeedDeviceIO inserts one connector on deviceID.
func SeedDeviceIO(t *testing.T, db *gorm.DB, deviceID, label, connector, gender, direction string) *entity.DeviceIO {
	t.Helper()
	now := stamp()
	io := &entity.DeviceIO{
		ID:            uuid.New().String(),
		DeviceID:      deviceID,
		Label:         label,
		ConnectorType: connector,
		Gender:        gender,
		Direction:     direction,
		SignalType:    "audio",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(io).Error; err != nil {
		t.Fatalf("Failed to seed device io: %v", err)
	}
	return io
}

// SeedDiagram inserts an empty diagram.
func SeedDiagram(t *testing.T, db *gorm.DB, name string) *entity.Diagram {
	t.Helper()
	now := stamp()
	diagram := &entity.Diagram{
		ID:         uuid.New().String(),
		Name:       name,
		ClientName: strPtr("Test Client"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(diagram).Error; err != nil {
		t.Fatalf("Failed to seed diagram: %v", err)
	}
	return diagram
}

// SeedDiagramDevice places deviceID on diagramID at (x, y).
func SeedDiagramDevice(t *testing.T, db *gorm.DB, diagramID, deviceID string, x, y float64) *entity.DiagramDevice {
	t.Helper()
	now := stamp()
	dd := &entity.DiagramDevice{
		ID:        uuid.New().String(),
		DiagramID: diagramID,
		DeviceID:  deviceID,
		PositionX: x,
		PositionY: y,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(dd).Error; err != nil {
		t.Fatalf("Failed to seed diagram device: %v", err)
	}
	return dd
}

// SeedConnection wires source to target on diagramID.
func SeedConnection(t *testing.T, db *gorm.DB, diagramID string, src *entity.DiagramDevice, srcIO *entity.DeviceIO, dst *entity.DiagramDevice, dstIO *entity.DeviceIO) *entity.Connection {
	t.Helper()
	now := stamp()
	conn := &entity.Connection{
		ID:                    uuid.New().String(),
		DiagramID:             diagramID,
		SourceDiagramDeviceID: src.ID,
		SourceIOID:            srcIO.ID,
		TargetDiagramDeviceID: dst.ID,
		TargetIOID:            dstIO.ID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := db.Create(conn).Error; err != nil {
		t.Fatalf("Failed to seed connection: %v", err)
	}
	return conn
}

// Count returns the number of rows in model's table matching where.
func Count(t *testing.T, db *gorm.DB, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
