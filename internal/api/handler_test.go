package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhammadRafly8/parkir-ukk/config"
	"github.com/MuhammadRafly8/parkir-ukk/internal/alert"
	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/db"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
	"github.com/MuhammadRafly8/parkir-ukk/internal/parking"
	"github.com/MuhammadRafly8/parkir-ukk/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router http.Handler
	db     *gorm.DB
	now    time.Time
}

// newTestServer wires the full router against a seeded in-memory database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	require.NoError(t, db.Seed(context.Background(), gormDB))

	ts := &testServer{db: gormDB, now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	s := store.NewGormStore(gormDB)
	alerts := alert.NewService(s, nil, 0.9)
	engine := parking.NewEngine(gormDB,
		parking.WithClock(func() time.Time { return ts.now }),
		parking.WithObserver(alerts),
	)
	h := NewHandler(s, engine, alerts, auth.NewService("test-secret", time.Hour), nil)
	ts.router = NewRouter(h, config.ServerConfig{RateLimitPerSec: 1000, CacheTTLSeconds: 60})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func TestErrorStatus(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: plate", parking.ErrValidation):      http.StatusBadRequest,
		fmt.Errorf("%w: name", store.ErrInvalid):            http.StatusBadRequest,
		fmt.Errorf("%w: area 9", parking.ErrNotFound):       http.StatusNotFound,
		fmt.Errorf("%w: LAINNYA", parking.ErrTariffMissing): http.StatusNotFound,
		parking.ErrAreaFull:                                 http.StatusConflict,
		parking.ErrAlreadyClosed:                            http.StatusConflict,
		parking.ErrAlreadyParked:                            http.StatusConflict,
		store.ErrConflict:                                   http.StatusConflict,
		parking.ErrInsufficientPayment:                      http.StatusUnprocessableEntity,
		parking.ErrLedgerUnderflow:                          http.StatusInternalServerError,
		fmt.Errorf("disk on fire"):                          http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, errorStatus(err), err.Error())
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "nobody", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := ts.login(t, "admin", "admin123")
	assert.NotEmpty(t, token)

	var logs []model.ActivityLog
	require.NoError(t, ts.db.Where("activity = ?", "Logged in").Find(&logs).Error)
	assert.Len(t, logs, 1)
}

func TestRoleChecks(t *testing.T) {
	ts := newTestServer(t)
	petugas := ts.login(t, "petugas1", "petugas123")
	owner := ts.login(t, "owner", "owner123")

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/sessions", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/api/areas", petugas, gin.H{"name": "Area C", "capacity": 5}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/api/sessions/entry", owner, gin.H{"plate": "B 1 A", "area_id": 1}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/api/reports", petugas, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/reports", owner, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/analytics", petugas, nil).Code)
}

func TestAreas_ListReflectsWrites(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, "admin", "admin123")

	var areas []areaResponse
	w := ts.do(t, http.MethodGet, "/api/areas", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &areas))
	require.Len(t, areas, 2)
	assert.Equal(t, 50, areas[0].Available)

	w = ts.do(t, http.MethodPost, "/api/areas", admin, gin.H{"name": "Area C", "capacity": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The cached list is dropped by the write.
	w = ts.do(t, http.MethodGet, "/api/areas", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &areas))
	assert.Len(t, areas, 3)

	w = ts.do(t, http.MethodPut, "/api/areas/999", admin, gin.H{"capacity": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(t, http.MethodPut, "/api/areas/abc", admin, gin.H{"capacity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlots_AdminManagesBays(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, "admin", "admin123")
	petugas := ts.login(t, "petugas1", "petugas123")

	w := ts.do(t, http.MethodPost, "/api/slots", petugas, gin.H{"area_id": 1, "number": "A-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPost, "/api/slots", admin, gin.H{"area_id": 1, "number": "A-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var slot model.Slot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slot))
	assert.Equal(t, model.SlotAvailable, slot.Status)

	w = ts.do(t, http.MethodPost, "/api/slots", admin, gin.H{"area_id": 1, "number": "A-01"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = ts.do(t, http.MethodPost, "/api/slots", admin, gin.H{"area_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(t, http.MethodPost, "/api/slots", admin, gin.H{"area_id": 999, "number": "Z-01"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/slots/%d", slot.ID), admin, gin.H{"status": "RUSAK", "reserved": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slot))
	assert.Equal(t, model.SlotBroken, slot.Status)
	assert.True(t, slot.Reserved)

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/slots/%d", slot.ID), admin, gin.H{"status": "PARKED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/slots?area_id=1&status=RUSAK", petugas, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var slots []model.Slot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slots))
	require.Len(t, slots, 1)
	assert.Equal(t, "A-01", slots[0].Number)

	w = ts.do(t, http.MethodGet, "/api/slots?area_id=x", petugas, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/slots/%d", slot.ID), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/slots/%d", slot.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_EntryAndExit(t *testing.T) {
	ts := newTestServer(t)
	petugas := ts.login(t, "petugas1", "petugas123")

	w := ts.do(t, http.MethodPost, "/api/sessions/entry", petugas, gin.H{
		"plate": "b 1234 xyz", "category": "MOBIL", "color": "Hitam", "owner_name": "Budi", "area_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session model.ParkingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, model.SessionOpen, session.Status)
	require.NotNil(t, session.Vehicle)
	assert.Equal(t, "B 1234 XYZ", session.Vehicle.Plate)

	w = ts.do(t, http.MethodPost, "/api/sessions/entry", petugas, gin.H{"plate": "B 1234 XYZ", "area_id": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/api/sessions/active?plate=b%201234%20%20xyz", petugas, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ts.now = ts.now.Add(2*time.Hour + time.Minute)

	w = ts.do(t, http.MethodPost, "/api/sessions/exit", petugas, gin.H{
		"ticket_code": session.TicketCode, "payment_method": "CASH", "amount_paid": 10000,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodPost, "/api/sessions/exit", petugas, gin.H{
		"ticket_code": session.TicketCode, "payment_method": "cash", "amount_paid": 20000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var receipt parking.Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, 3, receipt.Hours)
	assert.True(t, receipt.Fee.Equal(decimal.NewFromInt(15000)))
	assert.True(t, receipt.Change.Equal(decimal.NewFromInt(5000)))

	w = ts.do(t, http.MethodPost, "/api/sessions/exit", petugas, gin.H{
		"session_id": session.ID, "payment_method": "QRIS",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Scanning the same ticket again is refused as already closed.
	w = ts.do(t, http.MethodPost, "/api/sessions/exit", petugas, gin.H{
		"ticket_code": session.TicketCode, "payment_method": "QRIS",
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/sessions/exit", petugas, gin.H{
		"ticket_code": "unknown-ticket", "payment_method": "QRIS",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/sessions?status=closed", petugas, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []model.ParkingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	w = ts.do(t, http.MethodGet, "/api/sessions?start_date=2024-05-02&end_date=2024-05-01", petugas, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlerts_ManualAlert(t *testing.T) {
	ts := newTestServer(t)
	petugas := ts.login(t, "petugas1", "petugas123")

	w := ts.do(t, http.MethodPost, "/api/alerts", petugas, gin.H{"area_id": 1, "message": "Mirror damaged on B 1 A", "type": "KENDARAAN_RUSAK"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.AlertVehicleDamaged, created.Type)
	assert.Equal(t, model.SeverityWarning, created.Severity)

	w = ts.do(t, http.MethodPost, "/api/alerts", petugas, gin.H{"area_id": 1, "message": "x", "type": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/alerts/%d/read", created.ID), petugas, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/alerts?unread_only=true", petugas, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unread []model.Alert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unread))
	assert.Empty(t, unread)
}

func TestSubscriptions_OwnedByCaller(t *testing.T) {
	ts := newTestServer(t)
	petugas := ts.login(t, "petugas1", "petugas123")
	admin := ts.login(t, "admin", "admin123")

	sub := gin.H{"endpoint": "https://push.example/abc", "p256dh": "key", "auth": "secret"}
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPut, "/api/subscriptions", petugas, sub).Code)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", petugas, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", admin, nil).Code)

	del := gin.H{"endpoint": "https://push.example/abc"}
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodDelete, "/api/subscriptions", admin, del).Code)
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/subscriptions", petugas, del).Code)
}

func TestVAPIDPublicKey_NotConfigured(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/api/vapid_public_key", "", nil).Code)
}
