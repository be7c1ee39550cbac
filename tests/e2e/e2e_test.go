package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trailbook/internal/database"
	"trailbook/internal/domain"
	"trailbook/internal/middleware"
	"trailbook/internal/modules/catalog"
	"trailbook/internal/modules/group"
	"trailbook/internal/modules/notification"
	"trailbook/internal/modules/pricing"
	"trailbook/internal/modules/realtime"
	"trailbook/internal/modules/reservation"
	"trailbook/internal/modules/waitlist"
	jwtsvc "trailbook/internal/pkg/jwt"
	"trailbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router      *gin.Engine
	db          *gorm.DB
	jwtService  *jwtsvc.Service
	waitlistSvc *waitlist.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	// Use in-memory SQLite for testing
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Experience{},
		&domain.Slot{},
		&domain.Booking{},
		&domain.Participant{},
		&domain.PaymentSplit{},
		&domain.WaitlistEntry{},
		&domain.Notification{},
	))

	experienceRepo := repository.NewExperienceRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txm := repository.NewTxManager(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService)

	prices := pricing.NewSlotPriceProvider(experienceRepo)

	catalogService := catalog.NewService(experienceRepo, prices, notificationService)
	catalogHandler := catalog.NewHandler(catalogService)

	reservationService := reservation.NewService(
		experienceRepo, inventoryRepo, bookingRepo, prices, txm, notificationService,
	)
	reservationHandler := reservation.NewHandler(reservationService)

	waitlistService := waitlist.NewService(
		waitlistRepo, experienceRepo, reservationService, notificationService, time.Hour,
	)
	waitlistHandler := waitlist.NewHandler(waitlistService)

	reservationService.AttachWaitlist(waitlistService)

	groupService := group.NewService(experienceRepo, prices, reservationService)
	groupHandler := group.NewHandler(groupService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		reservationHandler.RegisterRoutes(protected)
		groupHandler.RegisterRoutes(protected)
		waitlistHandler.RegisterRoutes(protected)
		notificationHandler.RegisterRoutes(protected)
	}
	catalogHandler.RegisterRoutes(v1, protected)

	return &E2ETestSuite{
		router:      r,
		db:          db,
		jwtService:  jwtService,
		waitlistSvc: waitlistService,
	}
}

func (s *E2ETestSuite) createUser(t *testing.T, email string, role domain.UserRole) (*domain.User, string) {
	t.Helper()

	u := &domain.User{Email: email, Name: email, Role: role}
	require.NoError(t, s.db.Create(u).Error)

	token, err := s.jwtService.GenerateToken(u.ID, string(role))
	require.NoError(t, err)
	return u, token
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

const slotDate = "2026-09-12T00:00:00Z"

func (s *E2ETestSuite) createExperienceWithSlot(t *testing.T, hostToken string, capacity int) (experienceID, slotID int64) {
	t.Helper()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/experiences", map[string]interface{}{
		"title":      "Charyn Canyon Sunrise Tour",
		"location":   "Charyn",
		"base_price": 100.0,
		"slots": []map[string]interface{}{
			{"date": slotDate, "start_time": "09:00", "capacity": capacity},
		},
	}, hostToken)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	resp := parseResponse(t, w)
	exp := resp.Data["experience"].(map[string]interface{})
	experienceID = int64(exp["id"].(float64))
	slots := exp["slots"].([]interface{})
	slotID = int64(slots[0].(map[string]interface{})["id"].(float64))
	return experienceID, slotID
}

func bookingBody(experienceID int64, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"experience_id": experienceID,
		"date":          slotDate,
		"start_time":    "09:00",
		"quantity":      quantity,
	}
}

func TestCancellationFreesSeatsForWaitlist(t *testing.T) {
	s := setupTestSuite(t)

	_, hostToken := s.createUser(t, "host@test.kz", domain.RoleHost)
	_, aliceToken := s.createUser(t, "alice@test.kz", domain.RoleTraveler)
	_, bobToken := s.createUser(t, "bob@test.kz", domain.RoleTraveler)

	expID, slotID := s.createExperienceWithSlot(t, hostToken, 2)

	// Alice takes the whole slot
	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings", bookingBody(expID, 2), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	resp := parseResponse(t, w)
	aliceBooking := resp.Data["booking"].(map[string]interface{})
	aliceBookingID := int64(aliceBooking["id"].(float64))
	assert.NotEmpty(t, aliceBooking["reference"])
	assert.Equal(t, 200.0, aliceBooking["total_price"])

	// Bob cannot book a full slot
	w = s.makeRequest(t, http.MethodPost, "/api/v1/bookings", bookingBody(expID, 1), bobToken)
	require.Equal(t, http.StatusConflict, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, "SLOT_FULL", resp.Error.Code)

	// so he joins the waitlist
	w = s.makeRequest(t, http.MethodPost, "/api/v1/waitlist", map[string]interface{}{
		"experience_id": expID,
		"date":          slotDate,
		"start_time":    "09:00",
		"quantity":      1,
	}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	resp = parseResponse(t, w)
	entry := resp.Data["entry"].(map[string]interface{})
	entryID := int64(entry["id"].(float64))
	assert.Equal(t, "waiting", entry["status"])

	// joining twice is rejected
	w = s.makeRequest(t, http.MethodPost, "/api/v1/waitlist", map[string]interface{}{
		"experience_id": expID,
		"date":          slotDate,
		"start_time":    "09:00",
		"quantity":      1,
	}, bobToken)
	require.Equal(t, http.StatusConflict, w.Code)

	// Alice cancels, which should promote Bob to an offer
	w = s.makeRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d/cancel", aliceBookingID), nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	resp = parseResponse(t, w)
	cancelled := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "cancelled", cancelled["status"])
	assert.Equal(t, "refunded", cancelled["payment_status"])

	w = s.makeRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/waitlist/%d", entryID), nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	entry = resp.Data["entry"].(map[string]interface{})
	require.Equal(t, "offered", entry["status"])
	assert.NotNil(t, entry["expires_at"])

	// Bob accepts and gets a real booking
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/waitlist/%d/accept", entryID), nil, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	resp = parseResponse(t, w)
	bobBooking := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "confirmed", bobBooking["status"])
	assert.Equal(t, 100.0, bobBooking["total_price"])

	var slot domain.Slot
	require.NoError(t, s.db.First(&slot, slotID).Error)
	assert.Equal(t, 1, slot.BookedCount)

	// Bob's offer is consumed
	w = s.makeRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/waitlist/%d", entryID), nil, bobToken)
	resp = parseResponse(t, w)
	entry = resp.Data["entry"].(map[string]interface{})
	assert.Equal(t, "booked", entry["status"])
}

func TestGroupBookingDiscountAndSplits(t *testing.T) {
	s := setupTestSuite(t)

	_, hostToken := s.createUser(t, "host@test.kz", domain.RoleHost)
	_, organizerToken := s.createUser(t, "organizer@test.kz", domain.RoleTraveler)

	expID, slotID := s.createExperienceWithSlot(t, hostToken, 10)

	participants := []map[string]interface{}{
		{"name": "Asel", "email": "asel@test.kz"},
		{"name": "Bekzat", "email": "bekzat@test.kz"},
		{"name": "Dina", "email": "dina@test.kz"},
		{"name": "Timur", "email": "timur@test.kz"},
		{"name": "Gulnaz", "email": "gulnaz@test.kz"},
	}

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings/group", map[string]interface{}{
		"experience_id": expID,
		"date":          slotDate,
		"start_time":    "09:00",
		"participants":  participants,
	}, organizerToken)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	resp := parseResponse(t, w)
	booking := resp.Data["booking"].(map[string]interface{})

	// 5 seats at 100 with the 10% group tier
	assert.Equal(t, 50.0, booking["discount_amount"])
	assert.Equal(t, 450.0, booking["total_price"])
	assert.Equal(t, true, booking["is_group_booking"])

	bookingID := int64(booking["id"].(float64))

	var stored domain.Booking
	require.NoError(t, s.db.Preload("Participants").Preload("PaymentSplits").First(&stored, bookingID).Error)
	require.Len(t, stored.Participants, 5)
	require.Len(t, stored.PaymentSplits, 5)
	assert.True(t, stored.Participants[0].IsOrganizer)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentSplits[0].Status)

	var sum float64
	for _, split := range stored.PaymentSplits {
		sum += split.Amount
	}
	assert.InDelta(t, 450.0, sum, 0.001)

	var slot domain.Slot
	require.NoError(t, s.db.First(&slot, slotID).Error)
	assert.Equal(t, 5, slot.BookedCount)
}

func TestGroupBookingAllOrNothing(t *testing.T) {
	s := setupTestSuite(t)

	_, hostToken := s.createUser(t, "host@test.kz", domain.RoleHost)
	_, aliceToken := s.createUser(t, "alice@test.kz", domain.RoleTraveler)
	_, organizerToken := s.createUser(t, "organizer@test.kz", domain.RoleTraveler)

	expID, slotID := s.createExperienceWithSlot(t, hostToken, 4)

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings", bookingBody(expID, 2), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// a party of 3 does not fit into the 2 remaining seats
	w = s.makeRequest(t, http.MethodPost, "/api/v1/bookings/group", map[string]interface{}{
		"experience_id": expID,
		"date":          slotDate,
		"start_time":    "09:00",
		"participants": []map[string]interface{}{
			{"name": "Asel", "email": "asel@test.kz"},
			{"name": "Bekzat", "email": "bekzat@test.kz"},
			{"name": "Dina", "email": "dina@test.kz"},
		},
	}, organizerToken)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "SLOT_FULL", resp.Error.Code)

	var slot domain.Slot
	require.NoError(t, s.db.First(&slot, slotID).Error)
	assert.Equal(t, 2, slot.BookedCount, "a rejected group must not take partial seats")
}

func TestHostCapacityAdjustment(t *testing.T) {
	s := setupTestSuite(t)

	_, hostToken := s.createUser(t, "host@test.kz", domain.RoleHost)
	_, otherHostToken := s.createUser(t, "other@test.kz", domain.RoleHost)
	_, travelerToken := s.createUser(t, "alice@test.kz", domain.RoleTraveler)

	expID, slotID := s.createExperienceWithSlot(t, hostToken, 5)

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings", bookingBody(expID, 3), travelerToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// shrinking below the booked count is refused
	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/slots/%d/capacity", slotID),
		map[string]interface{}{"capacity": 2}, hostToken)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "CAPACITY_BELOW_BOOKED", resp.Error.Code)

	// shrinking to exactly the booked count is fine
	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/slots/%d/capacity", slotID),
		map[string]interface{}{"capacity": 3}, hostToken)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	// a different host cannot touch the slot
	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/slots/%d/capacity", slotID),
		map[string]interface{}{"capacity": 10}, otherHostToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	// travelers cannot reach host endpoints at all
	w = s.makeRequest(t, http.MethodPatch, fmt.Sprintf("/api/v1/slots/%d/capacity", slotID),
		map[string]interface{}{"capacity": 10}, travelerToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestSweepExpiredReoffersSeats(t *testing.T) {
	s := setupTestSuite(t)

	_, hostToken := s.createUser(t, "host@test.kz", domain.RoleHost)
	_, aliceToken := s.createUser(t, "alice@test.kz", domain.RoleTraveler)
	bob, _ := s.createUser(t, "bob@test.kz", domain.RoleTraveler)
	carol, _ := s.createUser(t, "carol@test.kz", domain.RoleTraveler)

	expID, slotID := s.createExperienceWithSlot(t, hostToken, 1)

	w := s.makeRequest(t, http.MethodPost, "/api/v1/bookings", bookingBody(expID, 1), aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse(t, w)
	aliceBookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	// Bob holds an offer that has already timed out, Carol is waiting
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, s.db.Create(&domain.WaitlistEntry{
		SlotID: slotID, UserID: bob.ID, Quantity: 1,
		Status: domain.WaitlistOffered, ExpiresAt: &expired,
	}).Error)
	require.NoError(t, s.db.Create(&domain.WaitlistEntry{
		SlotID: slotID, UserID: carol.ID, Quantity: 1,
		Status: domain.WaitlistWaiting,
	}).Error)

	// free the seat so the cascade has something to hand over
	w = s.makeRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d/cancel", aliceBookingID), nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	n, err := s.waitlistSvc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var entries []domain.WaitlistEntry
	require.NoError(t, s.db.Where("slot_id = ?", slotID).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.WaitlistExpired, entries[0].Status)
	assert.Equal(t, domain.WaitlistOffered, entries[1].Status)
}
