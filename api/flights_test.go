package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	"github.com/M-A-Yakout/Booking-Flight/internal/service/flights"
	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	args := m.Called(ctx, flightNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, date)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Add(ctx context.Context, input flights.AddFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, flightNumber string, input flights.UpdateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, flightNumber, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Remove(ctx context.Context, flightNumber string) error {
	args := m.Called(ctx, flightNumber)
	return args.Error(0)
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/flights", nil)

	list := []domain.Flight{{FlightNumber: "SU100", Origin: "SVO", Destination: "LED", TotalSeats: 150, AvailableSeats: 149}}
	mockService.On("List", c.Request.Context()).Return(list, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Flight
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "SU100", response[0].FlightNumber)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "number", Value: "XX999"}}
	c.Request = httptest.NewRequest("GET", "/api/v1/flights/XX999", nil)

	mockService.On("GetByNumber", c.Request.Context(), "XX999").Return(nil, apperrors.ErrFlightNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_add(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := flights.AddFlightInput{
		FlightNumber:  "SU200",
		Airline:       "Aeroflot",
		Origin:        "SVO",
		Destination:   "KZN",
		DepartureTime: time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 10, 2, 13, 30, 0, 0, time.UTC),
		TotalSeats:    180,
		PriceCents:    420000,
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/v1/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Flight{
		FlightNumber:   "SU200",
		TotalSeats:     180,
		AvailableSeats: 180,
	}
	mockService.On("Add", c.Request.Context(), input).Return(created, nil)

	handler.add(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_add_duplicate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := flights.AddFlightInput{
		FlightNumber:  "SU100",
		DepartureTime: time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 10, 2, 13, 30, 0, 0, time.UTC),
		TotalSeats:    180,
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/v1/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Add", c.Request.Context(), input).Return(nil, apperrors.ErrFlightExists)

	handler.add(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFlightHandler_update(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := flights.UpdateFlightInput{
		Airline:       "Aeroflot",
		Origin:        "SVO",
		Destination:   "AER",
		DepartureTime: time.Date(2026, 10, 2, 14, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 10, 2, 16, 30, 0, 0, time.UTC),
		PriceCents:    610000,
	}
	body, _ := json.Marshal(input)
	c.Params = gin.Params{{Key: "number", Value: "SU200"}}
	c.Request = httptest.NewRequest("PUT", "/api/v1/flights/SU200", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	updated := &domain.Flight{
		FlightNumber:   "SU200",
		Destination:    "AER",
		TotalSeats:     180,
		AvailableSeats: 42,
	}
	mockService.On("Update", c.Request.Context(), "SU200", input).Return(updated, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_update_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := flights.UpdateFlightInput{
		DepartureTime: time.Date(2026, 10, 2, 14, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 10, 2, 16, 30, 0, 0, time.UTC),
	}
	body, _ := json.Marshal(input)
	c.Params = gin.Params{{Key: "number", Value: "XX999"}}
	c.Request = httptest.NewRequest("PUT", "/api/v1/flights/XX999", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Update", c.Request.Context(), "XX999", input).Return(nil, apperrors.ErrFlightNotFound)

	handler.update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_search_badDate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/flights/search?origin=SVO&destination=LED&date=tomorrow", nil)

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/flights/search?origin=SVO&destination=LED&date=2026-10-01", nil)

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	list := []domain.Flight{{FlightNumber: "SU100", Origin: "SVO", Destination: "LED"}}
	mockService.On("Search", c.Request.Context(), "SVO", "LED", date).Return(list, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_remove(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "number", Value: "SU100"}}
	c.Request = httptest.NewRequest("DELETE", "/api/v1/flights/SU100", nil)

	mockService.On("Remove", c.Request.Context(), "SU100").Return(nil)

	handler.remove(c)
	// gin defers writing a body-less status; flush it so the recorder sees it.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
