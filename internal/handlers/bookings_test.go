package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/groundbook/groundbook/internal/handlers"
	"github.com/groundbook/groundbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingRequest() handlers.CreateBookingRequest {
	return handlers.CreateBookingRequest{
		GroundID:    "ground_1",
		PlayerName:  "Ali",
		PlayerEmail: "Ali@Example.com",
		PlayerPhone: "03009876543",
		BookingDate: "2025-06-14",
		TimeSlot:    "18:00-19:00",
		TeamSize:    10,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	var gotBooking *models.Booking

	mockService := &handlers.MockBookingService{
		CreateFunc: func(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
			gotBooking = booking
			booking.ID = "booking_1"
			booking.Amount = 2500
			booking.Status = models.BookingStatusConfirmed
			return booking, nil
		},
	}

	handler := handlers.NewBookingHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/bookings", validBookingRequest())

	w := httptest.NewRecorder()
	handler.Create(w, req)

	var resp models.Booking
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "booking_1", resp.ID)
	assert.Equal(t, 2500, resp.Amount)

	require.NotNil(t, gotBooking)
	assert.Equal(t, "ali@example.com", gotBooking.PlayerEmail, "player email should be normalized")
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), gotBooking.BookingDate)
}

func TestCreateBooking_EmailNotVerified(t *testing.T) {
	handler := handlers.NewBookingHandler(&handlers.MockBookingService{})
	req := handlers.NewTestRequest(t, "POST", "/bookings", validBookingRequest())

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, 403, "forbidden")
}

func TestCreateBooking_GroundNotBookable(t *testing.T) {
	mockService := &handlers.MockBookingService{
		CreateFunc: func(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
			return nil, models.ErrGroundNotBookable
		},
	}

	handler := handlers.NewBookingHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/bookings", validBookingRequest())

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestCreateBooking_BadDate(t *testing.T) {
	badReq := validBookingRequest()
	badReq.BookingDate = "14-06-2025"

	handler := handlers.NewBookingHandler(&handlers.MockBookingService{})
	req := handlers.NewTestRequest(t, "POST", "/bookings", badReq)

	w := httptest.NewRecorder()
	handler.Create(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestSubmitPaymentProof_WithScreenshot(t *testing.T) {
	var gotTransactionID, gotContentType string
	var gotScreenshot []byte

	mockService := &handlers.MockBookingService{
		SubmitPaymentProofFunc: func(ctx context.Context, bookingID, transactionID string, screenshot io.Reader, contentType string) error {
			gotTransactionID = transactionID
			gotContentType = contentType
			if screenshot != nil {
				gotScreenshot, _ = io.ReadAll(screenshot)
			}
			return nil
		},
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("transaction_id", "TRX-5561"))
	part, err := mw.CreateFormFile("screenshot", "proof.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	handler := handlers.NewBookingHandler(mockService)
	req := httptest.NewRequest("POST", "/bookings/booking_1/payment-proof", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = handlers.WithURLParam(req, "id", "booking_1")

	w := httptest.NewRecorder()
	handler.SubmitPaymentProof(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "TRX-5561", gotTransactionID)
	assert.Equal(t, []byte("fake-png-bytes"), gotScreenshot)
	assert.NotEmpty(t, gotContentType)
}

func TestSubmitPaymentProof_MissingTransactionID(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	handler := handlers.NewBookingHandler(&handlers.MockBookingService{})
	req := httptest.NewRequest("POST", "/bookings/booking_1/payment-proof", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = handlers.WithURLParam(req, "id", "booking_1")

	w := httptest.NewRecorder()
	handler.SubmitPaymentProof(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestSubmitPaymentProof_BookingNotFound(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("transaction_id", "TRX-5561"))
	require.NoError(t, mw.Close())

	handler := handlers.NewBookingHandler(&handlers.MockBookingService{})
	req := httptest.NewRequest("POST", "/bookings/missing/payment-proof", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = handlers.WithURLParam(req, "id", "missing")

	w := httptest.NewRecorder()
	handler.SubmitPaymentProof(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestTicket_ReturnsPNG(t *testing.T) {
	pngMagic := []byte{0x89, 'P', 'N', 'G'}

	mockService := &handlers.MockBookingService{
		TicketFunc: func(ctx context.Context, bookingID string) ([]byte, error) {
			return pngMagic, nil
		},
	}

	handler := handlers.NewBookingHandler(mockService)
	req := handlers.WithURLParam(httptest.NewRequest("GET", "/bookings/booking_1/ticket", nil), "id", "booking_1")

	w := httptest.NewRecorder()
	handler.Ticket(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngMagic, w.Body.Bytes())
}

func TestTicket_NotFound(t *testing.T) {
	handler := handlers.NewBookingHandler(&handlers.MockBookingService{})
	req := handlers.WithURLParam(httptest.NewRequest("GET", "/bookings/missing/ticket", nil), "id", "missing")

	w := httptest.NewRecorder()
	handler.Ticket(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}
