package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/groundbook/groundbook/internal/handlers"
	"github.com/groundbook/groundbook/internal/otp"
	"github.com/stretchr/testify/assert"
)

func TestOTPSend_Success(t *testing.T) {
	var gotEmail, gotPurpose string

	mockOTP := &handlers.MockOTPService{
		SendFunc: func(ctx context.Context, email, purpose string) otp.SendResult {
			gotEmail = email
			gotPurpose = purpose
			return otp.SendResult{
				Success:       true,
				Message:       "OTP sent to " + email + ". Please check your email.",
				ExpiryMinutes: 10,
			}
		},
	}

	handler := handlers.NewOTPHandler(mockOTP)
	req := handlers.NewTestRequest(t, "POST", "/otp/send", handlers.SendOTPRequest{
		Email:   "Player@Example.com",
		Purpose: "booking",
	})

	w := httptest.NewRecorder()
	handler.Send(w, req)

	var resp otp.SendResult
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 10, resp.ExpiryMinutes)
	assert.Equal(t, "player@example.com", gotEmail, "email should be normalized")
	assert.Equal(t, "booking", gotPurpose)
}

func TestOTPSend_InvalidEmail(t *testing.T) {
	handler := handlers.NewOTPHandler(&handlers.MockOTPService{})
	req := handlers.NewTestRequest(t, "POST", "/otp/send", handlers.SendOTPRequest{
		Email: "not-an-email",
	})

	w := httptest.NewRecorder()
	handler.Send(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestOTPSend_DeliveryFailure(t *testing.T) {
	mockOTP := &handlers.MockOTPService{
		SendFunc: func(ctx context.Context, email, purpose string) otp.SendResult {
			return otp.SendResult{Success: false, Message: "Failed to send OTP. Please try again."}
		},
	}

	handler := handlers.NewOTPHandler(mockOTP)
	req := handlers.NewTestRequest(t, "POST", "/otp/send", handlers.SendOTPRequest{
		Email: "player@example.com",
	})

	w := httptest.NewRecorder()
	handler.Send(w, req)

	var resp otp.SendResult
	handlers.AssertJSONResponse(t, w, 500, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to send OTP. Please try again.", resp.Message)
}

func TestOTPVerify_Success(t *testing.T) {
	mockOTP := &handlers.MockOTPService{
		VerifyFunc: func(email, submitted string) otp.VerifyResult {
			assert.Equal(t, "player@example.com", email)
			assert.Equal(t, "123456", submitted)
			return otp.VerifyResult{Success: true, Message: "Email verified successfully!"}
		},
	}

	handler := handlers.NewOTPHandler(mockOTP)
	req := handlers.NewTestRequest(t, "POST", "/otp/verify", handlers.VerifyOTPRequest{
		Email: "player@example.com",
		OTP:   "123456",
	})

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	var resp otp.VerifyResult
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Email verified successfully!", resp.Message)
}

func TestOTPVerify_WrongCode(t *testing.T) {
	mockOTP := &handlers.MockOTPService{
		VerifyFunc: func(email, submitted string) otp.VerifyResult {
			return otp.VerifyResult{Success: false, Message: "Invalid OTP. Please try again."}
		},
	}

	handler := handlers.NewOTPHandler(mockOTP)
	req := handlers.NewTestRequest(t, "POST", "/otp/verify", handlers.VerifyOTPRequest{
		Email: "player@example.com",
		OTP:   "654321",
	})

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	var resp otp.VerifyResult
	handlers.AssertJSONResponse(t, w, 400, &resp)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid OTP. Please try again.", resp.Message)
}

func TestOTPVerify_MissingCode(t *testing.T) {
	handler := handlers.NewOTPHandler(&handlers.MockOTPService{})
	req := handlers.NewTestRequest(t, "POST", "/otp/verify", handlers.VerifyOTPRequest{
		Email: "player@example.com",
	})

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}

func TestOTPResend_Success(t *testing.T) {
	resendCalled := false

	mockOTP := &handlers.MockOTPService{
		ResendFunc: func(ctx context.Context, email, purpose string) otp.SendResult {
			resendCalled = true
			return otp.SendResult{
				Success:       true,
				Message:       "OTP sent to " + email + ". Please check your email.",
				ExpiryMinutes: 10,
			}
		},
	}

	handler := handlers.NewOTPHandler(mockOTP)
	req := handlers.NewTestRequest(t, "POST", "/otp/resend", handlers.SendOTPRequest{
		Email: "player@example.com",
	})

	w := httptest.NewRecorder()
	handler.Resend(w, req)

	var resp otp.SendResult
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.True(t, resendCalled)
}

func TestOTPSend_InvalidBody(t *testing.T) {
	handler := handlers.NewOTPHandler(&handlers.MockOTPService{})
	req := httptest.NewRequest("POST", "/otp/send", nil)

	w := httptest.NewRecorder()
	handler.Send(w, req)

	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}
