package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/groundbook/groundbook/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGroundService_Submit_Success(t *testing.T) {
	groundRepo := &MockGroundRepository{
		CreateFunc: func(ctx context.Context, ground *models.Ground) (*models.Ground, error) {
			ground.ID = "ground_1"
			return ground, nil
		},
	}
	gate := &MockEmailGate{
		IsVerifiedFunc: func(email string) bool { return email == "owner@example.com" },
	}

	svc := NewGroundService(groundRepo, gate, slog.Default())

	created, err := svc.Submit(context.Background(), &models.Ground{
		OwnerName:    "Wajahat",
		OwnerEmail:   "owner@example.com",
		Name:         "City Futsal",
		City:         "Islamabad",
		PricePerHour: 3000,
		Rating:       4.5, // submitted ratings are ignored
	})

	assert.NoError(t, err)
	assert.Equal(t, models.GroundStatusPending, created.Status, "submissions always start pending")
	assert.Zero(t, created.Rating, "new submissions carry no rating")
	assert.Equal(t, []string{"owner@example.com"}, gate.ClearedEmails)
}

func TestGroundService_Submit_EmailNotVerified(t *testing.T) {
	createCalled := false
	groundRepo := &MockGroundRepository{
		CreateFunc: func(ctx context.Context, ground *models.Ground) (*models.Ground, error) {
			createCalled = true
			return ground, nil
		},
	}
	gate := &MockEmailGate{IsVerifiedFunc: func(email string) bool { return false }}

	svc := NewGroundService(groundRepo, gate, slog.Default())

	_, err := svc.Submit(context.Background(), &models.Ground{OwnerEmail: "owner@example.com"})

	assert.ErrorIs(t, err, models.ErrEmailNotVerified)
	assert.False(t, createCalled)
}

func TestGroundService_Browse_PassesFilterAndStatus(t *testing.T) {
	var gotStatus string
	var gotFilter models.GroundFilter

	groundRepo := &MockGroundRepository{
		ListByStatusFunc: func(ctx context.Context, status string, filter models.GroundFilter) ([]*models.Ground, error) {
			gotStatus = status
			gotFilter = filter
			return []*models.Ground{NewTestGround("ground_1", 2000)}, nil
		},
	}

	svc := NewGroundService(groundRepo, &MockEmailGate{}, slog.Default())

	filter := models.GroundFilter{Location: "islamabad", GroundType: "futsal", MinPrice: 1000, MaxPrice: 2000, MinRating: 4}
	grounds, err := svc.Browse(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, grounds, 1)
	assert.Equal(t, models.GroundStatusVerified, gotStatus, "browsing only surfaces verified grounds")
	assert.Equal(t, filter, gotFilter)
}

func TestGroundService_Approve_Success(t *testing.T) {
	var updatedStatus string

	groundRepo := &MockGroundRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Ground, error) {
			g := NewTestGround(id, 2000)
			g.Status = models.GroundStatusPending
			return g, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id, status string) error {
			updatedStatus = status
			return nil
		},
	}

	svc := NewGroundService(groundRepo, &MockEmailGate{}, slog.Default())

	assert.NoError(t, svc.Approve(context.Background(), "ground_1"))
	assert.Equal(t, models.GroundStatusVerified, updatedStatus)
}

func TestGroundService_Approve_AlreadyVerified(t *testing.T) {
	groundRepo := &MockGroundRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Ground, error) {
			return NewTestGround(id, 2000), nil // already verified
		},
	}

	svc := NewGroundService(groundRepo, &MockEmailGate{}, slog.Default())

	err := svc.Approve(context.Background(), "ground_1")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestGroundService_Approve_NotFound(t *testing.T) {
	svc := NewGroundService(&MockGroundRepository{}, &MockEmailGate{}, slog.Default())

	err := svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGroundService_Remove(t *testing.T) {
	deleted := ""
	groundRepo := &MockGroundRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := NewGroundService(groundRepo, &MockEmailGate{}, slog.Default())

	assert.NoError(t, svc.Remove(context.Background(), "ground_1"))
	assert.Equal(t, "ground_1", deleted)
}
