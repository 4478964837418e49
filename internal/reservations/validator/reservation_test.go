package validator

import (
	"testing"
	"time"

	"roomly/pkg/dateutil"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

func testValidator(horizonDays int) *ReservationValidator {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
	return NewReservationValidator(horizonDays, log)
}

func baseRequest() *model.ReservationRequest {
	start := dateutil.Day(time.Now().AddDate(0, 0, 7))
	return &model.ReservationRequest{
		RoomID:    "507f1f77bcf86cd799439011",
		UserID:    "507f1f77bcf86cd799439012",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Quantity:  1,
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	if err := testValidator(365).Validate(baseRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidateSingleDayRange(t *testing.T) {
	req := baseRequest()
	req.EndDate = req.StartDate

	if err := testValidator(365).Validate(req); err != nil {
		t.Fatalf("single-day range rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *model.ReservationRequest)
	}{
		{
			name: "inverted range",
			mutate: func(req *model.ReservationRequest) {
				req.EndDate = req.StartDate.AddDate(0, 0, -1)
			},
		},
		{
			name: "start in the past",
			mutate: func(req *model.ReservationRequest) {
				req.StartDate = dateutil.Day(time.Now().AddDate(0, 0, -2))
				req.EndDate = dateutil.Day(time.Now().AddDate(0, 0, 2))
			},
		},
		{
			name: "zero quantity",
			mutate: func(req *model.ReservationRequest) {
				req.Quantity = 0
			},
		},
		{
			name: "negative quantity",
			mutate: func(req *model.ReservationRequest) {
				req.Quantity = -3
			},
		},
		{
			name: "missing room",
			mutate: func(req *model.ReservationRequest) {
				req.RoomID = ""
			},
		},
		{
			name: "malformed room ID",
			mutate: func(req *model.ReservationRequest) {
				req.RoomID = "not-an-object-id"
			},
		},
		{
			name: "oversized idempotency key",
			mutate: func(req *model.ReservationRequest) {
				key := make([]byte, 257)
				for i := range key {
					key[i] = 'k'
				}
				req.IdempotencyKey = string(key)
			},
		},
	}

	v := testValidator(365)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)
			if err := v.Validate(req); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateHorizon(t *testing.T) {
	v := testValidator(30)

	req := baseRequest()
	req.StartDate = dateutil.Day(time.Now().AddDate(0, 0, 25))
	req.EndDate = dateutil.Day(time.Now().AddDate(0, 0, 40))

	if err := v.Validate(req); err == nil {
		t.Error("range past the horizon must be rejected")
	}

	req.EndDate = dateutil.Day(time.Now().AddDate(0, 0, 30))
	if err := v.Validate(req); err != nil {
		t.Errorf("range ending on the horizon rejected: %v", err)
	}
}
