// Package repository defines repository interfaces for data access
package repository

import (
	"context"

	"qr-attendance/internal/models"
)

// IdentityProvider defines the interface for session and account operations
type IdentityProvider interface {
	// GetCurrentIdentity fetches the identity bound to the current session
	GetCurrentIdentity(ctx context.Context) (*models.Identity, error)
	// CreateSession opens a session for the given credentials
	CreateSession(ctx context.Context, email, password string) error
	// DeleteCurrentSession terminates the current session
	DeleteCurrentSession(ctx context.Context) error
	// CreateAccount registers a new account
	CreateAccount(ctx context.Context, email, password, name string) error
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// ListAll fetches every valid attendance record, in store order
	ListAll(ctx context.Context) ([]models.AttendanceRecord, error)
	// Create writes a new attendance record with a store-assigned ID
	Create(ctx context.Context, record *models.AttendanceRecord) error
}
