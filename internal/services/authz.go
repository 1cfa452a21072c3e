package services

import "qr-attendance/internal/models"

// IsAdmin reports whether the identity may view the full roster and operate
// the scanner: either the account carries the admin flag, or its email is
// the configured administrator address. Total over all identities,
// including nil.
func IsAdmin(identity *models.Identity, adminEmail string) bool {
	if identity == nil {
		return false
	}
	if identity.IsAdmin {
		return true
	}
	return adminEmail != "" && identity.Email == adminEmail
}
