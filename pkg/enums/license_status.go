package enums

import "fmt"

// LicenseStatus is the operating state reported by license verification
// and stored on the business row.
type LicenseStatus string

const (
	LicenseStatusActive             LicenseStatus = "ACTIVE"
	LicenseStatusSuspended          LicenseStatus = "SUSPENDED"
	LicenseStatusExpired            LicenseStatus = "EXPIRED"
	LicenseStatusUnauthorizedDevice LicenseStatus = "UNAUTHORIZED_DEVICE"
	LicenseStatusLimitExceeded      LicenseStatus = "LIMIT_EXCEEDED"
)

var validLicenseStatuses = []LicenseStatus{
	LicenseStatusActive,
	LicenseStatusSuspended,
	LicenseStatusExpired,
	LicenseStatusUnauthorizedDevice,
	LicenseStatusLimitExceeded,
}

// String implements fmt.Stringer.
func (l LicenseStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LicenseStatus.
func (l LicenseStatus) IsValid() bool {
	for _, candidate := range validLicenseStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLicenseStatus converts raw input into a LicenseStatus.
func ParseLicenseStatus(value string) (LicenseStatus, error) {
	for _, candidate := range validLicenseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid license status %q", value)
}
