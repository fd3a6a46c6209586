package enums

import "fmt"

// DeviceRole describes what a registered terminal is used for.
type DeviceRole string

const (
	DeviceRolePOS     DeviceRole = "POS"
	DeviceRoleKitchen DeviceRole = "KITCHEN"
	DeviceRoleBackup  DeviceRole = "BACKUP"
)

var validDeviceRoles = []DeviceRole{
	DeviceRolePOS,
	DeviceRoleKitchen,
	DeviceRoleBackup,
}

// String implements fmt.Stringer.
func (d DeviceRole) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeviceRole.
func (d DeviceRole) IsValid() bool {
	for _, candidate := range validDeviceRoles {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeviceRole converts raw input into a DeviceRole.
func ParseDeviceRole(value string) (DeviceRole, error) {
	for _, candidate := range validDeviceRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid device role %q", value)
}
