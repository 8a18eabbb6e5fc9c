package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Arm mirrors the Postgres ENUM 'aethex_arm'
type Arm string

const (
	ArmLabs       Arm = "labs"
	ArmGameForge  Arm = "gameforge"
	ArmCorp       Arm = "corp"
	ArmFoundation Arm = "foundation"
	ArmDevlink    Arm = "devlink"
	ArmNexus      Arm = "nexus"
	ArmStaff      Arm = "staff"
)

// AllArms is the closed set of community arms, in display order
var AllArms = []Arm{
	ArmLabs,
	ArmGameForge,
	ArmCorp,
	ArmFoundation,
	ArmDevlink,
	ArmNexus,
	ArmStaff,
}

// Stringer ­– convenient for fmt / logs
func (a Arm) String() string { return string(a) }

// ParseArm validates an inbound arm string (case-insensitive)
func ParseArm(s string) (Arm, error) {
	candidate := Arm(strings.ToLower(strings.TrimSpace(s)))
	for _, arm := range AllArms {
		if arm == candidate {
			return arm, nil
		}
	}
	return "", fmt.Errorf("%q is not a known arm", s)
}

// IsValidArm reports whether s names a known arm
func IsValidArm(s string) bool {
	_, err := ParseArm(s)
	return err == nil
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (a *Arm) Scan(src interface{}) error {
	if src == nil {
		*a = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*a = Arm(v)
	case []byte:
		*a = Arm(v)
	default:
		return fmt.Errorf("Arm: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (a Arm) Value() (driver.Value, error) { return string(a), nil }
