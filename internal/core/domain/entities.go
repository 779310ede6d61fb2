package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
	RoleGuest Role = "GUEST"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// Identity is the caller as derived from a verified bearer token.
// It is built by the auth middleware only and never from request bodies.
type Identity struct {
	UserID   uint
	Username string
	Role     Role
}

// IsAdmin reports whether the caller holds the ADMIN role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// LoginResult is returned by a successful authentication
type LoginResult struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	UserInfo UserInfo `json:"userInfo"`
}

// TokenStatus is returned by the token validation endpoint
type TokenStatus struct {
	Valid            bool      `json:"valid"`
	UserInfo         *UserInfo `json:"userInfo,omitempty"`
	RemainingMinutes int64     `json:"remainingMinutes"`
}

// AccountStatus carries the administrative fields of an account
type AccountStatus struct {
	Role                Role
	Enabled             bool
	LoginFailedAttempts int
	AccountLockedUntil  *time.Time
}

// Building types accepted on real-estate records
const (
	BuildingTypeMansion   = "マンション"
	BuildingTypeApartment = "アパート"
	BuildingTypeHouse     = "戸建て"
	BuildingTypeStore     = "店舗"
	BuildingTypeOffice    = "事務所"
	BuildingTypeOther     = "その他"
)

// Building structures accepted on real-estate records
const (
	StructureRC         = "鉄筋コンクリート造"
	StructureSteel      = "鉄骨造"
	StructureWood       = "木造"
	StructureLightSteel = "軽量鉄骨造"
	StructureOther      = "その他"
)

// BuildingTypes lists valid building types
var BuildingTypes = []interface{}{
	BuildingTypeMansion, BuildingTypeApartment, BuildingTypeHouse,
	BuildingTypeStore, BuildingTypeOffice, BuildingTypeOther,
}

// BuildingStructures lists valid building structures
var BuildingStructures = []interface{}{
	StructureRC, StructureSteel, StructureWood, StructureLightSteel, StructureOther,
}
