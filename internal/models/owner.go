package models

// Owner is an application profile. An empty PasswordHash means a passwordless
// (non-admin) profile; IsMaster marks the admin.
type Owner struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash,omitempty"`
	IsMaster     bool   `json:"isMaster"`
	CreatedAt    string `json:"createdAt"`
}

// OwnerPermissions is the per-owner capability record. Owners without an
// entry get DefaultPermissions lazily.
type OwnerPermissions struct {
	OwnerID            string `json:"ownerId"`
	CanApproveExpenses bool   `json:"canApproveExpenses"`
	CanManageOwners    bool   `json:"canManageOwners"`
}

// DefaultPermissions returns the capability set assigned to an owner that has
// no stored entry yet. Masters bypass permission checks regardless.
func DefaultPermissions(ownerID string) OwnerPermissions {
	return OwnerPermissions{OwnerID: ownerID}
}
