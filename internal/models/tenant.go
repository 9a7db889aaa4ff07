package models

// TenantInfo is display metadata for the tenant, used on receipts.
type TenantInfo struct {
	ID      string `json:"tenantId"`
	Name    string `json:"name"`
	LogoRef string `json:"logoRef,omitempty"`
}

// BranchInfo is display metadata for a branch, used on receipts.
type BranchInfo struct {
	ID      string `json:"branchId"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
