package domain

// CostCenterTarget names the export column a cost center plan feeds.
type CostCenterTarget string

const (
	CostCenterKost1 CostCenterTarget = "add_to_kost1"
	CostCenterKost2 CostCenterTarget = "add_to_kost2"
)

// CostCenterPlan groups cost centers and decides which export column they
// occupy.
type CostCenterPlan struct {
	PlanID    string           `json:"planID"` // Primary Key (UUID)
	CompanyID string           `json:"companyID"`
	Name      string           `json:"name"`
	Target    CostCenterTarget `json:"target"`
	AuditFields
}

// CostCenter is an analytic account charged alongside booking lines.
type CostCenter struct {
	CostCenterID string `json:"costCenterID"` // Primary Key (UUID)
	PlanID       string `json:"planID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	AuditFields
}
