package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationTarget says what slice of spend an allocation earmarks
type AllocationTarget string

const (
	TargetPlatform AllocationTarget = "platform"
	TargetAccount  AllocationTarget = "account"
	TargetCampaign AllocationTarget = "campaign"
)

// IsValid checks if the target is a known value
func (t AllocationTarget) IsValid() bool {
	switch t {
	case TargetPlatform, TargetAccount, TargetCampaign:
		return true
	}
	return false
}

// BudgetAllocation earmarks part of a budget for one platform, one linked
// account, or one campaign. Percent, when set, is the intended share of the
// parent budget and is informational alongside the absolute amount.
type BudgetAllocation struct {
	shared.TenantAggregateRoot
	BudgetID        uuid.UUID
	Target          AllocationTarget
	Platform        string           // set when Target == platform
	ClientAccountID *uuid.UUID       // set when Target == account
	CampaignID      *uuid.UUID       // set when Target == campaign
	Amount          decimal.Decimal
	Percent         *decimal.Decimal
}

// NewBudgetAllocation creates an allocation of the given amount
func NewBudgetAllocation(tenantID, budgetID uuid.UUID, target AllocationTarget, amount decimal.Decimal) (*BudgetAllocation, error) {
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_TARGET", "Unknown allocation target")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	return &BudgetAllocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BudgetID:            budgetID,
		Target:              target,
		Amount:              amount,
	}, nil
}

// ForPlatform binds a platform-targeted allocation to a platform code
func (a *BudgetAllocation) ForPlatform(platform string) error {
	if a.Target != TargetPlatform {
		return shared.NewDomainError("INVALID_TARGET", "Allocation is not platform-targeted")
	}
	if platform == "" {
		return shared.NewDomainError("INVALID_TARGET", "Platform code is required")
	}
	a.Platform = platform
	return nil
}

// ForAccount binds an account-targeted allocation to a linked account
func (a *BudgetAllocation) ForAccount(clientAccountID uuid.UUID) error {
	if a.Target != TargetAccount {
		return shared.NewDomainError("INVALID_TARGET", "Allocation is not account-targeted")
	}
	a.ClientAccountID = &clientAccountID
	return nil
}

// ForCampaign binds a campaign-targeted allocation to a campaign
func (a *BudgetAllocation) ForCampaign(campaignID uuid.UUID) error {
	if a.Target != TargetCampaign {
		return shared.NewDomainError("INVALID_TARGET", "Allocation is not campaign-targeted")
	}
	a.CampaignID = &campaignID
	return nil
}

// SetPercent records the intended share of the parent budget
func (a *BudgetAllocation) SetPercent(percent decimal.Decimal) error {
	if percent.LessThanOrEqual(decimal.Zero) || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PERCENT", "Allocation percent must be between 0 and 100")
	}
	a.Percent = &percent
	a.UpdatedAt = time.Now()
	return nil
}
