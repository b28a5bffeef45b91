package contract

import (
	"fmt"
	"strings"

	"labshare_dao/sdk"
)

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// InitializeRegistry creates the package wide incentives registry. The
// transaction has to name sdk.PackageObjectID, which holds the one-time marker.
// Example payload: ""
func InitializeRegistry(ctx *sdk.Ctx, _ *string) *string {
	if ptr := ctx.StateGet(registrySingletonKey()); ptr != nil && *ptr != "" {
		sdk.AbortCode(ModuleIncentives, IncentivesAlreadyInitialized, "incentives registry already initialized")
	}
	g := &IncentivesRegistry{
		ID:                ctx.NewObjectID(),
		Admin:             ctx.Sender(),
		ContributionTypes: append([]string(nil), defaultContributionTypes...),
		CreatedAt:         ctx.Now(),
	}
	saveRegistry(ctx, g)
	ctx.StateSet(registrySingletonKey(), g.ID.String())

	emitRegistryInitialized(ctx, g)
	return retID(g.ID)
}

// AddContributionType appends a contribution type; registry admin only.
// Example payload: "0xregistry…|Software Release"
func AddContributionType(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectNameArgs(payload, "registry")
	g := loadRegistry(ctx, input.Object)
	requireRole(ctx, ModuleIncentives, "the registry admin", g.Admin)

	for _, t := range g.ContributionTypes {
		if strings.EqualFold(t, input.Name) {
			sdk.AbortCode(ModuleIncentives, IncentivesInvalidContributionType, "contribution type already exists")
		}
	}
	// contribution types are stored as u8 on receipts and pools
	if len(g.ContributionTypes) >= MaxContributionTypes {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidContributionType,
			fmt.Sprintf("at most %d contribution types", MaxContributionTypes))
	}
	id := uint64(len(g.ContributionTypes))
	g.ContributionTypes = append(g.ContributionTypes, input.Name)
	saveRegistry(ctx, g)

	emitContributionTypeAdded(ctx, g.ID, id, input.Name)
	return retU64(id)
}

// -----------------------------------------------------------------------------
// Reward Pools
// -----------------------------------------------------------------------------

// CreatePool opens an active reward pool seeded with funds drawn from the caller.
// Example payload: "0xregistry…|Open data|Datasets and code|FAIR data|0,1|1000|"
func CreatePool(ctx *sdk.Ctx, payload *string) *string {
	input := decodeCreatePoolArgs(payload)
	g := loadRegistry(ctx, input.Registry)
	requirePositive(ModuleIncentives, IncentivesInvalidAmount, input.InitialFunds, "initial funds")

	if len(input.EligibleTypes) == 0 {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidContributionType, "pool needs at least one eligible type")
	}
	for _, t := range input.EligibleTypes {
		requireContributionType(g, uint64(t))
	}

	p := &RewardPool{
		ID:            ctx.NewObjectID(),
		RegistryID:    g.ID,
		Creator:       ctx.Sender(),
		Name:          input.Name,
		Description:   input.Description,
		Criteria:      input.Criteria,
		EligibleTypes: dedupeTypes(input.EligibleTypes),
		Active:        true,
		CreatedAt:     ctx.Now(),
		DAOReference:  input.DAOReference,
	}
	funds := ctx.Vault(p.ID, slotFunds).Join(ctx.Draw(input.InitialFunds))

	g.PoolCount++
	g.ActivePoolCount++
	ctx.StateSet(activePoolKey(g.ID, p.ID), "1")
	savePool(ctx, p)
	saveRegistry(ctx, g)

	emitRewardPoolCreated(ctx, p, funds)
	return retID(p.ID)
}

// FundPool tops up an active pool. Anyone may fund.
// Example payload: "0xpool…|250"
func FundPool(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectAmountArgs(payload, "pool")
	p := loadPool(ctx, input.Object)
	requirePoolActive(p)
	requirePositive(ModuleIncentives, IncentivesInvalidAmount, input.Amount, "amount")

	balance := ctx.Vault(p.ID, slotFunds).Join(ctx.Draw(input.Amount))

	emitPoolFunded(ctx, p.ID, input.Amount, balance)
	return retU64(balance)
}

// AddEvaluator grants an address the right to evaluate contributions against the pool.
// Example payload: "0xpool…|0xreviewer…"
func AddEvaluator(ctx *sdk.Ctx, payload *string) *string {
	input := decodeAddEvaluatorArgs(payload)
	p := loadPool(ctx, input.Pool)
	requireRole(ctx, ModuleIncentives, "the pool creator", p.Creator)

	if isEvaluator(ctx, p.ID, input.Evaluator) {
		return strptr("evaluator already added")
	}
	ctx.StateSet(evaluatorKey(p.ID, input.Evaluator), "1")
	p.EvaluatorCount++
	savePool(ctx, p)

	emitEvaluatorAdded(ctx, p.ID, input.Evaluator)
	return strptr("evaluator added")
}

// RegisterContribution files a PendingReview receipt for the caller.
// Example payload: "0xregistry…|0|doi:10.5281/zenodo.1|Freezer logs|2024 cold chain|{}"
func RegisterContribution(ctx *sdk.Ctx, payload *string) *string {
	input := decodeRegisterContributionArgs(payload)
	g := loadRegistry(ctx, input.Registry)
	requireContributionType(g, input.Type)

	c := &ContributionReceipt{
		ID:               ctx.NewObjectID(),
		RegistryID:       g.ID,
		Contributor:      ctx.Sender(),
		ContributionType: uint8(input.Type),
		ReferenceID:      input.ReferenceID,
		Title:            input.Title,
		Description:      input.Description,
		Metadata:         input.Metadata,
		Status:           ReceiptPendingReview,
		SubmittedAt:      ctx.Now(),
	}
	g.ReceiptCount++
	saveReceipt(ctx, c)
	saveRegistry(ctx, g)

	emitContributionRegistered(ctx, c)
	return retID(c.ID)
}

// Evaluate settles a PendingReview receipt against a pool. An approval with a
// positive reward pays the contributor from the pool right away.
// Example payload: "0xregistry…|0xpool…|0xreceipt…|true|10|solid dataset"
func Evaluate(ctx *sdk.Ctx, payload *string) *string {
	input := decodeEvaluateArgs(payload)
	g := loadRegistry(ctx, input.Registry)
	p := loadPool(ctx, input.Pool)
	c := loadReceipt(ctx, input.Receipt)

	if p.RegistryID != g.ID || c.RegistryID != g.ID {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidContribution, "pool and receipt must share the registry")
	}
	if ctx.Sender() != p.Creator && !isEvaluator(ctx, p.ID, ctx.Sender()) {
		sdk.AbortCode(ModuleIncentives, IncentivesNotAuthorized, "only the pool creator or an evaluator may evaluate")
	}
	if !c.Status.IsPendingReview() {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidStatus, "receipt is "+c.Status.String())
	}
	requirePoolActive(p)
	if !p.IsEligible(c.ContributionType) {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidContribution, "contribution type not eligible for pool")
	}

	evaluator := ctx.Sender()
	c.Evaluator = &evaluator
	c.EvaluatedAt = ctx.Now()
	c.Reason = input.Reason

	var paid uint64
	switch {
	case input.Approved && input.RewardAmount > 0:
		funds := ctx.Vault(p.ID, slotFunds)
		if funds.Value() < input.RewardAmount {
			sdk.AbortCode(ModuleIncentives, IncentivesInsufficientFunds, "pool holds too little for reward")
		}
		ctx.Transfer(c.Contributor, funds.Split(input.RewardAmount))
		paid = input.RewardAmount
		pool := p.ID
		c.Status = ReceiptRewarded
		c.RewardAmount = &paid
		c.PoolReference = &pool
		p.DistributedAmount += paid
		g.TotalRewardsDistributed += paid
		savePool(ctx, p)
		saveRegistry(ctx, g)
	case input.Approved:
		c.Status = ReceiptApproved
	default:
		c.Status = ReceiptRejected
	}
	saveReceipt(ctx, c)

	emitContributionEvaluated(ctx, p.ID, c)
	if c.Status.IsRewarded() {
		emitRewardDistributed(ctx, p.ID, c, paid)
	}
	return strptr(c.Status.String())
}

// DeactivatePool closes a pool to funding and evaluation. The creator or the
// registry admin may do it.
// Example payload: "0xregistry…|0xpool…"
func DeactivatePool(ctx *sdk.Ctx, payload *string) *string {
	registryID, poolID, _ := decodeTwoObjectArgs(payload, "registry", "pool")
	g := loadRegistry(ctx, registryID)
	p := loadPool(ctx, poolID)
	if p.RegistryID != g.ID {
		sdk.Abort("pool belongs to another registry")
	}
	requireRole(ctx, ModuleIncentives, "the pool creator or registry admin", p.Creator, g.Admin)
	requirePoolActive(p)

	p.Active = false
	if g.ActivePoolCount > 0 {
		g.ActivePoolCount--
	}
	ctx.StateDelete(activePoolKey(g.ID, p.ID))
	savePool(ctx, p)
	saveRegistry(ctx, g)

	emitPoolDeactivated(ctx, g.ID, p.ID)
	return strptr("pool deactivated")
}

// WithdrawPoolFunds returns leftover funds of a deactivated pool to its creator.
// An empty amount withdraws everything.
// Example payload: "0xpool…|"
func WithdrawPoolFunds(ctx *sdk.Ctx, payload *string) *string {
	input := decodeWithdrawPoolArgs(payload)
	p := loadPool(ctx, input.Pool)
	requireRole(ctx, ModuleIncentives, "the pool creator", p.Creator)
	if p.Active {
		sdk.AbortCode(ModuleIncentives, IncentivesPoolActive, "deactivate the pool before withdrawing")
	}

	funds := ctx.Vault(p.ID, slotFunds)
	amount := funds.Value()
	if input.Amount != nil {
		requirePositive(ModuleIncentives, IncentivesInvalidAmount, *input.Amount, "amount")
		amount = *input.Amount
	}
	if amount == 0 || amount > funds.Value() {
		sdk.AbortCode(ModuleIncentives, IncentivesInsufficientFunds, "pool holds too little to withdraw")
	}
	ctx.Transfer(p.Creator, funds.Split(amount))

	emitPoolFundsWithdrawn(ctx, p.ID, amount, funds.Value())
	return retU64(amount)
}

// -----------------------------------------------------------------------------
// Guards
// -----------------------------------------------------------------------------

func requirePoolActive(p *RewardPool) {
	if !p.Active {
		sdk.AbortCode(ModuleIncentives, IncentivesPoolInactive, "pool is inactive")
	}
}

func requireContributionType(g *IncentivesRegistry, t uint64) {
	if t >= uint64(len(g.ContributionTypes)) {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidContributionType, "unknown contribution type")
	}
}

func isEvaluator(ctx *sdk.Ctx, pool sdk.ObjectID, addr sdk.Address) bool {
	ptr := ctx.StateGet(evaluatorKey(pool, addr))
	return ptr != nil && *ptr != ""
}

func dedupeTypes(types []uint8) []uint8 {
	seen := make(map[uint8]bool, len(types))
	out := make([]uint8, 0, len(types))
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
