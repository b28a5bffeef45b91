package contract

import (
	"fmt"

	"labshare_dao/sdk"
)

// SetupRoyalty creates a royalty split over a piece of IP. Shares are basis
// points, each in (0, 10000], summing to at most 10000; beneficiaries are unique.
// Example payload: "0xregistry…|doi:10.1/xyz|Cryo protocol||0xa…,0xb…|6000,4000"
func SetupRoyalty(ctx *sdk.Ctx, payload *string) *string {
	input := decodeSetupRoyaltyArgs(payload)
	g := loadRegistry(ctx, input.Registry)

	n := len(input.Beneficiaries)
	if n == 0 || n != len(input.Shares) {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidBeneficiaryShare, "beneficiaries and shares must pair up")
	}
	if n > MaxBeneficiaries {
		sdk.AbortCode(ModuleIncentives, IncentivesInvalidBeneficiaryShare,
			fmt.Sprintf("at most %d beneficiaries", MaxBeneficiaries))
	}

	seen := make(map[sdk.Address]bool, n)
	shares := make([]RoyaltyShare, 0, n)
	var total uint64
	for i, b := range input.Beneficiaries {
		s := input.Shares[i]
		if s == 0 || s > BpsDenominator {
			sdk.AbortCode(ModuleIncentives, IncentivesInvalidBeneficiaryShare, "each share must be within (0, 10000] bps")
		}
		if seen[b] {
			sdk.AbortCode(ModuleIncentives, IncentivesInvalidBeneficiaryShare, "duplicate beneficiary "+b.String())
		}
		seen[b] = true
		total += s
		if total > BpsDenominator {
			sdk.AbortCode(ModuleIncentives, IncentivesInvalidBeneficiaryShare, "shares exceed 10000 bps")
		}
		shares = append(shares, RoyaltyShare{Beneficiary: b, ShareBps: s})
	}

	a := &RoyaltySplitAgreement{
		ID:            ctx.NewObjectID(),
		RegistryID:    g.ID,
		Creator:       ctx.Sender(),
		IPReference:   input.IPReference,
		Title:         input.Title,
		Description:   input.Description,
		Beneficiaries: shares,
		TotalShares:   total,
		Active:        true,
		CreatedAt:     ctx.Now(),
	}
	g.RoyaltyCount++
	saveRoyalty(ctx, a)
	saveRegistry(ctx, g)

	emitRoyaltyAgreementCreated(ctx, a)
	return retID(a.ID)
}

// DepositRoyalties adds value to an active agreement's royalty funds. Anyone may deposit.
// Example payload: "0xroyalty…|1000"
func DepositRoyalties(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectAmountArgs(payload, "royalty agreement")
	a := loadRoyalty(ctx, input.Object)
	requireRoyaltyActive(a)
	requirePositive(ModuleIncentives, IncentivesInvalidAmount, input.Amount, "amount")

	balance := ctx.Vault(a.ID, slotRoyalties).Join(ctx.Draw(input.Amount))

	emitRoyaltiesDeposited(ctx, a.ID, input.Amount, balance)
	return retU64(balance)
}

// DistributeRoyalties pays every beneficiary floor(total*share/10000) of the
// current royalty funds. Rounding dust and unallocated shares stay behind for the
// next round. Permissionless.
// Example payload: "0xregistry…|0xroyalty…"
func DistributeRoyalties(ctx *sdk.Ctx, payload *string) *string {
	registryID, agreementID, _ := decodeTwoObjectArgs(payload, "registry", "royalty agreement")
	g := loadRegistry(ctx, registryID)
	a := loadRoyalty(ctx, agreementID)
	if a.RegistryID != g.ID {
		sdk.Abort("royalty agreement belongs to another registry")
	}
	requireRoyaltyActive(a)

	funds := ctx.Vault(a.ID, slotRoyalties)
	if funds.Value() == 0 {
		sdk.AbortCode(ModuleIncentives, IncentivesNoRoyalties, "no royalties to distribute")
	}
	paid := payRoyalties(ctx, g, a, funds)
	saveRoyalty(ctx, a)
	saveRegistry(ctx, g)
	return retU64(paid)
}

// payRoyalties runs one distribution round over the current funds and records
// it on the agreement and registry. Callers save both.
func payRoyalties(ctx *sdk.Ctx, g *IncentivesRegistry, a *RoyaltySplitAgreement, funds sdk.Vault) uint64 {
	total := funds.Value()
	var paid uint64
	for _, share := range a.Beneficiaries {
		amount := mulDivFloor(total, share.ShareBps, BpsDenominator)
		if amount == 0 {
			continue
		}
		ctx.Transfer(share.Beneficiary, funds.Split(amount))
		paid += amount
		emitRoyaltyPaid(ctx, a.ID, share.Beneficiary, amount)
	}

	now := ctx.Now()
	a.TotalDistributed += paid
	a.LastDistribution = &now
	g.TotalRoyaltiesDistributed += paid

	emitRoyaltiesDistributed(ctx, a, paid, funds.Value())
	return paid
}

// DeactivateRoyalty stops deposits and distributions; creator only. Funds still
// held are paid out in a last round and the remainder goes back to the creator.
// Example payload: "0xregistry…|0xroyalty…"
func DeactivateRoyalty(ctx *sdk.Ctx, payload *string) *string {
	registryID, agreementID, _ := decodeTwoObjectArgs(payload, "registry", "royalty agreement")
	g := loadRegistry(ctx, registryID)
	a := loadRoyalty(ctx, agreementID)
	if a.RegistryID != g.ID {
		sdk.Abort("royalty agreement belongs to another registry")
	}
	requireRole(ctx, ModuleIncentives, "the agreement creator", a.Creator)
	requireRoyaltyActive(a)

	funds := ctx.Vault(a.ID, slotRoyalties)
	if funds.Value() > 0 {
		payRoyalties(ctx, g, a, funds)
	}
	rest := funds.WithdrawAll()
	returned := rest.Value()
	ctx.Transfer(a.Creator, rest)

	a.Active = false
	saveRoyalty(ctx, a)
	saveRegistry(ctx, g)

	emitRoyaltyAgreementDeactivated(ctx, a.ID, returned)
	return strptr("royalty agreement deactivated")
}

func requireRoyaltyActive(a *RoyaltySplitAgreement) {
	if !a.Active {
		sdk.AbortCode(ModuleIncentives, IncentivesAgreementInactive, "royalty agreement is inactive")
	}
}
