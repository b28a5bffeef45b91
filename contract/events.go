package contract

import (
	"strconv"
	"strings"

	"labshare_dao/sdk"
)

// eventValue keeps values from breaking the `Type|k:v` framing.
var eventValue = strings.NewReplacer("|", "/", "\n", " ", "\r", " ")

// emitEvent writes one `Type|k:v|k:v` line. kv alternates keys and values.
func emitEvent(ctx *sdk.Ctx, typ string, kv ...string) {
	var b strings.Builder
	b.WriteString(typ)
	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteByte('|')
		b.WriteString(kv[i])
		b.WriteByte(':')
		b.WriteString(eventValue.Replace(kv[i+1]))
	}
	ctx.Log(b.String())
}

func u64(n uint64) string { return strconv.FormatUint(n, 10) }
func i64(n int64) string  { return strconv.FormatInt(n, 10) }

func optU64(n *uint64) string {
	if n == nil {
		return ""
	}
	return u64(*n)
}

// -----------------------------------------------------------------------------
// DAO
// -----------------------------------------------------------------------------

func emitDAOInitialized(ctx *sdk.Ctx, d *DAO, treasury uint64) {
	emitEvent(ctx, "DAOInitialized",
		"dao", d.ID.String(),
		"by", d.Admin.String(),
		"name", d.Name,
		"treasury", u64(treasury),
	)
}

func emitMemberAdded(ctx *sdk.Ctx, dao sdk.ObjectID, m *Member) {
	emitEvent(ctx, "MemberAdded",
		"dao", dao.String(),
		"by", ctx.Sender().String(),
		"member", m.Address.String(),
		"name", m.DisplayName,
		"power", u64(m.VotingPower),
	)
}

func emitFundsAdded(ctx *sdk.Ctx, dao sdk.ObjectID, amount, treasury uint64) {
	emitEvent(ctx, "FundsAdded",
		"dao", dao.String(),
		"by", ctx.Sender().String(),
		"amount", u64(amount),
		"treasury", u64(treasury),
	)
}

func emitSensorTypeRegistered(ctx *sdk.Ctx, dao sdk.ObjectID, id uint64, name string) {
	emitEvent(ctx, "SensorTypeRegistered",
		"dao", dao.String(),
		"by", ctx.Sender().String(),
		"sensor_type", u64(id),
		"name", name,
	)
}

func emitThresholdUpdated(ctx *sdk.Ctx, dao sdk.ObjectID, t *Threshold) {
	emitEvent(ctx, "ThresholdUpdated",
		"dao", dao.String(),
		"by", ctx.Sender().String(),
		"sensor_type", u64(t.SensorType),
		"min", i64(t.MinValue),
		"max", i64(t.MaxValue),
	)
}

func emitDataRecordCreated(ctx *sdk.Ctx, dao sdk.ObjectID, r *DataRecord) {
	emitEvent(ctx, "DataRecordCreated",
		"dao", dao.String(),
		"by", r.SubmittedBy.String(),
		"data", u64(r.ID),
		"sensor_type", u64(r.SensorType),
		"value", i64(r.Value),
		"alert", strconv.FormatBool(r.TriggeredAlert),
	)
}

// emitAlertTriggered carries the threshold that was crossed so dashboards need no extra read.
func emitAlertTriggered(ctx *sdk.Ctx, dao sdk.ObjectID, r *DataRecord, t *Threshold, proposalID uint64) {
	emitEvent(ctx, "AlertTriggered",
		"dao", dao.String(),
		"by", r.SubmittedBy.String(),
		"data", u64(r.ID),
		"sensor_type", u64(r.SensorType),
		"value", i64(r.Value),
		"min", i64(t.MinValue),
		"max", i64(t.MaxValue),
		"proposal", u64(proposalID),
	)
}

func emitProposalCreated(ctx *sdk.Ctx, dao sdk.ObjectID, p *Proposal) {
	emitEvent(ctx, "ProposalCreated",
		"dao", dao.String(),
		"by", p.Proposer.String(),
		"proposal", u64(p.ID),
		"type", p.Type.String(),
		"title", p.Title,
		"ends", i64(p.VotingEndTime),
	)
}

func emitVoteCast(ctx *sdk.Ctx, dao sdk.ObjectID, proposalID uint64, yes bool, power uint64) {
	emitEvent(ctx, "VoteCast",
		"dao", dao.String(),
		"by", ctx.Sender().String(),
		"proposal", u64(proposalID),
		"yes", strconv.FormatBool(yes),
		"power", u64(power),
	)
}

func emitProposalExecuted(ctx *sdk.Ctx, dao sdk.ObjectID, p *Proposal, applied bool) {
	emitEvent(ctx, "ProposalExecuted",
		"dao", dao.String(),
		"by", ctx.Sender().String(),
		"proposal", u64(p.ID),
		"approved", strconv.FormatBool(p.Approved),
		"yes", u64(p.YesVotes),
		"no", u64(p.NoVotes),
		"applied", strconv.FormatBool(applied),
	)
}

// -----------------------------------------------------------------------------
// Escrow
// -----------------------------------------------------------------------------

func emitEscrowCreated(ctx *sdk.Ctx, e *EscrowAccount) {
	ref := ""
	if e.DAOReference != nil {
		ref = e.DAOReference.String()
	}
	emitEvent(ctx, "EscrowCreated",
		"escrow", e.ID.String(),
		"by", ctx.Sender().String(),
		"funder", e.Funder.String(),
		"beneficiary", e.Beneficiary.String(),
		"total", u64(e.TotalAmount),
		"dao", ref,
	)
}

func emitEscrowFundsDeposited(ctx *sdk.Ctx, e *EscrowAccount, amount uint64) {
	emitEvent(ctx, "FundsDeposited",
		"escrow", e.ID.String(),
		"by", ctx.Sender().String(),
		"amount", u64(amount),
		"deposited", u64(e.DepositedAmount),
	)
}

// emitMilestoneEvent covers the milestone transitions that only need the index.
func emitMilestoneEvent(ctx *sdk.Ctx, typ string, escrow sdk.ObjectID, m *Milestone, extra ...string) {
	kv := []string{
		"escrow", escrow.String(),
		"by", ctx.Sender().String(),
		"milestone", u64(m.Index),
		"amount", u64(m.Amount),
	}
	emitEvent(ctx, typ, append(kv, extra...)...)
}

func emitMilestonePaid(ctx *sdk.Ctx, e *EscrowAccount, m *Milestone, refund uint64) {
	emitEvent(ctx, "MilestonePaid",
		"escrow", e.ID.String(),
		"by", ctx.Sender().String(),
		"milestone", u64(m.Index),
		"beneficiary", e.Beneficiary.String(),
		"amount", u64(m.Amount),
		"completed", strconv.FormatBool(e.Status == EscrowCompleted),
		"refund", u64(refund),
	)
}

func emitDisputeInitiated(ctx *sdk.Ctx, e *EscrowAccount) {
	emitEvent(ctx, "DisputeInitiated",
		"escrow", e.ID.String(),
		"by", ctx.Sender().String(),
		"milestone", optU64(e.DisputedMilestone),
		"reason", e.DisputeReason,
	)
}

func emitEscrowCancelled(ctx *sdk.Ctx, e *EscrowAccount, refund uint64) {
	emitEvent(ctx, "EscrowCancelled",
		"escrow", e.ID.String(),
		"by", ctx.Sender().String(),
		"refund", u64(refund),
	)
}

// -----------------------------------------------------------------------------
// Marketplace
// -----------------------------------------------------------------------------

func emitMarketplaceInitialized(ctx *sdk.Ctx, m *Marketplace, treasury uint64) {
	emitEvent(ctx, "MarketplaceInitialized",
		"market", m.ID.String(),
		"by", m.Admin.String(),
		"name", m.Name,
		"fee_bps", u64(m.FeeBps),
		"treasury", u64(treasury),
	)
}

func emitCategoryAdded(ctx *sdk.Ctx, market sdk.ObjectID, id uint64, name string) {
	emitEvent(ctx, "CategoryAdded",
		"market", market.String(),
		"by", ctx.Sender().String(),
		"category", u64(id),
		"name", name,
	)
}

func emitFeeUpdated(ctx *sdk.Ctx, market sdk.ObjectID, old, new uint64) {
	emitEvent(ctx, "FeeUpdated",
		"market", market.String(),
		"by", ctx.Sender().String(),
		"old", u64(old),
		"new", u64(new),
	)
}

func emitServiceListed(ctx *sdk.Ctx, l *ServiceListing) {
	emitEvent(ctx, "ServiceListed",
		"market", l.MarketplaceID.String(),
		"by", l.Provider.String(),
		"listing", l.ID.String(),
		"title", l.Title,
		"category", u64(l.Category),
		"price", u64(l.PricePerUnit),
	)
}

func emitServiceUpdated(ctx *sdk.Ctx, l *ServiceListing) {
	emitEvent(ctx, "ServiceUpdated",
		"market", l.MarketplaceID.String(),
		"by", ctx.Sender().String(),
		"listing", l.ID.String(),
		"price", u64(l.PricePerUnit),
		"available", strconv.FormatBool(l.Available),
	)
}

func emitServiceDelisted(ctx *sdk.Ctx, l *ServiceListing, reason string) {
	emitEvent(ctx, "ServiceDelisted",
		"market", l.MarketplaceID.String(),
		"by", ctx.Sender().String(),
		"listing", l.ID.String(),
		"reason", reason,
	)
}

func emitServicePurchased(ctx *sdk.Ctx, a *ServiceAgreement, excess uint64) {
	emitEvent(ctx, "ServicePurchased",
		"market", a.MarketplaceID.String(),
		"by", a.Buyer.String(),
		"agreement", a.ID.String(),
		"listing", a.ListingID.String(),
		"provider", a.Provider.String(),
		"quantity", u64(a.Quantity),
		"total", u64(a.TotalPrice),
		"excess", u64(excess),
	)
}

// emitAgreementEvent covers provider side transitions (start, deliver).
func emitAgreementEvent(ctx *sdk.Ctx, typ string, a *ServiceAgreement) {
	emitEvent(ctx, typ,
		"market", a.MarketplaceID.String(),
		"by", ctx.Sender().String(),
		"agreement", a.ID.String(),
		"status", a.Status.String(),
	)
}

func emitServiceDeliveryConfirmed(ctx *sdk.Ctx, a *ServiceAgreement) {
	emitEvent(ctx, "ServiceDeliveryConfirmed",
		"market", a.MarketplaceID.String(),
		"by", a.Buyer.String(),
		"agreement", a.ID.String(),
		"rating", optU64(a.BuyerRating),
	)
}

func emitPaymentForServiceReleased(ctx *sdk.Ctx, a *ServiceAgreement, providerPayment uint64) {
	emitEvent(ctx, "PaymentForServiceReleased",
		"market", a.MarketplaceID.String(),
		"by", a.Buyer.String(),
		"agreement", a.ID.String(),
		"provider", a.Provider.String(),
		"amount", u64(providerPayment),
		"fee", u64(a.PlatformFee),
	)
}

func emitServiceRefunded(ctx *sdk.Ctx, a *ServiceAgreement) {
	emitEvent(ctx, "ServiceRefunded",
		"market", a.MarketplaceID.String(),
		"by", a.Buyer.String(),
		"agreement", a.ID.String(),
		"amount", u64(a.RefundedAmount),
		"reason", a.DisputeReason,
	)
}

func emitListingStatsUpdated(ctx *sdk.Ctx, l *ServiceListing, agreement sdk.ObjectID) {
	emitEvent(ctx, "ListingStatsUpdated",
		"market", l.MarketplaceID.String(),
		"by", ctx.Sender().String(),
		"listing", l.ID.String(),
		"agreement", agreement.String(),
		"sales", u64(l.TotalSales),
		"ratings", u64(l.RatingCount),
	)
}

// -----------------------------------------------------------------------------
// Incentives
// -----------------------------------------------------------------------------

func emitRegistryInitialized(ctx *sdk.Ctx, g *IncentivesRegistry) {
	emitEvent(ctx, "RegistryInitialized",
		"registry", g.ID.String(),
		"by", g.Admin.String(),
		"types", u64(uint64(len(g.ContributionTypes))),
	)
}

func emitContributionTypeAdded(ctx *sdk.Ctx, registry sdk.ObjectID, id uint64, name string) {
	emitEvent(ctx, "ContributionTypeAdded",
		"registry", registry.String(),
		"by", ctx.Sender().String(),
		"type", u64(id),
		"name", name,
	)
}

func emitRewardPoolCreated(ctx *sdk.Ctx, p *RewardPool, funds uint64) {
	emitEvent(ctx, "RewardPoolCreated",
		"registry", p.RegistryID.String(),
		"by", p.Creator.String(),
		"pool", p.ID.String(),
		"name", p.Name,
		"funds", u64(funds),
	)
}

func emitPoolFunded(ctx *sdk.Ctx, pool sdk.ObjectID, amount, balance uint64) {
	emitEvent(ctx, "PoolFunded",
		"pool", pool.String(),
		"by", ctx.Sender().String(),
		"amount", u64(amount),
		"balance", u64(balance),
	)
}

func emitEvaluatorAdded(ctx *sdk.Ctx, pool sdk.ObjectID, evaluator sdk.Address) {
	emitEvent(ctx, "EvaluatorAdded",
		"pool", pool.String(),
		"by", ctx.Sender().String(),
		"evaluator", evaluator.String(),
	)
}

func emitContributionRegistered(ctx *sdk.Ctx, c *ContributionReceipt) {
	emitEvent(ctx, "ContributionRegistered",
		"registry", c.RegistryID.String(),
		"by", c.Contributor.String(),
		"receipt", c.ID.String(),
		"type", u64(uint64(c.ContributionType)),
		"reference", c.ReferenceID,
	)
}

func emitContributionEvaluated(ctx *sdk.Ctx, pool sdk.ObjectID, c *ContributionReceipt) {
	emitEvent(ctx, "ContributionEvaluated",
		"registry", c.RegistryID.String(),
		"by", ctx.Sender().String(),
		"pool", pool.String(),
		"receipt", c.ID.String(),
		"status", c.Status.String(),
		"reward", optU64(c.RewardAmount),
	)
}

func emitRewardDistributed(ctx *sdk.Ctx, pool sdk.ObjectID, c *ContributionReceipt, amount uint64) {
	emitEvent(ctx, "RewardDistributed",
		"pool", pool.String(),
		"by", ctx.Sender().String(),
		"receipt", c.ID.String(),
		"contributor", c.Contributor.String(),
		"amount", u64(amount),
	)
}

func emitPoolDeactivated(ctx *sdk.Ctx, registry, pool sdk.ObjectID) {
	emitEvent(ctx, "PoolDeactivated",
		"registry", registry.String(),
		"by", ctx.Sender().String(),
		"pool", pool.String(),
	)
}

func emitPoolFundsWithdrawn(ctx *sdk.Ctx, pool sdk.ObjectID, amount, remaining uint64) {
	emitEvent(ctx, "PoolFundsWithdrawn",
		"pool", pool.String(),
		"by", ctx.Sender().String(),
		"amount", u64(amount),
		"remaining", u64(remaining),
	)
}

func emitRoyaltyAgreementCreated(ctx *sdk.Ctx, a *RoyaltySplitAgreement) {
	emitEvent(ctx, "RoyaltyAgreementCreated",
		"registry", a.RegistryID.String(),
		"by", a.Creator.String(),
		"royalty", a.ID.String(),
		"ip", a.IPReference,
		"beneficiaries", u64(uint64(len(a.Beneficiaries))),
		"shares", u64(a.TotalShares),
	)
}

func emitRoyaltiesDeposited(ctx *sdk.Ctx, agreement sdk.ObjectID, amount, balance uint64) {
	emitEvent(ctx, "RoyaltiesDeposited",
		"royalty", agreement.String(),
		"by", ctx.Sender().String(),
		"amount", u64(amount),
		"balance", u64(balance),
	)
}

func emitRoyaltyPaid(ctx *sdk.Ctx, agreement sdk.ObjectID, to sdk.Address, amount uint64) {
	emitEvent(ctx, "RoyaltyPaid",
		"royalty", agreement.String(),
		"by", ctx.Sender().String(),
		"beneficiary", to.String(),
		"amount", u64(amount),
	)
}

func emitRoyaltiesDistributed(ctx *sdk.Ctx, a *RoyaltySplitAgreement, paid, remaining uint64) {
	emitEvent(ctx, "RoyaltiesDistributed",
		"registry", a.RegistryID.String(),
		"by", ctx.Sender().String(),
		"royalty", a.ID.String(),
		"paid", u64(paid),
		"remaining", u64(remaining),
		"beneficiaries", u64(uint64(len(a.Beneficiaries))),
	)
}

func emitRoyaltyAgreementDeactivated(ctx *sdk.Ctx, agreement sdk.ObjectID, returned uint64) {
	emitEvent(ctx, "RoyaltyAgreementDeactivated",
		"royalty", agreement.String(),
		"by", ctx.Sender().String(),
		"returned", u64(returned),
	)
}
