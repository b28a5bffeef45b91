package contract

import (
	"labshare_dao/sdk"
)

// loadRecord reads and decodes a record, returning nil when the key is absent.
// A corrupt record aborts: nothing sensible can be done with it mid transaction.
func loadRecord[T any](ctx *sdk.Ctx, key string, decode func(string) (*T, error), what string) *T {
	ptr := ctx.StateGet(key)
	if ptr == nil || *ptr == "" {
		return nil
	}
	v, err := decode(*ptr)
	if err != nil {
		sdk.Abort("failed to decode " + what + ": " + err.Error())
	}
	return v
}

// mustLoad is loadRecord for objects the caller named; a miss is a runtime
// level failure (wrong id or wrong object type), not a module error.
func mustLoad[T any](ctx *sdk.Ctx, key string, decode func(string) (*T, error), what string) *T {
	v := loadRecord(ctx, key, decode, what)
	if v == nil {
		sdk.Abort(what + " not found")
	}
	return v
}

// stateSetIfChanged avoids rewriting identical bytes into the transaction overlay.
func stateSetIfChanged(ctx *sdk.Ctx, key, value string) {
	if existing := ctx.StateGet(key); existing != nil && *existing == value {
		return
	}
	ctx.StateSet(key, value)
}

func loadDAO(ctx *sdk.Ctx, id sdk.ObjectID) *DAO {
	return mustLoad(ctx, daoKey(id), decodeDAO, "dao")
}

func saveDAO(ctx *sdk.Ctx, d *DAO) {
	stateSetIfChanged(ctx, daoKey(d.ID), encodeDAO(d))
}

func loadMember(ctx *sdk.Ctx, dao sdk.ObjectID, addr sdk.Address) *Member {
	return loadRecord(ctx, memberKey(dao, addr), decodeMember, "member")
}

func saveMember(ctx *sdk.Ctx, dao sdk.ObjectID, m *Member) {
	ctx.StateSet(memberKey(dao, m.Address), encodeMember(m))
}

func loadProposal(ctx *sdk.Ctx, dao sdk.ObjectID, id uint64) *Proposal {
	p := loadRecord(ctx, proposalKey(dao, id), decodeProposal, "proposal")
	if p == nil {
		sdk.AbortCode(ModuleDAO, DAOProposalNotFound, "proposal not found")
	}
	return p
}

func saveProposal(ctx *sdk.Ctx, dao sdk.ObjectID, p *Proposal) {
	ctx.StateSet(proposalKey(dao, p.ID), encodeProposal(p))
}

func loadDataRecord(ctx *sdk.Ctx, dao sdk.ObjectID, id uint64) *DataRecord {
	d := loadRecord(ctx, dataRecordKey(dao, id), decodeDataRecord, "data record")
	if d == nil {
		sdk.AbortCode(ModuleDAO, DAODataRecordNotFound, "data record not found")
	}
	return d
}

func saveDataRecord(ctx *sdk.Ctx, dao sdk.ObjectID, d *DataRecord) {
	ctx.StateSet(dataRecordKey(dao, d.ID), encodeDataRecord(d))
}

func loadThreshold(ctx *sdk.Ctx, dao sdk.ObjectID, sensorType uint64) *Threshold {
	return loadRecord(ctx, thresholdKey(dao, sensorType), decodeThreshold, "threshold")
}

func saveThreshold(ctx *sdk.Ctx, dao sdk.ObjectID, t *Threshold) {
	ctx.StateSet(thresholdKey(dao, t.SensorType), encodeThreshold(t))
}

func loadEscrow(ctx *sdk.Ctx, id sdk.ObjectID) *EscrowAccount {
	return mustLoad(ctx, escrowKey(id), decodeEscrow, "escrow")
}

func saveEscrow(ctx *sdk.Ctx, e *EscrowAccount) {
	stateSetIfChanged(ctx, escrowKey(e.ID), encodeEscrow(e))
}

func loadMilestone(ctx *sdk.Ctx, escrow sdk.ObjectID, idx uint64) *Milestone {
	m := loadRecord(ctx, milestoneKey(escrow, idx), decodeMilestone, "milestone")
	if m == nil {
		sdk.AbortCode(ModuleEscrow, EscrowInvalidMilestone, "milestone not found")
	}
	return m
}

func saveMilestone(ctx *sdk.Ctx, escrow sdk.ObjectID, m *Milestone) {
	ctx.StateSet(milestoneKey(escrow, m.Index), encodeMilestone(m))
}

func loadMarketplace(ctx *sdk.Ctx, id sdk.ObjectID) *Marketplace {
	return mustLoad(ctx, marketplaceKey(id), decodeMarketplace, "marketplace")
}

func saveMarketplace(ctx *sdk.Ctx, m *Marketplace) {
	stateSetIfChanged(ctx, marketplaceKey(m.ID), encodeMarketplace(m))
}

func loadListing(ctx *sdk.Ctx, id sdk.ObjectID) *ServiceListing {
	return mustLoad(ctx, listingKey(id), decodeListing, "listing")
}

func saveListing(ctx *sdk.Ctx, l *ServiceListing) {
	stateSetIfChanged(ctx, listingKey(l.ID), encodeListing(l))
}

func loadAgreement(ctx *sdk.Ctx, id sdk.ObjectID) *ServiceAgreement {
	return mustLoad(ctx, agreementKey(id), decodeAgreement, "agreement")
}

func saveAgreement(ctx *sdk.Ctx, a *ServiceAgreement) {
	stateSetIfChanged(ctx, agreementKey(a.ID), encodeAgreement(a))
}

func loadRegistry(ctx *sdk.Ctx, id sdk.ObjectID) *IncentivesRegistry {
	return mustLoad(ctx, registryKey(id), decodeRegistry, "registry")
}

func saveRegistry(ctx *sdk.Ctx, g *IncentivesRegistry) {
	stateSetIfChanged(ctx, registryKey(g.ID), encodeRegistry(g))
}

func loadPool(ctx *sdk.Ctx, id sdk.ObjectID) *RewardPool {
	return mustLoad(ctx, poolKey(id), decodePool, "reward pool")
}

func savePool(ctx *sdk.Ctx, p *RewardPool) {
	stateSetIfChanged(ctx, poolKey(p.ID), encodePool(p))
}

func loadReceipt(ctx *sdk.Ctx, id sdk.ObjectID) *ContributionReceipt {
	return mustLoad(ctx, receiptKey(id), decodeReceipt, "contribution receipt")
}

func saveReceipt(ctx *sdk.Ctx, c *ContributionReceipt) {
	stateSetIfChanged(ctx, receiptKey(c.ID), encodeReceipt(c))
}

func loadRoyalty(ctx *sdk.Ctx, id sdk.ObjectID) *RoyaltySplitAgreement {
	return mustLoad(ctx, royaltyKey(id), decodeRoyalty, "royalty agreement")
}

func saveRoyalty(ctx *sdk.Ctx, a *RoyaltySplitAgreement) {
	stateSetIfChanged(ctx, royaltyKey(a.ID), encodeRoyalty(a))
}
