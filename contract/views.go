package contract

import (
	"encoding/hex"

	"labshare_dao/sdk"
)

// Status enums render by name in JSON views.

func (t ProposalType) MarshalText() ([]byte, error)    { return []byte(t.String()), nil }
func (s EscrowStatus) MarshalText() ([]byte, error)    { return []byte(s.String()), nil }
func (s MilestoneStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s ListingStatus) MarshalText() ([]byte, error)   { return []byte(s.String()), nil }
func (s AgreementStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s ReceiptStatus) MarshalText() ([]byte, error)   { return []byte(s.String()), nil }

// -----------------------------------------------------------------------------
// DAO getters
// -----------------------------------------------------------------------------

type daoView struct {
	*DAO
	Treasury uint64 `json:"treasury"`
}

// GetDAO returns the DAO header with its treasury balance.
// Example payload: "0xdao…"
func GetDAO(ctx *sdk.Ctx, payload *string) *string {
	d := loadDAO(ctx, decodeObjectArg(payload, "dao"))
	return strptr(ToJSON(daoView{DAO: d, Treasury: ctx.Vault(d.ID, slotTreasury).Value()}, "dao"))
}

// GetTreasury returns just the treasury balance.
func GetTreasury(ctx *sdk.Ctx, payload *string) *string {
	d := loadDAO(ctx, decodeObjectArg(payload, "dao"))
	return retU64(ctx.Vault(d.ID, slotTreasury).Value())
}

// GetMember returns a member record or aborts with NotMember.
// Example payload: "0xdao…|0xabc…"
func GetMember(ctx *sdk.Ctx, payload *string) *string {
	input := decodeAddMemberArgs(payload)
	d := loadDAO(ctx, input.DAO)
	m := loadMember(ctx, d.ID, input.Address)
	if m == nil {
		sdk.AbortCode(ModuleDAO, DAONotMember, "address is not a dao member")
	}
	return strptr(ToJSON(m, "member"))
}

// GetProposal returns a proposal by id.
// Example payload: "0xdao…|3"
func GetProposal(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "dao", "proposal id")
	d := loadDAO(ctx, input.Object)
	return strptr(ToJSON(loadProposal(ctx, d.ID, input.Index), "proposal"))
}

// HasVoted reports whether an address already voted on a proposal.
// Example payload: "0xdao…|3|0xabc…"
func HasVoted(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "dao", "proposal id")
	voter := parseAddressField(input.Text, "voter")
	d := loadDAO(ctx, input.Object)
	p := loadProposal(ctx, d.ID, input.Index)
	if loadVoteRecord(ctx, d.ID, p.ID, voter) != nil {
		return strptr("true")
	}
	return strptr("false")
}

type dataRecordView struct {
	*DataRecord
	DataHash string `json:"data_hash"`
}

// GetDataRecord returns a sensor data record by id.
// Example payload: "0xdao…|0"
func GetDataRecord(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "dao", "data id")
	d := loadDAO(ctx, input.Object)
	r := loadDataRecord(ctx, d.ID, input.Index)
	return strptr(ToJSON(dataRecordView{DataRecord: r, DataHash: hex.EncodeToString(r.DataHash)}, "data record"))
}

// GetThreshold returns the threshold configured for a sensor type.
// Example payload: "0xdao…|0"
func GetThreshold(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "dao", "sensor type")
	d := loadDAO(ctx, input.Object)
	requireSensorType(d, input.Index)
	t := loadThreshold(ctx, d.ID, input.Index)
	if t == nil {
		sdk.Abort("no threshold configured for sensor type")
	}
	return strptr(ToJSON(t, "threshold"))
}

// -----------------------------------------------------------------------------
// Escrow getters
// -----------------------------------------------------------------------------

type escrowView struct {
	*EscrowAccount
	Balance uint64 `json:"balance"`
}

// GetEscrow returns the escrow with its current custody balance.
func GetEscrow(ctx *sdk.Ctx, payload *string) *string {
	e := loadEscrow(ctx, decodeObjectArg(payload, "escrow"))
	return strptr(ToJSON(escrowView{EscrowAccount: e, Balance: ctx.Vault(e.ID, slotFunds).Value()}, "escrow"))
}

// GetMilestone returns one milestone of an escrow.
// Example payload: "0xescrow…|1"
func GetMilestone(ctx *sdk.Ctx, payload *string) *string {
	_, m := loadEscrowMilestone(ctx, decodeObjectIndexArgs(payload, "escrow", "milestone index"))
	return strptr(ToJSON(m, "milestone"))
}

// -----------------------------------------------------------------------------
// Marketplace getters
// -----------------------------------------------------------------------------

type marketplaceView struct {
	*Marketplace
	Treasury uint64 `json:"treasury"`
}

func GetMarketplace(ctx *sdk.Ctx, payload *string) *string {
	m := loadMarketplace(ctx, decodeObjectArg(payload, "marketplace"))
	return strptr(ToJSON(marketplaceView{Marketplace: m, Treasury: ctx.Vault(m.ID, slotTreasury).Value()}, "marketplace"))
}

func GetListing(ctx *sdk.Ctx, payload *string) *string {
	l := loadListing(ctx, decodeObjectArg(payload, "listing"))
	return strptr(ToJSON(l, "listing"))
}

type agreementView struct {
	*ServiceAgreement
	Balance uint64 `json:"balance"`
}

func GetAgreement(ctx *sdk.Ctx, payload *string) *string {
	a := loadAgreement(ctx, decodeObjectArg(payload, "agreement"))
	return strptr(ToJSON(agreementView{ServiceAgreement: a, Balance: ctx.Vault(a.ID, slotFunds).Value()}, "agreement"))
}

// -----------------------------------------------------------------------------
// Incentives getters
// -----------------------------------------------------------------------------

func GetRegistry(ctx *sdk.Ctx, payload *string) *string {
	g := loadRegistry(ctx, decodeObjectArg(payload, "registry"))
	return strptr(ToJSON(g, "registry"))
}

// poolView lists eligible types as numbers; a bare []uint8 would marshal as base64.
type poolView struct {
	*RewardPool
	EligibleTypes []uint `json:"eligible_types"`
	Balance       uint64 `json:"balance"`
}

func GetPool(ctx *sdk.Ctx, payload *string) *string {
	p := loadPool(ctx, decodeObjectArg(payload, "pool"))
	types := make([]uint, len(p.EligibleTypes))
	for i, t := range p.EligibleTypes {
		types[i] = uint(t)
	}
	view := poolView{RewardPool: p, EligibleTypes: types, Balance: ctx.Vault(p.ID, slotFunds).Value()}
	return strptr(ToJSON(view, "pool"))
}

func GetReceipt(ctx *sdk.Ctx, payload *string) *string {
	c := loadReceipt(ctx, decodeObjectArg(payload, "receipt"))
	return strptr(ToJSON(c, "receipt"))
}

type royaltyView struct {
	*RoyaltySplitAgreement
	Balance uint64 `json:"balance"`
}

func GetRoyalty(ctx *sdk.Ctx, payload *string) *string {
	a := loadRoyalty(ctx, decodeObjectArg(payload, "royalty agreement"))
	return strptr(ToJSON(royaltyView{RoyaltySplitAgreement: a, Balance: ctx.Vault(a.ID, slotRoyalties).Value()}, "royalty agreement"))
}
