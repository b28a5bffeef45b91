package contract

import (
	"fmt"
	"strings"

	"labshare_dao/sdk"
)

// -----------------------------------------------------------------------------
// DAO Lifecycle
// -----------------------------------------------------------------------------

// InitializeDAO creates a shared DAO with the caller as admin and seeds the
// default sensor types and thresholds. An optional treasury is drawn from the caller.
// Example payload: "LabDAO|Cold chain monitoring|0"
func InitializeDAO(ctx *sdk.Ctx, payload *string) *string {
	input := decodeInitArgs(payload, "dao")
	now := ctx.Now()
	admin := ctx.Sender()

	d := &DAO{
		ID:               ctx.NewObjectID(),
		Name:             input.Name,
		Description:      input.Description,
		Admin:            admin,
		SensorTypes:      append([]string(nil), defaultSensorTypes...),
		MemberCount:      1,
		TotalVotingPower: AdminVotingPower,
		VotingPeriodMs:   DefaultVotingPeriodMs,
		QuorumBps:        DefaultQuorumBps,
		CreatedAt:        now,
	}

	treasury := ctx.Vault(d.ID, slotTreasury).Join(ctx.Draw(input.InitialTreasury))

	saveMember(ctx, d.ID, &Member{
		Address:     admin,
		DisplayName: "admin",
		JoinedAt:    now,
		VotingPower: AdminVotingPower,
	})
	for _, t := range defaultThresholds {
		t.UpdatedAt = now
		saveThreshold(ctx, d.ID, &t)
	}
	saveDAO(ctx, d)

	emitDAOInitialized(ctx, d, treasury)
	return retID(d.ID)
}

// AddMember lets the admin seat a new member with the default voting power.
// Example payload: "0xdao…|0xabc…|Dr. Rivera"
func AddMember(ctx *sdk.Ctx, payload *string) *string {
	input := decodeAddMemberArgs(payload)
	d := loadDAO(ctx, input.DAO)
	requireRole(ctx, ModuleDAO, "the dao admin", d.Admin)

	if loadMember(ctx, d.ID, input.Address) != nil {
		sdk.AbortCode(ModuleDAO, DAOMemberExists, "member already exists")
	}
	m := &Member{
		Address:     input.Address,
		DisplayName: input.DisplayName,
		JoinedAt:    ctx.Now(),
		VotingPower: MemberVotingPower,
	}
	saveMember(ctx, d.ID, m)

	d.MemberCount++
	d.TotalVotingPower += m.VotingPower
	saveDAO(ctx, d)

	emitMemberAdded(ctx, d.ID, m)
	return strptr("member added")
}

// AddFunds joins value drawn from the caller into the treasury. Anyone may donate.
// Example payload: "0xdao…|500"
func AddFunds(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectAmountArgs(payload, "dao")
	d := loadDAO(ctx, input.Object)
	requirePositive(ModuleDAO, DAOInvalidAmount, input.Amount, "amount")

	treasury := ctx.Vault(d.ID, slotTreasury).Join(ctx.Draw(input.Amount))

	emitFundsAdded(ctx, d.ID, input.Amount, treasury)
	return retU64(treasury)
}

// RegisterSensorType appends a sensor type and returns its index.
// Example payload: "0xdao…|vibration"
func RegisterSensorType(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectNameArgs(payload, "dao")
	d := loadDAO(ctx, input.Object)
	requireRole(ctx, ModuleDAO, "the dao admin", d.Admin)

	for _, existing := range d.SensorTypes {
		if strings.EqualFold(existing, input.Name) {
			sdk.Abort("sensor type already registered")
		}
	}
	if len(d.SensorTypes) >= MaxSensorTypes {
		sdk.Abort(fmt.Sprintf("at most %d sensor types", MaxSensorTypes))
	}
	id := uint64(len(d.SensorTypes))
	d.SensorTypes = append(d.SensorTypes, input.Name)
	saveDAO(ctx, d)

	emitSensorTypeRegistered(ctx, d.ID, id, input.Name)
	return retU64(id)
}

// UpdateThreshold upserts the accepted [min, max] range for a sensor type.
// Example payload: "0xdao…|0|-85|-70|Freezer"
func UpdateThreshold(ctx *sdk.Ctx, payload *string) *string {
	input := decodeUpdateThresholdArgs(payload)
	d := loadDAO(ctx, input.DAO)
	requireRole(ctx, ModuleDAO, "the dao admin", d.Admin)

	if input.Min > input.Max {
		sdk.AbortCode(ModuleDAO, DAOInvalidThreshold, "min value must not exceed max value")
	}
	requireSensorType(d, input.SensorType)

	t := &Threshold{
		SensorType:  input.SensorType,
		MinValue:    input.Min,
		MaxValue:    input.Max,
		Description: input.Description,
		UpdatedAt:   ctx.Now(),
	}
	saveThreshold(ctx, d.ID, t)

	emitThresholdUpdated(ctx, d.ID, t)
	return strptr("threshold updated")
}

// SubmitData records a sensor reading. A reading outside the configured
// threshold opens an Alert proposal in the same transaction.
// Example payload: "0xdao…|0|ab|f3|-60"
func SubmitData(ctx *sdk.Ctx, payload *string) *string {
	input := decodeSubmitDataArgs(payload)
	d := loadDAO(ctx, input.DAO)
	requireMember(ctx, d)
	requireSensorType(d, input.SensorType)

	now := ctx.Now()
	record := &DataRecord{
		ID:          d.NextDataID,
		SensorType:  input.SensorType,
		SubmittedBy: ctx.Sender(),
		DataHash:    input.DataHash,
		Metadata:    input.Metadata,
		Timestamp:   now,
		Value:       input.Value,
	}
	d.NextDataID++

	var alert *Proposal
	threshold := loadThreshold(ctx, d.ID, input.SensorType)
	if threshold != nil && !threshold.Contains(input.Value) {
		dataID := record.ID
		sensor := input.SensorType
		value := input.Value
		alert = &Proposal{
			ID:   d.NextProposalID,
			Type: ProposalAlert,
			Title: fmt.Sprintf("Alert: %s reading out of range",
				d.SensorTypes[input.SensorType]),
			Description: fmt.Sprintf("data record %d reported %d, outside [%d, %d]",
				record.ID, input.Value, threshold.MinValue, threshold.MaxValue),
			Proposer:      ctx.Sender(),
			CreatedAt:     now,
			VotingEndTime: now + int64(d.VotingPeriodMs),
			DataReference: &dataID,
			AlertSensorID: &sensor,
			AlertValue:    &value,
		}
		d.NextProposalID++
		record.TriggeredAlert = true
		record.AlertProposalID = &alert.ID
		saveProposal(ctx, d.ID, alert)
	}

	saveDataRecord(ctx, d.ID, record)
	saveDAO(ctx, d)

	emitDataRecordCreated(ctx, d.ID, record)
	if alert != nil {
		emitAlertTriggered(ctx, d.ID, record, threshold, alert.ID)
		emitProposalCreated(ctx, d.ID, alert)
	}
	return retU64(record.ID)
}

// CreateProposal opens a General or Configuration proposal. Configuration
// proposals must carry the delta they apply; General ones must not.
// Example payload: "0xdao…|Extend voting|Two weeks please|configuration|voting_period_ms=1209600000"
func CreateProposal(ctx *sdk.Ctx, payload *string) *string {
	input := decodeCreateProposalArgs(payload)
	d := loadDAO(ctx, input.DAO)
	requireMember(ctx, d)

	switch input.Type {
	case ProposalConfiguration:
		validateConfigDelta(input.ConfigDelta)
	case ProposalGeneral:
		if input.ConfigDelta != nil {
			sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "general proposals carry no config delta")
		}
	}

	now := ctx.Now()
	p := &Proposal{
		ID:            d.NextProposalID,
		Type:          input.Type,
		Title:         input.Title,
		Description:   input.Description,
		Proposer:      ctx.Sender(),
		CreatedAt:     now,
		VotingEndTime: now + int64(d.VotingPeriodMs),
		ConfigDelta:   input.ConfigDelta,
	}
	d.NextProposalID++
	saveProposal(ctx, d.ID, p)
	saveDAO(ctx, d)

	emitProposalCreated(ctx, d.ID, p)
	return retU64(p.ID)
}

// -----------------------------------------------------------------------------
// Guards
// -----------------------------------------------------------------------------

// requireMember returns the caller's membership or aborts with NotMember.
func requireMember(ctx *sdk.Ctx, d *DAO) *Member {
	m := loadMember(ctx, d.ID, ctx.Sender())
	if m == nil {
		sdk.AbortCode(ModuleDAO, DAONotMember, "caller is not a dao member")
	}
	return m
}

func requireSensorType(d *DAO, sensorType uint64) {
	if sensorType >= uint64(len(d.SensorTypes)) {
		sdk.AbortCode(ModuleDAO, DAOSensorTypeNotFound, "unknown sensor type")
	}
}

func validateConfigDelta(delta *ConfigDelta) {
	if delta == nil || (delta.VotingPeriodMs == nil && delta.QuorumBps == nil) {
		sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "configuration proposals need a config delta")
	}
	if delta.VotingPeriodMs != nil && (*delta.VotingPeriodMs == 0 || *delta.VotingPeriodMs > 1<<53) {
		sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "voting period out of range")
	}
	if delta.QuorumBps != nil && (*delta.QuorumBps == 0 || *delta.QuorumBps > BpsDenominator) {
		sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "quorum must be within (0, 10000] bps")
	}
}
