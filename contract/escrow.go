package contract

import (
	"labshare_dao/sdk"
)

// -----------------------------------------------------------------------------
// Escrow Lifecycle
// -----------------------------------------------------------------------------

// InitializeEscrow opens an Active escrow between a funder and a beneficiary.
// An empty funder field makes the caller the funder. The dao reference is kept
// as an opaque id and never read.
// Example payload: "|0xbeef…|1000|"
func InitializeEscrow(ctx *sdk.Ctx, payload *string) *string {
	input := decodeInitEscrowArgs(payload)
	funder := ctx.Sender()
	if input.Funder != nil {
		funder = *input.Funder
	}

	requirePositive(ModuleEscrow, EscrowInvalidAmount, input.TotalAmount, "total amount")
	if funder == input.Beneficiary {
		sdk.AbortCode(ModuleEscrow, EscrowSameParty, "funder and beneficiary must differ")
	}

	e := &EscrowAccount{
		ID:           ctx.NewObjectID(),
		Funder:       funder,
		Beneficiary:  input.Beneficiary,
		TotalAmount:  input.TotalAmount,
		Status:       EscrowActive,
		CreatedAt:    ctx.Now(),
		DAOReference: input.DAOReference,
	}
	saveEscrow(ctx, e)

	emitEscrowCreated(ctx, e)
	return retID(e.ID)
}

// DepositFunds moves value from the funder into the escrow, never beyond the total.
// Example payload: "0xescrow…|1000"
func DepositFunds(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectAmountArgs(payload, "escrow")
	e := loadEscrow(ctx, input.Object)
	requireRole(ctx, ModuleEscrow, "the funder", e.Funder)
	requireEscrowActive(e)
	requirePositive(ModuleEscrow, EscrowInvalidAmount, input.Amount, "deposit")

	if input.Amount > e.TotalAmount-e.DepositedAmount {
		sdk.AbortCode(ModuleEscrow, EscrowDepositExceedsTotal, "deposit exceeds escrow total")
	}
	ctx.Vault(e.ID, slotFunds).Join(ctx.Draw(input.Amount))
	e.DepositedAmount += input.Amount
	saveEscrow(ctx, e)

	emitEscrowFundsDeposited(ctx, e, input.Amount)
	return retU64(e.DepositedAmount)
}

// DefineMilestone appends a Pending milestone. The milestones together may not
// allocate more than the escrow total.
// Example payload: "0xescrow…|Sequencing run|600|1767225600000|"
func DefineMilestone(ctx *sdk.Ctx, payload *string) *string {
	input := decodeDefineMilestoneArgs(payload)
	e := loadEscrow(ctx, input.Escrow)
	requireRole(ctx, ModuleEscrow, "the funder", e.Funder)
	requireEscrowActive(e)
	requirePositive(ModuleEscrow, EscrowInvalidAmount, input.Amount, "milestone amount")

	if input.Amount > e.TotalAmount-e.AllocatedAmount {
		sdk.AbortCode(ModuleEscrow, EscrowInvalidAmount, "milestones exceed escrow total")
	}
	m := &Milestone{
		Index:              e.MilestoneCount,
		Description:        input.Description,
		Amount:             input.Amount,
		DueDate:            input.DueDate,
		Status:             MilestonePending,
		ApprovalProposalID: input.ApprovalProposalID,
	}
	e.MilestoneCount++
	e.AllocatedAmount += input.Amount
	saveMilestone(ctx, e.ID, m)
	saveEscrow(ctx, e)

	emitMilestoneEvent(ctx, "MilestoneDefined", e.ID, m, "description", m.Description)
	return retU64(m.Index)
}

// SubmitMilestone is the beneficiary handing in proof for a Pending milestone.
// Example payload: "0xescrow…|0|ipfs://proof"
func SubmitMilestone(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "escrow", "milestone index")
	e, m := loadEscrowMilestone(ctx, input)
	requireRole(ctx, ModuleEscrow, "the beneficiary", e.Beneficiary)
	requireEscrowActive(e)
	requireMilestoneStatus(m, MilestonePending)

	proof := input.Text
	m.Status = MilestoneSubmitted
	m.ProofLink = &proof
	saveMilestone(ctx, e.ID, m)

	emitMilestoneEvent(ctx, "MilestoneSubmitted", e.ID, m, "proof", proof)
	return strptr("milestone submitted")
}

// ResubmitMilestone moves a Rejected milestone back to Submitted with new proof.
// Example payload: "0xescrow…|0|ipfs://proof-v2"
func ResubmitMilestone(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "escrow", "milestone index")
	e, m := loadEscrowMilestone(ctx, input)
	requireRole(ctx, ModuleEscrow, "the beneficiary", e.Beneficiary)
	requireEscrowActive(e)
	requireMilestoneStatus(m, MilestoneRejected)

	proof := input.Text
	m.Status = MilestoneSubmitted
	m.ProofLink = &proof
	m.RejectionReason = ""
	saveMilestone(ctx, e.ID, m)

	emitMilestoneEvent(ctx, "MilestoneResubmitted", e.ID, m, "proof", proof)
	return strptr("milestone resubmitted")
}

// ApproveMilestone unlocks a Submitted milestone for payment.
// Example payload: "0xescrow…|0"
func ApproveMilestone(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "escrow", "milestone index")
	e, m := loadEscrowMilestone(ctx, input)
	requireRole(ctx, ModuleEscrow, "the funder", e.Funder)
	requireEscrowActive(e)
	requireMilestoneStatus(m, MilestoneSubmitted)

	m.Status = MilestoneApproved
	saveMilestone(ctx, e.ID, m)

	emitMilestoneEvent(ctx, "MilestoneApproved", e.ID, m)
	return strptr("milestone approved")
}

// RejectMilestone sends a Submitted milestone back and clears its proof.
// Example payload: "0xescrow…|0|data incomplete"
func RejectMilestone(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "escrow", "milestone index")
	e, m := loadEscrowMilestone(ctx, input)
	requireRole(ctx, ModuleEscrow, "the funder", e.Funder)
	requireEscrowActive(e)
	requireMilestoneStatus(m, MilestoneSubmitted)

	m.Status = MilestoneRejected
	m.ProofLink = nil
	m.RejectionReason = input.Text
	saveMilestone(ctx, e.ID, m)

	emitMilestoneEvent(ctx, "MilestoneRejected", e.ID, m, "reason", input.Text)
	return strptr("milestone rejected")
}

// ReleaseMilestonePayment pays an Approved milestone to the beneficiary. Once
// every defined milestone is paid the escrow completes and returns what is left.
// Example payload: "0xescrow…|0"
func ReleaseMilestonePayment(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "escrow", "milestone index")
	e, m := loadEscrowMilestone(ctx, input)
	requireRole(ctx, ModuleEscrow, "the funder or beneficiary", e.Funder, e.Beneficiary)
	requireEscrowActive(e)
	if m.Status.IsPaid() {
		sdk.AbortCode(ModuleEscrow, EscrowAlreadyPaidOut, "milestone already paid")
	}
	requireMilestoneStatus(m, MilestoneApproved)

	funds := ctx.Vault(e.ID, slotFunds)
	if funds.Value() < m.Amount {
		sdk.AbortCode(ModuleEscrow, EscrowInsufficientFunds, "escrow holds too little to pay milestone")
	}
	ctx.Transfer(e.Beneficiary, funds.Split(m.Amount))

	m.Status = MilestonePaid
	e.PaidAmount += m.Amount
	e.PaidCount++
	var refund uint64
	if e.PaidCount == e.MilestoneCount {
		// deposits above the milestone allocation go back to the funder
		rest := funds.WithdrawAll()
		refund = rest.Value()
		ctx.Transfer(e.Funder, rest)
		e.RefundedAmount += refund
		e.Status = EscrowCompleted
	}
	saveMilestone(ctx, e.ID, m)
	saveEscrow(ctx, e)

	emitMilestonePaid(ctx, e, m, refund)
	return retU64(m.Amount)
}

// InitiateDispute freezes an Active escrow. The milestone index is optional.
// Example payload: "0xescrow…|1|deliverable missing"
func InitiateDispute(ctx *sdk.Ctx, payload *string) *string {
	input := decodeDisputeArgs(payload)
	e := loadEscrow(ctx, input.Escrow)
	requireRole(ctx, ModuleEscrow, "the funder or beneficiary", e.Funder, e.Beneficiary)
	requireEscrowActive(e)

	if input.Milestone != nil && *input.Milestone >= e.MilestoneCount {
		sdk.AbortCode(ModuleEscrow, EscrowInvalidMilestone, "milestone index out of range")
	}
	e.Status = EscrowDisputed
	e.DisputedMilestone = input.Milestone
	e.DisputeReason = input.Reason
	saveEscrow(ctx, e)

	emitDisputeInitiated(ctx, e)
	return strptr("dispute initiated")
}

// CancelEscrow refunds everything held to the funder, only before any payout.
// Example payload: "0xescrow…"
func CancelEscrow(ctx *sdk.Ctx, payload *string) *string {
	id := decodeObjectArg(payload, "escrow")
	e := loadEscrow(ctx, id)
	requireRole(ctx, ModuleEscrow, "the funder", e.Funder)
	requireEscrowActive(e)
	if e.PaidAmount > 0 {
		sdk.AbortCode(ModuleEscrow, EscrowAlreadyPaidOut, "escrow already paid out")
	}

	refund := ctx.Vault(e.ID, slotFunds).WithdrawAll()
	amount := refund.Value()
	ctx.Transfer(e.Funder, refund)

	e.Status = EscrowCancelled
	e.RefundedAmount += amount
	saveEscrow(ctx, e)

	emitEscrowCancelled(ctx, e, amount)
	return retU64(amount)
}

// -----------------------------------------------------------------------------
// Guards
// -----------------------------------------------------------------------------

func requireEscrowActive(e *EscrowAccount) {
	if !e.Status.IsActive() {
		sdk.AbortCode(ModuleEscrow, EscrowInvalidStatus, "escrow is "+e.Status.String())
	}
}

func requireMilestoneStatus(m *Milestone, want MilestoneStatus) {
	if m.Status != want {
		sdk.AbortCode(ModuleEscrow, EscrowInvalidMilestoneStatus,
			"milestone is "+m.Status.String()+", expected "+want.String())
	}
}

func loadEscrowMilestone(ctx *sdk.Ctx, input *ObjectIndexArgs) (*EscrowAccount, *Milestone) {
	e := loadEscrow(ctx, input.Object)
	if input.Index >= e.MilestoneCount {
		sdk.AbortCode(ModuleEscrow, EscrowInvalidMilestone, "milestone index out of range")
	}
	return e, loadMilestone(ctx, e.ID, input.Index)
}
