////////////////////////////////////////////////////////////////////////////////
// LabShareDAO: governance, escrow, marketplace and incentives for shared labs
////////////////////////////////////////////////////////////////////////////////

package contract

import (
	"sort"

	"labshare_dao/sdk"
)

// Handler is the shape of every exported contract function.
type Handler func(ctx *sdk.Ctx, payload *string) *string

// Entrypoint is a registered action. ReadOnly entrypoints are served by queries
// and never mutate state.
type Entrypoint struct {
	Fn       Handler
	ReadOnly bool
}

var entrypoints = map[string]Entrypoint{
	// dao
	"dao.initialize":           {Fn: InitializeDAO},
	"dao.add_member":           {Fn: AddMember},
	"dao.add_funds":            {Fn: AddFunds},
	"dao.register_sensor_type": {Fn: RegisterSensorType},
	"dao.update_threshold":     {Fn: UpdateThreshold},
	"dao.submit_data":          {Fn: SubmitData},
	"dao.create_proposal":      {Fn: CreateProposal},
	"dao.vote":                 {Fn: Vote},
	"dao.execute_proposal":     {Fn: ExecuteProposal},
	"dao.info":                 {Fn: GetDAO, ReadOnly: true},
	"dao.treasury":             {Fn: GetTreasury, ReadOnly: true},
	"dao.member":               {Fn: GetMember, ReadOnly: true},
	"dao.proposal":             {Fn: GetProposal, ReadOnly: true},
	"dao.has_voted":            {Fn: HasVoted, ReadOnly: true},
	"dao.data_record":          {Fn: GetDataRecord, ReadOnly: true},
	"dao.threshold":            {Fn: GetThreshold, ReadOnly: true},

	// escrow
	"escrow.initialize":                {Fn: InitializeEscrow},
	"escrow.deposit_funds":             {Fn: DepositFunds},
	"escrow.define_milestone":          {Fn: DefineMilestone},
	"escrow.submit_milestone":          {Fn: SubmitMilestone},
	"escrow.resubmit_milestone":        {Fn: ResubmitMilestone},
	"escrow.approve_milestone":         {Fn: ApproveMilestone},
	"escrow.reject_milestone":          {Fn: RejectMilestone},
	"escrow.release_milestone_payment": {Fn: ReleaseMilestonePayment},
	"escrow.initiate_dispute":          {Fn: InitiateDispute},
	"escrow.cancel":                    {Fn: CancelEscrow},
	"escrow.info":                      {Fn: GetEscrow, ReadOnly: true},
	"escrow.milestone":                 {Fn: GetMilestone, ReadOnly: true},

	// market
	"market.initialize":           {Fn: InitializeMarketplace},
	"market.add_category":         {Fn: AddCategory},
	"market.set_fee":              {Fn: SetFee},
	"market.list_service":         {Fn: ListService},
	"market.update_listing":       {Fn: UpdateListing},
	"market.delist_service":       {Fn: DelistService},
	"market.purchase_service":     {Fn: PurchaseService},
	"market.start_service":        {Fn: StartService},
	"market.deliver_service":      {Fn: DeliverService},
	"market.confirm_delivery":     {Fn: ConfirmDelivery},
	"market.request_refund":       {Fn: RequestRefund},
	"market.update_listing_stats": {Fn: UpdateListingStats},
	"market.info":                 {Fn: GetMarketplace, ReadOnly: true},
	"market.listing":              {Fn: GetListing, ReadOnly: true},
	"market.agreement":            {Fn: GetAgreement, ReadOnly: true},

	// incentives
	"incentives.initialize_registry":   {Fn: InitializeRegistry},
	"incentives.add_contribution_type": {Fn: AddContributionType},
	"incentives.create_pool":           {Fn: CreatePool},
	"incentives.fund_pool":             {Fn: FundPool},
	"incentives.add_evaluator":         {Fn: AddEvaluator},
	"incentives.register_contribution": {Fn: RegisterContribution},
	"incentives.evaluate":              {Fn: Evaluate},
	"incentives.deactivate_pool":       {Fn: DeactivatePool},
	"incentives.withdraw_pool_funds":   {Fn: WithdrawPoolFunds},
	"incentives.setup_royalty":         {Fn: SetupRoyalty},
	"incentives.deposit_royalties":     {Fn: DepositRoyalties},
	"incentives.distribute_royalties":  {Fn: DistributeRoyalties},
	"incentives.deactivate_royalty":    {Fn: DeactivateRoyalty},
	"incentives.registry":              {Fn: GetRegistry, ReadOnly: true},
	"incentives.pool":                  {Fn: GetPool, ReadOnly: true},
	"incentives.receipt":               {Fn: GetReceipt, ReadOnly: true},
	"incentives.royalty":               {Fn: GetRoyalty, ReadOnly: true},
}

// Lookup resolves an action name such as "escrow.deposit_funds".
func Lookup(action string) (Entrypoint, bool) {
	ep, ok := entrypoints[action]
	return ep, ok
}

// Actions lists every registered action in sorted order.
func Actions() []string {
	out := make([]string, 0, len(entrypoints))
	for name := range entrypoints {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
