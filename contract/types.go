package contract

import "labshare_dao/sdk"

// -----------------------------------------------------------------------------
// DAO Governance
// -----------------------------------------------------------------------------

// DAO is the shared governance object. Members, proposals, data records and
// thresholds live in child tables keyed under its id.
type DAO struct {
	ID               sdk.ObjectID `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Admin            sdk.Address  `json:"admin"`
	SensorTypes      []string     `json:"sensor_types"`
	NextProposalID   uint64       `json:"next_proposal_id"`
	NextDataID       uint64       `json:"next_data_id"`
	MemberCount      uint64       `json:"member_count"`
	TotalVotingPower uint64       `json:"total_voting_power"`
	VotingPeriodMs   uint64       `json:"voting_period_ms"`
	QuorumBps        uint64       `json:"quorum_bps"`
	CreatedAt        int64        `json:"created_at"`
}

type Member struct {
	Address     sdk.Address `json:"address"`
	DisplayName string      `json:"display_name"`
	JoinedAt    int64       `json:"joined_at"`
	VotingPower uint64      `json:"voting_power"`
}

type ProposalType uint8

const (
	ProposalGeneral       ProposalType = 0
	ProposalAlert         ProposalType = 1
	ProposalConfiguration ProposalType = 2
)

func (t ProposalType) String() string {
	switch t {
	case ProposalGeneral:
		return "general"
	case ProposalAlert:
		return "alert"
	case ProposalConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// ConfigDelta is the structured change a Configuration proposal applies once approved.
type ConfigDelta struct {
	VotingPeriodMs *uint64 `json:"voting_period_ms,omitempty"`
	QuorumBps      *uint64 `json:"quorum_bps,omitempty"`
}

type Proposal struct {
	ID            uint64       `json:"id"`
	Type          ProposalType `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Proposer      sdk.Address  `json:"proposer"`
	CreatedAt     int64        `json:"created_at"`
	VotingEndTime int64        `json:"voting_end_time"`
	Executed      bool         `json:"executed"`
	Approved      bool         `json:"approved"`
	ExecutedAt    int64        `json:"executed_at"`
	YesVotes      uint64       `json:"yes_votes"`
	NoVotes       uint64       `json:"no_votes"`
	VoterCount    uint64       `json:"voter_count"`
	DataReference *uint64      `json:"data_reference,omitempty"`
	AlertSensorID *uint64      `json:"alert_sensor_id,omitempty"`
	AlertValue    *int64       `json:"alert_value,omitempty"`
	ConfigDelta   *ConfigDelta `json:"config_delta,omitempty"`
}

// IsOpen reports whether votes are still accepted at now (inclusive end).
func (p *Proposal) IsOpen(now int64) bool { return now <= p.VotingEndTime }

type DataRecord struct {
	ID              uint64      `json:"id"`
	SensorType      uint64      `json:"sensor_type"`
	SubmittedBy     sdk.Address `json:"submitted_by"`
	DataHash        []byte      `json:"data_hash"`
	Metadata        string      `json:"metadata"`
	Timestamp       int64       `json:"timestamp"`
	Value           int64       `json:"value"`
	TriggeredAlert  bool        `json:"triggered_alert"`
	AlertProposalID *uint64     `json:"alert_proposal_id,omitempty"`
}

type Threshold struct {
	SensorType  uint64 `json:"sensor_type"`
	MinValue    int64  `json:"min_value"`
	MaxValue    int64  `json:"max_value"`
	Description string `json:"description"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Contains reports whether value lies within [min, max].
func (t *Threshold) Contains(value int64) bool {
	return value >= t.MinValue && value <= t.MaxValue
}

// -----------------------------------------------------------------------------
// Milestone Escrow
// -----------------------------------------------------------------------------

type EscrowStatus uint8

const (
	EscrowActive    EscrowStatus = 0
	EscrowCompleted EscrowStatus = 1
	EscrowDisputed  EscrowStatus = 2
	EscrowCancelled EscrowStatus = 3
)

func (s EscrowStatus) String() string {
	switch s {
	case EscrowActive:
		return "active"
	case EscrowCompleted:
		return "completed"
	case EscrowDisputed:
		return "disputed"
	case EscrowCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s EscrowStatus) IsActive() bool { return s == EscrowActive }

type EscrowAccount struct {
	ID                sdk.ObjectID  `json:"id"`
	Funder            sdk.Address   `json:"funder"`
	Beneficiary       sdk.Address   `json:"beneficiary"`
	TotalAmount       uint64        `json:"total_amount"`
	DepositedAmount   uint64        `json:"deposited_amount"`
	PaidAmount        uint64        `json:"paid_amount"`
	AllocatedAmount   uint64        `json:"allocated_amount"`
	RefundedAmount    uint64        `json:"refunded_amount"`
	Status            EscrowStatus  `json:"status"`
	MilestoneCount    uint64        `json:"milestone_count"`
	PaidCount         uint64        `json:"paid_count"`
	CreatedAt         int64         `json:"created_at"`
	DAOReference      *sdk.ObjectID `json:"dao_reference,omitempty"`
	DisputedMilestone *uint64       `json:"disputed_milestone,omitempty"`
	DisputeReason     string        `json:"dispute_reason"`
}

type MilestoneStatus uint8

const (
	MilestonePending   MilestoneStatus = 0
	MilestoneSubmitted MilestoneStatus = 1
	MilestoneApproved  MilestoneStatus = 2
	MilestoneRejected  MilestoneStatus = 3
	MilestonePaid      MilestoneStatus = 4
)

func (s MilestoneStatus) String() string {
	switch s {
	case MilestonePending:
		return "pending"
	case MilestoneSubmitted:
		return "submitted"
	case MilestoneApproved:
		return "approved"
	case MilestoneRejected:
		return "rejected"
	case MilestonePaid:
		return "paid"
	default:
		return "unknown"
	}
}

func (s MilestoneStatus) IsPending() bool   { return s == MilestonePending }
func (s MilestoneStatus) IsSubmitted() bool { return s == MilestoneSubmitted }
func (s MilestoneStatus) IsApproved() bool  { return s == MilestoneApproved }
func (s MilestoneStatus) IsRejected() bool  { return s == MilestoneRejected }
func (s MilestoneStatus) IsPaid() bool      { return s == MilestonePaid }

type Milestone struct {
	Index              uint64          `json:"index"`
	Description        string          `json:"description"`
	Amount             uint64          `json:"amount"`
	DueDate            int64           `json:"due_date"`
	Status             MilestoneStatus `json:"status"`
	ProofLink          *string         `json:"proof_link,omitempty"`
	ApprovalProposalID *uint64         `json:"approval_proposal_id,omitempty"`
	RejectionReason    string          `json:"rejection_reason"`
}

// -----------------------------------------------------------------------------
// Services Marketplace
// -----------------------------------------------------------------------------

type Marketplace struct {
	ID                 sdk.ObjectID `json:"id"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	Admin              sdk.Address  `json:"admin"`
	Categories         []string     `json:"categories"`
	ListingCount       uint64       `json:"listing_count"`
	AgreementCount     uint64       `json:"agreement_count"`
	ActiveListingCount uint64       `json:"active_listing_count"`
	TotalVolume        uint64       `json:"total_volume"`
	TotalFees          uint64       `json:"total_fees"`
	FeeBps             uint64       `json:"fee_bps"`
	CreatedAt          int64        `json:"created_at"`
}

type ListingStatus uint8

const (
	ListingActive   ListingStatus = 0
	ListingPaused   ListingStatus = 1
	ListingDelisted ListingStatus = 2
)

func (s ListingStatus) String() string {
	switch s {
	case ListingActive:
		return "active"
	case ListingPaused:
		return "paused"
	case ListingDelisted:
		return "delisted"
	default:
		return "unknown"
	}
}

type ServiceListing struct {
	ID            sdk.ObjectID  `json:"id"`
	MarketplaceID sdk.ObjectID  `json:"marketplace_id"`
	Provider      sdk.Address   `json:"provider"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Category      uint64        `json:"category"`
	PricePerUnit  uint64        `json:"price_per_unit"`
	Metadata      string        `json:"metadata"`
	Available     bool          `json:"available"`
	Status        ListingStatus `json:"status"`
	TotalSales    uint64        `json:"total_sales"`
	RatingSum     uint64        `json:"rating_sum"`
	RatingCount   uint64        `json:"rating_count"`
	CreatedAt     int64         `json:"created_at"`
	UpdatedAt     int64         `json:"updated_at"`
	DAOReference  *sdk.ObjectID `json:"dao_reference,omitempty"`
}

type AgreementStatus uint8

const (
	AgreementFunded     AgreementStatus = 0
	AgreementInProgress AgreementStatus = 1
	AgreementDelivered  AgreementStatus = 2
	AgreementCompleted  AgreementStatus = 3
	AgreementDisputed   AgreementStatus = 4
	AgreementRefunded   AgreementStatus = 5
)

func (s AgreementStatus) String() string {
	switch s {
	case AgreementFunded:
		return "funded"
	case AgreementInProgress:
		return "in_progress"
	case AgreementDelivered:
		return "delivered"
	case AgreementCompleted:
		return "completed"
	case AgreementDisputed:
		return "disputed"
	case AgreementRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// IsTerminal covers the absorbing states.
func (s AgreementStatus) IsTerminal() bool {
	return s == AgreementCompleted || s == AgreementRefunded
}

type ServiceAgreement struct {
	ID                  sdk.ObjectID    `json:"id"`
	MarketplaceID       sdk.ObjectID    `json:"marketplace_id"`
	ListingID           sdk.ObjectID    `json:"listing_id"`
	Buyer               sdk.Address     `json:"buyer"`
	Provider            sdk.Address     `json:"provider"`
	ServiceTitle        string          `json:"service_title"`
	Quantity            uint64          `json:"quantity"`
	UnitPrice           uint64          `json:"unit_price"`
	TotalPrice          uint64          `json:"total_price"`
	Status              AgreementStatus `json:"status"`
	DeliveryDeadline    *int64          `json:"delivery_deadline,omitempty"`
	DeliveryProof       *string         `json:"delivery_proof,omitempty"`
	DataRecordReference *string         `json:"data_record_reference,omitempty"`
	BuyerRating         *uint64         `json:"buyer_rating,omitempty"`
	PlatformFee         uint64          `json:"platform_fee"`
	RefundedAmount      uint64          `json:"refunded_amount"`
	StatsRecorded       bool            `json:"stats_recorded"`
	DisputeReason       string          `json:"dispute_reason"`
	CreatedAt           int64           `json:"created_at"`
	DeliveredAt         int64           `json:"delivered_at"`
	CompletedAt         int64           `json:"completed_at"`
}

// -----------------------------------------------------------------------------
// Research Incentives
// -----------------------------------------------------------------------------

type IncentivesRegistry struct {
	ID                        sdk.ObjectID `json:"id"`
	Admin                     sdk.Address  `json:"admin"`
	ContributionTypes         []string     `json:"contribution_types"`
	PoolCount                 uint64       `json:"pool_count"`
	ActivePoolCount           uint64       `json:"active_pool_count"`
	ReceiptCount              uint64       `json:"receipt_count"`
	RoyaltyCount              uint64       `json:"royalty_count"`
	TotalRewardsDistributed   uint64       `json:"total_rewards_distributed"`
	TotalRoyaltiesDistributed uint64       `json:"total_royalties_distributed"`
	CreatedAt                 int64        `json:"created_at"`
}

type RewardPool struct {
	ID                sdk.ObjectID  `json:"id"`
	RegistryID        sdk.ObjectID  `json:"registry_id"`
	Creator           sdk.Address   `json:"creator"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Criteria          string        `json:"criteria"`
	EligibleTypes     []uint8       `json:"eligible_types"`
	DistributedAmount uint64        `json:"distributed_amount"`
	Active            bool          `json:"active"`
	EvaluatorCount    uint64        `json:"evaluator_count"`
	CreatedAt         int64         `json:"created_at"`
	DAOReference      *sdk.ObjectID `json:"dao_reference,omitempty"`
}

// IsEligible reports whether receipts of contribution type t may draw from the pool.
func (p *RewardPool) IsEligible(t uint8) bool {
	for _, e := range p.EligibleTypes {
		if e == t {
			return true
		}
	}
	return false
}

type ReceiptStatus uint8

const (
	ReceiptPendingReview ReceiptStatus = 0
	ReceiptApproved      ReceiptStatus = 1
	ReceiptRewarded      ReceiptStatus = 2
	ReceiptRejected      ReceiptStatus = 3
)

func (s ReceiptStatus) String() string {
	switch s {
	case ReceiptPendingReview:
		return "pending_review"
	case ReceiptApproved:
		return "approved"
	case ReceiptRewarded:
		return "rewarded"
	case ReceiptRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (s ReceiptStatus) IsPendingReview() bool { return s == ReceiptPendingReview }
func (s ReceiptStatus) IsRewarded() bool      { return s == ReceiptRewarded }

type ContributionReceipt struct {
	ID               sdk.ObjectID  `json:"id"`
	RegistryID       sdk.ObjectID  `json:"registry_id"`
	Contributor      sdk.Address   `json:"contributor"`
	ContributionType uint8         `json:"contribution_type"`
	ReferenceID      string        `json:"reference_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Metadata         string        `json:"metadata"`
	Status           ReceiptStatus `json:"status"`
	SubmittedAt      int64         `json:"submitted_at"`
	EvaluatedAt      int64         `json:"evaluated_at"`
	Evaluator        *sdk.Address  `json:"evaluator,omitempty"`
	RewardAmount     *uint64       `json:"reward_amount,omitempty"`
	PoolReference    *sdk.ObjectID `json:"pool_reference,omitempty"`
	Reason           string        `json:"reason"`
}

type RoyaltyShare struct {
	Beneficiary sdk.Address `json:"beneficiary"`
	ShareBps    uint64      `json:"share_bps"`
}

type RoyaltySplitAgreement struct {
	ID               sdk.ObjectID   `json:"id"`
	RegistryID       sdk.ObjectID   `json:"registry_id"`
	Creator          sdk.Address    `json:"creator"`
	IPReference      string         `json:"ip_reference"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Beneficiaries    []RoyaltyShare `json:"beneficiaries"`
	TotalShares      uint64         `json:"total_shares"`
	TotalDistributed uint64         `json:"total_distributed"`
	Active           bool           `json:"active"`
	LastDistribution *int64         `json:"last_distribution,omitempty"`
	CreatedAt        int64          `json:"created_at"`
}
