package contract

// -----------------------------------------------------------------------------
// Module Names (abort metadata)
// -----------------------------------------------------------------------------

const (
	ModuleDAO        = "dao"
	ModuleEscrow     = "escrow"
	ModuleMarket     = "market"
	ModuleIncentives = "incentives"
)

// -----------------------------------------------------------------------------
// Error Codes
// -----------------------------------------------------------------------------

// DAO governance.
const (
	DAONotAuthorized       uint64 = 0
	DAOMemberExists        uint64 = 1
	DAONotMember           uint64 = 2
	DAOInvalidThreshold    uint64 = 3
	DAOProposalNotFound    uint64 = 4
	DAOVotingClosed        uint64 = 5
	DAOAlreadyVoted        uint64 = 6
	DAOVotingNotEnded      uint64 = 7
	DAOAlreadyExecuted     uint64 = 8
	DAOInvalidProposalType uint64 = 9
	DAOInvalidAmount       uint64 = 10
	DAOInvalidVote         uint64 = 11
	DAOInvalidConfigDelta  uint64 = 12
	DAOSensorTypeNotFound  uint64 = 13
	DAODataRecordNotFound  uint64 = 14
)

// Milestone escrow.
const (
	EscrowNotAuthorized          uint64 = 0
	EscrowInvalidAmount          uint64 = 1
	EscrowInvalidMilestone       uint64 = 2
	EscrowInsufficientFunds      uint64 = 3
	EscrowInvalidStatus          uint64 = 4
	EscrowSameParty              uint64 = 5
	EscrowDepositExceedsTotal    uint64 = 6
	EscrowInvalidMilestoneStatus uint64 = 7
	EscrowAlreadyPaidOut         uint64 = 8
)

// Services marketplace.
const (
	MarketNotAuthorized      uint64 = 0
	MarketInvalidPrice       uint64 = 1
	MarketInvalidQuantity    uint64 = 2
	MarketInsufficientFunds  uint64 = 3
	MarketInvalidStatus      uint64 = 4
	MarketInvalidCategory    uint64 = 5
	MarketInvalidRating      uint64 = 6
	MarketListingUnavailable uint64 = 7
	MarketInvalidFee         uint64 = 8
	MarketAgreementMismatch  uint64 = 9
	MarketInvalidDeadline    uint64 = 10
	MarketDeadlinePassed     uint64 = 11
)

// Research incentives.
const (
	IncentivesNotAuthorized           uint64 = 0
	IncentivesInvalidAmount           uint64 = 1
	IncentivesInsufficientFunds       uint64 = 2
	IncentivesInvalidContribution     uint64 = 3
	IncentivesInvalidStatus           uint64 = 4
	IncentivesPoolInactive            uint64 = 5
	IncentivesInvalidBeneficiaryShare uint64 = 6
	IncentivesAgreementInactive       uint64 = 7
	IncentivesNoRoyalties             uint64 = 8
	IncentivesPoolActive              uint64 = 9
	IncentivesAlreadyInitialized      uint64 = 10
	IncentivesInvalidContributionType uint64 = 11
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	BpsDenominator = 10_000

	AdminVotingPower         = 100
	MemberVotingPower        = 10
	DefaultVotingPeriodMs    = 7 * 24 * 60 * 60 * 1000
	DefaultQuorumBps         = 5_000
	DefaultMarketplaceFeeBps = 250
	MaxMarketplaceFeeBps     = 1_000
	MinRating                = 1
	MaxRating                = 5
)

var (
	defaultSensorTypes = []string{"temperature", "humidity", "co2", "pressure", "light"}

	// defaultThresholds is keyed by index into defaultSensorTypes.
	defaultThresholds = []Threshold{
		{SensorType: 0, MinValue: -90, MaxValue: -60, Description: "ultra-low freezer"},
		{SensorType: 1, MinValue: 20, MaxValue: 60, Description: "relative humidity %"},
		{SensorType: 2, MinValue: 0, MaxValue: 1000, Description: "co2 ppm"},
	}

	defaultCategories = []string{
		"Lab Equipment",
		"Data Analysis",
		"Sample Processing",
		"Consulting",
		"Computing",
		"Other",
	}

	defaultContributionTypes = []string{
		"Dataset",
		"Code",
		"Publication",
		"Peer Review",
		"Protocol",
		"Equipment Time",
	}
)

// -----------------------------------------------------------------------------
// Validation Limits
// -----------------------------------------------------------------------------

const (
	MaxNameLength        = 128
	MaxDescriptionLength = 2_000
	MaxMetadataLength    = 4_000
	MaxSensorTypes       = 64
	MaxCategories        = 64
	MaxContributionTypes = 64
	MaxBeneficiaries     = 64
)

// -----------------------------------------------------------------------------
// Custody Slots
// -----------------------------------------------------------------------------

const (
	slotTreasury  = "treasury"
	slotFunds     = "funds"
	slotRoyalties = "royalties"
)
