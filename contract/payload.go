package contract

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"labshare_dao/sdk"
)

// -----------------------------------------------------------------------------
// Field helpers
// -----------------------------------------------------------------------------

// unwrapPayload trims the payload and strips one layer of JSON quoting, since
// clients sometimes send the pipe string as a JSON string literal.
func unwrapPayload(payload *string, errMsg string) string {
	if payload == nil {
		sdk.Abort(errMsg)
	}
	raw := strings.TrimSpace(*payload)
	if raw == "" {
		sdk.Abort(errMsg)
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		if unquoted, err := strconv.Unquote(raw); err == nil {
			raw = strings.TrimSpace(unquoted)
		}
	}
	if raw == "" {
		sdk.Abort(errMsg)
	}
	return raw
}

// fields is a split pipe payload with forgiving index access.
type fields []string

func splitPayload(payload *string, errMsg string, required int) fields {
	raw := unwrapPayload(payload, errMsg)
	parts := fields(strings.Split(raw, "|"))
	if len(parts) < required {
		sdk.Abort(errMsg)
	}
	return parts
}

func (f fields) get(i int) string {
	if i < len(f) {
		return strings.TrimSpace(f[i])
	}
	return ""
}

// rest returns field i and everything after it, rejoined. Trailing free text
// may itself contain the separator.
func (f fields) rest(i int) string {
	if i < len(f) {
		return strings.TrimSpace(strings.Join(f[i:], "|"))
	}
	return ""
}

// normalizeOptionalField folds the different ways clients spell "nothing" into "".
func normalizeOptionalField(val string) string {
	val = strings.TrimSpace(val)
	if val == "" || val == "\"\"" || val == "''" || strings.EqualFold(val, "none") {
		return ""
	}
	return val
}

func parseObjectIDField(val string, field string) sdk.ObjectID {
	id, ok := sdk.ParseObjectID(val)
	if !ok {
		sdk.Abort(fmt.Sprintf("invalid %s", field))
	}
	return id
}

func parseOptionalObjectIDField(val string, field string) *sdk.ObjectID {
	if normalizeOptionalField(val) == "" {
		return nil
	}
	id := parseObjectIDField(val, field)
	return &id
}

func parseAddressField(val string, field string) sdk.Address {
	addr, ok := sdk.ParseAddress(val)
	if !ok {
		sdk.Abort(fmt.Sprintf("invalid %s", field))
	}
	return addr
}

// parseUintField treats an empty field as zero, matching how optional amounts are sent.
func parseUintField(val string, field string) uint64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		sdk.Abort(fmt.Sprintf("invalid %s", field))
	}
	return n
}

func parseRequiredUintField(val string, field string) uint64 {
	if strings.TrimSpace(val) == "" {
		sdk.Abort(fmt.Sprintf("%s required", field))
	}
	return parseUintField(val, field)
}

func parseOptionalUintField(val string, field string) *uint64 {
	if normalizeOptionalField(val) == "" {
		return nil
	}
	n := parseUintField(val, field)
	return &n
}

func parseIntField(val string, field string) int64 {
	val = strings.TrimSpace(val)
	if val == "" {
		sdk.Abort(fmt.Sprintf("%s required", field))
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		sdk.Abort(fmt.Sprintf("invalid %s", field))
	}
	return n
}

func parseOptionalIntField(val string, field string) *int64 {
	if normalizeOptionalField(val) == "" {
		return nil
	}
	n := parseIntField(val, field)
	return &n
}

// parseStrictBoolField refuses anything that is not clearly true or false.
func parseStrictBoolField(val string, field string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		sdk.Abort(fmt.Sprintf("invalid %s", field))
		return false
	}
}

func parseHexField(val string, field string) []byte {
	val = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(val)), "0x")
	if val == "" {
		return []byte{}
	}
	b, err := hex.DecodeString(val)
	if err != nil {
		sdk.Abort(fmt.Sprintf("invalid %s", field))
	}
	return b
}

// splitList splits comma or semicolon separated values, skipping blanks.
func splitList(val string) []string {
	raw := strings.FieldsFunc(val, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseUint8ListField(val string, field string) []uint8 {
	parts := splitList(val)
	out := make([]uint8, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			sdk.Abort(fmt.Sprintf("invalid %s", field))
		}
		out = append(out, uint8(n))
	}
	return out
}

func parseUintListField(val string, field string) []uint64 {
	parts := splitList(val)
	out := make([]uint64, 0, len(parts))
	for _, part := range parts {
		out = append(out, parseUintField(part, field))
	}
	return out
}

func parseAddressListField(val string, field string) []sdk.Address {
	parts := splitList(val)
	out := make([]sdk.Address, 0, len(parts))
	for _, part := range parts {
		out = append(out, parseAddressField(part, field))
	}
	return out
}

// checkLength aborts when a free text field exceeds its limit.
func checkLength(val string, max int, field string) string {
	if len(val) > max {
		sdk.Abort(fmt.Sprintf("%s exceeds %d bytes", field, max))
	}
	return val
}

// -----------------------------------------------------------------------------
// DAO payloads
// -----------------------------------------------------------------------------

// InitArgs is shared by the dao and marketplace constructors.
type InitArgs struct {
	Name            string
	Description     string
	InitialTreasury uint64
}

// decodeInitArgs expects `name|description|initial_treasury`.
func decodeInitArgs(payload *string, what string) *InitArgs {
	f := splitPayload(payload, what+" payload requires name|description|initial_treasury", 1)
	args := &InitArgs{
		Name:            checkLength(f.get(0), MaxNameLength, "name"),
		Description:     checkLength(f.get(1), MaxDescriptionLength, "description"),
		InitialTreasury: parseUintField(f.get(2), "initial treasury"),
	}
	if args.Name == "" {
		sdk.Abort(what + " name required")
	}
	return args
}

type AddMemberArgs struct {
	DAO         sdk.ObjectID
	Address     sdk.Address
	DisplayName string
}

func decodeAddMemberArgs(payload *string) *AddMemberArgs {
	f := splitPayload(payload, "member payload requires dao|address|display_name", 2)
	return &AddMemberArgs{
		DAO:         parseObjectIDField(f.get(0), "dao id"),
		Address:     parseAddressField(f.get(1), "member address"),
		DisplayName: checkLength(f.rest(2), MaxNameLength, "display name"),
	}
}

// ObjectAmountArgs covers every `object|amount` payload (add_funds, deposits, funding).
type ObjectAmountArgs struct {
	Object sdk.ObjectID
	Amount uint64
}

func decodeObjectAmountArgs(payload *string, what string) *ObjectAmountArgs {
	f := splitPayload(payload, what+" payload requires id|amount", 1)
	return &ObjectAmountArgs{
		Object: parseObjectIDField(f.get(0), what+" id"),
		Amount: parseUintField(f.get(1), "amount"),
	}
}

// ObjectNameArgs covers `object|name` payloads (sensor types, categories, contribution types).
type ObjectNameArgs struct {
	Object sdk.ObjectID
	Name   string
}

func decodeObjectNameArgs(payload *string, what string) *ObjectNameArgs {
	f := splitPayload(payload, what+" payload requires id|name", 2)
	args := &ObjectNameArgs{
		Object: parseObjectIDField(f.get(0), what+" id"),
		Name:   checkLength(f.rest(1), MaxNameLength, "name"),
	}
	if args.Name == "" {
		sdk.Abort("name required")
	}
	return args
}

type UpdateThresholdArgs struct {
	DAO         sdk.ObjectID
	SensorType  uint64
	Min         int64
	Max         int64
	Description string
}

func decodeUpdateThresholdArgs(payload *string) *UpdateThresholdArgs {
	f := splitPayload(payload, "threshold payload requires dao|sensor_type|min|max|description", 4)
	return &UpdateThresholdArgs{
		DAO:         parseObjectIDField(f.get(0), "dao id"),
		SensorType:  parseRequiredUintField(f.get(1), "sensor type"),
		Min:         parseIntField(f.get(2), "min value"),
		Max:         parseIntField(f.get(3), "max value"),
		Description: checkLength(f.rest(4), MaxDescriptionLength, "description"),
	}
}

type SubmitDataArgs struct {
	DAO        sdk.ObjectID
	SensorType uint64
	DataHash   []byte
	Metadata   string
	Value      int64
}

func decodeSubmitDataArgs(payload *string) *SubmitDataArgs {
	f := splitPayload(payload, "data payload requires dao|sensor_type|data_hash|metadata|value", 5)
	return &SubmitDataArgs{
		DAO:        parseObjectIDField(f.get(0), "dao id"),
		SensorType: parseRequiredUintField(f.get(1), "sensor type"),
		DataHash:   parseHexField(f.get(2), "data hash"),
		Metadata:   checkLength(f.get(3), MaxMetadataLength, "metadata"),
		Value:      parseIntField(f.get(4), "value"),
	}
}

type CreateProposalArgs struct {
	DAO         sdk.ObjectID
	Title       string
	Description string
	Type        ProposalType
	ConfigDelta *ConfigDelta
}

// decodeCreateProposalArgs expects `dao|title|description|type|config_delta`.
func decodeCreateProposalArgs(payload *string) *CreateProposalArgs {
	f := splitPayload(payload, "proposal payload requires dao|title|description|type", 4)
	args := &CreateProposalArgs{
		DAO:         parseObjectIDField(f.get(0), "dao id"),
		Title:       checkLength(f.get(1), MaxNameLength, "title"),
		Description: checkLength(f.get(2), MaxDescriptionLength, "description"),
		Type:        parseProposalTypeField(f.get(3)),
		ConfigDelta: parseConfigDeltaField(f.get(4)),
	}
	if args.Title == "" {
		sdk.Abort("proposal title required")
	}
	return args
}

// parseProposalTypeField accepts names or the numeric tag. Alert proposals are
// only ever created by submit_data, so they are rejected here.
func parseProposalTypeField(val string) ProposalType {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "0", "general":
		return ProposalGeneral
	case "2", "configuration", "config":
		return ProposalConfiguration
	default:
		sdk.AbortCode(ModuleDAO, DAOInvalidProposalType, "proposal type must be general or configuration")
		return ProposalGeneral
	}
}

// parseConfigDeltaField reads `voting_period_ms=<u64>,quorum_bps=<u16>`.
func parseConfigDeltaField(val string) *ConfigDelta {
	val = normalizeOptionalField(val)
	if val == "" {
		return nil
	}
	delta := &ConfigDelta{}
	for _, part := range splitList(val) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "config delta entries must be key=value")
		}
		n, err := strconv.ParseUint(strings.TrimSpace(kv[1]), 10, 64)
		if err != nil {
			sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "config delta values must be unsigned integers")
		}
		switch strings.TrimSpace(kv[0]) {
		case "voting_period_ms":
			delta.VotingPeriodMs = &n
		case "quorum_bps":
			delta.QuorumBps = &n
		default:
			sdk.AbortCode(ModuleDAO, DAOInvalidConfigDelta, "unknown config key "+kv[0])
		}
	}
	return delta
}

type VoteArgs struct {
	DAO        sdk.ObjectID
	ProposalID uint64
	Yes        bool
}

// decodeVoteArgs expects `dao|proposal_id|yes|no`; abstain is refused rather than dropped.
func decodeVoteArgs(payload *string) *VoteArgs {
	f := splitPayload(payload, "vote payload requires dao|proposal_id|vote", 3)
	args := &VoteArgs{
		DAO:        parseObjectIDField(f.get(0), "dao id"),
		ProposalID: parseRequiredUintField(f.get(1), "proposal id"),
	}
	switch strings.ToLower(f.get(2)) {
	case "yes", "y", "true", "1":
		args.Yes = true
	case "no", "n", "false", "0":
		args.Yes = false
	case "abstain":
		sdk.AbortCode(ModuleDAO, DAOInvalidVote, "abstain votes are not supported")
	default:
		sdk.AbortCode(ModuleDAO, DAOInvalidVote, "vote must be yes or no")
	}
	return args
}

// ObjectIndexArgs covers `object|index|text` payloads (proposal ids, milestone indexes).
type ObjectIndexArgs struct {
	Object sdk.ObjectID
	Index  uint64
	Text   string
}

func decodeObjectIndexArgs(payload *string, what string, index string) *ObjectIndexArgs {
	f := splitPayload(payload, what+" payload requires id|"+index, 2)
	return &ObjectIndexArgs{
		Object: parseObjectIDField(f.get(0), what+" id"),
		Index:  parseRequiredUintField(f.get(1), index),
		Text:   checkLength(f.rest(2), MaxDescriptionLength, "text"),
	}
}

// -----------------------------------------------------------------------------
// Escrow payloads
// -----------------------------------------------------------------------------

type InitEscrowArgs struct {
	Funder       *sdk.Address
	Beneficiary  sdk.Address
	TotalAmount  uint64
	DAOReference *sdk.ObjectID
}

func decodeInitEscrowArgs(payload *string) *InitEscrowArgs {
	f := splitPayload(payload, "escrow payload requires funder|beneficiary|total_amount|dao_reference", 3)
	args := &InitEscrowArgs{
		Beneficiary:  parseAddressField(f.get(1), "beneficiary"),
		TotalAmount:  parseUintField(f.get(2), "total amount"),
		DAOReference: parseOptionalObjectIDField(f.get(3), "dao reference"),
	}
	if v := normalizeOptionalField(f.get(0)); v != "" {
		funder := parseAddressField(v, "funder")
		args.Funder = &funder
	}
	return args
}

type DefineMilestoneArgs struct {
	Escrow             sdk.ObjectID
	Description        string
	Amount             uint64
	DueDate            int64
	ApprovalProposalID *uint64
}

func decodeDefineMilestoneArgs(payload *string) *DefineMilestoneArgs {
	f := splitPayload(payload, "milestone payload requires escrow|description|amount|due_date", 3)
	args := &DefineMilestoneArgs{
		Escrow:             parseObjectIDField(f.get(0), "escrow id"),
		Description:        checkLength(f.get(1), MaxDescriptionLength, "description"),
		Amount:             parseUintField(f.get(2), "amount"),
		ApprovalProposalID: parseOptionalUintField(f.get(4), "approval proposal id"),
	}
	if v := parseOptionalIntField(f.get(3), "due date"); v != nil {
		args.DueDate = *v
	}
	return args
}

type DisputeArgs struct {
	Escrow    sdk.ObjectID
	Milestone *uint64
	Reason    string
}

func decodeDisputeArgs(payload *string) *DisputeArgs {
	f := splitPayload(payload, "dispute payload requires escrow|index|reason", 1)
	return &DisputeArgs{
		Escrow:    parseObjectIDField(f.get(0), "escrow id"),
		Milestone: parseOptionalUintField(f.get(1), "milestone index"),
		Reason:    checkLength(f.rest(2), MaxDescriptionLength, "reason"),
	}
}

// decodeObjectArg reads a payload that is just one object id.
func decodeObjectArg(payload *string, what string) sdk.ObjectID {
	f := splitPayload(payload, what+" id required", 1)
	return parseObjectIDField(f.get(0), what+" id")
}

// decodeTwoObjectArgs reads `a|b` object pairs and an optional trailing text.
func decodeTwoObjectArgs(payload *string, first, second string) (sdk.ObjectID, sdk.ObjectID, string) {
	f := splitPayload(payload, "payload requires "+first+"|"+second, 2)
	return parseObjectIDField(f.get(0), first+" id"),
		parseObjectIDField(f.get(1), second+" id"),
		checkLength(f.rest(2), MaxDescriptionLength, "text")
}

// -----------------------------------------------------------------------------
// Marketplace payloads
// -----------------------------------------------------------------------------

type ListServiceArgs struct {
	Marketplace  sdk.ObjectID
	Title        string
	Description  string
	Category     uint64
	Price        uint64
	Metadata     string
	DAOReference *sdk.ObjectID
}

func decodeListServiceArgs(payload *string) *ListServiceArgs {
	f := splitPayload(payload, "listing payload requires marketplace|title|description|category|price", 5)
	args := &ListServiceArgs{
		Marketplace:  parseObjectIDField(f.get(0), "marketplace id"),
		Title:        checkLength(f.get(1), MaxNameLength, "title"),
		Description:  checkLength(f.get(2), MaxDescriptionLength, "description"),
		Category:     parseRequiredUintField(f.get(3), "category"),
		Price:        parseUintField(f.get(4), "price"),
		Metadata:     checkLength(f.get(5), MaxMetadataLength, "metadata"),
		DAOReference: parseOptionalObjectIDField(f.get(6), "dao reference"),
	}
	if args.Title == "" {
		sdk.Abort("listing title required")
	}
	return args
}

type UpdateListingArgs struct {
	Listing         sdk.ObjectID
	NewPrice        *uint64
	NewDescription  *string
	NewAvailability *bool
}

func decodeUpdateListingArgs(payload *string) *UpdateListingArgs {
	f := splitPayload(payload, "update payload requires listing|price|description|availability", 1)
	args := &UpdateListingArgs{
		Listing:  parseObjectIDField(f.get(0), "listing id"),
		NewPrice: parseOptionalUintField(f.get(1), "price"),
	}
	if v := normalizeOptionalField(f.get(2)); v != "" {
		desc := checkLength(v, MaxDescriptionLength, "description")
		args.NewDescription = &desc
	}
	if v := normalizeOptionalField(f.get(3)); v != "" {
		avail := parseStrictBoolField(v, "availability")
		args.NewAvailability = &avail
	}
	return args
}

type PurchaseArgs struct {
	Marketplace      sdk.ObjectID
	Listing          sdk.ObjectID
	Quantity         uint64
	Payment          uint64
	DeliveryDeadline *int64
}

func decodePurchaseArgs(payload *string) *PurchaseArgs {
	f := splitPayload(payload, "purchase payload requires marketplace|listing|quantity|payment", 4)
	return &PurchaseArgs{
		Marketplace:      parseObjectIDField(f.get(0), "marketplace id"),
		Listing:          parseObjectIDField(f.get(1), "listing id"),
		Quantity:         parseUintField(f.get(2), "quantity"),
		Payment:          parseUintField(f.get(3), "payment"),
		DeliveryDeadline: parseOptionalIntField(f.get(4), "delivery deadline"),
	}
}

type DeliverArgs struct {
	Agreement           sdk.ObjectID
	DeliveryProof       string
	DataRecordReference *string
}

func decodeDeliverArgs(payload *string) *DeliverArgs {
	f := splitPayload(payload, "delivery payload requires agreement|delivery_proof", 2)
	args := &DeliverArgs{
		Agreement:     parseObjectIDField(f.get(0), "agreement id"),
		DeliveryProof: checkLength(f.get(1), MaxMetadataLength, "delivery proof"),
	}
	if args.DeliveryProof == "" {
		sdk.Abort("delivery proof required")
	}
	if v := normalizeOptionalField(f.get(2)); v != "" {
		args.DataRecordReference = &v
	}
	return args
}

type ConfirmDeliveryArgs struct {
	Marketplace sdk.ObjectID
	Agreement   sdk.ObjectID
	Rating      *uint64
}

func decodeConfirmDeliveryArgs(payload *string) *ConfirmDeliveryArgs {
	f := splitPayload(payload, "confirm payload requires marketplace|agreement|rating", 2)
	return &ConfirmDeliveryArgs{
		Marketplace: parseObjectIDField(f.get(0), "marketplace id"),
		Agreement:   parseObjectIDField(f.get(1), "agreement id"),
		Rating:      parseOptionalUintField(f.get(2), "rating"),
	}
}

// -----------------------------------------------------------------------------
// Incentives payloads
// -----------------------------------------------------------------------------

type CreatePoolArgs struct {
	Registry      sdk.ObjectID
	Name          string
	Description   string
	Criteria      string
	EligibleTypes []uint8
	InitialFunds  uint64
	DAOReference  *sdk.ObjectID
}

func decodeCreatePoolArgs(payload *string) *CreatePoolArgs {
	f := splitPayload(payload, "pool payload requires registry|name|description|criteria|eligible_types|initial_funds", 6)
	args := &CreatePoolArgs{
		Registry:      parseObjectIDField(f.get(0), "registry id"),
		Name:          checkLength(f.get(1), MaxNameLength, "name"),
		Description:   checkLength(f.get(2), MaxDescriptionLength, "description"),
		Criteria:      checkLength(f.get(3), MaxDescriptionLength, "criteria"),
		EligibleTypes: parseUint8ListField(f.get(4), "eligible types"),
		InitialFunds:  parseUintField(f.get(5), "initial funds"),
		DAOReference:  parseOptionalObjectIDField(f.get(6), "dao reference"),
	}
	if args.Name == "" {
		sdk.Abort("pool name required")
	}
	return args
}

type AddEvaluatorArgs struct {
	Pool      sdk.ObjectID
	Evaluator sdk.Address
}

func decodeAddEvaluatorArgs(payload *string) *AddEvaluatorArgs {
	f := splitPayload(payload, "evaluator payload requires pool|evaluator", 2)
	return &AddEvaluatorArgs{
		Pool:      parseObjectIDField(f.get(0), "pool id"),
		Evaluator: parseAddressField(f.get(1), "evaluator"),
	}
}

type RegisterContributionArgs struct {
	Registry    sdk.ObjectID
	Type        uint64
	ReferenceID string
	Title       string
	Description string
	Metadata    string
}

func decodeRegisterContributionArgs(payload *string) *RegisterContributionArgs {
	f := splitPayload(payload, "contribution payload requires registry|type|reference_id|title", 4)
	return &RegisterContributionArgs{
		Registry:    parseObjectIDField(f.get(0), "registry id"),
		Type:        parseRequiredUintField(f.get(1), "contribution type"),
		ReferenceID: checkLength(f.get(2), MaxNameLength, "reference id"),
		Title:       checkLength(f.get(3), MaxNameLength, "title"),
		Description: checkLength(f.get(4), MaxDescriptionLength, "description"),
		Metadata:    checkLength(f.rest(5), MaxMetadataLength, "metadata"),
	}
}

type EvaluateArgs struct {
	Registry     sdk.ObjectID
	Pool         sdk.ObjectID
	Receipt      sdk.ObjectID
	Approved     bool
	RewardAmount uint64
	Reason       string
}

func decodeEvaluateArgs(payload *string) *EvaluateArgs {
	f := splitPayload(payload, "evaluation payload requires registry|pool|receipt|approved|reward_amount", 4)
	return &EvaluateArgs{
		Registry:     parseObjectIDField(f.get(0), "registry id"),
		Pool:         parseObjectIDField(f.get(1), "pool id"),
		Receipt:      parseObjectIDField(f.get(2), "receipt id"),
		Approved:     parseStrictBoolField(f.get(3), "approved flag"),
		RewardAmount: parseUintField(f.get(4), "reward amount"),
		Reason:       checkLength(f.rest(5), MaxDescriptionLength, "reason"),
	}
}

type WithdrawPoolArgs struct {
	Pool   sdk.ObjectID
	Amount *uint64
}

func decodeWithdrawPoolArgs(payload *string) *WithdrawPoolArgs {
	f := splitPayload(payload, "withdraw payload requires pool|amount", 1)
	return &WithdrawPoolArgs{
		Pool:   parseObjectIDField(f.get(0), "pool id"),
		Amount: parseOptionalUintField(f.get(1), "amount"),
	}
}

type SetupRoyaltyArgs struct {
	Registry      sdk.ObjectID
	IPReference   string
	Title         string
	Description   string
	Beneficiaries []sdk.Address
	Shares        []uint64
}

func decodeSetupRoyaltyArgs(payload *string) *SetupRoyaltyArgs {
	f := splitPayload(payload, "royalty payload requires registry|ip_reference|title|description|beneficiaries|shares_bps", 6)
	return &SetupRoyaltyArgs{
		Registry:      parseObjectIDField(f.get(0), "registry id"),
		IPReference:   checkLength(f.get(1), MaxNameLength, "ip reference"),
		Title:         checkLength(f.get(2), MaxNameLength, "title"),
		Description:   checkLength(f.get(3), MaxDescriptionLength, "description"),
		Beneficiaries: parseAddressListField(f.get(4), "beneficiary"),
		Shares:        parseUintListField(f.get(5), "share"),
	}
}
