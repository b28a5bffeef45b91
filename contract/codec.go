package contract

import (
	"bytes"
	"encoding/binary"
	"errors"

	"labshare_dao/sdk"
)

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

// writeBool squashes bools into a single byte flag for deterministic payloads.
func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeInt64 reuses the uint routine since casting keeps the sign bits intact.
func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeBytes prefixes its length then dumps the raw bytes.
func (w *binWriter) writeBytes(b []byte) {
	w.writeVarUint(uint64(len(b)))
	w.buf.Write(b)
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeStrings(list []string) {
	w.writeVarUint(uint64(len(list)))
	for _, s := range list {
		w.writeString(s)
	}
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.writeString(a.String())
}

func (w *binWriter) writeObjectID(id sdk.ObjectID) {
	w.buf.Write(id[:])
}

// writeOptionalString writes a presence bit so decoders know if data follows.
func (w *binWriter) writeOptionalString(ptr *string) {
	w.writeBool(ptr != nil)
	if ptr != nil {
		w.writeString(*ptr)
	}
}

// writeOptionalUint64 does the same dance for numeric ids.
func (w *binWriter) writeOptionalUint64(ptr *uint64) {
	w.writeBool(ptr != nil)
	if ptr != nil {
		w.writeUint64(*ptr)
	}
}

func (w *binWriter) writeOptionalInt64(ptr *int64) {
	w.writeBool(ptr != nil)
	if ptr != nil {
		w.writeInt64(*ptr)
	}
}

func (w *binWriter) writeOptionalObjectID(ptr *sdk.ObjectID) {
	w.writeBool(ptr != nil)
	if ptr != nil {
		w.writeObjectID(*ptr)
	}
}

func (w *binWriter) writeOptionalAddress(ptr *sdk.Address) {
	w.writeBool(ptr != nil)
	if ptr != nil {
		w.writeAddress(*ptr)
	}
}

// binReader remembers the first failure so decoders can read a whole record
// and check once at the end.
type binReader struct {
	data []byte
	pos  int
	err  error
}

var errUnexpectedEOF = errors.New("unexpected EOF")

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = errUnexpectedEOF
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *binReader) readBool() bool {
	b := r.take(1)
	return b != nil && b[0] == 1
}

func (r *binReader) readUint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *binReader) readInt64() int64 {
	return int64(r.readUint64())
}

func (r *binReader) readVarUint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		r.err = errUnexpectedEOF
		return 0
	}
	r.pos += n
	return v
}

func (r *binReader) readBytes() []byte {
	n := r.readVarUint()
	if n > uint64(len(r.data)) {
		r.err = errUnexpectedEOF
		return nil
	}
	b := r.take(int(n))
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (r *binReader) readString() string {
	return string(r.readBytes())
}

func (r *binReader) readStrings() []string {
	n := r.readVarUint()
	if n > uint64(len(r.data)) {
		r.err = errUnexpectedEOF
		return nil
	}
	out := make([]string, 0, n)
	for i := uint64(0); i < n && r.err == nil; i++ {
		out = append(out, r.readString())
	}
	return out
}

func (r *binReader) readAddress() sdk.Address {
	return sdk.Address(r.readString())
}

func (r *binReader) readObjectID() sdk.ObjectID {
	var id sdk.ObjectID
	if b := r.take(sdk.ObjectIDLen); b != nil {
		copy(id[:], b)
	}
	return id
}

func (r *binReader) readOptionalString() *string {
	if !r.readBool() {
		return nil
	}
	s := r.readString()
	return &s
}

func (r *binReader) readOptionalUint64() *uint64 {
	if !r.readBool() {
		return nil
	}
	v := r.readUint64()
	return &v
}

func (r *binReader) readOptionalInt64() *int64 {
	if !r.readBool() {
		return nil
	}
	v := r.readInt64()
	return &v
}

func (r *binReader) readOptionalObjectID() *sdk.ObjectID {
	if !r.readBool() {
		return nil
	}
	v := r.readObjectID()
	return &v
}

func (r *binReader) readOptionalAddress() *sdk.Address {
	if !r.readBool() {
		return nil
	}
	v := r.readAddress()
	return &v
}

// -----------------------------------------------------------------------------
// DAO records
// -----------------------------------------------------------------------------

func encodeDAO(d *DAO) string {
	w := newWriter()
	w.writeObjectID(d.ID)
	w.writeString(d.Name)
	w.writeString(d.Description)
	w.writeAddress(d.Admin)
	w.writeStrings(d.SensorTypes)
	w.writeUint64(d.NextProposalID)
	w.writeUint64(d.NextDataID)
	w.writeUint64(d.MemberCount)
	w.writeUint64(d.TotalVotingPower)
	w.writeUint64(d.VotingPeriodMs)
	w.writeUint64(d.QuorumBps)
	w.writeInt64(d.CreatedAt)
	return string(w.bytes())
}

func decodeDAO(data string) (*DAO, error) {
	r := newReader([]byte(data))
	d := &DAO{
		ID:               r.readObjectID(),
		Name:             r.readString(),
		Description:      r.readString(),
		Admin:            r.readAddress(),
		SensorTypes:      r.readStrings(),
		NextProposalID:   r.readUint64(),
		NextDataID:       r.readUint64(),
		MemberCount:      r.readUint64(),
		TotalVotingPower: r.readUint64(),
		VotingPeriodMs:   r.readUint64(),
		QuorumBps:        r.readUint64(),
		CreatedAt:        r.readInt64(),
	}
	return d, r.err
}

func encodeMember(m *Member) string {
	w := newWriter()
	w.writeAddress(m.Address)
	w.writeString(m.DisplayName)
	w.writeInt64(m.JoinedAt)
	w.writeUint64(m.VotingPower)
	return string(w.bytes())
}

func decodeMember(data string) (*Member, error) {
	r := newReader([]byte(data))
	m := &Member{
		Address:     r.readAddress(),
		DisplayName: r.readString(),
		JoinedAt:    r.readInt64(),
		VotingPower: r.readUint64(),
	}
	return m, r.err
}

func encodeConfigDelta(w *binWriter, d *ConfigDelta) {
	w.writeBool(d != nil)
	if d == nil {
		return
	}
	w.writeOptionalUint64(d.VotingPeriodMs)
	w.writeOptionalUint64(d.QuorumBps)
}

func decodeConfigDelta(r *binReader) *ConfigDelta {
	if !r.readBool() {
		return nil
	}
	return &ConfigDelta{
		VotingPeriodMs: r.readOptionalUint64(),
		QuorumBps:      r.readOptionalUint64(),
	}
}

func encodeProposal(p *Proposal) string {
	w := newWriter()
	w.writeUint64(p.ID)
	w.buf.WriteByte(byte(p.Type))
	w.writeString(p.Title)
	w.writeString(p.Description)
	w.writeAddress(p.Proposer)
	w.writeInt64(p.CreatedAt)
	w.writeInt64(p.VotingEndTime)
	w.writeBool(p.Executed)
	w.writeBool(p.Approved)
	w.writeInt64(p.ExecutedAt)
	w.writeUint64(p.YesVotes)
	w.writeUint64(p.NoVotes)
	w.writeUint64(p.VoterCount)
	w.writeOptionalUint64(p.DataReference)
	w.writeOptionalUint64(p.AlertSensorID)
	w.writeOptionalInt64(p.AlertValue)
	encodeConfigDelta(w, p.ConfigDelta)
	return string(w.bytes())
}

func decodeProposal(data string) (*Proposal, error) {
	r := newReader([]byte(data))
	p := &Proposal{ID: r.readUint64()}
	if b := r.take(1); b != nil {
		p.Type = ProposalType(b[0])
	}
	p.Title = r.readString()
	p.Description = r.readString()
	p.Proposer = r.readAddress()
	p.CreatedAt = r.readInt64()
	p.VotingEndTime = r.readInt64()
	p.Executed = r.readBool()
	p.Approved = r.readBool()
	p.ExecutedAt = r.readInt64()
	p.YesVotes = r.readUint64()
	p.NoVotes = r.readUint64()
	p.VoterCount = r.readUint64()
	p.DataReference = r.readOptionalUint64()
	p.AlertSensorID = r.readOptionalUint64()
	p.AlertValue = r.readOptionalInt64()
	p.ConfigDelta = decodeConfigDelta(r)
	return p, r.err
}

func encodeDataRecord(d *DataRecord) string {
	w := newWriter()
	w.writeUint64(d.ID)
	w.writeUint64(d.SensorType)
	w.writeAddress(d.SubmittedBy)
	w.writeBytes(d.DataHash)
	w.writeString(d.Metadata)
	w.writeInt64(d.Timestamp)
	w.writeInt64(d.Value)
	w.writeBool(d.TriggeredAlert)
	w.writeOptionalUint64(d.AlertProposalID)
	return string(w.bytes())
}

func decodeDataRecord(data string) (*DataRecord, error) {
	r := newReader([]byte(data))
	d := &DataRecord{
		ID:              r.readUint64(),
		SensorType:      r.readUint64(),
		SubmittedBy:     r.readAddress(),
		DataHash:        r.readBytes(),
		Metadata:        r.readString(),
		Timestamp:       r.readInt64(),
		Value:           r.readInt64(),
		TriggeredAlert:  r.readBool(),
		AlertProposalID: r.readOptionalUint64(),
	}
	return d, r.err
}

func encodeThreshold(t *Threshold) string {
	w := newWriter()
	w.writeUint64(t.SensorType)
	w.writeInt64(t.MinValue)
	w.writeInt64(t.MaxValue)
	w.writeString(t.Description)
	w.writeInt64(t.UpdatedAt)
	return string(w.bytes())
}

func decodeThreshold(data string) (*Threshold, error) {
	r := newReader([]byte(data))
	t := &Threshold{
		SensorType:  r.readUint64(),
		MinValue:    r.readInt64(),
		MaxValue:    r.readInt64(),
		Description: r.readString(),
		UpdatedAt:   r.readInt64(),
	}
	return t, r.err
}

// -----------------------------------------------------------------------------
// Escrow records
// -----------------------------------------------------------------------------

func encodeEscrow(e *EscrowAccount) string {
	w := newWriter()
	w.writeObjectID(e.ID)
	w.writeAddress(e.Funder)
	w.writeAddress(e.Beneficiary)
	w.writeUint64(e.TotalAmount)
	w.writeUint64(e.DepositedAmount)
	w.writeUint64(e.PaidAmount)
	w.writeUint64(e.AllocatedAmount)
	w.writeUint64(e.RefundedAmount)
	w.buf.WriteByte(byte(e.Status))
	w.writeUint64(e.MilestoneCount)
	w.writeUint64(e.PaidCount)
	w.writeInt64(e.CreatedAt)
	w.writeOptionalObjectID(e.DAOReference)
	w.writeOptionalUint64(e.DisputedMilestone)
	w.writeString(e.DisputeReason)
	return string(w.bytes())
}

func decodeEscrow(data string) (*EscrowAccount, error) {
	r := newReader([]byte(data))
	e := &EscrowAccount{
		ID:              r.readObjectID(),
		Funder:          r.readAddress(),
		Beneficiary:     r.readAddress(),
		TotalAmount:     r.readUint64(),
		DepositedAmount: r.readUint64(),
		PaidAmount:      r.readUint64(),
		AllocatedAmount: r.readUint64(),
		RefundedAmount:  r.readUint64(),
	}
	if b := r.take(1); b != nil {
		e.Status = EscrowStatus(b[0])
	}
	e.MilestoneCount = r.readUint64()
	e.PaidCount = r.readUint64()
	e.CreatedAt = r.readInt64()
	e.DAOReference = r.readOptionalObjectID()
	e.DisputedMilestone = r.readOptionalUint64()
	e.DisputeReason = r.readString()
	return e, r.err
}

func encodeMilestone(m *Milestone) string {
	w := newWriter()
	w.writeUint64(m.Index)
	w.writeString(m.Description)
	w.writeUint64(m.Amount)
	w.writeInt64(m.DueDate)
	w.buf.WriteByte(byte(m.Status))
	w.writeOptionalString(m.ProofLink)
	w.writeOptionalUint64(m.ApprovalProposalID)
	w.writeString(m.RejectionReason)
	return string(w.bytes())
}

func decodeMilestone(data string) (*Milestone, error) {
	r := newReader([]byte(data))
	m := &Milestone{
		Index:       r.readUint64(),
		Description: r.readString(),
		Amount:      r.readUint64(),
		DueDate:     r.readInt64(),
	}
	if b := r.take(1); b != nil {
		m.Status = MilestoneStatus(b[0])
	}
	m.ProofLink = r.readOptionalString()
	m.ApprovalProposalID = r.readOptionalUint64()
	m.RejectionReason = r.readString()
	return m, r.err
}

// -----------------------------------------------------------------------------
// Marketplace records
// -----------------------------------------------------------------------------

func encodeMarketplace(m *Marketplace) string {
	w := newWriter()
	w.writeObjectID(m.ID)
	w.writeString(m.Name)
	w.writeString(m.Description)
	w.writeAddress(m.Admin)
	w.writeStrings(m.Categories)
	w.writeUint64(m.ListingCount)
	w.writeUint64(m.AgreementCount)
	w.writeUint64(m.ActiveListingCount)
	w.writeUint64(m.TotalVolume)
	w.writeUint64(m.TotalFees)
	w.writeUint64(m.FeeBps)
	w.writeInt64(m.CreatedAt)
	return string(w.bytes())
}

func decodeMarketplace(data string) (*Marketplace, error) {
	r := newReader([]byte(data))
	m := &Marketplace{
		ID:                 r.readObjectID(),
		Name:               r.readString(),
		Description:        r.readString(),
		Admin:              r.readAddress(),
		Categories:         r.readStrings(),
		ListingCount:       r.readUint64(),
		AgreementCount:     r.readUint64(),
		ActiveListingCount: r.readUint64(),
		TotalVolume:        r.readUint64(),
		TotalFees:          r.readUint64(),
		FeeBps:             r.readUint64(),
		CreatedAt:          r.readInt64(),
	}
	return m, r.err
}

func encodeListing(l *ServiceListing) string {
	w := newWriter()
	w.writeObjectID(l.ID)
	w.writeObjectID(l.MarketplaceID)
	w.writeAddress(l.Provider)
	w.writeString(l.Title)
	w.writeString(l.Description)
	w.writeUint64(l.Category)
	w.writeUint64(l.PricePerUnit)
	w.writeString(l.Metadata)
	w.writeBool(l.Available)
	w.buf.WriteByte(byte(l.Status))
	w.writeUint64(l.TotalSales)
	w.writeUint64(l.RatingSum)
	w.writeUint64(l.RatingCount)
	w.writeInt64(l.CreatedAt)
	w.writeInt64(l.UpdatedAt)
	w.writeOptionalObjectID(l.DAOReference)
	return string(w.bytes())
}

func decodeListing(data string) (*ServiceListing, error) {
	r := newReader([]byte(data))
	l := &ServiceListing{
		ID:            r.readObjectID(),
		MarketplaceID: r.readObjectID(),
		Provider:      r.readAddress(),
		Title:         r.readString(),
		Description:   r.readString(),
		Category:      r.readUint64(),
		PricePerUnit:  r.readUint64(),
		Metadata:      r.readString(),
		Available:     r.readBool(),
	}
	if b := r.take(1); b != nil {
		l.Status = ListingStatus(b[0])
	}
	l.TotalSales = r.readUint64()
	l.RatingSum = r.readUint64()
	l.RatingCount = r.readUint64()
	l.CreatedAt = r.readInt64()
	l.UpdatedAt = r.readInt64()
	l.DAOReference = r.readOptionalObjectID()
	return l, r.err
}

func encodeAgreement(a *ServiceAgreement) string {
	w := newWriter()
	w.writeObjectID(a.ID)
	w.writeObjectID(a.MarketplaceID)
	w.writeObjectID(a.ListingID)
	w.writeAddress(a.Buyer)
	w.writeAddress(a.Provider)
	w.writeString(a.ServiceTitle)
	w.writeUint64(a.Quantity)
	w.writeUint64(a.UnitPrice)
	w.writeUint64(a.TotalPrice)
	w.buf.WriteByte(byte(a.Status))
	w.writeOptionalInt64(a.DeliveryDeadline)
	w.writeOptionalString(a.DeliveryProof)
	w.writeOptionalString(a.DataRecordReference)
	w.writeOptionalUint64(a.BuyerRating)
	w.writeUint64(a.PlatformFee)
	w.writeUint64(a.RefundedAmount)
	w.writeBool(a.StatsRecorded)
	w.writeString(a.DisputeReason)
	w.writeInt64(a.CreatedAt)
	w.writeInt64(a.DeliveredAt)
	w.writeInt64(a.CompletedAt)
	return string(w.bytes())
}

func decodeAgreement(data string) (*ServiceAgreement, error) {
	r := newReader([]byte(data))
	a := &ServiceAgreement{
		ID:            r.readObjectID(),
		MarketplaceID: r.readObjectID(),
		ListingID:     r.readObjectID(),
		Buyer:         r.readAddress(),
		Provider:      r.readAddress(),
		ServiceTitle:  r.readString(),
		Quantity:      r.readUint64(),
		UnitPrice:     r.readUint64(),
		TotalPrice:    r.readUint64(),
	}
	if b := r.take(1); b != nil {
		a.Status = AgreementStatus(b[0])
	}
	a.DeliveryDeadline = r.readOptionalInt64()
	a.DeliveryProof = r.readOptionalString()
	a.DataRecordReference = r.readOptionalString()
	a.BuyerRating = r.readOptionalUint64()
	a.PlatformFee = r.readUint64()
	a.RefundedAmount = r.readUint64()
	a.StatsRecorded = r.readBool()
	a.DisputeReason = r.readString()
	a.CreatedAt = r.readInt64()
	a.DeliveredAt = r.readInt64()
	a.CompletedAt = r.readInt64()
	return a, r.err
}

// -----------------------------------------------------------------------------
// Incentives records
// -----------------------------------------------------------------------------

func encodeRegistry(g *IncentivesRegistry) string {
	w := newWriter()
	w.writeObjectID(g.ID)
	w.writeAddress(g.Admin)
	w.writeStrings(g.ContributionTypes)
	w.writeUint64(g.PoolCount)
	w.writeUint64(g.ActivePoolCount)
	w.writeUint64(g.ReceiptCount)
	w.writeUint64(g.RoyaltyCount)
	w.writeUint64(g.TotalRewardsDistributed)
	w.writeUint64(g.TotalRoyaltiesDistributed)
	w.writeInt64(g.CreatedAt)
	return string(w.bytes())
}

func decodeRegistry(data string) (*IncentivesRegistry, error) {
	r := newReader([]byte(data))
	g := &IncentivesRegistry{
		ID:                        r.readObjectID(),
		Admin:                     r.readAddress(),
		ContributionTypes:         r.readStrings(),
		PoolCount:                 r.readUint64(),
		ActivePoolCount:           r.readUint64(),
		ReceiptCount:              r.readUint64(),
		RoyaltyCount:              r.readUint64(),
		TotalRewardsDistributed:   r.readUint64(),
		TotalRoyaltiesDistributed: r.readUint64(),
		CreatedAt:                 r.readInt64(),
	}
	return g, r.err
}

func encodePool(p *RewardPool) string {
	w := newWriter()
	w.writeObjectID(p.ID)
	w.writeObjectID(p.RegistryID)
	w.writeAddress(p.Creator)
	w.writeString(p.Name)
	w.writeString(p.Description)
	w.writeString(p.Criteria)
	w.writeBytes(p.EligibleTypes)
	w.writeUint64(p.DistributedAmount)
	w.writeBool(p.Active)
	w.writeUint64(p.EvaluatorCount)
	w.writeInt64(p.CreatedAt)
	w.writeOptionalObjectID(p.DAOReference)
	return string(w.bytes())
}

func decodePool(data string) (*RewardPool, error) {
	r := newReader([]byte(data))
	p := &RewardPool{
		ID:                r.readObjectID(),
		RegistryID:        r.readObjectID(),
		Creator:           r.readAddress(),
		Name:              r.readString(),
		Description:       r.readString(),
		Criteria:          r.readString(),
		EligibleTypes:     r.readBytes(),
		DistributedAmount: r.readUint64(),
		Active:            r.readBool(),
		EvaluatorCount:    r.readUint64(),
		CreatedAt:         r.readInt64(),
		DAOReference:      r.readOptionalObjectID(),
	}
	return p, r.err
}

func encodeReceipt(c *ContributionReceipt) string {
	w := newWriter()
	w.writeObjectID(c.ID)
	w.writeObjectID(c.RegistryID)
	w.writeAddress(c.Contributor)
	w.buf.WriteByte(c.ContributionType)
	w.writeString(c.ReferenceID)
	w.writeString(c.Title)
	w.writeString(c.Description)
	w.writeString(c.Metadata)
	w.buf.WriteByte(byte(c.Status))
	w.writeInt64(c.SubmittedAt)
	w.writeInt64(c.EvaluatedAt)
	w.writeOptionalAddress(c.Evaluator)
	w.writeOptionalUint64(c.RewardAmount)
	w.writeOptionalObjectID(c.PoolReference)
	w.writeString(c.Reason)
	return string(w.bytes())
}

func decodeReceipt(data string) (*ContributionReceipt, error) {
	r := newReader([]byte(data))
	c := &ContributionReceipt{
		ID:          r.readObjectID(),
		RegistryID:  r.readObjectID(),
		Contributor: r.readAddress(),
	}
	if b := r.take(1); b != nil {
		c.ContributionType = b[0]
	}
	c.ReferenceID = r.readString()
	c.Title = r.readString()
	c.Description = r.readString()
	c.Metadata = r.readString()
	if b := r.take(1); b != nil {
		c.Status = ReceiptStatus(b[0])
	}
	c.SubmittedAt = r.readInt64()
	c.EvaluatedAt = r.readInt64()
	c.Evaluator = r.readOptionalAddress()
	c.RewardAmount = r.readOptionalUint64()
	c.PoolReference = r.readOptionalObjectID()
	c.Reason = r.readString()
	return c, r.err
}

func encodeRoyalty(a *RoyaltySplitAgreement) string {
	w := newWriter()
	w.writeObjectID(a.ID)
	w.writeObjectID(a.RegistryID)
	w.writeAddress(a.Creator)
	w.writeString(a.IPReference)
	w.writeString(a.Title)
	w.writeString(a.Description)
	w.writeVarUint(uint64(len(a.Beneficiaries)))
	for _, s := range a.Beneficiaries {
		w.writeAddress(s.Beneficiary)
		w.writeUint64(s.ShareBps)
	}
	w.writeUint64(a.TotalShares)
	w.writeUint64(a.TotalDistributed)
	w.writeBool(a.Active)
	w.writeOptionalInt64(a.LastDistribution)
	w.writeInt64(a.CreatedAt)
	return string(w.bytes())
}

func decodeRoyalty(data string) (*RoyaltySplitAgreement, error) {
	r := newReader([]byte(data))
	a := &RoyaltySplitAgreement{
		ID:          r.readObjectID(),
		RegistryID:  r.readObjectID(),
		Creator:     r.readAddress(),
		IPReference: r.readString(),
		Title:       r.readString(),
		Description: r.readString(),
	}
	n := r.readVarUint()
	if n > MaxBeneficiaries {
		return a, errors.New("too many beneficiaries")
	}
	for i := uint64(0); i < n && r.err == nil; i++ {
		a.Beneficiaries = append(a.Beneficiaries, RoyaltyShare{
			Beneficiary: r.readAddress(),
			ShareBps:    r.readUint64(),
		})
	}
	a.TotalShares = r.readUint64()
	a.TotalDistributed = r.readUint64()
	a.Active = r.readBool()
	a.LastDistribution = r.readOptionalInt64()
	a.CreatedAt = r.readInt64()
	return a, r.err
}
