package contract

import (
	"math/bits"
	"strconv"
	"strings"

	"labshare_dao/sdk"
)

// voteRecord is the per voter receipt kept next to the proposal so double votes
// are detected without loading a voter set.
type voteRecord struct {
	Yes    bool
	Weight uint64
}

func encodeVoteRecord(v voteRecord) string {
	choice := "n"
	if v.Yes {
		choice = "y"
	}
	return choice + ":" + strconv.FormatUint(v.Weight, 10)
}

func decodeVoteRecord(data string) *voteRecord {
	choice, weight, ok := strings.Cut(data, ":")
	if !ok {
		sdk.Abort("failed to decode vote record")
	}
	w, err := strconv.ParseUint(weight, 10, 64)
	if err != nil {
		sdk.Abort("failed to decode vote record")
	}
	return &voteRecord{Yes: choice == "y", Weight: w}
}

func loadVoteRecord(ctx *sdk.Ctx, dao sdk.ObjectID, proposalID uint64, voter sdk.Address) *voteRecord {
	ptr := ctx.StateGet(voteKey(dao, proposalID, voter))
	if ptr == nil || *ptr == "" {
		return nil
	}
	return decodeVoteRecord(*ptr)
}

// Vote records a yes/no vote weighted by the member's current voting power.
// Votes are accepted up to and including the voting end time.
// Example payload: "0xdao…|3|yes"
func Vote(ctx *sdk.Ctx, payload *string) *string {
	input := decodeVoteArgs(payload)
	d := loadDAO(ctx, input.DAO)
	member := requireMember(ctx, d)
	p := loadProposal(ctx, d.ID, input.ProposalID)

	if !p.IsOpen(ctx.Now()) {
		sdk.AbortCode(ModuleDAO, DAOVotingClosed, "voting period has ended")
	}
	if loadVoteRecord(ctx, d.ID, p.ID, member.Address) != nil {
		sdk.AbortCode(ModuleDAO, DAOAlreadyVoted, "member already voted")
	}

	weight := member.VotingPower
	if input.Yes {
		p.YesVotes += weight
	} else {
		p.NoVotes += weight
	}
	p.VoterCount++
	ctx.StateSet(voteKey(d.ID, p.ID, member.Address), encodeVoteRecord(voteRecord{Yes: input.Yes, Weight: weight}))
	saveProposal(ctx, d.ID, p)

	emitVoteCast(ctx, d.ID, p.ID, input.Yes, weight)
	return strptr("voted")
}

// ExecuteProposal tallies a closed proposal. It passes when turnout meets the
// quorum and yes outweighs no; passed configuration proposals apply their delta.
// Example payload: "0xdao…|3"
func ExecuteProposal(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectIndexArgs(payload, "dao", "proposal id")
	d := loadDAO(ctx, input.Object)
	requireMember(ctx, d)
	p := loadProposal(ctx, d.ID, input.Index)

	if p.Executed {
		sdk.AbortCode(ModuleDAO, DAOAlreadyExecuted, "proposal already executed")
	}
	now := ctx.Now()
	if p.IsOpen(now) {
		sdk.AbortCode(ModuleDAO, DAOVotingNotEnded, "voting period has not ended")
	}

	p.Approved = quorumReached(p.YesVotes+p.NoVotes, d.TotalVotingPower, d.QuorumBps) && p.YesVotes > p.NoVotes
	p.Executed = true
	p.ExecutedAt = now

	applied := false
	if p.Type == ProposalConfiguration && p.Approved && p.ConfigDelta != nil {
		applyConfigDelta(d, p.ConfigDelta)
		saveDAO(ctx, d)
		applied = true
	}
	saveProposal(ctx, d.ID, p)

	emitProposalExecuted(ctx, d.ID, p, applied)
	if p.Approved {
		return strptr("approved")
	}
	return strptr("rejected")
}

// quorumReached checks cast*10000 >= total*quorumBps in 128 bit arithmetic.
func quorumReached(cast, total, quorumBps uint64) bool {
	lh, ll := bits.Mul64(cast, BpsDenominator)
	rh, rl := bits.Mul64(total, quorumBps)
	if lh != rh {
		return lh > rh
	}
	return ll >= rl
}

func applyConfigDelta(d *DAO, delta *ConfigDelta) {
	if delta.VotingPeriodMs != nil {
		d.VotingPeriodMs = *delta.VotingPeriodMs
	}
	if delta.QuorumBps != nil {
		d.QuorumBps = *delta.QuorumBps
	}
}
