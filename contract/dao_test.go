package contract_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labshare_dao/contract"
	"labshare_dao/ledger"
	"labshare_dao/sdk"
)

type daoInfo struct {
	Name             string `json:"name"`
	MemberCount      uint64 `json:"member_count"`
	TotalVotingPower uint64 `json:"total_voting_power"`
	VotingPeriodMs   uint64 `json:"voting_period_ms"`
	QuorumBps        uint64 `json:"quorum_bps"`
	NextProposalID   uint64 `json:"next_proposal_id"`
	Treasury         uint64 `json:"treasury"`
}

// =============================================================================
// DAO Lifecycle Tests
// =============================================================================

// TestDAOInitialize checks the dao bootstrap flow so we dont break it again.
func TestDAOInitialize(t *testing.T) {
	ct := SetupContractTest(t)

	res := CallContract(t, ct, "dao.initialize", nil, Payload("LabDAO", "cold chain", 500), 500, admin, true)
	dao := createdID(t, res)
	assert.Equal(t, dao.String(), res.Ret)
	require.Len(t, eventsOf(res, "DAOInitialized"), 1)

	var info daoInfo
	Query(t, ct, "dao.info", ids(dao), dao.String(), &info)
	assert.Equal(t, "LabDAO", info.Name)
	assert.Equal(t, uint64(1), info.MemberCount)
	assert.Equal(t, uint64(contract.AdminVotingPower), info.TotalVotingPower)
	assert.Equal(t, uint64(contract.DefaultVotingPeriodMs), info.VotingPeriodMs)
	assert.Equal(t, uint64(contract.DefaultQuorumBps), info.QuorumBps)
	assert.Equal(t, uint64(500), info.Treasury)
	assert.Equal(t, uint64(startingBalance-500), balanceOf(t, ct, admin))

	var admins struct {
		VotingPower uint64 `json:"voting_power"`
	}
	Query(t, ct, "dao.member", ids(dao), Payload(dao, admin), &admins)
	assert.Equal(t, uint64(contract.AdminVotingPower), admins.VotingPower)

	// the draw must be covered by a transfer intent
	CallContract(t, ct, "dao.initialize", nil, Payload("NoIntent", "", 10), 0, admin, false)
	assertConserved(t, ct)
}

// TestDAOMembership checks the member management flow.
func TestDAOMembership(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	ExpectAbort(t, ct, "dao.add_member", ids(dao), Payload(dao, member2, "again"), 0, admin, contract.ModuleDAO, contract.DAOMemberExists)
	ExpectAbort(t, ct, "dao.add_member", ids(dao), Payload(dao, outsider, "me"), 0, outsider, contract.ModuleDAO, contract.DAONotAuthorized)

	var info daoInfo
	Query(t, ct, "dao.info", ids(dao), dao.String(), &info)
	assert.Equal(t, uint64(2), info.MemberCount)
	assert.Equal(t, uint64(contract.AdminVotingPower+contract.MemberVotingPower), info.TotalVotingPower)

	_, err := ct.ledger.Query(context.Background(), ledger.QueryRequest{
		Action: "dao.member", Objects: ids(dao), Payload: Payload(dao, outsider),
	})
	var abort *sdk.AbortError
	require.ErrorAs(t, err, &abort)
	assert.Equal(t, contract.DAONotMember, abort.Code)
}

// TestDAOTreasury checks that donations land in the treasury.
func TestDAOTreasury(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	res := CallContract(t, ct, "dao.add_funds", ids(dao), Payload(dao, 250), 250, outsider, true)
	assert.Equal(t, "250", res.Ret)
	assert.Equal(t, uint64(250), custodyOf(t, ct, dao, "treasury"))
	assert.Equal(t, uint64(startingBalance-250), balanceOf(t, ct, outsider))

	ExpectAbort(t, ct, "dao.add_funds", ids(dao), Payload(dao, 0), 10, outsider, contract.ModuleDAO, contract.DAOInvalidAmount)
	// intent limit below the amount aborts without moving anything
	CallContract(t, ct, "dao.add_funds", ids(dao), Payload(dao, 100), 99, outsider, false)
	assert.Equal(t, uint64(250), custodyOf(t, ct, dao, "treasury"))
	assertConserved(t, ct)
}

// =============================================================================
// Sensor Data & Alert Tests
// =============================================================================

// TestDAOAlert checks the threshold driven alert flow so we dont break it again.
func TestDAOAlert(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	CallContract(t, ct, "dao.update_threshold", ids(dao), Payload(dao, 0, -85, -70, "Freezer"), 0, admin, true)

	res := CallContract(t, ct, "dao.submit_data", ids(dao), Payload(dao, 0, "ab", "f3", -60), 0, member2, true)
	assert.Equal(t, "0", res.Ret)
	require.Len(t, eventsOf(res, "DataRecordCreated"), 1)
	alerts := eventsOf(res, "AlertTriggered")
	require.Len(t, alerts, 1)
	assert.Equal(t, "-60", alerts[0].Fields["value"])
	assert.Len(t, eventsOf(res, "ProposalCreated"), 1)

	var record struct {
		TriggeredAlert  bool    `json:"triggered_alert"`
		AlertProposalID *uint64 `json:"alert_proposal_id"`
		DataHash        string  `json:"data_hash"`
		Value           int64   `json:"value"`
	}
	Query(t, ct, "dao.data_record", ids(dao), Payload(dao, 0), &record)
	assert.True(t, record.TriggeredAlert)
	require.NotNil(t, record.AlertProposalID)
	assert.Equal(t, "ab", record.DataHash)

	p := getProposal(t, ct, dao, *record.AlertProposalID)
	assert.Equal(t, "alert", p.Type)
	require.NotNil(t, p.AlertSensorID)
	require.NotNil(t, p.AlertValue)
	assert.Equal(t, uint64(0), *p.AlertSensorID)
	assert.Equal(t, int64(-60), *p.AlertValue)
	assert.Equal(t, t0+contract.DefaultVotingPeriodMs, p.VotingEndTime)

	// in range readings create no proposal
	res = CallContract(t, ct, "dao.submit_data", ids(dao), Payload(dao, 0, "cd", "f3", -80), 0, member2, true)
	assert.Empty(t, eventsOf(res, "AlertTriggered"))
	var info daoInfo
	Query(t, ct, "dao.info", ids(dao), dao.String(), &info)
	assert.Equal(t, uint64(1), info.NextProposalID)
}

// TestDAOSensorValidation checks sensor type and threshold guards.
func TestDAOSensorValidation(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	tests := []struct {
		name    string
		action  string
		payload string
		sender  sdk.Address
		code    uint64
	}{
		{"min above max", "dao.update_threshold", Payload(dao, 0, 10, 5, ""), admin, contract.DAOInvalidThreshold},
		{"unknown sensor threshold", "dao.update_threshold", Payload(dao, 99, 0, 5, ""), admin, contract.DAOSensorTypeNotFound},
		{"threshold by member", "dao.update_threshold", Payload(dao, 0, 0, 5, ""), member2, contract.DAONotAuthorized},
		{"unknown sensor data", "dao.submit_data", Payload(dao, 99, "ab", "", 1), member2, contract.DAOSensorTypeNotFound},
		{"data by outsider", "dao.submit_data", Payload(dao, 0, "ab", "", 1), outsider, contract.DAONotMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ExpectAbort(t, ct, tt.action, ids(dao), tt.payload, 0, tt.sender, contract.ModuleDAO, tt.code)
		})
	}

	res := CallContract(t, ct, "dao.register_sensor_type", ids(dao), Payload(dao, "vibration"), 0, admin, true)
	assert.Equal(t, "5", res.Ret)
	CallContract(t, ct, "dao.register_sensor_type", ids(dao), Payload(dao, "Vibration"), 0, admin, false)
	// a sensor without a threshold never alerts
	res = CallContract(t, ct, "dao.submit_data", ids(dao), Payload(dao, 5, "", "", 1_000_000), 0, member2, true)
	assert.Empty(t, eventsOf(res, "AlertTriggered"))
}

// =============================================================================
// Proposal & Voting Tests
// =============================================================================

// TestProposalApproval checks the proposal lifecycle flow so we dont break it again.
func TestProposalApproval(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	res := CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "P", "d", "general"), 0, member2, true)
	id := res.Ret
	assert.Equal(t, "0", id)

	ct.At(t0 + 1)
	CallContract(t, ct, "dao.vote", ids(dao), Payload(dao, id, "yes"), 0, admin, true)

	var voted bool
	Query(t, ct, "dao.has_voted", ids(dao), Payload(dao, id, admin), &voted)
	assert.True(t, voted)
	Query(t, ct, "dao.has_voted", ids(dao), Payload(dao, id, member2), &voted)
	assert.False(t, voted)

	ExpectAbort(t, ct, "dao.execute_proposal", ids(dao), Payload(dao, id), 0, admin, contract.ModuleDAO, contract.DAOVotingNotEnded)

	ct.At(t0 + contract.DefaultVotingPeriodMs + 1)
	res = CallContract(t, ct, "dao.execute_proposal", ids(dao), Payload(dao, id), 0, admin, true)
	assert.Equal(t, "approved", res.Ret)
	executed := eventsOf(res, "ProposalExecuted")
	require.Len(t, executed, 1)
	assert.Equal(t, "true", executed[0].Fields["approved"])

	p := getProposal(t, ct, dao, 0)
	assert.True(t, p.Executed)
	assert.True(t, p.Approved)
	assert.Equal(t, uint64(100), p.YesVotes)

	ExpectAbort(t, ct, "dao.execute_proposal", ids(dao), Payload(dao, id), 0, admin, contract.ModuleDAO, contract.DAOAlreadyExecuted)
}

// TestProposalBelowQuorum checks that a lone small vote cannot pass a proposal.
func TestProposalBelowQuorum(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "P", "d", ""), 0, admin, true)
	CallContract(t, ct, "dao.vote", ids(dao), Payload(dao, 0, "yes"), 0, member2, true)

	ct.At(t0 + contract.DefaultVotingPeriodMs + 1)
	res := CallContract(t, ct, "dao.execute_proposal", ids(dao), Payload(dao, 0), 0, member2, true)
	assert.Equal(t, "rejected", res.Ret)
	p := getProposal(t, ct, dao, 0)
	assert.True(t, p.Executed)
	assert.False(t, p.Approved)
}

// TestVotingWindow checks the inclusive end of the voting period.
func TestVotingWindow(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)
	end := t0 + contract.DefaultVotingPeriodMs

	CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "P", "d", "general"), 0, admin, true)

	ct.At(end)
	CallContract(t, ct, "dao.vote", ids(dao), Payload(dao, 0, "no"), 0, admin, true)
	ct.At(end + 1)
	ExpectAbort(t, ct, "dao.vote", ids(dao), Payload(dao, 0, "yes"), 0, member2, contract.ModuleDAO, contract.DAOVotingClosed)

	p := getProposal(t, ct, dao, 0)
	assert.Equal(t, uint64(100), p.NoVotes)
	assert.Equal(t, uint64(1), p.VoterCount)
}

// TestVoteValidation checks the vote guards.
func TestVoteValidation(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)
	CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "P", "d", "general"), 0, admin, true)
	CallContract(t, ct, "dao.vote", ids(dao), Payload(dao, 0, "yes"), 0, admin, true)

	tests := []struct {
		name    string
		payload string
		sender  sdk.Address
		code    uint64
	}{
		{"double vote", Payload(dao, 0, "no"), admin, contract.DAOAlreadyVoted},
		{"abstain", Payload(dao, 0, "abstain"), member2, contract.DAOInvalidVote},
		{"garbage choice", Payload(dao, 0, "maybe"), member2, contract.DAOInvalidVote},
		{"outsider", Payload(dao, 0, "yes"), outsider, contract.DAONotMember},
		{"unknown proposal", Payload(dao, 7, "yes"), member2, contract.DAOProposalNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ExpectAbort(t, ct, "dao.vote", ids(dao), tt.payload, 0, tt.sender, contract.ModuleDAO, tt.code)
		})
	}

	p := getProposal(t, ct, dao, 0)
	assert.Equal(t, uint64(100), p.YesVotes)
	assert.Equal(t, uint64(0), p.NoVotes)
}

// TestProposalTypes checks proposal type and config delta validation.
func TestProposalTypes(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	tests := []struct {
		name    string
		payload string
		code    uint64
	}{
		{"alert is reserved", Payload(dao, "P", "d", "alert"), contract.DAOInvalidProposalType},
		{"configuration without delta", Payload(dao, "P", "d", "configuration"), contract.DAOInvalidConfigDelta},
		{"general with delta", Payload(dao, "P", "d", "general", "quorum_bps=100"), contract.DAOInvalidConfigDelta},
		{"unknown key", Payload(dao, "P", "d", "configuration", "fee=1"), contract.DAOInvalidConfigDelta},
		{"quorum too high", Payload(dao, "P", "d", "configuration", "quorum_bps=10001"), contract.DAOInvalidConfigDelta},
		{"zero period", Payload(dao, "P", "d", "configuration", "voting_period_ms=0"), contract.DAOInvalidConfigDelta},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ExpectAbort(t, ct, "dao.create_proposal", ids(dao), tt.payload, 0, admin, contract.ModuleDAO, tt.code)
		})
	}
	ExpectAbort(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "P", "d", "general"), 0, outsider, contract.ModuleDAO, contract.DAONotMember)
}

// TestConfigurationProposal checks that a passed configuration proposal applies its delta.
func TestConfigurationProposal(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	CallContract(t, ct, "dao.create_proposal", ids(dao),
		Payload(dao, "Faster votes", "one day", "configuration", "voting_period_ms=86400000,quorum_bps=6000"), 0, admin, true)
	CallContract(t, ct, "dao.vote", ids(dao), Payload(dao, 0, "yes"), 0, admin, true)

	ct.At(t0 + contract.DefaultVotingPeriodMs + 1)
	res := CallContract(t, ct, "dao.execute_proposal", ids(dao), Payload(dao, 0), 0, admin, true)
	assert.Equal(t, "true", eventsOf(res, "ProposalExecuted")[0].Fields["applied"])

	var info daoInfo
	Query(t, ct, "dao.info", ids(dao), dao.String(), &info)
	assert.Equal(t, uint64(86_400_000), info.VotingPeriodMs)
	assert.Equal(t, uint64(6000), info.QuorumBps)

	// later proposals use the new period
	now := t0 + contract.DefaultVotingPeriodMs + 1
	CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "Next", "", "general"), 0, admin, true)
	assert.Equal(t, now+86_400_000, getProposal(t, ct, dao, 1).VotingEndTime)
}

// TestConfigurationProposalRejected checks that a failed configuration changes nothing.
func TestConfigurationProposalRejected(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "Q", "", "config", "quorum_bps=100"), 0, admin, true)
	CallContract(t, ct, "dao.vote", ids(dao), Payload(dao, 0, "no"), 0, admin, true)

	ct.At(t0 + contract.DefaultVotingPeriodMs + 1)
	res := CallContract(t, ct, "dao.execute_proposal", ids(dao), Payload(dao, 0), 0, admin, true)
	assert.Equal(t, "rejected", res.Ret)
	assert.Equal(t, "false", eventsOf(res, "ProposalExecuted")[0].Fields["applied"])

	var info daoInfo
	Query(t, ct, "dao.info", ids(dao), dao.String(), &info)
	assert.Equal(t, uint64(contract.DefaultQuorumBps), info.QuorumBps)
}

// TestParallelVotes checks that concurrent votes on one proposal all count once.
func TestParallelVotes(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	voters := make([]sdk.Address, 12)
	for i := range voters {
		voters[i] = account(byte(0x40 + i))
		CallContract(t, ct, "dao.add_member", ids(dao), Payload(dao, voters[i], fmt.Sprintf("v%d", i)), 0, admin, true)
	}
	CallContract(t, ct, "dao.create_proposal", ids(dao), Payload(dao, "P", "d", "general"), 0, admin, true)

	var wg sync.WaitGroup
	for i, v := range voters {
		wg.Add(1)
		go func(v sdk.Address, yes bool) {
			defer wg.Done()
			choice := "no"
			if yes {
				choice = "yes"
			}
			res, err := ct.ledger.Execute(context.Background(), ledger.TxRequest{
				Sender:  v,
				Action:  "dao.vote",
				Objects: ids(dao),
				Payload: Payload(dao, 0, choice),
			})
			if assert.NoError(t, err) {
				assert.True(t, res.Success, "%v", res.Abort)
			}
		}(v, i%3 != 0)
	}
	wg.Wait()

	p := getProposal(t, ct, dao, 0)
	assert.Equal(t, uint64(len(voters)), p.VoterCount)
	assert.Equal(t, uint64(8*contract.MemberVotingPower), p.YesVotes)
	assert.Equal(t, uint64(4*contract.MemberVotingPower), p.NoVotes)
}

// TestObjectMustBeNamed checks that a transaction cannot touch an object it did not name.
func TestObjectMustBeNamed(t *testing.T) {
	ct := SetupContractTest(t)
	dao := setupDAO(t, ct)

	ExpectAbort(t, ct, "dao.add_funds", nil, Payload(dao, 10), 10, admin, "sdk", 0)
	assert.Equal(t, uint64(0), custodyOf(t, ct, dao, "treasury"))
	assertConserved(t, ct)
}
