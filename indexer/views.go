package indexer

import (
	"strconv"

	"labshare_dao/ledger"
)

// AlertView is an alert proposal that has not been executed yet.
type AlertView struct {
	Proposal   uint64 `json:"proposal"`
	DataRecord uint64 `json:"data_record"`
	SensorType uint64 `json:"sensor_type"`
	Value      int64  `json:"value"`
	Min        int64  `json:"min"`
	Max        int64  `json:"max"`
	RaisedAt   int64  `json:"raised_at"`
}

type DAOView struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Admin       string               `json:"admin"`
	Members     uint64               `json:"members"`
	Proposals   uint64               `json:"proposals"`
	Executed    uint64               `json:"executed"`
	Approved    uint64               `json:"approved"`
	Votes       uint64               `json:"votes"`
	DataRecords uint64               `json:"data_records"`
	Alerts      uint64               `json:"alerts"`
	OpenAlerts  map[uint64]AlertView `json:"open_alerts"`
	TreasuryIn  uint64               `json:"treasury_in"`
	Treasury    uint64               `json:"treasury"`
	UpdatedAt   int64                `json:"updated_at"`
}

type EscrowView struct {
	ID          string `json:"id"`
	Funder      string `json:"funder"`
	Beneficiary string `json:"beneficiary"`
	Status      string `json:"status"`
	Total       uint64 `json:"total"`
	Deposited   uint64 `json:"deposited"`
	Paid        uint64 `json:"paid"`
	Milestones  uint64 `json:"milestones"`
	PaidCount   uint64 `json:"paid_count"`
	Refunded    uint64 `json:"refunded"`
	UpdatedAt   int64  `json:"updated_at"`
}

type MarketView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FeeBps         uint64 `json:"fee_bps"`
	Listings       uint64 `json:"listings"`
	ActiveListings uint64 `json:"active_listings"`
	Agreements     uint64 `json:"agreements"`
	Completed      uint64 `json:"completed"`
	Refunded       uint64 `json:"refunded"`
	Volume         uint64 `json:"volume"`
	Fees           uint64 `json:"fees"`
	UpdatedAt      int64  `json:"updated_at"`
}

type PoolView struct {
	ID        string `json:"id"`
	Registry  string `json:"registry"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Funded    uint64 `json:"funded"`
	Rewarded  uint64 `json:"rewarded"`
	Withdrawn uint64 `json:"withdrawn"`
	Rewards   uint64 `json:"rewards"`
}

type RoyaltyView struct {
	ID            string `json:"id"`
	Registry      string `json:"registry"`
	IP            string `json:"ip"`
	Beneficiaries uint64 `json:"beneficiaries"`
	Active        bool   `json:"active"`
	Deposited     uint64 `json:"deposited"`
	Paid          uint64 `json:"paid"`
	Distributions uint64 `json:"distributions"`
	Returned      uint64 `json:"returned"`
}

type IncentivesView struct {
	Registries      []string               `json:"registries"`
	Pools           map[string]PoolView    `json:"pools"`
	ReceiptsPending uint64                 `json:"receipts_pending"`
	ReceiptsTotal   uint64                 `json:"receipts_total"`
	RewardsPaid     uint64                 `json:"rewards_paid"`
	Royalties       map[string]RoyaltyView `json:"royalties"`
}

func fieldU64(ev ledger.Event, key string) uint64 {
	n, _ := strconv.ParseUint(ev.Fields[key], 10, 64)
	return n
}

func fieldI64(ev ledger.Event, key string) int64 {
	n, _ := strconv.ParseInt(ev.Fields[key], 10, 64)
	return n
}

func fieldBool(ev ledger.Event, key string) bool {
	return ev.Fields[key] == "true"
}

// project applies one event to the views. Callers hold the write lock.
func (ix *Indexer) project(ev ledger.Event) {
	switch ev.Type {
	// dao
	case "DAOInitialized":
		ix.daos[ev.Fields["dao"]] = &DAOView{
			ID:         ev.Fields["dao"],
			Name:       ev.Fields["name"],
			Admin:      ev.Fields["by"],
			Members:    1,
			OpenAlerts: make(map[uint64]AlertView),
			TreasuryIn: fieldU64(ev, "treasury"),
			Treasury:   fieldU64(ev, "treasury"),
		}
	case "MemberAdded":
		ix.withDAO(ev, func(d *DAOView) { d.Members++ })
	case "FundsAdded":
		ix.withDAO(ev, func(d *DAOView) {
			d.TreasuryIn += fieldU64(ev, "amount")
			d.Treasury = fieldU64(ev, "treasury")
		})
	case "DataRecordCreated":
		ix.withDAO(ev, func(d *DAOView) { d.DataRecords++ })
	case "AlertTriggered":
		ix.withDAO(ev, func(d *DAOView) {
			d.Alerts++
			id := fieldU64(ev, "proposal")
			d.OpenAlerts[id] = AlertView{
				Proposal:   id,
				DataRecord: fieldU64(ev, "data"),
				SensorType: fieldU64(ev, "sensor_type"),
				Value:      fieldI64(ev, "value"),
				Min:        fieldI64(ev, "min"),
				Max:        fieldI64(ev, "max"),
				RaisedAt:   ev.Timestamp,
			}
		})
	case "ProposalCreated":
		ix.withDAO(ev, func(d *DAOView) { d.Proposals++ })
	case "VoteCast":
		ix.withDAO(ev, func(d *DAOView) { d.Votes++ })
	case "ProposalExecuted":
		ix.withDAO(ev, func(d *DAOView) {
			d.Executed++
			if fieldBool(ev, "approved") {
				d.Approved++
			}
			delete(d.OpenAlerts, fieldU64(ev, "proposal"))
		})

	// escrow
	case "EscrowCreated":
		ix.escrows[ev.Fields["escrow"]] = &EscrowView{
			ID:          ev.Fields["escrow"],
			Funder:      ev.Fields["funder"],
			Beneficiary: ev.Fields["beneficiary"],
			Status:      "active",
			Total:       fieldU64(ev, "total"),
		}
	case "FundsDeposited":
		ix.withEscrow(ev, func(e *EscrowView) { e.Deposited = fieldU64(ev, "deposited") })
	case "MilestoneDefined":
		ix.withEscrow(ev, func(e *EscrowView) { e.Milestones++ })
	case "MilestonePaid":
		ix.withEscrow(ev, func(e *EscrowView) {
			e.Paid += fieldU64(ev, "amount")
			e.PaidCount++
			if fieldBool(ev, "completed") {
				e.Status = "completed"
			}
			e.Refunded += fieldU64(ev, "refund")
		})
	case "DisputeInitiated":
		ix.withEscrow(ev, func(e *EscrowView) { e.Status = "disputed" })
	case "EscrowCancelled":
		ix.withEscrow(ev, func(e *EscrowView) {
			e.Status = "cancelled"
			e.Refunded = fieldU64(ev, "refund")
		})

	// marketplace
	case "MarketplaceInitialized":
		ix.markets[ev.Fields["market"]] = &MarketView{
			ID:     ev.Fields["market"],
			Name:   ev.Fields["name"],
			FeeBps: fieldU64(ev, "fee_bps"),
		}
	case "FeeUpdated":
		ix.withMarket(ev, func(m *MarketView) { m.FeeBps = fieldU64(ev, "new") })
	case "ServiceListed":
		ix.withMarket(ev, func(m *MarketView) {
			m.Listings++
			m.ActiveListings++
		})
	case "ServiceDelisted":
		ix.withMarket(ev, func(m *MarketView) {
			if m.ActiveListings > 0 {
				m.ActiveListings--
			}
		})
	case "ServicePurchased":
		ix.withMarket(ev, func(m *MarketView) { m.Agreements++ })
	case "PaymentForServiceReleased":
		ix.withMarket(ev, func(m *MarketView) {
			fee := fieldU64(ev, "fee")
			m.Completed++
			m.Volume += fieldU64(ev, "amount") + fee
			m.Fees += fee
		})
	case "ServiceRefunded":
		ix.withMarket(ev, func(m *MarketView) { m.Refunded++ })

	// incentives
	case "RegistryInitialized":
		ix.incentives.Registries = append(ix.incentives.Registries, ev.Fields["registry"])
	case "RewardPoolCreated":
		ix.incentives.Pools[ev.Fields["pool"]] = PoolView{
			ID:       ev.Fields["pool"],
			Registry: ev.Fields["registry"],
			Name:     ev.Fields["name"],
			Active:   true,
			Funded:   fieldU64(ev, "funds"),
		}
	case "PoolFunded":
		ix.withPool(ev, func(p *PoolView) { p.Funded += fieldU64(ev, "amount") })
	case "RewardDistributed":
		amount := fieldU64(ev, "amount")
		ix.incentives.RewardsPaid += amount
		ix.withPool(ev, func(p *PoolView) {
			p.Rewarded += amount
			p.Rewards++
		})
	case "PoolDeactivated":
		ix.withPool(ev, func(p *PoolView) { p.Active = false })
	case "PoolFundsWithdrawn":
		ix.withPool(ev, func(p *PoolView) { p.Withdrawn += fieldU64(ev, "amount") })
	case "ContributionRegistered":
		ix.incentives.ReceiptsTotal++
		ix.incentives.ReceiptsPending++
	case "ContributionEvaluated":
		if ix.incentives.ReceiptsPending > 0 {
			ix.incentives.ReceiptsPending--
		}
	case "RoyaltyAgreementCreated":
		ix.incentives.Royalties[ev.Fields["royalty"]] = RoyaltyView{
			ID:            ev.Fields["royalty"],
			Registry:      ev.Fields["registry"],
			IP:            ev.Fields["ip"],
			Beneficiaries: fieldU64(ev, "beneficiaries"),
			Active:        true,
		}
	case "RoyaltiesDeposited":
		ix.withRoyalty(ev, func(r *RoyaltyView) { r.Deposited += fieldU64(ev, "amount") })
	case "RoyaltiesDistributed":
		ix.withRoyalty(ev, func(r *RoyaltyView) {
			r.Paid += fieldU64(ev, "paid")
			r.Distributions++
		})
	case "RoyaltyAgreementDeactivated":
		ix.withRoyalty(ev, func(r *RoyaltyView) {
			r.Active = false
			r.Returned = fieldU64(ev, "returned")
		})
	}
}

func (ix *Indexer) withDAO(ev ledger.Event, fn func(*DAOView)) {
	if d, ok := ix.daos[ev.Fields["dao"]]; ok {
		fn(d)
		d.UpdatedAt = ev.Timestamp
	}
}

func (ix *Indexer) withEscrow(ev ledger.Event, fn func(*EscrowView)) {
	if e, ok := ix.escrows[ev.Fields["escrow"]]; ok {
		fn(e)
		e.UpdatedAt = ev.Timestamp
	}
}

func (ix *Indexer) withMarket(ev ledger.Event, fn func(*MarketView)) {
	if m, ok := ix.markets[ev.Fields["market"]]; ok {
		fn(m)
		m.UpdatedAt = ev.Timestamp
	}
}

func (ix *Indexer) withPool(ev ledger.Event, fn func(*PoolView)) {
	if p, ok := ix.incentives.Pools[ev.Fields["pool"]]; ok {
		fn(&p)
		ix.incentives.Pools[p.ID] = p
	}
}

func (ix *Indexer) withRoyalty(ev ledger.Event, fn func(*RoyaltyView)) {
	if r, ok := ix.incentives.Royalties[ev.Fields["royalty"]]; ok {
		fn(&r)
		ix.incentives.Royalties[r.ID] = r
	}
}
