package contract

import "labshare_dao/sdk"

// Every key starts with a prefix byte followed by the 32 byte id of the object
// that owns the entry. The runtime reads bytes 1..33 to check the transaction
// named that object, so child tables never escape their parent's lock.
const (
	// kDAO stores the encoded DAO header.
	kDAO byte = 0x01
	// kDAOMember houses Member records keyed by address.
	kDAOMember byte = 0x02
	// kDAOProposal contains encoded Proposal records keyed by proposal id.
	kDAOProposal byte = 0x03
	// kDAOVote is the voter receipt per proposal, blocks double votes.
	kDAOVote byte = 0x04
	// kDAOData stores DataRecord entries keyed by data id.
	kDAOData byte = 0x05
	// kDAOThreshold keeps one Threshold per sensor type.
	kDAOThreshold byte = 0x06

	kEscrow          byte = 0x10
	kEscrowMilestone byte = 0x11

	kMarketplace byte = 0x20
	// kMarketActive flags listings that are currently active in a marketplace.
	kMarketActive byte = 0x21
	kListing      byte = 0x22
	kAgreement    byte = 0x23

	kRegistry byte = 0x30
	// kRegistryActivePool mirrors the active_pools map.
	kRegistryActivePool byte = 0x31
	kPool               byte = 0x32
	kPoolEvaluator      byte = 0x33
	kReceipt            byte = 0x34
	kRoyalty            byte = 0x35

	// kPackage holds package scoped singletons under sdk.PackageObjectID.
	kPackage byte = 0x3f
)

// KeyOwner extracts the owning object id from a contract key. Runtime reserved
// keys and malformed keys report false.
func KeyOwner(key string) (sdk.ObjectID, bool) {
	if len(key) < 1+sdk.ObjectIDLen || key[0] >= 0xf0 {
		return sdk.ObjectID{}, false
	}
	return sdk.ObjectIDFromBytes([]byte(key[1 : 1+sdk.ObjectIDLen]))
}

// packU64BE appends the number big endian so child keys sort by id.
func packU64BE(x uint64, dst []byte) []byte {
	return append(dst,
		byte(x>>56),
		byte(x>>48),
		byte(x>>40),
		byte(x>>32),
		byte(x>>24),
		byte(x>>16),
		byte(x>>8),
		byte(x),
	)
}

// objectKey is the header record of an object.
func objectKey(prefix byte, id sdk.ObjectID) string {
	buf := make([]byte, 0, 1+sdk.ObjectIDLen)
	buf = append(buf, prefix)
	buf = append(buf, id[:]...)
	return string(buf)
}

// childKey places an entry in a table owned by parent, indexed by a number.
func childKey(prefix byte, parent sdk.ObjectID, idx uint64) string {
	buf := make([]byte, 0, 1+sdk.ObjectIDLen+8)
	buf = append(buf, prefix)
	buf = append(buf, parent[:]...)
	buf = packU64BE(idx, buf)
	return string(buf)
}

// addrChildKey indexes a parent table by signer address.
func addrChildKey(prefix byte, parent sdk.ObjectID, addr sdk.Address) string {
	a := addr.String()
	buf := make([]byte, 0, 1+sdk.ObjectIDLen+len(a))
	buf = append(buf, prefix)
	buf = append(buf, parent[:]...)
	buf = append(buf, a...)
	return string(buf)
}

// objChildKey indexes a parent table by another object id.
func objChildKey(prefix byte, parent sdk.ObjectID, child sdk.ObjectID) string {
	buf := make([]byte, 0, 1+2*sdk.ObjectIDLen)
	buf = append(buf, prefix)
	buf = append(buf, parent[:]...)
	buf = append(buf, child[:]...)
	return string(buf)
}

func daoKey(id sdk.ObjectID) string { return objectKey(kDAO, id) }

func memberKey(dao sdk.ObjectID, addr sdk.Address) string {
	return addrChildKey(kDAOMember, dao, addr)
}

func proposalKey(dao sdk.ObjectID, id uint64) string { return childKey(kDAOProposal, dao, id) }

// voteKey mixes proposal id and voter so receipts for one proposal stay adjacent.
func voteKey(dao sdk.ObjectID, proposalID uint64, voter sdk.Address) string {
	a := voter.String()
	buf := make([]byte, 0, 1+sdk.ObjectIDLen+8+len(a))
	buf = append(buf, kDAOVote)
	buf = append(buf, dao[:]...)
	buf = packU64BE(proposalID, buf)
	buf = append(buf, a...)
	return string(buf)
}

func dataRecordKey(dao sdk.ObjectID, id uint64) string { return childKey(kDAOData, dao, id) }

func thresholdKey(dao sdk.ObjectID, sensorType uint64) string {
	return childKey(kDAOThreshold, dao, sensorType)
}

func escrowKey(id sdk.ObjectID) string { return objectKey(kEscrow, id) }

func milestoneKey(escrow sdk.ObjectID, idx uint64) string {
	return childKey(kEscrowMilestone, escrow, idx)
}

func marketplaceKey(id sdk.ObjectID) string { return objectKey(kMarketplace, id) }

func activeListingKey(market, listing sdk.ObjectID) string {
	return objChildKey(kMarketActive, market, listing)
}

func listingKey(id sdk.ObjectID) string { return objectKey(kListing, id) }

func agreementKey(id sdk.ObjectID) string { return objectKey(kAgreement, id) }

func registryKey(id sdk.ObjectID) string { return objectKey(kRegistry, id) }

func activePoolKey(registry, pool sdk.ObjectID) string {
	return objChildKey(kRegistryActivePool, registry, pool)
}

func poolKey(id sdk.ObjectID) string { return objectKey(kPool, id) }

func evaluatorKey(pool sdk.ObjectID, evaluator sdk.Address) string {
	return addrChildKey(kPoolEvaluator, pool, evaluator)
}

func receiptKey(id sdk.ObjectID) string { return objectKey(kReceipt, id) }

func royaltyKey(id sdk.ObjectID) string { return objectKey(kRoyalty, id) }

// registrySingletonKey records that the package wide incentives registry exists.
func registrySingletonKey() string {
	return childKey(kPackage, sdk.PackageObjectID, 1)
}
