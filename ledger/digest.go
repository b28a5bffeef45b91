package ledger

import (
	"encoding/binary"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"labshare_dao/sdk"
)

// txDigest hashes the canonical request encoding together with the ledger
// sequence so identical requests still get distinct digests.
func txDigest(req *TxRequest, seq uint64) [32]byte {
	h, _ := blake2b.New256(nil)
	writeField := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	writeField([]byte(req.Sender))
	writeField([]byte(req.Action))
	for _, id := range req.Objects {
		writeField(id[:])
	}
	writeField([]byte(req.Payload))
	for _, in := range req.Intents {
		writeField([]byte(in.Type))
		for _, k := range sortedKeys(in.Args) {
			writeField([]byte(k))
			writeField([]byte(in.Args[k]))
		}
	}
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], seq)
	h.Write(s[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// encodeDigest renders a digest the way clients see it.
func encodeDigest(d [32]byte) string {
	return base58.Encode(d[:])
}

// deriveObjectID is blake2b-256(digest || creation index).
func deriveObjectID(digest [32]byte, index uint64) sdk.ObjectID {
	var buf [40]byte
	copy(buf[:32], digest[:])
	binary.BigEndian.PutUint64(buf[32:], index)
	return sdk.ObjectID(blake2b.Sum256(buf[:]))
}
