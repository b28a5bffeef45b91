package sdk

import "strconv"

// TransferAllow caps how much value a transaction may draw from its sender.
type TransferAllow struct {
	Limit uint64
	Token Asset
}

// FirstTransferAllow returns the first transfer.allow intent, or nil when none is attached.
func FirstTransferAllow(intents []Intent) *TransferAllow {
	for _, intent := range intents {
		if intent.Type != "transfer.allow" {
			continue
		}
		limit, err := strconv.ParseUint(intent.Args["limit"], 10, 64)
		if err != nil {
			Abort("invalid intent limit")
		}
		return &TransferAllow{
			Limit: limit,
			Token: Asset(intent.Args["token"]),
		}
	}
	return nil
}

// TransferIntent builds the intent a client attaches to allow draws up to limit.
func TransferIntent(limit uint64) Intent {
	return Intent{
		Type: "transfer.allow",
		Args: map[string]string{
			"limit": strconv.FormatUint(limit, 10),
			"token": AssetLab.String(),
		},
	}
}
