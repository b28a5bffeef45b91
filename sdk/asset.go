package sdk

type Asset string

// AssetLab is the native currency every balance on the ledger is denominated in.
const AssetLab Asset = "lab"

// String returns the raw ticker string for logging or host calls.
// Example payload: sdk.AssetLab.String()
func (a Asset) String() string {
	return string(a)
}
