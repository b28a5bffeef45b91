package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labshare_dao/contract"
	"labshare_dao/sdk"
)

var (
	provider = member2
	buyer    = outsider
)

type marketInfo struct {
	FeeBps             uint64   `json:"fee_bps"`
	Categories         []string `json:"categories"`
	ListingCount       uint64   `json:"listing_count"`
	ActiveListingCount uint64   `json:"active_listing_count"`
	AgreementCount     uint64   `json:"agreement_count"`
	TotalVolume        uint64   `json:"total_volume"`
	TotalFees          uint64   `json:"total_fees"`
	Treasury           uint64   `json:"treasury"`
}

type agreementInfo struct {
	Status         string  `json:"status"`
	TotalPrice     uint64  `json:"total_price"`
	PlatformFee    uint64  `json:"platform_fee"`
	RefundedAmount uint64  `json:"refunded_amount"`
	BuyerRating    *uint64 `json:"buyer_rating"`
	DeliveryProof  *string `json:"delivery_proof"`
	Balance        uint64  `json:"balance"`
}

type listingInfo struct {
	Status       string `json:"status"`
	Available    bool   `json:"available"`
	PricePerUnit uint64 `json:"price_per_unit"`
	Description  string `json:"description"`
	TotalSales   uint64 `json:"total_sales"`
	RatingSum    uint64 `json:"rating_sum"`
	RatingCount  uint64 `json:"rating_count"`
}

func getMarket(t *testing.T, ct *contractTest, id sdk.ObjectID) marketInfo {
	t.Helper()
	var m marketInfo
	Query(t, ct, "market.info", ids(id), id.String(), &m)
	return m
}

func getAgreement(t *testing.T, ct *contractTest, id sdk.ObjectID) agreementInfo {
	t.Helper()
	var a agreementInfo
	Query(t, ct, "market.agreement", ids(id), id.String(), &a)
	return a
}

func getListing(t *testing.T, ct *contractTest, id sdk.ObjectID) listingInfo {
	t.Helper()
	var l listingInfo
	Query(t, ct, "market.listing", ids(id), id.String(), &l)
	return l
}

// setupMarket creates a marketplace owned by admin with one listing by provider at price.
func setupMarket(t *testing.T, ct *contractTest, price uint64) (sdk.ObjectID, sdk.ObjectID) {
	t.Helper()
	res := CallContract(t, ct, "market.initialize", nil, Payload("LabShare Market", "shared instruments", 0), 0, admin, true)
	market := createdID(t, res)
	res = CallContract(t, ct, "market.list_service", ids(market),
		Payload(market, "Confocal hour", "Zeiss LSM 980", 0, price, "{}", ""), 0, provider, true)
	return market, createdID(t, res)
}

func purchase(t *testing.T, ct *contractTest, market, listing sdk.ObjectID, quantity, payment uint64) sdk.ObjectID {
	t.Helper()
	res := CallContract(t, ct, "market.purchase_service", ids(market, listing),
		Payload(market, listing, quantity, payment, ""), payment, buyer, true)
	return createdID(t, res)
}

// =============================================================================
// Marketplace Tests
// =============================================================================

// TestMarketPurchaseWithOverpay checks the purchase and settlement flow so we dont break it again.
func TestMarketPurchaseWithOverpay(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 50)

	res := CallContract(t, ct, "market.purchase_service", ids(market, listing),
		Payload(market, listing, 2, 130, ""), 130, buyer, true)
	agreement := createdID(t, res)
	purchased := eventsOf(res, "ServicePurchased")
	require.Len(t, purchased, 1)
	assert.Equal(t, "100", purchased[0].Fields["total"])
	assert.Equal(t, "30", purchased[0].Fields["excess"])
	assert.Equal(t, uint64(startingBalance-100), balanceOf(t, ct, buyer))

	a := getAgreement(t, ct, agreement)
	assert.Equal(t, "funded", a.Status)
	assert.Equal(t, uint64(100), a.TotalPrice)
	assert.Equal(t, uint64(100), a.Balance)

	ao := ids(agreement)
	CallContract(t, ct, "market.start_service", ao, agreement.String(), 0, provider, true)
	CallContract(t, ct, "market.deliver_service", ao, Payload(agreement, "ipfs://report", ""), 0, provider, true)

	res = CallContract(t, ct, "market.confirm_delivery", ids(market, agreement), Payload(market, agreement, 5), 0, buyer, true)
	assert.Equal(t, "98", res.Ret)
	released := eventsOf(res, "PaymentForServiceReleased")
	require.Len(t, released, 1)
	assert.Equal(t, "2", released[0].Fields["fee"])

	assert.Equal(t, uint64(startingBalance+98), balanceOf(t, ct, provider))
	a = getAgreement(t, ct, agreement)
	assert.Equal(t, "completed", a.Status)
	assert.Equal(t, uint64(2), a.PlatformFee)
	assert.Equal(t, uint64(0), a.Balance)

	m := getMarket(t, ct, market)
	assert.Equal(t, uint64(100), m.TotalVolume)
	assert.Equal(t, uint64(2), m.TotalFees)
	assert.Equal(t, uint64(2), m.Treasury)
	assert.Equal(t, uint64(1), m.AgreementCount)
	assertConserved(t, ct)
}

// TestMarketListingStats checks that stats fold in exactly once.
func TestMarketListingStats(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 40)
	agreement := purchase(t, ct, market, listing, 1, 40)

	ExpectAbort(t, ct, "market.update_listing_stats", ids(listing, agreement), Payload(listing, agreement), 0, outsider, contract.ModuleMarket, contract.MarketInvalidStatus)

	CallContract(t, ct, "market.deliver_service", ids(agreement), Payload(agreement, "done"), 0, provider, true)
	CallContract(t, ct, "market.confirm_delivery", ids(market, agreement), Payload(market, agreement, 4), 0, buyer, true)

	res := CallContract(t, ct, "market.update_listing_stats", ids(listing, agreement), Payload(listing, agreement), 0, outsider, true)
	assert.Equal(t, "stats updated", res.Ret)
	res = CallContract(t, ct, "market.update_listing_stats", ids(listing, agreement), Payload(listing, agreement), 0, outsider, true)
	assert.Equal(t, "stats already recorded", res.Ret)
	assert.Empty(t, res.Events)

	l := getListing(t, ct, listing)
	assert.Equal(t, uint64(40), l.TotalSales)
	assert.Equal(t, uint64(4), l.RatingSum)
	assert.Equal(t, uint64(1), l.RatingCount)

	// an agreement from another listing is refused
	other := createdID(t, CallContract(t, ct, "market.list_service", ids(market),
		Payload(market, "Other", "", 1, 10, "", ""), 0, provider, true))
	ExpectAbort(t, ct, "market.update_listing_stats", ids(other, agreement), Payload(other, agreement), 0, outsider, contract.ModuleMarket, contract.MarketAgreementMismatch)
}

// TestMarketPurchaseValidation checks the purchase guards.
func TestMarketPurchaseValidation(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 50)
	mo := ids(market, listing)

	tests := []struct {
		name    string
		payload string
		draw    uint64
		code    uint64
	}{
		{"zero quantity", Payload(market, listing, 0, 50, ""), 50, contract.MarketInvalidQuantity},
		{"underpaid", Payload(market, listing, 2, 99, ""), 99, contract.MarketInsufficientFunds},
		{"deadline now", Payload(market, listing, 1, 50, t0), 50, contract.MarketInvalidDeadline},
		{"overflow", Payload(market, listing, uint64(1)<<62, 50, ""), 50, contract.MarketInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ExpectAbort(t, ct, "market.purchase_service", mo, tt.payload, tt.draw, buyer, contract.ModuleMarket, tt.code)
		})
	}
	assert.Equal(t, uint64(startingBalance), balanceOf(t, ct, buyer))

	// paused listings cannot be bought
	CallContract(t, ct, "market.update_listing", ids(listing), Payload(listing, "", "", "false"), 0, provider, true)
	ExpectAbort(t, ct, "market.purchase_service", mo, Payload(market, listing, 1, 50, ""), 50, buyer, contract.ModuleMarket, contract.MarketListingUnavailable)
	assertConserved(t, ct)
}

// TestMarketListingManagement checks listing updates and the terminal delist.
func TestMarketListingManagement(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 50)

	ExpectAbort(t, ct, "market.list_service", ids(market), Payload(market, "Free", "", 0, 0, "", ""), 0, provider, contract.ModuleMarket, contract.MarketInvalidPrice)
	ExpectAbort(t, ct, "market.list_service", ids(market), Payload(market, "Odd", "", 42, 5, "", ""), 0, provider, contract.ModuleMarket, contract.MarketInvalidCategory)
	ExpectAbort(t, ct, "market.update_listing", ids(listing), Payload(listing, 60, "", ""), 0, outsider, contract.ModuleMarket, contract.MarketNotAuthorized)
	ExpectAbort(t, ct, "market.update_listing", ids(listing), Payload(listing, 0, "", ""), 0, provider, contract.ModuleMarket, contract.MarketInvalidPrice)

	CallContract(t, ct, "market.update_listing", ids(listing), Payload(listing, 60, "new optics", ""), 0, provider, true)
	l := getListing(t, ct, listing)
	assert.Equal(t, uint64(60), l.PricePerUnit)
	assert.Equal(t, "new optics", l.Description)
	assert.True(t, l.Available)

	ExpectAbort(t, ct, "market.delist_service", ids(market, listing), Payload(market, listing, "bye"), 0, outsider, contract.ModuleMarket, contract.MarketNotAuthorized)
	// the marketplace admin may delist on the provider's behalf
	CallContract(t, ct, "market.delist_service", ids(market, listing), Payload(market, listing, "decommissioned"), 0, admin, true)

	l = getListing(t, ct, listing)
	assert.Equal(t, "delisted", l.Status)
	assert.False(t, l.Available)
	m := getMarket(t, ct, market)
	assert.Equal(t, uint64(1), m.ListingCount)
	assert.Equal(t, uint64(0), m.ActiveListingCount)

	ExpectAbort(t, ct, "market.delist_service", ids(market, listing), Payload(market, listing, ""), 0, provider, contract.ModuleMarket, contract.MarketInvalidStatus)
	ExpectAbort(t, ct, "market.update_listing", ids(listing), Payload(listing, "", "", "true"), 0, provider, contract.ModuleMarket, contract.MarketInvalidStatus)
	ExpectAbort(t, ct, "market.purchase_service", ids(market, listing), Payload(market, listing, 1, 60, ""), 60, buyer, contract.ModuleMarket, contract.MarketListingUnavailable)
}

// TestMarketAdministration checks categories and fee changes.
func TestMarketAdministration(t *testing.T) {
	ct := SetupContractTest(t)
	market, _ := setupMarket(t, ct, 50)
	mo := ids(market)

	res := CallContract(t, ct, "market.add_category", mo, Payload(market, "Imaging"), 0, admin, true)
	assert.Equal(t, "6", res.Ret)
	ExpectAbort(t, ct, "market.add_category", mo, Payload(market, "imaging"), 0, admin, contract.ModuleMarket, contract.MarketInvalidCategory)
	ExpectAbort(t, ct, "market.add_category", mo, Payload(market, "Other things"), 0, provider, contract.ModuleMarket, contract.MarketNotAuthorized)

	ExpectAbort(t, ct, "market.set_fee", mo, Payload(market, contract.MaxMarketplaceFeeBps+1), 0, admin, contract.ModuleMarket, contract.MarketInvalidFee)
	ExpectAbort(t, ct, "market.set_fee", mo, Payload(market, 10), 0, provider, contract.ModuleMarket, contract.MarketNotAuthorized)
	CallContract(t, ct, "market.set_fee", mo, Payload(market, 0), 0, admin, true)

	m := getMarket(t, ct, market)
	assert.Equal(t, uint64(0), m.FeeBps)
	assert.Len(t, m.Categories, 7)
}

// TestMarketFeeRounding checks that the platform fee is floored.
func TestMarketFeeRounding(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 39)
	CallContract(t, ct, "market.set_fee", ids(market), Payload(market, 1000), 0, admin, true)

	agreement := purchase(t, ct, market, listing, 1, 39)
	CallContract(t, ct, "market.deliver_service", ids(agreement), Payload(agreement, "done"), 0, provider, true)
	res := CallContract(t, ct, "market.confirm_delivery", ids(market, agreement), Payload(market, agreement, ""), 0, buyer, true)

	// floor(39 * 1000 / 10000) = 3
	assert.Equal(t, "36", res.Ret)
	a := getAgreement(t, ct, agreement)
	assert.Equal(t, uint64(3), a.PlatformFee)
	assert.Nil(t, a.BuyerRating)
	assert.Equal(t, a.TotalPrice, a.PlatformFee+36)
	assertConserved(t, ct)
}

// TestMarketAgreementGuards checks role and status checks on agreements.
func TestMarketAgreementGuards(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 50)
	agreement := purchase(t, ct, market, listing, 1, 50)
	ao := ids(agreement)
	mao := ids(market, agreement)

	ExpectAbort(t, ct, "market.start_service", ao, agreement.String(), 0, buyer, contract.ModuleMarket, contract.MarketNotAuthorized)
	ExpectAbort(t, ct, "market.confirm_delivery", mao, Payload(market, agreement, 5), 0, buyer, contract.ModuleMarket, contract.MarketInvalidStatus)

	CallContract(t, ct, "market.start_service", ao, agreement.String(), 0, provider, true)
	ExpectAbort(t, ct, "market.start_service", ao, agreement.String(), 0, provider, contract.ModuleMarket, contract.MarketInvalidStatus)
	CallContract(t, ct, "market.deliver_service", ao, Payload(agreement, "done", "dao#3"), 0, provider, true)

	ExpectAbort(t, ct, "market.confirm_delivery", mao, Payload(market, agreement, 6), 0, buyer, contract.ModuleMarket, contract.MarketInvalidRating)
	ExpectAbort(t, ct, "market.confirm_delivery", mao, Payload(market, agreement, 5), 0, provider, contract.ModuleMarket, contract.MarketNotAuthorized)

	// a second marketplace cannot settle this agreement
	other := createdID(t, CallContract(t, ct, "market.initialize", nil, Payload("Other", "", 0), 0, outsider, true))
	ExpectAbort(t, ct, "market.confirm_delivery", ids(other, agreement), Payload(other, agreement, 5), 0, buyer, contract.ModuleMarket, contract.MarketAgreementMismatch)
}

// TestMarketDeliveryDeadline checks late deliveries are refused.
func TestMarketDeliveryDeadline(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 50)
	deadline := t0 + 1000

	buy := func() sdk.ObjectID {
		res := CallContract(t, ct, "market.purchase_service", ids(market, listing),
			Payload(market, listing, 1, 50, deadline), 50, buyer, true)
		return createdID(t, res)
	}
	onTime, late := buy(), buy()

	// ledger time never goes backwards, so deliver on time first
	ct.At(deadline)
	CallContract(t, ct, "market.deliver_service", ids(onTime), Payload(onTime, "just in time"), 0, provider, true)
	ct.At(deadline + 1)
	ExpectAbort(t, ct, "market.deliver_service", ids(late), Payload(late, "late"), 0, provider, contract.ModuleMarket, contract.MarketDeadlinePassed)
}

// TestMarketRefund checks the buyer refund flow.
func TestMarketRefund(t *testing.T) {
	ct := SetupContractTest(t)
	market, listing := setupMarket(t, ct, 50)
	agreement := purchase(t, ct, market, listing, 3, 150)
	mao := ids(market, agreement)

	ExpectAbort(t, ct, "market.request_refund", mao, Payload(market, agreement, "no show"), 0, provider, contract.ModuleMarket, contract.MarketNotAuthorized)
	res := CallContract(t, ct, "market.request_refund", mao, Payload(market, agreement, "no show"), 0, buyer, true)
	assert.Equal(t, "150", res.Ret)
	assert.Equal(t, uint64(startingBalance), balanceOf(t, ct, buyer))

	a := getAgreement(t, ct, agreement)
	assert.Equal(t, "refunded", a.Status)
	assert.Equal(t, uint64(150), a.RefundedAmount)
	assert.Equal(t, uint64(0), a.Balance)

	ExpectAbort(t, ct, "market.request_refund", mao, Payload(market, agreement, "again"), 0, buyer, contract.ModuleMarket, contract.MarketInvalidStatus)
	ExpectAbort(t, ct, "market.deliver_service", ids(agreement), Payload(agreement, "late"), 0, provider, contract.ModuleMarket, contract.MarketInvalidStatus)
	assertConserved(t, ct)
}
