package contract

import (
	"fmt"
	"strings"

	"labshare_dao/sdk"
)

// -----------------------------------------------------------------------------
// Marketplace Administration
// -----------------------------------------------------------------------------

// InitializeMarketplace creates a shared marketplace with the default
// categories and platform fee. An optional treasury is drawn from the caller.
// Example payload: "LabShare Market|Shared instruments|0"
func InitializeMarketplace(ctx *sdk.Ctx, payload *string) *string {
	input := decodeInitArgs(payload, "marketplace")
	m := &Marketplace{
		ID:          ctx.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Admin:       ctx.Sender(),
		Categories:  append([]string(nil), defaultCategories...),
		FeeBps:      DefaultMarketplaceFeeBps,
		CreatedAt:   ctx.Now(),
	}
	treasury := ctx.Vault(m.ID, slotTreasury).Join(ctx.Draw(input.InitialTreasury))
	saveMarketplace(ctx, m)

	emitMarketplaceInitialized(ctx, m, treasury)
	return retID(m.ID)
}

// AddCategory appends a listing category; admin only.
// Example payload: "0xmarket…|Imaging"
func AddCategory(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectNameArgs(payload, "marketplace")
	m := loadMarketplace(ctx, input.Object)
	requireRole(ctx, ModuleMarket, "the marketplace admin", m.Admin)

	for _, c := range m.Categories {
		if strings.EqualFold(c, input.Name) {
			sdk.AbortCode(ModuleMarket, MarketInvalidCategory, "category already exists")
		}
	}
	if len(m.Categories) >= MaxCategories {
		sdk.AbortCode(ModuleMarket, MarketInvalidCategory, fmt.Sprintf("at most %d categories", MaxCategories))
	}
	id := uint64(len(m.Categories))
	m.Categories = append(m.Categories, input.Name)
	saveMarketplace(ctx, m)

	emitCategoryAdded(ctx, m.ID, id, input.Name)
	return retU64(id)
}

// SetFee changes the platform fee for future confirmations; admin only.
// Example payload: "0xmarket…|300"
func SetFee(ctx *sdk.Ctx, payload *string) *string {
	input := decodeObjectAmountArgs(payload, "marketplace")
	m := loadMarketplace(ctx, input.Object)
	requireRole(ctx, ModuleMarket, "the marketplace admin", m.Admin)

	if input.Amount > MaxMarketplaceFeeBps {
		sdk.AbortCode(ModuleMarket, MarketInvalidFee, fmt.Sprintf("fee must not exceed %d bps", MaxMarketplaceFeeBps))
	}
	old := m.FeeBps
	m.FeeBps = input.Amount
	saveMarketplace(ctx, m)

	emitFeeUpdated(ctx, m.ID, old, m.FeeBps)
	return retU64(m.FeeBps)
}

// -----------------------------------------------------------------------------
// Listings
// -----------------------------------------------------------------------------

// ListService publishes a new Active listing owned by the caller.
// Example payload: "0xmarket…|Confocal hour|Zeiss LSM 980|0|50|{}|"
func ListService(ctx *sdk.Ctx, payload *string) *string {
	input := decodeListServiceArgs(payload)
	m := loadMarketplace(ctx, input.Marketplace)

	requirePositive(ModuleMarket, MarketInvalidPrice, input.Price, "price")
	if input.Category >= uint64(len(m.Categories)) {
		sdk.AbortCode(ModuleMarket, MarketInvalidCategory, "category out of range")
	}

	now := ctx.Now()
	l := &ServiceListing{
		ID:            ctx.NewObjectID(),
		MarketplaceID: m.ID,
		Provider:      ctx.Sender(),
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		PricePerUnit:  input.Price,
		Metadata:      input.Metadata,
		Available:     true,
		Status:        ListingActive,
		CreatedAt:     now,
		UpdatedAt:     now,
		DAOReference:  input.DAOReference,
	}
	m.ListingCount++
	m.ActiveListingCount++
	ctx.StateSet(activeListingKey(m.ID, l.ID), "1")
	saveListing(ctx, l)
	saveMarketplace(ctx, m)

	emitServiceListed(ctx, l)
	return retID(l.ID)
}

// UpdateListing changes price, description or availability of an Active listing.
// Example payload: "0xlisting…|60||false"
func UpdateListing(ctx *sdk.Ctx, payload *string) *string {
	input := decodeUpdateListingArgs(payload)
	l := loadListing(ctx, input.Listing)
	requireRole(ctx, ModuleMarket, "the provider", l.Provider)
	if l.Status != ListingActive {
		sdk.AbortCode(ModuleMarket, MarketInvalidStatus, "listing is "+l.Status.String())
	}

	if input.NewPrice != nil {
		requirePositive(ModuleMarket, MarketInvalidPrice, *input.NewPrice, "price")
		l.PricePerUnit = *input.NewPrice
	}
	if input.NewDescription != nil {
		l.Description = *input.NewDescription
	}
	if input.NewAvailability != nil {
		l.Available = *input.NewAvailability
	}
	l.UpdatedAt = ctx.Now()
	saveListing(ctx, l)

	emitServiceUpdated(ctx, l)
	return strptr("listing updated")
}

// DelistService retires a listing for good; the provider or the marketplace admin may do it.
// Example payload: "0xmarket…|0xlisting…|instrument decommissioned"
func DelistService(ctx *sdk.Ctx, payload *string) *string {
	marketID, listingID, reason := decodeTwoObjectArgs(payload, "marketplace", "listing")
	m := loadMarketplace(ctx, marketID)
	l := loadListing(ctx, listingID)
	requireListingInMarket(m, l)
	requireRole(ctx, ModuleMarket, "the provider or marketplace admin", l.Provider, m.Admin)
	if l.Status == ListingDelisted {
		sdk.AbortCode(ModuleMarket, MarketInvalidStatus, "listing already delisted")
	}

	l.Status = ListingDelisted
	l.Available = false
	l.UpdatedAt = ctx.Now()
	ctx.StateDelete(activeListingKey(m.ID, l.ID))
	if m.ActiveListingCount > 0 {
		m.ActiveListingCount--
	}
	saveListing(ctx, l)
	saveMarketplace(ctx, m)

	emitServiceDelisted(ctx, l, reason)
	return strptr("listing delisted")
}

// -----------------------------------------------------------------------------
// Agreements
// -----------------------------------------------------------------------------

// PurchaseService locks exactly quantity*price into a new Funded agreement.
// Any overpayment goes straight back to the buyer.
// Example payload: "0xmarket…|0xlisting…|2|130|"
func PurchaseService(ctx *sdk.Ctx, payload *string) *string {
	input := decodePurchaseArgs(payload)
	requirePositive(ModuleMarket, MarketInvalidQuantity, input.Quantity, "quantity")
	m := loadMarketplace(ctx, input.Marketplace)
	l := loadListing(ctx, input.Listing)
	requireListingInMarket(m, l)

	if l.Status != ListingActive || !l.Available {
		sdk.AbortCode(ModuleMarket, MarketListingUnavailable, "listing is not available")
	}
	total := checkedMul(l.PricePerUnit, input.Quantity, ModuleMarket, MarketInvalidQuantity)
	if input.Payment < total {
		sdk.AbortCode(ModuleMarket, MarketInsufficientFunds,
			fmt.Sprintf("payment %d below total price %d", input.Payment, total))
	}
	now := ctx.Now()
	if input.DeliveryDeadline != nil && *input.DeliveryDeadline <= now {
		sdk.AbortCode(ModuleMarket, MarketInvalidDeadline, "delivery deadline must be in the future")
	}

	payment := ctx.Draw(input.Payment)
	locked := payment.Split(total)
	excess := payment.Value()
	ctx.Transfer(ctx.Sender(), payment)

	a := &ServiceAgreement{
		ID:               ctx.NewObjectID(),
		MarketplaceID:    m.ID,
		ListingID:        l.ID,
		Buyer:            ctx.Sender(),
		Provider:         l.Provider,
		ServiceTitle:     l.Title,
		Quantity:         input.Quantity,
		UnitPrice:        l.PricePerUnit,
		TotalPrice:       total,
		Status:           AgreementFunded,
		DeliveryDeadline: input.DeliveryDeadline,
		CreatedAt:        now,
	}
	ctx.Vault(a.ID, slotFunds).Join(locked)
	m.AgreementCount++
	saveAgreement(ctx, a)
	saveMarketplace(ctx, m)

	emitServicePurchased(ctx, a, excess)
	return retID(a.ID)
}

// StartService marks a Funded agreement as being worked on.
// Example payload: "0xagreement…"
func StartService(ctx *sdk.Ctx, payload *string) *string {
	id := decodeObjectArg(payload, "agreement")
	a := loadAgreement(ctx, id)
	requireRole(ctx, ModuleMarket, "the provider", a.Provider)
	requireAgreementStatus(a, AgreementFunded)

	a.Status = AgreementInProgress
	saveAgreement(ctx, a)

	emitAgreementEvent(ctx, "ServiceStarted", a)
	return strptr("service started")
}

// DeliverService records the provider's proof of delivery.
// Example payload: "0xagreement…|ipfs://report|0xdao…#7"
func DeliverService(ctx *sdk.Ctx, payload *string) *string {
	input := decodeDeliverArgs(payload)
	a := loadAgreement(ctx, input.Agreement)
	requireRole(ctx, ModuleMarket, "the provider", a.Provider)
	requireAgreementStatus(a, AgreementFunded, AgreementInProgress)

	now := ctx.Now()
	if a.DeliveryDeadline != nil && now > *a.DeliveryDeadline {
		sdk.AbortCode(ModuleMarket, MarketDeadlinePassed, "delivery deadline has passed")
	}
	proof := input.DeliveryProof
	a.Status = AgreementDelivered
	a.DeliveryProof = &proof
	a.DataRecordReference = input.DataRecordReference
	a.DeliveredAt = now
	saveAgreement(ctx, a)

	emitAgreementEvent(ctx, "ServiceDelivered", a)
	return strptr("service delivered")
}

// ConfirmDelivery settles a Delivered agreement: the platform fee goes to the
// marketplace treasury and the rest to the provider.
// Example payload: "0xmarket…|0xagreement…|5"
func ConfirmDelivery(ctx *sdk.Ctx, payload *string) *string {
	input := decodeConfirmDeliveryArgs(payload)
	m := loadMarketplace(ctx, input.Marketplace)
	a := loadAgreement(ctx, input.Agreement)
	requireAgreementInMarket(m, a)
	requireRole(ctx, ModuleMarket, "the buyer", a.Buyer)
	requireAgreementStatus(a, AgreementDelivered)
	if r := input.Rating; r != nil && (*r < MinRating || *r > MaxRating) {
		sdk.AbortCode(ModuleMarket, MarketInvalidRating, "rating must be within [1, 5]")
	}

	funds := ctx.Vault(a.ID, slotFunds).WithdrawAll()
	if funds.Value() != a.TotalPrice {
		sdk.AbortCode(ModuleMarket, MarketInsufficientFunds, "agreement funds do not match total price")
	}
	fee := mulDivFloor(a.TotalPrice, m.FeeBps, BpsDenominator)
	ctx.Vault(m.ID, slotTreasury).Join(funds.Split(fee))
	providerPayment := funds.Value()
	ctx.Transfer(a.Provider, funds)

	a.Status = AgreementCompleted
	a.BuyerRating = input.Rating
	a.PlatformFee = fee
	a.CompletedAt = ctx.Now()
	m.TotalVolume += a.TotalPrice
	m.TotalFees += fee
	saveAgreement(ctx, a)
	saveMarketplace(ctx, m)

	emitServiceDeliveryConfirmed(ctx, a)
	emitPaymentForServiceReleased(ctx, a, providerPayment)
	return retU64(providerPayment)
}

// RequestRefund disputes a non terminal agreement and returns its funds to the buyer.
// Example payload: "0xmarket…|0xagreement…|no show"
func RequestRefund(ctx *sdk.Ctx, payload *string) *string {
	marketID, agreementID, reason := decodeTwoObjectArgs(payload, "marketplace", "agreement")
	m := loadMarketplace(ctx, marketID)
	a := loadAgreement(ctx, agreementID)
	requireAgreementInMarket(m, a)
	requireRole(ctx, ModuleMarket, "the buyer", a.Buyer)
	requireAgreementStatus(a, AgreementFunded, AgreementInProgress, AgreementDelivered)

	a.Status = AgreementDisputed
	a.DisputeReason = reason

	refund := ctx.Vault(a.ID, slotFunds).WithdrawAll()
	a.RefundedAmount = refund.Value()
	ctx.Transfer(a.Buyer, refund)
	a.Status = AgreementRefunded
	a.CompletedAt = ctx.Now()
	saveAgreement(ctx, a)

	emitServiceRefunded(ctx, a)
	return retU64(a.RefundedAmount)
}

// UpdateListingStats folds a Completed agreement into its listing's sales and
// rating totals. Replaying the same agreement changes nothing.
// Example payload: "0xlisting…|0xagreement…"
func UpdateListingStats(ctx *sdk.Ctx, payload *string) *string {
	listingID, agreementID, _ := decodeTwoObjectArgs(payload, "listing", "agreement")
	l := loadListing(ctx, listingID)
	a := loadAgreement(ctx, agreementID)
	if a.ListingID != l.ID {
		sdk.AbortCode(ModuleMarket, MarketAgreementMismatch, "agreement is for another listing")
	}
	requireAgreementStatus(a, AgreementCompleted)
	if a.StatsRecorded {
		return strptr("stats already recorded")
	}

	l.TotalSales = checkedAdd(l.TotalSales, a.TotalPrice, ModuleMarket, MarketInvalidPrice)
	if a.BuyerRating != nil {
		l.RatingSum += *a.BuyerRating
		l.RatingCount++
	}
	a.StatsRecorded = true
	saveListing(ctx, l)
	saveAgreement(ctx, a)

	emitListingStatsUpdated(ctx, l, a.ID)
	return strptr("stats updated")
}

// -----------------------------------------------------------------------------
// Guards
// -----------------------------------------------------------------------------

func requireListingInMarket(m *Marketplace, l *ServiceListing) {
	if l.MarketplaceID != m.ID {
		sdk.AbortCode(ModuleMarket, MarketAgreementMismatch, "listing belongs to another marketplace")
	}
}

func requireAgreementInMarket(m *Marketplace, a *ServiceAgreement) {
	if a.MarketplaceID != m.ID {
		sdk.AbortCode(ModuleMarket, MarketAgreementMismatch, "agreement belongs to another marketplace")
	}
}

func requireAgreementStatus(a *ServiceAgreement, allowed ...AgreementStatus) {
	for _, s := range allowed {
		if a.Status == s {
			return
		}
	}
	sdk.AbortCode(ModuleMarket, MarketInvalidStatus, "agreement is "+a.Status.String())
}
