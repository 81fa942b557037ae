package chain

// Category labels a transaction for tax treatment. Categories never change
// FIFO ordering; the disposal policy decides which ones count as taxable
// acquisitions or disposals.
type Category string

const (
	CategoryUnset        Category = ""
	CategoryTrade        Category = "trade"
	CategoryIncome       Category = "income"
	CategoryGiftReceived Category = "gift_received"
	CategoryGiftSent     Category = "gift_sent"
	CategoryPayment      Category = "payment"
	CategoryTransfer     Category = "transfer"
	CategoryStaking      Category = "staking"
	CategoryAirdrop      Category = "airdrop"
	CategoryFee          Category = "fee"
	CategoryLost         Category = "lost"
	CategoryOther        Category = "other"
)

var categories = map[Category]bool{
	CategoryTrade:        true,
	CategoryIncome:       true,
	CategoryGiftReceived: true,
	CategoryGiftSent:     true,
	CategoryPayment:      true,
	CategoryTransfer:     true,
	CategoryStaking:      true,
	CategoryAirdrop:      true,
	CategoryFee:          true,
	CategoryLost:         true,
	CategoryOther:        true,
}

// ValidCategory reports whether c is a known category. CategoryUnset is not
// valid as an assignment target.
func ValidCategory(c Category) bool {
	return categories[c]
}

// DefaultCategory is the direction-based fallback used when no override or
// rule applies: sends and receives both default to trade.
func DefaultCategory(d Direction) Category {
	switch d {
	case DirectionIn, DirectionOut:
		return CategoryTrade
	}
	return CategoryOther
}
