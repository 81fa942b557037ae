package chain

// AssetMeta describes the native precision and chain of a tracked asset.
type AssetMeta struct {
	Symbol    string
	Name      string
	Chain     string
	Precision int32 // native decimal places; amounts are rounded to this
}

var Assets = map[string]AssetMeta{
	"ETH": {
		Symbol:    "ETH",
		Name:      "Ether",
		Chain:     "ethereum",
		Precision: 18,
	},
	"BTC": {
		Symbol:    "BTC",
		Name:      "Bitcoin",
		Chain:     "bitcoin",
		Precision: 8,
	},
	"MATIC": {
		Symbol:    "MATIC",
		Name:      "Polygon",
		Chain:     "polygon",
		Precision: 18,
	},
	"BNB": {
		Symbol:    "BNB",
		Name:      "BNB",
		Chain:     "bsc",
		Precision: 18,
	},
	"USDC": {
		Symbol:    "USDC",
		Name:      "USD Coin",
		Chain:     "ethereum",
		Precision: 6,
	},
	"USDT": {
		Symbol:    "USDT",
		Name:      "Tether",
		Chain:     "ethereum",
		Precision: 6,
	},
}

// DefaultPrecision applies to assets missing from the registry.
const DefaultPrecision int32 = 8

// Precision returns the native decimal precision for symbol.
func Precision(symbol string) int32 {
	if meta, ok := Assets[symbol]; ok {
		return meta.Precision
	}
	return DefaultPrecision
}
