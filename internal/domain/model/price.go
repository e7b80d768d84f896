package model

import "github.com/shopspring/decimal"

type PriceListEntry struct {
	ListName string
	Sku      string
	Price    decimal.Decimal
}

type TierItem struct {
	Sku   string
	Price string
}
