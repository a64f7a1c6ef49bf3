package endpoints

import (
	"context"
	"strconv"
)

// Order types accepted by MarketOrders.
const (
	OrderTypeAll  = "all"
	OrderTypeBuy  = "buy"
	OrderTypeSell = "sell"
)

// MarketOrders returns all pages of a region's market orders. A typeID of 0
// returns orders of every type.
func MarketOrders(ctx context.Context, r Requester, regionID int64, orderType string, typeID int64) (any, error) {
	if orderType == "" {
		orderType = OrderTypeAll
	}
	query := map[string]string{"order_type": orderType}
	if typeID != 0 {
		query["type_id"] = strconv.FormatInt(typeID, 10)
	}
	return r.Get(ctx, "/markets/"+id(regionID)+"/orders/", query, nil)
}

// MarketPrices returns average and adjusted prices of all types.
func MarketPrices(ctx context.Context, r Requester) (any, error) {
	return r.Get(ctx, "/markets/prices/", nil, nil)
}
