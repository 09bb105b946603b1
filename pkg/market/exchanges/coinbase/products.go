package coinbase

import (
	"context"
	"net/url"
	"strconv"
)

// GetProducts returns all trading pairs available on the exchange.
func (c *Client) GetProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns metadata for a single trading pair.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := c.get(ctx, "/products/"+productID, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// TradeListParams forwards pagination cursors to the trades endpoint. Zero
// values are omitted from the query.
type TradeListParams struct {
	Before int64 // return trades newer than this trade id
	After  int64 // return trades older than this trade id
	Limit  int   // page size; the exchange default is 1000
}

// GetTrades returns the latest trades for a product, newest first as served
// by the exchange.
func (c *Client) GetTrades(ctx context.Context, productID string, params TradeListParams) ([]Trade, error) {
	query := url.Values{}
	if params.Before > 0 {
		query.Set("before", strconv.FormatInt(params.Before, 10))
	}
	if params.After > 0 {
		query.Set("after", strconv.FormatInt(params.After, 10))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	var trades []Trade
	if err := c.get(ctx, "/products/"+productID+"/trades", query, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// GetTicker returns the last-trade snapshot for a product.
func (c *Client) GetTicker(ctx context.Context, productID string) (*Ticker, error) {
	var ticker Ticker
	if err := c.get(ctx, "/products/"+productID+"/ticker", nil, &ticker); err != nil {
		return nil, err
	}
	return &ticker, nil
}

// GetStats returns the rolling 24h stats for a product.
func (c *Client) GetStats(ctx context.Context, productID string) (*Stats, error) {
	var stats Stats
	if err := c.get(ctx, "/products/"+productID+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetCurrencies returns all currencies known to the exchange.
func (c *Client) GetCurrencies(ctx context.Context) ([]Currency, error) {
	var currencies []Currency
	if err := c.get(ctx, "/currencies", nil, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

// GetServerTime returns the exchange's clock.
func (c *Client) GetServerTime(ctx context.Context) (*ServerTime, error) {
	var serverTime ServerTime
	if err := c.get(ctx, "/time", nil, &serverTime); err != nil {
		return nil, err
	}
	return &serverTime, nil
}
