package coinbase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// BookLevel selects which of the three order-book response shapes the book
// endpoint returns. The payload itself carries no tag; the request decides.
type BookLevel int

const (
	// BookLevelBest returns only the best bid and ask, aggregated.
	BookLevelBest BookLevel = 1
	// BookLevelTop50 returns the top fifty aggregated levels per side.
	BookLevelTop50 BookLevel = 2
	// BookLevelFull returns every open order, non-aggregated.
	BookLevelFull BookLevel = 3
)

// ErrInvalidBookLevel indicates a level outside {1, 2, 3}.
var ErrInvalidBookLevel = errors.New("coinbase: invalid book level")

// AggregatedLevel is one aggregated price level: [price, size, num-orders].
type AggregatedLevel struct {
	Price     float64
	Size      float64
	NumOrders int64
}

// UnmarshalJSON decodes the positional level tuple. Price and size arrive as
// decimal strings, the order count as a JSON number.
func (l *AggregatedLevel) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("coinbase: book level: %w", err)
	}
	if len(fields) != 3 {
		return fmt.Errorf("coinbase: book level has %d fields, want 3", len(fields))
	}
	price, err := floatField(fields[0])
	if err != nil {
		return fmt.Errorf("coinbase: book level price: %w", err)
	}
	size, err := floatField(fields[1])
	if err != nil {
		return fmt.Errorf("coinbase: book level size: %w", err)
	}
	var orders int64
	if err := json.Unmarshal(fields[2], &orders); err != nil {
		return fmt.Errorf("coinbase: book level order count: %w", err)
	}
	l.Price, l.Size, l.NumOrders = price, size, orders
	return nil
}

// BookOrder is one open order on the full book: [price, size, order-id].
type BookOrder struct {
	Price   float64
	Size    float64
	OrderID string
}

// UnmarshalJSON decodes the positional order tuple.
func (o *BookOrder) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("coinbase: book order: %w", err)
	}
	if len(fields) != 3 {
		return fmt.Errorf("coinbase: book order has %d fields, want 3", len(fields))
	}
	price, err := floatField(fields[0])
	if err != nil {
		return fmt.Errorf("coinbase: book order price: %w", err)
	}
	size, err := floatField(fields[1])
	if err != nil {
		return fmt.Errorf("coinbase: book order size: %w", err)
	}
	var id string
	if err := json.Unmarshal(fields[2], &id); err != nil {
		return fmt.Errorf("coinbase: book order id: %w", err)
	}
	o.Price, o.Size, o.OrderID = price, size, id
	return nil
}

// OrderBookLevel1 carries only the best bid and ask, aggregated.
type OrderBookLevel1 struct {
	Sequence int64             `json:"sequence"`
	Bids     []AggregatedLevel `json:"bids"`
	Asks     []AggregatedLevel `json:"asks"`
}

// OrderBookLevel2 carries the top fifty aggregated levels per side.
type OrderBookLevel2 struct {
	Sequence int64             `json:"sequence"`
	Bids     []AggregatedLevel `json:"bids"`
	Asks     []AggregatedLevel `json:"asks"`
}

// OrderBookLevel3 carries the full non-aggregated book including order ids.
type OrderBookLevel3 struct {
	Sequence int64       `json:"sequence"`
	Bids     []BookOrder `json:"bids"`
	Asks     []BookOrder `json:"asks"`
}

// getBook fetches /products/{id}/book at the given level and decodes the
// response into the shape the caller bound to T. The level literal at each
// call site is what selects the shape; the payload is never inspected.
func getBook[T any](ctx context.Context, c *Client, productID string, level BookLevel) (*T, error) {
	query := url.Values{}
	query.Set("level", strconv.Itoa(int(level)))
	var book T
	if err := c.get(ctx, "/products/"+productID+"/book", query, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// GetOrderBookLevel1 returns the best bid and ask for the product.
func (c *Client) GetOrderBookLevel1(ctx context.Context, productID string) (*OrderBookLevel1, error) {
	return getBook[OrderBookLevel1](ctx, c, productID, BookLevelBest)
}

// GetOrderBookLevel2 returns the top fifty aggregated levels per side.
func (c *Client) GetOrderBookLevel2(ctx context.Context, productID string) (*OrderBookLevel2, error) {
	return getBook[OrderBookLevel2](ctx, c, productID, BookLevelTop50)
}

// GetOrderBookLevel3 returns the full book with individual order ids.
func (c *Client) GetOrderBookLevel3(ctx context.Context, productID string) (*OrderBookLevel3, error) {
	return getBook[OrderBookLevel3](ctx, c, productID, BookLevelFull)
}

// GetOrderBook returns the default view of the book, which is level 1.
func (c *Client) GetOrderBook(ctx context.Context, productID string) (*OrderBookLevel1, error) {
	return c.GetOrderBookLevel1(ctx, productID)
}
