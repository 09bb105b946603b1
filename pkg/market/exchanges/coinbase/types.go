package coinbase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Product mirrors one entry of GET /products.
type Product struct {
	ID              string  `json:"id"`
	BaseCurrency    string  `json:"base_currency"`
	QuoteCurrency   string  `json:"quote_currency"`
	BaseIncrement   float64 `json:"base_increment,string"`
	QuoteIncrement  float64 `json:"quote_increment,string"`
	DisplayName     string  `json:"display_name"`
	Status          string  `json:"status"`
	StatusMessage   string  `json:"status_message"`
	PostOnly        bool    `json:"post_only"`
	LimitOnly       bool    `json:"limit_only"`
	CancelOnly      bool    `json:"cancel_only"`
	TradingDisabled bool    `json:"trading_disabled"`
}

// Ticker mirrors GET /products/{id}/ticker, a snapshot of the last trade and
// best bid/ask.
type Ticker struct {
	TradeID int64     `json:"trade_id"`
	Price   float64   `json:"price,string"`
	Size    float64   `json:"size,string"`
	Bid     float64   `json:"bid,string"`
	Ask     float64   `json:"ask,string"`
	Volume  float64   `json:"volume,string"`
	Time    time.Time `json:"time"`
}

// Stats mirrors GET /products/{id}/stats, a rolling 24h window.
type Stats struct {
	Open        float64 `json:"open,string"`
	High        float64 `json:"high,string"`
	Low         float64 `json:"low,string"`
	Last        float64 `json:"last,string"`
	Volume      float64 `json:"volume,string"`
	Volume30Day float64 `json:"volume_30day,string"`
}

// Trade mirrors one entry of GET /products/{id}/trades.
type Trade struct {
	TradeID int64     `json:"trade_id"`
	Time    time.Time `json:"time"`
	Price   float64   `json:"price,string"`
	Size    float64   `json:"size,string"`
	Side    string    `json:"side"`
}

// Currency mirrors one entry of GET /currencies.
type Currency struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	MinSize float64 `json:"min_size,string"`
	Status  string  `json:"status"`
}

// ServerTime mirrors GET /time.
type ServerTime struct {
	ISO   time.Time `json:"iso"`
	Epoch float64   `json:"epoch"`
}

// rawCandle is the positional [time, low, high, open, close, volume] tuple
// returned by the historic-rates endpoint. Time is in epoch seconds.
type rawCandle struct {
	Time   int64
	Low    float64
	High   float64
	Open   float64
	Close  float64
	Volume float64
}

// UnmarshalJSON decodes the positional tuple, rejecting malformed rows.
func (rc *rawCandle) UnmarshalJSON(data []byte) error {
	var fields []float64
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("coinbase: candle tuple: %w", err)
	}
	if len(fields) != 6 {
		return fmt.Errorf("coinbase: candle tuple has %d fields, want 6", len(fields))
	}
	rc.Time = int64(fields[0])
	rc.Low = fields[1]
	rc.High = fields[2]
	rc.Open = fields[3]
	rc.Close = fields[4]
	rc.Volume = fields[5]
	return nil
}

// floatField parses a tuple element the exchange encodes either as a JSON
// number or a decimal string.
func floatField(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("coinbase: numeric field %s: %w", string(raw), err)
	}
	return f, nil
}
