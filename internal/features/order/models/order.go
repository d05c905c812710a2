package models

import (
	"time"

	"tigon-bot-backend/internal/trading"
)

// PayloadKind is the explicit discriminant of the order payload variant.
type PayloadKind string

const (
	KindWrap  PayloadKind = "wrap"
	KindRoute PayloadKind = "route"
	KindTrade PayloadKind = "trade"
)

// WrapRequest wraps the native coin into its wrapped-token form.
type WrapRequest struct {
	Amount       float64 `json:"amount"`
	TokenAddress string  `json:"token_address"`
}

// Payload is a tagged variant: exactly one of Wrap, Route or Trade is set,
// named by Kind.
type Payload struct {
	Kind  PayloadKind        `json:"kind"`
	Wrap  *WrapRequest       `json:"wrap,omitempty"`
	Route *trading.SwapRoute `json:"route,omitempty"`
	Trade *trading.Trade     `json:"trade,omitempty"`
}

func WrapPayload(req WrapRequest) Payload {
	return Payload{Kind: KindWrap, Wrap: &req}
}

func RoutePayload(route *trading.SwapRoute) Payload {
	return Payload{Kind: KindRoute, Route: route}
}

func TradePayload(trade *trading.Trade) Payload {
	return Payload{Kind: KindTrade, Trade: trade}
}

// Order correlates a computed quote with its later confirmation. Once taken
// it is never executable again.
type Order struct {
	ID        string    `json:"id"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
