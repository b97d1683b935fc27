package melhorenvio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// normalizeBody accepts every response shape the upstream is known to emit:
// a bare array, {"services":[...]}, {"data":[...]}, or a single quote object.
func normalizeBody(body []byte) ([]QuoteItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var raws []rawQuote
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode quote array: %w", err)
		}
	case '{':
		var env responseEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode quote envelope: %w", err)
		}
		switch {
		case env.Services != nil:
			raws = *env.Services
		case env.Data != nil:
			raws = *env.Data
		default:
			var single rawQuote
			if err := json.Unmarshal(trimmed, &single); err != nil {
				return nil, fmt.Errorf("decode single quote: %w", err)
			}
			raws = []rawQuote{single}
		}
	default:
		return nil, fmt.Errorf("unexpected response shape")
	}

	items := make([]QuoteItem, 0, len(raws))
	for _, r := range raws {
		items = append(items, normalizeQuote(r))
	}
	return items, nil
}

func normalizeQuote(r rawQuote) QuoteItem {
	item := QuoteItem{
		ID:           rawToString(r.ID),
		ServiceName:  firstNonEmpty(r.Name, r.ServiceName, "Serviço"),
		CarrierName:  "Transportadora",
		ErrorMessage: firstNonEmpty(r.ErrorMessage, r.Error),
	}

	if r.Company != nil && r.Company.Name != "" {
		item.CarrierName = r.Company.Name
	} else if r.CarrierName != "" {
		item.CarrierName = r.CarrierName
	}
	if r.Company != nil && r.Company.Picture != "" {
		item.CarrierLogo = r.Company.Picture
	} else {
		item.CarrierLogo = r.Logo
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if priceStr := rawToString(r.Price); priceStr != "" {
		if v, err := ParseMoney(priceStr); err == nil {
			item.Price = &v
		}
	}

	if days, ok := rawToInt(r.DeliveryTime); ok {
		item.DeliveryDays = &days
	} else if days, ok := rawToInt(r.EstimatedDeliveryTime); ok {
		item.DeliveryDays = &days
	}

	return item
}

// ParseMoney parses a monetary value tolerating both decimal separators.
// "1.234,56" and "1234.56" both yield 1234.56.
func ParseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty monetary value")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse monetary value %q: %w", s, err)
	}
	return v, nil
}

// rawToString renders a RawMessage that may be a JSON string or number.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func rawToInt(raw json.RawMessage) (int, bool) {
	s := rawToString(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
