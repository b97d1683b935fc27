package melhorenvio

import "encoding/json"

// QuoteQuery is one pricing question: a single origin/destination pair with
// concrete package dimensions.
type QuoteQuery struct {
	OriginCEP      string
	DestinationCEP string
	Length         float64
	Width          float64
	Height         float64
	Weight         float64
	InsuranceValue float64
}

// QuoteItem is the canonical record produced at the upstream boundary. The
// rest of the pipeline never sees the raw response shapes.
type QuoteItem struct {
	ID           string
	ServiceName  string
	CarrierName  string
	CarrierLogo  string
	Price        *float64
	ErrorMessage string
	DeliveryDays *int
}

// Available reports whether the item carries a usable price.
func (q QuoteItem) Available() bool {
	return q.Price != nil && q.ErrorMessage == ""
}

// --- wire types ---

type calculateRequest struct {
	From     endpoint  `json:"from"`
	To       endpoint  `json:"to"`
	Products []product `json:"products"`
	Options  options   `json:"options"`
	Services string    `json:"services"`
}

type endpoint struct {
	PostalCode string `json:"postal_code"`
}

type product struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Length         float64 `json:"length"`
	Weight         float64 `json:"weight"`
	InsuranceValue float64 `json:"insurance_value"`
	Quantity       int     `json:"quantity"`
}

type options struct {
	Receipt bool `json:"receipt"`
	OwnHand bool `json:"own_hand"`
	Collect bool `json:"collect"`
}

// rawQuote mirrors the loosely-typed upstream quote object. Several fields
// drift between deployments, hence the fallback pairs and RawMessage types.
type rawQuote struct {
	ID                    json.RawMessage `json:"id"`
	Name                  string          `json:"name"`
	ServiceName           string          `json:"service_name"`
	Company               *rawCompany     `json:"company"`
	CarrierName           string          `json:"carrier_name"`
	Logo                  string          `json:"logo"`
	Price                 json.RawMessage `json:"price"`
	Error                 string          `json:"error"`
	ErrorMessage          string          `json:"error_message"`
	DeliveryTime          json.RawMessage `json:"delivery_time"`
	EstimatedDeliveryTime json.RawMessage `json:"estimated_delivery_time"`
}

type rawCompany struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// responseEnvelope covers the object-wrapped response shapes. Pointer slices
// distinguish "key absent" from "key present but empty".
type responseEnvelope struct {
	Services *[]rawQuote `json:"services"`
	Data     *[]rawQuote `json:"data"`
}
