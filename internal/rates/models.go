package rates

// DimensionSet holds package dimensions in centimeters.
type DimensionSet struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sum returns the total-size metric used for ranking tie-breaks.
func (d DimensionSet) Sum() float64 {
	return d.Length + d.Width + d.Height
}

// Volume returns the box volume in cubic centimeters.
func (d DimensionSet) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// AxisRange bounds the additive deviation explored on one axis.
type AxisRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeviationRange bounds the deviation search per axis.
type DeviationRange struct {
	Length AxisRange `json:"length"`
	Width  AxisRange `json:"width"`
	Height AxisRange `json:"height"`
}

// Deviation is one concrete per-axis offset combination, in centimeters.
type Deviation struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether no axis is perturbed.
func (d Deviation) IsZero() bool {
	return d.Length == 0 && d.Width == 0 && d.Height == 0
}

// DimensionVariant is one point of the deviation grid: the effective
// dimensions to quote and the offsets that produced them.
type DimensionVariant struct {
	Dimensions DimensionSet
	Deviation  Deviation
}

// Carrier identifies the shipping company of a rate.
type Carrier struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

// Rate is the canonical normalized unit flowing through the pipeline.
type Rate struct {
	ID                string       `json:"id"`
	ServiceName       string       `json:"serviceName"`
	Carrier           Carrier      `json:"carrier"`
	Price             *float64     `json:"price"`
	ErrorMessage      string       `json:"errorMessage,omitempty"`
	Deviation         Deviation    `json:"deviation"`
	TotalSize         float64      `json:"totalSize"`
	BaseDimensions    DimensionSet `json:"baseDimensions"`
	DeliveryDays      *int         `json:"deliveryDays"`
	VolumeGainPercent float64      `json:"volumeGainPercent"`
}

// Available reports whether the rate carries a usable price.
func (r Rate) Available() bool {
	return r.Price != nil && r.ErrorMessage == ""
}

// QuoteInput carries everything one grid search needs.
type QuoteInput struct {
	OriginCEP             string
	DestinationCEP        string
	Dimensions            DimensionSet
	Weight                float64
	InsuranceValue        float64
	DeviationRange        DeviationRange
	CostTolerance         float64
	PackagingProtectionCm float64
}

// ProgressFunc observes search progress. Deliveries are serialized and
// completed increases by one per call; implementations that block delay
// sibling variants.
type ProgressFunc func(fraction float64, completed, total int)

// RouteLeg summarizes the cheapest option of one origin/destination query.
type RouteLeg struct {
	CheapestPrice *float64 `json:"cheapestPrice"`
	DeliveryDays  *int     `json:"deliveryDays"`
}

// RouteComparison compares one two-leg route through a transshipment CEP
// against the direct route.
type RouteComparison struct {
	CandidateCEP       string   `json:"baldeacaoCep"`
	Leg1               RouteLeg `json:"leg1"`
	Leg2               RouteLeg `json:"leg2"`
	TotalPrice         *float64 `json:"totalPrice"`
	TotalDeliveryDays  *int     `json:"totalDeliveryDays"`
	IsBetterThanDirect bool     `json:"isBetterThanDirect"`
}

// RouteComparisonResult is the output of a baldeação comparison request.
type RouteComparisonResult struct {
	Direct      RouteLeg          `json:"direct"`
	Comparisons []RouteComparison `json:"comparisons"`
}
