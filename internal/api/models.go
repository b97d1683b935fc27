package api

import (
	"shipping-optimizer/internal/rates"
)

// RatesRequest is the body of POST /api/v1/rates.
type RatesRequest struct {
	OriginCEP             string               `json:"originCep"`
	DestinationCEP        string               `json:"destinationCep"`
	Dimensions            rates.DimensionSet   `json:"dimensions"`
	Weight                float64              `json:"weight"`
	InsuranceValue        float64              `json:"insuranceValue"`
	DeviationRange        rates.DeviationRange `json:"deviationRange"`
	CostTolerance         float64              `json:"costTolerance"`
	PackagingProtectionCm float64              `json:"packagingProtectionCm"`
}

// RatesResponse carries the ranked result list.
type RatesResponse struct {
	Results []rates.Rate `json:"results"`
	Total   int          `json:"total"`
}

// BaldeacaoRequest is the body of POST /api/v1/baldeacoes.
type BaldeacaoRequest struct {
	OriginCEP             string             `json:"originCep"`
	DestinationCEP        string             `json:"destinationCep"`
	Dimensions            rates.DimensionSet `json:"dimensions"`
	Weight                float64            `json:"weight"`
	InsuranceValue        float64            `json:"insuranceValue"`
	CandidateCeps         []string           `json:"candidateCeps"`
	PackagingProtectionCm float64            `json:"packagingProtectionCm"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
