package api

// JSON Schemas applied to request bodies before they reach the engine.
// CEPs are eight digits, dimensions and weight strictly positive, deviation
// bounds non-negative integers.

const dimensionsSchema = `{
	"type": "object",
	"required": ["length", "width", "height"],
	"properties": {
		"length": {"type": "number", "exclusiveMinimum": 0},
		"width": {"type": "number", "exclusiveMinimum": 0},
		"height": {"type": "number", "exclusiveMinimum": 0}
	}
}`

const axisRangeSchema = `{
	"type": "object",
	"properties": {
		"min": {"type": "integer", "minimum": 0},
		"max": {"type": "integer", "minimum": 0}
	}
}`

const ratesRequestSchema = `{
	"type": "object",
	"required": ["originCep", "destinationCep", "dimensions", "weight", "insuranceValue"],
	"properties": {
		"originCep": {"type": "string", "pattern": "^[0-9]{8}$"},
		"destinationCep": {"type": "string", "pattern": "^[0-9]{8}$"},
		"dimensions": ` + dimensionsSchema + `,
		"weight": {"type": "number", "exclusiveMinimum": 0},
		"insuranceValue": {"type": "number", "minimum": 0},
		"deviationRange": {
			"type": "object",
			"properties": {
				"length": ` + axisRangeSchema + `,
				"width": ` + axisRangeSchema + `,
				"height": ` + axisRangeSchema + `
			}
		},
		"costTolerance": {"type": "number", "minimum": 0},
		"packagingProtectionCm": {"type": "number", "minimum": 0}
	}
}`

const baldeacaoRequestSchema = `{
	"type": "object",
	"required": ["originCep", "destinationCep", "dimensions", "weight", "insuranceValue", "candidateCeps"],
	"properties": {
		"originCep": {"type": "string", "pattern": "^[0-9]{8}$"},
		"destinationCep": {"type": "string", "pattern": "^[0-9]{8}$"},
		"dimensions": ` + dimensionsSchema + `,
		"weight": {"type": "number", "exclusiveMinimum": 0},
		"insuranceValue": {"type": "number", "minimum": 0},
		"candidateCeps": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "pattern": "^[0-9]{8}$"}
		},
		"packagingProtectionCm": {"type": "number", "minimum": 0}
	}
}`
