package model

type SymbolFilters struct {
	Symbol      string  `json:"symbol"`
	StepSize    float64 `json:"stepSize"`
	MinQuantity float64 `json:"minQuantity"`
	TickSize    float64 `json:"tickSize"`
}
