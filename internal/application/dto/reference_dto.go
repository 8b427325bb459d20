package dto

import "github.com/shopspring/decimal"

// ParameterDTO parámetro de un año.
type ParameterDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ZoneRateDTO tarifa por zona.
type ZoneRateDTO struct {
	Zone           string          `json:"zone"`
	SummerPriceM2  decimal.Decimal `json:"summer_price_m2" swaggertype:"string"`
	WinterPriceM2  decimal.Decimal `json:"winter_price_m2" swaggertype:"string"`
	PSPElement     string          `json:"psp_element,omitempty"`
	MaterialNumber string          `json:"material_number,omitempty"`
}

// SeasonDTO mes → temporada.
type SeasonDTO struct {
	Month  int    `json:"month"`
	Season string `json:"season"`
}

// ReferenceResponse datos de referencia de un año.
type ReferenceResponse struct {
	Year       int            `json:"year"`
	Parameters []ParameterDTO `json:"parameters"`
	Zones      []ZoneRateDTO  `json:"zones"`
	Seasons    []SeasonDTO    `json:"seasons"`
}

// ParameterRequest cuerpo de PUT /takster/:aar/parametre/:navn.
type ParameterRequest struct {
	Value string `json:"value" validate:"required,max=100"`
}

// ZoneRateRequest cuerpo de PUT /takster/:aar/zoner/:zone.
type ZoneRateRequest struct {
	SummerPriceM2  decimal.Decimal `json:"summer_price_m2" swaggertype:"string"`
	WinterPriceM2  decimal.Decimal `json:"winter_price_m2" swaggertype:"string"`
	PSPElement     string          `json:"psp_element" validate:"max=50"`
	MaterialNumber string          `json:"material_number" validate:"max=50"`
}

// SeasonRequest cuerpo de PUT /takster/:aar/saesoner/:maaned.
type SeasonRequest struct {
	Season string `json:"season" validate:"required"`
}

// CloneYearResponse año creado por POST /takster/klon.
type CloneYearResponse struct {
	Year int `json:"year"`
}

// CacheResponse estado de la caché de tarifas.
type CacheResponse struct {
	Invalidated string `json:"invalidated"`
	Years       int    `json:"years"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
}
