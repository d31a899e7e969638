package models

// IntelligenceRequest binds the ticker path parameter.
type IntelligenceRequest struct {
	Ticker string `param:"ticker" validate:"required,alphanum,max=12"`
}

// NewsRequest binds the news path and query parameters.
type NewsRequest struct {
	Ticker string `param:"ticker" validate:"required,alphanum,max=12"`
	Limit  int    `query:"limit" default:"5" validate:"gte=1,lte=20"`
}
