package dto

// ErrorResponse respuesta de error uniforme de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse eco de la paginación aplicada.
type PageResponse struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}
