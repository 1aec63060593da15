package models

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FormatRequest asks the server to format a single raw field value.
type FormatRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type FormatResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ViewportRequest reports a viewport resize from the form page.
type ViewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
