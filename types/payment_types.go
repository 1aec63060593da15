package types

// BrowserContext is the environment snapshot sent along with a payment.
type BrowserContext struct {
	UserAgent      string `json:"user_agent"`
	Language       string `json:"language"`
	ColorDepth     int    `json:"color_depth"`
	UTCOffset      string `json:"utc_offset"`
	ScreenWidth    int    `json:"screen_width"`
	ScreenHeight   int    `json:"screen_height"`
	TimezoneOffset int    `json:"timezone_offset"`
	JavaEnabled    bool   `json:"java_enabled"`
}

// ThreeDSChallenge carries the tokens an issuer needs to run a challenge.
type ThreeDSChallenge struct {
	PaReq string `json:"PaReq"` // continuation token
	MD    string `json:"MD"`    // merchant state token
}

func (c ThreeDSChallenge) IsComplete() bool {
	return c.PaReq != "" && c.MD != ""
}

// ThreeDSProxyRequest is posted to the 3DS proxy endpoint.
type ThreeDSProxyRequest struct {
	PaReq   string `json:"paReq"`
	MD      string `json:"md"`
	TermURL string `json:"termUrl"`
	ACSURL  string `json:"acsUrl"`
}
