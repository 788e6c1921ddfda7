package gateway

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Gateway talks to the analysis backend.
type Gateway struct {
	analyzeURL string
	httpClient *http.Client
}

func NewGateway(analyzeURL string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		analyzeURL: analyzeURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}
