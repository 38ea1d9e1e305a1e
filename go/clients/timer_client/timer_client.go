package timer_client

import (
	"time"

	"github.com/mcdev12/countdown/go/clients"
)

// TimerClient talks to the remote timer service. The base URL is per-instance
// configuration; nothing about the remote is process-wide.
type TimerClient struct {
	*clients.BaseClient
}

func NewTimerClient(baseURL string, requestTimeout time.Duration) *TimerClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &TimerClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader("Accept", "application/json")
	client.SetRequestTimeout(requestTimeout)

	return client
}
