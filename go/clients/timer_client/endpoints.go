package timer_client

const (
	// Default base URL of the development timer service
	DefaultBaseURL = "http://localhost:8080"

	// API Endpoints
	StartEndpoint  = "/timer/start"
	PauseEndpoint  = "/timer/pause/"
	ResumeEndpoint = "/timer/resume/"
	StopEndpoint   = "/timer/stop/"
	TimerEndpoint  = "/timer/"
)
