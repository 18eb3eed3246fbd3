package admin

// ErrorResponse is the JSON body of a failed admin request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	RouteCount int    `json:"routeCount"`
	ItemCount  int    `json:"itemCount"`
	StoreReady bool   `json:"storeReady"`
	Outcomes   int    `json:"outcomes"`
}

// RouteInfo describes one active route.
type RouteInfo struct {
	Action string `json:"action"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

// ReloadResponse is the body of a successful POST /reload.
type ReloadResponse struct {
	RouteCount int `json:"routeCount"`
}
