package tournament

// AssignDealerRequest represents the data needed to upsert a dealer.
// Field names follow the camelCase keys API clients send, matching the
// other request payloads.
type AssignDealerRequest struct {
	ID          string `json:"id"`
	EndpointRef string `json:"endpointRef"`
	Table       string `json:"table"`
	DisplayName string `json:"displayName"`
}

// recentRoundsCap bounds the ring of prior round records retained for
// acknowledgement correlation.
const recentRoundsCap = 16
