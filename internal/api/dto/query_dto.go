package dto

// ProcessQueryRequest is the inbound payload for query routing.
type ProcessQueryRequest struct {
	Query     string `json:"query"`
	UserEmail string `json:"user_email"`
}

// ProcessQueryResponse reports the routing decision.
type ProcessQueryResponse struct {
	Query           string  `json:"query"`
	Category        string  `json:"category"`
	Confidence      float64 `json:"confidence"`
	RoutedToSupport bool    `json:"routed_to_support"`
	TicketNumber    *string `json:"ticket_number"`
	Message         string  `json:"message"`
}
