package models

// ClientData is the per-client read model joining all entities by client_id.
// It is derived, never persisted.
type ClientData struct {
	Client       *Client       `json:"client"`
	Subscription *Subscription `json:"subscription"`
	Invoices     []Invoice     `json:"invoices"`
	Assets       []Asset       `json:"assets"`
}
