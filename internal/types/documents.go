package types

// JSON document shapes for the file backend. Each document is read and
// rewritten in full; layout matches the data/ directory of the original CMS.

type InteractionsDocument struct {
	Interactions []Interaction `json:"interactions"`
	UpdatedAt    string        `json:"updated_at"`
}

type LoyaltyDocument struct {
	Users []LoyaltyAccount `json:"users"`
}

type ActivitiesDocument struct {
	Activities []ActivityRecord `json:"activities"`
}
