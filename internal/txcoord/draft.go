package txcoord

// Draft is the in-progress, not-yet-submitted transfer form state. It is
// mutated field-by-field by user input and reset to all-empty strings
// after a successful submit or on disconnect. Never persisted.
type Draft struct {
	AddressTo string `json:"address_to"`
	Amount    string `json:"amount"`
	Keyword   string `json:"keyword"`
	Message   string `json:"message"`
}
