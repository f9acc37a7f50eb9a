package request

// SubmitTransactionRequest carries the transfer draft. Address and
// amount presence is checked again by the orchestrator; the binding
// tags only catch malformed JSON early.
type SubmitTransactionRequest struct {
	AddressTo string `json:"address_to" binding:"required,max=64"`
	Amount    string `json:"amount" binding:"required,max=80"`
	Keyword   string `json:"keyword" binding:"max=255"`
	Message   string `json:"message" binding:"max=1024"`
}

// UpdateDraftRequest mutates one draft field by its wire name.
type UpdateDraftRequest struct {
	Field string `json:"field" binding:"required,oneof=addressTo amount keyword message"`
	Value string `json:"value"`
}
