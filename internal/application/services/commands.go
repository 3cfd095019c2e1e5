package services

// ProcessCommand carries one pre-validated payment attempt into the
// pipeline. ID is the idempotency identifier. CardNumber and CVV must
// not outlive the Process call that consumes the command.
type ProcessCommand struct {
	ID          string
	CardNumber  string
	CVV         string
	ExpiryMonth int
	ExpiryYear  int
	Currency    string
	Amount      int64
}
