package types

// UserProfile identifies the buyer to the backend
type UserProfile struct {
	Email  string `json:"email"`
	Wallet string `json:"Wallet"`
}

// FormState holds the two linked amount fields
type FormState struct {
	SourceAmount string `json:"source_amount"`
	TargetAmount string `json:"target_amount"`
}

// Transaction is the JSON view of a broadcast token transfer
type Transaction struct {
	Hash                 string `json:"hash"`
	Type                 uint8  `json:"type"`
	ChainID              string `json:"chainId"`
	Nonce                uint64 `json:"nonce"`
	From                 string `json:"from"`
	To                   string `json:"to"`
	GasLimit             uint64 `json:"gasLimit"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	Value                string `json:"value"`
	Data                 string `json:"data"`
}

// TransferRequest is the approval payload posted to the backend
type TransferRequest struct {
	User                 UserProfile  `json:"user"`
	Transaction          *Transaction `json:"transaction"`
	TransferedBusdAmount float64      `json:"transferedBusdAmount"`
	Network              string       `json:"network"`
}

// TransferResponse is the backend's reply to an approval request
type TransferResponse struct {
	Message string `json:"message"`
}

// SwapRequest represents a user's buy command
type SwapRequest struct {
	Amount string
	Token  string
}
