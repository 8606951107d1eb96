package cairo

// Wire types for the subset of the Starknet JSON-RPC API the adapter uses.

// FunctionCall is a contract call. It is also the unit of an account
// multicall passed to Account.Execute.
type FunctionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

// InvokeTxn is an INVOKE v1 transaction as accepted by starknet_simulateTransactions.
type InvokeTxn struct {
	Type          string   `json:"type"`
	Version       string   `json:"version"`
	SenderAddress string   `json:"sender_address"`
	Calldata      []string `json:"calldata"`
	MaxFee        string   `json:"max_fee"`
	Signature     []string `json:"signature"`
	Nonce         string   `json:"nonce"`
}

// FeeEstimate is the fee part of a simulation result.
type FeeEstimate struct {
	GasConsumed string `json:"gas_consumed,omitempty"`
	GasPrice    string `json:"gas_price,omitempty"`
	OverallFee  string `json:"overall_fee"`
	Unit        string `json:"unit,omitempty"`
}

// ExecuteInvocation is the __execute__ part of an invoke trace. RevertReason
// is set when execution reverted.
type ExecuteInvocation struct {
	RevertReason string `json:"revert_reason,omitempty"`
}

// TransactionTrace is the trace of a simulated transaction.
type TransactionTrace struct {
	Type              string             `json:"type"`
	ExecuteInvocation *ExecuteInvocation `json:"execute_invocation,omitempty"`
}

// SimulatedTransaction is one element of the starknet_simulateTransactions result.
type SimulatedTransaction struct {
	TransactionTrace TransactionTrace `json:"transaction_trace"`
	FeeEstimation    FeeEstimate      `json:"fee_estimation"`
}

// Receipt holds the receipt fields the adapter reads.
type Receipt struct {
	TransactionHash string `json:"transaction_hash"`
	ExecutionStatus string `json:"execution_status"`
	FinalityStatus  string `json:"finality_status"`
	RevertReason    string `json:"revert_reason,omitempty"`
}

// Transaction holds the fields of a starknet_getTransactionByHash result the
// adapter reads.
type Transaction struct {
	TransactionHash string   `json:"transaction_hash"`
	Type            string   `json:"type"`
	SenderAddress   string   `json:"sender_address"`
	Calldata        []string `json:"calldata"`
}

const (
	executionSucceeded = "SUCCEEDED"
	executionReverted  = "REVERTED"

	finalityRejected = "REJECTED"

	// errTxnHashNotFound is the JSON-RPC error code for an unknown transaction hash.
	errTxnHashNotFound = 29
)
