package rpc

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// KeyedAccount is a decoded account paired with its address.
type KeyedAccount struct {
	Address string
	Owner   string
	Data    []byte
}

// rawAccount is the wire shape of an account in RPC responses; Data is the
// ["<encoded>", "<encoding>"] tuple.
type rawAccount struct {
	Data     []string `json:"data"`
	Owner    string   `json:"owner"`
	Lamports uint64   `json:"lamports"`
}

// ProgramAccountsResponse is the response from getProgramAccounts
type ProgramAccountsResponse struct {
	Result []struct {
		Pubkey  string     `json:"pubkey"`
		Account rawAccount `json:"account"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// AccountInfoResponse is the response from getAccountInfo
type AccountInfoResponse struct {
	Result struct {
		Value *rawAccount `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// TokenAccountBalanceResponse is the response from getTokenAccountBalance
type TokenAccountBalanceResponse struct {
	Result struct {
		Value struct {
			Amount         string   `json:"amount"`
			Decimals       uint8    `json:"decimals"`
			UIAmount       *float64 `json:"uiAmount"`
			UIAmountString string   `json:"uiAmountString"`
		} `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// BalanceResponse is the response from getBalance
type BalanceResponse struct {
	Result struct {
		Value uint64 `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// TokenAmount represents token balance information
type TokenAmount struct {
	Amount         string  `json:"amount"`
	Decimals       int     `json:"decimals"`
	UIAmountString string  `json:"uiAmountString"`
	UIAmount       float64 `json:"uiAmount"`
}

// TokenBalance represents a token balance entry in transaction meta
type TokenBalance struct {
	AccountIndex  int         `json:"accountIndex"`
	Mint          string      `json:"mint"`
	Owner         string      `json:"owner"`
	UITokenAmount TokenAmount `json:"uiTokenAmount"`
}

// TransactionMeta contains metadata about a transaction
type TransactionMeta struct {
	Err               interface{}    `json:"err"`
	PreBalances       []uint64       `json:"preBalances"`
	PostBalances      []uint64       `json:"postBalances"`
	PreTokenBalances  []TokenBalance `json:"preTokenBalances"`
	PostTokenBalances []TokenBalance `json:"postTokenBalances"`
}

// AccountKey represents an account in a transaction
type AccountKey struct {
	Pubkey string `json:"pubkey"`
}

// TransactionMessage contains the transaction message
type TransactionMessage struct {
	AccountKeys []AccountKey `json:"accountKeys"`
}

// Transaction represents a parsed transaction
type Transaction struct {
	Message TransactionMessage `json:"message"`
}

// TransactionResult contains the full transaction data
type TransactionResult struct {
	Meta        *TransactionMeta `json:"meta"`
	Transaction *Transaction     `json:"transaction"`
	BlockTime   int64            `json:"blockTime"`
}

// TransactionResponse is the response from getTransaction
type TransactionResponse struct {
	Result *TransactionResult `json:"result"`
	Error  *RPCError          `json:"error"`
}
