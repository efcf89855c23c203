package model

import "github.com/ethereum/go-ethereum/common"

// Call is one entry of an aggregate request. Field names follow the
// Multicall3 tuple so the struct packs directly.
type Call struct {
	Target   common.Address
	CallData []byte
}

// CallResult is one entry of an aggregate response, same position as its Call.
type CallResult struct {
	Success    bool
	ReturnData []byte
}

// CallContext says what a positional result decodes as.
type CallContext struct {
	Contract common.Address
	Method   string
}

// CallEnvelope bundles a call with its context from the moment it is built,
// so chunking and correlation never re-zip parallel lists.
type CallEnvelope struct {
	Call    Call
	Context CallContext
}

type Envelopes []CallEnvelope

func (e Envelopes) Calls() []Call {
	calls := make([]Call, len(e))
	for i, env := range e {
		calls[i] = env.Call
	}
	return calls
}

// AssociatedCallResult is a CallResult annotated with the contract and
// method that produced it.
type AssociatedCallResult struct {
	Context    CallContext
	Success    bool
	ReturnData []byte
}

func (r AssociatedCallResult) Contract() common.Address {
	return r.Context.Contract
}
