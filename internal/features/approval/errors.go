package approval

import "errors"

var (
	// ErrNotFound covers missing documents, ledger entries and QR tokens.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized means the gate denied the actor for the document's
	// current rung.
	ErrNotAuthorized = errors.New("not authorized to act on this document")
	// ErrChainAlreadyInstantiated guards against double instantiation of a
	// document's approval chain.
	ErrChainAlreadyInstantiated = errors.New("approval chain already instantiated")
	// ErrAlreadyDecided means the targeted ledger entry left the pending
	// state before this decision landed.
	ErrAlreadyDecided = errors.New("approval entry already decided")
	// ErrChainHalted means a rejection froze the chain.
	ErrChainHalted = errors.New("approval chain halted by rejection")
)
