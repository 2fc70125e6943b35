package assist

import (
	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// Parameter is one entry of a signature.
type Parameter struct {
	Label         string `json:"label"`
	Documentation string `json:"documentation"`
}

// SignatureHelp describes the call under the cursor.
type SignatureHelp struct {
	Label           string      `json:"label"`
	Documentation   string      `json:"documentation"`
	Parameters      []Parameter `json:"parameters"`
	ActiveParameter int         `json:"activeParameter"`
}

// Signer produces signature help from a function registry.
type Signer struct {
	registry *funcs.Registry
}

// NewSigner creates a signer backed by registry.
func NewSigner(registry *funcs.Registry) *Signer {
	return &Signer{registry: registry}
}

// SignatureHelp returns the signature of the innermost call around offset
// with the argument being typed marked active, or nil.
func (s *Signer) SignatureHelp(text string, offset int) *SignatureHelp {
	call := cbs.ResolveFunctionCall(text, offset)
	if call == nil {
		return nil
	}

	fn, ok := s.registry.Lookup(call.FunctionName)
	if !ok {
		return nil
	}

	params := make([]Parameter, len(fn.Arguments))
	for idx, arg := range fn.Arguments {
		params[idx] = Parameter{Label: arg, Documentation: ParameterDoc(arg)}
	}

	return &SignatureHelp{
		Label:           fn.Signature(),
		Documentation:   Documentation(fn),
		Parameters:      params,
		ActiveParameter: max(0, min(call.ActiveParameter, len(params)-1)),
	}
}
