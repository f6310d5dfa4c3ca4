package commands

import "github.com/korcankaraokcu/pince/domain"

const (
	readSingleAddressName     = "pince-read-single-address"
	readMultipleAddressesName = "pince-read-multiple-addresses"
)

// readSingleAddress implements the "read-single-address" script: Invoke's
// req.Payload must be a domain.AddressEntry; scalar and byte-array kinds
// come back as space-separated "0x??" byte tokens, strings as decoded
// text. An unreadable address yields "??".
type readSingleAddress struct{}

func NewReadSingleAddress() domain.ScriptIface { return &readSingleAddress{} }

func (readSingleAddress) Name() string { return readSingleAddressName }

func (readSingleAddress) Invoke(req domain.ScriptRequest) (interface{}, error) {
	entry, ok := req.Payload.(domain.AddressEntry)
	if !ok {
		return nil, errInvalidPayload(readSingleAddressName)
	}

	out, err := readEntry(req.Gateway, entry)
	if err != nil {
		return "??", nil
	}
	return out, nil
}

// readMultipleAddresses implements "read-multiple-addresses": the result
// list length always equals the request length; a failed read is the empty
// string, never omitted.
type readMultipleAddresses struct{}

func NewReadMultipleAddresses() domain.ScriptIface { return &readMultipleAddresses{} }

func (readMultipleAddresses) Name() string { return readMultipleAddressesName }

func (readMultipleAddresses) Invoke(req domain.ScriptRequest) (interface{}, error) {
	entries, ok := req.Payload.([]domain.AddressEntry)
	if !ok {
		return nil, errInvalidPayload(readMultipleAddressesName)
	}

	out := make([]string, len(entries))
	for i, entry := range entries {
		v, err := readEntry(req.Gateway, entry)
		if err != nil {
			out[i] = ""
			continue
		}
		out[i] = v
	}

	return out, nil
}
