package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
)

const setMultipleAddressesName = "pince-set-multiple-addresses"

// AddressWrite pairs an address-table entry with the new value to write.
type AddressWrite struct {
	Entry domain.AddressEntry
	Value string
}

// setMultipleAddresses implements "set-multiple-addresses": per-entry
// failures are logged server-side, the remaining writes still attempted,
// and there is no meaningful return value. Each entry's value is decoded
// by the Value Codec (C10) into bytes and poked one byte at a time; the
// first failed byte write abandons the rest of that entry.
type setMultipleAddresses struct {
	codec domain.CodecServiceIface
}

func NewSetMultipleAddresses(codec domain.CodecServiceIface) domain.ScriptIface {
	return &setMultipleAddresses{codec: codec}
}

func (setMultipleAddresses) Name() string { return setMultipleAddressesName }

func (s *setMultipleAddresses) Invoke(req domain.ScriptRequest) (interface{}, error) {
	writes, ok := req.Payload.([]AddressWrite)
	if !ok {
		return nil, errInvalidPayload(setMultipleAddressesName)
	}

	for _, w := range writes {
		raw, ok := s.codec.Decode(w.Value, w.Entry)
		if !ok {
			logrus.Warnf("%s: %q is not a valid %s value for %s", setMultipleAddressesName, w.Value, w.Entry.Kind, w.Entry.Address)
			continue
		}

		for i, b := range raw {
			cmd := fmt.Sprintf("set {unsigned char}(%s+%d) = %d", w.Entry.Address, i, b)
			if _, ok := sendCLI(req.Gateway, cmd); !ok {
				logrus.Warnf("%s: write to %s+%d failed", setMultipleAddressesName, w.Entry.Address, i)
				break
			}
		}
	}

	return nil, nil
}
