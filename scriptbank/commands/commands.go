package commands

import "github.com/korcankaraokcu/pince/domain"

// All returns the eleven named scripts of the Custom Script Bank, ready to
// be registered into a domain.ScriptBankServiceIface. codec backs
// set-multiple-addresses' value decoding.
func All(codec domain.CodecServiceIface) []domain.ScriptIface {
	return []domain.ScriptIface{
		NewReadSingleAddress(),
		NewReadMultipleAddresses(),
		NewSetMultipleAddresses(codec),
		NewReadRegisters(),
		NewReadFloatRegisters(),
		NewGetStackTraceInfo(),
		NewGetStackInfo(),
		NewGetFrameReturnAddresses(),
		NewGetFrameInfo(),
		NewHexDump(),
		NewParseConvenienceVariables(),
	}
}
