package commands

import (
	"strings"

	"github.com/korcankaraokcu/pince/domain"
)

const parseConvenienceVariablesName = "pince-parse-convenience-variables"

// parseConvenienceVariables implements "parse-convenience-variables": a
// missing variable renders as the literal string "void", matching gdb's
// own convention for an undefined convenience variable.
type parseConvenienceVariables struct{}

func NewParseConvenienceVariables() domain.ScriptIface { return &parseConvenienceVariables{} }

func (parseConvenienceVariables) Name() string { return parseConvenienceVariablesName }

func (parseConvenienceVariables) Invoke(req domain.ScriptRequest) (interface{}, error) {
	names, ok := req.Payload.([]string)
	if !ok {
		return nil, errInvalidPayload(parseConvenienceVariablesName)
	}

	out := make([]string, len(names))
	for i, name := range names {
		name = strings.TrimPrefix(name, "$")
		text, ok := sendCLI(req.Gateway, "print $"+name)
		if !ok {
			out[i] = "void"
			continue
		}

		value := firstAssignValue(text)
		if value == "void" || value == "" {
			out[i] = "void"
			continue
		}
		out[i] = value
	}

	return out, nil
}
