package core

import (
	"context"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/parser"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/errors"
	"github.com/engylemure/askql/net/http/httperror"
	"github.com/engylemure/askql/net/http/httpjson"
)

var (
	errNotFound         = errors.New("not found")
	errMethodNotAllowed = errors.New("method not allowed")
	errRateLimited      = errors.New("request limit exceeded")
	errMissingCode      = errors.New("missing program source")
)

func isTemporary(info httperror.Info, err error) bool {
	switch info.Code {
	case "AQ000": // internal server error
		return true
	case "AQ001": // request timed out
		return true
	case "AQ007": // rate limited
		return true
	default:
		return false
	}
}

// Map error values to AskQL error codes. Missing entries
// will map to the internal error.
var errorFormatter = httperror.Formatter{
	Default:     httperror.Info{HTTPStatus: 500, Code: "AQ000", Message: "AskQL API Error"},
	IsTemporary: isTemporary,
	Errors: map[error]httperror.Info{
		// General error namespace (0xx)
		context.DeadlineExceeded: {HTTPStatus: 408, Code: "AQ001", Message: "Request timed out"},
		context.Canceled:         {HTTPStatus: 408, Code: "AQ001", Message: "Request timed out"},
		httpjson.ErrBadRequest:   {HTTPStatus: 400, Code: "AQ003", Message: "Invalid request body"},
		errNotFound:              {HTTPStatus: 404, Code: "AQ006", Message: "Not found"},
		errRateLimited:           {HTTPStatus: 429, Code: "AQ007", Message: "Request limit exceeded"},
		errMethodNotAllowed:      {HTTPStatus: 405, Code: "AQ008", Message: "Method not allowed"},
		errMissingCode:           {HTTPStatus: 400, Code: "AQ009", Message: "Program source is missing"},
		ErrBadValues:             {HTTPStatus: 400, Code: "AQ010", Message: "Values must be a JSON object"},

		// Parse error namespace (1xx)
		parser.ErrEmptyProgram:   {HTTPStatus: 400, Code: "AQ100", Message: "Program is empty"},
		parser.ErrExpecting:      {HTTPStatus: 400, Code: "AQ101", Message: "Unexpected character in program"},
		parser.ErrUnknown:        {HTTPStatus: 400, Code: "AQ102", Message: "Unrecognized syntax in program"},
		parser.ErrExceedMaxSteps: {HTTPStatus: 400, Code: "AQ103", Message: "Program is too complex to parse"},
		parser.ErrExceedMaxDepth: {HTTPStatus: 400, Code: "AQ104", Message: "Program nests too deeply to parse"},

		// Evaluation error namespace (2xx)
		vm.ErrUnknownIdentifier: {HTTPStatus: 400, Code: "AQ200", Message: "Unknown identifier"},
		vm.ErrMalformedField:    {HTTPStatus: 400, Code: "AQ201", Message: "Malformed projection field"},
		vm.ErrMaxDepth:          {HTTPStatus: 400, Code: "AQ202", Message: "Program nests too deeply"},
		vm.ErrTypeMismatch:      {HTTPStatus: 400, Code: "AQ203", Message: "Argument has the wrong type"},
		vm.ErrArity:             {HTTPStatus: 400, Code: "AQ204", Message: "Wrong number of arguments"},
		askcode.ErrBadNumber:    {HTTPStatus: 400, Code: "AQ205", Message: "Malformed number literal"},
		askcode.ErrUnsupported:  {HTTPStatus: 400, Code: "AQ206", Message: "Unsupported value"},
	},
}
