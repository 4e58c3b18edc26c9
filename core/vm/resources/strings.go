package resources

import (
	"context"
	"strings"

	"github.com/engylemure/askql/core/askcode"
)

// concat joins the text of its arguments. Values without a text
// form are skipped.
func concat(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	var b strings.Builder
	for _, a := range args {
		if s, ok := askcode.Text(a); ok {
			b.WriteString(s)
		}
	}
	return askcode.String(b.String()), nil
}

func caseMapper(f func(string) string) func(context.Context, []askcode.Value) (askcode.Value, error) {
	return func(_ context.Context, args []askcode.Value) (askcode.Value, error) {
		if len(args) == 0 {
			return askcode.Null{}, nil
		}
		if s, ok := args[0].(askcode.String); ok {
			return askcode.String(f(string(s))), nil
		}
		return args[0], nil
	}
}
