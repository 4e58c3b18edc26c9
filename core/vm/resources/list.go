package resources

import (
	"context"

	"github.com/engylemure/askql/core/askcode"
)

// list evaluates to its arguments. The [a, b] literal is a call
// to list.
func list(_ context.Context, args []askcode.Value) (askcode.Value, error) {
	return append(askcode.List{}, args...), nil
}
