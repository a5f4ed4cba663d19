// Package store provides typed accessors over the MongoDB collections. Each
// store owns its own uniqueness mapping: duplicate-key failures surface as
// conflict errors, never as raw driver errors.
package store

import (
	"context"
	"time"
)

const opTimeout = 10 * time.Second

// opCtx bounds a single collection operation the way every handler in this
// codebase does.
func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
