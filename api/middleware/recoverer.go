package middleware

import (
	"fmt"
	"net/http"

	"github.com/trndfy/samplevault-backend/api/responses"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

// Recoverer converts handler panics into a 500 error envelope instead of
// tearing down the connection. Must sit outermost in the chain.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "panic", rec)
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
