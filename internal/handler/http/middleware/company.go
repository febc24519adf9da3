package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/response"
)

type companyKey struct{}

// RequireCompany resolves the company a request acts on. Company users are
// bound to their own company. A super admin picks one with ?company_id=.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		companyID := principal.CompanyID
		if requested := r.URL.Query().Get("company_id"); requested != "" {
			if !principal.CanAccessCompany(requested) {
				response.HandleError(w, user.ErrCompanyAccessDenied)
				return
			}
			companyID = requested
		}

		if companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		ctx := context.WithValue(r.Context(), companyKey{}, companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CompanyIDFromContext returns the company resolved by RequireCompany.
func CompanyIDFromContext(ctx context.Context) string {
	companyID, _ := ctx.Value(companyKey{}).(string)
	return companyID
}
