package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/jwt"
)

type SessionHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	SSEToken(w http.ResponseWriter, r *http.Request)
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type sessionHandlerImpl struct {
	jwtService jwt.Service
}

func NewSessionHandler(jwtService jwt.Service) SessionHandler {
	return &sessionHandlerImpl{jwtService: jwtService}
}

// Get returns the signed-in principal with its landing path and permissions.
func (h *sessionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	response.Success(w, user.NewSessionResponse(principal))
}

// SSEToken issues the short-lived token used to open the events stream.
func (h *sessionHandlerImpl) SSEToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(principal)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}
