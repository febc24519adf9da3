package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	// SSETokenLifetime bounds how long a stream token may be used to connect.
	SSETokenLifetime = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("invalid token claims")

type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	GenerateSSEToken(p user.Principal) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := principalClaims(p)
	claims["type"] = TokenTypeAccess
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken issues a short-lived token that EventSource clients pass
// as a query parameter, since they cannot set an Authorization header.
func (j *JWTService) GenerateSSEToken(p user.Principal) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(SSETokenLifetime).Unix()

	claims := principalClaims(p)
	claims["type"] = TokenTypeSSE
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(SSETokenLifetime.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its principal
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Principal, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Principal{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Principal{}, err
	}

	// Check token type
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return user.Principal{}, jwt.ErrInvalidJWT()
	}

	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims rebuilds the caller identity from verified claims.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Principal{}, ErrInvalidClaims
	}

	roleStr, _ := claims["role"].(string)
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return user.Principal{}, err
	}

	p := user.Principal{
		UserID: userID,
		Role:   role,
	}
	p.Email, _ = claims["email"].(string)
	p.CompanyID, _ = claims["company_id"].(string)
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}

	return p, nil
}

func principalClaims(p user.Principal) map[string]interface{} {
	return map[string]interface{}{
		"user_id":     p.UserID,
		"email":       p.Email,
		"employee_id": returnValueOrNil(p.EmployeeID),
		"company_id":  p.CompanyID,
		"role":        string(p.Role),
	}
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
