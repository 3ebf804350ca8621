package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userauth/rbac-api/internal/core/domain"
)

const defaultTokenTTL = 15 * time.Minute

// registeredClaims cannot be set through the claims map passed to Issue.
var registeredClaims = map[string]struct{}{
	"sub": {}, "iss": {}, "aud": {}, "exp": {}, "nbf": {}, "iat": {}, "jti": {},
}

// JWTService issues and verifies HS256 tokens. It implements both
// ports.TokenIssuer and ports.TokenVerifier.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a JWT service. A non-positive ttl falls back to 15 minutes.
func NewJWTService(secret, issuer string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for subject carrying claims plus iat/nbf/exp/jti/iss.
func (s *JWTService) Issue(subject string, claims map[string]any) (string, error) {
	now := s.now()

	mc := jwt.MapClaims{}
	for k, v := range claims {
		if _, reserved := registeredClaims[k]; reserved {
			continue
		}
		mc[k] = v
	}
	mc["sub"] = subject
	mc["iat"] = jwt.NewNumericDate(now)
	mc["nbf"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(now.Add(s.ttl))
	mc["jti"] = uuid.NewString()
	if s.issuer != "" {
		mc["iss"] = s.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token, checks its signature and expiry and returns its claims.
func (s *JWTService) Verify(token string) (*domain.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, mc, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		Subject: sub,
		Extra:   make(map[string]any),
	}
	if jti, ok := mc["jti"].(string); ok {
		out.ID = jti
	}
	if iat, _ := mc.GetIssuedAt(); iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, _ := mc.GetExpirationTime(); exp != nil {
		out.ExpiresAt = exp.Time
	}
	for k, v := range mc {
		if _, reserved := registeredClaims[k]; !reserved {
			out.Extra[k] = v
		}
	}
	out.Role, _ = mc["role"].(string)

	return out, nil
}
