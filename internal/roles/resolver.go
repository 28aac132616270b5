package roles

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Resolver determines the caller's role from an inbound request.
type Resolver interface {
	Resolve(r *http.Request) (Role, error)
}

// HeaderResolver reads the role token from a request header.
type HeaderResolver struct {
	Header string
}

func (h HeaderResolver) Resolve(r *http.Request) (Role, error) {
	return Parse(r.Header.Get(h.Header))
}

// TokenResolver verifies an OIDC bearer token and reads the role from a claim.
// Requests without a bearer token resolve to Patient.
type TokenResolver struct {
	verifier *oidc.IDTokenVerifier
	claim    string
}

// NewTokenResolver wraps an existing verifier.
func NewTokenResolver(verifier *oidc.IDTokenVerifier, claim string) *TokenResolver {
	return &TokenResolver{verifier: verifier, claim: claim}
}

func (t *TokenResolver) Resolve(r *http.Request) (Role, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return Patient, nil
	}

	token, err := t.verifier.Verify(r.Context(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	var claims map[string]any
	if err := token.Claims(&claims); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return FromClaims(claims, t.claim)
}

// FromClaims extracts the role from a decoded claim set. The claim may be a
// single string or an array of strings, in which case the most privileged
// recognized role wins. A missing claim yields Patient.
func FromClaims(claims map[string]any, claim string) (Role, error) {
	switch v := claims[claim].(type) {
	case nil:
		return Patient, nil
	case string:
		return Parse(v)
	case []any:
		found := make([]Role, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if r, err := Parse(s); err == nil {
				found = append(found, r)
			}
		}
		if len(v) > 0 && len(found) == 0 {
			return "", fmt.Errorf("%w: no recognized role in claim %q", ErrInvalidRole, claim)
		}
		return Highest(found...), nil
	default:
		return "", fmt.Errorf("%w: claim %q has type %T", ErrInvalidRole, claim, v)
	}
}

// NewResolver builds the resolver selected by cfg. OIDC mode performs
// provider discovery against the issuer.
func NewResolver(ctx context.Context, cfg *Config) (Resolver, error) {
	switch cfg.Mode {
	case ModeHeader:
		return HeaderResolver{Header: cfg.Header}, nil
	case ModeOIDC:
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("oidc discovery: %w", err)
		}
		verifier := provider.Verifier(&oidc.Config{
			ClientID:          cfg.ClientID,
			SkipClientIDCheck: cfg.ClientID == "",
		})
		return NewTokenResolver(verifier, cfg.RoleClaim), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
