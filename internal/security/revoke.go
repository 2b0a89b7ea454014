package security

import (
	"net/http"

	"github.com/DishDash-Admin/DishDash-Admin/internal/upstream"
)

// Revoker asks the backend to invalidate a token. Calls are fire-and-forget.
type Revoker struct {
	client *upstream.Client
	path   string
}

// NewRevoker creates a revoker posting to path.
func NewRevoker(client *upstream.Client, path string) *Revoker {
	return &Revoker{client: client, path: path}
}

// Revoke sends the revocation for token. The token is captured now, so the
// session may be cleared right after.
func (r *Revoker) Revoke(token string) {
	if r == nil || token == "" || r.path == "" {
		return
	}

	r.client.Bind(upstream.BindOptions{
		Tokens: upstream.TokenFunc(func() (string, error) { return token, nil }),
	}).Fire(http.MethodPost, r.path, nil)
}
