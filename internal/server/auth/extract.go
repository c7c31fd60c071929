package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// ExtractClaims reads the Authorization header of r and, when it carries an
// exact "Bearer <token>" value (case-sensitive scheme), verifies the token
// and returns its claims. A missing or malformed header fails without the
// token ever being parsed. The function only looks at the request header;
// it performs no I/O.
func ExtractClaims(r *http.Request, secretKey []byte) (*Claims, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return nil, common.ErrorUnauthorized
	}

	if !strings.HasPrefix(header, common.BearerScheme) {
		return nil, common.ErrorUnauthorized
	}

	return ParseToken(strings.TrimPrefix(header, common.BearerScheme), secretKey)
}
