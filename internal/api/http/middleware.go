package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const shopperIDKey contextKey = "shopper_id"

// shopperIdentity assigns each shopper an anonymous uuid cookie. The
// cookie is the wizard's session key; there is no authentication.
func (s *Server) shopperIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shopperID := uuid.Nil
		if c, err := r.Cookie(s.cookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				shopperID = id
			}
		}
		if shopperID == uuid.Nil {
			shopperID = uuid.New()
			http.SetCookie(w, &http.Cookie{
				Name:     s.cookieName,
				Value:    shopperID.String(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), shopperIDKey, shopperID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func shopperFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(shopperIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// clientIP returns the remote address as resolved by the RealIP
// middleware; stamped into signature data server-side.
func clientIP(r *http.Request) string {
	return r.RemoteAddr
}
