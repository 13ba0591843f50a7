package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeIdentifier struct {
	user *domain.User
}

func (f fakeIdentifier) Identify(*http.Request) (*domain.User, error) {
	if f.user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return f.user, nil
}

func TestRequireUser(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice"}

	t.Run("redirects anonymous", func(t *testing.T) {
		handler := RequireUser(fakeIdentifier{})(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		})
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/create", nil))

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("passes user through context", func(t *testing.T) {
		var got *domain.User
		handler := RequireUser(fakeIdentifier{user: alice})(func(w http.ResponseWriter, r *http.Request) {
			got, _ = UserFrom(r.Context())
		})
		handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/create", nil))

		require.Equal(t, alice, got)
	})
}

func TestRequireAPIUser(t *testing.T) {
	handler := RequireAPIUser(fakeIdentifier{})(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"unauthenticated"}`, w.Body.String())
}
