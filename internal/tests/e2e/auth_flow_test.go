package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func request(t *testing.T, ts *TestServer, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %s", w.Body.String())
	}
	return body
}

func registerBody(username, name, email, password, phone string) string {
	return fmt.Sprintf(`{"username":%q,"name":%q,"email":%q,"password":%q,"phone":%q}`,
		username, name, email, password, phone)
}

func registerUser(t *testing.T, ts *TestServer) string {
	t.Helper()

	w := request(t, ts, http.MethodPost, "/api/auth/register", "",
		registerBody("johndoe", "John Doe", "john@example.com", "secret1", "1234567890"))
	if w.Code != http.StatusOK {
		t.Fatalf("registration failed: %d %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("registration returned no token")
	}
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	ts := NewTestServer(t)
	registerUser(t, ts)

	// The issued token works immediately.
	w := request(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"john@example.com","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}

	w = request(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"john@example.com","password":"wrongpass"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong password, got %d", w.Code)
	}

	w = request(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"nobody@example.com","password":"secret1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown email, got %d", w.Code)
	}
}

func TestRegisterConflicts(t *testing.T) {
	ts := NewTestServer(t)
	registerUser(t, ts)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"username", registerBody("johndoe", "Other Name", "other@example.com", "secret1", "0987654321"), "Username already exists, try another one!"},
		{"email", registerBody("otheruser", "Other Name", "john@example.com", "secret1", "0987654321"), "User with this email already exists!"},
		{"name", registerBody("otheruser", "John Doe", "other@example.com", "secret1", "0987654321"), "User with this name already exists!"},
		{"phone", registerBody("otheruser", "Other Name", "other@example.com", "secret1", "1234567890"), "User with this phone number already exists!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(t, ts, http.MethodPost, "/api/auth/register", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
			}
			if got := decode(t, w)["msg"]; got != tt.msg {
				t.Errorf("expected msg %q, got %q", tt.msg, got)
			}
		})
	}
}

func TestPasswordChangeFlow(t *testing.T) {
	ts := NewTestServer(t)
	token := registerUser(t, ts)

	w := request(t, ts, http.MethodPost, "/api/auth/request-change-password", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("OTP request failed: %d %s", w.Code, w.Body.String())
	}

	email, ok := ts.Mailer.LastEmail()
	if !ok {
		t.Fatal("expected an OTP email")
	}
	if email.To != "john@example.com" {
		t.Errorf("OTP delivered to %s", email.To)
	}
	if email.Subject != "Your OTP for Password Change" {
		t.Errorf("unexpected subject %q", email.Subject)
	}
	code := ts.LastOTPCode(t)

	// A second request while the challenge is live is refused.
	w = request(t, ts, http.MethodPost, "/api/auth/request-change-password", token, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected active challenge to block, got %d (%s)", w.Code, w.Body.String())
	}

	// Wrong old password does not consume the challenge.
	w = request(t, ts, http.MethodPut, "/api/auth/change-password", token,
		fmt.Sprintf(`{"oldPassword":"wrongpass","newPassword":"secret2","otp":%q}`, code))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong old password, got %d", w.Code)
	}

	// The challenge survives the failed attempt.
	w = request(t, ts, http.MethodPut, "/api/auth/change-password", token,
		fmt.Sprintf(`{"oldPassword":"secret1","newPassword":"secret2","otp":%q}`, code))
	if w.Code != http.StatusOK {
		t.Fatalf("password change failed: %d %s", w.Code, w.Body.String())
	}

	// The code was consumed and cannot be replayed.
	w = request(t, ts, http.MethodPut, "/api/auth/change-password", token,
		fmt.Sprintf(`{"oldPassword":"secret2","newPassword":"secret3","otp":%q}`, code))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected replay to fail, got %d (%s)", w.Code, w.Body.String())
	}

	// Old password no longer works; the new one does.
	w = request(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"john@example.com","password":"secret1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected the old password to be rejected, got %d", w.Code)
	}
	w = request(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"john@example.com","password":"secret2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected the new password to work, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestResendOverwritesChallenge(t *testing.T) {
	ts := NewTestServer(t)
	token := registerUser(t, ts)

	request(t, ts, http.MethodPost, "/api/auth/request-change-password", token, "")
	first := ts.LastOTPCode(t)

	w := request(t, ts, http.MethodPost, "/api/auth/resend-otp", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("resend failed: %d %s", w.Code, w.Body.String())
	}
	second := ts.LastOTPCode(t)

	email, _ := ts.Mailer.LastEmail()
	if email.Subject != "Your OTP for Password Change (Resend)" {
		t.Errorf("unexpected subject %q", email.Subject)
	}

	// The first code is dead once the second is issued.
	if first != second {
		w = request(t, ts, http.MethodPut, "/api/auth/change-password", token,
			fmt.Sprintf(`{"oldPassword":"secret1","newPassword":"secret2","otp":%q}`, first))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected the superseded code to fail, got %d", w.Code)
		}
	}

	w = request(t, ts, http.MethodPut, "/api/auth/change-password", token,
		fmt.Sprintf(`{"oldPassword":"secret1","newPassword":"secret2","otp":%q}`, second))
	if w.Code != http.StatusOK {
		t.Fatalf("password change with the fresh code failed: %d %s", w.Code, w.Body.String())
	}
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	ts := NewTestServer(t)
	registerUser(t, ts)

	w := request(t, ts, http.MethodPost, "/api/auth/forget-pass-word", "",
		`{"email":"john@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("forgot password failed: %d %s", w.Code, w.Body.String())
	}

	email, _ := ts.Mailer.LastEmail()
	if email.Subject != "Your OTP for Password Reset" {
		t.Errorf("unexpected subject %q", email.Subject)
	}
	code := ts.LastOTPCode(t)

	w = request(t, ts, http.MethodPut, "/api/auth/reset-password", "",
		`{"email":"john@example.com","newPassword":"secret9","otp":"000000"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected a wrong code to fail, got %d", w.Code)
	}

	w = request(t, ts, http.MethodPut, "/api/auth/reset-password", "",
		fmt.Sprintf(`{"email":"john@example.com","newPassword":"secret9","otp":%q}`, code))
	if w.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", w.Code, w.Body.String())
	}

	w = request(t, ts, http.MethodPost, "/api/auth/login", "",
		`{"email":"john@example.com","password":"secret9"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login with the reset password failed: %d %s", w.Code, w.Body.String())
	}

	// Unknown email cannot start a reset.
	w = request(t, ts, http.MethodPost, "/api/auth/forget-pass-word", "",
		`{"email":"nobody@example.com"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown email, got %d", w.Code)
	}
}

func TestOTPRequestRateLimit(t *testing.T) {
	ts := NewTestServer(t)
	token := registerUser(t, ts)

	// Window allows two requests; the challenge guard would also fire, so use
	// resend which skips it.
	for i := 1; i <= 2; i++ {
		w := request(t, ts, http.MethodPost, "/api/auth/resend-otp", token, "")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d (%s)", i, w.Code, w.Body.String())
		}
	}

	w := request(t, ts, http.MethodPost, "/api/auth/resend-otp", token, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on the third request, got %d", w.Code)
	}
	if msg := decode(t, w)["msg"]; msg != "Too many OTP requests from this IP, please try again after 5 minutes" {
		t.Errorf("unexpected msg %q", msg)
	}

	// The counter expires with the window.
	ts.Redis.FastForward(5*time.Minute + time.Second)
	w = request(t, ts, http.MethodPost, "/api/auth/resend-otp", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected the limit to reset after the window, got %d (%s)", w.Code, w.Body.String())
	}

	// The two OTP routes count independently.
	w = request(t, ts, http.MethodPost, "/api/auth/request-change-password", token, "")
	if w.Code == http.StatusTooManyRequests {
		t.Fatal("request-change-password must not share the resend counter")
	}
}

func TestProfileUpdateAndDelete(t *testing.T) {
	ts := NewTestServer(t)
	token := registerUser(t, ts)

	// Second user to collide with.
	w := request(t, ts, http.MethodPost, "/api/auth/register", "",
		registerBody("otheruser", "Other User", "other@example.com", "secret1", "0987654321"))
	if w.Code != http.StatusOK {
		t.Fatalf("second registration failed: %d %s", w.Code, w.Body.String())
	}

	w = request(t, ts, http.MethodPut, "/api/auth/update-details", token,
		`{"phone":"5556667778"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}

	w = request(t, ts, http.MethodGet, "/api/auth/get-user-details", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get details failed: %d %s", w.Code, w.Body.String())
	}
	details := decode(t, w)
	if details["phone"] != "5556667778" {
		t.Errorf("expected updated phone, got %v", details["phone"])
	}
	if details["username"] != "johndoe" {
		t.Errorf("unsupplied field changed: %v", details["username"])
	}
	if strings.Contains(w.Body.String(), "$2a$") {
		t.Error("details response leaks the password hash")
	}

	// Taking another user's email is refused and nothing is applied.
	w = request(t, ts, http.MethodPut, "/api/auth/update-details", token,
		`{"email":"other@example.com","name":"Renamed"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a conflicting email, got %d", w.Code)
	}
	w = request(t, ts, http.MethodGet, "/api/auth/get-user-details", token, "")
	if decode(t, w)["name"] != "John Doe" {
		t.Error("a rejected update must not apply any field")
	}

	// Delete, then the token still parses but the account is gone.
	w = request(t, ts, http.MethodDelete, "/api/auth/delete-user", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", w.Code, w.Body.String())
	}
	w = request(t, ts, http.MethodGet, "/api/auth/get-user-details", token, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after deletion, got %d", w.Code)
	}

	// The freed identity can register again.
	w = request(t, ts, http.MethodPost, "/api/auth/register", "",
		registerBody("johndoe", "John Doe", "john@example.com", "secret1", "1234567890"))
	if w.Code != http.StatusOK {
		t.Fatalf("re-registration failed: %d %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := NewTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/request-change-password"},
		{http.MethodPut, "/api/auth/change-password"},
		{http.MethodPost, "/api/auth/resend-otp"},
		{http.MethodDelete, "/api/auth/delete-user"},
		{http.MethodPut, "/api/auth/update-details"},
		{http.MethodGet, "/api/auth/get-user-details"},
	}

	for _, p := range paths {
		w := request(t, ts, p.method, p.path, "", "{}")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}

	w := request(t, ts, http.MethodGet, "/api/auth/get-user-details", "garbage-token", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a garbage token, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := NewTestServer(t)

	w := request(t, ts, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
