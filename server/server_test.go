package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lynkr/lynkr-server/cache"
	"github.com/lynkr/lynkr-server/internal/config"
	fakelinkrepo "github.com/lynkr/lynkr-server/links/repofake"
	fakemailer "github.com/lynkr/lynkr-server/mailer/mailfake"
	"github.com/lynkr/lynkr-server/server"
	fakeuserrepo "github.com/lynkr/lynkr-server/users/repofake"
)

type fixture struct {
	users  *fakeuserrepo.FakeUserRepo
	links  *fakelinkrepo.FakeLinkRepo
	store  *cache.InMemoryStore
	mail   *fakemailer.FakeMailer
	ts     *httptest.Server
	client *http.Client
}

func setupTestFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users: fakeuserrepo.NewFakeUserRepo(),
		links: fakelinkrepo.NewFakeLinkRepo(),
		store: cache.NewInMemoryStore(),
		mail:  fakemailer.New(),
	}

	srv, err := server.New(config.New(), server.Dependencies{
		Users: f.users,
		Links: f.links,
		Store: f.store,
		Mail:  f.mail,
	})
	require.NoError(t, err)

	f.ts = httptest.NewServer(srv)
	t.Cleanup(f.ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	f.client = &http.Client{
		Jar: jar,
		// Redirects point at external targets and the frontend; the tests
		// inspect the Location header instead of following it.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f
}

func (f *fixture) doJSON(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, f.ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

var verifyTokenPattern = regexp.MustCompile(`token=([a-zA-Z0-9]+)`)

func (f *fixture) register(t *testing.T, name, email, password string) {
	t.Helper()
	resp, body := f.doJSON(t, http.MethodPost, "/api/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, email, body["email"])
}

func (f *fixture) login(t *testing.T, email, password string) {
	t.Helper()
	resp, _ := f.doJSON(t, http.MethodPost, "/api/login", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterVerifyLoginLifecycle(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")

	// Verification email went out with a redeemable token
	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "ada@example.com", sent[0].To)
	match := verifyTokenPattern.FindStringSubmatch(sent[0].TextBody)
	require.Len(t, match, 2)
	token := match[1]

	resp, _ := f.doJSON(t, http.MethodGet, "/api/verify?token="+token, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "verify=success")

	// The token is single use
	resp, _ = f.doJSON(t, http.MethodGet, "/api/verify?token="+token, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "verify=invalid")

	f.login(t, "ada@example.com", "correct-horse")

	resp, body := f.doJSON(t, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ada@example.com", body["email"])
	require.Equal(t, true, body["isVerified"])

	resp, _ = f.doJSON(t, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.doJSON(t, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := setupTestFixture(t)

	tests := map[string]map[string]string{
		"short name":     {"name": "A", "email": "a@example.com", "password": "longenough"},
		"bad email":      {"name": "Ada", "email": "not-an-email", "password": "longenough"},
		"short password": {"name": "Ada", "email": "a@example.com", "password": "short"},
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			resp, _ := f.doJSON(t, http.MethodPost, "/api/register", payload)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")

	resp, _ := f.doJSON(t, http.MethodPost, "/api/register", map[string]string{
		"name": "Other Ada", "email": "ada@example.com", "password": "also-long-enough",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")

	resp, _ := f.doJSON(t, http.MethodPost, "/api/login", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.doJSON(t, http.MethodPost, "/api/login", map[string]string{
		"email": "nobody@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckEmailAvailability(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")

	resp, body := f.doJSON(t, http.MethodPost, "/api/check-email", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["available"])

	resp, body = f.doJSON(t, http.MethodPost, "/api/check-email", map[string]string{"email": "free@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["available"])
}

func TestResendVerification(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")
	f.login(t, "ada@example.com", "correct-horse")

	// Registration already issued a token for this user, but resend mints
	// a fresh token under a fresh key, so it succeeds with a new email.
	resp, _ := f.doJSON(t, http.MethodPost, "/api/resend-verification", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, f.mail.Sent(), 2)
}

func TestShortenAndRedirect(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")
	f.login(t, "ada@example.com", "correct-horse")

	resp, body := f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "example.com/docs", "slug": "docs",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "docs", body["slug"])
	require.Equal(t, "https://example.com/docs", body["targetUrl"])

	resp, _ = f.doJSON(t, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "https://example.com/docs", resp.Header.Get("Location"))

	// Taken slug conflicts
	resp, _ = f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "example.com/other", "slug": "docs",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unknown slug is a JSON 404
	resp, _ = f.doJSON(t, http.MethodGet, "/no-such-slug", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShortenAnonymousGeneratesSlug(t *testing.T) {
	f := setupTestFixture(t)

	resp, body := f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "https://example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	slug, ok := body["slug"].(string)
	require.True(t, ok)
	require.Len(t, slug, 7)
	require.Equal(t, "https://example.com", body["targetUrl"])
}

func TestShortenRejectsInvalidInput(t *testing.T) {
	f := setupTestFixture(t)

	resp, _ := f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{"url": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "example.com", "slug": "bad slug!",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPasswordProtectedLink(t *testing.T) {
	f := setupTestFixture(t)

	resp, _ := f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "https://example.com/secret", "slug": "vault", "password": "open-sesame",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Bare redirect sends the visitor to the password page, not the target
	resp, _ = f.doJSON(t, http.MethodGet, "/vault", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "/protected/vault")

	resp, _ = f.doJSON(t, http.MethodPost, "/api/redirect/vault", map[string]string{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := f.doJSON(t, http.MethodPost, "/api/redirect/vault", map[string]string{"password": "open-sesame"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "https://example.com/secret", body["targetUrl"])
}

func TestUpdateSlug(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")
	f.login(t, "ada@example.com", "correct-horse")

	resp, _ := f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "example.com/docs", "slug": "docs",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.doJSON(t, http.MethodGet, "/api/slugs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), body["count"])
	linkList, ok := body["links"].([]any)
	require.True(t, ok)
	linkID := linkList[0].(map[string]any)["id"].(string)

	resp, body = f.doJSON(t, http.MethodPatch, "/api/update-slug", map[string]string{
		"id": linkID, "newSlug": "handbook",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "handbook", body["slug"])

	resp, _ = f.doJSON(t, http.MethodGet, "/handbook", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "https://example.com/docs", resp.Header.Get("Location"))

	// Unknown link id
	resp, _ = f.doJSON(t, http.MethodPatch, "/api/update-slug", map[string]string{
		"id": "missing", "newSlug": "elsewhere",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateSlugRequiresOwnership(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ada Lovelace", "ada@example.com", "correct-horse")
	f.login(t, "ada@example.com", "correct-horse")

	resp, _ := f.doJSON(t, http.MethodPost, "/api/shorten", map[string]string{
		"url": "example.com/docs", "slug": "docs",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.doJSON(t, http.MethodGet, "/api/slugs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	linkID := body["links"].([]any)[0].(map[string]any)["id"].(string)

	// Second user cannot rename the first user's link
	f.register(t, "Grace Hopper", "grace@example.com", "another-horse")
	f.login(t, "grace@example.com", "another-horse")

	resp, _ = f.doJSON(t, http.MethodPatch, "/api/update-slug", map[string]string{
		"id": linkID, "newSlug": "stolen",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	f := setupTestFixture(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/slugs"},
		{http.MethodPost, "/api/resend-verification"},
		{http.MethodPatch, "/api/update-slug"},
	}
	for _, route := range protected {
		t.Run(fmt.Sprintf("%s %s", route.method, route.path), func(t *testing.T) {
			resp, _ := f.doJSON(t, route.method, route.path, nil)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}
