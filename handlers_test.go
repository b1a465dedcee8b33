package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// fakeMailer records outbound email and can fail sends to chosen addresses.
type fakeMailer struct {
	sent   []Email
	failTo map[string]bool
}

func (m *fakeMailer) Send(ctx context.Context, msg Email) error {
	if m.failTo[msg.To] {
		return errors.New("delivery refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestApp(t *testing.T, mailer Mailer) *App {
	t.Helper()

	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "posts.jsonl"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	app := New(SiteConfig{
		AdminPassword:    "secret",
		SessionSecret:    "test-session-secret",
		SiteDatabasePath: filepath.Join(dir, "site.db"),
		OwnerEmail:       "owner@example.com",
	}, store, WithMailer(mailer), WithStaticDir(dir))
	if err := app.init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func doJSON(app *App, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func adminLogin(t *testing.T, app *App) []*http.Cookie {
	t.Helper()
	rec := doJSON(app, http.MethodPost, "/api/admin/login", `{"password":"secret"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login should set a session cookie")
	}
	return cookies
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	rec := doJSON(app, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec)["status"] != "healthy" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	rec := doJSON(app, http.MethodPost, "/api/admin/login", `{"password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminLoginLockout(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	for i := 0; i < 5; i++ {
		rec := doJSON(app, http.MethodPost, "/api/admin/login", `{"password":"wrong"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, rec.Code)
		}
	}
	rec := doJSON(app, http.MethodPost, "/api/admin/login", `{"password":"secret"}`, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status after lockout = %d, want 429", rec.Code)
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	rec := doJSON(app, http.MethodPost, "/api/blog-posts", `{"title":"Nope"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateAndListPosts(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})
	cookies := adminLogin(t, app)

	rec := doJSON(app, http.MethodPost, "/api/blog-posts",
		`{"title":"Hello World","tags":["go"],"content":[{"type":"paragraph","text":"some words here"}]}`,
		cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	post, ok := body["post"].(map[string]any)
	if !ok {
		t.Fatalf("response missing post object: %s", rec.Body.String())
	}
	if post["slug"] != "hello-world" {
		t.Errorf("slug = %v, want hello-world", post["slug"])
	}
	if post["readTime"] != "1 min" {
		t.Errorf("readTime = %v, want 1 min", post["readTime"])
	}

	rec = doJSON(app, http.MethodGet, "/api/blog-posts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var posts []BlogPost
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "hello-world" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestCreatePostSuffixesDuplicateTitle(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})
	cookies := adminLogin(t, app)

	for _, want := range []string{"hello-world", "hello-world-1"} {
		rec := doJSON(app, http.MethodPost, "/api/blog-posts", `{"title":"Hello World"}`, cookies)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
		post := decodeBody(t, rec)["post"].(map[string]any)
		if post["slug"] != want {
			t.Errorf("slug = %v, want %v", post["slug"], want)
		}
	}
}

func TestDeletePostUnsupportedBackend(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})
	cookies := adminLogin(t, app)

	rec := doJSON(app, http.MethodDelete, "/api/blog-posts?slug=anything", "", cookies)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", rec.Code)
	}
}

func TestDeletePostMissingSlug(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})
	cookies := adminLogin(t, app)

	rec := doJSON(app, http.MethodDelete, "/api/blog-posts", "", cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestContactValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing fields",
			body: `{"email":"a@example.com"}`,
			want: "Required fields are missing",
		},
		{
			name: "bad email",
			body: `{"name":"A","email":"not-an-email","service":"Web","message":"This message is long enough."}`,
			want: "Invalid email address",
		},
		{
			name: "short message",
			body: `{"name":"A","email":"a@example.com","service":"Web","message":"too short"}`,
			want: "too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &fakeMailer{})
			rec := doJSON(app, http.MethodPost, "/api/contact", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
			}
			if msg, _ := decodeBody(t, rec)["message"].(string); !strings.Contains(msg, tt.want) {
				t.Errorf("message = %q, want substring %q", msg, tt.want)
			}
		})
	}
}

func TestContactSendsBothEmails(t *testing.T) {
	mailer := &fakeMailer{}
	app := newTestApp(t, mailer)

	rec := doJSON(app, http.MethodPost, "/api/contact",
		`{"name":"Jane","email":"jane@example.com","service":"Web Development","message":"I would like to discuss a project."}`,
		nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(mailer.sent))
	}
	if mailer.sent[0].To != "owner@example.com" {
		t.Errorf("first email To = %q, want the owner", mailer.sent[0].To)
	}
	if mailer.sent[0].ReplyTo != "jane@example.com" {
		t.Errorf("owner email ReplyTo = %q, want the sender", mailer.sent[0].ReplyTo)
	}
	if mailer.sent[1].To != "jane@example.com" {
		t.Errorf("second email To = %q, want the sender", mailer.sent[1].To)
	}
}

func TestContactConfirmationFailureDegrades(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{"jane@example.com": true}}
	app := newTestApp(t, mailer)

	rec := doJSON(app, http.MethodPost, "/api/contact",
		`{"name":"Jane","email":"jane@example.com","service":"Web Development","message":"I would like to discuss a project."}`,
		nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", rec.Code, rec.Body.String())
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "owner@example.com" {
		t.Errorf("owner notification should still be delivered, sent = %+v", mailer.sent)
	}
}

func TestNewsletterSubscribe(t *testing.T) {
	mailer := &fakeMailer{}
	app := newTestApp(t, mailer)

	rec := doJSON(app, http.MethodPost, "/api/newsletter", `{"email":"reader@example.com"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "reader@example.com" {
		t.Errorf("welcome email not sent, sent = %+v", mailer.sent)
	}

	subs, err := app.Site.ListSubscribers()
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}
	if len(subs) != 1 || subs[0].Email != "reader@example.com" {
		t.Errorf("subscribers = %+v", subs)
	}
}

func TestNewsletterInvalidEmail(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	rec := doJSON(app, http.MethodPost, "/api/newsletter", `{"email":"nope"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNewsletterDuplicate(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})

	rec := doJSON(app, http.MethodPost, "/api/newsletter", `{"email":"reader@example.com"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first subscribe status = %d", rec.Code)
	}
	rec = doJSON(app, http.MethodPost, "/api/newsletter", `{"email":"reader@example.com"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate subscribe status = %d, want 409", rec.Code)
	}
}

func TestNewsletterWelcomeFailureDegrades(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{"reader@example.com": true}}
	app := newTestApp(t, mailer)

	rec := doJSON(app, http.MethodPost, "/api/newsletter", `{"email":"reader@example.com"}`, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", rec.Code, rec.Body.String())
	}

	// The subscription itself must survive the failed welcome email.
	subs, err := app.Site.ListSubscribers()
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("subscribers = %+v, want the signup recorded", subs)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	app := newTestApp(t, &fakeMailer{})
	cookies := adminLogin(t, app)

	rec := doJSON(app, http.MethodPost, "/api/blog-posts", `{"title":"Feed Entry"}`, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doJSON(app, http.MethodGet, "/feed.xml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/blog/feed-entry") {
		t.Errorf("feed should link the post, got: %s", rec.Body.String())
	}

	rec = doJSON(app, http.MethodGet, "/sitemap.xml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sitemap status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/blog/feed-entry") {
		t.Errorf("sitemap should list the post, got: %s", rec.Body.String())
	}
}
