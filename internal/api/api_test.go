package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markdown-blog/internal/api"
	"github.com/markdown-blog/internal/config"
	"github.com/markdown-blog/internal/mocks"
	"github.com/markdown-blog/internal/repository"
	"github.com/markdown-blog/internal/service"
	"github.com/rs/zerolog"
)

const cookieName = "blog_session"

type testEnv struct {
	router      http.Handler
	userRepo    *mocks.MockUserRepository
	articleRepo *mocks.MockArticleRepository
	commentRepo *mocks.MockCommentRepository
	sessionRepo *mocks.MockSessionRepository
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := mocks.NewMockUserRepository()
	articleRepo := mocks.NewMockArticleRepository()
	commentRepo := mocks.NewMockCommentRepository()
	sessionRepo := mocks.NewMockSessionRepository()

	repos := &repository.Repositories{
		User:    userRepo,
		Article: articleRepo,
		Comment: commentRepo,
		Session: sessionRepo,
	}
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:          "5000",
			TemplatesGlob: "../../web/templates/*.html",
		},
		Session: config.SessionConfig{
			CookieName:    cookieName,
			TTL:           7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
	}

	log := zerolog.Nop()
	services := service.NewServices(repos, cfg, log)
	router := api.NewRouter(services, cfg, log)

	return &testEnv{
		router:      router,
		userRepo:    userRepo,
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		sessionRepo: sessionRepo,
	}
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the session cookie
func (e *testEnv) signup(t *testing.T, email string) *http.Cookie {
	t.Helper()
	w := e.postForm("/auth/signup", url.Values{
		"email":    {email},
		"password": {"secret"},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Signup for %s: expected redirect, got %d (%s)", email, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("Signup for %s: no session cookie set", email)
	return nil
}

// createArticle submits the new-article form and returns the slug from the
// redirect target
func (e *testEnv) createArticle(t *testing.T, cookie *http.Cookie, title, description, markdown string) string {
	t.Helper()
	w := e.postForm("/articles", url.Values{
		"title":       {title},
		"description": {description},
		"markdown":    {markdown},
	}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("Create article %q: expected redirect, got %d", title, w.Code)
	}
	loc := w.Header().Get("Location")
	return strings.TrimPrefix(loc, "/articles/")
}

func TestSignupSetsSessionAndRedirectsHome(t *testing.T) {
	env := setupTestRouter(t)

	w := env.postForm("/auth/signup", url.Values{
		"email":    {"alice@example.com"},
		"password": {"secret"},
	}, nil)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Expected redirect to /, got %q", loc)
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("Expected session cookie to be set")
	}
	if !session.HttpOnly {
		t.Error("Session cookie must be http-only")
	}
}

func TestSignupDuplicateEmailRerendersForm(t *testing.T) {
	env := setupTestRouter(t)
	env.signup(t, "bob@example.com")

	w := env.postForm("/auth/signup", url.Values{
		"email":    {"Bob@Example.com"},
		"password": {"other"},
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Email already in use") {
		t.Error("Expected duplicate-email message in re-rendered form")
	}
	if !strings.Contains(body, "Bob@Example.com") {
		t.Error("Submitted email must be preserved in the form")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupTestRouter(t)
	env.signup(t, "carol@example.com")

	unknown := env.postForm("/auth/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	}, nil)
	wrongPass := env.postForm("/auth/login", url.Values{
		"email":    {"carol@example.com"},
		"password": {"wrong"},
	}, nil)

	if unknown.Code != wrongPass.Code {
		t.Errorf("Status codes differ: %d vs %d", unknown.Code, wrongPass.Code)
	}
	if !strings.Contains(unknown.Body.String(), "Invalid credentials") ||
		!strings.Contains(wrongPass.Body.String(), "Invalid credentials") {
		t.Error("Both failures must show the same generic message")
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	env := setupTestRouter(t)

	for _, path := range []string{"/articles", "/articles/new", "/profile"} {
		w := env.get(path, nil)
		if w.Code != http.StatusFound {
			t.Errorf("GET %s: expected 302, got %d", path, w.Code)
			continue
		}
		if loc := w.Header().Get("Location"); loc != "/auth/login" {
			t.Errorf("GET %s: expected redirect to login, got %q", path, loc)
		}
	}
}

func TestArticleRoundTrip(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "dora@example.com")

	slug := env.createArticle(t, cookie, "Hello World", "A first post", "## Heading\n\nSome *text*.")
	if slug != "hello-world" {
		t.Fatalf("Expected slug 'hello-world', got %q", slug)
	}

	// public view, no session required
	w := env.get("/articles/hello-world", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "A first post") {
		t.Error("Description missing from article page")
	}
	if !strings.Contains(body, ">Heading</h2>") {
		t.Error("Markdown body should be rendered to HTML")
	}
	if !strings.Contains(body, "<em>text</em>") {
		t.Error("Inline markdown should be rendered")
	}
}

func TestShowMissingArticleRedirectsHome(t *testing.T) {
	env := setupTestRouter(t)

	w := env.get("/articles/no-such-slug", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect home, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestCreateDuplicateTitleRerendersWithValues(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "eve@example.com")
	env.createArticle(t, cookie, "Hello World", "first", "body one")

	w := env.postForm("/articles", url.Values{
		"title":       {"Hello World"},
		"description": {"second attempt"},
		"markdown":    {"body two"},
	}, cookie)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Hello World") || !strings.Contains(body, "second attempt") {
		t.Error("Entered values must be preserved when the save fails")
	}
	if len(env.articleRepo.Articles) != 1 {
		t.Errorf("Expected 1 stored article, got %d", len(env.articleRepo.Articles))
	}
}

func TestEditByNonOwnerRedirectsToArticles(t *testing.T) {
	env := setupTestRouter(t)
	owner := env.signup(t, "frank@example.com")
	other := env.signup(t, "grace@example.com")

	env.createArticle(t, owner, "Owned Post", "d", "b")
	var articleID string
	for id := range env.articleRepo.Articles {
		articleID = id
	}

	w := env.get("/articles/edit/"+articleID, other)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/articles" {
		t.Errorf("Edit by non-owner: expected redirect to /articles, got %d %q",
			w.Code, w.Header().Get("Location"))
	}

	// owner reaches the form
	w = env.get("/articles/edit/"+articleID, owner)
	if w.Code != http.StatusOK {
		t.Errorf("Edit by owner: expected 200, got %d", w.Code)
	}
}

func TestUpdateByNonOwnerLeavesArticleUnchanged(t *testing.T) {
	env := setupTestRouter(t)
	owner := env.signup(t, "henry@example.com")
	other := env.signup(t, "iris@example.com")

	env.createArticle(t, owner, "Keep Me", "original", "original body")
	var articleID string
	for id := range env.articleRepo.Articles {
		articleID = id
	}

	w := env.postForm("/articles/"+articleID, url.Values{
		"_method":     {"PUT"},
		"title":       {"Hijacked"},
		"description": {"x"},
		"markdown":    {"x"},
	}, other)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/articles" {
		t.Errorf("Expected ownership-failure redirect, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if env.articleRepo.Articles[articleID].Title != "Keep Me" {
		t.Error("Article must be unchanged after forbidden update")
	}
}

func TestUpdateByOwnerRedirectsToNewSlug(t *testing.T) {
	env := setupTestRouter(t)
	owner := env.signup(t, "jack@example.com")

	env.createArticle(t, owner, "Old Title", "d", "b")
	var articleID string
	for id := range env.articleRepo.Articles {
		articleID = id
	}

	w := env.postForm("/articles/"+articleID, url.Values{
		"_method":     {"PUT"},
		"title":       {"New Title"},
		"description": {"d2"},
		"markdown":    {"b2"},
	}, owner)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/articles/new-title" {
		t.Errorf("Expected redirect to new slug, got %q", loc)
	}
	if env.articleRepo.Articles[articleID].Body != "b2" {
		t.Error("Update not persisted")
	}
}

func TestDeleteMalformedIDRedirectsWithoutStoreQuery(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "kate@example.com")

	before := env.articleRepo.GetCalls
	w := env.postForm("/articles/not-a-uuid", url.Values{
		"_method": {"DELETE"},
	}, cookie)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect home, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if env.articleRepo.GetCalls != before {
		t.Error("Malformed identifier must not reach the article store")
	}
}

func TestDeleteByOwner(t *testing.T) {
	env := setupTestRouter(t)
	owner := env.signup(t, "liam@example.com")

	env.createArticle(t, owner, "Doomed", "d", "b")
	var articleID string
	for id := range env.articleRepo.Articles {
		articleID = id
	}

	w := env.postForm("/articles/"+articleID, url.Values{
		"_method": {"DELETE"},
	}, owner)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/articles" {
		t.Errorf("Expected redirect to /articles, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(env.articleRepo.Articles) != 0 {
		t.Error("Article should be deleted")
	}
}

func TestDeleteByNonOwnerRefused(t *testing.T) {
	env := setupTestRouter(t)
	owner := env.signup(t, "mona@example.com")
	other := env.signup(t, "nick@example.com")

	env.createArticle(t, owner, "Protected", "d", "b")
	var articleID string
	for id := range env.articleRepo.Articles {
		articleID = id
	}

	w := env.postForm("/articles/"+articleID, url.Values{
		"_method": {"DELETE"},
	}, other)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/articles" {
		t.Errorf("Expected ownership-failure redirect, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(env.articleRepo.Articles) != 1 {
		t.Error("Article must survive a forbidden delete")
	}
}

func TestCommentOnMissingSlugRedirectsHome(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "olga@example.com")

	w := env.postForm("/articles/no-such-slug/comments", url.Values{
		"content": {"hello"},
	}, cookie)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect home, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(env.commentRepo.Comments) != 0 {
		t.Errorf("No comment may be created, got %d", len(env.commentRepo.Comments))
	}
}

func TestCommentCreatedAndRedirectedToThread(t *testing.T) {
	env := setupTestRouter(t)
	author := env.signup(t, "pete@example.com")
	commenter := env.signup(t, "quinn@example.com")

	slug := env.createArticle(t, author, "Discussed", "d", "b")

	w := env.postForm("/articles/"+slug+"/comments", url.Values{
		"content": {"great post"},
	}, commenter)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/articles/"+slug+"#comments" {
		t.Errorf("Expected redirect to comment section, got %q", loc)
	}
	if len(env.commentRepo.Comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(env.commentRepo.Comments))
	}
	if env.commentRepo.Comments[0].Content != "great post" {
		t.Errorf("Unexpected comment content %q", env.commentRepo.Comments[0].Content)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "rosa@example.com")

	// sanity: session works
	if w := env.get("/articles", cookie); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with session, got %d", w.Code)
	}

	w := env.postForm("/auth/logout", url.Values{}, cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("Expected redirect home after logout, got %d %q", w.Code, w.Header().Get("Location"))
	}

	// the old cookie no longer resolves
	w = env.get("/articles", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Errorf("Expected login redirect after logout, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestArticleListNewestFirst(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "sara@example.com")

	env.createArticle(t, cookie, "Older Post", "d", "b")
	env.createArticle(t, cookie, "Newer Post", "d", "b")

	w := env.get("/articles", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	newer := strings.Index(body, "Newer Post")
	older := strings.Index(body, "Older Post")
	if newer < 0 || older < 0 {
		t.Fatal("Both articles should be listed")
	}
	if newer > older {
		t.Error("Articles must be listed newest first")
	}
}

func TestProfileListsOnlyOwnArticles(t *testing.T) {
	env := setupTestRouter(t)
	mine := env.signup(t, "tina@example.com")
	theirs := env.signup(t, "uwe@example.com")

	env.createArticle(t, mine, "My Post", "d", "b")
	env.createArticle(t, theirs, "Their Post", "d", "b")

	w := env.get("/profile", mine)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "My Post") {
		t.Error("Own article missing from profile")
	}
	if strings.Contains(body, "Their Post") {
		t.Error("Profile must not list other users' articles")
	}
}

func TestExpiredSessionTreatedAsAnonymous(t *testing.T) {
	env := setupTestRouter(t)
	cookie := env.signup(t, "vera@example.com")

	env.sessionRepo.SetExpiry(cookie.Value, time.Now().UTC().Add(-time.Minute))

	w := env.get("/articles", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Errorf("Expected login redirect for expired session, got %d %q",
			w.Code, w.Header().Get("Location"))
	}
}
