package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/markdown-blog/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	InsertError error
	GetCalls    int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, exists := m.EmailToUser[strings.ToLower(user.Email)]; exists {
		return models.ErrDuplicateEmail
	}
	m.Users[user.ID] = user
	m.EmailToUser[strings.ToLower(user.Email)] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.GetCalls++
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.GetCalls++
	return m.EmailToUser[strings.ToLower(email)], nil
}

// MockArticleRepository is a mock implementation of ArticleRepository. It
// enforces slug uniqueness and preserves insertion order so List can
// emulate the store's newest-first ordering deterministically.
type MockArticleRepository struct {
	Articles    map[string]*models.Article
	order       []string
	InsertError error
	UpdateError error
	GetCalls    int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	for _, a := range m.Articles {
		if a.Slug == article.Slug {
			return models.ErrDuplicateSlug
		}
	}
	copied := *article
	m.Articles[article.ID] = &copied
	m.order = append(m.order, article.ID)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	for id, a := range m.Articles {
		if id != article.ID && a.Slug == article.Slug {
			return models.ErrDuplicateSlug
		}
	}
	copied := *article
	copied.UpdatedAt = time.Now().UTC()
	m.Articles[article.ID] = &copied
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	delete(m.Articles, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.GetCalls++
	if a, ok := m.Articles[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.GetCalls++
	for _, a := range m.Articles {
		if a.Slug == slug {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) List(ctx context.Context) ([]*models.Article, error) {
	// newest first: reverse insertion order
	articles := make([]*models.Article, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		copied := *m.Articles[m.order[i]]
		articles = append(articles, &copied)
	}
	return articles, nil
}

func (m *MockArticleRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	all, _ := m.List(ctx)
	var articles []*models.Article
	for _, a := range all {
		if a.AuthorID == authorID {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments    []*models.Comment
	Emails      map[string]string // author id -> email, for the author join
	InsertError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Emails: make(map[string]string),
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	copied := *comment
	m.Comments = append(m.Comments, &copied)
	return nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.CommentWithAuthor, error) {
	var comments []*models.CommentWithAuthor
	for _, c := range m.Comments {
		if c.ArticleID == articleID {
			comments = append(comments, &models.CommentWithAuthor{
				Comment:     *c,
				AuthorEmail: m.Emails[c.AuthorID],
			})
		}
	}
	return comments, nil
}

// MockSessionRepository is a mock implementation of SessionRepository. It
// is safe for concurrent use so sweeper tests can poll it.
type MockSessionRepository struct {
	mu          sync.Mutex
	Sessions    map[string]*models.Session
	InsertError error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Sessions: make(map[string]*models.Session),
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.Sessions[session.Token] = &copied
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.Sessions[token]
	if !ok || session.Expired(time.Now().UTC()) {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, token)
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	var reaped int64
	for token, session := range m.Sessions {
		if session.Expired(now) {
			delete(m.Sessions, token)
			reaped++
		}
	}
	return reaped, nil
}

// Has reports whether a session with the given token exists, expired or not
func (m *MockSessionRepository) Has(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Sessions[token]
	return ok
}

// Put stores a session directly, bypassing Create's error injection
func (m *MockSessionRepository) Put(session *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.Sessions[session.Token] = &copied
}

// SetExpiry rewrites a stored session's absolute expiry
func (m *MockSessionRepository) SetExpiry(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Sessions[token]; ok {
		s.ExpiresAt = expiresAt
	}
}

// UserID returns the user a stored session is bound to, or ""
func (m *MockSessionRepository) UserID(token string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Sessions[token]; ok {
		return s.UserID
	}
	return ""
}
