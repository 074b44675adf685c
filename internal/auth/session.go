package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"smashcost-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSignUp      = errors.New("a valid email and a password of at least 6 characters are required")
)

const minPasswordLength = 6

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is published to subscribers on every sign-in and sign-out.
type Event struct {
	Kind   EventKind
	UserID uint
}

type Session struct {
	Token string
	User  models.User
}

// Manager signs users up, in and out, and notifies subscribers. Each Manager
// has its own subscriber set.
type Manager struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration

	mu       sync.Mutex
	nextSub  int
	handlers map[int]func(Event)
}

func NewManager(db *gorm.DB, secret string, ttl time.Duration) *Manager {
	return &Manager{
		db:       db,
		secret:   secret,
		ttl:      ttl,
		handlers: make(map[int]func(Event)),
	}
}

// Subscribe registers h and returns the function that removes it.
func (m *Manager) Subscribe(h func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.handlers[id] = h
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.handlers, id)
			m.mu.Unlock()
		})
	}
}

func (m *Manager) publish(ev Event) {
	m.mu.Lock()
	handlers := make([]func(Event), 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// displayName derives a name from the local part of the email.
func displayName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// SignUp creates the account and signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return Session{}, ErrInvalidSignUp
	}

	var count int64
	if err := m.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return Session{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		DisplayName:  displayName(email),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := m.db.WithContext(ctx).Create(&user).Error; err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return m.open(user)
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	var user models.User
	if err := m.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return m.open(user)
}

func (m *Manager) open(user models.User) (Session, error) {
	token, err := GenerateToken(m.secret, m.ttl, &user)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	m.publish(Event{Kind: EventSignedIn, UserID: user.ID})
	return Session{Token: token, User: user}, nil
}

// SignOut notifies subscribers. Tokens are stateless and stay valid until they expire.
func (m *Manager) SignOut(userID uint) {
	m.publish(Event{Kind: EventSignedOut, UserID: userID})
}

func (m *Manager) User(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := m.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}
