package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalaid-backend/database"
	"legalaid-backend/logger"
	"legalaid-backend/models"
	"legalaid-backend/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("email or username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrInactiveUser       = errors.New("inactive user")
)

// TokenType is the scheme clients put in front of the access token
const TokenType = "bearer"

// AuthService registers users and issues HS256 access tokens
type AuthService struct {
	users      *repository.UserRepository
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
	log        *logger.Logger
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

func AuthWithBcryptCost(cost int) AuthServiceOption {
	return func(s *AuthService) {
		s.bcryptCost = cost
	}
}

func AuthWithClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

func AuthWithLogger(log *logger.Logger) AuthServiceOption {
	return func(s *AuthService) {
		s.log = log
	}
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration, opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		users:      users,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("service", "AuthService")
	return s
}

// SignupRequest represents a request to register a user
type SignupRequest struct {
	Email    string
	Username string
	FullName string
	Password string
	Phone    *string
	Location *string
}

// TokenResult is returned by signup and login
type TokenResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Signup creates the user and returns an access token for it
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*TokenResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hash),
		FullName:       strings.TrimSpace(req.FullName),
		Phone:          req.Phone,
		Location:       req.Location,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Info("User registered", "user_id", user.ID)

	return s.tokenFor(user)
}

// Login verifies the password and returns a fresh access token
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return s.tokenFor(user)
}

// Authenticate resolves an access token to an active user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// IssueToken signs an access token whose subject is the user id
func (s *AuthService) IssueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates signature and expiry and returns the subject
func (s *AuthService) ParseToken(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (s *AuthService) tokenFor(user *models.User) (*TokenResult, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResult{AccessToken: token, TokenType: TokenType, User: user}, nil
}
