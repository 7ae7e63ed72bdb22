package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
	"casri/store"
	"casri/utils"
)

const minPasswordLength = 6

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Session is a successful login.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Client identifies where a login came from.
type Client struct {
	IP     string
	Device string
}

type AuthService struct {
	users    store.UserStore
	sessions store.SessionStore
	tokens   *utils.Tokens
	cal      Calendar
}

func NewAuthService(users store.UserStore, sessions store.SessionStore, tokens *utils.Tokens, cal Calendar) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, cal: cal}
}

// Login checks the password and issues a token. Unknown users and wrong
// passwords are indistinguishable to the caller. Each login is recorded.
func (s *AuthService) Login(ctx context.Context, c Credentials, from Client) (Session, error) {
	username := strings.TrimSpace(c.Username)
	if username == "" || c.Password == "" {
		return Session{}, invalid("username", "Username and password are required.")
	}

	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := utils.VerifyPassword(u.Password, c.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID.Hex(), u.Username, string(u.Role))
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}

	record := models.Session{
		UserID:    u.ID,
		Role:      u.Role,
		IP:        from.IP,
		Device:    from.Device,
		Timestamp: s.cal.now(),
	}
	if err := s.sessions.Insert(ctx, &record); err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u}, nil
}

// RecentLogins lists actor's latest logins.
func (s *AuthService) RecentLogins(ctx context.Context, actor Actor) ([]models.Session, error) {
	return s.sessions.FindByUser(ctx, actor.ID, 20)
}

// Authenticate resolves a token into the acting user. The role comes from
// the stored account, so a deleted or demoted user loses access at once.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Actor, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return Actor{}, err
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return Actor{}, fmt.Errorf("token subject: %w", err)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return Actor{}, fmt.Errorf("token subject %s: %w", claims.ID, err)
	}
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (models.User, error) {
	return s.users.FindByID(ctx, actor.ID)
}

func (s *AuthService) CreateUser(ctx context.Context, in NewUser) (models.User, error) {
	username := strings.TrimSpace(in.Username)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return models.User{}, missingFields(missing)
	}
	if len(in.Password) < minPasswordLength {
		return models.User{}, invalid("password", fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}

	role := models.RoleEmployee
	if strings.TrimSpace(in.Role) != "" {
		r, err := models.ParseRole(in.Role)
		if err != nil {
			return models.User{}, invalid("role", "Role must be admin or employee.")
		}
		role = r
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Username:  username,
		Role:      role,
		Password:  hash,
		CreatedAt: s.cal.now(),
	}
	if err := s.users.Insert(ctx, &u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.User{}, invalid("username", "Username is already taken.")
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *AuthService) List(ctx context.Context) ([]models.User, error) {
	return s.users.FindByRoles(ctx, models.StaffRoles)
}

// BootstrapAdmin creates the first admin when no user exists yet.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	u, err := s.CreateUser(ctx, NewUser{Username: username, Password: password, Role: string(models.RoleAdmin)})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	slog.Info("bootstrap admin created", "username", u.Username)
	return nil
}
