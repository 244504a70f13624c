// Package registry manages accounts and families: signup, login, token
// authentication, family membership reads and balance aggregation.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dukerupert/cointrack/internal/auth"
	"github.com/dukerupert/cointrack/internal/database"
	"github.com/dukerupert/cointrack/internal/events"
	"github.com/dukerupert/cointrack/internal/metrics"
	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
	"github.com/dukerupert/cointrack/internal/store"
)

type Registry struct {
	db        *sql.DB
	users     *store.UserStore
	families  *store.FamilyStore
	hasher    *auth.PasswordHasher
	tokens    *auth.JWTManager
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	newCode   func() (string, error)
}

// New builds a Registry. publisher and m may be nil.
func New(db *sql.DB, hasher *auth.PasswordHasher, tokens *auth.JWTManager, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Registry {
	return &Registry{
		db:        db,
		users:     store.NewUserStore(db),
		families:  store.NewFamilyStore(db),
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		newCode:   GenerateFamilyCode,
	}
}

type AdminSignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FamilyName      string `json:"familyName"`
	FamilyCode      string `json:"familyCode"`
	StartingBalance any    `json:"startingBalance"`
}

type MemberSignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FamilyCode      string `json:"familyCode"`
	StartingBalance any    `json:"startingBalance"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a signup or login.
type Session struct {
	Token  string
	User   *model.User
	Family *model.Family
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type credentials struct {
	name, email, password string
	balance               money.Amount
}

func parseCredentials(name, email, password string, startingBalance any) (credentials, error) {
	c := credentials{
		name:     strings.TrimSpace(name),
		email:    NormalizeEmail(email),
		password: password,
	}
	if c.name == "" || c.email == "" || c.password == "" {
		return c, invalid("Name, email and password are required")
	}
	balance, err := parseStartingBalance(startingBalance)
	if err != nil {
		return c, err
	}
	c.balance = balance
	return c, nil
}

func parseStartingBalance(v any) (money.Amount, error) {
	switch n := v.(type) {
	case nil:
		return money.Zero, nil
	case json.Number:
		a, err := money.FromJSONNumber(n)
		if err != nil {
			return money.Zero, invalid("startingBalance must be a number")
		}
		return a, nil
	case float64:
		a, err := money.FromFloat(n)
		if err != nil {
			return money.Zero, invalid("startingBalance must be a number")
		}
		return a, nil
	default:
		return money.Zero, invalid("startingBalance must be a number")
	}
}

// AdminSignup creates an admin and their family. Conflicts are detected
// before anything is written.
func (r *Registry) AdminSignup(ctx context.Context, req AdminSignupRequest) (*Session, error) {
	creds, err := parseCredentials(req.Name, req.Email, req.Password, req.StartingBalance)
	if err != nil {
		return nil, err
	}
	familyName := strings.TrimSpace(req.FamilyName)
	if familyName == "" {
		return nil, invalid("familyName is required")
	}

	hash, err := r.hasher.Hash(creds.password)
	if err != nil {
		return nil, err
	}

	var user *model.User
	var family *model.Family
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		users := r.users.WithTx(tx)
		families := r.families.WithTx(tx)

		if err := ensureEmailFree(ctx, users, creds.email); err != nil {
			return err
		}

		code, err := r.resolveFamilyCode(ctx, families, strings.TrimSpace(req.FamilyCode))
		if err != nil {
			return err
		}

		user, err = users.Create(ctx, store.NewUser{
			Name:         creds.name,
			Email:        creds.email,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			Balance:      creds.balance,
		})
		if err != nil {
			return err
		}

		family, err = families.Create(ctx, familyName, code, user.ID, money.Zero)
		if err != nil {
			return err
		}
		if err := families.AddMember(ctx, family.ID, user.ID); err != nil {
			return err
		}
		if err := users.SetFamily(ctx, user.ID, family.ID); err != nil {
			return err
		}
		fid := family.ID
		user.FamilyID = &fid
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.metrics.Signup(model.RoleAdmin)
	r.logger.InfoContext(ctx, "family created", "family_id", family.ID, "admin_id", user.ID)
	return r.session(user, family)
}

func (r *Registry) resolveFamilyCode(ctx context.Context, families *store.FamilyStore, requested string) (string, error) {
	if requested != "" {
		taken, err := families.CodeExists(ctx, requested)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrFamilyCodeTaken
		}
		return requested, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := r.newCode()
		if err != nil {
			return "", fmt.Errorf("generate family code: %w", err)
		}
		taken, err := families.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrFamilyCodeExhausted
}

// MemberSignup creates a member inside the family named by the join code.
func (r *Registry) MemberSignup(ctx context.Context, req MemberSignupRequest) (*Session, error) {
	creds, err := parseCredentials(req.Name, req.Email, req.Password, req.StartingBalance)
	if err != nil {
		return nil, err
	}

	existing, err := r.users.GetByEmail(ctx, creds.email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	code := strings.TrimSpace(req.FamilyCode)
	if code == "" {
		return nil, invalid("familyCode is required for signup")
	}

	hash, err := r.hasher.Hash(creds.password)
	if err != nil {
		return nil, err
	}

	var user *model.User
	var family *model.Family
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		users := r.users.WithTx(tx)
		families := r.families.WithTx(tx)

		if err := ensureEmailFree(ctx, users, creds.email); err != nil {
			return err
		}

		var err error
		family, err = families.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if family == nil {
			return ErrInvalidFamilyCode
		}

		fid := family.ID
		user, err = users.Create(ctx, store.NewUser{
			Name:         creds.name,
			Email:        creds.email,
			PasswordHash: hash,
			Role:         model.RoleMember,
			FamilyID:     &fid,
			Balance:      creds.balance,
		})
		if err != nil {
			return err
		}
		return families.AddMember(ctx, family.ID, user.ID)
	})
	if err != nil {
		return nil, err
	}

	r.metrics.Signup(model.RoleMember)
	r.logger.InfoContext(ctx, "member joined family", "family_id", family.ID, "member_id", user.ID)
	if r.publisher != nil {
		r.publisher.Publish(ctx, events.New(events.TypeMemberJoined, family.ID, user.ID, user.ID))
	}
	return r.session(user, family)
}

func ensureEmailFree(ctx context.Context, users *store.UserStore, email string) error {
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	return nil
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords return the same error.
func (r *Registry) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		r.hasher.CompareDummy(req.Password)
		return nil, ErrInvalidCredentials
	}

	if err := r.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return r.session(user, nil)
}

func (r *Registry) session(user *model.User, family *model.Family) (*Session, error) {
	token, err := r.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user, Family: family}, nil
}

// Authenticate resolves a bearer token to its user. It returns
// auth.ErrMissingToken or auth.ErrInvalidToken for bad tokens and
// ErrUserNotFound when the account no longer exists.
func (r *Registry) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := r.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *Registry) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *Registry) UpdateProfilePhoto(ctx context.Context, userID, photoURL string) (*model.User, error) {
	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return nil, invalid("Photo URL is required")
	}
	u, err := url.Parse(photoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("Photo URL must be an http(s) URL")
	}

	user, err := r.users.UpdateProfilePhoto(ctx, userID, photoURL)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}
