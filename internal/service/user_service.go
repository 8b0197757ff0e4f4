package service

import (
	"context"
	"errors"

	"campusforum/internal/model"
	"campusforum/internal/pkg"
	"campusforum/internal/repository/mysql"
	"campusforum/internal/repository/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialVerifier checks a login secret against a resolved account.
// The reference system this forum descends from had no real password
// verification at all; the check is pluggable so deployments can decide.
type CredentialVerifier func(user *model.User, secret string) error

// BcryptVerifier is the default verifier, comparing against the stored
// bcrypt hash.
func BcryptVerifier(user *model.User, secret string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(secret)) != nil {
		return pkg.Unauthorizedf("invalid credentials")
	}
	return nil
}

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redis.SessionRepository
	verify   CredentialVerifier
	mailCfg  pkg.SMTPConfig
	log      *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		sessions: &redis.SessionRepository{},
		verify:   BcryptVerifier,
		log:      log,
	}
}

// WithMail enables the best-effort welcome mail.
func (s *UserService) WithMail(cfg pkg.SMTPConfig) *UserService {
	s.mailCfg = cfg
	return s
}

// WithVerifier swaps the credential check; used by tests and by
// deployments that delegate authentication elsewhere.
func (s *UserService) WithVerifier(v CredentialVerifier) *UserService {
	s.verify = v
	return s
}

// Register creates an account with role user and a freshly allocated uid.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, pkg.InvalidArgumentf("username, email and password are required")
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, pkg.Conflictf("username or email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkg.Conflictf("username or email already registered")
		}
		return nil, err
	}

	if s.mailCfg.Configured() {
		go func(to, name, uid string) {
			if err := pkg.SendEmail(s.mailCfg, to, "Welcome to the campus forum", pkg.WelcomeHTML(name, uid)); err != nil {
				s.log.Warn("welcome mail failed", zap.String("email", to), zap.Error(err))
			}
		}(user.Email, user.Username, user.UID)
	}

	return user, nil
}

// Authenticate resolves an identifier (username, email, or uid) and runs
// the credential verifier. It does not create a session.
func (s *UserService) Authenticate(ctx context.Context, identifier, secret string) (*model.User, error) {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.Unauthorizedf("invalid credentials")
		}
		return nil, err
	}
	if err := s.verify(user, secret); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates and opens a single-session token pair; the access
// token is mirrored in Redis so a later login elsewhere evicts this one.
func (s *UserService) Login(ctx context.Context, identifier, secret string) (*model.User, *pkg.Pair, error) {
	user, err := s.Authenticate(ctx, identifier, secret)
	if err != nil {
		return nil, nil, err
	}
	pair, err := pkg.GeneratePair(user.ID, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	if err := s.sessions.Put(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// UpdateProfile mutates the profile fields only; identity, role, and uid
// are untouchable here.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, bio, avatarURL *string) (*model.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "user %d", id)
	}
	fields := map[string]any{}
	if bio != nil {
		fields["bio"] = *bio
	}
	if avatarURL != nil {
		fields["avatar_url"] = *avatarURL
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateProfile(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

// ChangeRole promotes or demotes between user and manager. Admin accounts
// are immutable: any attempt fails regardless of who asks.
func (s *UserService) ChangeRole(ctx context.Context, callerID, targetID uint64, role model.Role) (*model.User, error) {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, notFoundOr(err, "user %d", targetID)
	}
	if target.Role == model.RoleAdmin {
		return nil, pkg.Forbiddenf("the admin role cannot be changed")
	}
	if role != model.RoleUser && role != model.RoleManager {
		return nil, pkg.InvalidArgumentf("role must be user or manager")
	}
	caller, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		return nil, notFoundOr(err, "user %d", callerID)
	}
	if !caller.Role.CanChangeRoles() {
		return nil, pkg.Forbiddenf("only admin may change roles")
	}
	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	target.Role = role
	return target, nil
}

// DeleteUser removes an account. No cascade: the target's articles,
// comments, likes and follows stay behind and resolve as orphans.
func (s *UserService) DeleteUser(ctx context.Context, callerID, targetID uint64) error {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return notFoundOr(err, "user %d", targetID)
	}
	caller, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		return notFoundOr(err, "user %d", callerID)
	}
	if !caller.Role.CanDeleteUser(target.Role) {
		return pkg.Forbiddenf("not allowed to delete this account")
	}
	return s.repo.Delete(ctx, targetID)
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user %d", id)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// EnsureAdmin seeds the single admin account on first start. When no
// password is configured a random one is generated, forcing an explicit
// ADMIN_PASSWORD before the account is usable.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	n, err := s.repo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		password = uuid.NewString()
		s.log.Warn("no ADMIN_PASSWORD set, seeded admin with a random password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Info("seeded admin account", zap.String("username", username), zap.String("uid", admin.UID))
	return nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.NotFoundf(format, args...)
	}
	return err
}
