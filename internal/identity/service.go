package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/mailer"
	"carteira/internal/models"
	"carteira/internal/uuid"
	"carteira/internal/validation"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// Service is the GORM-backed Provider implementation.
type Service struct {
	db       *gorm.DB
	mail     mailer.Mailer
	baseURL  string
	resetTTL time.Duration

	mu        sync.Mutex
	listeners []SessionListener
}

// NewService creates a Provider backed by the given database and mailer.
// baseURL is the public address reset links point at; resetTTL bounds the
// lifetime of issued reset codes.
func NewService(db *gorm.DB, mail mailer.Mailer, baseURL string, resetTTL time.Duration) *Service {
	return &Service{db: db, mail: mail, baseURL: baseURL, resetTTL: resetTTL}
}

// AddSessionListener registers a callback invoked after every successful
// sign-in or account creation.
func (s *Service) AddSessionListener(fn SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(session *Session) {
	s.mu.Lock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
}

// SignIn verifies credentials and returns a new session. Repeated failures
// lock the account temporarily.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := validation.Email(email); err != nil {
		return nil, apperrors.ErrInvalidEmail
	}
	if password == "" {
		return nil, apperrors.ErrMissingPassword
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, apperrors.ErrTooManyRequests
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		if err := s.recordFailedAttempt(ctx, user); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrWrongPassword
	}

	now := time.Now()
	updates := map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}
	s.notify(session)
	return session, nil
}

// CreateAccount registers a new user and signs them in.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*Session, error) {
	if err := validation.Email(email); err != nil {
		return nil, apperrors.ErrInvalidEmail
	}
	if password == "" {
		return nil, apperrors.ErrMissingPassword
	}
	if err := validation.Password(password, validation.PasswordModeSignup); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", normalized).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrEmailInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:    normalized,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}
	s.notify(session)
	return session, nil
}

// SendResetEmail issues a single-use reset code and mails it as a link.
func (s *Service) SendResetEmail(ctx context.Context, email string) error {
	if err := validation.Email(email); err != nil {
		return apperrors.ErrInvalidEmail
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	code := uuid.New()
	reset := &models.PasswordReset{
		UserID:    user.ID,
		CodeHash:  hashActionCode(code),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.db.WithContext(ctx).Create(reset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	link := fmt.Sprintf("%s/reset-password?oobCode=%s&mode=resetPassword", s.baseURL, code)
	plain := "Recebemos um pedido para redefinir sua senha. Acesse o link: " + link
	html := fmt.Sprintf(`<p>Recebemos um pedido para redefinir sua senha.</p><p><a href="%s">Redefinir senha</a></p>`, link)
	if err := s.mail.Send(user.Email, "Recuperação de senha", plain, html); err != nil {
		return apperrors.Wrap(apperrors.ErrMailerUnavailable, err)
	}
	return nil
}

// ConfirmReset redeems an action code and sets the new password.
func (s *Service) ConfirmReset(ctx context.Context, actionCode, newPassword string) error {
	if actionCode == "" {
		return apperrors.ErrInvalidActionCode
	}
	if newPassword == "" {
		return apperrors.ErrMissingPassword
	}
	if err := validation.Password(newPassword, validation.PasswordModeSignup); err != nil {
		return apperrors.ErrWeakPassword
	}

	var reset models.PasswordReset
	err := s.db.WithContext(ctx).Where("code_hash = ?", hashActionCode(actionCode)).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidActionCode
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if reset.UsedAt != nil {
		return apperrors.ErrInvalidActionCode
	}
	if reset.ExpiresAt.Before(time.Now()) {
		return apperrors.ErrExpiredActionCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Updates(map[string]interface{}{
				"password":              string(hashed),
				"failed_login_attempts": 0,
				"locked_until":          nil,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&reset).Update("used_at", now).Error
	})
	if txErr != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
	}
	return nil
}

// GetUserByID retrieves an active user by id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", normalized, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func (s *Service) recordFailedAttempt(ctx context.Context, user *models.User) error {
	attempts := user.FailedLoginAttempts + 1
	updates := map[string]interface{}{"failed_login_attempts": attempts}
	if attempts >= maxFailedLogins {
		updates["locked_until"] = time.Now().Add(lockoutDuration)
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *Service) newSession(user *models.User) (*Session, error) {
	token, err := GenerateSessionToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &Session{UserID: user.ID, Email: user.Email, Token: token}, nil
}

func hashActionCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

var _ Provider = (*Service)(nil)
