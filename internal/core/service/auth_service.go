package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
	"github.com/artisan-avenue/auth-service/internal/core/ports"
	"github.com/artisan-avenue/auth-service/internal/pkg/credential"
	"github.com/artisan-avenue/auth-service/internal/pkg/otp"
	"github.com/artisan-avenue/auth-service/internal/pkg/token"
	"github.com/artisan-avenue/auth-service/internal/pkg/validate"
)

const (
	codeTTL          = 10 * time.Minute
	sendThrottle     = 60 * time.Second
	maxResetAttempts = 5
	dobLayout        = "2006-01-02"
)

// AuthService implements the auth orchestrator. It is request-scoped and
// stateless between calls; all durable state lives in the account repository.
type AuthService struct {
	repo     ports.AccountRepository
	notifier ports.Notifier
	tokens   *token.Issuer
	welcome  ports.WelcomeEnqueuer
	log      zerolog.Logger

	now func() time.Time
}

// NewAuthService wires the orchestrator. welcome may be nil, in which case
// the welcome message is sent inline, best-effort.
func NewAuthService(repo ports.AccountRepository, notifier ports.Notifier, tokens *token.Issuer, welcome ports.WelcomeEnqueuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		notifier: notifier,
		tokens:   tokens,
		welcome:  welcome,
		log:      log,
		now:      time.Now,
	}
}

// Register validates the payload, persists an unverified account, and sends
// the verification code. No session is established.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if in.Role != domain.RoleCustomer && in.Role != domain.RoleVendor {
		return domain.ErrRequiredField
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return domain.ErrRequiredField
	}

	email := foldEmail(in.Email)
	if email == "" || !validate.Email(email) {
		return domain.ErrInvalidEmail
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}

	if !validate.PasswordStrong(in.Password) {
		return domain.ErrWeakPassword
	}
	if in.Password != in.Confirm {
		return domain.ErrPasswordMismatch
	}

	now := s.now().UTC()
	account := &domain.Account{
		Role:      in.Role,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Username:  strings.TrimSpace(in.Username),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch in.Role {
	case domain.RoleCustomer:
		if strings.TrimSpace(in.DOB) == "" {
			return domain.ErrRequiredField
		}
		dob, err := time.Parse(dobLayout, strings.TrimSpace(in.DOB))
		if err != nil {
			return domain.ErrRequiredField
		}
		account.DOB = dob
	case domain.RoleVendor:
		businessName := strings.TrimSpace(in.BusinessName)
		description := strings.TrimSpace(in.Description)
		categories := cleanCategories(in.Categories)
		if businessName == "" || description == "" || len(categories) == 0 {
			return domain.ErrRequiredField
		}
		phone := strings.TrimSpace(in.Phone)
		if phone == "" || !validate.AUPhone(phone) {
			return domain.ErrInvalidPhone
		}
		account.Vendor = &domain.VendorProfile{
			BusinessName: businessName,
			Phone:        phone,
			Website:      strings.TrimSpace(in.Website),
			Description:  description,
			Categories:   categories,
		}
	}

	if account.Username != "" {
		if _, err := s.repo.FindByUsername(ctx, account.Username); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("lookup username: %w", err)
		}
	}

	passwordHash, err := credential.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = passwordHash

	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}
	codeHash, err := credential.Hash(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	account.VerifyCodeHash = codeHash
	account.VerifyCodeExpiresAt = now.Add(codeTTL)
	account.LastVerifyEmailSentAt = now

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		// Covers the duplicate-key race between the earlier lookup and
		// this insert: two concurrent registrations with the same email.
		return err
	}

	if err := s.notifier.SendVerificationCode(ctx, created.Email, code); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}

	s.log.Info().Str("role", created.Role).Msg("account registered, verification code sent")
	return nil
}

// VerifyEmail checks the pending verification code and, on success, marks
// the account verified and establishes a session. Verifying an already
// verified account succeeds idempotently without re-checking the code.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (string, domain.SafeView, error) {
	account, err := s.repo.FindByEmail(ctx, foldEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.SafeView{}, domain.ErrAccountNotFound
		}
		return "", domain.SafeView{}, fmt.Errorf("lookup email: %w", err)
	}

	if account.IsVerified {
		return s.establishSession(account)
	}

	if !account.HasOpenVerifyWindow() || s.now().After(account.VerifyCodeExpiresAt) {
		account.ClearVerifyWindow()
		if err := s.repo.Update(ctx, account); err != nil {
			return "", domain.SafeView{}, fmt.Errorf("clear verify window: %w", err)
		}
		return "", domain.SafeView{}, domain.ErrCodeExpired
	}

	if !credential.Verify(otp.Normalize(code), account.VerifyCodeHash) {
		return "", domain.SafeView{}, domain.ErrCodeIncorrect
	}

	account.IsVerified = true
	account.ClearVerifyWindow()
	account.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		return "", domain.SafeView{}, fmt.Errorf("mark verified: %w", err)
	}

	s.sendWelcome(ctx, account)

	return s.establishSession(account)
}

// ResendVerification issues a fresh verification code. Unknown and already
// verified emails get the same silent success as a throttled resend, so the
// endpoint reveals nothing about account existence.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, foldEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if account.IsVerified {
		return nil
	}

	now := s.now()
	if !account.LastVerifyEmailSentAt.IsZero() && now.Sub(account.LastVerifyEmailSentAt) < sendThrottle {
		return nil
	}

	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}
	codeHash, err := credential.Hash(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	account.VerifyCodeHash = codeHash
	account.VerifyCodeExpiresAt = now.Add(codeTTL)
	account.LastVerifyEmailSentAt = now
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("store verify window: %w", err)
	}

	if err := s.notifier.SendVerificationCode(ctx, account.Email, code); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// Login authenticates by email (identifier containing '@') or exact
// username. Unknown identifier and wrong password collapse into the same
// error. Verification state is not checked here: an unverified account can
// sign in.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, domain.SafeView, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", domain.SafeView{}, domain.ErrRequiredField
	}

	var account *domain.Account
	var err error
	if strings.Contains(identifier, "@") {
		account, err = s.repo.FindByEmail(ctx, foldEmail(identifier))
	} else {
		account, err = s.repo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.SafeView{}, domain.ErrAuthFailed
		}
		return "", domain.SafeView{}, fmt.Errorf("lookup account: %w", err)
	}

	if !credential.Verify(password, account.PasswordHash) {
		return "", domain.SafeView{}, domain.ErrAuthFailed
	}

	return s.establishSession(account)
}

// Me re-reads the account behind a valid session so role or name edits are
// reflected promptly, rather than trusting the token's cached claims.
func (s *AuthService) Me(ctx context.Context, accountID string) (domain.SafeView, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.SafeView{}, domain.ErrAccountNotFound
		}
		return domain.SafeView{}, fmt.Errorf("lookup account: %w", err)
	}
	return domain.ToSafeView(account), nil
}

// ForgotStart opens a password-reset window and emails the code. Invalid or
// unknown emails and throttled repeats all produce the same silent success.
func (s *AuthService) ForgotStart(ctx context.Context, email string) error {
	email = foldEmail(email)
	if email == "" || !validate.Email(email) {
		return nil
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}

	now := s.now()
	if !account.LastResetRequestAt.IsZero() && now.Sub(account.LastResetRequestAt) < sendThrottle {
		return nil
	}

	code, err := otp.Generate(otp.DefaultLength)
	if err != nil {
		return err
	}
	codeHash, err := credential.Hash(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	account.ResetCodeHash = codeHash
	account.ResetCodeExpiresAt = now.Add(codeTTL)
	account.ResetCodeAttempts = 0
	account.LastResetRequestAt = now
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("store reset window: %w", err)
	}

	if err := s.notifier.SendResetCode(ctx, account.Email, code); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// ForgotVerify checks the reset code. Five wrong guesses exhaust the window;
// the only way forward after that is a fresh ForgotStart. On success the
// window is cleared and a 15-minute reset token is returned.
func (s *AuthService) ForgotVerify(ctx context.Context, email, code string) (string, error) {
	email = foldEmail(email)
	if email == "" || strings.TrimSpace(code) == "" {
		return "", domain.ErrRequiredField
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrNoResetSession
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if !account.HasOpenResetWindow() {
		return "", domain.ErrNoResetSession
	}

	if s.now().After(account.ResetCodeExpiresAt) {
		account.ClearResetWindow()
		if err := s.repo.Update(ctx, account); err != nil {
			return "", fmt.Errorf("clear reset window: %w", err)
		}
		return "", domain.ErrCodeExpired
	}

	if account.ResetCodeAttempts >= maxResetAttempts {
		account.ClearResetWindow()
		if err := s.repo.Update(ctx, account); err != nil {
			return "", fmt.Errorf("clear reset window: %w", err)
		}
		return "", domain.ErrTooManyAttempts
	}

	if !credential.Verify(otp.Normalize(code), account.ResetCodeHash) {
		// Not atomic against concurrent verifies; concurrent wrong guesses
		// can under-count. Known gap, kept as-is.
		account.ResetCodeAttempts++
		if err := s.repo.Update(ctx, account); err != nil {
			return "", fmt.Errorf("count attempt: %w", err)
		}
		return "", domain.ErrCodeIncorrect
	}

	account.ClearResetWindow()
	if err := s.repo.Update(ctx, account); err != nil {
		return "", fmt.Errorf("clear reset window: %w", err)
	}

	resetToken, err := s.tokens.IssueResetToken(account.ID, account.Email)
	if err != nil {
		return "", err
	}
	return resetToken, nil
}

// ForgotReset validates the new password and the reset token, then persists
// the new credential. The caller clears any lingering session cookie to
// force a re-login.
func (s *AuthService) ForgotReset(ctx context.Context, email, resetToken, password, confirm string) error {
	email = foldEmail(email)
	if email == "" || resetToken == "" || password == "" || confirm == "" {
		return domain.ErrRequiredField
	}
	if !validate.PasswordStrong(password) {
		return domain.ErrWeakPassword
	}
	if password != confirm {
		return domain.ErrPasswordMismatch
	}

	accountID, tokenEmail, err := s.tokens.VerifyResetToken(resetToken)
	if err != nil {
		return domain.ErrBadResetToken
	}
	if tokenEmail != email {
		return domain.ErrAccountNotFound
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}
	if account.Email != email {
		return domain.ErrAccountNotFound
	}

	passwordHash, err := credential.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

func (s *AuthService) establishSession(account *domain.Account) (string, domain.SafeView, error) {
	view := domain.ToSafeView(account)
	sessionToken, err := s.tokens.IssueSession(view)
	if err != nil {
		return "", domain.SafeView{}, fmt.Errorf("issue session: %w", err)
	}
	return sessionToken, view, nil
}

// sendWelcome delivers the celebratory message after verification. Failure
// here never surfaces to the client.
func (s *AuthService) sendWelcome(ctx context.Context, account *domain.Account) {
	if s.welcome != nil {
		s.welcome.EnqueueWelcome(account.Email, account.FirstName)
		return
	}
	if err := s.notifier.SendWelcome(ctx, account.Email, account.FirstName); err != nil {
		s.log.Warn().Err(err).Msg("welcome email failed")
	}
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cleanCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
