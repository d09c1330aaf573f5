package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"driver-license-portal/internal/domain/authsession"
	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/domain/uow"
	"driver-license-portal/pkg/id"
)

var (
	ErrInvalidCredentials = errs.Unauthorized("Invalid credentials")
	ErrTooManyLogins      = errs.RateLimited("Too many failed login attempts. Please try again later")
	ErrLookupRequired     = errs.Validation("nationalId or email is required")
)

type CitizenResolver interface {
	Resolve(ctx context.Context, nationalID, email string) (*citizen.Citizen, error)
}

type OTPSender interface {
	SendOTP(ctx context.Context, to, name, code string) error
}

type TokenIssuer interface {
	Issue(userID, citizenID, role string) (string, time.Time, error)
}

type LoginLimiter interface {
	Blocked(ctx context.Context, id string) (bool, time.Duration, error)
	Fail(ctx context.Context, id string) (int, error)
	Reset(ctx context.Context, id string) error
}

type Usecase struct {
	uow      uow.UnitOfWork
	sessions authsession.Repository
	citizens citizen.Repository
	users    citizen.UserRepository
	perms    citizen.PermissionRepository
	resolver CitizenResolver
	otp      OTPSender
	tokens   TokenIssuer
	limiter  LoginLimiter
	opts     Options
	log      logrus.FieldLogger
	now      func() time.Time
}

type Deps struct {
	UoW         uow.UnitOfWork
	Sessions    authsession.Repository
	Citizens    citizen.Repository
	Users       citizen.UserRepository
	Permissions citizen.PermissionRepository
	Resolver    CitizenResolver
	OTP         OTPSender
	Tokens      TokenIssuer
	Limiter     LoginLimiter
}

func NewUsecase(d Deps, opts Options, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		uow:      d.UoW,
		sessions: d.Sessions,
		citizens: d.Citizens,
		users:    d.Users,
		perms:    d.Permissions,
		resolver: d.Resolver,
		otp:      d.OTP,
		tokens:   d.Tokens,
		limiter:  d.Limiter,
		opts:     opts,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Initiate opens an OTP session for the citizen behind nationalID/email and
// mails the code.
func (u *Usecase) Initiate(ctx context.Context, nationalID, email string) (*InitiateResult, error) {
	if strings.TrimSpace(nationalID) == "" && strings.TrimSpace(email) == "" {
		return nil, ErrLookupRequired
	}
	c, err := u.resolver.Resolve(ctx, nationalID, email)
	if err != nil {
		return nil, err
	}

	now := u.now()
	s := &authsession.Session{
		CitizenID:     c.ID,
		TransactionID: id.NewUUID(),
		OTPCode:       id.RandomDigits(authsession.OTPLength),
		OTPExpiresAt:  now.Add(authsession.OTPLifetime),
		Status:        authsession.StatusPending,
	}
	if err := u.sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	log := u.log.WithFields(logrus.Fields{"citizen_id": c.ID, "transaction_id": s.TransactionID})
	if c.Email != "" {
		if err := u.otp.SendOTP(ctx, c.Email, c.FullName, s.OTPCode); err != nil {
			log.WithError(err).Warn("otp email failed")
		}
	}
	log.Info("otp issued")

	res := &InitiateResult{
		TransactionID: s.TransactionID,
		Message:       "OTP sent to the contact details on file",
		ExpiresAt:     s.OTPExpiresAt,
	}
	if u.opts.ExposeOTP {
		res.OTP = s.OTPCode
	}
	return res, nil
}

func validOTPFormat(code string) bool {
	if len(code) != authsession.OTPLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// VerifyOTP checks a code against its session. A session is single use and
// fails for good after MaxAttempts wrong codes.
func (u *Usecase) VerifyOTP(ctx context.Context, nationalID, code, transactionID string) (*CitizenData, error) {
	code = strings.TrimSpace(code)
	if transactionID == "" || code == "" {
		return nil, errs.Validation("transactionId and otp are required")
	}
	if !validOTPFormat(code) {
		return nil, authsession.ErrInvalidOTP.With("reason", "OTP must be 6 digits")
	}

	s, err := u.sessions.GetByTransactionID(ctx, transactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authsession.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	log := u.log.WithFields(logrus.Fields{"transaction_id": transactionID, "citizen_id": s.CitizenID})
	if s.Status != authsession.StatusPending {
		return nil, authsession.ErrNotActive.With("status", string(s.Status))
	}

	if strings.TrimSpace(nationalID) != "" {
		c, err := u.resolver.Resolve(ctx, nationalID, "")
		if err != nil || c.ID != s.CitizenID {
			return nil, authsession.ErrCitizenMismatch
		}
	}

	if u.now().After(s.OTPExpiresAt) {
		s.Status = authsession.StatusExpired
		if err := u.sessions.Save(ctx, s); err != nil {
			return nil, err
		}
		return nil, authsession.ErrExpired
	}

	match := subtle.ConstantTimeCompare([]byte(code), []byte(s.OTPCode)) == 1
	if u.opts.PermissiveOTP {
		match = true
	}
	if !match {
		s.Attempts++
		remaining := authsession.MaxAttempts - s.Attempts
		if remaining <= 0 {
			s.Status = authsession.StatusFailed
		}
		if err := u.sessions.Save(ctx, s); err != nil {
			return nil, err
		}
		log.WithField("attempts", s.Attempts).Info("otp mismatch")
		if remaining <= 0 {
			return nil, authsession.ErrTooManyTries
		}
		return nil, authsession.ErrInvalidOTP.With("remainingAttempts", remaining)
	}

	s.Status = authsession.StatusVerified
	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	c, err := u.citizens.GetByID(ctx, s.CitizenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, citizen.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p, err := u.perms.GetByCitizenID(ctx, c.ID)
	if err != nil {
		p = &citizen.Permission{CitizenID: c.ID}
	}
	p.IsVerified = true
	if err := u.perms.Upsert(ctx, p); err != nil {
		log.WithError(err).Warn("permission verify flag not stored")
	}
	log.Info("otp verified")
	return citizenData(c, p), nil
}

func citizenData(c *citizen.Citizen, p *citizen.Permission) *CitizenData {
	return &CitizenData{
		ID:          c.ID,
		NationalID:  c.NationalID,
		FullName:    c.FullName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Status:      c.Status,
		Permissions: p,
	}
}

// SetPermissions stores which attributes the citizen agreed to share.
func (u *Usecase) SetPermissions(ctx context.Context, citizenID string, f PermissionFlags) (*citizen.Permission, error) {
	if strings.TrimSpace(citizenID) == "" {
		return nil, errs.Validation("citizenId is required").With("field", "citizenId")
	}
	if _, err := u.citizens.GetByID(ctx, citizenID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, citizen.ErrNotFound
		}
		return nil, err
	}
	p, err := u.perms.GetByCitizenID(ctx, citizenID)
	if err != nil {
		p = &citizen.Permission{CitizenID: citizenID}
	}
	p.Email, p.Birthdate, p.Gender = f.Email, f.Birthdate, f.Gender
	p.Name, p.PhoneNumber, p.Picture = f.Name, f.PhoneNumber, f.Picture
	if err := u.perms.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Signup creates the account and, when the national registry has no
// record yet, the citizen behind it.
func (u *Usecase) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	nationalID := strings.TrimSpace(in.NationalID)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *citizen.User
	var profile *citizen.Citizen
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		exists, err := r.Users.ExistsByEmailOrNationalID(ctx, email, nationalID)
		if err != nil {
			return err
		}
		if exists {
			return citizen.ErrDuplicate
		}

		c, err := r.Citizens.GetByNationalID(ctx, nationalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c = &citizen.Citizen{
				ID:          id.NewUUID(),
				NationalID:  nationalID,
				FullName:    strings.TrimSpace(in.FullName),
				Email:       email,
				PhoneNumber: strings.TrimSpace(in.PhoneNumber),
				Status:      citizen.StatusActive,
			}
			if err := r.Citizens.Create(ctx, c); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		user = &citizen.User{
			ID:           id.NewUUID(),
			CitizenID:    c.ID,
			FullName:     strings.TrimSpace(in.FullName),
			Email:        email,
			PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
			NationalID:   nationalID,
			Role:         citizen.RoleUser,
			PasswordHash: string(hash),
		}
		profile = c
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": user.ID, "citizen_id": user.CitizenID}).Info("account created")

	sess, err := u.session(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Profile: profile, Session: sess}, nil
}

// Login checks the password and rate-limits failures per identifier.
func (u *Usecase) Login(ctx context.Context, emailOrPhone, password string) (*AuthResult, error) {
	ident := strings.ToLower(strings.TrimSpace(emailOrPhone))
	if ident == "" || password == "" {
		return nil, errs.Validation("emailOrPhone and password are required")
	}
	log := u.log.WithField("identifier", ident)

	blocked, retryIn, err := u.limiter.Blocked(ctx, ident)
	if err != nil {
		log.WithError(err).Warn("login limiter unavailable")
	}
	if blocked {
		return nil, ErrTooManyLogins.With("retryAfterSeconds", int(retryIn.Seconds()))
	}

	user, err := u.users.GetByEmailOrPhone(ctx, ident)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u.fail(ctx, log, ident)
		return nil, citizen.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		u.fail(ctx, log, ident)
		return nil, ErrInvalidCredentials
	}
	if err := u.limiter.Reset(ctx, ident); err != nil {
		log.WithError(err).Warn("login limiter reset failed")
	}

	var profile *citizen.Citizen
	if user.CitizenID != "" {
		if c, err := u.citizens.GetByID(ctx, user.CitizenID); err == nil {
			profile = c
		}
	}
	sess, err := u.session(user)
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", user.ID).Info("login succeeded")
	return &AuthResult{User: user, Profile: profile, Session: sess}, nil
}

func (u *Usecase) fail(ctx context.Context, log logrus.FieldLogger, ident string) {
	n, err := u.limiter.Fail(ctx, ident)
	if err != nil {
		log.WithError(err).Warn("login limiter unavailable")
		return
	}
	log.WithField("failures", n).Info("login failed")
}

func (u *Usecase) session(user *citizen.User) (Session, error) {
	tok, exp, err := u.tokens.Issue(user.ID, user.CitizenID, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp}, nil
}

func (u *Usecase) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*citizen.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, citizen.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		if v := strings.TrimSpace(*in.FullName); v != "" {
			user.FullName = v
		}
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	u.log.WithField("user_id", user.ID).Info("profile updated")
	return user, nil
}
