package identity

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"condo/internal/models"
)

var ErrNoSession = errors.New("no session")

// SessionClaims — содержимое cookie. Роли в токен не кладём: они читаются
// из хранилища на каждом запросе, чтобы смена роли действовала сразу.
type SessionClaims struct {
	AccountID string `json:"aid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type SessionConfig struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Sessions выдаёт и проверяет HS256-подписанные cookie сессии.
type Sessions struct {
	cfg SessionConfig
	now func() time.Time
}

func NewSessions(cfg SessionConfig) *Sessions {
	if cfg.TTL <= 0 {
		cfg.TTL = 8 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "condo_session"
	}
	return &Sessions{cfg: cfg, now: time.Now}
}

func (s *Sessions) CookieName() string { return s.cfg.CookieName }

// Issue подписывает токен для учётки.
func (s *Sessions) Issue(acc *models.Account) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TTL)
	claims := SessionClaims{
		AccountID: acc.ID,
		Email:     acc.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// Parse проверяет подпись и срок действия.
func (s *Sessions) Parse(token string) (*SessionClaims, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	var claims SessionClaims
	tok, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid || claims.AccountID == "" {
		return nil, errors.New("invalid session token")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return nil, errors.New("session expired")
	}
	return &claims, nil
}

// SignIn ставит cookie сессии для учётки.
func (s *Sessions) SignIn(w http.ResponseWriter, acc *models.Account) error {
	tok, exp, err := s.Issue(acc)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SignOut стирает cookie.
func (s *Sessions) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest достаёт и проверяет сессию из cookie запроса.
func (s *Sessions) FromRequest(r *http.Request) (*SessionClaims, error) {
	c, err := r.Cookie(s.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return s.Parse(c.Value)
}
