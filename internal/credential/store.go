// Package credential persists the bearer token and user record of a console session.
//
// Token and user live under two keys that are always written and cleared
// together. A stored user that cannot be decoded, or that has no role, makes the
// whole session invalid: Load clears it and reports no session.
package credential

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
)

// Session is the durable copy of an authenticated console session.
type Session struct {
	Token string
	User  *identity.User
}

// Store reads and writes sessions in a fiber storage backend.
type Store struct {
	storage fiber.Storage
	expiry  time.Duration

	// serializes temp index read-modify-write on this node
	tempMu sync.Mutex
}

// New creates a store. expiry of 0 keeps keys until they are cleared.
func New(storage fiber.Storage, expiry time.Duration) (*Store, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}

	return &Store{storage: storage, expiry: expiry}, nil
}

// Storage returns the underlying backend.
func (s *Store) Storage() fiber.Storage {
	return s.storage
}

func tokenKey(sid string) string { return "token:" + sid }

func userKey(sid string) string { return "user:" + sid }

func tempIndexKey(sid string) string { return "temp:" + sid }

func tempKey(sid, name string) string { return "temp:" + sid + ":" + name }

// Save writes token and user for the session.
func (s *Store) Save(sid, token string, user *identity.User) error {
	switch {
	case sid == "":
		return ErrEmptySessionID
	case token == "":
		return ErrEmptyToken
	case user == nil:
		return ErrNilUser
	}

	userData, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "failed to encode user")
	}

	if err = s.storage.Set(tokenKey(sid), []byte(token), s.expiry); err != nil {
		return errors.Wrap(err, "failed to write token")
	}

	if err = s.storage.Set(userKey(sid), userData, s.expiry); err != nil {
		// never leave a token without its user
		_ = s.storage.Delete(tokenKey(sid))

		return errors.Wrap(err, "failed to write user")
	}

	return nil
}

// Load returns the stored session, or nil when there is none or it was corrupt.
func (s *Store) Load(sid string) (*Session, error) {
	if sid == "" {
		return nil, nil
	}

	token, err := s.storage.Get(tokenKey(sid))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read token")
	}

	userData, err := s.storage.Get(userKey(sid))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read user")
	}

	if len(token) == 0 || len(userData) == 0 {
		return nil, nil
	}

	user, err := identity.DecodeUser(userData)
	if err != nil {
		log.Warn().Err(err).Msg("discarding corrupt session")

		if errClear := s.Clear(sid); errClear != nil {
			log.Error().Err(errClear).Msg("failed to clear corrupt session")
		}

		return nil, nil
	}

	return &Session{Token: string(token), User: user}, nil
}

// Token returns only the bearer token; "" when absent.
func (s *Store) Token(sid string) (string, error) {
	if sid == "" {
		return "", nil
	}

	token, err := s.storage.Get(tokenKey(sid))
	if err != nil {
		return "", errors.Wrap(err, "failed to read token")
	}

	return string(token), nil
}

// Clear removes token and user. Clearing an absent session is not an error.
func (s *Store) Clear(sid string) error {
	if sid == "" {
		return nil
	}

	errToken := s.storage.Delete(tokenKey(sid))
	errUser := s.storage.Delete(userKey(sid))

	switch {
	case errToken != nil:
		return errors.Wrap(errToken, "failed to delete token")
	case errUser != nil:
		return errors.Wrap(errUser, "failed to delete user")
	}

	return nil
}

// PutTemp stores a temporary value (form drafts and similar) for the session.
// Temporary values are purged on unload and logout.
func (s *Store) PutTemp(sid, name string, value []byte) error {
	if sid == "" {
		return ErrEmptySessionID
	}

	s.tempMu.Lock()
	defer s.tempMu.Unlock()

	names, err := s.tempNames(sid)
	if err != nil {
		return err
	}

	if !containsName(names, name) {
		names = append(names, name)

		data, errMarshal := json.Marshal(names)
		if errMarshal != nil {
			return errors.Wrap(errMarshal, "failed to encode temp index")
		}

		if err = s.storage.Set(tempIndexKey(sid), data, s.expiry); err != nil {
			return errors.Wrap(err, "failed to write temp index")
		}
	}

	return errors.Wrap(s.storage.Set(tempKey(sid, name), value, s.expiry), "failed to write temp value")
}

// GetTemp reads a temporary value; nil when absent.
func (s *Store) GetTemp(sid, name string) ([]byte, error) {
	if sid == "" {
		return nil, ErrEmptySessionID
	}

	v, err := s.storage.Get(tempKey(sid, name))

	return v, errors.Wrap(err, "failed to read temp value")
}

// PurgeTemp deletes every temporary value of the session and returns how many were removed.
func (s *Store) PurgeTemp(sid string) (int, error) {
	if sid == "" {
		return 0, nil
	}

	s.tempMu.Lock()
	defer s.tempMu.Unlock()

	names, err := s.tempNames(sid)
	if err != nil {
		return 0, err
	}

	var firstErr error

	for _, name := range names {
		if errDel := s.storage.Delete(tempKey(sid, name)); errDel != nil && firstErr == nil {
			firstErr = errors.Wrapf(errDel, "failed to delete temp value %q", name)
		}
	}

	if errDel := s.storage.Delete(tempIndexKey(sid)); errDel != nil && firstErr == nil {
		firstErr = errors.Wrap(errDel, "failed to delete temp index")
	}

	return len(names), firstErr
}

func (s *Store) tempNames(sid string) ([]string, error) {
	data, err := s.storage.Get(tempIndexKey(sid))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read temp index")
	}

	if len(data) == 0 {
		return nil, nil
	}

	var names []string
	if err = json.Unmarshal(data, &names); err != nil {
		// a broken index only loses the drafts it points to
		log.Warn().Err(err).Msg("discarding corrupt temp index")

		return nil, nil
	}

	return names, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}

// GenerateSessionID returns a new random console session id.
func GenerateSessionID() (string, error) {
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
