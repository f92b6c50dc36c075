package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName = "session"
	userKey    = "user"
	tokenKey   = "token"
)

// ErrNoSession is returned when the store holds no identity yet.
var ErrNoSession = errors.New("no session: run the login command first")

// Store keeps the session in a bbolt file: the identity under "user" and
// the bearer token under "token". Both are written at login time; the
// workflow itself only reads.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CurrentUser returns the persisted identity.
func (s *Store) CurrentUser() (User, error) {
	var user User
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(userKey))
		if data == nil {
			return ErrNoSession
		}
		return json.Unmarshal(data, &user)
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// SaveUser persists the identity. Called by the login command only.
func (s *Store) SaveUser(user User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshaling user: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(userKey), data)
	})
}

// Token returns the bearer token the gateway client attaches to requests.
func (s *Store) Token() (string, error) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(tokenKey))
		if data == nil {
			return ErrNoSession
		}
		token = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// SaveToken persists the bearer token next to the identity.
func (s *Store) SaveToken(token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(tokenKey), []byte(token))
	})
}
