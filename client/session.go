package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session is the explicit authentication state: the bearer token and the
// user it belongs to, persisted to a credentials file between runs. It is
// initialized once at startup and injected into the HTTP client; nothing
// reads ambient global state.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`

	path string
}

// LoadSession reads the stored credentials. A missing file is a valid
// logged-out session, not an error.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) LoggedIn() bool {
	return s.Token != ""
}

// Save persists the session to the credentials file, owner-readable only.
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear logs out: the in-memory state is zeroed and the credentials file
// removed.
func (s *Session) Clear() error {
	s.Token = ""
	s.User = User{}
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
