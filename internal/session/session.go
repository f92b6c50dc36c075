package session

// User is the locally persisted identity of the logged-in employee. It
// is written once at login and only ever read afterwards.
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

const (
	TypeEmployee = "Employee"
	TypeAdmin    = "Admin"
)

// Provider exposes the current identity to the workflow components. The
// workflow reads it on every operation needing an actor; it never writes.
type Provider interface {
	CurrentUser() (User, error)
}

// Static is a fixed-identity Provider, handy for tests and tooling.
type Static struct {
	User User
}

func (s Static) CurrentUser() (User, error) {
	return s.User, nil
}
