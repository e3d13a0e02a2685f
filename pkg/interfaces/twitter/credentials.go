package twitter

import (
	"sync"
)

// Credentials is one OAuth 1.0a user context able to post and delete tweets.
type Credentials struct {
	Name              string
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// Valid reports whether every OAuth field is present.
func (c Credentials) Valid() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Rotator hands out credential sets round-robin.
type Rotator struct {
	mu    sync.Mutex
	creds []Credentials
	next  int
}

// NewRotator creates a rotator over creds. Invalid entries are kept so that
// positions match the credentials file.
func NewRotator(creds []Credentials) *Rotator {
	return &Rotator{creds: append([]Credentials(nil), creds...)}
}

// Next returns the next credential set, or false when none are configured.
func (r *Rotator) Next() (Credentials, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.creds) == 0 {
		return Credentials{}, false
	}
	c := r.creds[r.next]
	r.next = (r.next + 1) % len(r.creds)
	return c, true
}

// Len is the number of configured credential sets.
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.creds)
}
