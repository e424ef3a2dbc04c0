package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var errNoToken = errors.New("missing or invalid token")

// newScorerToken returns a fresh bearer token and the bcrypt hash that is
// stored in its place.
func newScorerToken() (token string, hash []byte, err error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", nil, err
	}
	token = hex.EncodeToString(b)
	hash, err = bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	return token, hash, nil
}

func bearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token, found && token != ""
}

// checkBearer compares the request's bearer token against hash. An empty
// hash accepts nothing.
func checkBearer(r *http.Request, hash []byte) error {
	token, ok := bearerToken(r)
	if !ok || len(hash) == 0 {
		return errNoToken
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
		return errNoToken
	}
	return nil
}
