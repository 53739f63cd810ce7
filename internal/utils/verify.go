package utils

import "time"

// Email verification and password reset share the same one-time token
// mechanics: a 32-byte random token is emailed to the user while only
// its SHA-256 hash and an expiry are stored on the account.

// NewOneTimeToken returns a raw one-time token, its hash for storage and
// the expiry timestamp minutesFromNow in the future.
func NewOneTimeToken(minutesFromNow int) (raw, hash string, exp time.Time, err error) {
	raw, err = RandomHex(32)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return raw, HashToken(raw), time.Now().UTC().Add(time.Duration(minutesFromNow) * time.Minute), nil
}
