// Package identity assigns user identities to raw sessions.
//
// The production deployment has no authenticated identity source, so
// sessions are grouped into synthetic users by a fingerprint heuristic.
// The Resolver interface keeps that heuristic swappable for a real
// identity provider.
package identity

import (
	"fmt"
	"time"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Resolver produces a user id for a raw session.
type Resolver interface {
	// Resolve assigns UserID to every record in place. Records of the
	// same session must receive the same user id.
	Resolve(records []types.InteractionRecord) []types.InteractionRecord
}

// FingerprintResolver groups anonymous sessions into synthetic users by
// referrer plus a time bucket. The bucket width is a tunable heuristic
// with no ground truth; scores derived from it should be read
// accordingly.
type FingerprintResolver struct {
	bucketHours int
}

// NewFingerprintResolver creates a resolver with the given time-bucket
// width in hours. Widths outside [1,24] fall back to 4.
func NewFingerprintResolver(bucketHours int) *FingerprintResolver {
	if bucketHours < 1 || bucketHours > 24 {
		bucketHours = 4
	}
	return &FingerprintResolver{bucketHours: bucketHours}
}

// Resolve assigns `user_%05d` ids in first-seen fingerprint order. The
// fingerprint of a session is taken from its first record: referrer (or
// "direct"), date, and hour bucket.
func (r *FingerprintResolver) Resolve(records []types.InteractionRecord) []types.InteractionRecord {
	sessionUser := make(map[string]string)
	fingerprintUser := make(map[string]string)
	counter := 1

	for i := range records {
		rec := &records[i]
		if rec.SessionID == "" {
			continue
		}

		userID, ok := sessionUser[rec.SessionID]
		if !ok {
			fp := r.fingerprint(rec)
			userID, ok = fingerprintUser[fp]
			if !ok {
				userID = fmt.Sprintf("user_%05d", counter)
				counter++
				fingerprintUser[fp] = userID
			}
			sessionUser[rec.SessionID] = userID
		}
		rec.UserID = userID
	}

	return records
}

func (r *FingerprintResolver) fingerprint(rec *types.InteractionRecord) string {
	referrer := rec.Referrer
	if referrer == "" {
		referrer = "direct"
	}
	bucket := rec.Timestamp.Hour() / r.bucketHours
	return fmt.Sprintf("%s_%s_%d", referrer, rec.Timestamp.Format(time.DateOnly), bucket)
}

// PassthroughResolver keeps the user ids already present on records,
// for deployments with an authenticated identity source.
type PassthroughResolver struct{}

// Resolve returns records unchanged.
func (PassthroughResolver) Resolve(records []types.InteractionRecord) []types.InteractionRecord {
	return records
}
