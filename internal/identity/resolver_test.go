package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func rec(sessionID, referrer string, ts time.Time) types.InteractionRecord {
	return types.InteractionRecord{
		SessionID: sessionID,
		Referrer:  referrer,
		Timestamp: ts,
		EventType: "search",
	}
}

func TestFingerprintResolverGroupsByReferrerAndBucket(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	records := []types.InteractionRecord{
		// same referrer, same 4h bucket -> same synthetic user
		rec("s1", "google.com", day.Add(9*time.Hour)),
		rec("s2", "google.com", day.Add(10*time.Hour)),
		// same referrer, different bucket -> different user
		rec("s3", "google.com", day.Add(14*time.Hour)),
		// different referrer, same bucket -> different user
		rec("s4", "bing.com", day.Add(9*time.Hour)),
	}

	resolved := NewFingerprintResolver(4).Resolve(records)

	assert.Equal(t, resolved[0].UserID, resolved[1].UserID)
	assert.NotEqual(t, resolved[0].UserID, resolved[2].UserID)
	assert.NotEqual(t, resolved[0].UserID, resolved[3].UserID)
}

func TestFingerprintResolverIDsAreFirstSeenOrdered(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	records := []types.InteractionRecord{
		rec("s1", "google.com", day.Add(1*time.Hour)),
		rec("s2", "bing.com", day.Add(1*time.Hour)),
		rec("s3", "", day.Add(1*time.Hour)),
	}

	resolved := NewFingerprintResolver(4).Resolve(records)

	assert.Equal(t, "user_00001", resolved[0].UserID)
	assert.Equal(t, "user_00002", resolved[1].UserID)
	assert.Equal(t, "user_00003", resolved[2].UserID)
}

func TestFingerprintResolverSessionSticky(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	// the session's later records cross a bucket boundary but keep the
	// identity of the session's first record
	records := []types.InteractionRecord{
		rec("s1", "google.com", day.Add(3*time.Hour+50*time.Minute)),
		rec("s1", "google.com", day.Add(4*time.Hour+10*time.Minute)),
	}

	resolved := NewFingerprintResolver(4).Resolve(records)

	require.Equal(t, resolved[0].UserID, resolved[1].UserID)
}

func TestFingerprintResolverEmptyReferrerIsDirect(t *testing.T) {
	day := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	records := []types.InteractionRecord{
		rec("s1", "", day),
		rec("s2", "", day.Add(30*time.Minute)),
	}

	resolved := NewFingerprintResolver(4).Resolve(records)

	// both fingerprints collapse onto the "direct" pseudo-referrer
	assert.Equal(t, resolved[0].UserID, resolved[1].UserID)
}

func TestFingerprintResolverSkipsRecordsWithoutSession(t *testing.T) {
	records := []types.InteractionRecord{
		{Timestamp: time.Now(), EventType: "search"},
	}

	resolved := NewFingerprintResolver(4).Resolve(records)
	assert.Empty(t, resolved[0].UserID)
}

func TestNewFingerprintResolverClampsBucketWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{name: "zero falls back to default", width: 0, expected: 4},
		{name: "negative falls back to default", width: -3, expected: 4},
		{name: "over a day falls back to default", width: 48, expected: 4},
		{name: "valid width kept", width: 6, expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFingerprintResolver(tt.width)
			assert.Equal(t, tt.expected, r.bucketHours)
		})
	}
}

func TestPassthroughResolver(t *testing.T) {
	records := []types.InteractionRecord{
		{UserID: "alice", SessionID: "s1", Timestamp: time.Now()},
	}

	resolved := PassthroughResolver{}.Resolve(records)
	assert.Equal(t, "alice", resolved[0].UserID)
}
