// Package sample generates synthetic interaction data for development
// deployments where no real logs exist yet.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

var eventTypes = []string{"search", "view", "download", "preview", "cite", "share"}

var referrers = []string{
	"https://google.com", "https://scholar.google.com", "https://bing.com",
	"https://duckduckgo.com", "", "https://catalog.internal",
}

var subjectPool = []string{
	"Earth Sciences", "Biological Sciences", "Information and Computing Sciences",
	"Engineering", "Medical and Health Sciences", "Environmental Sciences",
	"Mathematical Sciences", "Agricultural Sciences", "Physical Sciences",
	"Economics", "Studies in Human Society", "Chemical Sciences",
}

var titleFragments = []string{
	"Long-term observations of", "Annual survey data on", "High-resolution measurements of",
	"Curated records covering", "Experimental results for", "Field study of",
}

var titleTopics = []string{
	"coastal water temperature", "soil composition in agricultural regions",
	"urban air quality", "species distribution across habitats",
	"seismic activity", "household energy consumption",
	"hospital admission patterns", "rainfall variability",
}

// Dataset is one generated metadata row.
type Dataset struct {
	RecordID string
	Title    string
	Subjects []string
}

// Generator produces deterministic synthetic data for a given seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded for reproducible output.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Datasets generates metadata rows for count datasets.
func (g *Generator) Datasets(count int) []Dataset {
	datasets := make([]Dataset, count)
	for i := range datasets {
		nSubjects := 1 + g.rng.Intn(3)
		subjects := make([]string, 0, nSubjects)
		seen := make(map[string]struct{})
		for len(subjects) < nSubjects {
			s := subjectPool[g.rng.Intn(len(subjectPool))]
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			subjects = append(subjects, s)
		}

		datasets[i] = Dataset{
			RecordID: fmt.Sprintf("ds_%05d", i+1),
			Title: fmt.Sprintf("%s %s",
				titleFragments[g.rng.Intn(len(titleFragments))],
				titleTopics[g.rng.Intn(len(titleTopics))]),
			Subjects: subjects,
		}
	}
	return datasets
}

// Interactions generates raw interaction records resembling the real
// search logs: sessions of a few events, spread over the last 30 days,
// touching the given datasets. User ids are left empty; identity
// resolution assigns them during processing.
func (g *Generator) Interactions(userCount int, datasets []Dataset) []types.InteractionRecord {
	now := time.Now()
	records := make([]types.InteractionRecord, 0, userCount*12)

	sessionNo := 0
	for u := 0; u < userCount; u++ {
		// Sessions of one behavioral persona share a referrer and a
		// rough time-of-day habit, which is what the fingerprint
		// resolver keys on.
		referrer := referrers[g.rng.Intn(len(referrers))]
		habitHour := g.rng.Intn(24)

		sessions := 1 + g.rng.Intn(8)
		for s := 0; s < sessions; s++ {
			sessionNo++
			sessionID := fmt.Sprintf("session_%06d", sessionNo)

			day := g.rng.Intn(30)
			start := now.AddDate(0, 0, -day)
			start = time.Date(start.Year(), start.Month(), start.Day(), habitHour, g.rng.Intn(60), 0, 0, time.UTC)

			events := 2 + g.rng.Intn(10)
			for e := 0; e < events; e++ {
				ds := datasets[g.rng.Intn(len(datasets))]
				records = append(records, types.InteractionRecord{
					SessionID: sessionID,
					Timestamp: start.Add(time.Duration(e) * time.Duration(30+g.rng.Intn(120)) * time.Second),
					EventType: eventTypes[g.rng.Intn(len(eventTypes))],
					RecordID:  ds.RecordID,
					Referrer:  referrer,
				})
			}
		}
	}

	return records
}
