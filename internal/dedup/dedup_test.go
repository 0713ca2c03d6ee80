package dedup

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StanGar30/freelance-bot-ai/internal/job"
)

func TestFilterDropsNotifiedIdentities(t *testing.T) {
	seen := job.Posting{Source: "FL.ru", URL: "https://site.example/jobs/1", Title: "Seen"}
	fresh := job.Posting{Source: "FL.ru", URL: "https://site.example/jobs/2", Title: "Fresh"}

	notified := mapset.NewSet[job.Identity]()
	notified.Add(seen.Identity())

	result := Filter(notified, []job.Posting{seen, fresh})

	require.Len(t, result, 1)
	assert.Equal(t, "Fresh", result[0].Title)
}

func TestFilterIsIdempotentAndDoesNotMutate(t *testing.T) {
	seen := job.Posting{Source: "FL.ru", URL: "https://site.example/jobs/1"}
	fresh := job.Posting{Source: "FL.ru", URL: "https://site.example/jobs/2"}
	batch := []job.Posting{seen, fresh}

	notified := mapset.NewSet[job.Identity]()
	notified.Add(seen.Identity())

	first := Filter(notified, batch)
	second := Filter(notified, batch)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, notified.Cardinality())
}

func TestFilterPreservesOrder(t *testing.T) {
	batch := []job.Posting{
		{Source: "FL.ru", URL: "u1"},
		{Source: "FL.ru", URL: "u2"},
		{Source: "FL.ru", URL: "u3"},
	}

	result := Filter(mapset.NewSet[job.Identity](), batch)

	require.Len(t, result, 3)
	for i, p := range result {
		assert.Equal(t, batch[i].URL, p.URL)
	}
}

func TestFilterFallbackIdentityKeepsDistinctPostings(t *testing.T) {
	a := job.Posting{Source: "FL.ru", Title: "no title", Description: "first task"}
	b := job.Posting{Source: "FL.ru", Title: "no title", Description: "second task"}

	notified := mapset.NewSet[job.Identity]()
	notified.Add(a.Identity())

	result := Filter(notified, []job.Posting{a, b})

	require.Len(t, result, 1)
	assert.Equal(t, "second task", result[0].Description)
}
