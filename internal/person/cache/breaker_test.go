package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trs/internal/person/models"
	"trs/internal/person/store"
	id "trs/pkg/domain"
	"trs/pkg/platform/circuit"
)

// unreachable points at a port nothing listens on.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	people := store.NewInMemory()
	p := &models.Person{ID: id.NewPersonID(), TRN: "1234567", FirstName: "Ada", LastName: "Lovelace", Status: models.StatusActive}
	require.NoError(t, people.Save(ctx, p))

	breaker := circuit.New("person-cache", circuit.WithFailureThreshold(1), circuit.WithCooldown(time.Hour))
	dir := NewRedisDirectory(people, unreachable(t), WithBreaker(breaker))

	got, err := dir.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.True(t, breaker.IsOpen())

	got, err = dir.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	p.FirstName = "Augusta"
	require.NoError(t, dir.Save(ctx, p))
	got, err = dir.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
}

func TestWithoutBreakerRedisErrorsAreBypassed(t *testing.T) {
	ctx := context.Background()
	people := store.NewInMemory()
	p := &models.Person{ID: id.NewPersonID(), TRN: "7654321", FirstName: "Grace", LastName: "Hopper", Status: models.StatusActive}
	require.NoError(t, people.Save(ctx, p))

	dir := NewRedisDirectory(people, unreachable(t))
	got, err := dir.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FirstName)
}
