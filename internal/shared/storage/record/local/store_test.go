package local

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-insight-backend/internal/shared/storage/record"
)

func TestPutGetDeleteRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "analyses/a1.json", []byte(`{"id":"a1"}`)))

	payload, err := s.Get(ctx, "analyses/a1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a1"}`, string(payload))

	require.NoError(t, s.Delete(ctx, "analyses/a1.json"))
	_, err = s.Get(ctx, "analyses/a1.json")
	assert.True(t, errors.Is(err, record.ErrNotFound))
}

func TestDeleteMissingKeyIsNoError(t *testing.T) {
	s := New(t.TempDir())
	assert.NoError(t, s.Delete(context.Background(), "analyses/ghost.json"))
}

func TestListKeysByPrefix(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "analyses/a1.json", []byte("1")))
	require.NoError(t, s.Put(ctx, "analyses/a2.json", []byte("2")))
	require.NoError(t, s.Put(ctx, "other/b1.json", []byte("3")))

	keys, err := s.ListKeys(ctx, "analyses/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"analyses/a1.json", "analyses/a2.json"}, keys)

	keys, err = s.ListKeys(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRejectsTraversalKeys(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, s.Put(ctx, "../escape.json", []byte("x")))
	_, err := s.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, record.ErrNotFound)
}
