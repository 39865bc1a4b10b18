package forms

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "forms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStoreSaveAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.Save(ctx, Submission{
		ID: "a", FormName: ContactForm, Name: "Ann", Email: "ann@example.com", Message: "first",
		Fields: map[string]string{"name": "Ann"}, CreatedAt: base,
	}))
	require.NoError(t, store.Save(ctx, Submission{
		ID: "b", FormName: ContactForm, Name: "Bob", Email: "bob@example.com", Message: "second",
		Fields: map[string]string{"name": "Bob", "phone": "555"}, Site: "taxes", CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, store.Save(ctx, Submission{
		ID: "c", FormName: "newsletter", Email: "c@example.com", CreatedAt: base,
	}))

	subs, err := store.List(ctx, ContactForm, 10)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "b", subs[0].ID)
	assert.Equal(t, "taxes", subs[0].Site)
	assert.Equal(t, "555", subs[0].Fields["phone"])
	assert.True(t, base.Add(time.Minute).Equal(subs[0].CreatedAt))
	assert.Equal(t, "a", subs[1].ID)

	subs, err = store.List(ctx, ContactForm, 1)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestStoreListOrdersWithinSecond(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, Submission{ID: "older", FormName: ContactForm, CreatedAt: base}))
	require.NoError(t, store.Save(ctx, Submission{ID: "newer", FormName: ContactForm, CreatedAt: base.Add(500 * time.Millisecond)}))
	require.NoError(t, store.Save(ctx, Submission{ID: "newest", FormName: ContactForm, CreatedAt: base.Add(time.Second)}))

	subs, err := store.List(ctx, ContactForm, 10)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "newest", subs[0].ID)
	assert.Equal(t, "newer", subs[1].ID)
	assert.Equal(t, "older", subs[2].ID)
	assert.True(t, base.Add(500*time.Millisecond).Equal(subs[1].CreatedAt))
}

func TestStoreRejectsDuplicateAndEmptyID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, Submission{FormName: ContactForm}))

	sub := Submission{ID: "dup", FormName: ContactForm}
	require.NoError(t, store.Save(ctx, sub))
	assert.Error(t, store.Save(ctx, sub))
}
