package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CatalogEditor/internal/catalog"
	"CatalogEditor/internal/config"
	"CatalogEditor/internal/kv"
)

func memOpener(t *testing.T) (openFunc, *kv.MemStore) {
	t.Helper()
	mem := kv.NewMemStore()

	return func(ctx context.Context) (*session, config.Config, error) {
		store := catalog.NewStore(catalog.Deps{Snapshots: catalog.NewKVSnapshotter(mem, "")})
		store.Load(ctx)
		return &session{store: store, close: func() error { return nil }}, config.Default(), nil
	}, mem
}

func run(t *testing.T, open openFunc, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmdWith(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogctl_ListSeed(t *testing.T) {
	open, _ := memOpener(t)

	out, err := run(t, open, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "₹75,000")
	assert.Contains(t, out, "Phone")
}

func TestCatalogctl_AddPersistsAcrossInvocations(t *testing.T) {
	open, _ := memOpener(t)

	_, err := run(t, open, "add", "Mouse", "500")
	require.NoError(t, err)

	out, err := run(t, open, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mouse")
	assert.Contains(t, out, "₹500")
}

func TestCatalogctl_AddRejectsInvalid(t *testing.T) {
	open, mem := memOpener(t)

	_, err := run(t, open, "add", "Mouse", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)
	assert.Contains(t, err.Error(), "price")

	raw, err := mem.Get(context.Background(), catalog.DefaultKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Mouse")
}

func TestCatalogctl_UpdateAndRemove(t *testing.T) {
	open, _ := memOpener(t)

	out, err := run(t, open, "update", "1757236679491", "Laptop Pro", "80000")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop Pro")
	assert.Contains(t, out, "₹80,000")

	_, err = run(t, open, "remove", "1757236679442")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Are you sure you want to delete "Phone"?`)

	out, err = run(t, open, "remove", "--yes", "1757236679442")
	require.NoError(t, err)
	assert.NotContains(t, out, "Phone")

	_, err = run(t, open, "remove", "nope")
	assert.ErrorContains(t, err, "bad id")
}

func TestCatalogctl_NegativePriceIsValidationError(t *testing.T) {
	open, _ := memOpener(t)

	_, err := run(t, open, "add", "Mouse", "-5")
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)

	_, err = run(t, open, "update", "1757236679491", "Laptop", "-1")
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)

	out, err := run(t, open, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mouse")
	assert.Contains(t, out, "₹75,000")
}
