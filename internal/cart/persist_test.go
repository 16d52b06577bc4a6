package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(item("g1", "9", 2, "79.90")))
	require.NoError(t, c.Add(item("g2", "7", 1, "29.90")))
	require.NoError(t, c.Add(item("g1", "10", 4, "79.90")))

	data, err := encodeSnapshot(c)
	require.NoError(t, err)

	got, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Equal(t, c.Items, got.Items)
}

func TestDecodeSnapshot_CorruptInputsYieldEmptyCartDownstream(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"not an object", `"not an object"`, true},
		{"empty object", `{}`, false},
		{"items not an array", `{"items":"not an array"}`, true},
		{"truncated", `{"items":[`, true},
		{"empty items", `{"items":[]}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeSnapshot([]byte(tc.raw))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got.Items)
			require.Empty(t, got.Items)
		})
	}
}

func TestService_LoadDegradesCorruptSnapshotToEmpty(t *testing.T) {
	ctx := context.Background()
	p := NewMemPersister()
	require.NoError(t, p.Write(ctx, "u1", []byte(`{"items":"not an array"}`)))

	svc := NewService(p, zap.NewNop())

	c := svc.Load(ctx, "u1")
	require.NotNil(t, c.Items)
	require.Empty(t, c.Items)
}

func TestService_LoadAbsentOwnerIsEmpty(t *testing.T) {
	svc := NewService(NewMemPersister(), zap.NewNop())

	c := svc.Load(context.Background(), "nobody")
	require.NotNil(t, c.Items)
	require.Empty(t, c.Items)
}

func TestService_MutationsPersistAcrossLoads(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemPersister(), zap.NewNop())

	_, err := svc.Add(ctx, "u1", item("g1", "9", 1, "79.90"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", item("g1", "9", 2, "79.90"))
	require.NoError(t, err)

	c := svc.Load(ctx, "u1")
	require.Len(t, c.Items, 1)
	require.Equal(t, 3, c.Items[0].Quantity)

	svc.SetQuantity(ctx, "u1", ItemKey{"g1", "9"}, 5)
	require.Equal(t, 5, svc.Load(ctx, "u1").Items[0].Quantity)

	svc.Remove(ctx, "u1", ItemKey{"g1", "9"})
	require.Empty(t, svc.Load(ctx, "u1").Items)
}

func TestService_CartsAreIsolatedPerOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemPersister(), zap.NewNop())

	_, err := svc.Add(ctx, "u1", item("g1", "9", 1, "79.90"))
	require.NoError(t, err)

	require.Empty(t, svc.Load(ctx, "u2").Items)
}

func TestService_ClearEmptiesPersistedState(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemPersister(), zap.NewNop())

	_, err := svc.Add(ctx, "u1", item("g1", "9", 1, "79.90"))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))
	require.Empty(t, svc.Load(ctx, "u1").Items)
}

func TestService_Replace(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemPersister(), zap.NewNop())

	_, err := svc.Add(ctx, "u1", item("old", "", 9, "1.00"))
	require.NoError(t, err)

	c, err := svc.Replace(ctx, "u1", []LineItem{
		item("g1", "9", 1, "79.90"),
		item("g1", "9", 2, "79.90"),
		item("g2", "7", 1, "29.90"),
	})
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	require.Equal(t, 3, c.Items[0].Quantity)

	got := svc.Load(ctx, "u1")
	require.Equal(t, c.Items, got.Items)
}

type failingPersister struct{ MemPersister }

func (f *failingPersister) Write(ctx context.Context, owner string, data []byte) error {
	return errors.New("disk on fire")
}

func TestService_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&failingPersister{}, zap.NewNop())

	c, err := svc.Add(ctx, "u1", item("g1", "9", 1, "79.90"))
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
}
