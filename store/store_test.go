package store

// Tests that compare resource trees use testify; assert.Equal reports
// the differing fields.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fv "github.com/gofhir/resources"
	"github.com/gofhir/resources/datatype"
	"github.com/gofhir/resources/primitive"
	"github.com/gofhir/resources/resource"
)

func samplePatient(family string) *resource.Patient {
	p := resource.NewPatient()
	p.AddName(datatype.NewHumanName(primitive.MustCode("official"), "", family))
	p.Gender = datatype.Ptr(primitive.MustCode("other"))
	return p
}

// exercise runs the Store contract against s.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, resource.TypePatient, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		p := samplePatient("Chalmers")
		require.NoError(t, s.Put(ctx, "p1", p))

		got, err := s.Get(ctx, resource.TypePatient, "p1")
		require.NoError(t, err)
		assert.Equal(t, p, got)

		// The store holds its own copy.
		p.AddPhoto("changed")
		got, err = s.Get(ctx, resource.TypePatient, "p1")
		require.NoError(t, err)
		assert.Empty(t, got.(*resource.Patient).Photo)
	})

	t.Run("replace", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "p1", samplePatient("Windsor")))
		got, err := s.Get(ctx, resource.TypePatient, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Windsor", got.(*resource.Patient).Name[0].Family)
	})

	t.Run("types are separate", func(t *testing.T) {
		a := resource.NewAccount()
		a.Status = datatype.Ptr(primitive.MustCode("active"))
		require.NoError(t, s.Put(ctx, "p1", a))

		got, err := s.Get(ctx, resource.TypeAccount, "p1")
		require.NoError(t, err)
		assert.Equal(t, a, got)

		got, err = s.Get(ctx, resource.TypePatient, "p1")
		require.NoError(t, err)
		assert.IsType(t, &resource.Patient{}, got)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "p3", samplePatient("Three")))
		require.NoError(t, s.Put(ctx, "p2", samplePatient("Two")))

		entries, err := s.List(ctx, resource.TypePatient)
		require.NoError(t, err)
		var ids []string
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"p1", "p2", "p3"}, ids)

		entries, err = s.List(ctx, "Observation")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, resource.TypePatient, "p2"))
		require.NoError(t, s.Delete(ctx, resource.TypePatient, "p2"))
		require.NoError(t, s.Delete(ctx, "Observation", "none"))

		_, err := s.Get(ctx, resource.TypePatient, "p2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		assert.ErrorIs(t, s.Put(ctx, "bad id", samplePatient("X")), ErrInvalidID)
		assert.ErrorIs(t, s.Put(ctx, "", samplePatient("X")), ErrInvalidID)
		assert.ErrorIs(t, s.Put(ctx, "p9", nil), ErrNilResource)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exercise(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Get(ctx, resource.TypePatient, "p1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "fhir.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	exercise(t, s)
	require.NoError(t, s.Close())

	// Data survives reopening.
	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), resource.TypePatient)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStoreMetrics(t *testing.T) {
	m := fv.NewMetrics()
	s := NewMemoryStore(WithMetrics(m))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, NewID(), samplePatient("A")))
	entries, err := s.List(ctx, resource.TypePatient)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, ValidID(entries[0].ID))

	assert.Equal(t, uint64(1), m.EncodesTotal())
	assert.Equal(t, uint64(1), m.DecodesTotal())
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("example"))
	assert.True(t, ValidID("a-B.9"))
	assert.True(t, ValidID(strings.Repeat("a", 64)))
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID(strings.Repeat("a", 65)))
	assert.False(t, ValidID("a_b"))
	assert.False(t, ValidID("a/b"))
}

// fakePG is an in-memory stand-in for the pgConn used by PostgresStore.
type fakePG struct {
	rows    map[[2]string][]byte
	execErr error
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	return nil
}

type fakeRows struct {
	ids  []string
	docs [][]byte
	i    int
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.ids)
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() {}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.ids[r.i-1]
	*dest[1].(*[]byte) = r.docs[r.i-1]
	return nil
}

func (f *fakePG) QueryRow(_ context.Context, _ string, args ...any) pgRow {
	data, ok := f.rows[[2]string{args[0].(string), args[1].(string)}]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func (f *fakePG) Query(_ context.Context, _ string, args ...any) (pgRows, error) {
	rt := args[0].(string)
	rows := &fakeRows{}
	for _, id := range sortedIDs(f.rows, rt) {
		rows.ids = append(rows.ids, id)
		rows.docs = append(rows.docs, f.rows[[2]string{rt, id}])
	}
	return rows, nil
}

func (f *fakePG) Exec(_ context.Context, sql string, args ...any) error {
	if f.execErr != nil {
		return f.execErr
	}
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		f.rows[[2]string{args[0].(string), args[1].(string)}] = args[2].([]byte)
	case strings.HasPrefix(sql, "DELETE"):
		delete(f.rows, [2]string{args[0].(string), args[1].(string)})
	}
	return nil
}

func (f *fakePG) Close() {}

func sortedIDs(rows map[[2]string][]byte, rt string) []string {
	var ids []string
	for k := range rows {
		if k[0] == rt {
			ids = append(ids, k[1])
		}
	}
	slices.Sort(ids)
	return ids
}

func TestPostgresStoreWithFake(t *testing.T) {
	fake := &fakePG{rows: make(map[[2]string][]byte)}
	s := &PostgresStore{base: newBase(nil), db: fake}
	require.NoError(t, s.Migrate(context.Background()))
	exercise(t, s)

	fake.execErr = errors.New("connection reset")
	err := s.Put(context.Background(), "p5", samplePatient("E"))
	assert.ErrorIs(t, err, fake.execErr)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("FHIRRES_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FHIRRES_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.db.Exec(ctx, `DELETE FROM fhir_resources`))
	exercise(t, s)
}
