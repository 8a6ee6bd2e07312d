package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/erikmagkekse/dshare/console"
	"github.com/erikmagkekse/dshare/model"
	"github.com/erikmagkekse/dshare/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServices struct {
	ensured []string
	err     error
}

func (f *fakeServices) EnsureRunning(_ context.Context, unit string) error {
	f.ensured = append(f.ensured, unit)
	return f.err
}

type serverFixture struct {
	srv      *Server
	runner   *utils.MockRunner
	services *fakeServices
	out      *bytes.Buffer
	file     string
	share    string
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	dir := t.TempDir()
	share := filepath.Join(dir, "share")
	require.NoError(t, os.Mkdir(share, 0755))

	f := &serverFixture{
		runner:   &utils.MockRunner{},
		services: &fakeServices{},
		out:      &bytes.Buffer{},
		file:     filepath.Join(dir, "exports"),
		share:    share,
	}
	f.srv = NewServer(f.file, NewExportfs("exportfs", f.runner), f.services, &console.Console{Out: f.out})
	return f
}

func (f *serverFixture) read(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.file)
	require.NoError(t, err)
	return string(data)
}

func TestAddExport(t *testing.T) {
	ctx := context.Background()

	t.Run("new export", func(t *testing.T) {
		f := newServerFixture(t)

		require.NoError(t, f.srv.AddExport(ctx, f.share, "10.0.0.0/24", ""))

		assert.Equal(t, f.share+" 10.0.0.0/24("+model.DefaultExportOptions+")\n", f.read(t))
		assert.Equal(t, []string{"exportfs -rav"}, f.runner.Commands())
		assert.Equal(t, []string{model.ServerUnit}, f.services.ensured)
		assert.Contains(t, f.out.String(), "Exports:")
		assert.Contains(t, f.out.String(), f.share)
	})

	t.Run("upsert keeps single entry", func(t *testing.T) {
		f := newServerFixture(t)

		require.NoError(t, f.srv.AddExport(ctx, f.share, "*", "rw"))
		require.NoError(t, f.srv.AddExport(ctx, f.share, "10.0.0.1", "rw"))
		require.NoError(t, f.srv.AddExport(ctx, f.share, "*", "ro"))

		assert.Equal(t, f.share+" *(ro)\n"+f.share+" 10.0.0.1(rw)\n", f.read(t))
	})

	t.Run("missing path", func(t *testing.T) {
		f := newServerFixture(t)

		err := f.srv.AddExport(ctx, filepath.Join(f.share, "nope"), "*", "")
		var se *model.ShareError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, model.ErrNotFound, se.Code)
		assert.NoFileExists(t, f.file)
		assert.Empty(t, f.runner.Calls)
	})

	t.Run("invalid client", func(t *testing.T) {
		f := newServerFixture(t)

		require.Error(t, f.srv.AddExport(ctx, f.share, "", ""))
		assert.NoFileExists(t, f.file)
	})

	t.Run("reload fails", func(t *testing.T) {
		f := newServerFixture(t)
		f.runner.Err = fmt.Errorf("exportfs: bad option")

		err := f.srv.AddExport(ctx, f.share, "*", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reload exports")
		assert.Empty(t, f.services.ensured)
	})

	t.Run("service fails", func(t *testing.T) {
		f := newServerFixture(t)
		f.services.err = fmt.Errorf("unit is failed")

		require.Error(t, f.srv.AddExport(ctx, f.share, "*", ""))
	})
}

func TestRemoveExport(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *serverFixture) {
		t.Helper()
		content := "/data 10.0.0.1(rw)\n/data2 10.0.0.1(rw)\n/data 10.0.0.2(rw)\n"
		require.NoError(t, os.WriteFile(f.file, []byte(content), 0644))
	}

	t.Run("single client", func(t *testing.T) {
		f := newServerFixture(t)
		seed(t, f)

		require.NoError(t, f.srv.RemoveExport(ctx, "/data", "10.0.0.1"))
		assert.Equal(t, "/data2 10.0.0.1(rw)\n/data 10.0.0.2(rw)\n", f.read(t))
		assert.Equal(t, []string{"exportfs -rav"}, f.runner.Commands())
	})

	t.Run("all clients exact path", func(t *testing.T) {
		f := newServerFixture(t)
		seed(t, f)

		require.NoError(t, f.srv.RemoveExport(ctx, "/data", model.AllClients))
		assert.Equal(t, "/data2 10.0.0.1(rw)\n", f.read(t))
	})

	t.Run("empty client means all", func(t *testing.T) {
		f := newServerFixture(t)
		seed(t, f)

		require.NoError(t, f.srv.RemoveExport(ctx, "/data2", ""))
		assert.Equal(t, "/data 10.0.0.1(rw)\n/data 10.0.0.2(rw)\n", f.read(t))
	})

	t.Run("not found is a no-op", func(t *testing.T) {
		f := newServerFixture(t)
		seed(t, f)
		before := f.read(t)

		require.NoError(t, f.srv.RemoveExport(ctx, "/data", "10.9.9.9"))
		assert.Equal(t, before, f.read(t))
		assert.Empty(t, f.runner.Calls)
		assert.Empty(t, f.out.String())
	})
}

func TestEntriesAndDisplay(t *testing.T) {
	f := newServerFixture(t)

	require.NoError(t, f.srv.Display(context.Background()))
	assert.Contains(t, f.out.String(), "Exports:")

	require.NoError(t, os.WriteFile(f.file, []byte("/srv *(ro)\n"), 0644))
	entries, err := f.srv.Entries()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "/srv", Client: "*", Options: "ro"}}, entries)
}
