package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/osint-analysis-backend/internal/conf"
	"github.com/lk2023060901/osint-analysis-backend/internal/export"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/database"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/store"
)

func TestNewData_Memory(t *testing.T) {
	cfg := &conf.Config{Storage: store.Config{Backend: store.BackendMemory}}
	d, cleanup, err := NewData(cfg, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &store.Memory{}, d.Store)
	assert.Nil(t, d.DB)
	assert.Nil(t, d.Redis)
}

func TestNewData_SQLite(t *testing.T) {
	dbCfg := database.DefaultConfig()
	dbCfg.Dialect = database.DialectSQLite
	dbCfg.Path = filepath.Join(t.TempDir(), "osint.db")

	cfg := &conf.Config{
		Storage:  store.Config{Backend: store.BackendDatabase},
		Database: *dbCfg,
	}
	d, cleanup, err := NewData(cfg, logger.NewNop())
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, d.Store.Set(ctx, "investigation:1", []byte(`{}`)))
	got, err := d.Store.Get(ctx, "investigation:1")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestNewExportSink(t *testing.T) {
	log := logger.NewNop()

	sink, cleanup, err := NewExportSink(&conf.Config{}, log)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, sink)

	dir := filepath.Join(t.TempDir(), "exports")
	sink, cleanup, err = NewExportSink(&conf.Config{Export: conf.ExportConfig{Backend: export.BackendLocal, Dir: dir}}, log)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &export.LocalSink{}, sink)
}
