package migration

import (
	"context"
	"fmt"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"go-micro.dev/v4/logger"
)

// Database is a schema part of the document store
type Database interface {
	GetMetaInfo(ctx context.Context) (*model.MetaInfo, error)
	SetMetaInfo(ctx context.Context, mi model.MetaInfo) error
	NormalizeCounters(ctx context.Context) (int, error)
	DropLegacyBookmarkFlag(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

type Migrator struct {
	CurrentVersion  string
	DatabaseVersion uint
	Database        Database

	mi *model.MetaInfo
}

type migratorFn func(ctx context.Context) error

func (m *Migrator) Run(ctx context.Context) error {
	var err error

	m.mi, err = m.Database.GetMetaInfo(ctx)
	if err != nil {
		return fmt.Errorf("get metainformation failed: %w", err)
	}

	if m.DatabaseVersion != m.mi.DatabaseVersion {
		logger.Warnf("Database schema version changed, migrate")
		if m.mi.DatabaseVersion > m.DatabaseVersion {
			return fmt.Errorf("cannot migrate database from future version: %d", m.mi.DatabaseVersion)
		}

		if err = m.migrateDatabase(ctx); err != nil {
			return fmt.Errorf("migrate database failed: %w", err)
		}
	}

	if m.CurrentVersion != m.mi.Version {
		m.mi.Version = m.CurrentVersion
		if err = m.Database.SetMetaInfo(ctx, *m.mi); err != nil {
			return fmt.Errorf("update meta information failed: %w", err)
		}
	}

	return nil
}

func (m *Migrator) migrateDatabase(ctx context.Context) error {
	migrations := m.getMigrations()
	if uint(len(migrations)) < m.DatabaseVersion {
		return fmt.Errorf("no migration to version %d", m.DatabaseVersion)
	}
	for cur := m.mi.DatabaseVersion; cur < m.DatabaseVersion; cur++ {
		if err := migrations[cur](ctx); err != nil {
			return fmt.Errorf("from %d to %d: %w", cur, cur+1, err)
		}
		m.mi.DatabaseVersion = cur + 1
		if err := m.Database.SetMetaInfo(ctx, *m.mi); err != nil {
			return fmt.Errorf("update meta information failed: %w", err)
		}
	}
	return nil
}

func (m *Migrator) getMigrations() []migratorFn {
	return []migratorFn{
		m.migrateDatabaseV0ToV1,
		m.migrateDatabaseV1ToV2,
	}
}

// migrateDatabaseV0ToV1 cleans records written without normalization
func (m *Migrator) migrateDatabaseV0ToV1(ctx context.Context) error {
	merged, err := m.Database.NormalizeCounters(ctx)
	if err != nil {
		return err
	}
	logger.Infof("Search counters normalized: %d", merged)

	return m.Database.DropLegacyBookmarkFlag(ctx)
}

// migrateDatabaseV1ToV2 adds unique keys, the store enforces one record per term and per movie
func (m *Migrator) migrateDatabaseV1ToV2(ctx context.Context) error {
	return m.Database.EnsureIndexes(ctx)
}
