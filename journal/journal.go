package journal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/habiliai/svccontainer/config"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const Key = "journal.db"

// Entry is one completed construction of a service.
type Entry struct {
	gorm.Model

	ContainerID    uuid.UUID `gorm:"type:text;index"`
	Name           string    `gorm:"index"`
	DurationMicros int64
	Dependencies   datatypes.JSONSlice[string]
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal %s", dsn)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, errors.Wrapf(err, "failed to migrate journal")
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrapf(err, "failed to get db")
	}
	if err := sqlDB.Close(); err != nil {
		return errors.Wrapf(err, "failed to close db")
	}

	return nil
}

// Get opens the journal named by the container's configuration.
func Get(c *container.Erased) *gorm.DB {
	return container.Build(c, Key, build)
}

func TryGet(c *container.Erased) (*gorm.DB, error) {
	return container.TryBuild(c, Key, build)
}

func build(c *container.Erased) *gorm.DB {
	db, err := Open(config.Get(c).JournalDSN)
	if err != nil {
		panic(err)
	}
	return db
}

func List(ctx context.Context, db *gorm.DB, containerID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	if err := db.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list journal entries")
	}

	return entries, nil
}

// ListContainers returns the ids of every container that recorded a build,
// most recent first.
func ListContainers(ctx context.Context, db *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).
		Model(&Entry{}).
		Select("container_id").
		Group("container_id").
		Order("MAX(id) DESC").
		Pluck("container_id", &ids).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list containers")
	}

	return ids, nil
}

type Recorder struct {
	db          *gorm.DB
	containerID uuid.UUID
	logger      *slog.Logger
}

func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{
		db:          db,
		containerID: uuid.New(),
		logger:      logger,
	}
}

func (r *Recorder) ContainerID() uuid.UUID {
	return r.containerID
}

// Observe records e. Use it with container.WithObserver.
func (r *Recorder) Observe(e container.BuildEvent) {
	entry := Entry{
		ContainerID:    r.containerID,
		Name:           e.Name,
		DurationMicros: e.Duration.Microseconds(),
		Dependencies:   datatypes.JSONSlice[string](e.Dependencies),
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.logger.Warn("failed to record build", "name", e.Name, "err", err)
	}
}
