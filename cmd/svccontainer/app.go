package main

import (
	"log/slog"

	"github.com/habiliai/svccontainer/config"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/errors"
	"github.com/habiliai/svccontainer/internal/mylog"
	"github.com/habiliai/svccontainer/journal"
	"github.com/habiliai/svccontainer/services"
	"gorm.io/gorm"
)

type (
	rootParams struct {
		ConfigFile string
		EnvFile    string
	}

	app struct {
		conf     *config.Config
		logger   *slog.Logger
		db       *gorm.DB
		recorder *journal.Recorder
	}
)

// newApp resolves the infrastructure services on a bootstrap container so
// that the demo containers can record into the journal from their first build.
func newApp(params *rootParams) (*app, error) {
	conf, err := config.LoadWithEnvFile(params.ConfigFile, params.EnvFile)
	if err != nil {
		return nil, err
	}

	boot := container.NewErased()
	config.Set(boot, conf)

	logger := mylog.Get(boot)
	db, err := journal.TryGet(boot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal")
	}

	return &app{
		conf:     conf,
		logger:   logger,
		db:       db,
		recorder: journal.NewRecorder(db, logger),
	}, nil
}

func (a *app) options() []container.Option {
	return append(
		a.conf.ContainerOptions(),
		container.WithLogger(a.logger),
		container.WithObserver(a.recorder.Observe),
	)
}

func (a *app) newErased() *container.Erased {
	return container.NewErased(a.options()...)
}

func (a *app) newClosed() *services.Closed {
	return services.NewClosedContainer(a.options()...)
}

func (a *app) Close() error {
	return journal.Close(a.db)
}
