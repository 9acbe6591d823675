// Package wire provides dependency injection for the veganaut application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	cliadapter "github.com/example/veganaut/internal/adapters/cli"
	"github.com/example/veganaut/internal/adapters/sqlite"
	"github.com/example/veganaut/internal/app"
	"github.com/example/veganaut/internal/config"
	"github.com/example/veganaut/internal/db"
	"github.com/example/veganaut/internal/ports/primary"
)

var (
	cfg          *config.Config
	visitService primary.VisitService
	logService   primary.LogService
	cfgOnce      sync.Once
	once         sync.Once
)

// Config returns the resolved configuration for the working directory.
func Config() *config.Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// VisitService returns the singleton VisitService instance.
func VisitService() primary.VisitService {
	once.Do(initServices)
	return visitService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

func loadConfig() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.Resolve(cwd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()
	db.SetPath(c.DBPath)

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) share the audit log writer
	logRepo := sqlite.NewVisitLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(logRepo)
	visitRepo := sqlite.NewVisitRepository(database, logWriter)
	submissionRepo := sqlite.NewSubmissionRepository(database, logWriter)

	visitService = app.NewVisitService(visitRepo, submissionRepo, app.VisitSettings{
		PointsCap:     c.PointsCap,
		StrictFinish:  c.StrictFinish,
		DefaultPlayer: c.PlayerID,
		DefaultTeam:   c.Team,
	})
	logService = app.NewLogService(logRepo)
}

// VisitAdapter returns a new VisitAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func VisitAdapter() *cliadapter.VisitAdapter {
	return VisitAdapterWithOutput(os.Stdout)
}

// VisitAdapterWithOutput returns a new VisitAdapter writing to the given output.
func VisitAdapterWithOutput(out io.Writer) *cliadapter.VisitAdapter {
	once.Do(initServices)
	return cliadapter.NewVisitAdapter(visitService, out)
}
