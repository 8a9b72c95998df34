package session

import (
	"path/filepath"

	"github.com/teranos/efmig/config"
	"github.com/teranos/efmig/discover"
	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/logger"
)

// maxSetupAttempts bounds load-validate-rediscover cycles so a persistently
// broken filesystem ends in a setup error instead of looping.
const maxSetupAttempts = 2

// Chooser picks one of several options.
type Chooser interface {
	Choose(title string, options []string) (int, error)
}

// Setup resolves the projects to operate on.
type Setup struct {
	Store   *config.Store
	Root    string
	Scan    discover.Options
	Chooser Chooser
	Probe   config.Probe
}

// Run loads the persisted configuration and validates it. A missing,
// unreadable or stale configuration is deleted and rediscovered from Root.
// Errors are setup errors: the process cannot continue.
func (s *Setup) Run() (config.Projects, error) {
	log := logger.Named("setup")
	probe := s.Probe
	if probe == nil {
		probe = config.OSProbe
	}

	var lastErr error
	for attempt := 1; attempt <= maxSetupAttempts; attempt++ {
		p, err := s.Store.Load()
		if err == nil {
			if err = config.Validate(p, probe); err == nil {
				log.Infow("Using project configuration",
					logger.FieldPath, s.Store.Path,
					logger.FieldAttempt, attempt)
				return p, nil
			}
		}

		switch {
		case errors.IsNotFoundError(err):
			log.Infow("No project configuration, running discovery", logger.FieldPath, s.Store.Path)
		case errors.IsConfiguration(err):
			log.Warnw("Discarding stale project configuration",
				logger.FieldPath, s.Store.Path,
				logger.FieldError, err.Error(),
				logger.FieldAttempt, attempt)
			if derr := s.Store.Delete(); derr != nil {
				return config.Projects{}, errors.Mark(derr, errors.ErrSetup)
			}
		default:
			return config.Projects{}, errors.Mark(err, errors.ErrSetup)
		}
		lastErr = err
		if attempt == maxSetupAttempts {
			break
		}

		discovered, err := s.discover()
		if err != nil {
			return config.Projects{}, err
		}
		if err := s.Store.Save(discovered); err != nil {
			return config.Projects{}, errors.Mark(err, errors.ErrSetup)
		}
	}

	return config.Projects{}, errors.WithHint(
		errors.Mark(
			errors.Wrapf(lastErr, "project configuration still invalid after %d attempts", maxSetupAttempts),
			errors.ErrSetup),
		"delete "+s.Store.Path+" and check that both projects exist")
}

// Reset deletes the persisted configuration and runs setup again.
func (s *Setup) Reset() (config.Projects, error) {
	if err := s.Store.Delete(); err != nil {
		return config.Projects{}, err
	}
	return s.Run()
}

func (s *Setup) discover() (config.Projects, error) {
	root := s.Root
	if root == "" {
		root = "."
	}
	c, err := discover.Scan(root, s.Scan)
	if err != nil {
		return config.Projects{}, err
	}

	startup, single := c.Single()
	if !single {
		if s.Chooser == nil {
			return config.Projects{}, errors.NewSetup("%d startup project candidates and no way to choose", len(c.Startup))
		}
		labels := make([]string, len(c.Startup))
		for i, m := range c.Startup {
			labels[i] = relative(root, m)
		}
		i, err := s.Chooser.Choose("Select the startup project:", labels)
		if err != nil {
			return config.Projects{}, errors.Mark(errors.Wrap(err, "failed to choose startup project"), errors.ErrSetup)
		}
		startup = c.Startup[i]
	}

	logger.Named("setup").Infow("Discovered projects",
		logger.FieldStartupProject, startup,
		logger.FieldDataProject, c.DataProject)
	return config.Projects{StartupProjectPath: startup, DataProjectPath: c.DataProject}, nil
}

func relative(root, path string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(abs, path); err == nil {
		return rel
	}
	return path
}
