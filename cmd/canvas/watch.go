package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/KevinPriv/canvas-lang/core/astfmt"
)

// watchSession re-renders one script. Saves that leave the parsed program
// unchanged are skipped by comparing fingerprints.
type watchSession struct {
	app     *app
	path    string
	svgPath string
	last    string // Fingerprint of the last program run
}

// reload parses the script and renders it if the program changed.
// ran reports whether the program was executed.
func (s *watchSession) reload(ctx context.Context) (ran bool, err error) {
	program, err := s.app.load(s.path)
	if err != nil {
		return false, err
	}

	fingerprint, err := astfmt.Fingerprint(program)
	if err != nil {
		return false, err
	}
	if fingerprint == s.last {
		s.app.logger.Debug("program unchanged, skipping run", "path", s.path, "fingerprint", fingerprint)
		return false, nil
	}
	s.last = fingerprint

	s.app.logger.Info("running", "path", s.path, "fingerprint", fingerprint)
	svg, err := s.app.render(ctx, program)
	if err != nil {
		return true, err
	}
	return true, s.app.writeSVG(svg, s.svgPath)
}

// watch renders path, then again on every write until ctx is done.
// Script errors are reported and watching continues.
func (a *app) watch(ctx context.Context, path, svgPath string) error {
	if path == "-" {
		return &CLIError{
			Type:    "usage",
			Message: "--watch needs a script file",
			Hint:    "pass a file path instead of reading from stdin",
		}
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot start watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file on save, so the directory is watched
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("cannot watch %s", path),
			Details: err.Error(),
		}
	}

	session := &watchSession{app: a, path: path, svgPath: svgPath}
	a.reportWatch(session.reload(ctx))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.reportWatch(session.reload(ctx))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		}
	}
}

func (a *app) reportWatch(_ bool, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	FormatError(a.stderr, err, a.useColor)
}
