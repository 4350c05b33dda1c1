package mdtodoc

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long a source must stay unchanged before it is
// recompiled.
const WatchDebounce = 500 * time.Millisecond

// Watch compiles paths once, then recompiles each source whenever it
// changes until ctx is done. In join mode any change re-joins and
// recompiles the whole batch.
//
// Input and Init errors are returned. Compile errors are written to the
// error reporter and do not stop watching.
func (p *Processor) Watch(ctx context.Context, paths []string) error {
	sources, err := ExpandSources(paths)
	if err != nil {
		return err
	}
	if err := p.checkDest(); err != nil {
		return err
	}
	if err := p.Init(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Parent directories are watched so editors that save by renaming a
	// temporary file are still seen.
	watched := make(map[string]string, len(sources)) // abs path -> source
	dirs := make(map[string]bool)
	for _, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return err
		}
		// Each re-join rewrites MERGED.md.
		if p.cfg.join && isMergedFile(abs) {
			continue
		}
		watched[abs] = src
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
		p.reportf("[watch] %s\n", src)
	}

	if _, err := p.compileAll(ctx, sources); err != nil {
		p.reportError(err)
	}

	fire := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			src, ok := watched[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			if t, ok := timers[src]; ok {
				t.Reset(WatchDebounce)
				continue
			}
			timers[src] = time.AfterFunc(WatchDebounce, func() {
				select {
				case fire <- src:
				case <-ctx.Done():
				}
			})

		case src := <-fire:
			if p.cfg.join {
				_, err = p.compileAll(ctx, sources)
			} else {
				err = p.compileFile(ctx, src).Err
			}
			if err != nil {
				p.reportError(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.reportError(fmt.Errorf("watcher error: %w", err))
		}
	}
}
