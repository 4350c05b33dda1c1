package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-mdtodoc"
	"github.com/alnah/go-mdtodoc/internal/assets"
	"github.com/alnah/go-mdtodoc/internal/config"
	"github.com/alnah/go-mdtodoc/internal/hints"
)

// run compiles the positional paths with the merged configuration.
// Precedence: CLI flags > env vars > config file > defaults.
func run(ctx context.Context, paths []string, flags *cliFlags, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig(env.Stderr)

	cfg, err := loadConfig(flags, envCfg, env)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	// Checked first so a bad mode gets its own hint.
	if _, err := mdtodoc.ParseEmbedMode(cfg.Style.EmbedMode); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := buildOptions(cfg, flags, env)
	if err != nil {
		return err
	}
	proc, err := mdtodoc.NewProcessor(opts...)
	if err != nil {
		return err
	}

	if flags.watch {
		if !flags.common.quiet {
			fmt.Fprintln(env.Stdout, "Watching for changes (Ctrl+C to stop)...")
		}
		return proc.Watch(ctx, paths)
	}

	start := env.Now()
	results, err := proc.Process(ctx, paths)
	printSummary(results, flags, env, env.Now().Sub(start))
	return err
}

// loadConfig returns the config file named by --config or MDTODOC_CONFIG,
// or a copy of the environment's base config when neither is set.
func loadConfig(flags *cliFlags, envCfg *envConfig, env *Environment) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		base := config.DefaultConfig()
		if env.Config != nil {
			copied := *env.Config
			copied.Extensions = append([]string(nil), env.Config.Extensions...)
			base = &copied
		}
		return base, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		hint := ""
		if errors.Is(err, config.ErrConfigNotFound) {
			hint = hints.ForConfigNotFound(config.SearchPaths(name))
		}
		return nil, fmt.Errorf("loading config: %w%s", err, hint)
	}
	return cfg, nil
}

// mergeFlags applies flags given on the command line to cfg (CLI wins).
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	set := flags.changed

	if set["dest"] {
		cfg.Output.Dest = flags.dest
	}
	if set["join"] {
		cfg.Join = flags.join
	}
	if set["extension"] {
		cfg.Extensions = flags.extensions
	}
	if set["jobs"] {
		cfg.Compile.Jobs = flags.jobs
	}
	if set["sanitize"] {
		cfg.Compile.Sanitize = flags.sanitize
	}

	// Style
	if set["layout"] {
		cfg.Style.Layout = flags.style.layout
	}
	if set["theme"] {
		cfg.Style.Theme = flags.style.theme
	}
	if set["highlight-style"] {
		cfg.Style.HighlightStyle = flags.style.highlightStyle
	}
	if set["numbered-headings"] {
		cfg.Style.NumberedHeadings = flags.style.numberedHeadings
	}
	if set["code-copy"] {
		cfg.Style.CodeCopy = flags.style.codeCopy
	}
	if set["mermaid"] {
		cfg.Style.Mermaid = flags.style.mermaid
	}
	if set["embed-mode"] {
		cfg.Style.EmbedMode = flags.style.embedMode
	}

	// Assets
	if set["asset-path"] {
		cfg.Assets.Dir = flags.assets.assetPath
	}
	if set["cache-dir"] {
		cfg.Assets.CacheDir = flags.assets.cacheDir
	}
	if set["timeout"] {
		cfg.Net.Timeout = flags.assets.timeout
	}
}

// buildOptions turns a validated config into processor options.
func buildOptions(cfg *config.Config, flags *cliFlags, env *Environment) ([]mdtodoc.Option, error) {
	mode, err := mdtodoc.ParseEmbedMode(cfg.Style.EmbedMode)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Net.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []mdtodoc.Option{
		mdtodoc.WithStyle(mdtodoc.StyleOptions{
			Layout:           cfg.Style.Layout,
			Theme:            cfg.Style.Theme,
			HighlightStyle:   cfg.Style.HighlightStyle,
			NumberedHeadings: cfg.Style.NumberedHeadings,
			CodeCopy:         cfg.Style.CodeCopy,
			Mermaid:          cfg.Style.Mermaid,
			EmbedMode:        mode,
		}),
		mdtodoc.WithDest(cfg.Output.Dest),
		mdtodoc.WithJoin(cfg.Join),
		mdtodoc.WithJobs(cfg.Compile.Jobs),
		mdtodoc.WithSanitize(cfg.Compile.Sanitize),
		mdtodoc.WithAssetDir(cfg.Assets.Dir),
		mdtodoc.WithExtensionPaths(cfg.Extensions...),
		mdtodoc.WithErrorReporter(env.Stderr),
	}
	if !flags.common.quiet {
		opts = append(opts, mdtodoc.WithReporter(env.Stdout))
	}
	if timeout > 0 {
		opts = append(opts, mdtodoc.WithTimeout(timeout))
	}

	cacheDir := cfg.Assets.CacheDir
	if cacheDir == "" {
		cacheDir = env.CacheDir
	}
	if cacheDir != "" {
		opts = append(opts, mdtodoc.WithCacheDir(cacheDir))
	}
	return opts, nil
}

// printSummary reports batch totals. Per-file lines are written by the
// processor as each file completes.
func printSummary(results []mdtodoc.Result, flags *cliFlags, env *Environment, elapsed time.Duration) {
	if flags.common.quiet {
		return
	}

	var succeeded, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		succeeded++
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stdout, "Compiled %d file(s) in %v\n", succeeded, elapsed.Round(time.Millisecond))
	}
	if len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var timeoutErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, mdtodoc.ErrFetch) && errors.As(err, &timeoutErr) && timeoutErr.Timeout():
		return hints.ForTimeout()
	case errors.Is(err, mdtodoc.ErrFetch):
		return hints.ForFetch()
	case errors.Is(err, mdtodoc.ErrInvalidDest):
		return hints.ForOutputDirectory()
	case errors.Is(err, mdtodoc.ErrInvalidEmbedMode):
		return hints.ForEmbedMode()
	}

	var resErr *mdtodoc.ResourceError
	if errors.As(err, &resErr) {
		switch resErr.Kind {
		case assets.Layout.Name:
			return hints.ForStyleNotFound(assets.BuiltinNames(assets.Layout))
		case assets.Theme.Name:
			return hints.ForStyleNotFound(assets.BuiltinNames(assets.Theme))
		case mdtodoc.ExtensionKind:
			return hints.ForExtension()
		}
	}
	return ""
}
