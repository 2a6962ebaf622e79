package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/raphi011/gtrim/internal/config"
	"github.com/raphi011/gtrim/internal/git"
	"github.com/raphi011/gtrim/internal/log"
	"github.com/raphi011/gtrim/internal/settings"
	"github.com/raphi011/gtrim/internal/store"
)

// env is the per-invocation state shared by all commands.
type env struct {
	Config    *config.Config
	Dir       string
	FileStore bool
}

type envKey struct{}

func withEnv(ctx context.Context, e *env) context.Context {
	return context.WithValue(ctx, envKey{}, e)
}

// envFromContext returns the attached env, or defaults for the working
// directory if none is attached.
func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	c := config.Default()
	return &env{Config: &c, Dir: "."}
}

func (e *env) backend() string {
	if e.FileStore {
		return config.BackendFile
	}
	if e.Config == nil || e.Config.Store.Backend == "" {
		return config.BackendGit
	}
	return e.Config.Store.Backend
}

// openStore returns the configuration store for e.Dir.
func (e *env) openStore(ctx context.Context) (store.Store, error) {
	if e.backend() == config.BackendFile {
		gitDir, err := git.FindGitDir(e.Dir)
		if err != nil {
			return nil, err
		}
		log.FromContext(ctx).Debugf("reading config files of %s", gitDir)
		return store.LoadFile(gitDir), nil
	}
	return git.NewConfigStore(e.Dir), nil
}

// repoConfig merges the repository's .gtrim.toml, if any, over the global
// config. Outside a repository the global config is returned.
func (e *env) repoConfig(ctx context.Context) (*config.Config, string) {
	global := e.Config
	if global == nil {
		c := config.Default()
		global = &c
	}

	gitDir, err := git.FindGitDir(e.Dir)
	if err != nil {
		return global, ""
	}
	root := gitDir
	if filepath.Base(gitDir) == ".git" {
		root = filepath.Dir(gitDir)
	}

	merged, err := config.ForRepo(global, root)
	if err != nil {
		log.FromContext(ctx).Warnf("%v (using global config)", err)
		return global, ""
	}
	return merged, root
}

// defaults returns the settings defaults for the current repository.
func (e *env) defaults(ctx context.Context) (settings.Defaults, error) {
	c, _ := e.repoConfig(ctx)
	d, err := settings.DefaultsFromConfig(c.Defaults)
	if err != nil {
		return settings.Defaults{}, fmt.Errorf("config: %w", err)
	}
	return d, nil
}
