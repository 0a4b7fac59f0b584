package server

import (
	"context"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/hierfs/config"
	"github.com/brettbedarf/hierfs/filesystem"
	"github.com/brettbedarf/hierfs/internal/fusefs"
	"github.com/brettbedarf/hierfs/requests"
	"github.com/brettbedarf/hierfs/sources"
)

// HierFs contains the in-memory tree together with the source registry used
// to populate it and the FUSE server projecting it
type HierFs struct {
	*filesystem.FileSystem
	cfg     *config.Config
	sources *sources.Registry
	server  *fuse.Server
}

// New creates a HierFs instance given your config. All built-in content
// sources are registered.
func New(cfg *config.Config) *HierFs {
	reg := sources.NewRegistry()
	sources.RegisterBuiltins(reg, time.Duration(cfg.HTTPTimeout*float64(time.Second)))
	return &HierFs{
		FileSystem: filesystem.NewFS(cfg),
		cfg:        cfg,
		sources:    reg,
	}
}

// Sources returns the registry used by LoadNodes; register custom source
// types on it before loading
func (fs *HierFs) Sources() *sources.Registry {
	return fs.sources
}

// LoadNodes reads a tree definition file and adds its nodes
func (fs *HierFs) LoadNodes(ctx context.Context, path string) (requests.ApplyResult, error) {
	reqs, err := requests.LoadFile(ctx, path, fs.sources)
	if err != nil {
		return requests.ApplyResult{}, err
	}
	res := requests.Apply(fs.FileSystem, reqs)
	res.Failed += reqs.Skipped
	return res, nil
}

// Serve mounts and serves the filesystem at the given mountPoint.
func (fs *HierFs) Serve(mountPoint string) error {
	srv, err := fusefs.Mount(mountPoint, fs.FileSystem, fs.cfg)
	if err != nil {
		return err
	}
	fs.server = srv
	return nil
}

func (fs *HierFs) ServeAsync(mountPoint string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- fs.Serve(mountPoint)
		close(done)
	}()

	return done
}

// Wait blocks until the filesystem is unmounted
func (fs *HierFs) Wait() {
	if fs.server != nil {
		fs.server.Wait()
	}
}

// Unmount cleanly unmounts the filesystem.
func (fs *HierFs) Unmount() error {
	if fs.server == nil {
		return nil
	}
	return fs.server.Unmount()
}
