package fusefs

import (
	"fmt"
	"os"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/hierfs/config"
	"github.com/brettbedarf/hierfs/filesystem"
	"github.com/brettbedarf/hierfs/internal/util"
)

// Options converts cfg into go-fuse mount options
func Options(cfg *config.Config) *fs.Options {
	attrTimeout := seconds(cfg.AttrTimeout)
	entryTimeout := seconds(cfg.EntryTimeout)
	return &fs.Options{
		MountOptions: gofuse.MountOptions{
			Name:   cfg.Name,
			FsName: cfg.FsName,
			Debug:  cfg.Debug || cfg.LogLvl == util.TraceLevel,
			Logger: util.NewLogLogger("FuseServer", util.TraceLevel),
		},
		AttrTimeout:  &attrTimeout,
		EntryTimeout: &entryTimeout,
		UID:          uint32(os.Getuid()),
		GID:          uint32(os.Getgid()),
	}
}

// Mount serves tree at mountPoint and returns once the kernel has the mount
func Mount(mountPoint string, tree *filesystem.FileSystem, cfg *config.Config) (*gofuse.Server, error) {
	root := NewFS(tree, cfg).Root()
	server, err := fs.Mount(mountPoint, root, Options(cfg))
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", mountPoint, err)
	}
	return server, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
