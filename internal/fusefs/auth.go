package fusefs

import (
	"context"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/hierfs/config"
	"github.com/brettbedarf/hierfs/filesystem"
	"github.com/brettbedarf/hierfs/internal/util"
)

// Authenticator maps the uid of a FUSE caller to a registered principal
type Authenticator struct {
	tree     *filesystem.FileSystem
	byUID    *xsync.Map[uint32, filesystem.PrincipalID]
	fallback *filesystem.Principal // used for unmapped uids; nil denies them
}

// NewAuthenticator builds the uid table from the principals declared in cfg.
// Declared principals missing from tree are logged and left unmapped.
func NewAuthenticator(tree *filesystem.FileSystem, cfg *config.Config) *Authenticator {
	logger := util.GetLogger("Authenticator")
	a := &Authenticator{
		tree:  tree,
		byUID: xsync.NewMap[uint32, filesystem.PrincipalID](),
	}

	for _, pc := range cfg.Principals {
		if pc.UID == nil {
			continue
		}
		p, ok := tree.PrincipalByName(pc.Name)
		if !ok {
			logger.Warn().Str("principal", pc.Name).Msg("Principal with uid is not registered")
			continue
		}
		a.byUID.Store(*pc.UID, p.ID())
	}

	if cfg.DefaultPrincipal != "" {
		p, ok := tree.PrincipalByName(cfg.DefaultPrincipal)
		if !ok {
			logger.Warn().Str("principal", cfg.DefaultPrincipal).Msg("Default principal is not registered; unmapped callers will be denied")
		}
		a.fallback = p
	}
	return a
}

// PrincipalForUID returns the principal mapped to uid, else the fallback
func (a *Authenticator) PrincipalForUID(uid uint32) (*filesystem.Principal, error) {
	if id, ok := a.byUID.Load(uid); ok {
		if p, ok := a.tree.Principal(id); ok {
			return p, nil
		}
	}
	if a.fallback != nil {
		return a.fallback, nil
	}
	return nil, filesystem.ErrUnknownPrincipal
}

// Principal resolves the caller carried by a go-fuse request context
func (a *Authenticator) Principal(ctx context.Context) (*filesystem.Principal, error) {
	caller, ok := gofuse.FromContext(ctx)
	if !ok {
		if a.fallback != nil {
			return a.fallback, nil
		}
		return nil, filesystem.ErrUnknownPrincipal
	}
	return a.PrincipalForUID(caller.Uid)
}
