// Package resolver locates artifacts across the Local, Global and Remote tiers.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.ArtifactResolver = (*Resolver)(nil)

// Config holds the collaborators and settings of a Resolver.
type Config struct {
	Local  ports.LocalStore
	Global ports.GlobalStore
	// Remotes are consulted in slice order, which callers derive from source priority.
	Remotes []ports.RemoteSource
	// Cache may be nil to disable response caching.
	Cache  ports.ResponseCache
	Codec  ports.DefinitionCodec
	Hasher ports.IntegrityHasher
	Logger ports.Logger
	Tracer ports.Tracer

	LocalMismatch domain.LocalMismatchPolicy
	Offline       bool
}

// Resolver implements the tiered resolution algorithm. It holds no per-call state
// besides the response cache, so one instance may serve concurrent resolutions.
type Resolver struct {
	local   ports.LocalStore
	global  ports.GlobalStore
	remotes []ports.RemoteSource
	cache   ports.ResponseCache
	codec   ports.DefinitionCodec
	hasher  ports.IntegrityHasher
	logger  ports.Logger
	tracer  ports.Tracer

	policy  domain.LocalMismatchPolicy
	offline bool

	group singleflight.Group
}

// New creates a Resolver from cfg.
func New(cfg Config) *Resolver {
	policy := cfg.LocalMismatch
	if policy == "" {
		policy = domain.LocalMismatchFail
	}
	return &Resolver{
		local:   cfg.Local,
		global:  cfg.Global,
		remotes: cfg.Remotes,
		cache:   cfg.Cache,
		codec:   cfg.Codec,
		hasher:  cfg.Hasher,
		logger:  cfg.Logger,
		tracer:  cfg.Tracer,
		policy:  policy,
		offline: cfg.Offline,
	}
}

// Remotes returns the names of the configured remote sources in consultation order.
func (r *Resolver) Remotes() []string {
	names := make([]string, 0, len(r.remotes))
	for _, src := range r.remotes {
		names = append(names, src.Name())
	}
	return names
}

// Resolve returns the first match for identifier, consulting Local, then Global, then
// each remote source in order. Tier and constraint misses fall through; only exhaustion
// of every tier is an error.
func (r *Resolver) Resolve(ctx context.Context, kind domain.Kind, identifier string) (*domain.ResolvedArtifact, error) {
	id, err := parse(identifier)
	if err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "resolve",
		ports.WithAttribute("identifier", id.String()),
		ports.WithAttribute("kind", string(kind)),
	)
	defer span.End()

	art, attempts, err := r.resolve(ctx, kind, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if art == nil {
		err := notFound(kind, id, attempts)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("source", art.Source.String())
	span.SetAttribute("version", art.Version)
	return art, nil
}

// ResolveAgent resolves an agent identifier.
func (r *Resolver) ResolveAgent(ctx context.Context, identifier string) (*domain.ResolvedArtifact, error) {
	return r.Resolve(ctx, domain.KindAgent, identifier)
}

// ResolveTool resolves a tool identifier.
func (r *Resolver) ResolveTool(ctx context.Context, identifier string) (*domain.ResolvedArtifact, error) {
	return r.Resolve(ctx, domain.KindTool, identifier)
}

// ResolveLatest returns the newest version of name. A local artifact wins as in
// Resolve. Otherwise cached versions are compared with what every remote advertises,
// so a newer remote release is found even when an older version is cached.
func (r *Resolver) ResolveLatest(ctx context.Context, kind domain.Kind, name string) (*domain.ResolvedArtifact, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, zerr.With(err, "identifier", name)
	}
	local, err := r.local.Load(kind, name)
	if err != nil {
		return nil, zerr.With(err, "identifier", name)
	}
	if local != nil {
		return local, nil
	}

	cached, err := r.global.Versions(kind, name)
	if err != nil {
		return nil, zerr.With(err, "identifier", name)
	}
	newest, err := domain.BestMatch(cached, domain.LatestConstraint)
	if err != nil {
		return nil, err
	}

	registry, remoteNewest, err := r.newestRemote(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	if remoteNewest != "" {
		if newer, _ := domain.CompareVersions(remoteNewest, newest); newest == "" || newer > 0 {
			art, err := r.FetchRemote(ctx, kind, name, remoteNewest, registry, "")
			if err == nil {
				return art, nil
			}
			if ctx.Err() != nil {
				return nil, err
			}
			r.logger.Warn(fmt.Sprintf("could not fetch %s %s@%s: %v", kind, name, remoteNewest, err))
		}
	}
	if newest != "" {
		art, err := r.global.Load(kind, name, newest)
		if err == nil && art != nil {
			return art, nil
		}
	}
	return r.Resolve(ctx, kind, name)
}

// newestRemote returns the highest stable version any remote advertises for name and
// the first source advertising it. Offline resolvers report nothing.
func (r *Resolver) newestRemote(ctx context.Context, kind domain.Kind, name string) (string, string, error) {
	if r.offline {
		return "", "", nil
	}
	var registry, newest string
	for _, src := range r.remotes {
		pkgs, err := r.lookup(ctx, src, domain.Identifier{Name: name})
		if err != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			r.failed(domain.Attempt{Tier: domain.TierRemote, Registry: src.Name()}, src, err)
			continue
		}
		versions := make([]string, 0, len(pkgs))
		for _, pkg := range pkgs {
			if pkg.Name == name && pkg.Matches(kind) {
				versions = append(versions, pkg.Version)
			}
		}
		best, err := domain.BestMatch(versions, domain.LatestConstraint)
		if err != nil {
			return "", "", err
		}
		if best == "" {
			continue
		}
		if cmp, _ := domain.CompareVersions(best, newest); newest == "" || cmp > 0 {
			registry, newest = src.Name(), best
		}
	}
	return registry, newest, nil
}

func (r *Resolver) resolve(
	ctx context.Context,
	kind domain.Kind,
	id domain.Identifier,
) (*domain.ResolvedArtifact, domain.Attempts, error) {
	var attempts domain.Attempts

	art, attempt, err := r.resolveLocal(kind, id)
	if err != nil || art != nil {
		return art, nil, err
	}
	attempts = append(attempts, attempt)
	r.logger.Debug(fmt.Sprintf("%s %s: %s", kind, id, attempt))

	art, attempt, err = r.resolveGlobal(kind, id)
	if err != nil || art != nil {
		return art, nil, err
	}
	attempts = append(attempts, attempt)
	r.logger.Debug(fmt.Sprintf("%s %s: %s", kind, id, attempt))

	if r.offline {
		for _, src := range r.remotes {
			attempts = append(attempts, domain.Attempt{
				Tier:     domain.TierRemote,
				Registry: src.Name(),
				Outcome:  domain.OutcomeOffline,
			})
		}
		return nil, attempts, nil
	}

	for _, src := range r.remotes {
		art, attempt, err := r.resolveRemote(ctx, src, kind, id, "")
		if err != nil || art != nil {
			return art, nil, err
		}
		attempts = append(attempts, attempt)
		r.logger.Debug(fmt.Sprintf("%s %s: %s", kind, id, attempt))
	}
	return nil, attempts, nil
}

func (r *Resolver) resolveLocal(kind domain.Kind, id domain.Identifier) (*domain.ResolvedArtifact, domain.Attempt, error) {
	attempt := domain.Attempt{Tier: domain.TierLocal, Outcome: domain.OutcomeNotFound}

	art, err := r.local.Load(kind, id.Name)
	if err != nil {
		return nil, attempt, zerr.With(err, "identifier", id.String())
	}
	if art == nil {
		return nil, attempt, nil
	}
	if id.IsLatest() {
		return art, attempt, nil
	}

	ok, err := domain.Satisfies(art.Version, id.Constraint)
	if err != nil {
		return nil, attempt, err
	}
	if ok {
		return art, attempt, nil
	}

	switch r.policy {
	case domain.LocalMismatchWarn:
		r.logger.Warn(fmt.Sprintf("using local %s %s@%s although it does not satisfy %s",
			kind, id.Name, art.Version, id.Constraint))
		return art, attempt, nil
	case domain.LocalMismatchFallthrough:
		attempt.Outcome = domain.OutcomeLocalMismatch
		attempt.Detail = "local version " + art.Version
		return nil, attempt, nil
	default:
		err := zerr.With(domain.ErrLocalConstraintMismatch, "identifier", id.String())
		err = zerr.With(err, "kind", string(kind))
		err = zerr.With(err, "local_version", art.Version)
		err = zerr.With(err, "constraint", id.Constraint)
		return nil, attempt, zerr.With(err, "path", art.Origin)
	}
}

func (r *Resolver) resolveGlobal(kind domain.Kind, id domain.Identifier) (*domain.ResolvedArtifact, domain.Attempt, error) {
	attempt := domain.Attempt{Tier: domain.TierGlobal, Outcome: domain.OutcomeNotFound}

	versions, err := r.global.Versions(kind, id.Name)
	if err != nil {
		return nil, attempt, zerr.With(err, "identifier", id.String())
	}
	if len(versions) == 0 {
		return nil, attempt, nil
	}

	best, err := domain.BestMatch(versions, id.Constraint)
	if err != nil {
		return nil, attempt, err
	}
	if best == "" {
		attempt.Outcome = domain.OutcomeNoMatch
		attempt.Detail = "cached " + strings.Join(versions, ", ")
		return nil, attempt, nil
	}

	art, err := r.global.Load(kind, id.Name, best)
	if err != nil {
		// A damaged cache entry is repaired by the remote tier.
		attempt.Outcome = domain.OutcomeInvalid
		attempt.Detail = best
		r.logger.Warn(fmt.Sprintf("ignoring cached %s %s@%s: %v", kind, id.Name, best, err))
		return nil, attempt, nil
	}
	if art == nil {
		return nil, attempt, nil
	}
	return art, attempt, nil
}

// FetchRemote downloads name@version from the remote tier without consulting Local or
// Global. The registry named first is preferred; the rest follow in priority order.
// When integrity is set, a body with another digest is skipped and never stored.
func (r *Resolver) FetchRemote(
	ctx context.Context,
	kind domain.Kind,
	name, version, registry, integrity string,
) (*domain.ResolvedArtifact, error) {
	id := domain.Identifier{Name: name, Constraint: version}
	if err := domain.ValidateVersion(version); err != nil {
		return nil, zerr.With(err, "identifier", id.String())
	}

	ctx, span := r.tracer.Start(ctx, "resolve.remote",
		ports.WithAttribute("identifier", id.String()),
		ports.WithAttribute("kind", string(kind)),
	)
	defer span.End()

	var attempts domain.Attempts
	if r.offline {
		for _, src := range r.remotes {
			attempts = append(attempts, domain.Attempt{Tier: domain.TierRemote, Registry: src.Name(), Outcome: domain.OutcomeOffline})
		}
	} else {
		for _, src := range preferred(r.remotes, registry) {
			art, attempt, err := r.resolveRemote(ctx, src, kind, id, integrity)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			if art != nil {
				return art, nil
			}
			attempts = append(attempts, attempt)
		}
	}

	err := notFound(kind, id, attempts)
	if attempts.Any(domain.OutcomeIntegrityMismatch) {
		err = zerr.With(zerr.Wrap(err, domain.ErrIntegrityMismatch.Error()), "expected", integrity)
	}
	span.RecordError(err)
	return nil, err
}

func preferred(remotes []ports.RemoteSource, registry string) []ports.RemoteSource {
	out := make([]ports.RemoteSource, 0, len(remotes))
	for _, src := range remotes {
		if src.Name() == registry {
			out = append(out, src)
		}
	}
	for _, src := range remotes {
		if src.Name() != registry {
			out = append(out, src)
		}
	}
	return out
}

func parse(identifier string) (domain.Identifier, error) {
	id, err := domain.ParseIdentifier(identifier)
	if err != nil {
		return id, zerr.With(err, "identifier", identifier)
	}
	if err := domain.ValidateName(id.Name); err != nil {
		return id, zerr.With(err, "identifier", identifier)
	}
	if err := domain.ValidateConstraint(id.Constraint); err != nil {
		return id, zerr.With(err, "identifier", identifier)
	}
	return id, nil
}

// notFound builds the exhaustion error. When every remote failed for connectivity
// reasons the cause is ErrRemoteUnavailable.
func notFound(kind domain.Kind, id domain.Identifier, attempts domain.Attempts) error {
	var err error = domain.ErrNotFound
	if attempts.AllRemoteUnreachable() {
		err = zerr.Wrap(domain.ErrRemoteUnavailable, domain.ErrNotFound.Error())
	}
	err = zerr.With(err, "identifier", id.String())
	err = zerr.With(err, "kind", string(kind))
	return zerr.With(err, "consulted", attempts.String())
}

// IsNotFound reports whether err is an exhaustion error from Resolve or FetchRemote.
func IsNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), domain.ErrNotFound.Error())
}
