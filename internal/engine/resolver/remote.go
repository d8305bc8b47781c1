package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// resolveRemote consults one remote source. Source failures are reported through the
// returned attempt; only caller cancellation and store write failures are errors.
// A non-empty integrity must equal the digest of the fetched definition before it is
// written to the global store.
func (r *Resolver) resolveRemote(
	ctx context.Context,
	src ports.RemoteSource,
	kind domain.Kind,
	id domain.Identifier,
	integrity string,
) (*domain.ResolvedArtifact, domain.Attempt, error) {
	attempt := domain.Attempt{Tier: domain.TierRemote, Registry: src.Name(), Outcome: domain.OutcomeNotFound}

	pkgs, err := r.lookup(ctx, src, id)
	if err != nil {
		return nil, r.failed(attempt, src, err), ctx.Err()
	}

	versions := make([]string, 0, len(pkgs))
	byVersion := make(map[string]domain.RemotePackage, len(pkgs))
	for _, pkg := range pkgs {
		if pkg.Name != id.Name || !pkg.Matches(kind) {
			continue
		}
		versions = append(versions, pkg.Version)
		byVersion[pkg.Version] = pkg
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
		return nil, attempt, nil
	}
	pkg := byVersion[best]

	body, err := r.fetch(ctx, src, pkg)
	if err != nil {
		return nil, r.failed(attempt, src, err), ctx.Err()
	}

	if pkg.Checksum != "" {
		if err := r.hasher.Verify(body, pkg.Checksum); err != nil {
			r.forget(bodyKey(src, pkg))
			attempt.Outcome = domain.OutcomeChecksumMismatch
			attempt.Detail = pkg.Name + "@" + pkg.Version
			r.logger.Warn(fmt.Sprintf("remote %s served %s@%s with a bad checksum", src.Name(), pkg.Name, pkg.Version))
			return nil, attempt, nil
		}
	}

	def, err := r.codec.Parse(kind, body)
	if err == nil && (def.Name != pkg.Name || def.Version != pkg.Version) {
		err = zerr.With(zerr.With(domain.ErrDefinitionInvalid, "reason", "body does not match the advertised package"),
			"declared", def.Name+"@"+def.Version)
	}
	if err != nil {
		r.forget(bodyKey(src, pkg))
		attempt.Outcome = domain.OutcomeInvalid
		attempt.Detail = pkg.Name + "@" + pkg.Version
		r.logger.Warn(fmt.Sprintf("remote %s served an invalid %s %s@%s: %v", src.Name(), kind, pkg.Name, pkg.Version, err))
		return nil, attempt, nil
	}

	if integrity != "" {
		digest, err := r.hasher.Digest(def)
		if err != nil {
			return nil, attempt, zerr.With(err, "identifier", id.String())
		}
		if digest != integrity {
			r.forget(bodyKey(src, pkg))
			attempt.Outcome = domain.OutcomeIntegrityMismatch
			attempt.Detail = digest
			r.logger.Warn(fmt.Sprintf("remote %s served %s@%s with digest %s, expected %s",
				src.Name(), pkg.Name, pkg.Version, digest, integrity))
			return nil, attempt, nil
		}
	}

	path, err := r.global.Put(kind, pkg.Name, pkg.Version, body)
	if err != nil {
		return nil, attempt, zerr.With(err, "identifier", id.String())
	}
	r.logger.Debug(fmt.Sprintf("cached %s %s@%s from %s at %s", kind, pkg.Name, pkg.Version, src.Name(), path))

	return &domain.ResolvedArtifact{
		Definition: def,
		Source:     domain.RemoteSourceOf(src.Name()),
		Version:    def.Version,
		Origin:     pkg.Source,
	}, attempt, nil
}

// lookup returns the candidate packages of id from the response cache, or asks the
// source. Concurrent identical lookups share one request.
func (r *Resolver) lookup(ctx context.Context, src ports.RemoteSource, id domain.Identifier) ([]domain.RemotePackage, error) {
	key := lookupKey(src, id)
	if v, ok := r.cached(key); ok {
		if pkgs, ok := v.([]domain.RemotePackage); ok {
			return pkgs, nil
		}
	}

	v, err, _ := r.group.Do("lookup "+key, func() (any, error) {
		fctx, cancel := context.WithTimeout(ctx, src.Timeout())
		defer cancel()

		pkgs, err := src.Lookup(fctx, id.Name, id.Constraint)
		if err != nil {
			return nil, timeoutCause(fctx, err)
		}
		r.remember(key, pkgs, src.TTL())
		return pkgs, nil
	})
	if err != nil {
		return nil, err
	}
	pkgs, _ := v.([]domain.RemotePackage)
	return pkgs, nil
}

// fetch returns the body of pkg from the response cache, or downloads it.
func (r *Resolver) fetch(ctx context.Context, src ports.RemoteSource, pkg domain.RemotePackage) ([]byte, error) {
	key := bodyKey(src, pkg)
	if v, ok := r.cached(key); ok {
		if body, ok := v.([]byte); ok {
			return body, nil
		}
	}

	v, err, _ := r.group.Do("fetch "+key, func() (any, error) {
		fctx, cancel := context.WithTimeout(ctx, src.Timeout())
		defer cancel()

		body, err := src.Fetch(fctx, pkg)
		if err != nil {
			return nil, timeoutCause(fctx, err)
		}
		r.remember(key, body, src.TTL())
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	body, _ := v.([]byte)
	return body, nil
}

// errTimeout marks a failure caused by the per-source deadline.
var errTimeout = errors.New("per-source timeout")

func timeoutCause(fctx context.Context, err error) error {
	if errors.Is(fctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errTimeout, err)
	}
	return err
}

// failed classifies a source error for diagnostics and logs it.
func (r *Resolver) failed(attempt domain.Attempt, src ports.RemoteSource, err error) domain.Attempt {
	switch {
	case errors.Is(err, errTimeout):
		attempt.Outcome = domain.OutcomeTimeout
		attempt.Detail = "after " + src.Timeout().String()
	case errors.Is(err, context.Canceled):
		attempt.Outcome = domain.OutcomeUnavailable
		attempt.Detail = "canceled"
	default:
		attempt.Outcome = domain.OutcomeUnavailable
		attempt.Detail = err.Error()
	}
	r.logger.Warn(fmt.Sprintf("remote %s: %s", src.Name(), attempt.Outcome))
	return attempt
}

func (r *Resolver) cached(key string) (any, bool) {
	if r.cache == nil {
		return nil, false
	}
	return r.cache.Get(key)
}

func (r *Resolver) remember(key string, value any, ttl time.Duration) {
	if r.cache != nil {
		r.cache.Set(key, value, ttl)
	}
}

func (r *Resolver) forget(key string) {
	if r.cache != nil {
		r.cache.Delete(key)
	}
}

// lookupKey is source:name, with any explicit constraint appended since API sources
// answer per constraint. Kind is left out because a lookup returns packages of every
// kind and callers filter them.
func lookupKey(src ports.RemoteSource, id domain.Identifier) string {
	key := src.Name() + ":" + id.Name
	if !id.IsLatest() {
		key += "?" + id.Constraint
	}
	return key
}

func bodyKey(src ports.RemoteSource, pkg domain.RemotePackage) string {
	return src.Name() + ":" + pkg.Name + "@" + pkg.Version
}
