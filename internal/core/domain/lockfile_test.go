package domain_test

import (
	"testing"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockfile_SameContentIgnoresTimestamp(t *testing.T) {
	a := domain.NewLockfile(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := domain.NewLockfile(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	entry := domain.LockEntry{
		Name: "a", Version: "1.0.0", ResolvedFrom: domain.TierLocal, Integrity: "sha256:00",
		Dependencies: map[string]string{"tool/t": "1.0.0"},
	}
	a.Put(domain.KindAgent, entry)
	b.Put(domain.KindAgent, entry)
	assert.True(t, a.SameContent(b))

	entry.Dependencies = map[string]string{"tool/t": "1.0.1"}
	b.Put(domain.KindAgent, entry)
	assert.False(t, a.SameContent(b))
}

func TestLockfile_CheckExact(t *testing.T) {
	lf := domain.NewLockfile(time.Now())
	lf.Put(domain.KindTool, domain.LockEntry{Name: "t", Version: "1.0.0", ResolvedFrom: domain.TierGlobal})
	require.NoError(t, lf.CheckExact())

	lf.Put(domain.KindTool, domain.LockEntry{Name: "r", Version: "^1.0.0", ResolvedFrom: domain.TierGlobal})
	err := lf.CheckExact()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrLockfileInvalid.Error())

	lf = domain.NewLockfile(time.Now())
	lf.FormatVersion = 99
	require.Error(t, lf.CheckExact())
}

func TestLockfile_EachIsOrdered(t *testing.T) {
	lf := domain.NewLockfile(time.Now())
	lf.Put(domain.KindTool, domain.LockEntry{Name: "z"})
	lf.Put(domain.KindTool, domain.LockEntry{Name: "b"})
	lf.Put(domain.KindAgent, domain.LockEntry{Name: "y"})

	var got []string
	lf.Each(func(kind domain.Kind, e domain.LockEntry) {
		got = append(got, kind.String()+"/"+e.Name)
	})
	assert.Equal(t, []string{"agent/y", "tool/b", "tool/z"}, got)
	assert.Equal(t, 3, lf.Len())
}

func TestValidationReport_Err(t *testing.T) {
	report := &domain.ValidationReport{Valid: true}
	require.NoError(t, report.Err())

	report = &domain.ValidationReport{
		Errors: []domain.ValidationIssue{{
			Kind:    domain.IssueCacheMiss,
			Ref:     domain.Ref{Kind: domain.KindAgent, Name: "agent-y"},
			Version: "3.0.0",
			Message: "not installed",
		}},
	}
	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCacheMiss.Error())
}

func TestLockfile_CheckExactDependencyKeys(t *testing.T) {
	lf := domain.NewLockfile(time.Now())
	entry := domain.LockEntry{
		Name: "a", Version: "1.0.0", ResolvedFrom: domain.TierLocal,
		Dependencies: map[string]string{"agent/s": "1.0.0", "tool/s": "2.0.0"},
	}
	lf.Put(domain.KindAgent, entry)
	require.NoError(t, lf.CheckExact())

	entry.Dependencies = map[string]string{"s": "1.0.0"}
	lf.Put(domain.KindAgent, entry)
	err := lf.CheckExact()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrLockfileInvalid.Error())
}

func TestParseRef(t *testing.T) {
	ref, err := domain.ParseRef("tool/shared")
	require.NoError(t, err)
	assert.Equal(t, domain.Ref{Kind: domain.KindTool, Name: "shared"}, ref)

	for _, s := range []string{"shared", "widget/shared", "tool/Bad Name"} {
		_, err := domain.ParseRef(s)
		assert.Error(t, err, s)
	}
}
