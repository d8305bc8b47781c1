package lockfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fractary/forge/internal/adapters/definition"
	"github.com/fractary/forge/internal/adapters/fs"
	"github.com/fractary/forge/internal/adapters/hasher"
	"github.com/fractary/forge/internal/adapters/telemetry"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/fractary/forge/internal/core/ports/mocks"
	"github.com/fractary/forge/internal/engine/graph"
	"github.com/fractary/forge/internal/engine/lockfile"
	"github.com/fractary/forge/internal/engine/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	projectRoot string
	local       *fs.LocalStore
	global      *fs.GlobalStore
	logger      *mocks.MockLogger
	ctrl        *gomock.Controller
	clock       time.Time
	remote      ports.ArtifactResolver
	sources     []ports.RemoteSource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	codec := definition.NewCodec()
	projectRoot := t.TempDir()
	return &fixture{
		projectRoot: projectRoot,
		local:       fs.NewLocalStore(projectRoot, codec),
		global:      fs.NewGlobalStore(t.TempDir(), codec),
		logger:      logger,
		ctrl:        ctrl,
		clock:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (f *fixture) manager() *lockfile.Manager {
	tracer := telemetry.NewNoOpTracer()
	res := f.remote
	if res == nil {
		res = resolver.New(resolver.Config{
			Local:   f.local,
			Global:  f.global,
			Remotes: f.sources,
			Codec:   definition.NewCodec(),
			Hasher: hasher.NewHasher(),
			Logger: f.logger,
			Tracer: tracer,
		})
	}
	return lockfile.New(lockfile.Config{
		Resolver:    res,
		Graph:       graph.NewBuilder(res, f.logger, tracer, 2),
		Local:       f.local,
		Global:      f.global,
		Store:       fs.NewLockfileStore(),
		Hasher:      hasher.NewHasher(),
		Logger:      f.logger,
		Tracer:      tracer,
		Path:        domain.LockfilePath(f.projectRoot),
		Concurrency: 2,
		Now:         func() time.Time { return f.clock },
	})
}

func (f *fixture) writeLocal(t *testing.T, kind domain.Kind, name, content string) {
	t.Helper()
	path := domain.LocalDefinitionPath(f.projectRoot, kind, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func (f *fixture) putGlobal(t *testing.T, kind domain.Kind, name, version, content string) {
	t.Helper()
	_, err := f.global.Put(kind, name, version, []byte(content))
	require.NoError(t, err)
}

// project lays out one local agent that uses a cached tool.
func (f *fixture) project(t *testing.T) {
	t.Helper()
	f.writeLocal(t, domain.KindAgent, "main", "name: main\nversion: 1.0.0\ntools:\n  - helper@^1.0.0\n")
	f.putGlobal(t, domain.KindTool, "helper", "1.0.0", "name: helper\nversion: 1.0.0\n")
	f.putGlobal(t, domain.KindTool, "helper", "1.2.0", "name: helper\nversion: 1.2.0\n")
}

func generate(t *testing.T, m *lockfile.Manager, force bool) *lockfile.GenerateResult {
	t.Helper()
	roots, err := m.Discover()
	require.NoError(t, err)
	res, err := m.Generate(context.Background(), roots, lockfile.GenerateOptions{Force: force})
	require.NoError(t, err)
	return res
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	f.project(t)

	res := generate(t, f.manager(), false)
	assert.Equal(t, lockfile.StatusWritten, res.Status)

	lf := res.Lockfile
	require.Equal(t, 2, lf.Len())

	agent, ok := lf.Get(domain.KindAgent, "main")
	require.True(t, ok)
	assert.Equal(t, domain.TierLocal, agent.ResolvedFrom)
	assert.Equal(t, "1.0.0", agent.Version)
	assert.Equal(t, map[string]string{"tool/helper": "1.2.0"}, agent.Dependencies)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, agent.Integrity)

	tool, ok := lf.Get(domain.KindTool, "helper")
	require.True(t, ok)
	assert.Equal(t, domain.TierGlobal, tool.ResolvedFrom)
	assert.Equal(t, "1.2.0", tool.Version)

	onDisk, _, err := fs.NewLockfileStore().Read(domain.LockfilePath(f.projectRoot))
	require.NoError(t, err)
	assert.True(t, lf.SameContent(onDisk))
	assert.Equal(t, f.clock, onDisk.GeneratedAt)
}

func TestGenerate_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.project(t)
	path := domain.LockfilePath(f.projectRoot)

	generate(t, f.manager(), false)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	f.clock = f.clock.Add(time.Hour)

	res := generate(t, f.manager(), false)
	assert.Equal(t, lockfile.StatusKept, res.Status)

	res = generate(t, f.manager(), true)
	assert.Equal(t, lockfile.StatusUnchanged, res.Status)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGenerate_ForceRewritesChanges(t *testing.T) {
	f := newFixture(t)
	f.project(t)
	generate(t, f.manager(), false)

	f.writeLocal(t, domain.KindAgent, "main", "name: main\nversion: 1.1.0\ntools:\n  - helper@~1.0.0\n")

	res := generate(t, f.manager(), true)
	assert.Equal(t, lockfile.StatusWritten, res.Status)
	agent, _ := res.Lockfile.Get(domain.KindAgent, "main")
	assert.Equal(t, "1.1.0", agent.Version)
	assert.Equal(t, map[string]string{"tool/helper": "1.0.0"}, agent.Dependencies)
}

func TestGenerate_SameNameAcrossKinds(t *testing.T) {
	f := newFixture(t)
	f.writeLocal(t, domain.KindAgent, "main", "name: main\nversion: 1.0.0\ndependencies:\n  - shared\ntools:\n  - shared\n")
	f.writeLocal(t, domain.KindAgent, "shared", "name: shared\nversion: 1.0.0\n")
	f.putGlobal(t, domain.KindTool, "shared", "2.0.0", "name: shared\nversion: 2.0.0\n")
	m := f.manager()

	lf := generate(t, m, false).Lockfile
	agent, ok := lf.Get(domain.KindAgent, "main")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"agent/shared": "1.0.0", "tool/shared": "2.0.0"}, agent.Dependencies)

	report, err := m.Validate(context.Background(), lf)
	require.NoError(t, err)
	for _, issue := range report.Warnings {
		assert.NotEqual(t, domain.IssueDanglingDependency, issue.Kind, issue.Message)
	}
}

func TestGenerate_KeepsRemoteProvenance(t *testing.T) {
	f := newFixture(t)
	f.project(t)
	path := domain.LockfilePath(f.projectRoot)
	store := fs.NewLockfileStore()

	lf := generate(t, f.manager(), false).Lockfile
	// As if helper had been downloaded from a registry when first locked.
	entry, _ := lf.Get(domain.KindTool, "helper")
	entry.ResolvedFrom, entry.Registry = domain.TierRemote, "hub"
	lf.Put(domain.KindTool, entry)
	require.NoError(t, store.Write(path, lf))

	res := generate(t, f.manager(), true)
	assert.Equal(t, lockfile.StatusUnchanged, res.Status)
	tool, _ := res.Lockfile.Get(domain.KindTool, "helper")
	assert.Equal(t, domain.TierRemote, tool.ResolvedFrom)
	assert.Equal(t, "hub", tool.Registry)
}

func TestGenerate_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.writeLocal(t, domain.KindAgent, "main", "name: main\nversion: 1.0.0\ntools:\n  - ghost\n")

	m := f.manager()
	roots, err := m.Discover()
	require.NoError(t, err)
	_, err = m.Generate(context.Background(), roots, lockfile.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNotFound.Error())

	_, statErr := os.Stat(domain.LockfilePath(f.projectRoot))
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidate_Clean(t *testing.T) {
	f := newFixture(t)
	f.project(t)
	m := f.manager()
	lf := generate(t, m, false).Lockfile

	report, err := m.Validate(context.Background(), lf)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
	assert.NoError(t, report.Err())
}

// A global pin that is not installed fails fast instead of being re-resolved.
func TestValidate_CacheMiss(t *testing.T) {
	f := newFixture(t)
	lf := domain.NewLockfile(f.clock)
	lf.Put(domain.KindAgent, domain.LockEntry{
		Name:         "agent-y",
		Version:      "3.0.0",
		ResolvedFrom: domain.TierGlobal,
		Integrity:    "sha256:abc",
	})

	report, err := f.manager().Validate(context.Background(), lf)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, domain.IssueCacheMiss, report.Errors[0].Kind)
	assert.Contains(t, report.Err().Error(), domain.ErrCacheMiss.Error())
}

func TestValidate_Findings(t *testing.T) {
	f := newFixture(t)
	f.project(t)
	f.writeLocal(t, domain.KindTool, "local-tool", "name: local-tool\nversion: 0.1.0\n")
	m := f.manager()

	lf := generate(t, m, false).Lockfile

	// Same version, different content.
	f.writeLocal(t, domain.KindAgent, "main", "name: main\nversion: 1.0.0\ndescription: edited\ntools:\n  - helper@^1.0.0\n")
	// Changed version.
	f.writeLocal(t, domain.KindTool, "local-tool", "name: local-tool\nversion: 0.2.0\n")
	// Newly added.
	f.writeLocal(t, domain.KindAgent, "newcomer", "name: newcomer\nversion: 1.0.0\n")
	// Pin a dependency nothing provides.
	entry, _ := lf.Get(domain.KindTool, "helper")
	entry.Dependencies = map[string]string{"tool/ghost": "1.0.0"}
	lf.Put(domain.KindTool, entry)

	report, err := m.Validate(context.Background(), lf)
	require.NoError(t, err)
	assert.False(t, report.Valid)

	kinds := map[domain.IssueKind]string{}
	for _, issue := range report.Errors {
		kinds[issue.Kind] = issue.Ref.Name
	}
	assert.Equal(t, map[domain.IssueKind]string{
		domain.IssueIntegrityMismatch: "main",
		domain.IssueVersionDrift:      "local-tool",
	}, kinds)

	warnings := map[domain.IssueKind]string{}
	for _, issue := range report.Warnings {
		warnings[issue.Kind] = issue.Ref.Name
	}
	assert.Equal(t, map[domain.IssueKind]string{
		domain.IssueDanglingDependency: "helper",
		domain.IssueUnlocked:           "newcomer",
	}, warnings)

	assert.Contains(t, report.Err().Error(), domain.ErrIntegrityMismatch.Error())
}

func TestValidate_RejectsRanges(t *testing.T) {
	f := newFixture(t)
	lf := domain.NewLockfile(f.clock)
	lf.Put(domain.KindTool, domain.LockEntry{Name: "t", Version: "^1.0.0", ResolvedFrom: domain.TierGlobal})

	_, err := f.manager().Validate(context.Background(), lf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrLockfileInvalid.Error())
}

func TestResolveLocked(t *testing.T) {
	f := newFixture(t)
	f.project(t)
	m := f.manager()

	_, err := m.ResolveLocked(context.Background(), domain.KindTool, "helper")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrLockfileNotFound.Error())

	generate(t, m, false)

	art, err := m.ResolveLocked(context.Background(), domain.KindTool, "helper")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", art.Version)
	assert.Equal(t, domain.GlobalSource(), art.Source)

	_, err = m.ResolveLocked(context.Background(), domain.KindTool, "unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNotFound.Error())
}

func TestResolveLocked_CacheMiss(t *testing.T) {
	f := newFixture(t)
	lf := domain.NewLockfile(f.clock)
	lf.Put(domain.KindAgent, domain.LockEntry{Name: "agent-y", Version: "3.0.0", ResolvedFrom: domain.TierRemote, Registry: "hub"})
	require.NoError(t, fs.NewLockfileStore().Write(domain.LockfilePath(f.projectRoot), lf))

	_, err := f.manager().ResolveLocked(context.Background(), domain.KindAgent, "agent-y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCacheMiss.Error())
}

func TestInstall(t *testing.T) {
	f := newFixture(t)
	content := "name: agent-y\nversion: 3.0.0\n"

	// Compute the pin from a scratch copy, then leave the global store empty.
	scratch := fs.NewGlobalStore(t.TempDir(), definition.NewCodec())
	_, err := scratch.Put(domain.KindAgent, "agent-y", "3.0.0", []byte(content))
	require.NoError(t, err)
	art, err := scratch.Load(domain.KindAgent, "agent-y", "3.0.0")
	require.NoError(t, err)
	integrity, err := hasher.NewHasher().Digest(art.Definition)
	require.NoError(t, err)

	lf := domain.NewLockfile(f.clock)
	lf.Put(domain.KindAgent, domain.LockEntry{
		Name: "agent-y", Version: "3.0.0", ResolvedFrom: domain.TierRemote, Registry: "hub", Integrity: integrity,
	})
	lf.Put(domain.KindAgent, domain.LockEntry{Name: "mine", Version: "1.0.0", ResolvedFrom: domain.TierLocal})

	remote := mocks.NewMockArtifactResolver(f.ctrl)
	remote.EXPECT().
		FetchRemote(gomock.Any(), domain.KindAgent, "agent-y", "3.0.0", "hub", integrity).
		DoAndReturn(func(context.Context, domain.Kind, string, string, string, string) (*domain.ResolvedArtifact, error) {
			f.putGlobal(t, domain.KindAgent, "agent-y", "3.0.0", content)
			return f.global.Load(domain.KindAgent, "agent-y", "3.0.0")
		}).Times(1)
	f.remote = remote
	m := f.manager()

	report, err := m.Install(context.Background(), lf)
	require.NoError(t, err)
	assert.Equal(t, []string{"agent/agent-y@3.0.0"}, report.Installed)

	report, err = m.Install(context.Background(), lf)
	require.NoError(t, err)
	assert.Empty(t, report.Installed)
	assert.Equal(t, 1, report.Present)
}

func TestInstall_IntegrityMismatch(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	def, err := definition.NewCodec().Parse(domain.KindTool, []byte("name: t\nversion: 1.0.0\n"))
	require.NoError(t, err)
	integrity, err := hasher.NewHasher().Digest(def)
	require.NoError(t, err)

	lf := domain.NewLockfile(f.clock)
	lf.Put(domain.KindTool, domain.LockEntry{
		Name: "t", Version: "1.0.0", ResolvedFrom: domain.TierRemote, Registry: "hub", Integrity: integrity,
	})

	pkg := domain.RemotePackage{Name: "t", Version: "1.0.0", Source: "t.yaml"}
	src := mocks.NewMockRemoteSource(f.ctrl)
	src.EXPECT().Name().Return("hub").AnyTimes()
	src.EXPECT().Timeout().Return(time.Second).AnyTimes()
	src.EXPECT().TTL().Return(time.Hour).AnyTimes()
	src.EXPECT().Lookup(gomock.Any(), "t", "1.0.0").Return([]domain.RemotePackage{pkg}, nil).AnyTimes()
	src.EXPECT().Fetch(gomock.Any(), pkg).
		Return([]byte("name: t\nversion: 1.0.0\ndescription: tampered\n"), nil).
		Times(2)
	f.sources = []ports.RemoteSource{src}
	m := f.manager()

	_, err = m.Install(context.Background(), lf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrIntegrityMismatch.Error())

	art, err := f.global.Load(domain.KindTool, "t", "1.0.0")
	require.NoError(t, err)
	assert.Nil(t, art, "rejected body must not reach the global store")

	// A second run downloads again instead of trusting a cached copy.
	_, err = m.Install(context.Background(), lf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrIntegrityMismatch.Error())
}

func TestInstall_ResolverReportsMismatch(t *testing.T) {
	f := newFixture(t)
	lf := domain.NewLockfile(f.clock)
	lf.Put(domain.KindTool, domain.LockEntry{
		Name: "t", Version: "1.0.0", ResolvedFrom: domain.TierRemote, Registry: "hub", Integrity: "sha256:abc",
	})

	remote := mocks.NewMockArtifactResolver(f.ctrl)
	remote.EXPECT().FetchRemote(gomock.Any(), domain.KindTool, "t", "1.0.0", "hub", "sha256:abc").
		DoAndReturn(func(context.Context, domain.Kind, string, string, string, string) (*domain.ResolvedArtifact, error) {
			f.putGlobal(t, domain.KindTool, "t", "1.0.0", "name: t\nversion: 1.0.0\n")
			return f.global.Load(domain.KindTool, "t", "1.0.0")
		})
	f.remote = remote

	_, err := f.manager().Install(context.Background(), lf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrIntegrityMismatch.Error())

	art, err := f.global.Load(domain.KindTool, "t", "1.0.0")
	require.NoError(t, err)
	assert.Nil(t, art)
}
