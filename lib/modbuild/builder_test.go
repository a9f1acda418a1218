package modbuild

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = config.ModIdentity{
	ModFolder: "z_SCAM_P",
	CfgFolder: "SCAM",
	CfgFile:   "SCAM_Player.cfg",
}

// fakePacker records the staged content and writes a fixed archive.
type fakePacker struct {
	checkErr error
	packErr  error
	noOutput bool

	staged  string
	content string
	packed  bool
}

func (f *fakePacker) Check() error { return f.checkErr }

func (f *fakePacker) Pack(_ context.Context, root, folder string) error {
	f.packed = true
	f.staged = root
	data, err := os.ReadFile(filepath.Join(root, ContentPath(testIdentity)))
	if err != nil {
		return err
	}
	f.content = string(data)
	if f.packErr != nil {
		return f.packErr
	}
	if f.noOutput {
		return nil
	}
	return os.WriteFile(filepath.Join(root, folder+".pak"), []byte("PAK:"+f.content), 0o644)
}

func sampleValues() *schema.ValueMap {
	m := schema.NewValueMap()
	m.Set(schema.SectionMovement, schema.KeyTurnRate, schema.Int(65))
	m.Set(schema.SectionMovement, schema.KeyLookUpRate, schema.Int(65))
	m.Set(schema.SectionAiming, schema.KeySyncTurnRate, schema.Bool(true))
	return m
}

func newBuilder(t *testing.T, p Packer) *Builder {
	t.Helper()
	return &Builder{Identity: testIdentity, Packer: p, StagingRoot: t.TempDir()}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestContentPath(t *testing.T) {
	want := filepath.Join("z_SCAM_P", "Stalker2", "Content", "GameLite", "GameData", "ObjPrototypes", "SCAM", "SCAM_Player.cfg")
	assert.Equal(t, want, ContentPath(testIdentity))
}

func TestContentDropsAimingSection(t *testing.T) {
	m := sampleValues()
	out := Content(m)
	assert.NotContains(t, out, "SyncTurnRate")
	assert.Contains(t, out, "BaseTurnRate = 65")
	assert.True(t, m.HasSection(schema.SectionAiming), "input map is not modified")
}

func TestBuildPlacesArchive(t *testing.T) {
	p := &fakePacker{}
	b := newBuilder(t, p)
	mods := filepath.Join(t.TempDir(), "~mods")

	res, err := b.Build(context.Background(), sampleValues(), mods)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(mods, "z_SCAM_P.pak"), res.Archive)
	data, err := os.ReadFile(res.Archive)
	require.NoError(t, err)
	assert.Equal(t, "PAK:"+p.content, string(data))
	assert.Equal(t, int64(len(data)), res.Size)
	assert.Contains(t, p.content, "BaseLookUpRate = 65")

	assert.NoDirExists(t, p.staged, "staging tree is removed")
	assertEmptyDir(t, b.StagingRoot)
}

func TestBuildRemovesLegacyArchive(t *testing.T) {
	mods := t.TempDir()
	legacy := filepath.Join(mods, LegacyArchiveName)
	require.NoError(t, os.WriteFile(legacy, []byte("old"), 0o644))

	res, err := newBuilder(t, &fakePacker{}).Build(context.Background(), sampleValues(), mods)
	require.NoError(t, err)
	assert.True(t, res.RemovedLegacy)
	assert.NoFileExists(t, legacy)
}

func TestBuildReportsIncompatibleMods(t *testing.T) {
	mods := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mods, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mods, "sub", "FluidMovementAim_P.pak"), nil, 0o644))

	res, err := newBuilder(t, &fakePacker{}).Build(context.Background(), sampleValues(), mods)
	require.NoError(t, err)
	assert.Equal(t, []string{"FluidMovementAim_P.pak"}, res.Incompatible)
}

func TestBuildPackerMissingStagesNothing(t *testing.T) {
	p := &fakePacker{checkErr: ErrPackerNotFound}
	b := newBuilder(t, p)
	mods := t.TempDir()

	_, err := b.Build(context.Background(), sampleValues(), mods)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPackerNotFound)

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StagePacker, be.Stage)
	assert.False(t, p.packed)
	assertEmptyDir(t, b.StagingRoot)
	assertEmptyDir(t, mods)
}

func TestBuildNilPacker(t *testing.T) {
	b := &Builder{Identity: testIdentity, StagingRoot: t.TempDir()}
	_, err := b.Build(context.Background(), sampleValues(), t.TempDir())
	assert.ErrorIs(t, err, ErrPackerNotFound)
}

func TestBuildPackFailureLeavesModsUntouched(t *testing.T) {
	mods := t.TempDir()
	existing := filepath.Join(mods, "z_SCAM_P.pak")
	require.NoError(t, os.WriteFile(existing, []byte("previous"), 0o644))

	p := &fakePacker{packErr: &PackError{ExitCode: 3, Output: "bad input", Err: errors.New("exit status 3")}}
	b := newBuilder(t, p)

	_, err := b.Build(context.Background(), sampleValues(), mods)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StagePack, be.Stage)
	assert.Equal(t, 3, be.ExitCode)
	assert.Equal(t, "bad input", be.Output)
	assert.Contains(t, be.Error(), "code 3")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	assertEmptyDir(t, b.StagingRoot)
}

func TestBuildMissingArchiveIsPackFailure(t *testing.T) {
	b := newBuilder(t, &fakePacker{noOutput: true})
	mods := t.TempDir()

	_, err := b.Build(context.Background(), sampleValues(), mods)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StagePack, be.Stage)
	assert.Equal(t, -1, be.ExitCode)
	assertEmptyDir(t, mods)
}

func TestBuildStagingFailureRollsBack(t *testing.T) {
	id := testIdentity
	id.CfgFolder = "bad\x00dir"
	p := &fakePacker{}
	b := &Builder{Identity: id, Packer: p, StagingRoot: t.TempDir()}
	mods := t.TempDir()

	_, err := b.Build(context.Background(), sampleValues(), mods)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StageStaging, be.Stage)
	assert.True(t, strings.HasPrefix(be.Path, b.StagingRoot), be.Path)
	assert.Contains(t, be.Path, "bad")
	assert.Equal(t, -1, be.ExitCode)
	assert.False(t, p.packed)
	assertEmptyDir(t, b.StagingRoot)
	assertEmptyDir(t, mods)
}

func TestBuildStagingRootUnusable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	b := &Builder{Identity: testIdentity, Packer: &fakePacker{}, StagingRoot: file}
	mods := t.TempDir()

	_, err := b.Build(context.Background(), sampleValues(), mods)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StageStaging, be.Stage)
	assert.Equal(t, file, be.Path)
	assertEmptyDir(t, mods)
}

func TestBuildModsDirIsFile(t *testing.T) {
	mods := filepath.Join(t.TempDir(), "~mods")
	require.NoError(t, os.WriteFile(mods, []byte("not a folder"), 0o644))
	p := &fakePacker{}
	b := newBuilder(t, p)

	_, err := b.Build(context.Background(), sampleValues(), mods)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StageRelocate, be.Stage)
	assert.Equal(t, mods, be.Path)
	assert.True(t, p.packed)
	assertEmptyDir(t, b.StagingRoot)

	data, err := os.ReadFile(mods)
	require.NoError(t, err)
	assert.Equal(t, "not a folder", string(data))
}

func TestBuildArchiveTargetOccupied(t *testing.T) {
	mods := t.TempDir()
	occupied := filepath.Join(mods, testIdentity.ArchiveName())
	require.NoError(t, os.MkdirAll(occupied, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(occupied, "keep"), []byte("x"), 0o644))
	b := newBuilder(t, &fakePacker{})

	_, err := b.Build(context.Background(), sampleValues(), mods)
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StageRelocate, be.Stage)
	assert.Equal(t, occupied, be.Path)
	assertEmptyDir(t, b.StagingRoot)

	entries, err := os.ReadDir(mods)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testIdentity.ArchiveName(), entries[0].Name())
	assert.FileExists(t, filepath.Join(occupied, "keep"))
}

func TestBuildAsync(t *testing.T) {
	mods := t.TempDir()
	ch := newBuilder(t, &fakePacker{}).BuildAsync(context.Background(), sampleValues(), mods)

	out := <-ch
	require.NoError(t, out.Err)
	assert.FileExists(t, out.Result.Archive)

	_, open := <-ch
	assert.False(t, open)
}

func TestFindIncompatible(t *testing.T) {
	mods := t.TempDir()
	for _, name := range []string{"FMAO_fix.pak", "other.pak", "FluidMovementAim.txt", "a_FluidMovementAim_b.PAK"} {
		require.NoError(t, os.WriteFile(filepath.Join(mods, name), nil, 0o644))
	}
	assert.ElementsMatch(t, []string{"FMAO_fix.pak", "a_FluidMovementAim_b.PAK"}, FindIncompatible(mods))
	assert.Empty(t, FindIncompatible(filepath.Join(mods, "absent")))
}

func TestExecPackerCheck(t *testing.T) {
	dir := t.TempDir()
	p := NewExecPacker([]string{filepath.Join(dir, "missing"), dir})
	assert.ErrorIs(t, p.Check(), ErrPackerNotFound)

	exe := filepath.Join(dir, "repak")
	require.NoError(t, os.WriteFile(exe, nil, 0o755))
	p = NewExecPacker([]string{filepath.Join(dir, "missing"), exe})
	require.NoError(t, p.Check())
	assert.Equal(t, exe, p.Path())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script packer")
	}
	path := filepath.Join(t.TempDir(), "repak")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecPackerRunsInStagingRoot(t *testing.T) {
	exe := writeScript(t, `[ "$1" = pack ] || exit 9
[ -d "$2" ] || exit 8
echo packed > "$2.pak"
`)
	b := &Builder{Identity: testIdentity, Packer: NewExecPacker([]string{exe}), StagingRoot: t.TempDir()}
	mods := t.TempDir()

	res, err := b.Build(context.Background(), sampleValues(), mods)
	require.NoError(t, err)
	data, err := os.ReadFile(res.Archive)
	require.NoError(t, err)
	assert.Equal(t, "packed\n", string(data))
}

func TestExecPackerRelativePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script packer")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll("tools", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("tools", "repak"), []byte("#!/bin/sh\necho packed > \"$2.pak\"\n"), 0o755))

	p := NewExecPacker([]string{filepath.Join("tools", "repak")})
	require.NoError(t, p.Check())
	assert.True(t, filepath.IsAbs(p.Path()), p.Path())

	b := &Builder{Identity: testIdentity, Packer: p, StagingRoot: t.TempDir()}
	res, err := b.Build(context.Background(), sampleValues(), t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, res.Archive)
}

func TestExecPackerExitCode(t *testing.T) {
	exe := writeScript(t, "echo broken archive >&2\nexit 4\n")
	b := &Builder{Identity: testIdentity, Packer: NewExecPacker([]string{exe}), StagingRoot: t.TempDir()}

	_, err := b.Build(context.Background(), sampleValues(), t.TempDir())
	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, StagePack, be.Stage)
	assert.Equal(t, 4, be.ExitCode)
	assert.Contains(t, be.Output, "broken archive")
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pak")
	dst := filepath.Join(dir, "b.pak")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, moveFile(src, dst))
	assert.NoFileExists(t, src)
	data, _ := os.ReadFile(dst)
	assert.Equal(t, "x", string(data))
}
