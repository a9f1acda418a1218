package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/editor"
	"github.com/scam-tools/scam/lib/embedded"
	"github.com/scam-tools/scam/lib/gamedir"
	"github.com/scam-tools/scam/lib/modbuild"
	"github.com/scam-tools/scam/lib/prefs"
	"github.com/scam-tools/scam/lib/preset"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePacker struct {
	missing bool
	staged  string
}

func (f *fakePacker) Check() error {
	if f.missing {
		return modbuild.ErrPackerNotFound
	}
	return nil
}

func (f *fakePacker) Pack(_ context.Context, root, folder string) error {
	id := config.ModIdentity{ModFolder: folder, CfgFolder: "SCAM", CfgFile: "SCAM_Player.cfg"}
	data, err := os.ReadFile(filepath.Join(root, modbuild.ContentPath(id)))
	if err != nil {
		return err
	}
	f.staged = string(data)
	return os.WriteFile(filepath.Join(root, folder+".pak"), data, 0o644)
}

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := t.TempDir()
	return config.AppConfig{
		DataDir:     filepath.Join(root, "data"),
		UserDataDir: filepath.Join(root, "user"),
		PresetsDir:  filepath.Join(root, "Presets"),
		StagingDir:  filepath.Join(root, "staging"),
	}
}

func newApp(t *testing.T, cfg config.AppConfig) (*App, *fakePacker) {
	t.Helper()
	a := New(cfg, embedded.Source())
	p := &fakePacker{}
	a.Packer = p
	return a, p
}

func field(t *testing.T, a *App, ref schema.Ref) editor.Field {
	t.Helper()
	f, ok := a.Editor().Field(ref)
	require.True(t, ok, ref.String())
	return f
}

func TestOpenStartsAtDefaults(t *testing.T) {
	cfg := testConfig(t)
	a, err := Open(cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, schema.DefaultLanguage, a.Language())
	assert.Equal(t, schema.BaseFile, a.Origin().File)
	assert.Equal(t, prefs.StatusMissing, a.PrefsStatus())
	assert.False(t, a.Editor().HasAnyChanged())
	assert.Equal(t, "45", field(t, a, schema.TurnRate).Text)
}

func TestOpenPrefersDataDirectory(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DefaultIniDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DefaultIniDir(), schema.BaseFile),
		[]byte("[MovementParams]\nBaseTurnRate = 30|60\n"), 0o644))

	a, err := Open(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, 1, a.Schema().Len())
	assert.Equal(t, "30", field(t, a, schema.TurnRate).Text)
}

func TestOpenRejectsIncompleteConfig(t *testing.T) {
	_, err := Open(config.AppConfig{})
	assert.Error(t, err)
}

func TestSetPersistsWorkingState(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)

	require.NoError(t, a.SetSync(true))
	require.NoError(t, a.Set(schema.TurnRate, "65"))
	require.NoError(t, a.Set(schema.Ref{Section: schema.SectionStamina, Key: schema.KeySafeZoneStamina}, "true"))

	b, _ := newApp(t, cfg)
	assert.True(t, b.Editor().Sync())
	assert.Equal(t, "65", field(t, b, schema.TurnRate).Text)
	assert.Equal(t, "65", field(t, b, schema.LookUpRate).Text)
	assert.True(t, field(t, b, schema.Ref{Section: schema.SectionStamina, Key: schema.KeySafeZoneStamina}).Checked)
}

func TestSetInvalidIsNotPersisted(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)
	require.NoError(t, a.Set(schema.TurnRate, "60"))

	err := a.Set(schema.TurnRate, "150")
	var verr *editor.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"MovementParams - BaseTurnRate: Value 150 exceeds maximum of 100"}, verr.Explanations)

	b, _ := newApp(t, cfg)
	assert.Equal(t, "60", field(t, b, schema.TurnRate).Text)
}

func TestSetUnknownField(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	assert.ErrorIs(t, a.Set(schema.Ref{Section: "Nope", Key: "x"}, "1"), editor.ErrUnknownField)
}

func TestLoadBundleAndDefaults(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)

	require.NoError(t, a.LoadBundle(preset.BundleV3fish))
	assert.True(t, a.Editor().Sync())
	assert.Equal(t, "65", field(t, a, schema.TurnRate).Text)
	assert.Equal(t, "5.8", field(t, a, schema.Ref{Section: schema.SectionMovement, Key: "SprintSpeed"}).Text)
	assert.ElementsMatch(t, []string{schema.SectionMovement, schema.SectionStamina, schema.SectionAiming}, a.SectionsChanged())

	require.NoError(t, a.SetForceDefaults(true))
	require.NoError(t, a.LoadDefaults())
	assert.False(t, a.Editor().HasAnyChanged())
	assert.False(t, a.Editor().Sync())
	assert.False(t, a.ForceDefaults())

	b, _ := newApp(t, cfg)
	assert.False(t, b.Editor().HasAnyChanged())
}

func TestPresetFlow(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)

	_, err := a.NewPreset("mine", false)
	assert.ErrorIs(t, err, ErrNoChanges)
	_, err = a.SavePreset(true)
	assert.ErrorIs(t, err, ErrNoPreset)

	require.NoError(t, a.Set(schema.Ref{Section: schema.SectionMovement, Key: "JumpHeight"}, "80"))
	path, err := a.NewPreset("mine", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.PresetsDir, "mine.ini"), path)
	assert.Equal(t, "mine", a.SelectedPreset())

	saved, err := preset.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len(), "only changed values are saved")

	_, err = a.NewPreset("mine", false)
	assert.ErrorIs(t, err, preset.ErrPresetExists)

	require.NoError(t, a.Set(schema.Ref{Section: schema.SectionMovement, Key: "JumpHeight"}, "90"))
	_, err = a.SavePreset(false)
	assert.ErrorIs(t, err, preset.ErrPresetExists)
	_, err = a.SavePreset(true)
	require.NoError(t, err)

	// Saving forgets the working state; the next run restores the preset.
	b, _ := newApp(t, cfg)
	assert.Equal(t, "90", field(t, b, schema.Ref{Section: schema.SectionMovement, Key: "JumpHeight"}).Text)

	require.NoError(t, b.LoadDefaults())
	require.NoError(t, b.LoadPreset("mine"))
	assert.Equal(t, "90", field(t, b, schema.Ref{Section: schema.SectionMovement, Key: "JumpHeight"}).Text)

	assert.ErrorIs(t, b.LoadPreset("absent"), preset.ErrNotFound)
}

func TestNewPresetRefusesInvalid(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	_ = a.Set(schema.Ref{Section: schema.SectionMovement, Key: "WalkSpeed"}, "fast")
	_, err := a.NewPreset("bad", false)
	var verr *editor.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"MovementParams - WalkSpeed: Must be a valid number"}, verr.Explanations)
}

func TestBuildIntoGameDir(t *testing.T) {
	cfg := testConfig(t)
	game := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(game, gamedir.GameFolder), 0o755))
	cfg.GameDir = game

	a, p := newApp(t, cfg)
	_, _, err := a.Build(context.Background())
	assert.ErrorIs(t, err, ErrNoChanges)

	require.NoError(t, a.SetSync(true))
	require.NoError(t, a.Set(schema.TurnRate, "65"))
	res, b, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.False(t, b.Local)
	assert.Equal(t, filepath.Join(gamedir.ModsDir(game), "z_SCAM_P.pak"), res.Archive)
	assert.Contains(t, p.staged, "BaseTurnRate = 65")
	assert.Contains(t, p.staged, "BaseLookUpRate = 65")
	assert.NotContains(t, p.staged, "WalkSpeed", "unchanged values are left out")
	assert.NotContains(t, p.staged, "SyncTurnRate")

	assert.Equal(t, []string{"z_SCAM_P.pak"}, a.Installed())

	ls, ok := prefs.NewStore(cfg.UserDataDir).LastSettings()
	require.True(t, ok)
	assert.True(t, ls.SyncSensitivity)
	assert.Equal(t, a.Schema().Len(), ls.Config.Len(), "the full working state is stored")

	removed, err := a.RemoveMod()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, a.Installed())
	_, ok = prefs.NewStore(cfg.UserDataDir).LastSettings()
	assert.False(t, ok)
}

func TestBuildForceDefaults(t *testing.T) {
	cfg := testConfig(t)
	cfg.GameDir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.GameDir, gamedir.GameFolder), 0o755))
	a, p := newApp(t, cfg)

	require.NoError(t, a.SetForceDefaults(true))
	_, _, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, p.staged, "WalkSpeed = 1.6")
	assert.True(t, strings.Contains(p.staged, "SpendStaminaInSafeZone = false"))
}

func TestBuildWithoutGameDirIsLocal(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)
	require.NoError(t, a.Set(schema.TurnRate, "50"))

	wd := t.TempDir()
	t.Chdir(wd)
	res, b, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, b.Local)
	assert.FileExists(t, res.Archive)

	again, err := b.Wait()
	require.NoError(t, err)
	assert.Same(t, res, again)
}

func TestBuildPackerMissing(t *testing.T) {
	a, p := newApp(t, testConfig(t))
	p.missing = true
	require.NoError(t, a.Set(schema.TurnRate, "50"))
	t.Chdir(t.TempDir())

	_, _, err := a.Build(context.Background())
	assert.ErrorIs(t, err, modbuild.ErrPackerNotFound)
}

func TestRemoveModNeedsGameDir(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	_, err := a.RemoveMod()
	assert.ErrorIs(t, err, ErrNoGameDir)
}

func TestSetGameDirResolvesAndStores(t *testing.T) {
	cfg := testConfig(t)
	game := t.TempDir()
	mods := gamedir.ModsDir(game)
	require.NoError(t, os.MkdirAll(mods, 0o755))
	a, _ := newApp(t, cfg)

	got, err := a.SetGameDir(mods)
	require.NoError(t, err)
	assert.Equal(t, game, got)
	assert.Equal(t, game, viper.GetString(config.KeyGameDir))
	assert.FileExists(t, viper.ConfigFileUsed())

	dir, ok := a.GameDir()
	assert.True(t, ok)
	assert.Equal(t, game, dir)

	_, err = a.SetGameDir(t.TempDir())
	assert.ErrorIs(t, err, gamedir.ErrNotGameDir)
}

func TestSetLanguageFallsBackAndKeepsEdits(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)
	require.NoError(t, a.Set(schema.TurnRate, "70"))

	require.NoError(t, a.SetLanguage("korean"))
	assert.Equal(t, "korean", a.Language())
	assert.Equal(t, schema.BaseFile, a.Origin().File)
	assert.Error(t, a.Origin().Fallback)
	assert.Equal(t, "70", field(t, a, schema.TurnRate).Text)

	b, _ := newApp(t, cfg)
	assert.Equal(t, "korean", b.Language())
}

func TestClear(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)
	require.NoError(t, a.Set(schema.TurnRate, "70"))
	_, err := a.NewPreset("p", false)
	require.NoError(t, err)

	a.Clear()
	assert.False(t, a.Editor().HasAnyChanged())
	assert.Empty(t, a.SelectedPreset())

	b, _ := newApp(t, cfg)
	assert.False(t, b.Editor().HasAnyChanged())
}

func TestStatus(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newApp(t, cfg)
	_ = a.Set(schema.TurnRate, "500")

	r := a.Status()
	assert.Equal(t, schema.DefaultLanguage, r.Language)
	assert.True(t, r.Changed)
	assert.Len(t, r.Invalid, 1)
	assert.Empty(t, r.GameDir)
	assert.NoError(t, r.PackerErr)
}
