package harness

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(`testdata/harness.toml`)
	require.NoError(t, err)

	want := &Config{
		Looper:   LooperConfig{Paused: true},
		Log:      LogConfig{Level: `debug`},
		Manifest: ManifestConfig{Path: filepath.Join(`testdata`, `AndroidManifest.xml`)},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	opts, err := cfg.Options(&buf)
	require.NoError(t, err)
	h := newHarness(t, opts...)
	assert.True(t, h.Looper().IsPaused())
	assert.Equal(t, `com.wacka.wa`, h.Application().PackageName())
	assert.Contains(t, buf.String(), `harness: created`)
}

func TestLoadConfig_UnknownKeys(t *testing.T) {
	_, err := LoadConfig(`testdata/unknown.toml`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown keys: looper.speed`)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(`testdata/missing.toml`)
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	for _, tc := range [...]struct {
		name    string
		input   string
		want    *Config
		wantErr string
	}{
		{
			name:  `empty`,
			input: ``,
			want:  &Config{},
		},
		{
			name: `application`,
			input: `
[application]
package = "com.example"
[log]
level = "warn"
`,
			want: &Config{
				Application: ApplicationConfig{Package: `com.example`},
				Log:         LogConfig{Level: `warn`},
			},
		},
		{
			name:    `bad level`,
			input:   "[log]\nlevel = \"loud\"\n",
			wantErr: `invalid log level "loud"`,
		},
		{
			name:    `bad package`,
			input:   "[application]\npackage = \"com/example\"\n",
			wantErr: `invalid application package`,
		},
		{
			name:    `syntax`,
			input:   "[looper\n",
			wantErr: `harness: config:`,
		},
		{
			name:    `wrong type`,
			input:   "[looper]\npaused = \"yes\"\n",
			wantErr: `harness: config:`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tc.input))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, cfg); diff != "" {
				t.Errorf("unexpected config (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfig_OptionsLoggingDisabled(t *testing.T) {
	cfg := &Config{Application: ApplicationConfig{Package: `com.example`}}
	var buf bytes.Buffer
	opts, err := cfg.Options(&buf)
	require.NoError(t, err)
	h := newHarness(t, opts...)
	assert.False(t, h.Looper().IsPaused())
	assert.Equal(t, `com.example`, h.Application().PackageName())
	assert.Empty(t, buf.String())

	_, err = (&Config{Log: LogConfig{Level: `nope`}}).Options(nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for input, want := range map[string]logiface.Level{
		``:          logiface.LevelDisabled,
		`disabled`:  logiface.LevelDisabled,
		`emerg`:     logiface.LevelEmergency,
		`alert`:     logiface.LevelAlert,
		`crit`:      logiface.LevelCritical,
		`err`:       logiface.LevelError,
		`error`:     logiface.LevelError,
		`warning`:   logiface.LevelWarning,
		`WARN`:      logiface.LevelWarning,
		`notice`:    logiface.LevelNotice,
		` info `:    logiface.LevelInformational,
		`debug`:     logiface.LevelDebug,
		`trace`:     logiface.LevelTrace,
		`emergency`: logiface.LevelEmergency,
	} {
		got, err := ParseLevel(input)
		if assert.NoError(t, err, input) {
			assert.Equal(t, want, got, input)
		}
	}
	_, err := ParseLevel(`7`)
	assert.Error(t, err)
}
