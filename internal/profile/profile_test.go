package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterhq/arbiter/internal/awareness"
)

func TestDefaultProfile(t *testing.T) {
	p := Default()

	assert.Equal(t, "default", p.Name)
	assert.Equal(t, 0.7, p.Strictness)
	assert.True(t, p.Learning)
	assert.True(t, p.Awareness.Log)
	assert.NotEmpty(t, p.Foundation)
	require.NoError(t, Validate(p))
}

func TestLoadBuiltinStrict(t *testing.T) {
	p, err := Load("strict")

	require.NoError(t, err)
	assert.Equal(t, "strict", p.Name)
	assert.Equal(t, 0.9, p.Strictness)
	assert.False(t, p.Learning)
	require.NoError(t, Validate(p))
}

func TestLoadUnknownProfile(t *testing.T) {
	_, err := Load("no-such-profile")
	assert.Error(t, err)
}

func TestLoadFileEmptyPathReturnsDefault(t *testing.T) {
	p, err := LoadFile("")

	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)
}

func TestLoadFileMissingFileReturnsDefault(t *testing.T) {
	p, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)
}

func TestLoadFileOverlaysOntoDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: custom\nstrictness: 0.5\n"), 0o644))

	p, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, 0.5, p.Strictness)
	// Fields the file omits keep their default values.
	assert.True(t, p.Learning)
	assert.NotEmpty(t, p.Foundation)
}

func TestLoadFileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestListIncludesBuiltins(t *testing.T) {
	names := List()

	assert.Contains(t, names, "default")
	assert.Contains(t, names, "strict")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{
			name:    "missing name",
			profile: Profile{Strictness: 0.5},
			wantErr: "name is required",
		},
		{
			name:    "strictness out of range",
			profile: Profile{Name: "p", Strictness: 1.5},
			wantErr: "strictness",
		},
		{
			name: "webhook without url",
			profile: Profile{Name: "p", Strictness: 0.5, Awareness: awareness.Config{
				Webhooks: []awareness.WebhookConfig{{Events: []string{"block"}}},
			}},
			wantErr: "url is required",
		},
		{
			name: "pubsub without topic",
			profile: Profile{Name: "p", Strictness: 0.5, Awareness: awareness.Config{
				PubSub: &awareness.PubSubConfig{Project: "proj"},
			}},
			wantErr: "project and topic",
		},
		{
			name:    "valid",
			profile: Profile{Name: "p", Strictness: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.profile)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
