package trellis

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellisdev/trellis/inject"
	"github.com/trellisdev/trellis/tree"
)

const sampleConfig = `
greeting: hi there
page_size: 25
admin:
  realm: staff
`

func TestLoadConfig(t *testing.T) {
	t.Run("parses scalars and sections", func(t *testing.T) {
		cfg, err := LoadConfig([]byte(sampleConfig))
		require.NoError(t, err)

		assert.Equal(t, "hi there", cfg["greeting"])
		assert.Equal(t, 25, cfg["page_size"])

		admin := cfg.Section("admin")
		require.NotNil(t, admin)
		assert.Equal(t, "staff", admin["realm"])
	})

	t.Run("missing section is nil", func(t *testing.T) {
		cfg, err := LoadConfig([]byte(sampleConfig))
		require.NoError(t, err)
		assert.Nil(t, cfg.Section("no_such_section"))
	})

	t.Run("scalar is not a section", func(t *testing.T) {
		cfg, err := LoadConfig([]byte(sampleConfig))
		require.NoError(t, err)
		assert.Nil(t, cfg.Section("greeting"))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig([]byte("greeting: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("load from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trellis.yml")
		require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hi there", cfg["greeting"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})
}

func TestConfigWiresIntoController(t *testing.T) {
	cfg, err := LoadConfig([]byte(sampleConfig))
	require.NoError(t, err)

	h := inject.NewHandler(func(args inject.Args) (any, error) {
		return args.String("realm"), nil
	}, inject.Required("realm"))

	sub := tree.New()
	sub.Path("whoarewe").Route(h, "GET")

	tr := tree.New()
	tr.Path("admin").Mount(sub, cfg.Section("admin"))
	c := New(tr, WithConfig(cfg))

	rec := do(t, c, http.MethodGet, "/admin/whoarewe")
	assert.Equal(t, "staff", rec.Body.String())
}
