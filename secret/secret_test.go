package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const words = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestEnvSource(t *testing.T) {
	t.Setenv("CATMINT_TEST_MNEMONIC", "  "+words+"\n")
	s, err := EnvSource{Name: "CATMINT_TEST_MNEMONIC"}.Mnemonic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, words, s.String())

	_, ok := os.LookupEnv("CATMINT_TEST_MNEMONIC")
	assert.False(t, ok)

	_, err = EnvSource{Name: "CATMINT_TEST_MNEMONIC"}.Mnemonic(context.Background())
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mnemonic")
	require.NoError(t, os.WriteFile(path, []byte(words+"\n"), 0o600))

	s, err := FileSource{Path: path}.Mnemonic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, words, s.String())

	require.NoError(t, os.Chmod(path, 0o644))
	_, err = FileSource{Path: path}.Mnemonic(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSecret)

	_, err = FileSource{Path: filepath.Join(dir, "missing")}.Mnemonic(context.Background())
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestChain(t *testing.T) {
	chain := Chain{EnvSource{Name: "CATMINT_TEST_UNSET"}, FileSource{}, Static(words)}
	s, err := chain.Mnemonic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, words, s.String())

	_, err = Chain{EnvSource{Name: "CATMINT_TEST_UNSET"}}.Mnemonic(context.Background())
	assert.ErrorIs(t, err, ErrNoSecret)
}

type recordingSource struct {
	secret *Secret
}

func (r *recordingSource) Mnemonic(_ context.Context) (*Secret, error) {
	r.secret = NewSecret([]byte(words))
	return r.secret, nil
}

func TestWithSecretWipes(t *testing.T) {
	src := &recordingSource{}
	boom := errors.New("boom")

	err := WithSecret(context.Background(), src, func(mnemonic string) error {
		assert.Equal(t, words, mnemonic)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, src.secret.String())

	err = WithSecret(context.Background(), Static(""), func(string) error {
		t.Fatal("fn must not run without a secret")
		return nil
	})
	assert.ErrorIs(t, err, ErrNoSecret)
}
