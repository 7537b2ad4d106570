package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharath-123/cat-mint/mint"
	"github.com/bharath-123/cat-mint/secret"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *c)

	cfg, err := c.MintConfig()
	require.NoError(t, err)
	expected := mint.DefaultConfig()
	assert.Equal(t, expected.Client, cfg.Client)
	assert.Equal(t, expected.Execute.ContractAddr, cfg.Execute.ContractAddr)
	assert.Equal(t, expected.Execute.ExecuteMsg, cfg.Execute.ExecuteMsg)
	assert.Equal(t, "100000uluna", cfg.Execute.Funds.String())
	assert.Equal(t, "m/44'/330'/0'/0/0", cfg.Key.HDPath())
	assert.Equal(t, time.Minute, cfg.ConfirmationTimeout)
	assert.False(t, cfg.Wait)
	assert.True(t, cfg.CheckPrice)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catmint", "config.toml")

	created, err := EnsureConfigFile(path)
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	created, err = EnsureConfigFile(path)
	require.NoError(t, err)
	assert.False(t, created)

	c, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *c)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[chain]
id = "pisco-1"
lcd = "http://localhost:1317"
gas_prices = "0.15uluna"

[tx]
funds = "1000000uluna"
gas = 250000
fee_denoms = ["uluna"]
wait = true
confirmation_timeout = "2m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CATMINT_CHAIN_LCD", "http://127.0.0.1:1318")
	t.Setenv("CATMINT_TX_MEMO", "meow")

	c, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "pisco-1", c.Chain.ID)
	assert.Equal(t, "http://127.0.0.1:1318", c.Chain.LCD)
	assert.Equal(t, "meow", c.Tx.Memo)
	assert.Equal(t, []string{"uluna"}, c.Tx.FeeDenoms)
	assert.Equal(t, "terra", c.Chain.Bech32Prefix)

	cfg, err := c.MintConfig()
	require.NoError(t, err)
	assert.Equal(t, "pisco-1", cfg.Client.ChainID)
	assert.Equal(t, "0.150000000000000000uluna", cfg.Client.GasPrices.String())
	assert.Equal(t, uint64(250000), cfg.Execute.Gas)
	assert.Equal(t, "1000000uluna", cfg.Execute.Funds.String())
	assert.Equal(t, 2*time.Minute, cfg.ConfirmationTimeout)
	assert.True(t, cfg.Wait)
}

func TestMintConfigInvalid(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Conf)
	}{
		{"gas prices", func(c *Conf) { c.Chain.GasPrices = "cheap" }},
		{"timeout", func(c *Conf) { c.Chain.Timeout = "soon" }},
		{"confirmation timeout", func(c *Conf) { c.Tx.ConfirmationTimeout = "later" }},
		{"funds", func(c *Conf) { c.Tx.Funds = "lots" }},
		{"fees", func(c *Conf) { c.Tx.Fees = "-1uusd" }},
		{"lcd", func(c *Conf) { c.Chain.LCD = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			_, err := c.MintConfig()
			assert.Error(t, err)
		})
	}
}

func TestSecretSource(t *testing.T) {
	c := Default()
	assert.Equal(t, secret.Chain{secret.EnvSource{Name: DefaultMnemonicEnv}}, c.SecretSource())

	c.Account.MnemonicFile = "/run/secrets/mnemonic"
	c.Account.Prompt = true
	assert.Equal(t, secret.Chain{
		secret.EnvSource{Name: DefaultMnemonicEnv},
		secret.FileSource{Path: "/run/secrets/mnemonic"},
		secret.PromptSource{},
	}, c.SecretSource())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(ConfigEnv, "/etc/catmint.toml")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/catmint.toml", path)

	t.Setenv(ConfigEnv, "")
	path, err = DefaultPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join(".config", "catmint", "config.toml")), path)
}
