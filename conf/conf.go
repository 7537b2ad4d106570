package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/viper"

	"github.com/bharath-123/cat-mint/catmint"
	"github.com/bharath-123/cat-mint/cosmwasm"
	"github.com/bharath-123/cat-mint/keys"
	"github.com/bharath-123/cat-mint/mint"
	"github.com/bharath-123/cat-mint/secret"
	"github.com/bharath-123/cat-mint/types"
)

const (
	EnvPrefix          = "CATMINT"
	ConfigEnv          = "CATMINT_CONFIG"
	DefaultMnemonicEnv = "CATMINT_MNEMONIC"
)

type Conf struct {
	Log       Log       `mapstructure:"log" toml:"log"`
	Chain     Chain     `mapstructure:"chain" toml:"chain"`
	Account   Account   `mapstructure:"account" toml:"account"`
	Contract  Contract  `mapstructure:"contract" toml:"contract"`
	Tx        Tx        `mapstructure:"tx" toml:"tx"`
	Metrics   Metrics   `mapstructure:"metrics" toml:"metrics"`
	Publisher Publisher `mapstructure:"publisher" toml:"publisher"`
}

type Log struct {
	Level    string `mapstructure:"level" toml:"level"`
	Format   string `mapstructure:"format" toml:"format"`     // console or json
	Logstash string `mapstructure:"logstash" toml:"logstash"` // host:port, ships logs to ELK when set
}

type Chain struct {
	ID            string  `mapstructure:"id" toml:"id"`
	LCD           string  `mapstructure:"lcd" toml:"lcd"`
	GasPrices     string  `mapstructure:"gas_prices" toml:"gas_prices"`
	GasAdjustment float64 `mapstructure:"gas_adjustment" toml:"gas_adjustment"`
	Bech32Prefix  string  `mapstructure:"bech32_prefix" toml:"bech32_prefix"`
	Timeout       string  `mapstructure:"timeout" toml:"timeout"`
}

type Account struct {
	KeyName      string `mapstructure:"key_name" toml:"key_name"`
	MnemonicEnv  string `mapstructure:"mnemonic_env" toml:"mnemonic_env"`
	MnemonicFile string `mapstructure:"mnemonic_file" toml:"mnemonic_file"`
	Prompt       bool   `mapstructure:"prompt" toml:"prompt"`
	CoinType     uint32 `mapstructure:"coin_type" toml:"coin_type"`
	Account      uint32 `mapstructure:"account" toml:"account"`
	Index        uint32 `mapstructure:"index" toml:"index"`
}

type Contract struct {
	CatMint string `mapstructure:"cat_mint" toml:"cat_mint"`
}

type Tx struct {
	Funds               string   `mapstructure:"funds" toml:"funds"`
	Memo                string   `mapstructure:"memo" toml:"memo"`
	Fees                string   `mapstructure:"fees" toml:"fees"`
	Gas                 uint64   `mapstructure:"gas" toml:"gas"`
	GasAdjustment       float64  `mapstructure:"gas_adjustment" toml:"gas_adjustment"`
	FeeDenoms           []string `mapstructure:"fee_denoms" toml:"fee_denoms"`
	Wait                bool     `mapstructure:"wait" toml:"wait"`
	CheckPrice          bool     `mapstructure:"check_price" toml:"check_price"` // warn when funds are below the mint price
	ConfirmationTimeout string   `mapstructure:"confirmation_timeout" toml:"confirmation_timeout"`
}

type Metrics struct {
	Pushgateway string `mapstructure:"pushgateway" toml:"pushgateway"`
	Job         string `mapstructure:"job" toml:"job"`
}

type Publisher struct {
	Brokers []string `mapstructure:"brokers" toml:"brokers"`
	Topic   string   `mapstructure:"topic" toml:"topic"`
}

func Default() Conf {
	client := types.DefaultClientConfig()
	return Conf{
		Log: Log{Level: "info", Format: "console"},
		Chain: Chain{
			ID:            client.ChainID,
			LCD:           client.URL,
			GasPrices:     "0.35uusd",
			GasAdjustment: client.GasAdjustment,
			Bech32Prefix:  client.Bech32Prefix,
			Timeout:       client.Timeout.String(),
		},
		Account: Account{
			KeyName:     types.DefaultKeyringServiceName,
			MnemonicEnv: DefaultMnemonicEnv,
			CoinType:    types.DefaultCoinType,
		},
		Contract: Contract{CatMint: mint.DefaultContract},
		Tx: Tx{
			Funds:               mint.DefaultFunds,
			CheckPrice:          true,
			ConfirmationTimeout: mint.DefaultConfirmationTimeout.String(),
		},
		Metrics:   Metrics{Job: "catmint"},
		Publisher: Publisher{Topic: "catmint.results"},
	}
}

// NewViper returns a viper instance holding the defaults with CATMINT_ env
// overrides, e.g. CATMINT_CHAIN_LCD for chain.lcd.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.logstash", d.Log.Logstash)
	v.SetDefault("chain.id", d.Chain.ID)
	v.SetDefault("chain.lcd", d.Chain.LCD)
	v.SetDefault("chain.gas_prices", d.Chain.GasPrices)
	v.SetDefault("chain.gas_adjustment", d.Chain.GasAdjustment)
	v.SetDefault("chain.bech32_prefix", d.Chain.Bech32Prefix)
	v.SetDefault("chain.timeout", d.Chain.Timeout)
	v.SetDefault("account.key_name", d.Account.KeyName)
	v.SetDefault("account.mnemonic_env", d.Account.MnemonicEnv)
	v.SetDefault("account.mnemonic_file", d.Account.MnemonicFile)
	v.SetDefault("account.prompt", d.Account.Prompt)
	v.SetDefault("account.coin_type", d.Account.CoinType)
	v.SetDefault("account.account", d.Account.Account)
	v.SetDefault("account.index", d.Account.Index)
	v.SetDefault("contract.cat_mint", d.Contract.CatMint)
	v.SetDefault("tx.funds", d.Tx.Funds)
	v.SetDefault("tx.memo", d.Tx.Memo)
	v.SetDefault("tx.fees", d.Tx.Fees)
	v.SetDefault("tx.gas", d.Tx.Gas)
	v.SetDefault("tx.gas_adjustment", d.Tx.GasAdjustment)
	v.SetDefault("tx.fee_denoms", d.Tx.FeeDenoms)
	v.SetDefault("tx.wait", d.Tx.Wait)
	v.SetDefault("tx.check_price", d.Tx.CheckPrice)
	v.SetDefault("tx.confirmation_timeout", d.Tx.ConfirmationTimeout)
	v.SetDefault("metrics.pushgateway", d.Metrics.Pushgateway)
	v.SetDefault("metrics.job", d.Metrics.Job)
	v.SetDefault("publisher.brokers", d.Publisher.Brokers)
	v.SetDefault("publisher.topic", d.Publisher.Topic)
	return v
}

// DefaultPath is $CATMINT_CONFIG, or ~/.config/catmint/config.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "catmint", "config.toml"), nil
}

// Load reads path into v and decodes the result. A missing file leaves the
// defaults and environment in charge.
func Load(v *viper.Viper, path string) (*Conf, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		}
	}
	var c Conf
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config file invalid: %w", err)
	}
	return &c, nil
}

// EnsureConfigFile writes the default config to path unless a file is already there.
func EnsureConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	return true, WriteDefault(path)
}

func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(Default()); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	return nil
}

func (c *Conf) ClientConfig() (types.ClientConfig, error) {
	gasPrices, err := sdktypes.ParseDecCoins(c.Chain.GasPrices)
	if err != nil {
		return types.ClientConfig{}, fmt.Errorf("invalid chain.gas_prices %q: %w", c.Chain.GasPrices, err)
	}
	timeout, err := parseDuration("chain.timeout", c.Chain.Timeout, types.DefaultTimeout)
	if err != nil {
		return types.ClientConfig{}, err
	}
	cfg := types.ClientConfig{
		URL:           c.Chain.LCD,
		ChainID:       c.Chain.ID,
		GasPrices:     gasPrices,
		GasAdjustment: c.Chain.GasAdjustment,
		Bech32Prefix:  c.Chain.Bech32Prefix,
		Timeout:       timeout,
	}
	return cfg, cfg.Validate()
}

func (c *Conf) KeyOptions() keys.Options {
	return keys.Options{
		CoinType:     c.Account.CoinType,
		Account:      c.Account.Account,
		Index:        c.Account.Index,
		Bech32Prefix: c.Chain.Bech32Prefix,
	}
}

// MintConfig is the mint_cat run described by the configuration.
func (c *Conf) MintConfig() (mint.Config, error) {
	clientCfg, err := c.ClientConfig()
	if err != nil {
		return mint.Config{}, err
	}
	confirmation, err := parseDuration("tx.confirmation_timeout", c.Tx.ConfirmationTimeout, mint.DefaultConfirmationTimeout)
	if err != nil {
		return mint.Config{}, err
	}

	opts := cosmwasm.DefaultExecuteOptions().
		WithContractAddr(c.Contract.CatMint).
		WithExecuteMsg(catmint.MintCatMsg()).
		WithFunds(c.Tx.Funds).
		WithMemo(c.Tx.Memo).
		WithGas(c.Tx.Gas).
		WithGasAdjustment(c.Tx.GasAdjustment).
		WithFeeDenoms(c.Tx.FeeDenoms...)
	if c.Tx.Fees != "" {
		opts = opts.WithFees(c.Tx.Fees)
	}
	if err := opts.Err(); err != nil {
		return mint.Config{}, err
	}

	return mint.Config{
		Client:              clientCfg,
		Key:                 c.KeyOptions(),
		KeyName:             c.Account.KeyName,
		Execute:             opts,
		Wait:                c.Tx.Wait,
		CheckPrice:          c.Tx.CheckPrice,
		ConfirmationTimeout: confirmation,
	}, nil
}

// SecretSource looks for the mnemonic in the environment, then the file, then the terminal.
func (c *Conf) SecretSource() secret.Source {
	var chain secret.Chain
	if c.Account.MnemonicEnv != "" {
		chain = append(chain, secret.EnvSource{Name: c.Account.MnemonicEnv})
	}
	if c.Account.MnemonicFile != "" {
		chain = append(chain, secret.FileSource{Path: c.Account.MnemonicFile})
	}
	if c.Account.Prompt {
		chain = append(chain, secret.PromptSource{})
	}
	return chain
}

func parseDuration(key, s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}
