package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4", cfg.Rate.String())
	assert.Equal(t, int32(18), cfg.Decimals)
	assert.Equal(t, NetworkMainnet, cfg.Network)
	assert.Equal(t, "BUSD", cfg.SourceSymbol)
	assert.Equal(t, "APE", cfg.TargetSymbol)
	assert.Equal(t, 6*time.Second, cfg.NoticeDuration)
	assert.Nil(t, cfg.GasLimit)
	assert.Nil(t, cfg.GasPrice)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APE_SWAP_API_URL", "https://api.example.com/")
	t.Setenv("APE_SWAP_NETWORK", "goerli")
	t.Setenv("APE_SWAP_RATE", "2.5")
	t.Setenv("APE_SWAP_GAS_LIMIT", "90000")
	t.Setenv("APE_SWAP_USER_EMAIL", "ape@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, NetworkTestnet, cfg.Network)
	assert.Equal(t, "2.5", cfg.Rate.String())
	require.NotNil(t, cfg.GasLimit)
	assert.Equal(t, uint64(90000), *cfg.GasLimit)
	assert.Equal(t, "ape@example.com", cfg.UserEmail)
}

func TestLoadRejectsBadRate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Setenv("APE_SWAP_RATE", "zero")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("APE_SWAP_RATE", "0")
	_, err = Load()
	require.ErrorContains(t, err, "rate must be greater than zero")
}

func TestValidateTransfer(t *testing.T) {
	valid := Config{
		APIURL:        "https://api.example.com",
		RPCURL:        "http://localhost:8545",
		PrivateKey:    "0xabc",
		TokenContract: "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56",
		Recipient:     "0x6507f97E3A26E966bC381153eB16Fa55ED23a38E",
		UserEmail:     "ape@example.com",
	}
	require.NoError(t, valid.ValidateTransfer())

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"missing api url", func(c *Config) { c.APIURL = "" }, "API URL"},
		{"missing key", func(c *Config) { c.PrivateKey = "" }, "private key"},
		{"bad contract", func(c *Config) { c.TokenContract = "busd" }, "token contract"},
		{"bad recipient", func(c *Config) { c.Recipient = "" }, "recipient"},
		{"missing email", func(c *Config) { c.UserEmail = "" }, "user email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.ValidateTransfer(), tt.errMsg)
		})
	}
}

func TestNormalizeNetwork(t *testing.T) {
	assert.Equal(t, NetworkMainnet, NormalizeNetwork("mainnet"))
	assert.Equal(t, NetworkMainnet, NormalizeNetwork(" MAINNET "))
	assert.Equal(t, NetworkTestnet, NormalizeNetwork("TESTNET"))
	assert.Equal(t, NetworkTestnet, NormalizeNetwork(""))
}
