package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)
	require.Equal(t, ":1337", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.GraceTimeout)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	require.Equal(t, 5*time.Second, cfg.Genesis.CallTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Empty(t, cfg.Genesis.Pools)
}

func TestLoad_Pools(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
listen_addr: ":8080"
request_timeout: 2s
genesis:
  provider: "0x00000000000000000000000000000000000000f1"
  rpc_url: "http://localhost:8545"
  base_token: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
  pools:
    - symbol: TKA
      asset: "0x00000000000000000000000000000000000000a1"
      account: "0x00000000000000000000000000000000000000a2"
      base_reserve: "1000"
      asset_reserve: "115792089237316195423570985008687907853269984665640564039457584007913129639935"
    - symbol: USDC
      account: "0x00000000000000000000000000000000000000c2"
      pair: "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"
`))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 2*time.Second, cfg.RequestTimeout)

	provider, err := cfg.Genesis.ProviderAddress()
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xf1"), provider)

	pools, err := cfg.Genesis.ParsePools()
	require.NoError(t, err)
	require.Len(t, pools, 2)

	require.Equal(t, "TKA", pools[0].Symbol)
	require.Equal(t, common.HexToAddress("0xa1"), pools[0].Asset)
	require.Equal(t, common.HexToAddress("0xa2"), pools[0].Account)
	require.Equal(t, uint64(1000), pools[0].BaseReserve.Uint64())
	require.Equal(t, 256, pools[0].AssetReserve.BitLen())
	require.False(t, pools[0].Seeded())

	require.True(t, pools[1].Seeded())
	require.Equal(t, common.Address{}, pools[1].Asset)
	require.Nil(t, pools[1].BaseReserve)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	const pool = `
genesis:
  provider: "0x00000000000000000000000000000000000000f1"
  pools:
    - asset: "0x00000000000000000000000000000000000000a1"
      account: "0x00000000000000000000000000000000000000a2"
`
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "listen_addr: [\n"},
		{name: "unknown field", body: "listen_address: \":1\"\n"},
		{name: "missing provider", body: `
genesis:
  pools:
    - asset: "0x00000000000000000000000000000000000000a1"
      account: "0x00000000000000000000000000000000000000a2"
      base_reserve: "1"
      asset_reserve: "1"
`},
		{name: "missing reserves", body: pool},
		{name: "zero reserve", body: pool + `      base_reserve: "0"
      asset_reserve: "1"
`},
		{name: "negative reserve", body: pool + `      base_reserve: "-1"
      asset_reserve: "1"
`},
		{name: "bad account", body: `
genesis:
  provider: "0x00000000000000000000000000000000000000f1"
  pools:
    - asset: "0x00000000000000000000000000000000000000a1"
      account: "nope"
      base_reserve: "1"
      asset_reserve: "1"
`},
		{name: "pair without rpc", body: `
genesis:
  provider: "0x00000000000000000000000000000000000000f1"
  base_token: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
  pools:
    - account: "0x00000000000000000000000000000000000000c2"
      pair: "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"
`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
