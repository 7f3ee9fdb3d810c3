package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/client/config"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	wallet   string
	created  *api.CreateBoxRequest
	updated  *api.UpdateBoxRequest
	purchase *api.PurchaseRequest
	airdrop  uint64
	closed   bool
	err      error
}

func (f *fakeClient) Wallet() string { return f.wallet }

func (f *fakeClient) CreateBox(ctx context.Context, req *api.CreateBoxRequest) (*api.Box, error) {
	f.created = req
	return &api.Box{ID: "b1", Name: req.Name, Creator: f.wallet}, f.err
}

func (f *fakeClient) UpdateBox(ctx context.Context, req *api.UpdateBoxRequest) (*api.Box, error) {
	f.updated = req
	return &api.Box{ID: req.BoxID}, f.err
}

func (f *fakeClient) GetBox(ctx context.Context, creator, boxID string) (*api.Box, error) {
	return &api.Box{ID: boxID, Creator: creator}, f.err
}

func (f *fakeClient) RequestAssetUpload(ctx context.Context, boxID string) (*api.AssetUpload, error) {
	return &api.AssetUpload{Key: "boxes/" + boxID}, f.err
}

func (f *fakeClient) Purchase(ctx context.Context, req *api.PurchaseRequest) (*api.PurchaseResponse, error) {
	f.purchase = req
	return &api.PurchaseResponse{SoldCount: 1, Issuance: api.Issuance{Name: "Show #1"}}, f.err
}

func (f *fakeClient) ListIssuances(ctx context.Context, creator, boxID string) ([]api.Issuance, error) {
	return []api.Issuance{{Sequence: 1}}, f.err
}

func (f *fakeClient) Airdrop(ctx context.Context, wallet string, lamports uint64) (uint64, error) {
	f.airdrop += lamports
	return f.airdrop, f.err
}

func (f *fakeClient) Balance(ctx context.Context, wallet string) (uint64, error) {
	return f.airdrop, f.err
}

func (f *fakeClient) CreateMint(ctx context.Context, decimals uint8) (*api.Mint, error) {
	return &api.Mint{Address: "Mint", Decimals: decimals}, f.err
}

func (f *fakeClient) CreateTokenAccount(ctx context.Context, wallet, mint string) (*api.TokenAccount, error) {
	return &api.TokenAccount{Address: "Ata", Wallet: wallet, Mint: mint}, f.err
}

func (f *fakeClient) MintTo(ctx context.Context, account string, amount uint64) (uint64, error) {
	return amount, f.err
}

func (f *fakeClient) Approve(ctx context.Context, account, delegate string, amount uint64) error {
	return f.err
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func newTestApp() (*App, *fakeClient, *bytes.Buffer) {
	fc := &fakeClient{wallet: "Wallet1"}
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{config: cfg, client: fc, signer: types.NewAccount(), out: out}, fc, out
}

func TestRun_CreateBox(t *testing.T) {
	app, fc, out := newTestApp()

	err := app.Run(context.Background(), []string{"create-box",
		"-name", "Show #", "-escrow", "Escrow", "-price", "100",
		"-start", "2026-11-01T18:00:00Z", "-end", "2026-11-01T23:00:00Z",
		"-supply", "100", "-per-wallet", "2"})
	require.NoError(t, err)
	assert.True(t, fc.closed)

	req := fc.created
	require.NotNil(t, req)
	assert.Equal(t, uint64(100), req.Price)
	assert.Equal(t, time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC), req.StartAt.UTC())
	require.NotNil(t, req.EndAt)
	require.NotNil(t, req.TotalSupply)
	assert.Equal(t, int64(100), *req.TotalSupply)
	assert.Equal(t, int64(2), *req.PerWalletLimit)
	assert.Nil(t, req.CurrencyMint)

	var box api.Box
	require.NoError(t, json.Unmarshal(out.Bytes(), &box))
	assert.Equal(t, "b1", box.ID)
}

func TestRun_CreateBoxUnboundedByDefault(t *testing.T) {
	app, fc, _ := newTestApp()

	require.NoError(t, app.Run(context.Background(), []string{"create-box", "-name", "Free", "-escrow", "E"}))
	assert.Nil(t, fc.created.TotalSupply)
	assert.Nil(t, fc.created.PerWalletLimit)
	assert.Nil(t, fc.created.EndAt)
	assert.False(t, fc.created.StartAt.Before(time.Now().Truncate(time.Second)))
}

func TestRun_UpdateBoxOnlySetFields(t *testing.T) {
	app, fc, _ := newTestApp()

	require.NoError(t, app.Run(context.Background(), []string{"update-box", "-box", "b1", "-price", "0", "-transferable"}))
	req := fc.updated
	require.NotNil(t, req)
	assert.Equal(t, "Wallet1", req.Creator)
	require.NotNil(t, req.Price)
	assert.Equal(t, uint64(0), *req.Price)
	require.NotNil(t, req.Transferable)
	assert.True(t, *req.Transferable)
	assert.Nil(t, req.Name)
	assert.Nil(t, req.TotalSupply)
	assert.Nil(t, req.StartAt)
}

func TestRun_Buy(t *testing.T) {
	app, fc, out := newTestApp()

	require.NoError(t, app.Run(context.Background(), []string{"buy", "-creator", "C", "-box", "b1", "-token-account", "Ata"}))
	assert.Equal(t, &api.PurchaseRequest{Creator: "C", BoxID: "b1", TokenAccount: "Ata"}, fc.purchase)
	assert.Contains(t, out.String(), "Show #1")

	require.NoError(t, app.Run(context.Background(), []string{"buy", "-creator", "C", "-box", "b1", "-buyer", "B", "-token-account", "Ata", "-authority", "D"}))
	assert.Equal(t, &api.PurchaseRequest{Creator: "C", BoxID: "b1", Buyer: "B", TokenAccount: "Ata", TransferAuthority: "D"}, fc.purchase)
}

func TestRun_LedgerCommands(t *testing.T) {
	app, _, out := newTestApp()
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"airdrop", "-lamports", "50"}))
	assert.Contains(t, out.String(), `"lamports": 50`)

	for _, args := range [][]string{
		{"balance"},
		{"wallet"},
		{"get-box", "-box", "b1"},
		{"upload-url", "-box", "b1"},
		{"tickets", "-creator", "C", "-box", "b1"},
		{"create-mint", "-decimals", "9"},
		{"create-token-account", "-mint", "Mint"},
		{"mint-to", "-account", "Ata", "-amount", "5"},
		{"approve", "-account", "Ata", "-delegate", "D", "-amount", "5"},
	} {
		require.NoError(t, app.Run(ctx, args), args[0])
	}
}

func TestRun_Errors(t *testing.T) {
	app, fc, out := newTestApp()
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, nil))
	assert.Contains(t, out.String(), "create-box")

	assert.ErrorIs(t, app.Run(ctx, []string{"refund"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"buy", "-box", "b1"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"create-box", "-name", "x", "-escrow", "e", "-start", "tomorrow"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"create-mint", "-decimals", "300"}), ErrUsage)
	assert.Error(t, app.Run(ctx, []string{"airdrop", "-lamports", "-1"}))

	fc.err = errors.New("rpc error: sold out")
	assert.EqualError(t, app.Run(ctx, []string{"buy", "-creator", "C", "-box", "b1"}), "rpc error: sold out")
}

func TestRun_UploadAsset(t *testing.T) {
	app, _, out := newTestApp()
	ctx := context.Background()

	orig := uploadFile
	t.Cleanup(func() { uploadFile = orig })

	var gotURL, gotCT string
	var gotData []byte
	uploadFile = func(ctx context.Context, url, contentType string, file []byte) error {
		gotURL, gotCT, gotData = url, contentType, file
		return nil
	}

	path := filepath.Join(t.TempDir(), "art.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	require.NoError(t, app.Run(ctx, []string{"upload-asset", "-box", "b1", "-file", path, "-content-type", "image/png"}))
	assert.Equal(t, "", gotURL)
	assert.Equal(t, "image/png", gotCT)
	assert.Equal(t, []byte("png-bytes"), gotData)

	var printed map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, "boxes/b1", printed["key"])
	assert.EqualValues(t, 9, printed["bytes"])

	assert.ErrorIs(t, app.Run(ctx, []string{"upload-asset", "-box", "b1"}), ErrUsage)
	assert.Error(t, app.Run(ctx, []string{"upload-asset", "-box", "b1", "-file", filepath.Join(t.TempDir(), "missing")}))

	uploadFile = func(ctx context.Context, url, contentType string, file []byte) error {
		return errors.New("upload failed: 403 Forbidden")
	}
	assert.EqualError(t, app.Run(ctx, []string{"upload-asset", "-box", "b1", "-file", path}), "upload failed: 403 Forbidden")
}

func TestSplitArgs(t *testing.T) {
	global, cmd := SplitArgs([]string{"-a", "host:1", "-k", "id.json", "buy", "-box", "b1"}, config.GlobalFlags)
	assert.Equal(t, []string{"-a", "host:1", "-k", "id.json"}, global)
	assert.Equal(t, []string{"buy", "-box", "b1"}, cmd)

	global, cmd = SplitArgs([]string{"-a=host:1", "wallet"}, config.GlobalFlags)
	assert.Equal(t, []string{"-a=host:1"}, global)
	assert.Equal(t, []string{"wallet"}, cmd)

	global, cmd = SplitArgs([]string{"-a", "host:1"}, config.GlobalFlags)
	assert.Equal(t, []string{"-a", "host:1"}, global)
	assert.Nil(t, cmd)
}

func TestNewApp_KeySources(t *testing.T) {
	acc := types.NewAccount()

	origClient, origRead := newClient, readPassword
	t.Cleanup(func() { newClient, readPassword = origClient, origRead })

	var signedAs string
	newClient = func(c *config.Config, signer types.Account) (Client, error) {
		signedAs = signer.PublicKey.ToBase58()
		return &fakeClient{wallet: signedAs}, nil
	}

	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte(base58.Encode(acc.PrivateKey)), 0o600))
	cfg := &config.Config{KeyFile: path}
	_, err := NewApp(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey.ToBase58(), signedAs)

	readPassword = func(fd int) ([]byte, error) { return []byte(base58.Encode(acc.PrivateKey) + "\n"), nil }
	signedAs = ""
	var prompt bytes.Buffer
	_, err = NewApp(&config.Config{}, &prompt)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey.ToBase58(), signedAs)
	assert.Contains(t, prompt.String(), "secret key")

	readPassword = func(fd int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = NewApp(&config.Config{}, &bytes.Buffer{})
	assert.EqualError(t, err, "not a terminal")
}

func TestRun_SealKeyThenLoad(t *testing.T) {
	app, _, out := newTestApp()
	ctx := context.Background()

	origClient, origRead := newClient, readPassword
	t.Cleanup(func() { newClient, readPassword = origClient, origRead })

	answers := [][]byte{[]byte("pw"), []byte("pw")}
	readPassword = func(fd int) ([]byte, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}

	path := filepath.Join(t.TempDir(), "wallet.keystore")
	require.NoError(t, app.Run(ctx, []string{"seal-key", "-out", path}))
	assert.Contains(t, out.String(), app.signer.PublicKey.ToBase58())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kdf": "argon2id"`)
	assert.NotContains(t, string(data), base58.Encode(app.signer.PrivateKey))

	var signedAs string
	newClient = func(c *config.Config, signer types.Account) (Client, error) {
		signedAs = signer.PublicKey.ToBase58()
		return &fakeClient{wallet: signedAs}, nil
	}
	readPassword = func(fd int) ([]byte, error) { return []byte("pw"), nil }
	var prompt bytes.Buffer
	_, err = NewApp(&config.Config{KeyFile: path}, &prompt)
	require.NoError(t, err)
	assert.Equal(t, app.signer.PublicKey.ToBase58(), signedAs)
	assert.Contains(t, prompt.String(), "passphrase")
}

func TestRun_SealKeyPassphraseMismatch(t *testing.T) {
	app, _, _ := newTestApp()
	ctx := context.Background()

	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	answers := []string{"one", "two"}
	readPassword = func(fd int) ([]byte, error) {
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}

	path := filepath.Join(t.TempDir(), "wallet.keystore")
	assert.ErrorIs(t, app.Run(ctx, []string{"seal-key", "-out", path}), ErrPassphraseMismatch)
	assert.NoFileExists(t, path)

	assert.ErrorIs(t, app.Run(ctx, []string{"seal-key"}), ErrUsage)
}
