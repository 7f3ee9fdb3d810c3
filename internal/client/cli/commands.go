package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/client/client"
	"github.com/dmitrijs2005/ticketbox/internal/netx"
)

var uploadFile = netx.UploadToPresignedURL

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// isSet reports whether name was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be RFC3339", ErrUsage, s)
	}
	return t, nil
}

func required(fs *flag.FlagSet, values map[string]string) error {
	for name, v := range values {
		if v == "" {
			return fmt.Errorf("%w: %s requires -%s", ErrUsage, fs.Name(), name)
		}
	}
	return nil
}

func (a *App) wallet(ctx context.Context, args []string) error {
	_, err := fmt.Fprintln(a.out, a.client.Wallet())
	return err
}

func (a *App) sealKey(ctx context.Context, args []string) error {
	fs := newFlagSet("seal-key")
	out := fs.String("out", "", "keystore file to create")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"out": *out}); err != nil {
		return err
	}

	pass, err := NewPassphrase(a.out)
	if err != nil {
		return err
	}
	data, err := client.SealKey(a.signer, pass)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	return a.print(map[string]any{"wallet": a.signer.PublicKey.ToBase58(), "keystore": *out})
}

func (a *App) airdrop(ctx context.Context, args []string) error {
	fs := newFlagSet("airdrop")
	lamports := fs.Uint64("lamports", 0, "lamports to credit")
	to := fs.String("to", a.client.Wallet(), "wallet to credit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	balance, err := a.client.Airdrop(ctx, *to, *lamports)
	if err != nil {
		return err
	}
	return a.print(map[string]any{"wallet": *to, "lamports": balance})
}

func (a *App) balance(ctx context.Context, args []string) error {
	fs := newFlagSet("balance")
	wallet := fs.String("wallet", a.client.Wallet(), "wallet to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	balance, err := a.client.Balance(ctx, *wallet)
	if err != nil {
		return err
	}
	return a.print(map[string]any{"wallet": *wallet, "lamports": balance})
}

func (a *App) createBox(ctx context.Context, args []string) error {
	fs := newFlagSet("create-box")
	id := fs.String("id", "", "box id (generated when empty)")
	name := fs.String("name", "", "ticket name prefix")
	uri := fs.String("uri", "", "metadata URI")
	start := fs.String("start", "", "sale start, RFC3339 (default: now)")
	end := fs.String("end", "", "sale end, RFC3339")
	supply := fs.Int64("supply", 0, "total tickets")
	perWallet := fs.Int64("per-wallet", 0, "tickets per wallet")
	price := fs.Uint64("price", 0, "price in lamports or token base units")
	escrow := fs.String("escrow", "", "escrow wallet or token account")
	mint := fs.String("mint", "", "SPL token mint to charge in")
	transferable := fs.Bool("transferable", false, "tickets may change hands")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"name": *name, "escrow": *escrow}); err != nil {
		return err
	}

	req := &api.CreateBoxRequest{
		ID:           *id,
		Name:         *name,
		InfoURI:      *uri,
		StartAt:      time.Now().Add(time.Second).Truncate(time.Second),
		Price:        *price,
		Transferable: *transferable,
		Escrow:       *escrow,
	}
	if *start != "" {
		t, err := parseTime(*start)
		if err != nil {
			return err
		}
		req.StartAt = t
	}
	if *end != "" {
		t, err := parseTime(*end)
		if err != nil {
			return err
		}
		req.EndAt = &t
	}
	if isSet(fs, "supply") {
		req.TotalSupply = supply
	}
	if isSet(fs, "per-wallet") {
		req.PerWalletLimit = perWallet
	}
	if *mint != "" {
		req.CurrencyMint = mint
	}

	box, err := a.client.CreateBox(ctx, req)
	if err != nil {
		return err
	}
	return a.print(box)
}

func (a *App) updateBox(ctx context.Context, args []string) error {
	fs := newFlagSet("update-box")
	id := fs.String("box", "", "box id")
	name := fs.String("name", "", "ticket name prefix")
	uri := fs.String("uri", "", "metadata URI")
	start := fs.String("start", "", "sale start, RFC3339")
	end := fs.String("end", "", "sale end, RFC3339")
	supply := fs.Int64("supply", 0, "total tickets")
	perWallet := fs.Int64("per-wallet", 0, "tickets per wallet")
	price := fs.Uint64("price", 0, "price")
	transferable := fs.Bool("transferable", false, "tickets may change hands")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"box": *id}); err != nil {
		return err
	}

	req := &api.UpdateBoxRequest{Creator: a.client.Wallet(), BoxID: *id}
	if isSet(fs, "name") {
		req.Name = name
	}
	if isSet(fs, "uri") {
		req.InfoURI = uri
	}
	if isSet(fs, "start") {
		t, err := parseTime(*start)
		if err != nil {
			return err
		}
		req.StartAt = &t
	}
	if isSet(fs, "end") {
		t, err := parseTime(*end)
		if err != nil {
			return err
		}
		req.EndAt = &t
	}
	if isSet(fs, "supply") {
		req.TotalSupply = supply
	}
	if isSet(fs, "per-wallet") {
		req.PerWalletLimit = perWallet
	}
	if isSet(fs, "price") {
		req.Price = price
	}
	if isSet(fs, "transferable") {
		req.Transferable = transferable
	}

	box, err := a.client.UpdateBox(ctx, req)
	if err != nil {
		return err
	}
	return a.print(box)
}

func (a *App) boxRef(name string, args []string) (creator, id string, err error) {
	fs := newFlagSet(name)
	c := fs.String("creator", a.client.Wallet(), "box creator")
	b := fs.String("box", "", "box id")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if err := required(fs, map[string]string{"box": *b}); err != nil {
		return "", "", err
	}
	return *c, *b, nil
}

func (a *App) getBox(ctx context.Context, args []string) error {
	creator, id, err := a.boxRef("get-box", args)
	if err != nil {
		return err
	}
	box, err := a.client.GetBox(ctx, creator, id)
	if err != nil {
		return err
	}
	return a.print(box)
}

func (a *App) uploadURL(ctx context.Context, args []string) error {
	_, id, err := a.boxRef("upload-url", args)
	if err != nil {
		return err
	}
	up, err := a.client.RequestAssetUpload(ctx, id)
	if err != nil {
		return err
	}
	return a.print(up)
}

func (a *App) uploadAsset(ctx context.Context, args []string) error {
	fs := newFlagSet("upload-asset")
	id := fs.String("box", "", "box id")
	file := fs.String("file", "", "local file to upload")
	contentType := fs.String("content-type", netx.DefaultContentType, "content type of the file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"box": *id, "file": *file}); err != nil {
		return err
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	up, err := a.client.RequestAssetUpload(ctx, *id)
	if err != nil {
		return err
	}
	if err := uploadFile(ctx, up.URL, *contentType, data); err != nil {
		return err
	}
	return a.print(map[string]any{"key": up.Key, "bytes": len(data)})
}

func (a *App) buy(ctx context.Context, args []string) error {
	fs := newFlagSet("buy")
	creator := fs.String("creator", "", "box creator")
	id := fs.String("box", "", "box id")
	tokenAccount := fs.String("token-account", "", "paying token account (token boxes)")
	authority := fs.String("authority", "", "delegate authorizing the token transfer")
	buyer := fs.String("buyer", "", "wallet the ticket is bought for (default: this wallet)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"creator": *creator, "box": *id}); err != nil {
		return err
	}

	res, err := a.client.Purchase(ctx, &api.PurchaseRequest{
		Creator:           *creator,
		BoxID:             *id,
		Buyer:             *buyer,
		TokenAccount:      *tokenAccount,
		TransferAuthority: *authority,
	})
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *App) tickets(ctx context.Context, args []string) error {
	creator, id, err := a.boxRef("tickets", args)
	if err != nil {
		return err
	}
	list, err := a.client.ListIssuances(ctx, creator, id)
	if err != nil {
		return err
	}
	return a.print(list)
}

func (a *App) createMint(ctx context.Context, args []string) error {
	fs := newFlagSet("create-mint")
	decimals := fs.Uint("decimals", 6, "mint decimals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *decimals > 255 {
		return fmt.Errorf("%w: decimals must fit in a byte", ErrUsage)
	}
	mint, err := a.client.CreateMint(ctx, uint8(*decimals))
	if err != nil {
		return err
	}
	return a.print(mint)
}

func (a *App) createTokenAccount(ctx context.Context, args []string) error {
	fs := newFlagSet("create-token-account")
	wallet := fs.String("wallet", a.client.Wallet(), "owning wallet")
	mint := fs.String("mint", "", "token mint")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"mint": *mint}); err != nil {
		return err
	}
	acc, err := a.client.CreateTokenAccount(ctx, *wallet, *mint)
	if err != nil {
		return err
	}
	return a.print(acc)
}

func (a *App) mintTo(ctx context.Context, args []string) error {
	fs := newFlagSet("mint-to")
	account := fs.String("account", "", "token account")
	amount := fs.Uint64("amount", 0, "amount in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"account": *account}); err != nil {
		return err
	}
	balance, err := a.client.MintTo(ctx, *account, *amount)
	if err != nil {
		return err
	}
	return a.print(map[string]any{"account": *account, "amount": balance})
}

func (a *App) approve(ctx context.Context, args []string) error {
	fs := newFlagSet("approve")
	account := fs.String("account", "", "token account")
	delegate := fs.String("delegate", "", "delegate wallet")
	amount := fs.Uint64("amount", 0, "allowance in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"account": *account, "delegate": *delegate}); err != nil {
		return err
	}
	if err := a.client.Approve(ctx, *account, *delegate, *amount); err != nil {
		return err
	}
	return a.print(map[string]any{"account": *account, "delegate": *delegate, "amount": *amount})
}
