// Package cli implements ticketbox-cli, a one-shot command line client for
// creating ticket boxes, buying tickets and funding the demo ledger.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/dmitrijs2005/ticketbox/internal/api"
	"github.com/dmitrijs2005/ticketbox/internal/client/client"
	"github.com/dmitrijs2005/ticketbox/internal/client/config"
)

var ErrUsage = errors.New("usage")

// Client is what the commands need from the server connection.
type Client interface {
	Wallet() string
	CreateBox(ctx context.Context, req *api.CreateBoxRequest) (*api.Box, error)
	UpdateBox(ctx context.Context, req *api.UpdateBoxRequest) (*api.Box, error)
	GetBox(ctx context.Context, creator, boxID string) (*api.Box, error)
	RequestAssetUpload(ctx context.Context, boxID string) (*api.AssetUpload, error)
	Purchase(ctx context.Context, req *api.PurchaseRequest) (*api.PurchaseResponse, error)
	ListIssuances(ctx context.Context, creator, boxID string) ([]api.Issuance, error)
	Airdrop(ctx context.Context, wallet string, lamports uint64) (uint64, error)
	Balance(ctx context.Context, wallet string) (uint64, error)
	CreateMint(ctx context.Context, decimals uint8) (*api.Mint, error)
	CreateTokenAccount(ctx context.Context, wallet, mint string) (*api.TokenAccount, error)
	MintTo(ctx context.Context, account string, amount uint64) (uint64, error)
	Approve(ctx context.Context, account, delegate string, amount uint64) error
	Close() error
}

type command struct {
	help string
	run  func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"wallet":               {"print the wallet address", (*App).wallet},
	"airdrop":              {"credit lamports: -lamports N [-to WALLET]", (*App).airdrop},
	"balance":              {"show lamports: [-wallet WALLET]", (*App).balance},
	"create-box":           {"create a ticket box", (*App).createBox},
	"update-box":           {"change fields of an own box: -box ID ...", (*App).updateBox},
	"get-box":              {"show a box: -creator WALLET -box ID", (*App).getBox},
	"upload-url":           {"presigned upload for box assets: -box ID", (*App).uploadURL},
	"upload-asset":         {"upload box artwork: -box ID -file PATH [-content-type TYPE]", (*App).uploadAsset},
	"buy":                  {"buy a ticket: -creator WALLET -box ID [-token-account ATA] [-buyer WALLET -authority DELEGATE]", (*App).buy},
	"tickets":              {"list issued tickets: -creator WALLET -box ID", (*App).tickets},
	"create-mint":          {"create a token mint: [-decimals N]", (*App).createMint},
	"create-token-account": {"open an associated token account: -mint MINT [-wallet WALLET]", (*App).createTokenAccount},
	"mint-to":              {"mint tokens: -account ACCOUNT -amount N", (*App).mintTo},
	"seal-key":             {"write the wallet key to an encrypted keystore: -out PATH", (*App).sealKey},
	"approve":              {"allow a delegate to spend: -account ACCOUNT -delegate WALLET -amount N", (*App).approve},
}

type App struct {
	config *config.Config
	client Client
	signer types.Account
	out    io.Writer
}

var newClient = func(c *config.Config, signer types.Account) (Client, error) {
	return client.NewTicketBoxClient(c.ServerEndpointAddr, signer)
}

// NewApp loads the wallet key and connects to the server.
func NewApp(c *config.Config, out io.Writer) (*App, error) {
	var (
		signer types.Account
		err    error
	)
	if c.KeyFile != "" {
		signer, err = client.LoadKeyFile(c.KeyFile, AskPassphrase(out))
	} else {
		signer, err = GetSecretKey(out)
	}
	if err != nil {
		return nil, err
	}

	apiClient, err := newClient(c, signer)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, signer: signer, out: out}, nil
}

// Run executes one command. args[0] is the command name.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	if len(args) == 0 || args[0] == "help" {
		a.usage()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()
	return cmd.run(a, ctx, args[1:])
}

func (a *App) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "Usage: ticketbox-cli [-a ADDR] [-k KEYFILE] [-t SECONDS] [-c CONFIG] <command> [flags]")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %-22s %s\n", name, commands[name].help)
	}
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
