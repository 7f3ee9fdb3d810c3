package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "ticketbox.v1.TicketBox"

// FullMethod returns the gRPC path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Method names.
const (
	MethodLogin              = "Login"
	MethodCreateBox          = "CreateBox"
	MethodUpdateBox          = "UpdateBox"
	MethodGetBox             = "GetBox"
	MethodRequestAssetUpload = "RequestAssetUpload"
	MethodPurchase           = "Purchase"
	MethodListIssuances      = "ListIssuances"
	MethodAirdrop            = "Airdrop"
	MethodBalance            = "Balance"
	MethodCreateMint         = "CreateMint"
	MethodCreateTokenAccount = "CreateTokenAccount"
	MethodMintTo             = "MintTo"
	MethodApprove            = "Approve"
)

type TicketBoxServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreateBox(context.Context, *CreateBoxRequest) (*Box, error)
	UpdateBox(context.Context, *UpdateBoxRequest) (*Box, error)
	GetBox(context.Context, *BoxRef) (*Box, error)
	RequestAssetUpload(context.Context, *BoxRef) (*AssetUpload, error)
	Purchase(context.Context, *PurchaseRequest) (*PurchaseResponse, error)
	ListIssuances(context.Context, *BoxRef) (*ListIssuancesResponse, error)
	Airdrop(context.Context, *AirdropRequest) (*BalanceResponse, error)
	Balance(context.Context, *BalanceRequest) (*BalanceResponse, error)
	CreateMint(context.Context, *CreateMintRequest) (*Mint, error)
	CreateTokenAccount(context.Context, *CreateTokenAccountRequest) (*TokenAccount, error)
	MintTo(context.Context, *MintToRequest) (*BalanceResponse, error)
	Approve(context.Context, *ApproveRequest) (*Empty, error)
}

func unary[Req, Resp any](name string, call func(TicketBoxServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(TicketBoxServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TicketBoxServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodLogin, TicketBoxServer.Login),
		unary(MethodCreateBox, TicketBoxServer.CreateBox),
		unary(MethodUpdateBox, TicketBoxServer.UpdateBox),
		unary(MethodGetBox, TicketBoxServer.GetBox),
		unary(MethodRequestAssetUpload, TicketBoxServer.RequestAssetUpload),
		unary(MethodPurchase, TicketBoxServer.Purchase),
		unary(MethodListIssuances, TicketBoxServer.ListIssuances),
		unary(MethodAirdrop, TicketBoxServer.Airdrop),
		unary(MethodBalance, TicketBoxServer.Balance),
		unary(MethodCreateMint, TicketBoxServer.CreateMint),
		unary(MethodCreateTokenAccount, TicketBoxServer.CreateTokenAccount),
		unary(MethodMintTo, TicketBoxServer.MintTo),
		unary(MethodApprove, TicketBoxServer.Approve),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ticketbox/v1/ticketbox.json",
}

func RegisterTicketBoxServer(s grpc.ServiceRegistrar, srv TicketBoxServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// TicketBoxClient calls the service over cc using the JSON codec.
type TicketBoxClient struct {
	cc grpc.ClientConnInterface
}

func NewTicketBoxClient(cc grpc.ClientConnInterface) *TicketBoxClient {
	return &TicketBoxClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TicketBoxClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *TicketBoxClient) CreateBox(ctx context.Context, in *CreateBoxRequest, opts ...grpc.CallOption) (*Box, error) {
	return invoke[Box](ctx, c.cc, MethodCreateBox, in, opts...)
}

func (c *TicketBoxClient) UpdateBox(ctx context.Context, in *UpdateBoxRequest, opts ...grpc.CallOption) (*Box, error) {
	return invoke[Box](ctx, c.cc, MethodUpdateBox, in, opts...)
}

func (c *TicketBoxClient) GetBox(ctx context.Context, in *BoxRef, opts ...grpc.CallOption) (*Box, error) {
	return invoke[Box](ctx, c.cc, MethodGetBox, in, opts...)
}

func (c *TicketBoxClient) RequestAssetUpload(ctx context.Context, in *BoxRef, opts ...grpc.CallOption) (*AssetUpload, error) {
	return invoke[AssetUpload](ctx, c.cc, MethodRequestAssetUpload, in, opts...)
}

func (c *TicketBoxClient) Purchase(ctx context.Context, in *PurchaseRequest, opts ...grpc.CallOption) (*PurchaseResponse, error) {
	return invoke[PurchaseResponse](ctx, c.cc, MethodPurchase, in, opts...)
}

func (c *TicketBoxClient) ListIssuances(ctx context.Context, in *BoxRef, opts ...grpc.CallOption) (*ListIssuancesResponse, error) {
	return invoke[ListIssuancesResponse](ctx, c.cc, MethodListIssuances, in, opts...)
}

func (c *TicketBoxClient) Airdrop(ctx context.Context, in *AirdropRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, MethodAirdrop, in, opts...)
}

func (c *TicketBoxClient) Balance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, MethodBalance, in, opts...)
}

func (c *TicketBoxClient) CreateMint(ctx context.Context, in *CreateMintRequest, opts ...grpc.CallOption) (*Mint, error) {
	return invoke[Mint](ctx, c.cc, MethodCreateMint, in, opts...)
}

func (c *TicketBoxClient) CreateTokenAccount(ctx context.Context, in *CreateTokenAccountRequest, opts ...grpc.CallOption) (*TokenAccount, error) {
	return invoke[TokenAccount](ctx, c.cc, MethodCreateTokenAccount, in, opts...)
}

func (c *TicketBoxClient) MintTo(ctx context.Context, in *MintToRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, MethodMintTo, in, opts...)
}

func (c *TicketBoxClient) Approve(ctx context.Context, in *ApproveRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodApprove, in, opts...)
}
