package chain

import (
	"context"

	"github.com/FavorLabs/ipsex/pkg/chain/rpc/base"
	"github.com/FavorLabs/ipsex/pkg/chain/rpc/ipse"
)

type Client struct {
	Default *base.SubstrateAPI
	Ipse    ipse.Interface
}

func NewClient(ctx context.Context, url string) (*Client, error) {
	api, err := base.NewSubstrateAPI(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Client{
		Default: api,
		Ipse:    ipse.New(api),
	}, nil
}
