package base

import (
	"context"
	"sync"

	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/config"
	gethrpc "github.com/centrifuge/go-substrate-rpc-client/v4/gethrpc"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

type Client interface {
	// Call makes the call to RPC method with the provided args,
	// args must be encoded in the format RPC understands
	Call(result interface{}, method string, args ...interface{}) error
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Subscribe(ctx context.Context, namespace, subscribeMethodSuffix, unsubscribeMethodSuffix,
		notificationMethodSuffix string, channel interface{}, args ...interface{}) (
		*gethrpc.ClientSubscription, error)

	URL() string
	Close()
}

type client struct {
	gethrpc.Client

	url string
}

// URL returns the URL the client connects to
func (c client) URL() string {
	return c.url
}

// Connect connects to the provided url
func Connect(ctx context.Context, url string) (Client, error) {
	logging.Infof("substrate client connecting to %v...", url)

	ctx, cancel := context.WithTimeout(ctx, config.Default().DialTimeout)
	defer cancel()

	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	cc := client{*c, url}
	return &cc, nil
}

type SubstrateAPI struct {
	RPC    *rpc.RPC
	Client Client
	// Meta is the runtime metadata read at connect time.
	Meta *types.Metadata

	// submitMu serializes nonce reads and submissions so that concurrent
	// transactions from one account get distinct nonces.
	submitMu sync.Mutex
}

func NewSubstrateAPI(ctx context.Context, url string) (*SubstrateAPI, error) {
	cl, err := Connect(ctx, url)
	if err != nil {
		return nil, err
	}

	newRPC, err := rpc.NewRPC(cl)
	if err != nil {
		return nil, err
	}

	meta, err := newRPC.State.GetMetadataLatest()
	if err != nil {
		return nil, err
	}

	s := &SubstrateAPI{
		RPC:    newRPC,
		Client: cl,
		Meta:   meta,
	}
	return s, nil
}

func (s *SubstrateAPI) Close() {
	s.Client.Close()
}
