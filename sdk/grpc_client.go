package sdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// DirectGRPCClient talks to a sustain node over gRPC. The REST gateway
// uses it to relay signed transactions without going through the CLI.
type DirectGRPCClient struct {
	conn         *grpc.ClientConn
	txClient     txtypes.ServiceClient
	authClient   authtypes.QueryClient
	cdc          codec.Codec
	chainID      string
	accountCache sync.Map
	mu           sync.RWMutex
}

// NewDirectGRPCClient dials the node and wraps its tx and auth services
func NewDirectGRPCClient(grpcAddr, chainID string, cdc codec.Codec) (*DirectGRPCClient, error) {
	conn, err := grpc.Dial(
		grpcAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(1024*1024*10)), // 10MB
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dial gRPC: %w", err)
	}

	return &DirectGRPCClient{
		conn:       conn,
		txClient:   txtypes.NewServiceClient(conn),
		authClient: authtypes.NewQueryClient(conn),
		cdc:        cdc,
		chainID:    chainID,
	}, nil
}

// AccountInfo caches account sequence for faster tx building
type AccountInfo struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
	LastUpdated   time.Time
}

// BroadcastTx broadcasts a signed transaction
func (c *DirectGRPCClient) BroadcastTx(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdk.TxResponse, error) {
	res, err := c.txClient.BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
		TxBytes: txBytes,
		Mode:    mode,
	})
	if err != nil {
		return nil, fmt.Errorf("broadcast failed: %w", err)
	}
	return res.TxResponse, nil
}

// BroadcastTxSync broadcasts and waits for the CheckTx result
func (c *DirectGRPCClient) BroadcastTxSync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	return c.BroadcastTx(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_SYNC)
}

// BroadcastTxAsync broadcasts without waiting for CheckTx
func (c *DirectGRPCClient) BroadcastTxAsync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	return c.BroadcastTx(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_ASYNC)
}

// GetAccountInfo fetches or returns cached account info. The cache lets
// a frontend fire several sustainments in one block without re-querying
// the sequence each time.
func (c *DirectGRPCClient) GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	if cached, ok := c.accountCache.Load(address); ok {
		info := cached.(*AccountInfo)
		if time.Since(info.LastUpdated) < time.Second {
			return info, nil
		}
	}

	res, err := c.authClient.Account(ctx, &authtypes.QueryAccountRequest{
		Address: address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	var acc authtypes.AccountI
	if err := c.cdc.UnpackAny(res.Account, &acc); err != nil {
		return nil, fmt.Errorf("failed to unpack account: %w", err)
	}

	info := &AccountInfo{
		Address:       address,
		AccountNumber: acc.GetAccountNumber(),
		Sequence:      acc.GetSequence(),
		LastUpdated:   time.Now(),
	}

	c.accountCache.Store(address, info)
	return info, nil
}

// IncrementSequence atomically increments the cached sequence
func (c *DirectGRPCClient) IncrementSequence(address string) {
	if cached, ok := c.accountCache.Load(address); ok {
		info := cached.(*AccountInfo)
		c.mu.Lock()
		info.Sequence++
		c.mu.Unlock()
	}
}

// BatchBroadcast sends multiple transactions in parallel. Used by
// collection frontends that settle many owners in one pass.
func (c *DirectGRPCClient) BatchBroadcast(ctx context.Context, txBytesSlice [][]byte) ([]*sdk.TxResponse, error) {
	results := make([]*sdk.TxResponse, len(txBytesSlice))
	errs := make([]error, len(txBytesSlice))
	var wg sync.WaitGroup

	for i, txBytes := range txBytesSlice {
		wg.Add(1)
		go func(idx int, tb []byte) {
			defer wg.Done()
			res, err := c.BroadcastTxAsync(ctx, tb)
			results[idx] = res
			errs[idx] = err
		}(i, txBytes)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, fmt.Errorf("batch broadcast had errors: %w", err)
		}
	}

	return results, nil
}

// ChainID returns the chain the client is bound to
func (c *DirectGRPCClient) ChainID() string {
	return c.chainID
}

// Close closes the gRPC connection
func (c *DirectGRPCClient) Close() error {
	return c.conn.Close()
}
