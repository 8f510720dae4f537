package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Kiosk.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// State retrieves the current playback state.
func (c *Client) State() (*StateResponse, error) {
	var resp StateResponse
	if err := c.client.Call("Kiosk.State", StateRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Scan injects a card scan as if a reader had posted it.
func (c *Client) Scan(cardID string) (*ScanResponse, error) {
	var resp ScanResponse
	if err := c.client.Call("Kiosk.Scan", ScanRequest{CardID: cardID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Navigate moves the active playlist position.
func (c *Client) Navigate(direction string) (*NavigateResponse, error) {
	var resp NavigateResponse
	if err := c.client.Call("Kiosk.Navigate", NavigateRequest{Direction: direction}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cards lists the scan ledger.
func (c *Client) Cards() (*CardsResponse, error) {
	var resp CardsResponse
	if err := c.client.Call("Kiosk.Cards", CardsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MapCard appends an asset to a card's playlist.
func (c *Client) MapCard(cardID, asset string) (*MapCardResponse, error) {
	var resp MapCardResponse
	req := MapCardRequest{CardID: cardID, Asset: asset}
	if err := c.client.Call("Kiosk.MapCard", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnmapAsset removes one entry from a card's playlist.
func (c *Client) UnmapAsset(cardID string, index int) (*UnmapAssetResponse, error) {
	var resp UnmapAssetResponse
	req := UnmapAssetRequest{CardID: cardID, Index: index}
	if err := c.client.Call("Kiosk.UnmapAsset", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MappingText fetches the mapping document.
func (c *Client) MappingText() (*MappingTextResponse, error) {
	var resp MappingTextResponse
	if err := c.client.Call("Kiosk.MappingText", MappingTextRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WriteMappingText replaces the mapping document.
func (c *Client) WriteMappingText(text string) (*WriteMappingTextResponse, error) {
	var resp WriteMappingTextResponse
	if err := c.client.Call("Kiosk.WriteMappingText", WriteMappingTextRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Assets lists the asset library.
func (c *Client) Assets() (*AssetsResponse, error) {
	var resp AssetsResponse
	if err := c.client.Call("Kiosk.Assets", AssetsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
