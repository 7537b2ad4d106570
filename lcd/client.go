package lcd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdktypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/gogoproto/jsonpb"
	"github.com/cosmos/gogoproto/proto"
	"google.golang.org/grpc/codes"

	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/types"
)

const (
	accountPath   = "/cosmos/auth/v1beta1/accounts/"
	simulatePath  = "/cosmos/tx/v1beta1/simulate"
	txsPath       = "/cosmos/tx/v1beta1/txs"
	smartPath     = "/cosmwasm/wasm/v1/contract/%s/smart/%s"
	nodeInfoPath  = "/cosmos/base/tendermint/v1beta1/node_info"
	heightHeader  = "Grpc-Metadata-X-Cosmos-Block-Height"
	maxErrorBytes = 4 << 10
)

// Client talks to the REST gateway (LCD/FCD) of a cosmos-sdk node.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	registry   codectypes.InterfaceRegistry
	log        logger.Logger
}

type Option func(*Client)

// WithTimeout bounds every request. It applies per request, so a client given
// to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(baseURL string, registry codectypes.InterfaceRegistry, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid lcd url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("lcd url must be http or https, got %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    types.DefaultTimeout,
		registry:   registry,
		log:        logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Account returns the on-chain account and the height it was read at.
// An account the chain has never seen is reported as insufficient funds: it holds nothing.
func (c *Client) Account(ctx context.Context, addr string) (sdktypes.AccountI, int64, error) {
	const op = "query account"
	body, header, err := c.do(ctx, op, http.MethodGet, accountPath+url.PathEscape(addr), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, 0, types.InsufficientFundsError(op, fmt.Errorf("account %s not found on chain", addr))
		}
		return nil, 0, err
	}

	var resp authtypes.QueryAccountResponse
	if err := c.decodeProto(body, &resp); err != nil {
		return nil, 0, types.NetworkError(op, err)
	}
	var acc sdktypes.AccountI
	if err := c.registry.UnpackAny(resp.Account, &acc); err != nil {
		return nil, 0, types.NetworkError(op, fmt.Errorf("failed to unpack account: %w", err))
	}
	if acc == nil {
		return nil, 0, types.NetworkError(op, errors.New("account response is empty"))
	}

	height, _ := strconv.ParseInt(header.Get(heightHeader), 10, 64)
	return acc, height, nil
}

// Simulate runs txBytes against the node's current state without committing.
func (c *Client) Simulate(ctx context.Context, txBytes []byte) (*sdktypes.GasInfo, error) {
	const op = "simulate tx"
	reqBody, err := json.Marshal(map[string]string{
		"tx_bytes": base64.StdEncoding.EncodeToString(txBytes),
	})
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(ctx, op, http.MethodPost, simulatePath, reqBody)
	if err != nil {
		return nil, err
	}

	var resp txtypes.SimulateResponse
	if err := c.decodeProto(body, &resp); err != nil {
		return nil, types.NetworkError(op, err)
	}
	if resp.GasInfo == nil {
		return nil, types.NetworkError(op, errors.New("simulate response carries no gas info"))
	}
	return resp.GasInfo, nil
}

// Broadcast submits txBytes once. A non-zero code in the returned response is
// the node's verdict, not a transport failure, and is returned without error.
func (c *Client) Broadcast(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdktypes.TxResponse, error) {
	const op = "broadcast tx"
	reqBody, err := json.Marshal(map[string]string{
		"tx_bytes": base64.StdEncoding.EncodeToString(txBytes),
		"mode":     mode.String(),
	})
	if err != nil {
		return nil, err
	}
	body, _, err := c.do(ctx, op, http.MethodPost, txsPath, reqBody)
	if err != nil {
		return nil, err
	}

	var resp txtypes.BroadcastTxResponse
	if err := c.decodeProto(body, &resp); err != nil {
		return nil, types.NetworkError(op, err)
	}
	if resp.TxResponse == nil {
		return nil, types.NetworkError(op, errors.New("broadcast response carries no tx_response"))
	}
	return resp.TxResponse, nil
}

func (c *Client) Tx(ctx context.Context, hash string) (*sdktypes.TxResponse, error) {
	const op = "query tx"
	body, _, err := c.do(ctx, op, http.MethodGet, txsPath+"/"+url.PathEscape(hash), nil)
	if err != nil {
		return nil, err
	}

	var resp txtypes.GetTxResponse
	if err := c.decodeProto(body, &resp); err != nil {
		return nil, types.NetworkError(op, err)
	}
	if resp.TxResponse == nil {
		return nil, types.NetworkError(op, errors.New("tx response is empty"))
	}
	return resp.TxResponse, nil
}

// SmartQuery runs a read-only contract query and returns the raw JSON answer.
func (c *Client) SmartQuery(ctx context.Context, contract string, queryMsg []byte) ([]byte, error) {
	const op = "smart query"
	if !json.Valid(queryMsg) {
		return nil, types.TransactionRejectedError(op, errors.New("query message is not valid JSON"))
	}
	path := fmt.Sprintf(smartPath, url.PathEscape(contract), url.PathEscape(base64.StdEncoding.EncodeToString(queryMsg)))
	body, _, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, types.NetworkError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return resp.Data, nil
}

type NodeInfo struct {
	Network          string
	NodeVersion      string
	Moniker          string
	AppName          string
	AppVersion       string
	GitCommit        string
	CosmosSDKVersion string
}

func (c *Client) NodeInfo(ctx context.Context) (*NodeInfo, error) {
	const op = "query node info"
	body, _, err := c.do(ctx, op, http.MethodGet, nodeInfoPath, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		DefaultNodeInfo struct {
			Network string `json:"network"`
			Version string `json:"version"`
			Moniker string `json:"moniker"`
		} `json:"default_node_info"`
		ApplicationVersion struct {
			AppName          string `json:"app_name"`
			Version          string `json:"version"`
			GitCommit        string `json:"git_commit"`
			CosmosSDKVersion string `json:"cosmos_sdk_version"`
		} `json:"application_version"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, types.NetworkError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return &NodeInfo{
		Network:          resp.DefaultNodeInfo.Network,
		NodeVersion:      resp.DefaultNodeInfo.Version,
		Moniker:          resp.DefaultNodeInfo.Moniker,
		AppName:          resp.ApplicationVersion.AppName,
		AppVersion:       resp.ApplicationVersion.Version,
		GitCommit:        resp.ApplicationVersion.GitCommit,
		CosmosSDKVersion: resp.ApplicationVersion.CosmosSDKVersion,
	}, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]byte, http.Header, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, types.NetworkError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("lcd request failed", logger.WithField("op", op), logger.WithField("error", err))
		return nil, nil, types.NetworkError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, types.NetworkError(op, fmt.Errorf("failed to read response: %w", err))
	}
	c.log.Debug("lcd request",
		logger.WithField("op", op),
		logger.WithField("status", resp.StatusCode),
		logger.WithField("duration_ms", time.Since(start).Milliseconds()))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, resp.Header, nil
	}
	return nil, nil, classify(op, resp.StatusCode, respBody)
}

func (c *Client) decodeProto(body []byte, msg proto.Message) error {
	u := jsonpb.Unmarshaler{AllowUnknownFields: true, AnyResolver: c.registry}
	if err := u.Unmarshal(bytes.NewReader(body), msg); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return codectypes.UnpackInterfaces(msg, c.registry)
}

// StatusError is a non-2xx answer from the gateway.
type StatusError struct {
	HTTPStatus int
	Code       codes.Code
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lcd returned http %d", e.HTTPStatus)
	}
	return fmt.Sprintf("lcd returned http %d (%s): %s", e.HTTPStatus, e.Code, e.Message)
}

func (e *StatusError) NotFound() bool {
	return e.Code == codes.NotFound || (e.Message == "" && e.HTTPStatus == http.StatusNotFound)
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.NotFound()
}

// classify maps a gateway error body to a typed error. Failed simulations come
// back as gRPC Unknown over HTTP 500, so the status code alone says nothing
// about the network.
func classify(op string, status int, body []byte) error {
	var gw struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &gw); err != nil || (gw.Code == 0 && gw.Message == "") {
		se := &StatusError{HTTPStatus: status, Message: strings.TrimSpace(truncate(body))}
		if status >= 500 || status == http.StatusTooManyRequests {
			return types.NetworkError(op, se)
		}
		return types.TransactionRejectedError(op, se)
	}

	se := &StatusError{HTTPStatus: status, Code: codes.Code(gw.Code), Message: gw.Message}
	switch se.Code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Canceled:
		return types.NetworkError(op, se)
	}
	if types.ClassifyMessage(se.Message) == types.KindInsufficientFunds {
		return types.InsufficientFundsError(op, se)
	}
	return types.TransactionRejectedError(op, se)
}

func truncate(body []byte) string {
	if len(body) > maxErrorBytes {
		body = body[:maxErrorBytes]
	}
	return string(body)
}
