package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/anyswap/iconic/cid"
	"github.com/anyswap/iconic/log"
	"github.com/anyswap/iconic/params"
)

const (
	apiPath = "/api/v0"

	// the daemon gives up resolving first, so its answer arrives before ours
	timeoutGrace = 5 * time.Second
)

// phrases of the daemon's error messages when a block is unknown,
// or could not be resolved within the timeout option
var notFoundMessages = []string{
	"not found",
	"could not find",
	"no link named",
	"context deadline exceeded",
}

// Client talks to the HTTP RPC API of an IPFS daemon
type Client struct {
	apiAddress     string
	resolveTimeout string
	maxContentSize int64
	client         *resty.Client
}

// NewClient new ipfs api client, zero Timeout means no timeout
func NewClient(config *params.IpfsConfig) *Client {
	apiAddress := strings.TrimSuffix(config.APIAddress, "/")
	client := resty.New().SetHostURL(apiAddress + apiPath)
	c := &Client{
		apiAddress:     apiAddress,
		maxContentSize: config.MaxContentSize,
		client:         client,
	}
	if c.maxContentSize <= 0 {
		c.maxContentSize = params.DefaultMaxContentSize
	}
	if config.Timeout > 0 {
		timeout := time.Duration(config.Timeout) * time.Second
		c.resolveTimeout = timeout.String()
		client.SetTimeout(timeout + timeoutGrace)
	}
	return c
}

type addResult struct {
	Name string
	Hash string
	Size string
}

type apiError struct {
	Message string
	Code    int
	Type    string
}

// Add call /api/v0/add and pin the content
func (c *Client) Add(ctx context.Context, content io.Reader) (cid.ID, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"pin":         "true",
			"cid-version": "0",
		}).
		SetFileReader("file", "icon", content).
		Post("/add")
	if err != nil {
		return cid.ID{}, fmt.Errorf("%w: add to %v: %v", ErrConnectivity, c.apiAddress, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return cid.ID{}, fmt.Errorf("%w: add to %v: %v", ErrConnectivity, c.apiAddress, describeError(resp.StatusCode(), resp.Body()))
	}

	hash, err := parseAddResult(resp.Body())
	if err != nil {
		return cid.ID{}, fmt.Errorf("%w: add result: %v", ErrMalformedResponse, err)
	}
	id, err := cid.Parse(hash)
	if err != nil {
		return cid.ID{}, fmt.Errorf("%w: add result: %v", ErrMalformedResponse, err)
	}
	log.Debug("ipfs add success", "cid", id)
	return id, nil
}

// the daemon streams one json object per added entry, the last one is the root
func parseAddResult(body []byte) (string, error) {
	var hash string
	decoder := json.NewDecoder(bytes.NewReader(body))
	for decoder.More() {
		var result addResult
		if err := decoder.Decode(&result); err != nil {
			return "", err
		}
		if result.Hash != "" {
			hash = result.Hash
		}
	}
	if hash == "" {
		return "", fmt.Errorf("no hash in %q", string(body))
	}
	return hash, nil
}

// Cat call /api/v0/cat and concatenate the streamed chunks
func (c *Client) Cat(ctx context.Context, id cid.ID) ([]byte, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("arg", id.String()).
		SetDoNotParseResponse(true)
	if c.resolveTimeout != "" {
		req.SetQueryParam("timeout", c.resolveTimeout)
	}
	resp, err := req.Post("/cat")
	if err != nil {
		return nil, fmt.Errorf("%w: cat %v from %v: %v", ErrConnectivity, id, c.apiAddress, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		msg, _ := ioutil.ReadAll(io.LimitReader(body, 64*1024))
		if isNotFound(resp.StatusCode(), msg) {
			return nil, fmt.Errorf("%w: cat %v: %v", ErrNotFound, id, describeError(resp.StatusCode(), msg))
		}
		return nil, fmt.Errorf("%w: cat %v from %v: %v", ErrConnectivity, id, c.apiAddress, describeError(resp.StatusCode(), msg))
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, c.maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: cat %v read body: %v", ErrConnectivity, id, err)
	}
	if n > c.maxContentSize {
		return nil, fmt.Errorf("%w: cat %v exceeds max content size %v", ErrMalformedResponse, id, c.maxContentSize)
	}
	log.Debug("ipfs cat success", "cid", id, "size", n)
	return buf.Bytes(), nil
}

// Close release idle connections
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// the daemon reports a missing object as an internal error,
// other statuses come from something that is not the daemon api
func isNotFound(status int, body []byte) bool {
	if status != http.StatusInternalServerError {
		return false
	}
	msg := strings.ToLower(string(body))
	for _, phrase := range notFoundMessages {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func describeError(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Sprintf("status %v: %v", status, apiErr.Message)
	}
	return fmt.Sprintf("status %v: %v", status, strings.TrimSpace(string(body)))
}
