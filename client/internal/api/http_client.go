package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mongovault/client/internal/auth"
	"mongovault/client/internal/config"
)

type (
	Params struct {
		Method      string
		Path        string
		Body        interface{}
		Response    interface{}
		QueryParams map[string]string
		Headers     map[string]string
	}

	Client interface {
		Do(ctx context.Context, param Params) error
	}

	client struct {
		httpClient *http.Client
		baseUrl    string
		accessKey  string
	}
)

func NewClient() (Client, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, errors.New("no configuration found, run 'mongovault config init' first")
	}

	accessKey, err := auth.Get()
	if err != nil {
		return nil, errors.New("no access key found, run 'mongovault config init' first")
	}

	return newClient(cfg.Host, accessKey), nil
}

func newClient(host, accessKey string) *client {
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	if !strings.HasSuffix(host, "v1/") {
		host += "v1/"
	}

	return &client{
		httpClient: &http.Client{},
		baseUrl:    host,
		accessKey:  accessKey,
	}
}

func (c client) Do(ctx context.Context, param Params) error {
	requestUrl, err := url.Parse(c.baseUrl + param.Path)
	if err != nil {
		return err
	}

	if len(param.QueryParams) > 0 {
		values := url.Values{}
		for k, v := range param.QueryParams {
			values.Add(k, v)
		}
		requestUrl.RawQuery = values.Encode()
	}

	var body io.Reader
	if param.Body != nil {
		bodyBin, err := json.Marshal(param.Body)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(bodyBin)
	}

	req, err := http.NewRequestWithContext(ctx, param.Method, requestUrl.String(), body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if len(param.Headers) > 0 {
		for k, v := range param.Headers {
			req.Header.Set(k, v)
		}
	}
	if c.accessKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			// eat
		}
	}()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(responseBody)
	}

	if param.Response != nil {
		if err := json.Unmarshal(responseBody, &param.Response); err != nil {
			return err
		}
	}
	return nil
}

func (c client) parseError(b []byte) error {
	var errorResponse struct {
		Message string
	}
	if err := json.Unmarshal(b, &errorResponse); err != nil {
		return err
	}
	if errorResponse.Message == "" {
		return errors.New("request failed")
	}
	return errors.New(errorResponse.Message)
}
