package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
)

// remoteAPI is the HTTP client shared by the remote adapters.
type remoteAPI struct {
	http    fastshot.ClientHttpMethods
	anonKey string
}

func newRemoteAPI(baseURL, anonKey string, timeout time.Duration) *remoteAPI {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := fastshot.NewClient(baseURL).
		Config().SetTimeout(timeout).
		Header().Add("Content-Type", "application/json").
		Build()
	return &remoteAPI{http: c, anonKey: anonKey}
}

// request describes one API call.
type request struct {
	method string
	path   string
	token  string
	body   any
	// fallback is the message used when an error response has no body.
	fallback string
	// network is the message used when no response arrives.
	network string
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
// Every error it returns is a *Failure.
func (a *remoteAPI) do(ctx context.Context, req request, out any) error {
	var b *fastshot.RequestBuilder
	switch req.method {
	case http.MethodGet:
		b = a.http.GET(req.path)
	case http.MethodPost:
		b = a.http.POST(req.path)
	case http.MethodPut:
		b = a.http.PUT(req.path)
	case http.MethodDelete:
		b = a.http.DELETE(req.path)
	default:
		return &Failure{Message: req.network, Err: fmt.Errorf("unsupported method %s", req.method)}
	}

	b = b.Context().Set(ctx).Header().Add("Accept", "application/json")
	if req.token != "" {
		b = b.Header().Add("Authorization", "Bearer "+req.token)
	}
	if req.body != nil {
		b = b.Body().AsJSON(req.body)
	}

	resp, err := b.Send()
	if err != nil {
		return &Failure{Message: req.network, Err: err}
	}
	defer resp.Body().Close()

	if resp.Status().IsError() {
		text, err := resp.Body().AsString()
		if err != nil {
			return &Failure{Message: req.network, Err: err}
		}
		msg := errorText(text)
		if msg == "" {
			msg = req.fallback
		}
		return &Failure{Message: msg, Status: resp.Status().Code()}
	}

	if out == nil {
		return nil
	}
	if err := resp.Body().AsJSON(out); err != nil {
		return &Failure{Message: req.network, Status: resp.Status().Code(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
