package api

import "context"

type Pinger interface {
	Ping(ctx context.Context, host, accessKey string) error
}

type pinger struct{}

func NewPinger() Pinger {
	return pinger{}
}

// Ping verifies the host and access key together by calling an
// authenticated endpoint before anything is saved.
func (pinger) Ping(ctx context.Context, host, accessKey string) error {
	c := newClient(host, accessKey)
	return c.Do(ctx, Params{
		Method: "GET",
		Path:   "schedules",
	})
}
