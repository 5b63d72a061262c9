package mailer

import "context"

// Provider defines the minimal interface that email delivery services must implement.
type Provider interface {
	// Send submits the message exactly once.
	// A rejection reported by the service is returned as *ProviderError;
	// any other error means the call itself failed.
	Send(ctx context.Context, req *SendRequest) (*SendResponse, error)

	// Name returns a short provider identifier used in logs.
	Name() string
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req *SendRequest) (*SendResponse, error)

// Send implements Provider.
func (f ProviderFunc) Send(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	return f(ctx, req)
}

// Name implements Provider.
func (f ProviderFunc) Name() string { return "func" }
