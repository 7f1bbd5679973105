// Package aws builds authenticated AWS SDK configuration for artifact export.
package aws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/DrSkyle/campuslab/pkg/version"
)

// Client encapsulates AWS SDK usage, handling authentication, region resolution, and middleware injection.
type Client struct {
	Config aws.Config
	STS    *sts.Client

	// Endpoint is the AWS_ENDPOINT_URL override, empty when talking to AWS.
	Endpoint string
}

// Options controls client construction.
type Options struct {
	Region  string
	Profile string
	// Verbose logs every API operation at debug level.
	Verbose bool
	Logger  *slog.Logger
}

// NewClient initializes a new authenticated AWS client.
func NewClient(ctx context.Context, o Options) (*Client, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []func(*config.LoadOptions) error{}
	if o.Region != "" {
		opts = append(opts, config.WithRegion(o.Region))
	}
	if o.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(o.Profile))
	}

	// Check for local endpoint overrides (used for LocalStack/testing).
	endpoint := os.Getenv("AWS_ENDPOINT_URL")
	if endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	// Tag requests with the application name for server-side access logs.
	cfg.APIOptions = append(cfg.APIOptions, userAgentMiddleware)

	if o.Verbose {
		cfg.APIOptions = append(cfg.APIOptions, func(stack *middleware.Stack) error {
			return stack.Initialize.Add(middleware.InitializeMiddlewareFunc("CallLogger", func(ctx context.Context, input middleware.InitializeInput, next middleware.InitializeHandler) (
				middleware.InitializeOutput, middleware.Metadata, error,
			) {
				logger.Debug("AWS API call",
					"service", middleware.GetServiceID(ctx),
					"operation", middleware.GetOperationName(ctx))
				return next.HandleInitialize(ctx, input)
			}), middleware.Before)
		})
	}

	return &Client{
		Config:   cfg,
		STS:      sts.NewFromConfig(cfg),
		Endpoint: endpoint,
	}, nil
}

// UserAgent is the product token appended to every SDK request.
func UserAgent() string {
	return "campuslab/" + version.Current
}

func userAgentMiddleware(stack *middleware.Stack) error {
	return stack.Build.Add(middleware.BuildMiddlewareFunc("CampusLabUserAgent", func(ctx context.Context, input middleware.BuildInput, next middleware.BuildHandler) (
		middleware.BuildOutput, middleware.Metadata, error,
	) {
		if req, ok := input.Request.(*smithyhttp.Request); ok {
			if ua := req.Header.Get("User-Agent"); ua != "" {
				req.Header.Set("User-Agent", ua+" "+UserAgent())
			} else {
				req.Header.Set("User-Agent", UserAgent())
			}
		}
		return next.HandleBuild(ctx, input)
	}), middleware.After)
}

// VerifyIdentity validates the session credentials and retrieves the canonical Account ID.
func (c *Client) VerifyIdentity(ctx context.Context) (string, error) {
	result, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(result.Account), nil
}
