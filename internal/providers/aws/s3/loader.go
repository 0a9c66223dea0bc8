package s3

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// defaultRegion is used when the profile has no region configured, so that
// SDK clients can still be constructed. S3 redirects to the bucket's region.
const defaultRegion = "us-east-1"

// Session is a loaded AWS profile with its service clients.
type Session struct {
	// ProfileName is the name from ~/.aws/config or "default".
	ProfileName string
	Region      string
	Clients     *ClientSet
}

// Loader loads AWS sessions from the standard shared config and credentials
// files using the AWS SDK v2.
type Loader struct {
	factory ClientFactory
}

// NewLoader returns a Loader backed by the real AWS SDK.
func NewLoader() *Loader {
	return &Loader{factory: NewClientSet}
}

// NewLoaderWithFactory returns a Loader that builds clients with f.
// Pass a mock factory in tests.
func NewLoaderWithFactory(f ClientFactory) *Loader {
	return &Loader{factory: f}
}

// Load resolves the named profile (empty = default credential chain) and an
// optional region override. No AWS API call is made.
func (l *Loader) Load(ctx context.Context, profile, region string) (*Session, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w", profileDisplayName(profile), err)
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	return &Session{
		ProfileName: profileDisplayName(profile),
		Region:      cfg.Region,
		Clients:     l.factory(cfg),
	}, nil
}

// profileDisplayName shows the default profile as "default".
func profileDisplayName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}
