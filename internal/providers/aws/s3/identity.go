package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Identity is the caller identity reported by STS.
type Identity struct {
	Account string `json:"account"`
	ARN     string `json:"arn"`
}

// CallerIdentity calls STS GetCallerIdentity to confirm the loaded
// credentials work before a report is exported.
func CallerIdentity(ctx context.Context, client STSClient) (Identity, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return Identity{}, fmt.Errorf("STS GetCallerIdentity returned nil account")
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
	}, nil
}
