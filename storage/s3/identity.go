package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/kbukum/demoassets/errors"
	"github.com/kbukum/demoassets/storage"
)

// IdentityChecker calls STS GetCallerIdentity.
type IdentityChecker struct {
	client *sts.Client
}

// NewIdentityChecker creates a checker from a resolved SDK config.
func NewIdentityChecker(awsCfg aws.Config, optFns ...func(*sts.Options)) *IdentityChecker {
	return &IdentityChecker{client: sts.NewFromConfig(awsCfg, optFns...)}
}

// IdentityCheckerFor loads the profile/region pair and returns a checker for it.
func IdentityCheckerFor(ctx context.Context, region, profile string) (storage.IdentityChecker, error) {
	awsCfg, err := LoadAWSConfig(ctx, region, profile)
	if err != nil {
		return nil, err
	}
	return NewIdentityChecker(awsCfg), nil
}

// CheckIdentity returns the caller identity or a BACKEND_ERROR.
func (c *IdentityChecker) CheckIdentity(ctx context.Context) (storage.Identity, error) {
	out, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return storage.Identity{}, errors.BackendError("identity", err)
	}
	return storage.Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

var _ storage.IdentityChecker = (*IdentityChecker)(nil)
