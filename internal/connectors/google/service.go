package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
	"github.com/custodia-labs/signin/internal/logger"
)

// Ensure ProfileClient implements the interface.
var _ driven.ProfileFetcher = (*ProfileClient)(nil)

// ProfileClient fetches the user's profile from the Google userinfo API.
type ProfileClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewProfileClient creates a userinfo client rooted at baseURL.
// An empty baseURL uses the public Google API root. A nil httpClient
// uses http.DefaultClient; a nil limiter applies DefaultRateLimit.
func NewProfileClient(baseURL string, httpClient *http.Client, limiter *RateLimiter) *ProfileClient {
	if baseURL == "" {
		baseURL = domain.DefaultGoogleAPIBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimit)
	}
	return &ProfileClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// NewOAuth2Service creates a Google OAuth2 API service signed by ts.
func NewOAuth2Service(
	ctx context.Context,
	ts oauth2.TokenSource,
	baseURL string,
	base *http.Client,
) (*oauth2api.Service, error) {
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	client.Timeout = base.Timeout
	return oauth2api.NewService(ctx, option.WithHTTPClient(client), option.WithEndpoint(baseURL))
}

// UserInfo fetches the profile of the user whose token getToken returns.
func (c *ProfileClient) UserInfo(ctx context.Context, getToken driven.TokenGetter) (*domain.UserInfo, error) {
	if !c.limiter.Allow() {
		return nil, fmt.Errorf("userinfo: %w", domain.ErrRateLimited)
	}

	svc, err := NewOAuth2Service(ctx, NewTokenSource(ctx, getToken), c.baseURL, c.httpClient)
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		if IsRateLimited(err) {
			c.limiter.RecordRateLimitError(0)
		}
		logger.Debug("userinfo request failed: %v", err)
		return nil, WrapError(err)
	}

	return toUserInfo(info)
}

// toUserInfo converts the API type through its JSON form; the field
// names of both types follow the userinfo wire format.
func toUserInfo(info *oauth2api.Userinfo) (*domain.UserInfo, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("encode user info: %w", err)
	}
	var result domain.UserInfo
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &result, nil
}
