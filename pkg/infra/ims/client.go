package ims

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/interfaces"
	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/domain/types"
)

// DefaultBaseURL is the production token service endpoint
const DefaultBaseURL = "https://ims-na1.adobelogin.com"

const exchangePath = "/ims/exchange/jwt"

// assertionTTL is the validity window of the signed assertion. The token
// service rejects assertions with a far-future expiry, so keep this short.
const assertionTTL = 5 * time.Minute

type client struct {
	creds      *model.ServiceCredentials
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the token service endpoint
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient overrides the HTTP client, mostly for tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a TokenSource backed by the JWT exchange endpoint of the
// token service
func New(creds *model.ServiceCredentials, opts ...Option) interfaces.TokenSource {
	c := &client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		httpClient: cleanhttp.DefaultClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCredentials reads and validates a service credentials file
func LoadCredentials(path string) (*model.ServiceCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read credentials file",
			goerr.V("path", path),
			goerr.T(types.ErrTagTokenFetch))
	}

	var creds model.ServiceCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, goerr.Wrap(err, "failed to parse credentials file",
			goerr.V("path", path),
			goerr.T(types.ErrTagTokenFetch))
	}

	missing := []string{}
	for field, value := range map[string]string{
		"client_id":            creds.ClientID,
		"client_secret":        creds.ClientSecret,
		"technical_account_id": creds.TechnicalAccountID,
		"org_id":               creds.OrgID,
		"private_key":          creds.PrivateKey,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, goerr.New("credentials file is missing required fields",
			goerr.V("path", path),
			goerr.V("missing", missing),
			goerr.T(types.ErrTagTokenFetch))
	}

	return &creds, nil
}

// AccessToken signs a service-account assertion and exchanges it for a
// bearer token
func (c *client) AccessToken(ctx context.Context) (*model.Token, error) {
	logger := ctxlog.From(ctx)

	assertion, err := c.signAssertion()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_id", c.creds.ClientID)
	form.Set("client_secret", c.creds.ClientSecret)
	form.Set("jwt_token", string(assertion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+exchangePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create token exchange request",
			goerr.T(types.ErrTagTokenFetch))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call token exchange endpoint",
			goerr.V("endpoint", c.baseURL+exchangePath),
			goerr.T(types.ErrTagTokenFetch))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("token exchange rejected",
			goerr.V("endpoint", c.baseURL+exchangePath),
			goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagTokenFetch))
	}

	var token model.Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token response",
			goerr.T(types.ErrTagTokenFetch))
	}
	if token.Value == "" {
		return nil, goerr.New("token response carries no access token",
			goerr.T(types.ErrTagTokenFetch))
	}

	logger.Debug("Obtained access token",
		"client_id", c.creds.ClientID,
		"expires_in", token.ExpiresIn,
	)

	return &token, nil
}

// signAssertion builds and RS256-signs the service-account JWT
func (c *client) signAssertion() ([]byte, error) {
	builder := jwt.NewBuilder().
		Issuer(c.creds.OrgID).
		Subject(c.creds.TechnicalAccountID).
		Audience([]string{c.baseURL + "/c/" + c.creds.ClientID}).
		Expiration(time.Now().Add(assertionTTL))

	for _, scope := range c.creds.Metascopes {
		builder = builder.Claim(scope, true)
	}

	assertion, err := builder.Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build assertion",
			goerr.T(types.ErrTagTokenFetch))
	}

	key, err := jwk.ParseKey([]byte(c.creds.PrivateKey), jwk.WithPEM(true))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse private key",
			goerr.T(types.ErrTagTokenFetch))
	}

	signed, err := jwt.Sign(assertion, jwt.WithKey(jwa.RS256, key))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign assertion",
			goerr.T(types.ErrTagTokenFetch))
	}

	return signed, nil
}
