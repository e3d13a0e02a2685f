package twitter

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mrjones/oauth"
)

// userContext is the OAuth 1.0a provider. Only request signing is used, the
// token endpoints are never called.
var userContext = oauth.ServiceProvider{
	RequestTokenUrl:   "https://api.twitter.com/oauth/request_token",
	AuthorizeTokenUrl: "https://api.twitter.com/oauth/authorize",
	AccessTokenUrl:    "https://api.twitter.com/oauth/access_token",
}

// newUserClient returns an http.Client that signs every request as the
// account owning creds.
func newUserClient(creds Credentials, timeout time.Duration, transport http.RoundTripper) (*http.Client, error) {
	if !creds.Valid() {
		return nil, fmt.Errorf("incomplete OAuth credentials for %q", creds.Name)
	}

	consumer := oauth.NewConsumer(creds.ConsumerKey, creds.ConsumerSecret, userContext)
	consumer.HttpClient = &http.Client{Timeout: timeout, Transport: transport}

	client, err := consumer.MakeHttpClient(&oauth.AccessToken{
		Token:  creds.AccessToken,
		Secret: creds.AccessTokenSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign for %q: %w", creds.Name, err)
	}
	client.Timeout = timeout
	return client, nil
}
