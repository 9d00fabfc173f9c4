// Package gitprovider talks to GitHub: it reads files of a commit and publishes
// commit statuses.
package gitprovider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/LambdaTest/neuron/config"
	"github.com/golang-jwt/jwt"
	"github.com/google/go-github/v69/github"
	"github.com/jferrl/go-githubauth"
	"golang.org/x/oauth2"
)

// NewClient returns a GitHub client authenticated either with a static token or,
// when no token is set, as a GitHub App installation.
func NewClient(ctx context.Context, cfg config.GitHub) (*github.Client, error) {
	httpClient, err := authenticate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		baseURL := strings.TrimSuffix(cfg.BaseURL, "/") + "/"
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub BaseURL: %w", err)
		}
	}
	return client, nil
}

func authenticate(ctx context.Context, cfg config.GitHub) (*http.Client, error) {
	if cfg.Token != "" {
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})), nil
	}

	privateKey := []byte(cfg.PrivateKey)
	if _, err := jwt.ParseRSAPrivateKeyFromPEM(privateKey); err != nil {
		return nil, fmt.Errorf("error creating application token source: invalid private key: %s", err.Error())
	}
	appTokenSource, err := githubauth.NewApplicationTokenSource(cfg.AppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("error creating application token source: %s", err.Error())
	}
	installationTokenSource := githubauth.NewInstallationTokenSource(cfg.InstallationID, appTokenSource)
	return oauth2.NewClient(ctx, installationTokenSource), nil
}
