package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ezbooks/ezb/internal/api"
	"github.com/ezbooks/ezb/internal/session"
)

// initSession builds the session client from config. Tokens persist
// under the XDG data directory, so a prior login survives restarts.
func initSession() (*session.Client, error) {
	authURL := viper.GetString("auth.url")
	if authURL == "" {
		return nil, fmt.Errorf("auth.url is not configured (set it in config.yaml or EZB_AUTH_URL)")
	}

	return session.NewClient(authURL, viper.GetString("auth.api_key"))
}

// initBackend builds the API gateway client backed by the persisted
// session.
func initBackend() (*api.Client, error) {
	baseURL := viper.GetString("api.base_url")
	if baseURL == "" {
		return nil, fmt.Errorf("api.base_url is not configured (set it in config.yaml or EZB_API_BASE_URL)")
	}

	sess, err := initSession()
	if err != nil {
		return nil, err
	}

	return api.NewClient(baseURL, sess), nil
}
