package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/travigo/cifparser/pkg/util"
)

const nationalRailAuthenticateURL = "https://opendata.nationalrail.co.uk/authenticate"

func customAuthNationalRailLogin(ctx context.Context) (string, error) {
	env := util.GetEnvironmentVariables()
	if env["TRAVIGO_NATIONALRAIL_USERNAME"] == "" {
		return "", errors.New("TRAVIGO_NATIONALRAIL_USERNAME must be set")
	}
	if env["TRAVIGO_NATIONALRAIL_PASSWORD"] == "" {
		return "", errors.New("TRAVIGO_NATIONALRAIL_PASSWORD must be set")
	}

	formData := url.Values{
		"username": {env["TRAVIGO_NATIONALRAIL_USERNAME"]},
		"password": {env["TRAVIGO_NATIONALRAIL_PASSWORD"]},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, nationalRailAuthenticateURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("national rail login failed: %s", resp.Status)
	}

	var loginResponse struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResponse); err != nil {
		return "", fmt.Errorf("reading auth response: %w", err)
	}
	if loginResponse.Token == "" {
		return "", errors.New("national rail login returned no token")
	}

	return loginResponse.Token, nil
}
