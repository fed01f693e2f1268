package gdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/pkg/errors"
)

const (
	// ScopeDrive grants full access to the files the writer manages.
	ScopeDrive = "https://www.googleapis.com/auth/drive"

	// ScopeSheets grants read/write access to spreadsheet contents.
	ScopeSheets = "https://www.googleapis.com/auth/spreadsheets"
)

// Authorize builds an HTTP client from the OAuth2 credentials file and a
// previously cached token. The returned client refreshes the access token
// transparently; a missing token is a user error pointing at 'authorise'.
func Authorize(credentials string, workdir string, scopes ...string) (*http.Client, error) {
	config, err := configFromFile(credentials, scopes...)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokenPath(credentials, workdir))
	if err != nil {
		return nil, errors.Wrap(err, "no cached OAuth2 token - run 'authorise' first")
	}

	return config.Client(context.Background(), token), nil
}

// Authenticate runs the console OAuth2 flow - print the consent URL, read
// the authorization code, exchange it and cache the token in the working
// directory.
func Authenticate(credentials string, workdir string, scopes ...string) error {
	config, err := configFromFile(credentials, scopes...)
	if err != nil {
		return err
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return errors.Wrap(err, "unable to read authorization code")
	}

	token, err := config.Exchange(context.Background(), code)
	if err != nil {
		return errors.Wrap(err, "unable to retrieve token from web")
	}

	return saveToken(tokenPath(credentials, workdir), token)
}

func configFromFile(credentials string, scopes ...string) (*oauth2.Config, error) {
	bytes, err := os.ReadFile(credentials)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read credentials file '%s'", credentials)
	}

	config, err := google.ConfigFromJSON(bytes, scopes...)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid credentials file '%s'", credentials)
	}

	return config, nil
}

func tokenPath(credentials string, workdir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(workdir, fmt.Sprintf("%s.tokens", name))
}

func tokenFromFile(pathname string) (*oauth2.Token, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(pathname string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(pathname), 0o750); err != nil {
		return err
	}

	f, err := os.OpenFile(pathname, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrapf(err, "unable to cache OAuth2 token at '%s'", pathname)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
