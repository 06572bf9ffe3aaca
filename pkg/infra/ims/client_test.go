package ims_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/domain/types"
	"github.com/cpimport/cpimport/pkg/infra/ims"
)

func testCredentials(t *testing.T) (*model.ServiceCredentials, *rsa.PublicKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	gt.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	return &model.ServiceCredentials{
		ClientID:           "client-123",
		ClientSecret:       "secret-456",
		TechnicalAccountID: "tech-account@example.com",
		OrgID:              "org-789",
		PrivateKey:         string(pemBytes),
		Metascopes:         []string{"https://svc.example.com/s/ent_aem"},
	}, &key.PublicKey
}

func TestClient_AccessToken(t *testing.T) {
	creds, pub := testCredentials(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		gt.NoError(t, r.ParseForm())
		gt.Equal(t, r.PostForm.Get("client_id"), "client-123")
		gt.Equal(t, r.PostForm.Get("client_secret"), "secret-456")

		assertion := r.PostForm.Get("jwt_token")
		gt.Value(t, assertion).NotEqual("")

		tok, err := jwt.Parse([]byte(assertion),
			jwt.WithKey(jwa.RS256, pub),
			jwt.WithValidate(true),
		)
		gt.NoError(t, err)
		gt.Equal(t, tok.Issuer(), "org-789")
		gt.Equal(t, tok.Subject(), "tech-account@example.com")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "issued-token",
			"token_type":   "bearer",
			"expires_in":   86400,
		})
	}))
	defer server.Close()

	client := ims.New(creds, ims.WithBaseURL(server.URL))
	token, err := client.AccessToken(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, token.Value, "issued-token")
	gt.Equal(t, token.Type, "bearer")
}

func TestClient_AccessToken_Rejected(t *testing.T) {
	creds, _ := testCredentials(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := ims.New(creds, ims.WithBaseURL(server.URL))
	_, err := client.AccessToken(context.Background())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagTokenFetch))
}

func TestClient_AccessToken_BadPrivateKey(t *testing.T) {
	creds, _ := testCredentials(t)
	creds.PrivateKey = "not a pem block"

	client := ims.New(creds, ims.WithBaseURL("http://127.0.0.1:1"))
	_, err := client.AccessToken(context.Background())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagTokenFetch))
}

func TestLoadCredentials(t *testing.T) {
	creds, _ := testCredentials(t)
	data, err := json.Marshal(creds)
	gt.NoError(t, err)

	path := filepath.Join(t.TempDir(), "credentials.json")
	gt.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := ims.LoadCredentials(path)
	gt.NoError(t, err)
	gt.Equal(t, loaded.ClientID, creds.ClientID)
	gt.Equal(t, loaded.OrgID, creds.OrgID)
	gt.Equal(t, loaded.Metascopes, creds.Metascopes)
}

func TestLoadCredentials_MissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	gt.NoError(t, os.WriteFile(path, []byte(`{"client_id": "only-this"}`), 0o600))

	_, err := ims.LoadCredentials(path)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagTokenFetch))
	gt.String(t, err.Error()).Contains("missing required fields")
}

func TestLoadCredentials_FileMissing(t *testing.T) {
	_, err := ims.LoadCredentials(filepath.Join(t.TempDir(), "nope.json"))
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagTokenFetch))
}

func TestLoadCredentials_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	gt.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := ims.LoadCredentials(path)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagTokenFetch))
}
