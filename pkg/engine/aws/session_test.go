package aws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callerIdentityXML = `<GetCallerIdentityResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <GetCallerIdentityResult>
    <Arn>arn:aws:iam::123456789012:user/lab</Arn>
    <UserId>AIDAEXAMPLE</UserId>
    <Account>123456789012</Account>
  </GetCallerIdentityResult>
  <ResponseMetadata><RequestId>4f6a1b2c</RequestId></ResponseMetadata>
</GetCallerIdentityResponse>`

const callerIdentityJSON = `{"Account":"123456789012","Arn":"arn:aws:iam::123456789012:user/lab","UserId":"AIDAEXAMPLE"}`

// isolateAWSEnv points the SDK at srv with static credentials and no host config.
func isolateAWSEnv(t *testing.T, endpoint string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_ENDPOINT_URL", endpoint)
}

func TestVerifyIdentity(t *testing.T) {
	var mu sync.Mutex
	var userAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		userAgent = r.Header.Get("User-Agent")
		mu.Unlock()

		if strings.Contains(r.Header.Get("Content-Type"), "json") {
			w.Header().Set("Content-Type", "application/x-amz-json-1.1")
			_, _ = io.WriteString(w, callerIdentityJSON)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = io.WriteString(w, callerIdentityXML)
	}))
	defer srv.Close()
	isolateAWSEnv(t, srv.URL)

	client, err := NewClient(context.Background(), Options{Region: "us-east-1", Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, srv.URL, client.Endpoint)

	account, err := client.VerifyIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", account)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, userAgent, UserAgent())
}

func TestVerifyIdentityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<ErrorResponse><Error><Type>Sender</Type><Code>InvalidClientTokenId</Code><Message>bad token</Message></Error><RequestId>1</RequestId></ErrorResponse>`)
	}))
	defer srv.Close()
	isolateAWSEnv(t, srv.URL)

	client, err := NewClient(context.Background(), Options{Region: "us-east-1"})
	require.NoError(t, err)

	_, err = client.VerifyIdentity(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get caller identity")
}
