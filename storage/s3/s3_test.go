package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/kbukum/demoassets/errors"
)

func staticAWSConfig() aws.Config {
	return aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Region != DefaultRegion {
		t.Errorf("expected default region, got %q", cfg.Region)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "bucket is required") {
		t.Errorf("expected bucket error, got %v", err)
	}
	cfg.Bucket = "audioshake"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSignedURL(t *testing.T) {
	g := NewFromAWSConfig(staticAWSConfig(), &Config{Bucket: "audioshake", Region: "us-east-1"})

	raw, err := g.SignedURL(context.Background(), "demo-assets/a.mp3", 12*time.Hour)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", raw, err)
	}
	if !strings.HasPrefix(u.Host, "audioshake.s3") {
		t.Errorf("expected virtual-hosted bucket, got host %q", u.Host)
	}
	if u.Path != "/demo-assets/a.mp3" {
		t.Errorf("unexpected path %q", u.Path)
	}
	q := u.Query()
	if q.Get("X-Amz-Expires") != "43200" {
		t.Errorf("X-Amz-Expires = %q, want 43200", q.Get("X-Amz-Expires"))
	}
	if q.Get("X-Amz-Signature") == "" {
		t.Error("expected a signature")
	}
}

const listBody = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>audioshake</Name>
  <Prefix>demo-assets/</Prefix>
  <KeyCount>3</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>demo-assets/</Key><Size>0</Size></Contents>
  <Contents><Key>demo-assets/b.mp3</Key><Size>20</Size></Contents>
  <Contents><Key>demo-assets/a.wav</Key><Size>10</Size></Contents>
</ListBucketResult>`

type recorded struct {
	method      string
	path        string
	contentType string
	body        string
}

func fakeS3(t *testing.T, status int) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)})
		mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
			return
		}
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(listBody))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestListDropsMarkers(t *testing.T) {
	srv, reqs := fakeS3(t, http.StatusOK)
	g := NewFromAWSConfig(staticAWSConfig(), &Config{Bucket: "audioshake", Endpoint: srv.URL})

	objs, err := g.List(context.Background(), "demo-assets/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %v", objs)
	}
	if objs[0].Key != "demo-assets/b.mp3" || objs[0].Size != 20 || objs[1].Key != "demo-assets/a.wav" {
		t.Errorf("unexpected objects or order: %v", objs)
	}
	if got := (*reqs)[0].path; got != "/audioshake" && got != "/audioshake/" {
		t.Errorf("expected path-style bucket request, got %q", got)
	}
}

const firstPage = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>audioshake</Name>
  <Prefix>demo-assets/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>2</MaxKeys>
  <IsTruncated>true</IsTruncated>
  <NextContinuationToken>page-2</NextContinuationToken>
  <Contents><Key>demo-assets/c.mp4</Key><Size>30</Size></Contents>
  <Contents><Key>demo-assets/a.mp3</Key><Size>10</Size></Contents>
</ListBucketResult>`

const secondPage = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>audioshake</Name>
  <Prefix>demo-assets/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>2</MaxKeys>
  <ContinuationToken>page-2</ContinuationToken>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>demo-assets/sub/</Key><Size>0</Size></Contents>
  <Contents><Key>demo-assets/b.wav</Key><Size>20</Size></Contents>
</ListBucketResult>`

func TestListFollowsContinuationTokens(t *testing.T) {
	var mu sync.Mutex
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("continuation-token")
		mu.Lock()
		tokens = append(tokens, token)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/xml")
		switch token {
		case "":
			_, _ = w.Write([]byte(firstPage))
		case "page-2":
			_, _ = w.Write([]byte(secondPage))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	g := NewFromAWSConfig(staticAWSConfig(), &Config{Bucket: "audioshake", Endpoint: srv.URL})
	objs, err := g.List(context.Background(), "demo-assets/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"demo-assets/c.mp4", "demo-assets/a.mp3", "demo-assets/b.wav"}
	if len(objs) != len(want) {
		t.Fatalf("expected %d objects, got %v", len(want), objs)
	}
	for i, key := range want {
		if objs[i].Key != key {
			t.Errorf("objs[%d] = %q, want %q", i, objs[i].Key, key)
		}
	}
	if len(tokens) != 2 || tokens[0] != "" || tokens[1] != "page-2" {
		t.Errorf("unexpected continuation tokens %q", tokens)
	}
}

func TestUploadSendsContentType(t *testing.T) {
	srv, reqs := fakeS3(t, http.StatusOK)
	g := NewFromAWSConfig(staticAWSConfig(), &Config{Bucket: "audioshake", Endpoint: srv.URL})

	err := g.Upload(context.Background(), "demo-assets/a.mp3", strings.NewReader("hello demo"), "audio/mpeg")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(*reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(*reqs))
	}
	r := (*reqs)[0]
	if r.method != http.MethodPut || r.path != "/audioshake/demo-assets/a.mp3" {
		t.Errorf("unexpected request %s %s", r.method, r.path)
	}
	if r.contentType != "audio/mpeg" {
		t.Errorf("Content-Type = %q", r.contentType)
	}
	if !strings.Contains(r.body, "hello demo") {
		t.Errorf("body = %q", r.body)
	}
}

func TestBackendFailuresAreWrapped(t *testing.T) {
	srv, _ := fakeS3(t, http.StatusForbidden)
	g := NewFromAWSConfig(staticAWSConfig(), &Config{Bucket: "audioshake", Endpoint: srv.URL})
	ctx := context.Background()

	if _, err := g.List(ctx, "demo-assets/"); !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("List: expected BACKEND_ERROR, got %v", err)
	}
	if err := g.Upload(ctx, "demo-assets/a.mp3", strings.NewReader("x"), "audio/mpeg"); !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("Upload: expected BACKEND_ERROR, got %v", err)
	}
}

func TestCheckIdentityFailure(t *testing.T) {
	srv, _ := fakeS3(t, http.StatusForbidden)
	c := NewIdentityChecker(staticAWSConfig(), func(o *sts.Options) {
		o.BaseEndpoint = aws.String(srv.URL)
	})

	_, err := c.CheckIdentity(context.Background())
	if !errors.Is(err, errors.ErrCodeBackend) {
		t.Fatalf("expected BACKEND_ERROR, got %v", err)
	}
}
