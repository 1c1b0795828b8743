package scoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// hangUntilCancelled blocks until the client gives up.
func hangUntilCancelled(w http.ResponseWriter, r *http.Request) {
	<-r.Context().Done()
}

func newStubAPI(t *testing.T, handler http.HandlerFunc) fraudapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return fraudapi.NewClient(srv.URL)
}

// closedAPI points at a server that is no longer listening.
func closedAPI(t *testing.T) fraudapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return fraudapi.NewClient(url)
}
